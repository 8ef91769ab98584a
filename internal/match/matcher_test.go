package match

import (
	"testing"

	"resume-matcher/internal/features"
)

func testProfiles() *Profiles {
	return NewProfiles([]CompanyProfile{
		{
			CompanyName:           "Acme",
			JobCount:              3,
			DescriptionText:       "Backend engineer role using python go docker kubernetes postgresql aws",
			AvgExperienceRequired: 2,
			MinExperience:         0,
			MaxExperience:         5,
		},
		{
			CompanyName:           "Globex",
			JobCount:              1,
			DescriptionText:       "Frontend designer building react and typescript interfaces",
			AvgExperienceRequired: 5,
			MinExperience:         2,
			MaxExperience:         8,
		},
	})
}

func backendRecord() features.Record {
	return features.Record{
		Skills: []string{"python", "go", "docker", "kubernetes", "postgresql", "aws"},
		Experience: features.Experience{
			TotalYears: 3,
			Positions:  []string{"Backend engineer at Acme building python services"},
		},
		Education:  features.Education{HighestLevel: 3},
		TextLength: 2500,
		WordCount:  700,
	}
}

func TestScoreProbabilityBounds(t *testing.T) {
	m := NewMatcher(testProfiles())
	res := m.Score(backendRecord(), "Acme")
	if res.Probability < 0 || res.Probability > 100 {
		t.Fatalf("probability out of range: %v", res.Probability)
	}
	for _, f := range []float64{res.Factors.SkillsMatch, res.Factors.ExperienceMatch, res.Factors.EducationMatch, res.Factors.Completeness} {
		if f < 0 || f > 100 {
			t.Fatalf("factor out of range: %v", f)
		}
	}
}

func TestScoreUnknownCompany(t *testing.T) {
	m := NewMatcher(testProfiles())
	res := m.Score(backendRecord(), "Initech")
	if res.Probability != 0 {
		t.Fatalf("probability = %v, want 0", res.Probability)
	}
	if res.Message == "" {
		t.Fatal("expected explanatory message for unknown company")
	}
}

func TestExperienceStepFunction(t *testing.T) {
	profiles := NewProfiles([]CompanyProfile{{
		CompanyName:           "Strict",
		DescriptionText:       "engineer role",
		AvgExperienceRequired: 5,
	}})
	m := NewMatcher(profiles)

	cases := []struct {
		name  string
		years float64
		want  float64
	}{
		{"at_or_above_required", 5, 100},
		{"above_required", 7, 100},
		{"at_seventy_percent", 3.5, 80},
		{"at_half_inclusive", 2.5, 60},
		{"below_half", 2, 30},
		{"zero", 0, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := features.Record{
				Skills:     []string{"python"},
				Experience: features.Experience{TotalYears: tc.years},
			}
			res := m.Score(rec, "Strict")
			if res.Factors.ExperienceMatch != tc.want {
				t.Fatalf("experience factor = %v, want %v", res.Factors.ExperienceMatch, tc.want)
			}
		})
	}
}

func TestSkillsMatchEmptySidesAreZero(t *testing.T) {
	profiles := NewProfiles([]CompanyProfile{
		{CompanyName: "Empty", DescriptionText: "", AvgExperienceRequired: 2},
		{CompanyName: "Full", DescriptionText: "python engineer", AvgExperienceRequired: 2},
	})
	m := NewMatcher(profiles)

	// Empty company description.
	res := m.Score(backendRecord(), "Empty")
	if res.Factors.SkillsMatch != 0 {
		t.Fatalf("skills factor with empty description = %v, want 0", res.Factors.SkillsMatch)
	}

	// Empty candidate side.
	res = m.Score(features.Record{}, "Full")
	if res.Factors.SkillsMatch != 0 {
		t.Fatalf("skills factor with empty candidate = %v, want 0", res.Factors.SkillsMatch)
	}
}

func TestConfidenceLabels(t *testing.T) {
	cases := []struct {
		probability float64
		want        string
	}{
		{100, "high"},
		{70.1, "high"},
		{70, "medium"},
		{40.1, "medium"},
		{40, "low"},
		{0, "low"},
	}
	for _, tc := range cases {
		if got := confidenceLabel(tc.probability); got != tc.want {
			t.Errorf("confidenceLabel(%v) = %q, want %q", tc.probability, got, tc.want)
		}
	}
}

func TestAllMatchesSortedDescending(t *testing.T) {
	m := NewMatcher(testProfiles())
	results := m.AllMatches(backendRecord())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Probability > results[i-1].Probability {
			t.Fatalf("results not sorted descending: %v", results)
		}
	}
	// The backend-heavy record should fit Acme better than Globex.
	if results[0].Company != "Acme" {
		t.Fatalf("expected Acme first, got %q", results[0].Company)
	}
}

func TestAllMatchesTiesKeepIterationOrder(t *testing.T) {
	// Identical profiles produce identical probabilities; the stable sort
	// must keep the name-sorted iteration order.
	profiles := NewProfiles([]CompanyProfile{
		{CompanyName: "Zeta", DescriptionText: "python engineer", AvgExperienceRequired: 2},
		{CompanyName: "Alpha", DescriptionText: "python engineer", AvgExperienceRequired: 2},
	})
	m := NewMatcher(profiles)
	results := m.AllMatches(backendRecord())
	if results[0].Company != "Alpha" || results[1].Company != "Zeta" {
		t.Fatalf("tie order broken: %q then %q", results[0].Company, results[1].Company)
	}
	if results[0].Probability != results[1].Probability {
		t.Fatalf("expected a tie, got %v and %v", results[0].Probability, results[1].Probability)
	}
}

func TestAllMatchesEmptyProfileSet(t *testing.T) {
	m := NewMatcher(NewProfiles(nil))
	if results := m.AllMatches(backendRecord()); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestBuildProfilesAggregation(t *testing.T) {
	postings := []JobPosting{
		{Company: "Acme", Description: "Backend role requiring 3+ years of go"},
		{Company: "Acme", Description: "Senior role, 5 years experience in python"},
		{Company: "Acme", Description: "Intern role with no requirement"},
		{Company: "Globex", Description: "Designer position"},
	}
	profiles := BuildProfiles(postings)
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}

	acme := profiles[0]
	if acme.CompanyName != "Acme" {
		t.Fatalf("expected Acme first, got %q", acme.CompanyName)
	}
	if acme.JobCount != 3 {
		t.Errorf("job count = %d, want 3", acme.JobCount)
	}
	if acme.AvgExperienceRequired != 4 {
		t.Errorf("avg experience = %v, want 4", acme.AvgExperienceRequired)
	}
	if acme.MinExperience != 3 || acme.MaxExperience != 5 {
		t.Errorf("min/max = %v/%v, want 3/5", acme.MinExperience, acme.MaxExperience)
	}

	globex := profiles[1]
	if globex.AvgExperienceRequired != 2 || globex.MinExperience != 0 || globex.MaxExperience != 5 {
		t.Errorf("expected default experience bounds, got %+v", globex)
	}
}
