package match

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company_profiles.json")
	store := NewJSONStore(path)
	ctx := context.Background()

	original := []CompanyProfile{
		{
			CompanyName:           "Acme",
			JobCount:              4,
			DescriptionText:       "python go docker engineer",
			AvgExperienceRequired: 3.5,
			MinExperience:         1,
			MaxExperience:         6,
		},
		{
			CompanyName:           "Globex",
			JobCount:              1,
			DescriptionText:       "react designer",
			AvgExperienceRequired: 2,
			MinExperience:         0,
			MaxExperience:         5,
		},
	}

	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(original, loaded) {
		t.Fatalf("round trip mismatch:\n save: %+v\n load: %+v", original, loaded)
	}

	// Reloading must reproduce identical MatchResults for a fixed record.
	rec := backendRecord()
	before := NewMatcher(NewProfiles(original)).AllMatches(rec)
	after := NewMatcher(NewProfiles(loaded)).AllMatches(rec)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("match results differ after reload:\n before: %+v\n after: %+v", before, after)
	}
}

func TestJSONStoreDefaultsMissingExperienceFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company_profiles.json")
	raw := `{
	  "Acme": {"job_count": 3, "description_text": "go services"},
	  "Globex": {"job_count": 1, "description_text": "react apps", "avg_experience_required": 0, "max_experience": 1}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	profiles, err := NewJSONStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}

	acme := profiles[0]
	if acme.CompanyName != "Acme" {
		t.Fatalf("first profile = %q, want Acme", acme.CompanyName)
	}
	if acme.AvgExperienceRequired != 2 || acme.MinExperience != 0 || acme.MaxExperience != 5 {
		t.Fatalf("absent experience fields must default to {2, 0, 5}, got {%v, %v, %v}",
			acme.AvgExperienceRequired, acme.MinExperience, acme.MaxExperience)
	}

	// Explicit values, including zero, are kept as written.
	globex := profiles[1]
	if globex.AvgExperienceRequired != 0 || globex.MaxExperience != 1 {
		t.Fatalf("explicit experience fields must survive, got {%v, %v}",
			globex.AvgExperienceRequired, globex.MaxExperience)
	}
}

func TestJSONStoreMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	profiles, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected empty set, got %v", profiles)
	}
}
