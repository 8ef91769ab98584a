package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Defaults applied when a company's postings carry no experience mention.
const (
	defaultAvgExperience = 2
	defaultMinExperience = 0
	defaultMaxExperience = 5
)

// CompanyProfile is the aggregated hiring-requirement summary for one
// company, built offline from scraped job postings and read-only at request
// time.
type CompanyProfile struct {
	CompanyName           string  `json:"company_name"`
	JobCount              int     `json:"job_count"`
	DescriptionText       string  `json:"description_text"`
	AvgExperienceRequired float64 `json:"avg_experience_required"`
	MinExperience         float64 `json:"min_experience"`
	MaxExperience         float64 `json:"max_experience"`
}

// JobPosting is one scraped job posting; only the fields the aggregation
// rule needs.
type JobPosting struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// experienceMentionPattern matches "<N>+ years" style requirements inside a
// job description.
var experienceMentionPattern = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)

// BuildProfiles aggregates scraped postings into one profile per company:
// descriptions are concatenated and experience-year mentions averaged, with
// {2, 0, 5} defaults when no mention is found. Output is ordered by company
// name so repeated builds produce identical files.
func BuildProfiles(postings []JobPosting) []CompanyProfile {
	byCompany := make(map[string][]JobPosting)
	for _, p := range postings {
		name := strings.TrimSpace(p.Company)
		if name == "" {
			continue
		}
		byCompany[name] = append(byCompany[name], p)
	}

	names := make([]string, 0, len(byCompany))
	for name := range byCompany {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]CompanyProfile, 0, len(names))
	for _, name := range names {
		jobs := byCompany[name]

		var descriptions []string
		var mentions []float64
		for _, job := range jobs {
			if job.Description == "" {
				continue
			}
			descriptions = append(descriptions, job.Description)
			if m := experienceMentionPattern.FindStringSubmatch(strings.ToLower(job.Description)); m != nil {
				if years, err := strconv.Atoi(m[1]); err == nil {
					mentions = append(mentions, float64(years))
				}
			}
		}

		profile := CompanyProfile{
			CompanyName:           name,
			JobCount:              len(jobs),
			DescriptionText:       strings.Join(descriptions, " "),
			AvgExperienceRequired: defaultAvgExperience,
			MinExperience:         defaultMinExperience,
			MaxExperience:         defaultMaxExperience,
		}
		if len(mentions) > 0 {
			sum, min, max := mentions[0], mentions[0], mentions[0]
			for _, v := range mentions[1:] {
				sum += v
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			profile.AvgExperienceRequired = sum / float64(len(mentions))
			profile.MinExperience = min
			profile.MaxExperience = max
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

// Profiles is the process-wide read-mostly company-profile set. Iteration
// order is fixed at load time (names sorted), which also fixes tie-break
// order in ranked match output. Reload swaps the whole set; in-flight
// requests keep reading the set they started with.
type Profiles struct {
	mu    sync.RWMutex
	byKey map[string]CompanyProfile
	order []string
}

// NewProfiles builds a profile set from a slice, deduplicating by company
// name (last one wins) and fixing iteration order.
func NewProfiles(list []CompanyProfile) *Profiles {
	p := &Profiles{}
	p.Replace(list)
	return p
}

// Replace swaps the entire profile set. Never mutates in place.
func (p *Profiles) Replace(list []CompanyProfile) {
	byKey := make(map[string]CompanyProfile, len(list))
	for _, profile := range list {
		byKey[profile.CompanyName] = profile
	}
	order := make([]string, 0, len(byKey))
	for name := range byKey {
		order = append(order, name)
	}
	sort.Strings(order)

	p.mu.Lock()
	p.byKey = byKey
	p.order = order
	p.mu.Unlock()
}

// Get returns the profile for a company name, if loaded.
func (p *Profiles) Get(name string) (CompanyProfile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.byKey[name]
	return profile, ok
}

// Names returns company names in iteration order.
func (p *Profiles) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

// Len reports the number of loaded profiles.
func (p *Profiles) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}

// All returns the profiles in iteration order.
func (p *Profiles) All() []CompanyProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]CompanyProfile, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.byKey[name])
	}
	return out
}
