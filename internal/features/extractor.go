package features

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// currentYear closes open-ended date ranges ("2021 - present").
const currentYear = 2025

const positionSnippetLimit = 100

// Record is the structured summary derived from resume text. It is immutable
// once built; downstream scoring reads it only.
type Record struct {
	Skills     []string   `json:"skills"`
	Experience Experience `json:"experience"`
	Education  Education  `json:"education"`
	TextLength int        `json:"text_length"`
	WordCount  int        `json:"word_count"`
}

// Experience aggregates date-range and job-title evidence found in the text.
type Experience struct {
	TotalYears float64  `json:"total_years"`
	Positions  []string `json:"positions"`
}

// Education lists every degree mention and the highest level seen.
type Education struct {
	Degrees      []Degree `json:"degrees"`
	HighestLevel int      `json:"highest_level"`
}

// Degree is one matched degree keyword with its seniority level (2..5).
type Degree struct {
	Name  string `json:"degree"`
	Level int    `json:"level"`
}

// SkillCount is a convenience accessor used by the scorers.
func (r Record) SkillCount() int { return len(r.Skills) }

// skillVocabulary is matched by case-insensitive substring containment. The
// category only drives vocabulary organization; it is not retained in the
// output.
var skillVocabulary = []struct {
	category string
	skills   []string
}{
	{"languages", []string{"python", "java", "javascript", "c++", "c#", "ruby", "go", "rust", "php", "swift", "kotlin", "typescript"}},
	{"frameworks", []string{"django", "flask", "fastapi", "react", "angular", "vue", "node.js", "express", "spring", "asp.net"}},
	{"databases", []string{"sql", "mysql", "postgresql", "mongodb", "redis", "cassandra", "dynamodb", "oracle"}},
	{"cloud", []string{"aws", "azure", "gcp", "heroku", "digitalocean"}},
	{"devops", []string{"docker", "kubernetes", "jenkins", "gitlab ci", "github actions", "terraform", "ansible"}},
	{"ml_ai", []string{"machine learning", "deep learning", "tensorflow", "pytorch", "keras", "scikit-learn", "nlp", "computer vision", "opencv"}},
	{"data", []string{"pandas", "numpy", "matplotlib", "seaborn", "tableau", "power bi", "spark", "hadoop"}},
	{"tools", []string{"git", "jira", "confluence", "postman", "vs code", "jupyter"}},
}

var jobTitleKeywords = []string{
	"engineer", "developer", "analyst", "scientist",
	"manager", "consultant", "architect", "designer",
}

// degreeLevels maps degree keywords to a seniority level. Synonymous forms
// are all recorded when present (e.g. "master" and "mba").
var degreeLevels = []Degree{
	{"phd", 5},
	{"ph.d", 5},
	{"doctorate", 5},
	{"master", 4},
	{"m.tech", 4},
	{"mtech", 4},
	{"m.s", 4},
	{"mba", 4},
	{"bachelor", 3},
	{"b.tech", 3},
	{"btech", 3},
	{"b.e", 3},
	{"b.s", 3},
	{"diploma", 2},
}

// yearRangePattern tolerates hyphen, en dash and em dash separators.
var yearRangePattern = regexp.MustCompile(`(20\d{2}|19\d{2})\s*[-–—]\s*(20\d{2}|19\d{2}|present|current)`)

// Extract derives a Record from raw resume text. It is a pure function:
// identical text always yields an identical Record, and malformed or empty
// text yields zeroed fields rather than an error.
func Extract(text string) Record {
	return Record{
		Skills:     extractSkills(text),
		Experience: extractExperience(text),
		Education:  extractEducation(text),
		TextLength: utf8.RuneCountInString(text),
		WordCount:  len(strings.Fields(text)),
	}
}

func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var found []string
	for _, group := range skillVocabulary {
		for _, skill := range group.skills {
			if seen[skill] {
				continue
			}
			if strings.Contains(lower, skill) {
				seen[skill] = true
				found = append(found, skill)
			}
		}
	}
	sort.Strings(found)
	return found
}

func extractExperience(text string) Experience {
	lower := strings.ToLower(text)

	// Overlapping or unordered ranges are summed naively; that matches the
	// documented contract and keeps repeat runs reproducible.
	totalMonths := 0
	for _, m := range yearRangePattern.FindAllStringSubmatch(lower, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := currentYear
		if m[2] != "present" && m[2] != "current" {
			end, err = strconv.Atoi(m[2])
			if err != nil {
				continue
			}
		}
		totalMonths += (end - start) * 12
	}

	exp := Experience{
		TotalYears: round1(float64(totalMonths) / 12),
	}

	for _, sentence := range SplitSentences(text) {
		sentLower := strings.ToLower(sentence)
		for _, title := range jobTitleKeywords {
			if strings.Contains(sentLower, title) {
				exp.Positions = append(exp.Positions, truncate(strings.TrimSpace(sentence), positionSnippetLimit))
				break
			}
		}
	}
	return exp
}

func extractEducation(text string) Education {
	lower := strings.ToLower(text)
	edu := Education{}
	for _, d := range degreeLevels {
		if strings.Contains(lower, d.Name) {
			edu.Degrees = append(edu.Degrees, d)
			if d.Level > edu.HighestLevel {
				edu.HighestLevel = d.Level
			}
		}
	}
	return edu
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
