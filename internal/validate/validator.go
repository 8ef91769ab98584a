package validate

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// minTextLength is the hard floor below which a document is rejected without
// further inspection.
const minTextLength = 200

// Result reports whether a document reads like a resume. The boolean gate and
// the continuous confidence score are independent signals: a document can
// score above zero and still fail the gate.
type Result struct {
	IsValid        bool     `json:"is_valid"`
	Confidence     float64  `json:"confidence"`
	SectionsFound  []string `json:"sections_found"`
	HasContactInfo bool     `json:"has_contact_info"`
	ContactDetails Contact  `json:"contact_details"`
	TextLength     int      `json:"text_length"`
	WordCount      int      `json:"word_count"`
	Reason         string   `json:"reason,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

// Contact holds the extracted contact fields; each is empty when not found.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

var resumeSections = []string{
	"experience", "education", "skills", "work experience",
	"employment", "qualification", "projects", "internship",
	"objective", "summary", "achievements", "certifications",
}

// Structural indicators: keyword and pattern evidence that the document is a
// resume rather than arbitrary prose.
var resumeIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\b(email|e-mail)\b`),
	regexp.MustCompile(`\b(phone|mobile|contact)\b`),
	regexp.MustCompile(`\b(linkedin|github)\b`),
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`\b(bachelor|master|phd|b\.tech|m\.tech|mba)\b`),
	regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}\b`),
	regexp.MustCompile(`\b(19|20)\d{2}\s*[-–—]\s*(19|20)\d{2}|present\b`),
}

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,5}[-\s.]?[0-9]{1,5}`)
	linkedinPattern = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)
	githubPattern   = regexp.MustCompile(`github\.com/[\w-]+`)
)

// Validate decides from raw text alone whether the document is plausibly a
// resume. Pure function of the text; rejection is a negative Result, never an
// error.
func Validate(text string) Result {
	if utf8.RuneCountInString(text) < minTextLength {
		return Result{
			IsValid:    false,
			Confidence: 0.0,
			Reason:     "Document is too short or text extraction failed",
			Suggestions: []string{
				"Please upload a document with readable text",
				"Ensure the resume is at least one page",
			},
			TextLength: utf8.RuneCountInString(text),
			WordCount:  len(strings.Fields(text)),
		}
	}

	lower := strings.ToLower(text)

	var sectionsFound []string
	for _, section := range resumeSections {
		if strings.Contains(lower, section) {
			sectionsFound = append(sectionsFound, section)
		}
	}

	indicatorsFound := 0
	for _, pattern := range resumeIndicators {
		if pattern.MatchString(lower) {
			indicatorsFound++
		}
	}

	// Sections weigh 60%, structural indicators 40%; both saturate so extra
	// evidence past the threshold earns no bonus.
	confidence := math.Min(float64(len(sectionsFound))/3, 1.0)*0.6 +
		math.Min(float64(indicatorsFound)/4, 1.0)*0.4

	contact := ExtractContact(text)
	hasContact := contact.Email != "" || contact.Phone != "" || contact.LinkedIn != "" || contact.GitHub != ""

	res := Result{
		// Hard three-way gate, deliberately independent of confidence.
		IsValid:        len(sectionsFound) >= 2 && indicatorsFound >= 3 && hasContact,
		Confidence:     round2(confidence),
		SectionsFound:  sectionsFound,
		HasContactInfo: hasContact,
		ContactDetails: contact,
		TextLength:     utf8.RuneCountInString(text),
		WordCount:      len(strings.Fields(text)),
	}

	if !res.IsValid {
		res.Reason = "Document does not appear to be a valid resume"
		if len(sectionsFound) < 2 {
			res.Suggestions = append(res.Suggestions, "Add standard resume sections like Education, Experience, Skills")
		}
		if !hasContact {
			res.Suggestions = append(res.Suggestions, "Include contact information (email, phone)")
		}
		if indicatorsFound < 3 {
			res.Suggestions = append(res.Suggestions, "Structure document with dates, job titles, and qualifications")
		}
	}

	return res
}

// ExtractContact pulls email, phone, linkedin and github fields out of the
// text with dedicated patterns.
func ExtractContact(text string) Contact {
	lower := strings.ToLower(text)
	return Contact{
		Email:    emailPattern.FindString(text),
		Phone:    phonePattern.FindString(text),
		LinkedIn: linkedinPattern.FindString(lower),
		GitHub:   githubPattern.FindString(lower),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
