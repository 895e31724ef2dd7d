package report

import "regexp"

// Name extraction patterns, tried in order. Capitalized word runs after a
// label or honorific. The Dr pattern usually hits the physician rather than
// the patient, so it comes last.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Name\s*[:\-]\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`Patient(?:'s)?\s+Name\s*[:\-]\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`Patient\s*[:\-]\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`Mr\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`Ms\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`Mrs\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`Dr\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
}

var digitRE = regexp.MustCompile(`\d`)

// FindPatientName scans raw report text for a patient name. The first match
// between 2 and 50 characters without digits wins.
func FindPatientName(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := m[1]
		if len(name) >= 2 && len(name) <= 50 && !digitRE.MatchString(name) {
			return name, true
		}
	}
	return "", false
}
