package docanalysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Extraction is strategy-list driven: each field has an ordered slice of
// candidate matchers and the first success wins. Keeping the ordering in
// data (not nested conditionals) lets tests pin it down in isolation.

var (
	// Only horizontal whitespace inside the capture; a name never
	// continues past the end of its line.
	labeledNameRe = regexp.MustCompile(`(?:[Пп]ациент|[Pp]atient)[ \t]*:[ \t]*([А-ЯЁA-Z][а-яёa-z]+(?:[ \t]+[А-ЯЁA-Z][а-яёa-z]+){1,2})`)

	// A standalone Firstname Middlename Lastname line. Inherited heuristic:
	// any short capitalized three-token line is assumed to be the patient.
	bareNameLineRe = regexp.MustCompile(`^[А-ЯЁA-Z][а-яёa-z]+\s+[А-ЯЁA-Z][а-яёa-z]+\s+[А-ЯЁA-Z][а-яёa-z]+$`)

	dateTokenRe   = regexp.MustCompile(`\d{1,2}[.\-/]\d{1,2}[.\-/]\d{2,4}`)
	labeledDateRe = regexp.MustCompile(`(?:[Дд]ата|[Dd]ate)\s*:\s*(\d{1,2}[.\-/]\d{1,2}[.\-/]\d{2,4})`)

	doctorRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:[Дд]октор)\s*:\s*([^\n]+)`),
		regexp.MustCompile(`(?:[Вв]рач)\s*:\s*([^\n]+)`),
		regexp.MustCompile(`(?:[Dd]octor)\s*:\s*([^\n]+)`),
		regexp.MustCompile(`(?:[Лл]ечащий\s+врач)\s*:\s*([^\n]+)`),
	}
)

type fieldStrategy func(text string) (string, bool)

var patientNameStrategies = []fieldStrategy{
	matchLabeledName,
	matchBareNameLine,
}

var visitDateStrategies = []fieldStrategy{
	matchLabeledDate,
	matchBareDateToken,
}

// typeRules classifies a document by keyword, first matching category
// wins. Order is the priority order.
var typeRules = []struct {
	DocType  DocumentType
	Keywords []string
}{
	{TypePrescription, []string{"prescription", "rx", "рецепт"}},
	{TypeConsultation, []string{"consultation", "консультация"}},
	{TypeLabResults, []string{"lab", "test", "анализ"}},
	{TypeDischarge, []string{"discharge", "выписка"}},
}

// ExtractFields derives the structured fields from one document's raw
// text. Pure; malformed or empty text yields all-default fields, never an
// error.
func ExtractFields(text string) ExtractedFields {
	return ExtractedFields{
		PatientName:  firstMatch(patientNameStrategies, text),
		DoctorName:   extractDoctorName(text),
		VisitDate:    defaultIfEmpty(firstMatch(visitDateStrategies, text), NotSpecified),
		DocumentType: ClassifyDocumentType(text),
	}
}

// ClassifyDocumentType applies the typeRules priority table to the
// lowercased text. No keyword match yields TypeGeneric.
func ClassifyDocumentType(text string) DocumentType {
	lower := strings.ToLower(text)
	for _, rule := range typeRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.DocType
			}
		}
	}
	return TypeGeneric
}

func firstMatch(strategies []fieldStrategy, text string) string {
	for _, s := range strategies {
		if v, ok := s(text); ok {
			return v
		}
	}
	return ""
}

func matchLabeledName(text string) (string, bool) {
	m := labeledNameRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func matchBareNameLine(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) >= 100 {
			continue
		}
		if bareNameLineRe.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

func extractDoctorName(text string) string {
	for _, re := range doctorRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return NotSpecified
}

func matchLabeledDate(text string) (string, bool) {
	m := labeledDateRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func matchBareDateToken(text string) (string, bool) {
	m := dateTokenRe.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

func defaultIfEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
