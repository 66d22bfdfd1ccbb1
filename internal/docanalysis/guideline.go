package docanalysis

import "strings"

// guidelineKeywords marks an explicit reference to a clinical guideline
// or treatment protocol.
var guidelineKeywords = []string{
	"клинические рекомендации",
	"клиническим рекомендациям",
	"протокол",
	"guideline",
	"protocol",
}

type presenceCheck struct {
	Keywords []string
	Present  string
	Absent   string
}

// categoryRules adds type-specific protocol checks on top of the
// always-emitted guideline-reference finding. The table is deliberately
// small; new specialties extend it without touching CheckGuidelines.
var categoryRules = []struct {
	Name   string
	Detect []string
	Checks []presenceCheck
}{
	{
		Name:   "gynecology",
		Detect: []string{"гинеколог", "gynecol", "женск", "матк", "uterus"},
		Checks: []presenceCheck{
			{
				Keywords: []string{"узи", "ultrasound", "эхограф"},
				Present:  "Назначение УЗИ указано в документе",
				Absent:   "Назначение УЗИ в документе не найдено",
			},
			{
				Keywords: []string{"анализ", "мазок", "test", "цитолог"},
				Present:  "Назначение лабораторных исследований указано в документе",
				Absent:   "Назначение лабораторных исследований в документе не найдено",
			},
		},
	},
}

// CheckGuidelines inspects one document for clinical-guideline references
// and type-specific protocol markers. It always emits exactly one finding
// about the guideline reference; category findings are appended when the
// document matches a category in the rule table.
func CheckGuidelines(text string, docType DocumentType) []string {
	lower := strings.ToLower(text)

	findings := make([]string, 0, 3)
	if containsAny(lower, guidelineKeywords) {
		findings = append(findings, "Ссылка на клинические рекомендации обнаружена")
	} else {
		findings = append(findings, "Ссылка на клинические рекомендации отсутствует")
	}

	for _, rule := range categoryRules {
		if !containsAny(lower, rule.Detect) {
			continue
		}
		for _, check := range rule.Checks {
			if containsAny(lower, check.Keywords) {
				findings = append(findings, check.Present)
			} else {
				findings = append(findings, check.Absent)
			}
		}
	}
	return findings
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
