package docanalysis

import (
	"math"
	"regexp"
	"strings"
)

// requiredFieldTable is the fixed list of mandatory document elements.
// The Found flag of each check is computed against the combined lowercase
// text, never set by callers.
var requiredFieldTable = []RequiredFieldCheck{
	{Label: "Имя Пациента", Keywords: []string{"name", "patient", "имя", "пациент"}},
	{Label: "Дата", Keywords: []string{"date", "дата", "202", "201"}},
	{Label: "Врач", Keywords: []string{"doctor", "dr.", "physician", "врач", "доктор"}},
	{Label: "Диагноз", Keywords: []string{"diagnosis", "диагноз", "condition"}},
	{Label: "Подпись", Keywords: []string{"signature", "signed", "подпись"}},
}

// medicalTerms is the bilingual vocabulary behind the terminology
// sub-score: 3 points per distinct matched term, capped at 20.
var medicalTerms = []string{
	"диагноз", "diagnosis", "лечение", "treatment", "анализ", "test", "результат", "result",
	"рекомендации", "recommendation", "симптом", "symptom", "терапия", "therapy",
}

var (
	properNameRe = regexp.MustCompile(`[A-ZА-ЯЁ][a-zа-яё]+\s+[A-ZА-ЯЁ][a-zа-яё]+`)
	phoneRe      = regexp.MustCompile(`\d{3}[\-\s]?\d{3}[\-\s]?\d{4}`)
)

// CheckRequiredFields evaluates the fixed field list against the combined
// text. Returns fresh check values; the shared table itself is never
// mutated.
func CheckRequiredFields(text string) []RequiredFieldCheck {
	lower := strings.ToLower(text)
	out := make([]RequiredFieldCheck, len(requiredFieldTable))
	for i, field := range requiredFieldTable {
		out[i] = field
		out[i].Found = containsAny(lower, field.Keywords)
	}
	return out
}

// Score computes the weighted quality score over the combined text. Each
// sub-score is capped before summing, so no single heavy signal can
// overflow its bucket and the total is always in [0,100].
func Score(text string, requiredFields []RequiredFieldCheck) ScoreBreakdown {
	lower := strings.ToLower(text)
	b := ScoreBreakdown{}

	found := 0
	for _, f := range requiredFields {
		if f.Found {
			found++
		}
	}
	if len(requiredFields) > 0 {
		b.Completeness = float64(found) / float64(len(requiredFields)) * 40
	}

	if len(text) > 50 {
		b.Formatting += 5
	}
	if dateTokenRe.MatchString(text) {
		b.Formatting += 5
	}
	if len(strings.Split(text, "\n")) > 3 {
		b.Formatting += 5
	}
	if properNameRe.MatchString(text) {
		b.Formatting += 5
	}

	terms := 0
	for _, term := range medicalTerms {
		if strings.Contains(lower, term) {
			terms++
		}
	}
	b.Terminology = terms * 3
	if b.Terminology > 20 {
		b.Terminology = 20
	}

	if strings.Contains(lower, "подпись") || strings.Contains(lower, "signature") {
		b.Authentication += 5
	}
	if strings.Contains(lower, "печать") || strings.Contains(lower, "stamp") || strings.Contains(lower, "seal") {
		b.Authentication += 5
	}

	if phoneRe.MatchString(text) {
		b.Contact += 5
	}
	if strings.Contains(lower, "клиника") || strings.Contains(lower, "clinic") || strings.Contains(lower, "hospital") {
		b.Contact += 5
	}

	sum := b.Completeness + float64(b.Formatting+b.Terminology+b.Authentication+b.Contact)
	b.Total = int(math.Round(sum))
	return b
}

// BandFor maps a total score onto its display band. Boundaries are
// inclusive on the lower bound of each band.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 90:
		return ScoreBand{Label: "Отлично", Color: "#10b981",
			Advice: "Отличная работа! Документ соответствует профессиональным стандартам. Минимальные улучшения могут потребоваться."}
	case score >= 80:
		return ScoreBand{Label: "Очень Хорошо", Color: "#22c55e",
			Advice: "Очень хорошо! Документ почти завершен. Просмотрите небольшие улучшения ниже."}
	case score >= 70:
		return ScoreBand{Label: "Хорошо", Color: "#84cc16",
			Advice: "Хорошая работа. Документ функционален, но может быть улучшен для повышения профессионализма."}
	case score >= 60:
		return ScoreBand{Label: "Удовлетворительно", Color: "#eab308",
			Advice: "Удовлетворительно. Документ нуждается в улучшениях для соответствия стандартам."}
	case score >= 50:
		return ScoreBand{Label: "Требует Улучшений", Color: "#f59e0b",
			Advice: "Требует улучшений. Несколько важных элементов отсутствуют или неполны."}
	default:
		return ScoreBand{Label: "Неудовлетворительно", Color: "#ef4444",
			Advice: "Неудовлетворительно. Документ требует значительной доработки для соответствия медицинским стандартам."}
	}
}
