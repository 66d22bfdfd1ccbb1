package docanalysis

import (
	"fmt"
	"strings"
)

// SectionSeparator is the stable block marker between report sections so
// a downstream renderer can do simple block-level rendering.
const SectionSeparator = "\n---\n\n"

// qualityGuidance is the fixed document-quality checklist appended to
// every report.
var qualityGuidance = []string{
	"Убедитесь, что вся информация о пациенте читабельна и полна",
	"Проверьте, что даты указаны в стандартном формате",
	"Подтвердите, что вся медицинская терминология написана правильно",
	"Проверьте, что подписи и печати присутствуют там, где требуется",
}

var typeLabels = map[DocumentType]string{
	TypePrescription: "Рецепт",
	TypeConsultation: "Медицинская Консультация",
	TypeLabResults:   "Результаты Лабораторных Анализов",
	TypeDischarge:    "Выписка",
	TypeGeneric:      "Медицинский Документ",
}

// BuildReportMarkdown renders a PatientReport as markdown in the fixed
// presentation order: per-document summaries, identity verdict, guideline
// findings, consolidated score, missing fields, recommendations, quality
// guidance. Pure function of the report value.
func BuildReportMarkdown(report PatientReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Отчет о Проверке Медицинских Документов\n\n")
	fmt.Fprintf(&b, "Документов в наборе: %d\n\n", report.DocumentCount)
	fmt.Fprintf(&b, "%s\n", Disclaimer)
	b.WriteString(SectionSeparator)

	buildDocumentSections(&b, report)
	buildIdentitySection(&b, report.Identity)
	buildGuidelineSection(&b, report)
	buildScoreSection(&b, report)
	buildMissingFieldsSection(&b, report.RequiredFields)
	buildRecommendationsSection(&b, report.Recommendations)
	buildGuidanceSection(&b, report.Band)
	return b.String()
}

func buildDocumentSections(b *strings.Builder, report PatientReport) {
	for i, doc := range report.Documents {
		fmt.Fprintf(b, "## Документ %d: %s\n\n", i+1, safe(doc.Name))
		if doc.OCRFailed {
			fmt.Fprintf(b, "**Ошибка**: Не удалось обработать этот документ. %s\n", safe(doc.FailureReason))
			b.WriteString(SectionSeparator)
			continue
		}
		fmt.Fprintf(b, "**Тип Документа**: %s\n\n", typeLabels[doc.Fields.DocumentType])
		fmt.Fprintf(b, "- Пациент: %s\n", displayName(doc.Fields.PatientName))
		fmt.Fprintf(b, "- Врач: %s\n", safe(doc.Fields.DoctorName))
		fmt.Fprintf(b, "- Дата: %s\n\n", safe(doc.Fields.VisitDate))
		fmt.Fprintf(b, "**Извлеченный Текст**:\n```\n%s\n```\n", doc.Excerpt)
		b.WriteString(SectionSeparator)
	}
}

func buildIdentitySection(b *strings.Builder, identity IdentityResult) {
	fmt.Fprintf(b, "## Проверка Личности Пациента\n\n")
	switch identity.Status {
	case IdentityConfirmed:
		fmt.Fprintf(b, "Все документы принадлежат одному пациенту: **%s**\n", safe(identity.CanonicalName))
	case IdentityMismatch:
		fmt.Fprintf(b, "**Внимание**: документы содержат разные имена пациентов:\n\n")
		for _, name := range identity.ConflictingNames {
			fmt.Fprintf(b, "- %s\n", safe(name))
		}
		fmt.Fprintf(b, "\nПроверьте, что все документы относятся к одному пациенту.\n")
	default:
		fmt.Fprintf(b, "Имя пациента не удалось определить ни в одном документе.\n")
	}
	b.WriteString(SectionSeparator)
}

func buildGuidelineSection(b *strings.Builder, report PatientReport) {
	fmt.Fprintf(b, "## Соответствие Клиническим Рекомендациям\n\n")
	for i, doc := range report.Documents {
		if doc.OCRFailed {
			continue
		}
		fmt.Fprintf(b, "Документ %d (%s):\n\n", i+1, safe(doc.Name))
		for _, finding := range doc.GuidelineFindings {
			fmt.Fprintf(b, "- %s\n", finding)
		}
		b.WriteString("\n")
	}
	b.WriteString(SectionSeparator)
}

func buildScoreSection(b *strings.Builder, report PatientReport) {
	fmt.Fprintf(b, "## Профессиональная Оценка Точности\n\n")
	fmt.Fprintf(b, "**Оценка**: %d/100 — **%s**\n\n", report.Score.Total, report.Band.Label)
	fmt.Fprintf(b, "**Проверка Полноты Документов**:\n\n")
	for _, f := range report.RequiredFields {
		mark := "❌"
		status := "Отсутствует или неясно"
		if f.Found {
			mark = "✅"
			status = "Присутствует"
		}
		fmt.Fprintf(b, "- %s %s: %s\n", mark, f.Label, status)
	}
	fmt.Fprintf(b, "\n**Детализация Оценки**:\n\n")
	fmt.Fprintf(b, "- Полнота Документа: %.0f/40\n", report.Score.Completeness)
	fmt.Fprintf(b, "- Профессиональное Оформление: %d/20\n", report.Score.Formatting)
	fmt.Fprintf(b, "- Медицинская Терминология: %d/20\n", report.Score.Terminology)
	fmt.Fprintf(b, "- Аутентификация: %d/10\n", report.Score.Authentication)
	fmt.Fprintf(b, "- Контактная Информация: %d/10\n", report.Score.Contact)
	b.WriteString(SectionSeparator)
}

func buildMissingFieldsSection(b *strings.Builder, fields []RequiredFieldCheck) {
	fmt.Fprintf(b, "## Что Нужно Добавить\n\n")
	missing := 0
	for _, f := range fields {
		if !f.Found {
			fmt.Fprintf(b, "- Добавьте четкое поле «%s»\n", f.Label)
			missing++
		}
	}
	if missing == 0 {
		fmt.Fprintf(b, "- Документы содержат все основные обязательные поля\n")
	}
	b.WriteString(SectionSeparator)
}

func buildRecommendationsSection(b *strings.Builder, recommendations []string) {
	fmt.Fprintf(b, "## Рекомендуемые Дополнительные Обследования\n\n")
	for _, rec := range recommendations {
		fmt.Fprintf(b, "- %s\n", rec)
	}
	b.WriteString(SectionSeparator)
}

func buildGuidanceSection(b *strings.Builder, band ScoreBand) {
	fmt.Fprintf(b, "## Рекомендации по Документу\n\n")
	for _, line := range qualityGuidance {
		fmt.Fprintf(b, "- %s\n", line)
	}
	fmt.Fprintf(b, "\n**Профессиональные Рекомендации**: %s\n", band.Advice)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "не определен"
	}
	return name
}

func safe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(нет)"
	}
	return strings.ReplaceAll(s, "\n", " ")
}
