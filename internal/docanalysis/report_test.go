package docanalysis

import (
	"strings"
	"testing"
)

func TestReportSectionOrder(t *testing.T) {
	report, err := AnalyzeDocuments([]TextDocument{{Name: "scan.jpg", Text: fullDocumentText}})
	if err != nil {
		t.Fatal(err)
	}
	md := BuildReportMarkdown(report)
	sections := []string{
		"## Документ 1: scan.jpg",
		"## Проверка Личности Пациента",
		"## Соответствие Клиническим Рекомендациям",
		"## Профессиональная Оценка Точности",
		"## Что Нужно Добавить",
		"## Рекомендуемые Дополнительные Обследования",
		"## Рекомендации по Документу",
	}
	pos := -1
	for _, section := range sections {
		idx := strings.Index(md, section)
		if idx < 0 {
			t.Fatalf("section %q missing", section)
		}
		if idx < pos {
			t.Fatalf("section %q out of order", section)
		}
		pos = idx
	}
}

func TestReportUsesStableSectionSeparator(t *testing.T) {
	report, err := AnalyzeDocuments([]TextDocument{{Name: "a", Text: "короткий текст"}})
	if err != nil {
		t.Fatal(err)
	}
	md := BuildReportMarkdown(report)
	if strings.Count(md, strings.TrimSpace(SectionSeparator)) < 5 {
		t.Fatalf("expected stable section separators, got:\n%s", md)
	}
}

func TestReportMissingFieldLines(t *testing.T) {
	report, err := AnalyzeDocuments([]TextDocument{{Name: "a", Text: "пустой документ"}})
	if err != nil {
		t.Fatal(err)
	}
	md := BuildReportMarkdown(report)
	for _, label := range []string{"Имя Пациента", "Дата", "Врач", "Диагноз", "Подпись"} {
		if !strings.Contains(md, "Добавьте четкое поле «"+label+"»") {
			t.Fatalf("missing actionable line for %q", label)
		}
	}
}

func TestReportAffirmativeLineWhenComplete(t *testing.T) {
	report, err := AnalyzeDocuments([]TextDocument{{Name: "a", Text: fullDocumentText}})
	if err != nil {
		t.Fatal(err)
	}
	md := BuildReportMarkdown(report)
	if !strings.Contains(md, "Документы содержат все основные обязательные поля") {
		t.Fatalf("expected affirmative line, got:\n%s", md)
	}
	if strings.Contains(md, "Добавьте четкое поле") {
		t.Fatalf("no missing-field lines expected")
	}
}

func TestReportFailedDocumentMarker(t *testing.T) {
	analyses := []DocumentAnalysis{
		{Name: "bad.jpg", OCRFailed: true, FailureReason: "unreadable image"},
	}
	report := ComposeReport(analyses, IdentityResult{Status: IdentityUnknown}, CheckRequiredFields(""), ScoreBreakdown{}, Recommend(""))
	md := BuildReportMarkdown(report)
	if !strings.Contains(md, "Не удалось обработать этот документ. unreadable image") {
		t.Fatalf("failure marker missing:\n%s", md)
	}
}

func TestReportExcerptTruncated(t *testing.T) {
	long := strings.Repeat("а", 600)
	report, err := AnalyzeDocuments([]TextDocument{{Name: "a", Text: long}})
	if err != nil {
		t.Fatal(err)
	}
	doc := report.Documents[0]
	if len([]rune(doc.Excerpt)) != ExcerptChars+3 || !strings.HasSuffix(doc.Excerpt, "...") {
		t.Fatalf("unexpected excerpt length %d", len([]rune(doc.Excerpt)))
	}
}
