package render

import (
	"strings"
	"testing"

	"github.com/medreview/medreview/internal/docanalysis"
)

func TestHTMLRendersReport(t *testing.T) {
	report, err := docanalysis.AnalyzeDocuments([]docanalysis.TextDocument{
		{Name: "a.txt", Text: "Пациент: Иван Петров\nДиагноз: гипертония"},
	})
	if err != nil {
		t.Fatal(err)
	}
	env := docanalysis.BuildResponse(docanalysis.Result{Report: report}, "")

	doc, err := HTML(env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, "<h1") || !strings.Contains(doc, "Отчет о Проверке Медицинских Документов") {
		t.Fatalf("heading missing:\n%s", doc)
	}
	if !strings.Contains(doc, "score-badge") || !strings.Contains(doc, env.Report.Band.Color) {
		t.Fatal("score badge missing")
	}
	if !strings.Contains(doc, "<li>") {
		t.Fatal("recommendation list not rendered")
	}
}

func TestHTMLEscapesBandLabel(t *testing.T) {
	env := docanalysis.ResponseEnvelope{
		ReportMarkdown: "# Отчет\n",
		Report: docanalysis.PatientReport{
			Band: docanalysis.ScoreBand{Label: "<script>", Color: "#fff"},
		},
	}
	doc, err := HTML(env)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(doc, "<script>") {
		t.Fatal("band label must be escaped")
	}
}
