// Package render turns a composed report into presentation formats. The
// analysis core only emits markdown; HTML and PDF are derived here.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/medreview/medreview/internal/docanalysis"
)

const pageCSS = `body{font-family:'Segoe UI',Arial,sans-serif;color:#1c1917;margin:0;background:#f8f9ff;}
.report-wrap{max-width:860px;margin:0 auto;padding:1.2rem;}
.report-html{background:#fff;border-radius:10px;padding:1.4rem;box-shadow:0 1px 4px rgba(0,0,0,0.08);}
.report-html h1{font-size:1.5rem;border-bottom:2px solid #667eea;padding-bottom:0.4rem;}
.report-html h2{font-size:1.15rem;color:#4c3f91;margin-top:1.3rem;}
.report-html pre{background:#f4f4f6;padding:0.7rem;border-radius:6px;overflow-x:auto;font-size:0.85rem;}
.report-html hr{border:0;border-top:1px solid #e2e2ea;margin:1.1rem 0;}
.score-badge{display:inline-block;padding:0.25rem 0.7rem;border-radius:999px;color:#fff;font-weight:700;}`

// HTML renders the report envelope as a standalone HTML document. The
// score badge uses the band color the scorer assigned.
func HTML(env docanalysis.ResponseEnvelope) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(env.ReportMarkdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	badge := fmt.Sprintf(`<span class="score-badge" style="background:%s">%d/100 — %s</span>`,
		html.EscapeString(env.Report.Band.Color), env.Report.Score.Total, html.EscapeString(env.Report.Band.Label))

	return "<!doctype html><html><head><meta charset='utf-8'><title>Отчет о Проверке Медицинских Документов</title>" +
		"<style>" + pageCSS + "</style></head><body>" +
		"<div class='report-wrap'>" + badge + "<div class='report-html'>" + content.String() + "</div></div>" +
		"</body></html>", nil
}
