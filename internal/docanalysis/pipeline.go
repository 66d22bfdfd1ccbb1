package docanalysis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Recognizer is the external OCR collaborator. Implementations live
// outside this package; the pipeline only needs text back.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, languageHint string) (string, error)
}

type ProgressFn func(stage, message string)

// Pipeline runs the full analysis for one patient's document batch:
// OCR per document, field extraction, identity reconciliation, guideline
// checks, scoring and recommendations over the concatenated text, and
// report composition. The pipeline holds no per-run state; every run is
// independent.
type Pipeline struct {
	recognizer   Recognizer
	languageHint string
}

func NewPipeline(recognizer Recognizer, languageHint string) *Pipeline {
	if strings.TrimSpace(languageHint) == "" {
		languageHint = DefaultLanguageHint
	}
	return &Pipeline{recognizer: recognizer, languageHint: languageHint}
}

func (p *Pipeline) Run(ctx context.Context, docs []RawDocument) (Result, error) {
	return p.runWithProgress(ctx, docs, nil)
}

func (p *Pipeline) RunWithProgress(ctx context.Context, docs []RawDocument, progress ProgressFn) (Result, error) {
	return p.runWithProgress(ctx, docs, progress)
}

func (p *Pipeline) runWithProgress(ctx context.Context, docs []RawDocument, progress ProgressFn) (Result, error) {
	res := Result{Metadata: RunMetadata{StartedAt: time.Now()}}
	if len(docs) == 0 {
		return res, ErrNoInput
	}
	if p.recognizer == nil {
		return res, fmt.Errorf("recognizer is required")
	}

	analyses := make([]DocumentAnalysis, 0, len(docs))
	for i, doc := range docs {
		// A cancelled run discards everything; no partial reports.
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		emit(progress, "ocr", fmt.Sprintf("Распознавание документа %d/%d: %s", i+1, len(docs), doc.Name))
		text, err := p.recognizer.Recognize(ctx, doc.Image, p.languageHint)
		res.Metadata.OCRCallsMade++
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			recErr := &RecognitionError{Document: doc.Name, Err: err}
			analyses = append(analyses, DocumentAnalysis{
				Name:          doc.Name,
				OCRFailed:     true,
				FailureReason: recErr.Error(),
			})
			res.Metadata.DocumentsFailed++
			continue
		}
		analyses = append(analyses, DocumentAnalysis{Name: doc.Name, Text: text})
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	emit(progress, "analyze", "Анализ распознанного текста...")
	res.Report = analyze(analyses)
	res.Metadata.DocumentsProcessed = len(docs)
	finalizeMetadata(&res.Metadata)
	return res, nil
}

// AnalyzeDocuments runs the analysis over documents whose text is already
// known, bypassing OCR. Deterministic: identical input yields an
// identical PatientReport.
func AnalyzeDocuments(docs []TextDocument) (PatientReport, error) {
	if len(docs) == 0 {
		return PatientReport{}, ErrNoInput
	}
	analyses := make([]DocumentAnalysis, 0, len(docs))
	for _, doc := range docs {
		analyses = append(analyses, DocumentAnalysis{Name: doc.Name, Text: doc.Text})
	}
	return analyze(analyses), nil
}

// AnalyzeRequest is the pre-OCR'd entry point used by the HTTP surface:
// same analysis, with run metadata filled in.
func AnalyzeRequest(env RequestEnvelope) (Result, error) {
	res := Result{Metadata: RunMetadata{StartedAt: time.Now()}}
	report, err := AnalyzeDocuments(env.Documents)
	if err != nil {
		return res, err
	}
	res.Report = report
	res.Metadata.DocumentsProcessed = len(env.Documents)
	finalizeMetadata(&res.Metadata)
	return res, nil
}

// analyze is the pure fan-in core: per-document extraction, then the
// cross-document stages over concatenated text.
func analyze(analyses []DocumentAnalysis) PatientReport {
	names := make([]string, 0, len(analyses))
	combinedParts := make([]string, 0, len(analyses))
	for i := range analyses {
		doc := &analyses[i]
		if doc.OCRFailed {
			continue
		}
		doc.Fields = ExtractFields(doc.Text)
		doc.Excerpt = excerpt(doc.Text, ExcerptChars)
		doc.GuidelineFindings = CheckGuidelines(doc.Text, doc.Fields.DocumentType)
		names = append(names, doc.Fields.PatientName)
		combinedParts = append(combinedParts, doc.Text)
	}

	combined := strings.Join(combinedParts, "\n")
	identity := ReconcileIdentity(names)
	required := CheckRequiredFields(combined)
	score := Score(combined, required)
	recommendations := Recommend(strings.ToLower(combined))

	return ComposeReport(analyses, identity, required, score, recommendations)
}

// ComposeReport assembles the sub-results into the final report value.
// Pure aggregation, no decision logic.
func ComposeReport(analyses []DocumentAnalysis, identity IdentityResult, required []RequiredFieldCheck, score ScoreBreakdown, recommendations []string) PatientReport {
	return PatientReport{
		Identity:        identity,
		DocumentCount:   len(analyses),
		Documents:       analyses,
		RequiredFields:  required,
		Score:           score,
		Band:            BandFor(score.Total),
		Recommendations: recommendations,
	}
}

// BuildResponse wraps a pipeline result into the wire envelope.
func BuildResponse(result Result, patientRef string) ResponseEnvelope {
	return ResponseEnvelope{
		PatientRef:     patientRef,
		Report:         result.Report,
		ReportMarkdown: BuildReportMarkdown(result.Report),
		Metadata:       result.Metadata,
		Disclaimer:     Disclaimer,
	}
}

func finalizeMetadata(m *RunMetadata) {
	m.CompletedAt = time.Now()
	m.DurationMS = m.CompletedAt.Sub(m.StartedAt).Milliseconds()
}

func emit(progress ProgressFn, stage, message string) {
	if progress != nil {
		progress(stage, message)
	}
}

func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
