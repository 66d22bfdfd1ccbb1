package docanalysis

import "time"

const Disclaimer = "Это автоматизированная эвристическая проверка оформления документов, " +
	"а не медицинское заключение. Обсудите результаты с лечащим врачом."

const (
	// NotSpecified is the placeholder for doctor name and visit date when
	// no extraction strategy matched.
	NotSpecified = "not specified"

	// DefaultLanguageHint is passed to the OCR collaborator unless the
	// caller overrides it.
	DefaultLanguageHint = "eng+rus"

	// ExcerptChars bounds the extracted-text excerpt embedded in the report.
	ExcerptChars = 500
)

type DocumentType string

const (
	TypePrescription DocumentType = "PRESCRIPTION"
	TypeConsultation DocumentType = "CONSULTATION"
	TypeLabResults   DocumentType = "LAB_RESULTS"
	TypeDischarge    DocumentType = "DISCHARGE"
	TypeGeneric      DocumentType = "GENERIC"
)

type IdentityStatus string

const (
	IdentityConfirmed IdentityStatus = "CONFIRMED"
	IdentityMismatch  IdentityStatus = "MISMATCH"
	IdentityUnknown   IdentityStatus = "UNKNOWN"
)

// RawDocument is one scanned page as received from the caller. Image is
// opaque to this package; it is handed to the OCR collaborator as-is.
type RawDocument struct {
	Name  string `json:"name"`
	Image []byte `json:"-"`
}

// TextDocument is a document whose text is already known, either because
// OCR ran upstream or because the input was never an image.
type TextDocument struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ExtractedFields is the structured view of one document's text. An empty
// PatientName means no name was found; DoctorName and VisitDate fall back
// to NotSpecified instead.
type ExtractedFields struct {
	PatientName  string       `json:"patient_name,omitempty"`
	DoctorName   string       `json:"doctor_name"`
	VisitDate    string       `json:"visit_date"`
	DocumentType DocumentType `json:"document_type"`
}

// RequiredFieldCheck records whether one mandatory document element was
// detected anywhere in the patient's combined text.
type RequiredFieldCheck struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
	Found    bool     `json:"found"`
}

// ScoreBreakdown is the weighted quality score. Each component is capped
// independently; Total is the rounded sum and therefore always in [0,100].
type ScoreBreakdown struct {
	Completeness   float64 `json:"completeness"`   // 0..40
	Formatting     int     `json:"formatting"`     // 0..20
	Terminology    int     `json:"terminology"`    // 0..20
	Authentication int     `json:"authentication"` // 0..10
	Contact        int     `json:"contact"`        // 0..10
	Total          int     `json:"total"`          // 0..100
}

// ScoreBand maps a total score onto a display label, color and the
// band-dependent closing advice paragraph.
type ScoreBand struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Advice string `json:"advice"`
}

// IdentityResult is the cross-document patient identity verdict. This is
// a correctness gate: a MISMATCH means the aggregate score and
// recommendations may mix two patients, and the caller may treat it as
// blocking.
type IdentityResult struct {
	Status           IdentityStatus `json:"status"`
	CanonicalName    string         `json:"canonical_name,omitempty"`
	ConflictingNames []string       `json:"conflicting_names,omitempty"`
}

// DocumentAnalysis is the per-document slice of the report. When OCR
// failed, OCRFailed is set, FailureReason carries the collaborator's
// message, and the remaining fields are zero.
type DocumentAnalysis struct {
	Name              string          `json:"name"`
	Text              string          `json:"-"`
	Excerpt           string          `json:"excerpt,omitempty"`
	OCRFailed         bool            `json:"ocr_failed,omitempty"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	Fields            ExtractedFields `json:"fields"`
	GuidelineFindings []string        `json:"guideline_findings,omitempty"`
}

// PatientReport is the assembled analysis for one patient's document set.
// It is pure data: building it twice from the same inputs yields an
// identical value.
type PatientReport struct {
	Identity        IdentityResult       `json:"identity"`
	DocumentCount   int                  `json:"document_count"`
	Documents       []DocumentAnalysis   `json:"documents"`
	RequiredFields  []RequiredFieldCheck `json:"required_fields"`
	Score           ScoreBreakdown       `json:"score"`
	Band            ScoreBand            `json:"band"`
	Recommendations []string             `json:"recommendations"`
}

// RunMetadata carries the non-deterministic run bookkeeping, kept apart
// from PatientReport so reports stay comparable byte-for-byte.
type RunMetadata struct {
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	DurationMS         int64     `json:"duration_ms"`
	DocumentsProcessed int       `json:"documents_processed"`
	DocumentsFailed    int       `json:"documents_failed"`
	OCRCallsMade       int       `json:"ocr_calls_made"`
}

// Result is what one pipeline run produces.
type Result struct {
	Report   PatientReport `json:"report"`
	Metadata RunMetadata   `json:"metadata"`
}

type RequestEnvelope struct {
	PatientRef string         `json:"patient_ref,omitempty"`
	Documents  []TextDocument `json:"documents"`
}

type ResponseEnvelope struct {
	ID             string        `json:"id,omitempty"`
	PatientRef     string        `json:"patient_ref,omitempty"`
	Report         PatientReport `json:"report"`
	ReportMarkdown string        `json:"report_markdown"`
	Metadata       RunMetadata   `json:"metadata"`
	Disclaimer     string        `json:"disclaimer"`
}
