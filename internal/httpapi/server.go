// Package httpapi exposes the document analysis pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/medreview/medreview/internal/docanalysis"
	"github.com/medreview/medreview/internal/render"
	"github.com/medreview/medreview/internal/store"
)

const maxUploadBytes = 32 << 20

type Server struct {
	pipeline *docanalysis.Pipeline
	archive  *store.Store
	tracer   trace.Tracer
}

// NewServer wires the analysis routes. pipeline may be nil when no OCR
// collaborator is configured; image uploads are then rejected while
// pre-recognized text requests keep working. archive may be nil to
// disable persistence.
func NewServer(pipeline *docanalysis.Pipeline, archive *store.Store) http.Handler {
	s := &Server{
		pipeline: pipeline,
		archive:  archive,
		tracer:   otel.Tracer("medreview/httpapi"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/reports", s.handleListReports)
	mux.HandleFunc("/v1/reports/", s.handleGetReport)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, span := s.tracer.Start(r.Context(), "analyze")
	defer span.End()

	var (
		result     docanalysis.Result
		patientRef string
		err        error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		result, patientRef, err = s.analyzeUpload(ctx, r)
	} else {
		result, patientRef, err = s.analyzeJSON(r)
	}
	if err != nil {
		span.RecordError(err)
		writeAnalysisError(w, err)
		return
	}

	span.SetAttributes(
		attribute.Int("documents", result.Report.DocumentCount),
		attribute.Int("score", result.Report.Score.Total),
		attribute.String("identity", string(result.Report.Identity.Status)),
	)

	env := docanalysis.BuildResponse(result, patientRef)
	if s.archive != nil {
		saved, err := s.archive.Save(env)
		if err != nil {
			log.Printf("httpapi archive save failed: %v", err)
		} else {
			env = saved
		}
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) analyzeUpload(ctx context.Context, r *http.Request) (docanalysis.Result, string, error) {
	if s.pipeline == nil {
		return docanalysis.Result{}, "", errNoRecognizer
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return docanalysis.Result{}, "", &badRequestError{message: "invalid multipart form"}
	}
	patientRef := r.FormValue("patient_ref")

	docs := []docanalysis.RawDocument{}
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				return docanalysis.Result{}, "", &badRequestError{message: "unreadable upload " + header.Filename}
			}
			blob, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return docanalysis.Result{}, "", &badRequestError{message: "unreadable upload " + header.Filename}
			}
			docs = append(docs, docanalysis.RawDocument{Name: header.Filename, Image: blob})
		}
	}
	result, err := s.pipeline.Run(ctx, docs)
	return result, patientRef, err
}

func (s *Server) analyzeJSON(r *http.Request) (docanalysis.Result, string, error) {
	var req docanalysis.RequestEnvelope
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return docanalysis.Result{}, "", &badRequestError{message: "invalid JSON body"}
	}
	result, err := docanalysis.AnalyzeRequest(req)
	return result, req.PatientRef, err
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	list, err := s.archive.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": list})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/reports/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "analysis id is required")
		return
	}
	env, err := s.archive.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.URL.Query().Get("format") {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(env.ReportMarkdown))
	case "html":
		doc, err := render.HTML(env)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(doc))
	default:
		writeJSON(w, http.StatusOK, env)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"ocr":     s.pipeline != nil,
		"archive": s.archive != nil,
	})
}

var errNoRecognizer = errors.New("no OCR collaborator configured")

type badRequestError struct {
	message string
}

func (e *badRequestError) Error() string {
	return e.message
}

func writeAnalysisError(w http.ResponseWriter, err error) {
	var br *badRequestError
	switch {
	case errors.Is(err, docanalysis.ErrNoInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &br):
		writeError(w, http.StatusBadRequest, br.message)
	case errors.Is(err, errNoRecognizer):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
