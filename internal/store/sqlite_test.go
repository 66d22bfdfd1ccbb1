package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/medreview/medreview/internal/docanalysis"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "medreview.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEnvelope(t *testing.T) docanalysis.ResponseEnvelope {
	t.Helper()
	report, err := docanalysis.AnalyzeDocuments([]docanalysis.TextDocument{
		{Name: "a.txt", Text: "Пациент: Иван Петров\nДиагноз: гипертония\nПодпись: ___"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return docanalysis.BuildResponse(docanalysis.Result{Report: report}, "patient-1")
}

func TestSaveAssignsID(t *testing.T) {
	s := openTestStore(t)
	saved, err := s.Save(sampleEnvelope(t))
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("expected assigned ID")
	}
}

func TestSaveGetRoundtrip(t *testing.T) {
	s := openTestStore(t)
	saved, err := s.Save(sampleEnvelope(t))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PatientRef != "patient-1" {
		t.Fatalf("unexpected patient ref %q", got.PatientRef)
	}
	if got.Report.Identity.CanonicalName != "Иван Петров" {
		t.Fatalf("unexpected canonical name %q", got.Report.Identity.CanonicalName)
	}
	if got.ReportMarkdown != saved.ReportMarkdown {
		t.Fatal("markdown changed through the archive")
	}
}

func TestGetUnknownID(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("an_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	first, err := s.Save(sampleEnvelope(t))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(sampleEnvelope(t))
	if err != nil {
		t.Fatal(err)
	}
	list, err := s.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	ids := map[string]bool{list[0].ID: true, list[1].ID: true}
	if !ids[first.ID] || !ids[second.ID] {
		t.Fatalf("list missing saved runs: %v", list)
	}
	if list[0].Score != list[1].Score {
		t.Fatalf("identical runs must archive identical scores")
	}
}
