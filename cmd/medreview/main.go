package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/medreview/medreview/internal/docanalysis"
	"github.com/medreview/medreview/internal/ocr"
)

func main() {
	patientRef := flag.String("patient-ref", "", "Patient reference recorded in the response envelope")
	lang := flag.String("lang", "", "OCR language hint (default "+ocr.DefaultLanguageHint+")")
	textMode := flag.Bool("text", false, "Treat inputs as pre-recognized text files and skip OCR")
	outputPath := flag.String("output", "", "Path to write the markdown report (defaults to stdout)")
	jsonOutputPath := flag.String("json-output", "", "Optional path to write the full response envelope JSON")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("usage: medreview [flags] document...")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := run(ctx, paths, *textMode, *lang)
	if err != nil {
		log.Fatal(err)
	}

	env := docanalysis.BuildResponse(result, *patientRef)
	if err := writeMarkdown(*outputPath, env.ReportMarkdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}
	if *jsonOutputPath != "" {
		if err := writeEnvelopeJSON(*jsonOutputPath, env); err != nil {
			log.Fatalf("write json output: %v", err)
		}
	}
}

func run(ctx context.Context, paths []string, textMode bool, lang string) (docanalysis.Result, error) {
	if textMode {
		docs := make([]docanalysis.TextDocument, 0, len(paths))
		for _, p := range paths {
			blob, err := os.ReadFile(p)
			if err != nil {
				return docanalysis.Result{}, fmt.Errorf("read %s: %w", p, err)
			}
			docs = append(docs, docanalysis.TextDocument{Name: filepath.Base(p), Text: string(blob)})
		}
		return docanalysis.AnalyzeRequest(docanalysis.RequestEnvelope{Documents: docs})
	}

	client, err := ocr.NewClient(ocr.Config{
		BaseURL:            envDefault("MEDREVIEW_OCR_URL", ocr.DefaultBaseURL),
		LanguageHint:       lang,
		RateLimitPerMinute: envInt("MEDREVIEW_OCR_RATE_LIMIT", ocr.DefaultRateLimitPerMinute),
	})
	if err != nil {
		return docanalysis.Result{}, err
	}

	docs := make([]docanalysis.RawDocument, 0, len(paths))
	for _, p := range paths {
		blob, err := os.ReadFile(p)
		if err != nil {
			return docanalysis.Result{}, fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, docanalysis.RawDocument{Name: filepath.Base(p), Image: blob})
	}

	pipeline := docanalysis.NewPipeline(client, lang)
	return pipeline.RunWithProgress(ctx, docs, func(stage, message string) {
		log.Printf("%s %s", stage, message)
	})
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}

func writeEnvelopeJSON(path string, env docanalysis.ResponseEnvelope) error {
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	if n <= 0 {
		return fallback
	}
	return n
}
