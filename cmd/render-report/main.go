package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/medreview/medreview/internal/docanalysis"
	"github.com/medreview/medreview/internal/render"
)

func main() {
	inputPath := flag.String("input", "", "Path to a saved analysis response envelope JSON")
	outputPath := flag.String("output", "", "Path to write rebuilt markdown (defaults to stdout)")
	htmlOutputPath := flag.String("html-output", "", "Optional path to write the HTML rendering")
	pdfOutputPath := flag.String("pdf-output", "", "Optional path to write a PDF rendering (requires Chromium)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var env docanalysis.ResponseEnvelope
	if err := json.Unmarshal(in, &env); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}

	// Rebuild the markdown from the structured report so edits to the
	// envelope JSON are reflected in every output format.
	env.ReportMarkdown = docanalysis.BuildReportMarkdown(env.Report)

	if err := writeMarkdown(*outputPath, env.ReportMarkdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *htmlOutputPath != "" {
		doc, err := render.HTML(env)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
		if err := os.WriteFile(*htmlOutputPath, []byte(doc), 0o644); err != nil {
			log.Fatalf("write html output: %v", err)
		}
	}

	if *pdfOutputPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		pdf, err := render.NewPDFRenderer().Render(ctx, env)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfOutputPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf output: %v", err)
		}
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
