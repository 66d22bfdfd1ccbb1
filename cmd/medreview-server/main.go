package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/medreview/medreview/internal/docanalysis"
	"github.com/medreview/medreview/internal/httpapi"
	"github.com/medreview/medreview/internal/ocr"
	"github.com/medreview/medreview/internal/store"
	"github.com/medreview/medreview/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8090", "HTTP listen address")
	dbPath := flag.String("db", "medreview.db", "SQLite database path (empty disables the archive)")
	ocrURL := flag.String("ocr-url", "", "OCR service base URL (empty disables image uploads)")
	lang := flag.String("lang", "", "OCR language hint (default "+ocr.DefaultLanguageHint+")")
	otlpEndpoint := flag.String("otlp-endpoint", os.Getenv("MEDREVIEW_OTLP_ENDPOINT"), "OTLP/HTTP trace collector host:port (empty disables export)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTraces, err := telemetry.Setup(ctx, "medreview-server", *otlpEndpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTraces(flushCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	var pipeline *docanalysis.Pipeline
	if strings.TrimSpace(*ocrURL) != "" {
		client, err := ocr.NewClient(ocr.Config{
			BaseURL:            *ocrURL,
			LanguageHint:       *lang,
			RateLimitPerMinute: envInt("MEDREVIEW_OCR_RATE_LIMIT", ocr.DefaultRateLimitPerMinute),
		})
		if err != nil {
			log.Fatal(err)
		}
		pipeline = docanalysis.NewPipeline(client, *lang)
	} else {
		log.Print("server no OCR URL configured, image uploads disabled")
	}

	var archive *store.Store
	if strings.TrimSpace(*dbPath) != "" {
		archive, err = store.Open(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer archive.Close()
	} else {
		log.Print("server archive disabled")
	}

	handler := httpapi.NewServer(pipeline, archive)
	srv := &http.Server{Addr: *addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("medreview-server listening on %s (ocr=%v, archive=%v)", *addr, pipeline != nil, archive != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
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
