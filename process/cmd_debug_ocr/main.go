package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"causelist/pkg/config"
	"causelist/pkg/ocr"
	"causelist/pkg/segment"
)

// Prints the raw text an engine reads from a PDF, followed by the serials
// the matching pipeline finds in it.
func main() {
	f := flag.String("file", "", "cause list PDF to OCR")
	engine := flag.String("engine", "tesseract", "tesseract, azure or paddle")
	maxPages := flag.Int("max-pages", 2, "pages to read, 0 = all")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	pdf, err := os.ReadFile(*f)
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	ex, err := ocr.New(*engine, cfg, logger)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	start := time.Now()
	res, err := ex.Extract(context.Background(), pdf, *maxPages)
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	fmt.Println(res.Text)

	cases, err := segment.Segment(res.Text, *engine)
	if err != nil {
		log.Fatalf("segment: %v", err)
	}
	fmt.Printf("\npages=%d took=%s cases=%d serials=%s\n", res.Pages, time.Since(start).Round(time.Millisecond), cases.Len(), cases.Available())
}
