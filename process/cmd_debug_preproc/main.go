package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"causelist/pkg/config"
	"causelist/pkg/ocr"
)

func main() {
	f := flag.String("file", "", "cause list PDF")
	out := flag.String("out", os.TempDir(), "directory for the page PNGs")
	maxPages := flag.Int("max-pages", 2, "pages to dump, 0 = all")
	width := flag.Int("width", 0, "target page width (default from config)")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *width == 0 {
		*width = cfg.TesseractDPIWidth
	}
	pdf, err := os.ReadFile(*f)
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	paths, err := ocr.DumpPages(context.Background(), pdf, *maxPages, *width, *out, nil)
	if err != nil {
		log.Fatalf("dump: %v", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}
