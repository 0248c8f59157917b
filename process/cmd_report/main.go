package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"causelist/pkg/config"
	"causelist/pkg/store"
	"causelist/process/report"
)

func main() {
	hash := flag.String("hash", "", "sha256 of the processed file")
	engine := flag.String("engine", "tesseract", "engine the file was processed with")
	list := flag.Bool("list", false, "list one row per case")
	flag.Parse()

	if *hash == "" {
		fmt.Fprintln(os.Stderr, "-hash is required")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if cfg.DBDriver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "DB_DRIVER is memory; set postgres or sqlite and retry")
		os.Exit(2)
	}
	st, err := store.Open(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := report.Run(context.Background(), st, store.Key(*hash, *engine), *list, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
