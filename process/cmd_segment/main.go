package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"causelist/pkg/ocr"
	"causelist/pkg/segment"
)

func main() {
	engine := flag.String("engine", "tesseract", "engine pipeline: "+strings.Join(segment.EngineNames(), ", "))
	in := flag.String("in", "-", "raw OCR text file, - for stdin")
	sno := flag.Int("case", 0, "print only this serial")
	asJSON := flag.Bool("json", false, "print the full mapping as JSON")
	keys := flag.Bool("keys", false, "print only the detected serials")
	flag.Parse()

	var r io.Reader = os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		log.Fatalf("read: %v", err)
	}

	cases, err := segment.Segment(ocr.NormalizeText(string(raw)), *engine)
	if err != nil {
		log.Fatalf("segment: %v", err)
	}

	switch {
	case *sno > 0:
		text, ok := cases.Get(strconv.Itoa(*sno))
		if !ok {
			log.Fatalf("case %d not found. Available: %s", *sno, cases.Available())
		}
		fmt.Println(text)
	case *keys:
		fmt.Println(strings.Join(cases.SortedKeys(), " "))
	case *asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cases); err != nil {
			log.Fatalf("encode: %v", err)
		}
	default:
		for _, m := range cases.Mains() {
			fmt.Printf("===== %d =====\n%s\n\n", m, cases.Text(m))
		}
		fmt.Printf("%d cases\n", cases.Len())
	}
}
