// Package segment turns the raw reading-order text of a court cause list into
// an ordered mapping of case serial to case text.
//
// Each OCR engine damages the source table differently, so every engine has
// its own pipeline:
//
//   - tesseract: serial noise cleanup, column-dump reassembly, boundary split,
//     orphan stitching and connected-case merging.
//   - azure: page marker removal, boundary split, merging with parent
//     prepending, then blob redistribution.
//   - paddle: bare-serial split, merging, then layout drift repair.
//
// All pipelines are pure functions of their input and hold no shared state,
// so different documents can be segmented concurrently.
package segment

import (
	"fmt"
	"strings"
)

// Engine identifies the OCR engine that produced the text.
type Engine string

const (
	EngineTesseract Engine = "tesseract"
	EngineAzure     Engine = "azure"
	EnginePaddle    Engine = "paddle"
)

// Engines lists the supported engines in a stable order.
func Engines() []Engine {
	return []Engine{EngineTesseract, EngineAzure, EnginePaddle}
}

// EngineNames is Engines as plain strings.
func EngineNames() []string {
	out := make([]string, 0, 3)
	for _, e := range Engines() {
		out = append(out, string(e))
	}
	return out
}

// ParseEngine validates an engine identifier. Matching is exact.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(name); e {
	case EngineTesseract, EngineAzure, EnginePaddle:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedEngine, name, strings.Join(EngineNames(), ", "))
}

// Segment runs the pipeline for engine over text. An unknown engine yields an
// error wrapping ErrUnsupportedEngine and no mapping. Text without any
// detectable serial yields an empty mapping.
func Segment(text, engine string) (*Cases, error) {
	e, err := ParseEngine(engine)
	if err != nil {
		return nil, err
	}
	switch e {
	case EngineTesseract:
		return SegmentTesseract(text), nil
	case EngineAzure:
		return SegmentAzure(text), nil
	default:
		return SegmentPaddle(text), nil
	}
}
