// Package ocr turns cause-list PDFs into raw text with one of the supported
// engines. Output of every extractor is NFKC-normalised with LF line endings
// and is ready for segment.Segment.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/segment"
)

// Extraction is the raw text of a document plus the pages actually read.
type Extraction struct {
	Text  string
	Pages int
}

// Extractor reads a PDF. maxPages <= 0 means all pages.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pdf []byte, maxPages int) (*Extraction, error)
}

// New returns the extractor for engine. Unknown engines wrap
// segment.ErrUnsupportedEngine; cloud engines without endpoint or key return
// ErrMissingCredentials.
func New(engine string, cfg config.Config, logger *zap.Logger) (Extractor, error) {
	e, err := segment.ParseEngine(engine)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("engine", string(e)))
	switch e {
	case segment.EngineTesseract:
		return NewTesseract(cfg.TesseractLang, cfg.TesseractDPIWidth, logger), nil
	case segment.EngineAzure:
		return NewAzure(cfg.AzureEndpoint, cfg.AzureAPIKey, logger)
	case segment.EnginePaddle:
		return NewPaddle(cfg.PaddleURL, logger)
	}
	return nil, fmt.Errorf("%w: %q", segment.ErrUnsupportedEngine, engine)
}

// pageFunc recognises one page image.
type pageFunc func(ctx context.Context, pageNr int, img image.Image) (string, error)

// eachPage runs fn over the page images of pdf up to maxPages and joins the
// page texts with a blank line. Pages without an image contribute no text.
func eachPage(ctx context.Context, pdf []byte, maxPages int, logger *zap.Logger, fn pageFunc) (*Extraction, error) {
	doc, err := openPDF(pdf)
	if err != nil {
		return nil, err
	}
	last := lastPage(doc.PageCount, maxPages)
	logger.Info("extracting", zap.Int("total_pages", doc.PageCount), zap.Int("last_page", last))

	texts := make([]string, 0, last)
	for p := 1; p <= last; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := pageImage(doc, p)
		if errors.Is(err, ErrNoPageImage) {
			logger.Warn("page without image", zap.Int("page", p))
			texts = append(texts, "")
			continue
		}
		if err != nil {
			return nil, err
		}
		text, err := fn(ctx, p, img)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p, err)
		}
		logger.Debug("page done", zap.Int("page", p), zap.String("snippet", snippet(text, 80)))
		texts = append(texts, text)
	}
	return &Extraction{Text: NormalizeText(strings.Join(texts, "\n\n")), Pages: last}, nil
}
