package ocr

import (
	"context"
	"image"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// Tesseract runs the local tesseract engine over each page image. Pages are
// read as a single column of variable-size text so rows are not split into
// columns.
type Tesseract struct {
	lang   string
	width  int
	logger *zap.Logger
}

func NewTesseract(lang string, width int, logger *zap.Logger) *Tesseract {
	if lang == "" {
		lang = "eng"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{lang: lang, width: width, logger: logger}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Extract(ctx context.Context, pdf []byte, maxPages int) (*Extraction, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(t.lang); err != nil {
		return nil, err
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_COLUMN); err != nil {
		return nil, err
	}
	return eachPage(ctx, pdf, maxPages, t.logger, func(_ context.Context, _ int, img image.Image) (string, error) {
		return t.recognize(client, img)
	})
}

func (t *Tesseract) recognize(client *gosseract.Client, img image.Image) (string, error) {
	data, err := encodePNG(preparePage(img, t.width))
	if err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", err
	}
	return client.Text()
}
