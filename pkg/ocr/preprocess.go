package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// preparePage readies a scanned page for tesseract: grayscale, a contrast
// lift, light sharpening and an upscale so the page is at least width pixels
// wide (about 300 dpi for A4 at the default 2480).
func preparePage(img image.Image, width int) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if width > 0 && gray.Bounds().Dx() < width {
		gray = imaging.Resize(gray, width, 0, imaging.Lanczos)
	}
	return gray
}

// encodePNG serialises img for engines that take encoded image bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DumpPages writes the preprocessed page images of pdf to dir as
// page-NNN.png and returns the written paths. It shows exactly what
// tesseract is given.
func DumpPages(ctx context.Context, pdf []byte, maxPages, width int, dir string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	_, err := eachPage(ctx, pdf, maxPages, logger, func(_ context.Context, pageNr int, img image.Image) (string, error) {
		path := filepath.Join(dir, fmt.Sprintf("page-%03d.png", pageNr))
		if err := imaging.Save(preparePage(img, width), path); err != nil {
			return "", err
		}
		paths = append(paths, path)
		return "", nil
	})
	return paths, err
}
