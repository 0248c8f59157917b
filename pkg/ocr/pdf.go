package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func openPDF(pdf []byte) (*model.Context, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	if ctx.PageCount == 0 {
		return nil, ErrNoPages
	}
	return ctx, nil
}

// PageCount returns the number of pages in pdf.
func PageCount(pdf []byte) (int, error) {
	ctx, err := openPDF(pdf)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// pageImage decodes the largest raster image embedded in page pageNr. Scanned
// cause lists carry one full-page image per page.
func pageImage(ctx *model.Context, pageNr int) (image.Image, error) {
	imgs, err := pdfcpu.ExtractPageImages(ctx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("page %d images: %w", pageNr, err)
	}
	var best *model.Image
	for _, im := range imgs {
		im := im
		if best == nil || im.Width*im.Height > best.Width*best.Height {
			best = &im
		}
	}
	if best == nil || best.Reader == nil {
		return nil, fmt.Errorf("page %d: %w", pageNr, ErrNoPageImage)
	}
	img, err := imaging.Decode(best.Reader, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("page %d decode %s: %w", pageNr, best.FileType, err)
	}
	return img, nil
}
