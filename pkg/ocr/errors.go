package ocr

import "errors"

var (
	// ErrNoPages is returned when a PDF has no pages to extract.
	ErrNoPages = errors.New("pdf has no pages")
	// ErrNoPageImage is returned when a page carries no embedded raster image.
	ErrNoPageImage = errors.New("page has no image")
	// ErrMissingCredentials is returned when a cloud engine is not configured.
	ErrMissingCredentials = errors.New("ocr engine credentials missing")
	// ErrAzureFailed is returned when Azure rejects or fails an analysis.
	ErrAzureFailed = errors.New("azure document intelligence failed")
	// ErrPaddleFailed is returned when the PaddleOCR service errors.
	ErrPaddleFailed = errors.New("paddleocr service failed")
)
