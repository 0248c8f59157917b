package segment

import "errors"

// ErrUnsupportedEngine is returned when an engine identifier is not one of the
// known pipelines. It is a configuration error and never retried.
var ErrUnsupportedEngine = errors.New("unsupported ocr engine")
