package ocr

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// NormalizeText folds compatibility characters (full-width digits,
// ligatures) with NFKC and converts CRLF/CR line endings to LF.
func NormalizeText(t string) string {
	t = norm.NFKC.String(t)
	t = strings.ReplaceAll(t, "\r\n", "\n")
	return strings.ReplaceAll(t, "\r", "\n")
}

// lastPage is the last 1-based page to process: all pages when maxPages <= 0.
func lastPage(total, maxPages int) int {
	if maxPages > 0 && maxPages < total {
		return maxPages
	}
	return total
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
