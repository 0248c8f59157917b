package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"causelist/pkg/store"
)

// Run loads the result stored under key and writes its report to w.
func Run(ctx context.Context, st store.Store, key string, list bool, w io.Writer) error {
	r, err := st.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	return Write(w, r, list)
}

// Write prints a summary of a stored result and, when list is set, one row
// per case: serial, line count and the first line of the case text.
func Write(w io.Writer, r *store.Result, list bool) error {
	n := 0
	if r.Cases != nil {
		n = r.Cases.Len()
	}
	fmt.Fprintf(w, "Report for key=%s engine=%s created=%s (UTC):\n", r.Key, r.Engine, r.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  pages=%d cases=%d extraction_time=%.2fs\n", r.Pages, n, r.ExtractionTime)
	if n == 0 {
		return nil
	}
	mains := r.Cases.SortedMains()
	fmt.Fprintf(w, "  serials=%d..%d missing=%s\n", mains[0], mains[len(mains)-1], formatInts(Missing(mains)))

	if list {
		for _, m := range r.Cases.Mains() {
			text := r.Cases.Text(m)
			first, _, _ := strings.Cut(text, "\n")
			if _, err := fmt.Fprintf(w, "%d|%d|%s\n", m, strings.Count(text, "\n")+1, first); err != nil {
				return err
			}
		}
	}
	return nil
}

// Missing returns the serials absent between the first and last of the
// ascending list mains.
func Missing(mains []int) []int {
	var out []int
	for i := 1; i < len(mains); i++ {
		for m := mains[i-1] + 1; m < mains[i]; m++ {
			out = append(out, m)
		}
	}
	return out
}

func formatInts(xs []int) string {
	if len(xs) == 0 {
		return "none"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
