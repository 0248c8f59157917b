// Package batch segments every cause list in a directory and writes one
// JSON mapping per input. PDFs go through the configured OCR engine; .txt
// files are taken as already-extracted raw text.
package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"causelist/pkg/ocr"
	"causelist/pkg/segment"
	"causelist/pkg/store"
)

// ErrNoExtractor is returned for PDF inputs when no OCR engine is available.
var ErrNoExtractor = errors.New("no ocr extractor configured for pdf input")

const outputSuffix = ".cases.json"

// Options control a batch run.
type Options struct {
	InDir    string
	OutDir   string // defaults to InDir
	Engine   segment.Engine
	Workers  int // default NumCPU
	MaxPages int
	Force    bool // reprocess inputs whose output already exists
}

// Summary counts the outcome of a run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Cases     int
}

// Runner processes input files. Extractor and Store may be nil: without an
// extractor only .txt inputs succeed, without a store nothing is cached.
type Runner struct {
	opts      Options
	extractor ocr.Extractor
	store     store.Store
	logger    *zap.Logger

	mu      sync.Mutex
	summary Summary
}

func New(opts Options, ex ocr.Extractor, st store.Store, logger *zap.Logger) *Runner {
	if opts.OutDir == "" {
		opts.OutDir = opts.InDir
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, extractor: ex, store: st, logger: logger}
}

// Summary returns the counts accumulated so far.
func (r *Runner) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Run processes every input currently in the directory. Per-file failures
// are logged and counted; only context cancellation or an unreadable
// directory fail the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	files, err := ListInputs(r.opts.InDir)
	if err != nil {
		return r.Summary(), err
	}
	if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
		return r.Summary(), err
	}
	r.logger.Info("scanning", zap.String("dir", r.opts.InDir), zap.Int("files", len(files)), zap.Int("workers", r.opts.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, name := range files {
		if gctx.Err() != nil {
			break
		}
		name := name
		g.Go(func() error {
			r.handle(gctx, name)
			return nil
		})
	}
	_ = g.Wait()
	s := r.Summary()
	r.logger.Info("batch done", zap.Int("processed", s.Processed), zap.Int("skipped", s.Skipped), zap.Int("failed", s.Failed), zap.Int("cases", s.Cases))
	return s, ctx.Err()
}

func (r *Runner) handle(ctx context.Context, name string) {
	n, err := r.ProcessFile(ctx, name)
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case errors.Is(err, errSkipped):
		r.summary.Skipped++
	case err != nil:
		r.summary.Failed++
		r.logger.Warn("file failed", zap.String("file", name), zap.Error(err))
	default:
		r.summary.Processed++
		r.summary.Cases += n
	}
}

var errSkipped = errors.New("output exists")

// OutputName is the mapping file written for input name.
func OutputName(name string, engine segment.Engine) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + string(engine) + outputSuffix
}

// ProcessFile segments one input and writes its mapping. It returns the
// number of cases found.
func (r *Runner) ProcessFile(ctx context.Context, name string) (int, error) {
	out := filepath.Join(r.opts.OutDir, OutputName(name, r.opts.Engine))
	if !r.opts.Force {
		if _, err := os.Stat(out); err == nil {
			return 0, errSkipped
		}
	}
	data, err := os.ReadFile(filepath.Join(r.opts.InDir, name))
	if err != nil {
		return 0, err
	}

	start := time.Now()
	text, pages, err := r.extract(ctx, name, data)
	if err != nil {
		return 0, err
	}
	cases, err := segment.Segment(text, string(r.opts.Engine))
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start).Seconds()

	body, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := writeAtomic(out, body); err != nil {
		return 0, err
	}

	if r.store != nil {
		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])
		err := r.store.Put(ctx, &store.Result{
			Key:            store.Key(hash, string(r.opts.Engine)),
			FileHash:       hash,
			Engine:         string(r.opts.Engine),
			Pages:          pages,
			RawText:        text,
			Cases:          cases,
			ExtractionTime: elapsed,
			CreatedAt:      time.Now(),
		})
		if err != nil {
			r.logger.Warn("store failed", zap.String("file", name), zap.Error(err))
		}
	}
	r.logger.Debug("file done", zap.String("file", name), zap.Int("cases", cases.Len()), zap.Int("pages", pages))
	return cases.Len(), nil
}

func (r *Runner) extract(ctx context.Context, name string, data []byte) (string, int, error) {
	if strings.EqualFold(filepath.Ext(name), ".txt") {
		text := ocr.NormalizeText(string(data))
		if text == "" {
			return "", 0, nil
		}
		return text, strings.Count(text, "\f") + 1, nil
	}
	if r.extractor == nil {
		return "", 0, ErrNoExtractor
	}
	ex, err := r.extractor.Extract(ctx, data, r.opts.MaxPages)
	if err != nil {
		return "", 0, fmt.Errorf("extract %s: %w", name, err)
	}
	return ex.Text, ex.Pages, nil
}

// writeAtomic writes through a temp file so watchers never see partial output.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cases-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ListInputs returns the .pdf and .txt files of dir in name order.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isInput(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func isInput(name string) bool {
	// ignore our own output and temp files to avoid recursive processing
	if strings.HasSuffix(name, outputSuffix) || strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}
