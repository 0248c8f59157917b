package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	azureAPIVersion    = "2023-07-31"
	azureBatchSize     = 2
	azureBaseDelay     = 3 * time.Second
	azureMaxBackoff    = 30 * time.Second
	azureSubmitBackoff = 3 * time.Second
	azurePollBackoff   = 2 * time.Second
	azurePollInterval  = 2500 * time.Millisecond
)

// Azure sends the PDF to Azure Document Intelligence (prebuilt-layout) two
// pages at a time and keeps the service's reading-order content per page.
type Azure struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger

	batchDelay   time.Duration
	pollInterval time.Duration
	jitter       func() time.Duration
	pageCount    func([]byte) (int, error)
}

func NewAzure(endpoint, apiKey string, logger *zap.Logger) (*Azure, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: AZURE_ENDPOINT and AZURE_API_KEY must be set", ErrMissingCredentials)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Azure{
		endpoint:     endpoint,
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 300 * time.Second},
		logger:       logger,
		batchDelay:   azureBaseDelay,
		pollInterval: azurePollInterval,
		jitter:       func() time.Duration { return time.Duration((0.5 + rand.Float64()*1.5) * float64(time.Second)) },
		pageCount:    PageCount,
	}, nil
}

func (a *Azure) Name() string { return "azure" }

type azurePage struct {
	number int
	text   string
}

func (a *Azure) Extract(ctx context.Context, pdf []byte, maxPages int) (*Extraction, error) {
	total, err := a.pageCount(pdf)
	if err != nil {
		return nil, err
	}
	last := lastPage(total, maxPages)
	if last == 0 {
		return nil, ErrNoPages
	}
	a.logger.Info("extracting", zap.Int("total_pages", total), zap.Int("last_page", last))

	var pages []azurePage
	for start := 1; start <= last; start += azureBatchSize {
		end := min(start+azureBatchSize-1, last)
		if start > 1 {
			if err := sleep(ctx, a.batchDelay+a.jitter()); err != nil {
				return nil, err
			}
		}
		op, err := a.submit(ctx, pdf, start, end)
		if err != nil {
			return nil, err
		}
		got, err := a.poll(ctx, op, start, end)
		if err != nil {
			return nil, err
		}
		a.logger.Info("batch done", zap.Int("from", start), zap.Int("to", end), zap.Int("pages", len(got)))
		pages = append(pages, got...)
	}

	sort.SliceStable(pages, func(i, j int) bool { return pages[i].number < pages[j].number })
	parts := make([]string, 0, 2*len(pages))
	for _, p := range pages {
		parts = append(parts, fmt.Sprintf("\n\n=== PAGE %d ===\n", p.number), p.text)
	}
	return &Extraction{Text: NormalizeText(strings.Join(parts, "\n")), Pages: last}, nil
}

func (a *Azure) analyzeURL(start, end int) string {
	return fmt.Sprintf("%s/formrecognizer/documentModels/prebuilt-layout:analyze?api-version=%s&pages=%d-%d",
		a.endpoint, azureAPIVersion, start, end)
}

// submit posts the document for one page range and returns the operation URL.
func (a *Azure) submit(ctx context.Context, pdf []byte, start, end int) (string, error) {
	backoff := azureSubmitBackoff
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.analyzeURL(start, end), bytes.NewReader(pdf))
		if err != nil {
			return "", err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)
		req.Header.Set("Content-Type", "application/pdf")
		resp, err := a.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("%w: submit pages %d-%d: %w", ErrAzureFailed, start, end, err)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := a.retryWait(resp.Header.Get("Retry-After"), backoff)
			a.logger.Warn("429 on submit", zap.Int("from", start), zap.Duration("wait", wait))
			if err := sleep(ctx, wait); err != nil {
				return "", err
			}
			backoff *= 2
			continue
		}
		if resp.StatusCode/100 != 2 {
			return "", fmt.Errorf("%w: submit pages %d-%d: status %d: %s", ErrAzureFailed, start, end, resp.StatusCode, snippet(string(body), 200))
		}
		op := resp.Header.Get("Operation-Location")
		if op == "" {
			return "", fmt.Errorf("%w: submit pages %d-%d: no operation-location", ErrAzureFailed, start, end)
		}
		return op, nil
	}
}

type analyzeResult struct {
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	AnalyzeResult *struct {
		Content string `json:"content"`
		Pages   []struct {
			PageNumber int `json:"pageNumber"`
			Spans      []struct {
				Offset int `json:"offset"`
				Length int `json:"length"`
			} `json:"spans"`
		} `json:"pages"`
	} `json:"analyzeResult"`
}

// poll waits for an analysis to finish and returns its page texts.
func (a *Azure) poll(ctx context.Context, op string, start, end int) ([]azurePage, error) {
	backoff := azurePollBackoff
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, op, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)
		resp, err := a.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: poll pages %d-%d: %w", ErrAzureFailed, start, end, err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			wait := a.retryWait(resp.Header.Get("Retry-After"), backoff)
			a.logger.Warn("429 on poll", zap.Int("from", start), zap.Duration("wait", wait))
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			backoff *= 2
			continue
		}
		if resp.StatusCode/100 != 2 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: poll pages %d-%d: status %d: %s", ErrAzureFailed, start, end, resp.StatusCode, snippet(string(body), 200))
		}
		var res analyzeResult
		err = json.NewDecoder(resp.Body).Decode(&res)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: decode poll response: %v", ErrAzureFailed, err)
		}

		switch res.Status {
		case "succeeded":
			return pageTexts(res), nil
		case "failed":
			msg := "Unknown error"
			if res.Error != nil && res.Error.Message != "" {
				msg = res.Error.Message
			}
			return nil, fmt.Errorf("%w on pages %d-%d: %s", ErrAzureFailed, start, end, msg)
		}
		if err := sleep(ctx, a.pollInterval); err != nil {
			return nil, err
		}
	}
}

// pageTexts slices each page's first span out of the document content.
// Offsets count characters, not bytes.
func pageTexts(res analyzeResult) []azurePage {
	if res.AnalyzeResult == nil {
		return nil
	}
	content := []rune(res.AnalyzeResult.Content)
	out := make([]azurePage, 0, len(res.AnalyzeResult.Pages))
	for _, p := range res.AnalyzeResult.Pages {
		num := p.PageNumber
		if num == 0 {
			num = 1
		}
		var text string
		if len(p.Spans) > 0 {
			from := min(max(p.Spans[0].Offset, 0), len(content))
			to := min(max(from+p.Spans[0].Length, from), len(content))
			text = string(content[from:to])
		}
		out = append(out, azurePage{number: num, text: text})
	}
	return out
}

// retryWait honours a Retry-After seconds header, otherwise the capped
// backoff, plus jitter.
func (a *Azure) retryWait(retryAfter string, backoff time.Duration) time.Duration {
	wait := min(backoff, azureMaxBackoff)
	if s, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && s >= 0 {
		wait = time.Duration(s) * time.Second
	}
	return wait + a.jitter()
}
