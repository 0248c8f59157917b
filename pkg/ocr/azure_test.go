package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeAzure struct {
	mu        sync.Mutex
	submits   []string
	throttled bool
	polls     map[string]int
	results   map[string]map[string]any
}

func (f *fakeAzure) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "prebuilt-layout:analyze"):
			if !f.throttled {
				f.throttled = true
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			if r.URL.Query().Get("api-version") != azureAPIVersion {
				t.Errorf("api-version = %q", r.URL.Query().Get("api-version"))
			}
			pages := r.URL.Query().Get("pages")
			f.submits = append(f.submits, pages)
			w.Header().Set("Operation-Location", "http://"+r.Host+"/operations/"+pages)
			w.WriteHeader(http.StatusAccepted)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/operations/"):
			pages := strings.TrimPrefix(r.URL.Path, "/operations/")
			f.polls[pages]++
			if f.polls[pages] == 1 {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "running"})
				return
			}
			_ = json.NewEncoder(w).Encode(f.results[pages])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func span(offset, length int) []map[string]int {
	return []map[string]int{{"offset": offset, "length": length}}
}

func newTestAzure(t *testing.T, url string, pages int) *Azure {
	t.Helper()
	a, err := NewAzure(url+"/", "key", nil)
	if err != nil {
		t.Fatalf("NewAzure: %v", err)
	}
	a.batchDelay = 0
	a.pollInterval = time.Millisecond
	a.jitter = func() time.Duration { return 0 }
	a.pageCount = func([]byte) (int, error) { return pages, nil }
	return a
}

func TestAzureExtractBatchesAndOrders(t *testing.T) {
	fake := &fakeAzure{
		polls: map[string]int{},
		results: map[string]map[string]any{
			"1-2": {"status": "succeeded", "analyzeResult": map[string]any{
				"content": "ALPHA\nBETA",
				"pages": []map[string]any{
					{"pageNumber": 2, "spans": span(6, 4)},
					{"pageNumber": 1, "spans": span(0, 5)},
				},
			}},
			"3-3": {"status": "succeeded", "analyzeResult": map[string]any{
				"content": "GAMMA",
				"pages":   []map[string]any{{"pageNumber": 3, "spans": span(0, 5)}},
			}},
		},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	a := newTestAzure(t, srv.URL, 3)
	got, err := a.Extract(context.Background(), []byte("%PDF-1.4"), 0)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "\n\n=== PAGE 1 ===\n\nALPHA\n\n\n=== PAGE 2 ===\n\nBETA\n\n\n=== PAGE 3 ===\n\nGAMMA"
	if got.Text != want {
		t.Fatalf("text = %q\nwant %q", got.Text, want)
	}
	if got.Pages != 3 {
		t.Fatalf("pages = %d", got.Pages)
	}
	if fmt.Sprint(fake.submits) != "[1-2 3-3]" {
		t.Fatalf("submits = %v", fake.submits)
	}
}

func TestAzureExtractMaxPages(t *testing.T) {
	fake := &fakeAzure{
		throttled: true,
		polls:     map[string]int{},
		results: map[string]map[string]any{
			"1-1": {"status": "succeeded", "analyzeResult": map[string]any{
				"content": "ONLY",
				"pages":   []map[string]any{{"pageNumber": 1, "spans": span(0, 4)}},
			}},
		},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	got, err := newTestAzure(t, srv.URL, 9).Extract(context.Background(), []byte("%PDF"), 1)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Pages != 1 || !strings.HasSuffix(got.Text, "ONLY") {
		t.Fatalf("unexpected extraction: %+v", got)
	}
}

func TestAzureExtractFailed(t *testing.T) {
	fake := &fakeAzure{
		throttled: true,
		polls:     map[string]int{},
		results: map[string]map[string]any{
			"1-1": {"status": "failed", "error": map[string]any{"message": "corrupt document"}},
		},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	_, err := newTestAzure(t, srv.URL, 1).Extract(context.Background(), []byte("%PDF"), 0)
	if !errors.Is(err, ErrAzureFailed) {
		t.Fatalf("expected ErrAzureFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "corrupt document") {
		t.Fatalf("error lacks service message: %v", err)
	}
}

func TestAzureSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestAzure(t, srv.URL, 1).Extract(context.Background(), []byte("%PDF"), 0)
	if !errors.Is(err, ErrAzureFailed) || !strings.Contains(err.Error(), "401") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAzureContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestAzure(t, srv.URL, 1).Extract(ctx, []byte("%PDF"), 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewAzureMissingCredentials(t *testing.T) {
	for _, c := range [][2]string{{"", "key"}, {"https://x", ""}} {
		if _, err := NewAzure(c[0], c[1], nil); !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("NewAzure(%q, %q) err = %v", c[0], c[1], err)
		}
	}
}

func TestAzureRetryWait(t *testing.T) {
	a := &Azure{jitter: func() time.Duration { return time.Second }}
	cases := []struct {
		header  string
		backoff time.Duration
		want    time.Duration
	}{
		{"7", 3 * time.Second, 8 * time.Second},
		{"", 3 * time.Second, 4 * time.Second},
		{"", 64 * time.Second, 31 * time.Second},
		{"soon", 2 * time.Second, 3 * time.Second},
	}
	for _, c := range cases {
		if got := a.retryWait(c.header, c.backoff); got != c.want {
			t.Errorf("retryWait(%q, %v) = %v, want %v", c.header, c.backoff, got, c.want)
		}
	}
}

func TestPageTextsRuneOffsets(t *testing.T) {
	var res analyzeResult
	raw := `{"status":"succeeded","analyzeResult":{"content":"ÉTAT\nRÉSUMÉ","pages":[
		{"pageNumber":1,"spans":[{"offset":0,"length":4}]},
		{"pageNumber":2,"spans":[{"offset":5,"length":99}]},
		{"spans":[]}]}}`
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatal(err)
	}
	got := pageTexts(res)
	if len(got) != 3 || got[0].text != "ÉTAT" || got[1].text != "RÉSUMÉ" {
		t.Fatalf("pageTexts = %+v", got)
	}
	if got[2].number != 1 || got[2].text != "" {
		t.Fatalf("page without spans = %+v", got[2])
	}
}
