package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/store"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postgresConfig(t *testing.T) config.Config {
	t.Helper()
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	cfg := config.Default()
	cfg.DBDriver = config.DriverPostgres
	cfg.DBDSN = os.Getenv("DB_DSN")
	return cfg
}

func TestFullFlowPostgres(t *testing.T) {
	cfg := postgresConfig(t)
	gin.SetMode(gin.TestMode)
	st, err := initStore(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("initStore: %v", err)
	}
	defer st.Close()

	ex := &fakeExtractor{text: sampleText, pages: 1}
	r := newTestRouter(t, cfg, st, ex)
	pdf := []byte("%PDF-1.4 integration")

	resp := upload(t, r, "application/pdf", "tesseract", pdf, "")
	if resp.Code != 200 {
		t.Fatalf("upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// a fresh server over the same database answers from the stored result
	r2 := newTestRouter(t, cfg, st, ex)
	resp = upload(t, r2, "application/pdf", "tesseract", pdf, "")
	if resp.Code != 200 || decode(t, resp)["extraction_time"] != float64(0) {
		t.Fatalf("cached upload status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r2, http.MethodGet, "/case?sno=3", nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("case 3 status=%d body=%s", resp.Code, resp.Body.String())
	}
	if _, err := st.Get(context.Background(), store.Key(fileHash(pdf), "tesseract")); err != nil {
		t.Fatalf("stored result: %v", err)
	}
}

func TestMigrateCommand(t *testing.T) {
	cfg := postgresConfig(t)
	if err := runMigrate(cfg, zap.NewNop()); err != nil {
		t.Fatalf("runMigrate: %v", err)
	}
}

func TestMigrateSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = config.DriverSQLite
	cfg.SQLitePath = t.TempDir() + "/causelist.db"
	if err := runMigrate(cfg, zap.NewNop()); err != nil {
		t.Fatalf("runMigrate: %v", err)
	}
	st, err := initStore(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := st.Get(context.Background(), "nothing"); err != store.ErrNotFound {
		t.Fatalf("Get on empty store: %v", err)
	}
}
