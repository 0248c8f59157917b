package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"ADDR":            ":9000",
		"MAX_PAGES":       "3",
		"DB_AUTO_MIGRATE": "No",
		"CORS_ORIGINS":    "http://a.example, http://b.example,",
		"JWT_SECRET":      "s3cret",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.MaxPages != 3 || cfg.DBAutoMigrate || cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if want := []string{"http://a.example", "http://b.example"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
	if cfg.TesseractLang != "eng" || cfg.MaxUploadMB != 50 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestApplyEnvBadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{"MAX_PAGES": "many"}))
	if err == nil || !strings.Contains(err.Error(), "MAX_PAGES") {
		t.Fatalf("expected MAX_PAGES error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"defaults", func(*Config) {}, true},
		{"sqlite", func(c *Config) { c.DBDriver = DriverSQLite }, true},
		{"postgres without dsn", func(c *Config) { c.DBDriver = DriverPostgres }, false},
		{"postgres", func(c *Config) { c.DBDriver = DriverPostgres; c.DBDSN = "host=x" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, false},
		{"negative pages", func(c *Config) { c.MaxPages = -1 }, false},
	}
	for _, tc := range cases {
		c := Default()
		tc.mod(&c)
		if err := c.Validate(); (err == nil) != tc.ok {
			t.Errorf("%s: Validate() = %v", tc.name, err)
		}
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "causelist.yaml")
	body := "addr: \":7070\"\nmax_pages: 2\npaddle_url: http://paddle.local/ocr\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAUSELIST_CONFIG", path)
	t.Setenv("MAX_PAGES", "5")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("yaml addr not applied: %q", cfg.Addr)
	}
	if cfg.MaxPages != 5 {
		t.Fatalf("env should override yaml, got %d", cfg.MaxPages)
	}
	if cfg.PaddleURL != "http://paddle.local/ocr" {
		t.Fatalf("paddle url = %q", cfg.PaddleURL)
	}
}

func TestDev(t *testing.T) {
	c := Default()
	if c.Dev() {
		t.Fatal("default config should not be dev")
	}
	c.AppEnv = "DEV"
	if !c.Dev() {
		t.Fatal("APP_ENV=dev should be dev")
	}
}
