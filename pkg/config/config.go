// Package config loads service settings from the environment, an optional
// .env file and an optional YAML overlay named by CAUSELIST_CONFIG.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the service and its tools.
type Config struct {
	Addr        string `yaml:"addr"`
	MaxPages    int    `yaml:"max_pages"`
	MaxUploadMB int    `yaml:"max_upload_mb"`

	DBDriver      string `yaml:"db_driver"`
	DBDSN         string `yaml:"db_dsn"`
	DBAutoMigrate bool   `yaml:"db_auto_migrate"`
	SQLitePath    string `yaml:"sqlite_path"`

	JWTSecret   string   `yaml:"jwt_secret"`
	CORSOrigins []string `yaml:"cors_origins"`

	AzureEndpoint string `yaml:"azure_endpoint"`
	AzureAPIKey   string `yaml:"azure_api_key"`
	PaddleURL     string `yaml:"paddle_url"`

	TesseractLang     string `yaml:"tesseract_lang"`
	TesseractDPIWidth int    `yaml:"tesseract_dpi_width"`

	LogLevel string `yaml:"log_level"`
	AppEnv   string `yaml:"app_env"`
}

// Storage backends.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:              ":8081",
		MaxUploadMB:       50,
		DBDriver:          DriverMemory,
		DBAutoMigrate:     true,
		SQLitePath:        "causelist.db",
		CORSOrigins:       []string{"*"},
		TesseractLang:     "eng",
		TesseractDPIWidth: 2480,
		LogLevel:          "info",
	}
}

// Load reads ./.env (existing variables win), then the YAML file named by
// CAUSELIST_CONFIG, then environment variables, in increasing precedence.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg := Default()
	if path := os.Getenv("CAUSELIST_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("ADDR", &c.Addr)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_DSN", &c.DBDSN)
	str("SQLITE_PATH", &c.SQLitePath)
	str("JWT_SECRET", &c.JWTSecret)
	str("AZURE_ENDPOINT", &c.AzureEndpoint)
	str("AZURE_API_KEY", &c.AzureAPIKey)
	str("PADDLE_URL", &c.PaddleURL)
	str("TESSERACT_LANG", &c.TesseractLang)
	str("LOG_LEVEL", &c.LogLevel)
	str("APP_ENV", &c.AppEnv)

	for key, dst := range map[string]*int{
		"MAX_PAGES":           &c.MaxPages,
		"MAX_UPLOAD_MB":       &c.MaxUploadMB,
		"TESSERACT_DPI_WIDTH": &c.TesseractDPIWidth,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("DB_AUTO_MIGRATE"); ok && v != "" {
		lv := strings.ToLower(v)
		c.DBAutoMigrate = !(lv == "false" || lv == "0" || lv == "no")
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.MaxPages < 0 {
		errs = append(errs, errors.New("MAX_PAGES must not be negative"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}
	return errors.Join(errs...)
}

// Dev reports whether development defaults (verbose logging) apply.
func (c Config) Dev() bool {
	return strings.EqualFold(c.LogLevel, "debug") || strings.EqualFold(c.AppEnv, "dev")
}
