// Package config reads outlines settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
)

// Config holds all runtime configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default XDG path.
	DBPath string

	// DatabaseURL selects PostgreSQL instead of SQLite when set.
	DatabaseURL string

	// Addr is the listen address of `outlines serve`.
	Addr string

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string
	TokenTTL  time.Duration

	// APIURL points the wizard at a remote server. Empty runs everything
	// in-process against the local store.
	APIURL string

	// Token is the bearer credential used with APIURL.
	Token string

	// CatalogPath overrides the embedded standards catalog.
	CatalogPath string

	// CatalogURL is the release base URL used by `outlines catalog sync`.
	CatalogURL string

	CORSOrigins []string

	LogMode string
	LogFile string

	DetectionEnabled bool

	Policy        ccn.Policy
	Justification justification.Bounds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:             ":8080",
		TokenTTL:         12 * time.Hour,
		CatalogURL:       "https://github.com/abhisek/outlines-catalog/releases/download",
		CORSOrigins:      []string{"http://localhost:3000"},
		LogMode:          "dev",
		DetectionEnabled: true,
		Policy:           ccn.DefaultPolicy(),
		Justification:    justification.DefaultBounds(),
	}
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored; variables already set are never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Malformed numbers are errors.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("OUTLINES_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OUTLINES_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("OUTLINES_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("OUTLINES_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("OUTLINES_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("OUTLINES_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("OUTLINES_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("OUTLINES_CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := os.Getenv("OUTLINES_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("OUTLINES_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("OUTLINES_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	var errs []error
	if v := os.Getenv("OUTLINES_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		errs = append(errs, wrap("OUTLINES_TOKEN_TTL", err))
		cfg.TokenTTL = d
	}
	if v := os.Getenv("OUTLINES_CCN_DETECTION"); v != "" {
		b, err := strconv.ParseBool(v)
		errs = append(errs, wrap("OUTLINES_CCN_DETECTION", err))
		cfg.DetectionEnabled = b
	}
	if v := os.Getenv("OUTLINES_ACCEPT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, wrap("OUTLINES_ACCEPT_THRESHOLD", err))
		cfg.Policy.AcceptThreshold = f
	}
	if v := os.Getenv("OUTLINES_HIGH_MATCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, wrap("OUTLINES_HIGH_MATCH_THRESHOLD", err))
		cfg.Policy.HighConfidenceThreshold = f
	}
	if v := os.Getenv("OUTLINES_JUSTIFICATION_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, wrap("OUTLINES_JUSTIFICATION_MIN", err))
		cfg.Justification.Min = n
	}
	if v := os.Getenv("OUTLINES_JUSTIFICATION_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, wrap("OUTLINES_JUSTIFICATION_MAX", err))
		cfg.Justification.Max = n
	}

	return cfg, errors.Join(errs...)
}

// Validate checks value ranges. The JWT secret is only required by callers
// that sign or verify tokens, so it is checked by ValidateServer.
func (c Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("match policy: %w", err)
	}
	if err := c.Justification.ValidateBounds(); err != nil {
		return err
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("OUTLINES_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// ValidateServer additionally checks what `outlines serve` needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("OUTLINES_JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// Remote reports whether the wizard should talk to a remote server.
func (c Config) Remote() bool {
	return c.APIURL != ""
}

func wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
