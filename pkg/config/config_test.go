package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/facture/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvOutputDir, EnvRedisAddr, EnvMongoURI, EnvPostgresDSN, "INVOICE_LANG"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Language != "fr" {
		t.Errorf("Language = %q, want fr", cfg.Language)
	}
	if cfg.Invoice.Currency != "€" || cfg.Invoice.CurrencyLocale != "fr_FR.UTF-8" {
		t.Errorf("currency = %q %q", cfg.Invoice.Currency, cfg.Invoice.CurrencyLocale)
	}
	if cfg.Numbering.Backend != NumberingDir || cfg.Ledger.Backend != LedgerFile {
		t.Errorf("backends = %q %q", cfg.Numbering.Backend, cfg.Ledger.Backend)
	}
	home, _ := os.UserHomeDir()
	if cfg.OutputDir != filepath.Join(home, "Factures") {
		t.Errorf("OutputDir = %q, want ~/Factures expanded", cfg.OutputDir)
	}
	if !strings.HasSuffix(cfg.Ledger.Path, filepath.Join(appName, "ledger")) {
		t.Errorf("Ledger.Path = %q", cfg.Ledger.Path)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
output_dir = "/srv/factures"
language = "cs"

[invoice]
currency = "CZK"
currency_locale = "cs_CZ.UTF-8"
round_result = true
rounding = "half-up"
mode = 2

[ledger]
backend = "none"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "/srv/factures" || cfg.Language != "cs" {
		t.Errorf("top-level = %q %q", cfg.OutputDir, cfg.Language)
	}
	if !cfg.Invoice.RoundResult || cfg.Invoice.Rounding != "half-up" || cfg.Invoice.Mode != 2 {
		t.Errorf("invoice = %+v", cfg.Invoice)
	}
	if cfg.Invoice.Kind != "facture" {
		t.Errorf("unset kind = %q, want default facture", cfg.Invoice.Kind)
	}
	if cfg.Ledger.Backend != LedgerNone {
		t.Errorf("Ledger.Backend = %q", cfg.Ledger.Backend)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `language = "cs"`)
	t.Setenv("INVOICE_LANG", "en")
	t.Setenv(EnvOutputDir, "/tmp/out")
	t.Setenv(EnvRedisAddr, "redis:6380")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Language)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Numbering.RedisAddr != "redis:6380" {
		t.Errorf("RedisAddr = %q", cfg.Numbering.RedisAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "language = ", errors.ErrCodeInvalidConfig},
		{"kind", "[invoice]\nkind = \"avoir\"", errors.ErrCodeInvalidConfig},
		{"mode", "[invoice]\nmode = 3", errors.ErrCodeInvalidConfig},
		{"rounding", "[invoice]\nrounding = \"sideways\"", errors.ErrCodeInvalidConfig},
		{"currency", "[invoice]\ncurrency = \"ZZZ\"", errors.ErrCodeInvalidConfig},
		{"numbering", "[numbering]\nbackend = \"etcd\"", errors.ErrCodeInvalidConfig},
		{"ledger", "[ledger]\nbackend = \"sqlite\"", errors.ErrCodeInvalidConfig},
		{"postgres dsn", "[ledger]\nbackend = \"postgres\"", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestPath(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := Path("")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, appName, "config.toml"); got != want {
		t.Errorf("Path(\"\") = %q, want %q", got, want)
	}

	t.Setenv(EnvConfig, "/etc/facture.toml")
	if got, _ := Path(""); got != "/etc/facture.toml" {
		t.Errorf("Path with %s = %q", EnvConfig, got)
	}
	if got, _ := Path("/x.toml"); got != "/x.toml" {
		t.Errorf("explicit Path = %q", got)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Language = "cs"
	if err := Write(cfg, path, false); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := Write(cfg, path, false); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("second Write() error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
	if err := Write(cfg, path, true); err != nil {
		t.Errorf("forced Write() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Language != "cs" || loaded.Server.Addr != ":8080" {
		t.Errorf("loaded = %q %q", loaded.Language, loaded.Server.Addr)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := map[string]string{
		"~":          home,
		"~/Factures": filepath.Join(home, "Factures"),
		"/abs":       "/abs",
		"rel/~":      "rel/~",
		"~other":     "~other",
	}
	for in, want := range tests {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}
