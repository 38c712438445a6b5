// Package config loads the facture configuration file.
//
// The file is TOML, looked up at --config, then $FACTURE_CONFIG, then
// $XDG_CONFIG_HOME/facture/config.toml. A missing default file is not an
// error: every setting has a default. Selected environment variables
// override the file.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/i18n"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/money"
)

const appName = "facture"

// Environment variables read by Load.
const (
	EnvConfig      = "FACTURE_CONFIG"
	EnvOutputDir   = "FACTURE_OUTPUT_DIR"
	EnvRedisAddr   = "FACTURE_REDIS_ADDR"
	EnvMongoURI    = "FACTURE_MONGO_URI"
	EnvPostgresDSN = "FACTURE_POSTGRES_DSN"
)

// Numbering backends.
const (
	NumberingDir   = "dir"
	NumberingRedis = "redis"
)

// Ledger backends.
const (
	LedgerFile     = "file"
	LedgerMongo    = "mongo"
	LedgerPostgres = "postgres"
	LedgerNone     = "none"
)

// Config is the decoded configuration file.
type Config struct {
	OutputDir string `toml:"output_dir"`
	Language  string `toml:"language"`

	Invoice   InvoiceConfig   `toml:"invoice"`
	Data      DataConfig      `toml:"data"`
	Fonts     FontsConfig     `toml:"fonts"`
	Numbering NumberingConfig `toml:"numbering"`
	Ledger    LedgerConfig    `toml:"ledger"`
	Server    ServerConfig    `toml:"server"`
}

// InvoiceConfig holds document defaults.
type InvoiceConfig struct {
	Currency       string `toml:"currency"`
	CurrencyLocale string `toml:"currency_locale"`
	RoundResult    bool   `toml:"round_result"`
	Rounding       string `toml:"rounding"`
	Kind           string `toml:"kind"`
	Mode           int    `toml:"mode"`
}

// DataConfig points at the YAML address book.
type DataConfig struct {
	Provider string `toml:"provider"`
	Clients  string `toml:"clients"`
	Items    string `toml:"items"`
}

// FontsConfig overrides font discovery.
type FontsConfig struct {
	Regular string `toml:"regular"`
	Bold    string `toml:"bold"`
}

// NumberingConfig selects where sequence numbers come from.
type NumberingConfig struct {
	Backend        string `toml:"backend"`
	RedisAddr      string `toml:"redis_addr"`
	RedisKeyPrefix string `toml:"redis_key_prefix"`
}

// LedgerConfig selects where issued documents are recorded.
type LedgerConfig struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	PostgresDSN   string `toml:"postgres_dsn"`
}

// ServerConfig configures `facture serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	ledgerPath := filepath.Join("~", ".local", "share", appName, "ledger")
	if dir, err := DataDir(); err == nil {
		ledgerPath = filepath.Join(dir, "ledger")
	}
	return &Config{
		OutputDir: filepath.Join("~", "Factures"),
		Language:  i18n.DefaultLang,
		Invoice: InvoiceConfig{
			Currency:       invoice.DefaultCurrency,
			CurrencyLocale: invoice.DefaultCurrencyLocale,
			Rounding:       string(invoice.RoundHalfEven),
			Kind:           string(invoice.KindInvoice),
			Mode:           int(invoice.ModeUnits),
		},
		Data: DataConfig{
			Provider: "provider.yaml",
			Clients:  "clients_abook.yaml",
			Items:    "items.yaml",
		},
		Numbering: NumberingConfig{
			Backend:        NumberingDir,
			RedisAddr:      "localhost:6379",
			RedisKeyPrefix: appName + ":seq:",
		},
		Ledger: LedgerConfig{
			Backend:       LedgerFile,
			Path:          ledgerPath,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the configuration directory ($XDG_CONFIG_HOME/facture).
func Dir() (string, error) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns the data directory ($XDG_DATA_HOME/facture).
func DataDir() (string, error) {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Path resolves the configuration file: explicit, then $FACTURE_CONFIG, then
// the default location.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(EnvConfig); v != "" {
		return v, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration. An explicit path must exist; the default one
// may be absent.
func Load(explicit string) (*Config, error) {
	path, err := Path(explicit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve config path")
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			log.Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
		}
	case os.IsNotExist(err) && explicit == "" && os.Getenv(EnvConfig) == "":
		log.Debug("no config file, using defaults", "path", path)
	default:
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	cfg.applyEnv()
	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Language = i18n.Lang(c.Language)
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Numbering.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Ledger.MongoURI = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		c.Ledger.PostgresDSN = v
	}
}

func (c *Config) expand() {
	c.OutputDir = ExpandHome(c.OutputDir)
	c.Ledger.Path = ExpandHome(c.Ledger.Path)
	c.Data.Provider = ExpandHome(c.Data.Provider)
	c.Data.Clients = ExpandHome(c.Data.Clients)
	c.Data.Items = ExpandHome(c.Data.Items)
	c.Fonts.Regular = ExpandHome(c.Fonts.Regular)
	c.Fonts.Bold = ExpandHome(c.Fonts.Bold)
}

// Validate checks enumerated values and the currency.
func (c *Config) Validate() error {
	if _, err := invoice.ParseKind(c.Invoice.Kind); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invoice.kind")
	}
	if _, err := invoice.ParseMode(invoice.Mode(c.Invoice.Mode).String()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invoice.mode")
	}
	if _, err := invoice.ParseRoundingStrategy(c.Invoice.Rounding); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invoice.rounding")
	}
	if err := money.New(c.Invoice.Currency, c.Invoice.CurrencyLocale).Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invoice.currency")
	}
	switch c.Numbering.Backend {
	case NumberingDir, NumberingRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "numbering.backend: unknown backend %q (dir, redis)", c.Numbering.Backend)
	}
	switch c.Ledger.Backend {
	case LedgerFile, LedgerMongo, LedgerPostgres, LedgerNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "ledger.backend: unknown backend %q (file, mongo, postgres, none)", c.Ledger.Backend)
	}
	if c.Ledger.Backend == LedgerPostgres && c.Ledger.PostgresDSN == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "ledger.postgres_dsn is required for the postgres backend")
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves the configuration to path, creating parent directories. It
// refuses to overwrite an existing file unless force is set.
func Write(c *Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists", path)
		}
	}
	data, err := c.Encode()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
