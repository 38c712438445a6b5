package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/pkg/addressbook"
	"github.com/matzehuels/facture/pkg/buildinfo"
	"github.com/matzehuels/facture/pkg/config"
	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/fonts"
	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/numbering"
	"github.com/matzehuels/facture/pkg/observability"
	"github.com/matzehuels/facture/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "facture"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means the default lookup.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "facture generates PDF invoices and quotes",
		Long: `facture generates PDF invoices ("facture") and quotes ("devis") from a YAML
address book or a JSON document, numbers them per year and keeps a ledger of
every issued document.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetLedgerHooks(hooks)
			observability.SetHTTPHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/facture/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.ledgerCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newRunner creates a pipeline runner numbering documents under outputDir.
// The returned release func closes the sequencer and the ledger.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, outputDir string) (*pipeline.Runner, func(), error) {
	var (
		seq     numbering.Sequencer
		closers []func() error
	)
	switch cfg.Numbering.Backend {
	case config.NumberingRedis:
		rs, err := numbering.DialRedis(ctx, cfg.Numbering.RedisAddr, cfg.Numbering.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		seq = rs
		closers = append(closers, rs.Close)
	default:
		seq = numbering.NewDirSequencer(outputDir)
	}

	store, err := ledger.Open(ctx, ledgerOptions(cfg))
	if err != nil {
		for _, fn := range closers {
			_ = fn()
		}
		return nil, nil, err
	}
	runner := pipeline.NewRunner(seq, store, c.Logger)
	closers = append(closers, runner.Close)

	release := func() {
		for _, fn := range closers {
			if err := fn(); err != nil {
				c.Logger.Debug("close", "err", err)
			}
		}
	}
	return runner, release, nil
}

func ledgerOptions(cfg *config.Config) ledger.Options {
	return ledger.Options{
		Backend:       cfg.Ledger.Backend,
		Path:          cfg.Ledger.Path,
		MongoURI:      cfg.Ledger.MongoURI,
		MongoDatabase: cfg.Ledger.MongoDatabase,
		PostgresDSN:   cfg.Ledger.PostgresDSN,
	}
}

func resolveFonts(cfg *config.Config) fonts.Set {
	return fonts.Resolve(fonts.Config{Regular: cfg.Fonts.Regular, Bold: cfg.Fonts.Bold})
}

// =============================================================================
// Options Helpers
// =============================================================================

// dataPaths returns the address-book files, flags first.
func dataPaths(cfg *config.Config, provider, clients, items string) addressbook.Paths {
	p := addressbook.Paths{Provider: cfg.Data.Provider, Clients: cfg.Data.Clients, Items: cfg.Data.Items}
	if provider != "" {
		p.Provider = provider
	}
	if clients != "" {
		p.Clients = clients
	}
	if items != "" {
		p.Items = items
	}
	p.Provider = config.ExpandHome(p.Provider)
	p.Clients = config.ExpandHome(p.Clients)
	p.Items = config.ExpandHome(p.Items)
	return p
}

// errNoInput is returned when a required value cannot be prompted for.
func errNoInput(flag string) error {
	return errors.New(errors.ErrCodeInvalidInput, "--%s is required when not running interactively", flag)
}

func errNoClients() error {
	return errors.New(errors.ErrCodeClientNotFound, "the address book has no client with an item set")
}
