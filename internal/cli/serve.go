package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/internal/server"
	"github.com/matzehuels/facture/pkg/pipeline"
)

// serveCommand creates the serve command, which exposes generation over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the invoice API over HTTP",
		Long: `Serve the invoice API over HTTP.

  POST /invoices          generate a document from a JSON body, returns the PDF
  POST /invoices/preview  compute the totals of a JSON document
  GET  /invoices          list the ledger (?year=, ?kind=, ?client=)
  GET  /invoices/{id}     fetch one ledger record
  GET  /healthz           liveness check

Documents are numbered and written exactly as "facture generate" does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, release, err := c.newRunner(ctx, cfg, cfg.OutputDir)
			if err != nil {
				return err
			}
			defer release()

			srv := server.New(runner, pipeline.Options{
				OutputDir: cfg.OutputDir,
				Fonts:     resolveFonts(cfg),
				Language:  cfg.Language,
			}, c.Logger)

			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
