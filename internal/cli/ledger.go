package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/pkg/config"
	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/ledger"
	"github.com/matzehuels/facture/pkg/money"
)

// ledgerCommand creates the ledger command with its subcommands.
func (c *CLI) ledgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the record of issued documents",
	}
	cmd.AddCommand(c.ledgerListCommand())
	cmd.AddCommand(c.ledgerShowCommand())
	cmd.AddCommand(c.ledgerPathCommand())
	return cmd
}

func (c *CLI) ledgerListCommand() *cobra.Command {
	var (
		filter ledger.Filter
		kind   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List issued documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "" {
				k, err := invoice.ParseKind(kind)
				if err != nil {
					return err
				}
				filter.Kind = string(k)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), ledgerOptions(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				if recs == nil {
					recs = []*ledger.Record{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}
			if len(recs) == 0 {
				printInfo("No documents recorded")
				return nil
			}

			rows := make([][]string, len(recs))
			for i, r := range recs {
				f := money.New(r.Currency, cfg.Invoice.CurrencyLocale)
				rows[i] = []string{r.InvoiceID, r.Date.Format("2006-01-02"), r.Kind, r.Client, f.Format(r.Total), f.Format(r.TotalTax)}
			}
			printTable([]string{"ID", "Date", "Kind", "Client", "Total", "With VAT"}, rows)
			printDetail("%d documents", len(recs))
			return nil
		},
	}

	cmd.Flags().IntVar(&filter.Year, "year", 0, "only documents of this year")
	cmd.Flags().StringVar(&kind, "kind", "", "only this kind: facture or devis")
	cmd.Flags().StringVar(&filter.Client, "client", "", "only clients whose name contains this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the records as JSON")

	return cmd
}

func (c *CLI) ledgerShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one issued document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateInvoiceID(args[0]); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), ledgerOptions(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f := money.New(rec.Currency, cfg.Invoice.CurrencyLocale)
			printKeyValue("ID", rec.InvoiceID)
			printKeyValue("Kind", rec.Kind)
			printKeyValue("Date", rec.Date.Format("2006-01-02"))
			printKeyValue("Client", rec.Client)
			if rec.Subject != "" {
				printKeyValue("Subject", rec.Subject)
			}
			printKeyValue("Total", f.Format(rec.Total))
			printKeyValue("With VAT", f.Format(rec.TotalTax))
			printKeyValue("File", rec.Path)
			printKeyValue("Fingerprint", rec.Fingerprint[:min(12, len(rec.Fingerprint))])
			printKeyValue("Recorded", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func (c *CLI) ledgerPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the ledger is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printKeyValue("Backend", cfg.Ledger.Backend)
			switch cfg.Ledger.Backend {
			case config.LedgerFile:
				printFile(cfg.Ledger.Path)
			case config.LedgerMongo:
				printKeyValue("Database", cfg.Ledger.MongoDatabase)
				printDetail("collection %s", ledger.MongoCollection)
			case config.LedgerPostgres:
				printDetail("table invoices, DSN from ledger.postgres_dsn or $%s", config.EnvPostgresDSN)
			}
			return nil
		},
	}
}
