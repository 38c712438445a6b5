package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/pkg/addressbook"
	fio "github.com/matzehuels/facture/pkg/io"
	"github.com/matzehuels/facture/pkg/money"
	"github.com/matzehuels/facture/pkg/pipeline"
)

// previewCommand creates the preview command: it computes a document without
// numbering or rendering it.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		source sourceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "preview [name]",
		Short: "Show the items and totals of a document without generating it",
		Long: `Show the items, VAT breakdown and totals of a document without numbering,
rendering or recording it. With --json the document is printed in the JSON
format accepted by "facture generate --from".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				source.name = args[0]
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			var pick func(*addressbook.Book) (string, error)
			if isInteractive() {
				pick = func(b *addressbook.Book) (string, error) { return pickClient(cmd.Context(), b) }
			}
			inv, err := source.build(cmd.Context(), cfg, pick)
			if err != nil {
				return err
			}
			if asJSON {
				return fio.WriteJSON(inv, cmd.OutOrStdout())
			}

			printSummary(pipeline.Summarize(inv), money.New(inv.Currency, inv.CurrencyLocale), inv.CurrencyLocale)
			return nil
		},
	}

	source.register(cmd)
	source.registerCompletions(c, cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the document as JSON")

	return cmd
}

func printSummary(s pipeline.Summary, f money.Formatter, locale string) {
	printKeyValue("Kind", s.Kind)
	printKeyValue("Client", s.Client)
	printKeyValue("Provider", s.Provider)
	if s.Subject != "" {
		printKeyValue("Subject", s.Subject)
	}
	printNewline()

	items := make([][]string, len(s.Items))
	for i, it := range s.Items {
		items[i] = []string{
			it.Description,
			money.FormatQuantity(it.Quantity, locale) + " " + it.Unit,
			f.Format(it.UnitPrice),
			it.Tax.String() + " %",
			f.Format(it.Total),
		}
	}
	printTable([]string{"Description", "Quantity", "Unit price", "VAT", "Total"}, items)

	if len(s.VAT) > 0 {
		vat := make([][]string, len(s.VAT))
		for i, v := range s.VAT {
			vat[i] = []string{v.Rate.String() + " %", f.Format(v.Total), f.Format(v.Tax), f.Format(v.TotalTax)}
		}
		printTable([]string{"Rate", "Base", "VAT", "Total"}, vat)
	}

	totals := [][]string{{"Total", s.TotalText}}
	if len(s.VAT) > 0 {
		totals = append(totals, []string{"Total with VAT", s.TotalTaxText})
	}
	if !s.Rounding.IsZero() {
		totals = append(totals, []string{"Rounding", f.Format(s.Rounding)})
	}
	printTable(nil, totals)
}
