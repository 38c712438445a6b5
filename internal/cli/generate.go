package cli

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/pkg/addressbook"
	"github.com/matzehuels/facture/pkg/config"
	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/i18n"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/money"
	"github.com/matzehuels/facture/pkg/pipeline"
)

// generateOpts holds the generate command flags.
type generateOpts struct {
	source  sourceFlags
	output  string
	lang    string
	dryRun  bool
	noInput bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := &generateOpts{}

	cmd := &cobra.Command{
		Use:     "generate [name]",
		Aliases: []string{"gen"},
		Short:   "Generate a numbered invoice or quote PDF",
		Long: `Generate a numbered invoice or quote PDF.

The document is built from the address book (the provider, the client named
by [name] or --name, and the item set of the same name) or read from a JSON
document with --from. It receives the next number of its year, is written to
<output>/<year>/<id>_<client>.pdf and recorded in the ledger.

Missing choices are prompted for when running in a terminal.`,
		Example: `  # Interactive: pick the client, kind and layout
  facture generate

  # Non-interactive
  facture generate acme --kind devis --mode 1 --output ~/Factures --no-input

  # Render a JSON document to an exact file
  facture generate --from invoice.json --output ./out.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.source.name != "" && opts.source.name != args[0] {
					return errors.New(errors.ErrCodeInvalidInput, "both [name] %q and --name %q given", args[0], opts.source.name)
				}
				opts.source.name = args[0]
			}
			return c.runGenerate(cmd, opts)
		},
	}

	opts.source.register(cmd)
	opts.source.registerCompletions(c, cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory, or a file ending in .pdf (default from config)")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "language of the document: "+strings.Join(languageNames(), ", "))
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "render without writing the PDF or the ledger entry")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "never prompt; fail when a value is missing")
	_ = cmd.RegisterFlagCompletionFunc("lang", completeLanguages)

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	interactive := !opts.noInput && isInteractive()
	if interactive {
		if err := promptChoices(ctx, cmd, cfg, opts); err != nil {
			return err
		}
	}

	var pick func(*addressbook.Book) (string, error)
	if interactive {
		pick = func(b *addressbook.Book) (string, error) { return pickClient(ctx, b) }
	}
	inv, err := opts.source.build(ctx, cfg, pick)
	if err != nil {
		return err
	}

	lang := cfg.Language
	if opts.lang != "" {
		lang = opts.lang
	}
	popts := pipeline.Options{
		OutputDir: cfg.OutputDir,
		Fonts:     resolveFonts(cfg),
		Language:  lang,
		DryRun:    opts.dryRun,
	}
	output := config.ExpandHome(opts.output)
	switch {
	case strings.EqualFold(filepath.Ext(output), ".pdf"):
		popts.OutputPath = output
	case output != "":
		popts.OutputDir = output
	}

	printArguments(inv, popts)

	runner, release, err := c.newRunner(ctx, cfg, popts.OutputDir)
	if err != nil {
		return err
	}
	defer release()

	var spinner *Spinner
	if stderrIsTerminal() {
		spinner = newSpinnerWithContext(ctx, "Numbering "+string(inv.Kind)+"...")
		defer followStages(spinner)()
		spinner.Start()
	}
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, inv, popts)
	if err != nil && res == nil {
		if spinner != nil {
			spinner.StopWithError("Generation failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Stop()
	}
	prog.done("Generated " + res.InvoiceID)

	if opts.dryRun {
		printInfo("Dry run: %s would be written to %s", res.InvoiceID, popts.Path(inv))
		printStats(res.Stats)
		return nil
	}

	printSuccess("PDF generated %s %s", iconArrow, res.Path)
	printStats(res.Stats)
	if err != nil {
		printWarning("%v", err)
		return nil
	}
	printNextStep("Show the ledger entry", appName+" ledger show "+res.InvoiceID)
	return nil
}

// promptChoices asks for the output, kind and mode whose flags were not set.
func promptChoices(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *generateOpts) error {
	var p choicePrompt
	if !cmd.Flags().Changed("output") {
		opts.output = cfg.OutputDir
		p.output = &opts.output
	}
	if opts.source.from == "" {
		if !cmd.Flags().Changed("kind") {
			opts.source.kind = cfg.Invoice.Kind
			p.kind = &opts.source.kind
		}
		if !cmd.Flags().Changed("mode") {
			opts.source.mode = strconv.Itoa(cfg.Invoice.Mode)
			p.mode = &opts.source.mode
		}
	}
	return p.run(ctx)
}

// printArguments shows what is about to be generated.
func printArguments(inv *invoice.Invoice, opts pipeline.Options) {
	output := opts.OutputPath
	if output == "" {
		output = opts.OutputDir
	}
	rows := [][]string{
		{"Kind", string(inv.Kind)},
		{"Mode", inv.Mode.String()},
		{"Client", inv.Client.Summary},
		{"Subject", inv.Subject},
		{"Items", strconv.Itoa(len(inv.Items()))},
		{"Total", money.New(inv.Currency, inv.CurrencyLocale).Format(inv.PriceTax())},
		{"Language", opts.Language},
		{"Output", output},
	}
	if !inv.Date.IsZero() {
		rows = append(rows, []string{"Date", inv.Date.Format("2006-01-02")})
	}
	printTable(nil, rows)
}

func languageNames() []string {
	tags := i18n.Languages()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return names
}
