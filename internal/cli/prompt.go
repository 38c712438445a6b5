package cli

import (
	"context"
	stderrors "errors"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/matzehuels/facture/pkg/invoice"
)

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// stderrIsTerminal reports whether the spinner can draw on stderr.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// choicePrompt asks for the values whose flags were not given. Nil pointers
// are skipped.
type choicePrompt struct {
	output *string
	kind   *string
	mode   *string
}

func (p choicePrompt) empty() bool {
	return p.output == nil && p.kind == nil && p.mode == nil
}

func (p choicePrompt) run(ctx context.Context) error {
	if p.empty() {
		return nil
	}

	var fields []huh.Field
	if p.output != nil {
		fields = append(fields, huh.NewInput().
			Title("Output").
			Description("Directory, or a file ending in .pdf").
			Value(p.output))
	}
	if p.kind != nil {
		fields = append(fields, huh.NewSelect[string]().
			Title("Document").
			Options(
				huh.NewOption("Facture (invoice)", string(invoice.KindInvoice)),
				huh.NewOption("Devis (quote)", string(invoice.KindQuote)),
			).
			Value(p.kind))
	}
	if p.mode != nil {
		fields = append(fields, huh.NewSelect[string]().
			Title("Items layout").
			Options(
				huh.NewOption("Units", strconv.Itoa(int(invoice.ModeUnits))),
				huh.NewOption("Author rights", strconv.Itoa(int(invoice.ModeAuthorRights))),
			).
			Value(p.mode))
	}

	err := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCharm()).
		RunWithContext(ctx)
	if stderrors.Is(err, huh.ErrUserAborted) {
		return context.Canceled
	}
	return err
}
