package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/pkg/addressbook"
	"github.com/matzehuels/facture/pkg/config"
	"github.com/matzehuels/facture/pkg/errors"
	fio "github.com/matzehuels/facture/pkg/io"
	"github.com/matzehuels/facture/pkg/invoice"
)

// sourceFlags select the document: an address-book entry or a JSON file,
// plus per-run overrides.
type sourceFlags struct {
	name     string
	from     string
	provider string
	clients  string
	items    string

	kind    string
	mode    string
	date    string
	due     string
	taxable string
	paytype string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.name, "name", "n", "", "address-book key of the client")
	fl.StringVar(&f.from, "from", "", "JSON document to render instead of the address book")
	fl.StringVar(&f.provider, "provider", "", "provider YAML file")
	fl.StringVar(&f.clients, "clients", "", "clients YAML file")
	fl.StringVar(&f.items, "items", "", "items YAML file")
	fl.StringVarP(&f.kind, "kind", "k", "", "document kind: facture or devis")
	fl.StringVarP(&f.mode, "mode", "m", "", "items layout: 1 (units) or 2 (author rights)")
	fl.StringVar(&f.date, "date", "", "date of issue, YYYY-MM-DD (default today)")
	fl.StringVar(&f.due, "due", "", "due date, YYYY-MM-DD")
	fl.StringVar(&f.taxable, "taxable", "", "taxable supply date, YYYY-MM-DD")
	fl.StringVar(&f.paytype, "paytype", "", "payment method printed on the document")
}

// choices returns the kind and mode, falling back to the configuration.
func (f *sourceFlags) choices(cfg *config.Config) (invoice.Kind, invoice.Mode, error) {
	kind := f.kind
	if kind == "" {
		kind = cfg.Invoice.Kind
	}
	k, err := invoice.ParseKind(kind)
	if err != nil {
		return "", 0, err
	}

	mode := f.mode
	if mode == "" {
		mode = strconv.Itoa(cfg.Invoice.Mode)
	}
	m, err := invoice.ParseMode(mode)
	if err != nil {
		return "", 0, err
	}
	return k, m, nil
}

// build loads the document. pick is called for the client key when --name is
// empty; it may be nil when prompting is not possible.
func (f *sourceFlags) build(ctx context.Context, cfg *config.Config, pick func(*addressbook.Book) (string, error)) (*invoice.Invoice, error) {
	if f.from != "" {
		inv, err := fio.ImportJSON(config.ExpandHome(f.from))
		if err != nil {
			return nil, err
		}
		if f.kind != "" || f.mode != "" {
			k, m, err := f.choices(cfg)
			if err != nil {
				return nil, err
			}
			inv.Kind, inv.Mode = k, m
		}
		return inv, f.applyOverrides(inv)
	}

	book, err := addressbook.Load(dataPaths(cfg, f.provider, f.clients, f.items))
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded address book", "clients", len(book.Clients), "item sets", len(book.Items))

	if f.name == "" {
		if pick == nil {
			return nil, errNoInput("name")
		}
		if f.name, err = pick(book); err != nil {
			return nil, err
		}
	}

	if err := errors.ValidateName(f.name); err != nil {
		return nil, err
	}

	kind, mode, err := f.choices(cfg)
	if err != nil {
		return nil, err
	}
	inv, err := book.Build(f.name, kind, mode)
	if err != nil {
		return nil, err
	}

	inv.Currency = cfg.Invoice.Currency
	inv.CurrencyLocale = cfg.Invoice.CurrencyLocale
	inv.RoundResult = cfg.Invoice.RoundResult
	if inv.Rounding, err = invoice.ParseRoundingStrategy(cfg.Invoice.Rounding); err != nil {
		return nil, err
	}
	return inv, f.applyOverrides(inv)
}

func (f *sourceFlags) applyOverrides(inv *invoice.Invoice) error {
	for _, d := range []struct {
		flag string
		in   string
		out  *time.Time
	}{
		{"date", f.date, &inv.Date},
		{"due", f.due, &inv.DueDate},
		{"taxable", f.taxable, &inv.TaxableDate},
	} {
		if d.in == "" {
			continue
		}
		t, err := time.ParseInLocation(fio.DateLayout, d.in, time.Local)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidDate, "--%s: %q is not a YYYY-MM-DD date", d.flag, d.in)
		}
		*d.out = t
	}
	if f.paytype != "" {
		inv.Paytype = f.paytype
	}
	return nil
}
