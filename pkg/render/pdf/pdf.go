// Package pdf lays out invoices and quotes as A4 PDF documents.
//
// Positions are expressed in millimetres measured from the bottom-left
// corner of the page and converted for gofpdf, whose origin is the top-left
// corner. The layout is a bordered header with the two parties, the dates
// and payment details, followed by the items table, the totals, the URSSAF
// contribution block and the legal footer.
package pdf

import (
	"bytes"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/fonts"
	"github.com/matzehuels/facture/pkg/i18n"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/money"
	"github.com/matzehuels/facture/pkg/render"
)

// Options configures rendering.
type Options struct {
	// Fonts to embed. The zero value uses the core Helvetica font.
	Fonts fonts.Set
	// Language of the labels and dates. Empty means i18n.DefaultLang.
	Language string
	// CreationDate is stored in the document metadata. Zero means now.
	CreationDate time.Time
}

// Render lays out inv and returns the PDF bytes.
func Render(inv *invoice.Invoice, opts Options) ([]byte, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	r := newRenderer(inv, opts)
	r.draw()
	if r.pdf.Err() {
		return nil, errors.Wrap(errors.ErrCodeInternal, r.pdf.Error(), "render %s", inv.ID)
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", inv.ID)
	}
	return buf.Bytes(), nil
}

// RenderToFile renders inv and writes it atomically to path.
func RenderToFile(inv *invoice.Invoice, path string, opts Options) error {
	data, err := Render(inv, opts)
	if err != nil {
		return err
	}
	return render.WriteFile(path, data)
}

type renderer struct {
	pdf    *gofpdf.Fpdf
	inv    *invoice.Invoice
	family string
	enc    func(string) string
	t      *i18n.Translator
	lang   string
	money  money.Formatter
}

func newRenderer(inv *invoice.Invoice, opts Options) *renderer {
	lang := opts.Language
	if lang == "" {
		lang = i18n.DefaultLang
	}

	set := opts.Fonts
	if set.Family == "" {
		set = fonts.Core()
	}
	pdf, enc := newDocument(set)
	if pdf.Err() && set.UTF8 {
		log.Warn("cannot load fonts, falling back to Helvetica", "err", pdf.Error(), "regular", set.Regular)
		set = fonts.Core()
		pdf, enc = newDocument(set)
	}

	created := opts.CreationDate
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)

	title := inv.Title
	if title == "" {
		title = inv.ID
	}
	pdf.SetCreator(inv.Provider.Summary, true)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(inv.Creator.Name, true)
	pdf.SetSubject(inv.Subject, true)

	return &renderer{
		pdf:    pdf,
		inv:    inv,
		family: set.Family,
		enc:    enc,
		t:      i18n.New(lang),
		lang:   lang,
		money:  money.New(inv.Currency, inv.CurrencyLocale),
	}
}

func newDocument(set fonts.Set) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if set.UTF8 {
		pdf.AddUTF8Font(set.Family, "", set.Regular)
		pdf.AddUTF8Font(set.Family, "B", set.Bold)
		return pdf, func(s string) string { return s }
	}
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}
