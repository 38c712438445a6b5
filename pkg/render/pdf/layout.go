package pdf

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/i18n"
	"github.com/matzehuels/facture/pkg/invoice"
	"github.com/matzehuels/facture/pkg/money"
)

// Page geometry in millimetres, measured from the bottom of an A4 page.
const (
	pageHeight = 297.0
	top        = 277.0
	left       = 15.0
	width      = 180.0

	ptMM      = 25.4 / 72
	lineWidth = 0.2 * ptMM
	framePad  = 6 * ptMM

	itemsTop     = top - 90
	itemsBottom  = 30.0 // a row ending below this moves to the next page
	footerBottom = top - 265
	footerHeight = 50.0
	footerTop    = footerBottom + footerHeight
	minRowHeight = 4.23
	descWidth    = 90.0
)

var hundred = decimal.NewFromInt(100)

func (r *renderer) draw() {
	r.pdf.AddPage()
	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetLineWidth(lineWidth)

	r.drawMain()
	r.drawTitle()
	r.drawAddress(top-10, left+3, 88, 36, r.t.Sprintf("Issuer"), r.inv.Provider)
	r.drawAddress(top-39, left+91, 88, 41, r.t.Sprintf("Recipient"), r.inv.Client)
	r.drawPayment(top-52, left+2)
	r.drawDates(top-10, left+91)
	r.drawSubject(top-80, left+3)

	end := r.drawItems(itemsTop, left)

	totalsHeight := r.totalsHeight()
	contribGap := max(30, totalsHeight+8)
	if end-15-contribGap-15 < footerTop+2 {
		r.pdf.AddPage()
		end = top + 10
	}
	y := end - 15
	if r.inv.HasTax() {
		r.drawVATBreakdown(y, left)
	} else {
		r.drawAmountPayable(y, left)
	}
	r.drawContributions(y-contribGap, left)
	r.drawFooter(footerBottom, left-2)

	r.drawPageNumbers()
}

// Primitives. v values are distances from the bottom of the page.

func (r *renderer) y(v float64) float64 { return pageHeight - v }

func (r *renderer) font(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	r.pdf.SetFont(r.family, style, size)
}

func (r *renderer) text(x, v float64, s string) {
	r.pdf.Text(x, r.y(v), r.enc(s))
}

func (r *renderer) textRight(x, v float64, s string) {
	enc := r.enc(s)
	r.pdf.Text(x-r.pdf.GetStringWidth(enc), r.y(v), enc)
}

func (r *renderer) hline(x1, x2, v float64) {
	r.pdf.Line(x1, r.y(v), x2, r.y(v))
}

func (r *renderer) vline(x, v1, v2 float64) {
	r.pdf.Line(x, r.y(v1), x, r.y(v2))
}

func (r *renderer) stringWidth(s string) float64 {
	return r.pdf.GetStringWidth(r.enc(s))
}

// wrap splits s into lines no wider than w in the current font. Explicit
// newlines are kept.
func (r *renderer) wrap(s string, w float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, word := range words[1:] {
			if next := cur + " " + word; r.stringWidth(next) <= w {
				cur = next
				continue
			}
			lines = append(lines, cur)
			cur = word
		}
		lines = append(lines, cur)
	}
	return lines
}

func (r *renderer) format(d decimal.Decimal) string {
	return r.money.Format(d)
}

// Header.

func (r *renderer) drawMain() {
	r.pdf.Rect(left, r.y(top-3), width, 65, "D")
	r.vline(left+88, top-3, top-68)
	r.hline(left, left+88, top-45)
	r.hline(left+88, left+width, top-27)
}

func (r *renderer) drawTitle() {
	r.font(false, 15)
	r.text(left, top, r.inv.ID)
	r.textRight(left+width, top, r.t.Sprintf("No. %s", r.inv.ID))
}

// drawAddress fills the frame whose bottom-left corner is (l-3, t-29). Lines
// that do not fit are dropped.
func (r *renderer) drawAddress(t, l, w, h float64, header string, a *invoice.Address) {
	x := l - 3 + framePad
	bottom := t - 29 + framePad
	cursor := t - 29 + h - framePad

	line := func(size, leading float64, s string) {
		cursor -= leading * ptMM
		if cursor < bottom || s == "" {
			return
		}
		r.font(false, size)
		r.text(x, cursor, s)
	}

	line(12, 15, header)
	cursor -= 2 * ptMM
	for _, s := range a.AddressLines(r.t.Sprintf) {
		line(8, 8.5, s)
	}
	cursor -= 5 * ptMM
	for _, s := range a.ContactLines() {
		line(8, 8.5, s)
	}
	cursor -= 5 * ptMM
	for _, s := range a.ProInfos() {
		line(8, 8.5, s)
	}
	for _, s := range strings.Split(a.Note, "\n") {
		line(6, 6, s)
	}

	if a.LogoFilename != "" {
		r.drawLogo(a.LogoFilename, l+84, t-4)
	}
}

// drawLogo draws the image 30pt high with its right edge at x and its
// bottom at v.
func (r *renderer) drawLogo(path string, x, v float64) {
	if _, err := os.Stat(path); err != nil {
		log.Warn("logo not found", "path", path)
		return
	}
	opts := gofpdf.ImageOptions{ReadDpi: false}
	info := r.pdf.RegisterImageOptions(path, opts)
	if info == nil || info.Height() == 0 {
		return
	}
	h := 30 * ptMM
	w := info.Width() * h / info.Height()
	r.pdf.ImageOptions(path, x-w, r.y(v)-h, w, h, false, opts, 0, "")
}

func (r *renderer) drawPayment(t, l float64) {
	r.font(true, 8)
	r.text(l, t+2, r.t.Sprintf("Payment information"))

	p := r.inv.Provider
	var lines []string
	if p.BankName != "" {
		lines = append(lines, p.BankName)
	}
	if acct := p.BankAccountString(); acct != "" {
		lines = append(lines, r.t.Sprintf("IBAN")+" "+acct)
	}
	if r.inv.IBAN != "" {
		lines = append(lines, r.t.Sprintf("IBAN")+": "+r.inv.IBAN)
	}
	if r.inv.SWIFT != "" {
		lines = append(lines, r.t.Sprintf("SWIFT")+": "+r.inv.SWIFT)
	}

	r.font(false, 8)
	v := t - 2
	for _, s := range lines {
		r.text(l, v, s)
		v -= 9.6 * ptMM
	}
}

func (r *renderer) drawDates(t, l float64) {
	r.font(false, 10)
	var lines []string
	if !r.inv.Date.IsZero() {
		lines = append(lines, r.t.Sprintf("Invoice date")+": "+i18n.FormatDate(r.inv.Date, r.lang))
	}
	if !r.inv.DueDate.IsZero() {
		lines = append(lines, r.t.Sprintf("Due date")+": "+i18n.FormatDate(r.inv.DueDate, r.lang))
	}
	if !r.inv.TaxableDate.IsZero() {
		lines = append(lines, r.t.Sprintf("Taxable date")+": "+i18n.FormatDate(r.inv.TaxableDate, r.lang))
	}
	if r.inv.Paytype != "" {
		lines = append(lines, r.t.Sprintf("Paytype")+": "+r.inv.Paytype)
	}

	v := t + 1
	for _, s := range lines {
		r.text(l, v, s)
		v -= 5
	}
}

func (r *renderer) drawSubject(t, l float64) {
	r.font(false, 12)
	r.text(l, t+2, r.t.Sprintf("Subject: %s", r.inv.Subject))
	if r.inv.Comment != "" {
		r.font(false, 8)
		r.text(l, t-2, r.inv.Comment)
	}
}

// Items.

func (r *renderer) drawItemsHeader(t, l float64) float64 {
	r.font(false, 12)
	r.text(l+3, t-5.5, r.t.Sprintf("Items"))

	r.font(false, 10)
	i := 9.0
	switch r.inv.Mode {
	case invoice.ModeAuthorRights:
		r.text(l+98, t-i, r.t.Sprintf("author rights"))
		r.text(l+131, t-i, r.t.Sprintf("sale price"))
	default:
		r.text(l+111, t-i, r.t.Sprintf("units"))
		r.text(l+131, t-i, r.t.Sprintf("unit price"))
	}
	r.textRight(l+177, t-i, r.t.Sprintf("total"))
	return i + 5
}

// drawItems draws the table and returns the height where it ends. Rows that
// would cross the bottom margin start a new page with a repeated header.
func (r *renderer) drawItems(t, l float64) float64 {
	i := r.drawItemsHeader(t, l)
	descLeading := 7 * 1.2 * ptMM

	for _, it := range r.inv.Items() {
		r.font(false, 7)
		desc := r.wrap(it.Description, descWidth)
		rowHeight := max(float64(len(desc))*descLeading, minRowHeight)

		if t-i-rowHeight < itemsBottom {
			r.pdf.AddPage()
			t = top
			i = r.drawItemsHeader(t, l)
			r.font(false, 7)
		}

		r.hline(l, l+width, t-i+3.5)

		i += rowHeight
		descTop := t - i + 3 + float64(len(desc))*descLeading
		for k, s := range desc {
			r.text(l+3, descTop-7*ptMM-float64(k)*descLeading, s)
		}
		i -= minRowHeight

		qty := strings.TrimSpace(money.FormatQuantity(it.Count, r.inv.CurrencyLocale) + " " + it.Unit)
		r.textRight(l+118, t-i, qty)
		r.textRight(l+148, t-i, r.format(it.Price))
		r.textRight(l+177, t-i, r.format(it.Total()))
		i += 5
	}
	return t - i
}

// Totals.

func (r *renderer) totalsHeight() float64 {
	if !r.inv.HasTax() {
		return 10
	}
	h := 13 + 4*float64(len(r.inv.BreakdownVAT())) + 4
	if r.showRounding() {
		h += 4
	}
	return h
}

func (r *renderer) showRounding() bool {
	return r.inv.RoundResult && !r.inv.DifferenceInRounding().IsZero()
}

func (r *renderer) drawBlockTitle(t, l float64, title string) {
	r.font(false, 12)
	r.text(l+3, t, title)
	r.hline(l, l+width, t-5)
}

func (r *renderer) drawAmountPayable(t, l float64) {
	r.drawBlockTitle(t, l, r.t.Sprintf("Amount payable to the author"))

	r.font(false, 7)
	r.text(l+3, t-9, r.t.Sprintf("VAT not applicable, article 293B of the French General Tax Code"))

	r.font(true, 11)
	r.textRight(l+177, t-3, r.format(r.inv.Price()))
}

func (r *renderer) drawVATBreakdown(t, l float64) {
	r.drawBlockTitle(t, l, r.t.Sprintf("VAT breakdown"))

	r.font(true, 11)
	r.textRight(l+177, t-3, r.format(r.inv.PriceTax()))

	r.font(true, 7)
	r.text(l+3, t-9, r.t.Sprintf("VAT rate"))
	r.textRight(l+118, t-9, r.t.Sprintf("Total excl. VAT"))
	r.textRight(l+148, t-9, r.t.Sprintf("VAT"))
	r.textRight(l+177, t-9, r.t.Sprintf("Total incl. VAT"))

	r.font(false, 7)
	v := t - 13
	for _, g := range r.inv.BreakdownVAT() {
		r.text(l+3, v, g.Rate.String()+" %")
		r.textRight(l+118, v, r.format(g.Total))
		r.textRight(l+148, v, r.format(g.Tax))
		r.textRight(l+177, v, r.format(g.TotalTax))
		v -= 4
	}

	if r.showRounding() {
		r.text(l+3, v, r.t.Sprintf("Rounding"))
		r.textRight(l+177, v, r.format(r.inv.DifferenceInRounding()))
		v -= 4
	}

	r.hline(l+100, l+width, v+2.5)
	r.font(true, 7)
	r.text(l+3, v, r.t.Sprintf("Total to pay"))
	r.textRight(l+118, v, r.format(r.inv.Price()))
	r.textRight(l+177, v, r.format(r.inv.PriceTax()))
}

// drawContributions prints what the distributor owes URSSAF on the gross
// amount: 1% social contributions and 0.10% vocational training.
func (r *renderer) drawContributions(t, l float64) {
	price := r.inv.Price()
	social := price.Div(hundred)
	training := price.Mul(decimal.RequireFromString("0.1")).Div(hundred)

	r.drawBlockTitle(t, l, r.t.Sprintf("Contributions owed by the distributor to URSSAF"))

	r.font(false, 7)
	r.text(l+3, t-9, r.t.Sprintf("Social contributions: 1%% of the gross amount excl. VAT"))
	r.textRight(l+177, t-9, r.format(social))
	r.text(l+3, t-13, r.t.Sprintf("Vocational training contribution: 0.10%% of the gross amount excl. VAT"))
	r.textRight(l+177, t-13, r.format(training))

	r.font(true, 11)
	r.textRight(l+177, t-3, r.format(social.Add(training)))
}

// Footer.

// drawFooter fills the frame at (l, b) with the legal notices, shrinking the
// text until it fits.
func (r *renderer) drawFooter(b, l float64) {
	notices := i18n.LegalNotices(r.lang, r.inv.Provider.Summary)
	textWidth := width - 2*framePad

	scale := 1.0
	for ; scale > 0.6; scale -= 0.05 {
		if r.footerHeight(notices, textWidth, scale) <= footerHeight-2*framePad {
			break
		}
	}

	x := l + framePad
	cursor := b + footerHeight - framePad
	for _, n := range notices {
		cursor -= 4 * scale * ptMM
		r.font(true, 7*scale)
		cursor -= 10 * scale * ptMM
		r.text(x, cursor+3*scale*ptMM, n.Title)

		r.font(false, 7*scale)
		for _, s := range r.wrap(n.Body, textWidth) {
			cursor -= 8 * scale * ptMM
			r.text(x, cursor, s)
		}
	}
}

func (r *renderer) footerHeight(notices []i18n.Notice, w, scale float64) float64 {
	h := 0.0
	r.font(false, 7*scale)
	for _, n := range notices {
		h += (4 + 10) * scale * ptMM
		h += float64(len(r.wrap(n.Body, w))) * 8 * scale * ptMM
	}
	return h
}

// drawPageNumbers stamps "Page x of y" on every page of a multi-page
// document.
func (r *renderer) drawPageNumbers() {
	n := r.pdf.PageCount()
	if n < 2 {
		return
	}
	for p := 1; p <= n; p++ {
		r.pdf.SetPage(p)
		// Select the font twice so it is emitted into this page's stream.
		r.font(true, 7)
		r.font(false, 7)
		r.textRight(200, 20, r.t.Sprintf("Page %d of %d", p, n))
	}
}
