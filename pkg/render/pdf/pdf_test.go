package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pdfread "github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
)

func sampleInvoice(items int) *invoice.Invoice {
	provider := &invoice.Address{
		Summary:     "Studio Lune",
		Address:     "12 rue des Lilas",
		ZipCode:     "69001",
		City:        "Lyon",
		Country:     "France",
		Phone:       "06 01 02 03 04",
		Email:       "contact@studiolune.fr",
		SIRET:       "830 459 533 00014",
		BankName:    "Banque Populaire",
		BankAccount: "FR76 3000 6000 0112 3456 7890 189",
		Note:        "Dispensé d'immatriculation\nau RCS",
	}
	client := &invoice.Address{
		Summary:        "Atelier Été",
		AdditionalName: "Service comptabilité",
		Address:        "1 rue de la Paix",
		ZipCode:        "75002",
		City:           "Paris",
	}
	inv := invoice.New(client, provider, invoice.Creator{Name: provider.Summary})
	inv.ID = "F00120261018"
	inv.Number = 1
	inv.Date = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	inv.DueDate = inv.Date.AddDate(0, 0, 30)
	inv.Paytype = "Virement"
	inv.Subject = "Illustrations"
	inv.SWIFT = "CCBPFRPPLYO"

	for i := 1; i <= items; i++ {
		inv.AddItem(invoice.Item{
			Count:       decimal.NewFromInt(int64(i)),
			Price:       decimal.RequireFromString("600"),
			Description: fmt.Sprintf("Item %d", i),
		})
	}
	return inv
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
	r, err := pdfread.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read back PDF: %v", err)
	}
	return r.NumPage()
}

func TestRenderSinglePage(t *testing.T) {
	inv := sampleInvoice(4)
	inv.AddItem(invoice.Item{
		Count:       decimal.RequireFromString("2.5"),
		Price:       decimal.RequireFromString("80"),
		Unit:        "h",
		Description: strings.Repeat("Illustration pleine page, couleur, livrée en haute définition. ", 4),
	})

	data, err := Render(inv, Options{Language: "fr"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if n := pageCount(t, data); n != 1 {
		t.Errorf("NumPage() = %d, want 1", n)
	}
}

func TestRenderModes(t *testing.T) {
	for _, mode := range invoice.Modes {
		for _, lang := range []string{"fr", "cs", "en"} {
			t.Run(fmt.Sprintf("%s/mode%d", lang, mode), func(t *testing.T) {
				inv := sampleInvoice(2)
				inv.Mode = mode
				data, err := Render(inv, Options{Language: lang})
				if err != nil {
					t.Fatalf("Render() error: %v", err)
				}
				if n := pageCount(t, data); n != 1 {
					t.Errorf("NumPage() = %d, want 1", n)
				}
			})
		}
	}
}

func TestRenderWithTax(t *testing.T) {
	inv := sampleInvoice(2)
	inv.AddItem(invoice.Item{Count: decimal.NewFromInt(3), Price: decimal.RequireFromString("49.99"), Description: "Tirage", Tax: decimal.NewFromInt(20)})
	inv.AddItem(invoice.Item{Count: decimal.NewFromInt(1), Price: decimal.RequireFromString("12.10"), Description: "Livre", Tax: decimal.RequireFromString("5.5")})
	inv.RoundResult = true

	data, err := Render(inv, Options{Language: "fr"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if n := pageCount(t, data); n != 1 {
		t.Errorf("NumPage() = %d, want 1", n)
	}
}

func TestRenderMultiPage(t *testing.T) {
	data, err := Render(sampleInvoice(60), Options{Language: "fr"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if n := pageCount(t, data); n < 2 {
		t.Errorf("NumPage() = %d, want at least 2 for 60 items", n)
	}
}

func TestRenderTotalsMoveToNextPage(t *testing.T) {
	// Enough rows to reach the footer area without overflowing the table.
	single, err := Render(sampleInvoice(4), Options{})
	if err != nil {
		t.Fatal(err)
	}
	crowded, err := Render(sampleInvoice(22), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if pageCount(t, single) != 1 {
		t.Error("4 items should fit on one page")
	}
	if pageCount(t, crowded) != 2 {
		t.Error("22 items should push the totals to a second page")
	}
}

func TestRenderLogo(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	f, err := os.Create(logo)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 60, 30))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	inv := sampleInvoice(1)
	inv.Provider.LogoFilename = logo
	if _, err := Render(inv, Options{}); err != nil {
		t.Fatalf("Render() with logo error: %v", err)
	}

	inv.Provider.LogoFilename = filepath.Join(dir, "missing.png")
	if _, err := Render(inv, Options{}); err != nil {
		t.Errorf("Render() with missing logo error: %v", err)
	}
}

func TestRenderInvalid(t *testing.T) {
	inv := sampleInvoice(1)
	inv.Client = nil
	if _, err := Render(inv, Options{}); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeInvalidDocument)
	}
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026", "F00120261018_atelierété.pdf")
	if err := RenderToFile(sampleInvoice(3), path, Options{}); err != nil {
		t.Fatalf("RenderToFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := pageCount(t, data); n != 1 {
		t.Errorf("NumPage() = %d, want 1", n)
	}
}

func TestWrap(t *testing.T) {
	r := newRenderer(sampleInvoice(1), Options{})
	r.pdf.AddPage()
	r.font(false, 7)

	lines := r.wrap(strings.Repeat("mot ", 80)+"\nfin", 90)
	if len(lines) < 3 {
		t.Fatalf("wrap() returned %d lines, want several", len(lines))
	}
	for _, l := range lines {
		if w := r.stringWidth(l); w > 90 {
			t.Errorf("line %q is %.1fmm wide, want <= 90", l, w)
		}
	}
	if lines[len(lines)-1] != "fin" {
		t.Errorf("explicit newline lost: last line = %q", lines[len(lines)-1])
	}
}
