// Package addressbook reads the YAML files a document is built from: the
// provider, the client address book and the item sets, the last two keyed by
// the same name.
package addressbook

import (
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/invoice"
)

// Default file names, relative to the working directory.
const (
	ProviderFile = "provider.yaml"
	ClientsFile  = "clients_abook.yaml"
	ItemsFile    = "items.yaml"
)

// DefaultSubject is used when an item set has no object.
const DefaultSubject = "Unknown"

// Text is a YAML scalar read verbatim, so zip codes and phone numbers written
// as numbers keep their digits.
type Text string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Text) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.New(errors.ErrCodeInvalidInput, "line %d: expected a scalar", n.Line)
	}
	if n.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = Text(strings.TrimSpace(n.Value))
	return nil
}

// Decimal is a YAML scalar parsed as an exact decimal.
type Decimal struct {
	decimal.Decimal
	Set bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Decimal) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.New(errors.ErrCodeInvalidAmount, "line %d: expected a number", n.Line)
	}
	if n.Tag == "!!null" || n.Value == "" {
		*d = Decimal{}
		return nil
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(n.Value, "_", ""))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAmount, err, "line %d: %q is not a number", n.Line, n.Value)
	}
	*d = Decimal{Decimal: v, Set: true}
	return nil
}

// Party is a provider or client entry.
type Party struct {
	Name           Text `yaml:"name"`
	AdditionalName Text `yaml:"additional_name"`
	Address        Text `yaml:"address"`
	City           Text `yaml:"city"`
	ZipCode        Text `yaml:"zip_code"`
	Country        Text `yaml:"country"`
	Phone          Text `yaml:"phone"`
	Email          Text `yaml:"email"`
	SIRET          Text `yaml:"siret"`
	SS             Text `yaml:"ss"`
	BankName       Text `yaml:"bank_name"`
	BankAccount    Text `yaml:"bank_account"`
	BankCode       Text `yaml:"bank_code"`
	IBAN           Text `yaml:"iban"`
	SWIFT          Text `yaml:"swift"`
	VatID          Text `yaml:"vat_id"`
	VatNote        Text `yaml:"vat_note"`
	IR             Text `yaml:"ir"`
	Logo           Text `yaml:"logo"`
	Note           Text `yaml:"note"`
}

// ToAddress converts the entry to the document model.
func (p Party) ToAddress() *invoice.Address {
	return &invoice.Address{
		Summary:        string(p.Name),
		AdditionalName: string(p.AdditionalName),
		Address:        string(p.Address),
		City:           string(p.City),
		ZipCode:        string(p.ZipCode),
		Country:        string(p.Country),
		Phone:          string(p.Phone),
		Email:          string(p.Email),
		BankName:       string(p.BankName),
		BankAccount:    string(p.BankAccount),
		BankCode:       string(p.BankCode),
		Note:           string(p.Note),
		VatID:          string(p.VatID),
		VatNote:        string(p.VatNote),
		IR:             string(p.IR),
		LogoFilename:   string(p.Logo),
		SS:             string(p.SS),
		SIRET:          string(p.SIRET),
	}
}

// ItemSet is the billed content for one name.
type ItemSet struct {
	Mode        Text        `yaml:"mode"`
	Object      Text        `yaml:"object"`
	Commentaire Text        `yaml:"commentaire"`
	Paytype     Text        `yaml:"paytype"`
	Tax         Decimal     `yaml:"tax"`
	Items       []ItemEntry `yaml:"items"`
}

// ItemEntry is one line of an item set.
type ItemEntry struct {
	Quantity    Decimal `yaml:"quantity"`
	UnitPrice   Decimal `yaml:"unit_price"`
	Description Text    `yaml:"description"`
	Unit        Text    `yaml:"unit"`
	Tax         Decimal `yaml:"tax"`
}

// Paths locates the three input files.
type Paths struct {
	Provider string
	Clients  string
	Items    string
}

// DefaultPaths returns the file names in the working directory.
func DefaultPaths() Paths {
	return Paths{Provider: ProviderFile, Clients: ClientsFile, Items: ItemsFile}
}

// Book is the loaded address book.
type Book struct {
	Provider Party
	Clients  map[string]Party
	Items    map[string]ItemSet
}

// Load reads and parses the three files.
func Load(p Paths) (*Book, error) {
	provider, err := readFile(p.Provider)
	if err != nil {
		return nil, err
	}
	clients, err := readFile(p.Clients)
	if err != nil {
		return nil, err
	}
	items, err := readFile(p.Items)
	if err != nil {
		return nil, err
	}
	return Parse(provider, clients, items)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

// Parse decodes the provider, clients and items documents.
func Parse(provider, clients, items []byte) (*Book, error) {
	b := &Book{}
	if err := yaml.Unmarshal(provider, &b.Provider); err != nil {
		return nil, decodeError("provider", err)
	}
	if err := yaml.Unmarshal(clients, &b.Clients); err != nil {
		return nil, decodeError("clients", err)
	}
	if err := yaml.Unmarshal(items, &b.Items); err != nil {
		return nil, decodeError("items", err)
	}
	if b.Provider.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "provider: name is required")
	}
	return b, nil
}

func decodeError(what string, err error) error {
	if code := errors.GetCode(err); code != "" {
		return errors.Wrap(code, err, "%s", what)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", what)
}

// Names returns the sorted keys that have both a client and an item set.
func (b *Book) Names() []string {
	var names []string
	for name := range b.Clients {
		if _, ok := b.Items[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Client returns the client entry for name.
func (b *Book) Client(name string) (Party, error) {
	c, ok := b.Clients[name]
	if !ok {
		return Party{}, errors.New(errors.ErrCodeClientNotFound, "no client %q in the address book", name)
	}
	return c, nil
}

// Build assembles the document for name. A mode set in the item set wins over
// mode.
func (b *Book) Build(name string, kind invoice.Kind, mode invoice.Mode) (*invoice.Invoice, error) {
	client, err := b.Client(name)
	if err != nil {
		return nil, err
	}
	set, ok := b.Items[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no item set %q", name)
	}

	if iban := string(b.Provider.IBAN); iban != "" {
		if err := errors.ValidateIBAN(iban); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "provider iban")
		}
	}

	provider := b.Provider.ToAddress()
	inv := invoice.New(client.ToAddress(), provider, invoice.Creator{Name: provider.Summary})
	inv.SetKind(string(kind))
	inv.Mode = mode
	if set.Mode != "" {
		inv.SetMode(string(set.Mode))
	}

	inv.Subject = string(set.Object)
	if inv.Subject == "" {
		inv.Subject = DefaultSubject
	}
	inv.Comment = string(set.Commentaire)
	inv.Paytype = string(set.Paytype)
	inv.IBAN = string(b.Provider.IBAN)
	inv.SWIFT = string(b.Provider.SWIFT)

	for i, e := range set.Items {
		if !e.Quantity.Set || !e.UnitPrice.Set {
			return nil, errors.New(errors.ErrCodeInvalidAmount, "%s: item %d needs quantity and unit_price", name, i+1)
		}
		tax := set.Tax.Decimal
		if e.Tax.Set {
			tax = e.Tax.Decimal
		}
		inv.AddItem(invoice.Item{
			Count:       e.Quantity.Decimal,
			Price:       e.UnitPrice.Decimal,
			Description: string(e.Description),
			Unit:        string(e.Unit),
			Tax:         tax,
		})
	}
	return inv, nil
}
