package invoice

import (
	"fmt"
	"strings"
)

// Translate formats a translatable message. It matches the signature of
// i18n.Translator.Sprintf so the model does not depend on a catalog.
type Translate func(key string, args ...any) string

// untranslated formats key as-is.
func untranslated(key string, args ...any) string {
	return fmt.Sprintf(key, args...)
}

// Address describes a party on the document. Provider and client share it.
type Address struct {
	Summary        string `json:"summary"` // addressee or company name
	AdditionalName string `json:"additional_name,omitempty"`
	Address        string `json:"address,omitempty"` // street and house number
	City           string `json:"city,omitempty"`
	ZipCode        string `json:"zip_code,omitempty"`
	Country        string `json:"country,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	BankName       string `json:"bank_name,omitempty"`
	BankAccount    string `json:"bank_account,omitempty"`
	BankCode       string `json:"bank_code,omitempty"`
	Note           string `json:"note,omitempty"`
	VatID          string `json:"vat_id,omitempty"`
	VatNote        string `json:"vat_note,omitempty"`
	IR             string `json:"ir,omitempty"` // taxpayer identification number
	LogoFilename   string `json:"logo,omitempty"`
	SS             string `json:"ss,omitempty"` // social security number
	SIRET          string `json:"siret,omitempty"`
}

// BankAccountString returns the account number followed by "/code" when a
// bank code is set.
func (a *Address) BankAccountString() string {
	if a.BankCode != "" {
		return a.BankAccount + "/" + a.BankCode
	}
	return a.BankAccount
}

// AddressLines returns the postal block printed under the party header.
// tr may be nil, in which case labels stay in English.
func (a *Address) AddressLines(tr Translate) []string {
	if tr == nil {
		tr = untranslated
	}
	lines := []string{a.Summary}
	if a.AdditionalName != "" {
		lines = append(lines, a.AdditionalName)
	}
	lines = append(lines, a.Address, joinNonEmpty(" ", a.ZipCode, a.City))
	if a.Country != "" {
		lines = append(lines, a.Country)
	}
	if a.VatID != "" {
		lines = append(lines, tr("Vat in: %s", a.VatID))
	}
	if a.IR != "" {
		lines = append(lines, tr("IR: %s", a.IR))
	}
	return lines
}

// ContactLines returns phone and e-mail, in that order.
func (a *Address) ContactLines() []string {
	return []string{a.Phone, a.Email}
}

// ProInfos returns the SIRET and social security lines. Missing values are
// returned as empty strings so the block keeps its height.
func (a *Address) ProInfos() []string {
	var siret, ss string
	if a.SIRET != "" {
		siret = "SIRET: " + a.SIRET
	}
	if a.SS != "" {
		ss = "SS: " + a.SS
	}
	return []string{siret, ss}
}

// Creator is the person who issues the document, usually an accountant or
// the provider themselves.
type Creator struct {
	Name          string `json:"name"`
	StampFilename string `json:"stamp,omitempty"`
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
