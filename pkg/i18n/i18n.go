// Package i18n translates the labels printed on documents and formats dates
// for the document language.
//
// Messages are keyed by their English text. French and Czech translations
// live in a golang.org/x/text catalog; keys missing from a language are
// printed as-is.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/matzehuels/facture/pkg/money"
)

// EnvLang overrides the configured document language.
const EnvLang = "INVOICE_LANG"

// DefaultLang is used when neither the environment nor the config set one.
const DefaultLang = "fr"

// Lang resolves the document language: $INVOICE_LANG, then configured, then
// DefaultLang.
func Lang(configured string) string {
	if v := strings.TrimSpace(os.Getenv(EnvLang)); v != "" {
		return v
	}
	if configured != "" {
		return configured
	}
	return DefaultLang
}

var messages = mustBuild()

func mustBuild() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, e := range entries {
		if e.fr != "" {
			if err := b.SetString(language.French, e.key, e.fr); err != nil {
				panic(err)
			}
		}
		if e.cs != "" {
			if err := b.SetString(language.Czech, e.key, e.cs); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator formats messages for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for lang ("fr", "cs", "en_US.UTF-8", ...).
func New(lang string) *Translator {
	tag := money.ParseLocale(lang)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Sprintf translates key and formats it with args.
func (t *Translator) Sprintf(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Tag returns the language the translator was built for.
func (t *Translator) Tag() language.Tag { return t.tag }

// Base returns the base language code, e.g. "fr" for fr-FR.
func (t *Translator) Base() string {
	b, _ := t.tag.Base()
	return b.String()
}

// Languages lists the languages that have translations, besides English.
func Languages() []language.Tag {
	return messages.Languages()
}
