package i18n

import (
	"time"

	"github.com/goodsign/monday"
)

type dateStyle struct {
	locale monday.Locale
	layout string
}

var dateStyles = map[string]dateStyle{
	"fr": {monday.LocaleFrFR, "2 Jan 2006"},
	"cs": {monday.LocaleCsCZ, "2. 1. 2006"},
	"de": {monday.LocaleDeDE, "02.01.2006"},
	"en": {monday.LocaleEnUS, "Jan 2, 2006"},
}

// FormatDate prints t in the medium date style of lang. Languages without a
// dedicated layout use the English one. The zero time prints as "".
func FormatDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	style, ok := dateStyles[New(lang).Base()]
	if !ok {
		style = dateStyles["en"]
	}
	return monday.Format(t, style.layout, style.locale)
}
