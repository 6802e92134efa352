package i18n

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"moneyz/internal/core"
)

// Locale is a Translator for one supported language.
type Locale struct {
	id        string
	tag       language.Tag
	decimal   string
	thousands string
	unit      currency.Unit
	printer   *message.Printer
}

// LanguageOption is one entry of the language picker.
type LanguageOption struct {
	ID      string
	Display string
}

type separators struct {
	decimal, thousands string
}

var supported = map[string]separators{
	"en_GB": {".", ","},
	"en_US": {".", ","},
	"fr_FR": {",", " "},
	"de_DE": {",", "."},
	"it_IT": {",", "."},
}

var (
	cat     = buildCatalog()
	locales = buildLocales()
)

func buildLocales() map[string]*Locale {
	out := make(map[string]*Locale, len(supported))
	for id, sep := range supported {
		tag := language.MustParse(strings.ReplaceAll(id, "_", "-"))
		unit, _ := currency.FromTag(tag)
		out[id] = &Locale{
			id:        id,
			tag:       tag,
			decimal:   sep.decimal,
			thousands: sep.thousands,
			unit:      unit,
			printer:   message.NewPrinter(tag, message.Catalog(cat)),
		}
	}
	return out
}

// Normalize maps id to a supported language id. Both "fr_FR" and "fr-FR"
// are accepted; anything unknown becomes DefaultLanguage.
func Normalize(id string) string {
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", "_")
	if _, ok := supported[id]; ok {
		return id
	}
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	canonical := base.String() + "_" + region.String()
	if _, ok := supported[canonical]; ok {
		return canonical
	}
	return DefaultLanguage
}

// Lookup returns the locale for id, which may use '_' or '-'.
func Lookup(id string) (*Locale, error) {
	key := strings.ReplaceAll(strings.TrimSpace(id), "-", "_")
	l, ok := locales[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
	}
	return l, nil
}

// Default returns the DefaultLanguage locale.
func Default() *Locale {
	return locales[DefaultLanguage]
}

// Languages lists the supported languages by id, each named in its own
// language.
func Languages() []LanguageOption {
	ids := make([]string, 0, len(locales))
	for id := range locales {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	opts := make([]LanguageOption, 0, len(ids))
	for _, id := range ids {
		opts = append(opts, LanguageOption{ID: id, Display: display.Self.Name(locales[id].tag)})
	}
	return opts
}

// ID returns the language id, e.g. "en_GB".
func (l *Locale) ID() string { return l.id }

// Tag returns the BCP 47 tag of the locale.
func (l *Locale) Tag() language.Tag { return l.tag }

// DecimalSeparator implements Translator.
func (l *Locale) DecimalSeparator() string { return l.decimal }

// ThousandsSeparator implements Translator.
func (l *Locale) ThousandsSeparator() string { return l.thousands }

// Currency returns the ISO 4217 code of the locale's region, e.g. "GBP".
func (l *Locale) Currency() string { return l.unit.String() }

// Label implements Translator. Unknown keys are returned as they are.
func (l *Locale) Label(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// MonthName returns the translated name of m.
func (l *Locale) MonthName(m core.Month) string {
	return l.Label(MonthKey(m))
}

// FormatMoney renders m with this locale's separators.
func (l *Locale) FormatMoney(m core.Money) string {
	return FormatMoney(l, m)
}

// FormatMoneyWithCurrency renders m followed by the ISO currency code.
func (l *Locale) FormatMoneyWithCurrency(m core.Money) string {
	return FormatMoney(l, m) + " " + l.Currency()
}

// ParseMoney parses text formatted for this locale.
func (l *Locale) ParseMoney(text string) (core.Money, error) {
	return ParseMoney(l, text)
}

// stripGrouping removes the grouping separators from the whole part of text.
// They must sit between groups of digits: a first group of one to three
// digits, then groups of exactly three. A separator anywhere else, including
// the fraction, makes the amount invalid.
func stripGrouping(text, sep, decimal string) (string, error) {
	text = strings.TrimSpace(text)
	if sep == "" {
		return text, nil
	}
	if sep == " " {
		// users type either a plain or a no-break space
		text = strings.ReplaceAll(text, "\u00a0", " ")
	}
	whole, frac := text, ""
	if i := strings.Index(text, decimal); i >= 0 {
		whole, frac = text[:i], text[i:]
	}
	if strings.Contains(frac, sep) {
		return "", fmt.Errorf("%w: grouping separator after the decimal separator in %q", core.ErrInvalidAmount, text)
	}
	if !strings.Contains(whole, sep) {
		return text, nil
	}

	var sign string
	if strings.HasPrefix(whole, "-") || strings.HasPrefix(whole, "+") {
		sign, whole = whole[:1], whole[1:]
	}
	groups := strings.Split(whole, sep)
	for i, g := range groups {
		if (i == 0 && (len(g) < 1 || len(g) > 3)) || (i > 0 && len(g) != 3) {
			return "", fmt.Errorf("%w: misplaced grouping separator in %q", core.ErrInvalidAmount, text)
		}
	}
	return sign + strings.Join(groups, "") + frac, nil
}
