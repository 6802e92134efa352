package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

var english = map[string]string{
	KeyBudgetCategory:  "Category",
	KeyBudgetAmount:    "Budget",
	KeyBudgetBalance:   "Balance",
	KeySpendingName:    "Name",
	KeySpendingCat:     "Category",
	KeySpendingAmount:  "Amount",
	KeySpendingDay:     "Day",
	KeyMonthTotal:      "Total for %s",
	KeyOrphaned:        "%s (deleted)",
	KeyNoCategory:      "(none)",
	KeyRestartRequired: "The new language is used after a restart.",
	KeyAllocated:       "Allocated",
	KeyYearTotal:       "Year total",
	"month.1":          "January",
	"month.2":          "February",
	"month.3":          "March",
	"month.4":          "April",
	"month.5":          "May",
	"month.6":          "June",
	"month.7":          "July",
	"month.8":          "August",
	"month.9":          "September",
	"month.10":         "October",
	"month.11":         "November",
	"month.12":         "December",
}

var messages = map[string]map[string]string{
	"en-GB": english,
	"en-US": english,
	"fr-FR": {
		KeyBudgetCategory:  "Catégorie",
		KeyBudgetAmount:    "Budget",
		KeyBudgetBalance:   "Solde",
		KeySpendingName:    "Nom",
		KeySpendingCat:     "Catégorie",
		KeySpendingAmount:  "Montant",
		KeySpendingDay:     "Jour",
		KeyMonthTotal:      "Total pour %s",
		KeyOrphaned:        "%s (supprimée)",
		KeyNoCategory:      "(aucune)",
		KeyRestartRequired: "La nouvelle langue sera utilisée après un redémarrage.",
		KeyAllocated:       "Alloué",
		KeyYearTotal:       "Total annuel",
		"month.1":          "janvier",
		"month.2":          "février",
		"month.3":          "mars",
		"month.4":          "avril",
		"month.5":          "mai",
		"month.6":          "juin",
		"month.7":          "juillet",
		"month.8":          "août",
		"month.9":          "septembre",
		"month.10":         "octobre",
		"month.11":         "novembre",
		"month.12":         "décembre",
	},
	"de-DE": {
		KeyBudgetCategory:  "Kategorie",
		KeyBudgetAmount:    "Budget",
		KeyBudgetBalance:   "Saldo",
		KeySpendingName:    "Name",
		KeySpendingCat:     "Kategorie",
		KeySpendingAmount:  "Betrag",
		KeySpendingDay:     "Tag",
		KeyMonthTotal:      "Summe für %s",
		KeyOrphaned:        "%s (gelöscht)",
		KeyNoCategory:      "(keine)",
		KeyRestartRequired: "Die neue Sprache wird nach einem Neustart verwendet.",
		KeyAllocated:       "Zugeteilt",
		KeyYearTotal:       "Jahressumme",
		"month.1":          "Januar",
		"month.2":          "Februar",
		"month.3":          "März",
		"month.4":          "April",
		"month.5":          "Mai",
		"month.6":          "Juni",
		"month.7":          "Juli",
		"month.8":          "August",
		"month.9":          "September",
		"month.10":         "Oktober",
		"month.11":         "November",
		"month.12":         "Dezember",
	},
	"it-IT": {
		KeyBudgetCategory:  "Categoria",
		KeyBudgetAmount:    "Budget",
		KeyBudgetBalance:   "Saldo",
		KeySpendingName:    "Nome",
		KeySpendingCat:     "Categoria",
		KeySpendingAmount:  "Importo",
		KeySpendingDay:     "Giorno",
		KeyMonthTotal:      "Totale di %s",
		KeyOrphaned:        "%s (eliminata)",
		KeyNoCategory:      "(nessuna)",
		KeyRestartRequired: "La nuova lingua sarà usata dopo il riavvio.",
		KeyAllocated:       "Assegnato",
		KeyYearTotal:       "Totale annuo",
		"month.1":          "gennaio",
		"month.2":          "febbraio",
		"month.3":          "marzo",
		"month.4":          "aprile",
		"month.5":          "maggio",
		"month.6":          "giugno",
		"month.7":          "luglio",
		"month.8":          "agosto",
		"month.9":          "settembre",
		"month.10":         "ottobre",
		"month.11":         "novembre",
		"month.12":         "dicembre",
	},
}

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.BritishEnglish))
	for lang, msgs := range messages {
		tag := language.MustParse(lang)
		for key, msg := range msgs {
			// SetString only fails for malformed messages, which the table above does not contain
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}
