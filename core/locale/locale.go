// Package locale holds the user-facing string tables for the schedule
// views. Month names are keyed "m01".."m12" and day names "d0".."d6"
// (Sunday = 0), matching the codes the CMS templates use.
package locale

import (
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/nb"
	"github.com/go-playground/locales/nn"
	ut "github.com/go-playground/universal-translator"
)

type Table struct {
	Code   string
	Months map[string]string
	Days   map[string]string
	Labels map[string]string
}

var tables = map[string]Table{
	"no": {
		Code: "no",
		Months: map[string]string{
			"m01": "januar", "m02": "februar", "m03": "mars", "m04": "april",
			"m05": "mai", "m06": "juni", "m07": "juli", "m08": "august",
			"m09": "september", "m10": "oktober", "m11": "november", "m12": "desember",
		},
		Days: map[string]string{
			"d0": "Søndag", "d1": "Mandag", "d2": "Tirsdag", "d3": "Onsdag",
			"d4": "Torsdag", "d5": "Fredag", "d6": "Lørdag",
		},
		Labels: map[string]string{
			"cancelled":   "AVLYST",
			"orphan":      "utgått",
			"date":        "Dato",
			"time":        "Tid",
			"title":       "Aktivitet",
			"place":       "Sted",
			"staff":       "Ansvarlig",
			"resources":   "Ressurser",
			"showMore":    "Vis mer",
			"toc":         "Innhold",
			"noData":      "Ingen timeplandata tilgjengelig.",
			"renderError": "Timeplandata kunne ikke vises.",
			"editText":    "Rediger",
		},
	},
	"nn": {
		Code: "nn",
		Months: map[string]string{
			"m01": "januar", "m02": "februar", "m03": "mars", "m04": "april",
			"m05": "mai", "m06": "juni", "m07": "juli", "m08": "august",
			"m09": "september", "m10": "oktober", "m11": "november", "m12": "desember",
		},
		Days: map[string]string{
			"d0": "Søndag", "d1": "Måndag", "d2": "Tysdag", "d3": "Onsdag",
			"d4": "Torsdag", "d5": "Fredag", "d6": "Laurdag",
		},
		Labels: map[string]string{
			"cancelled":   "AVLYST",
			"orphan":      "utgått",
			"date":        "Dato",
			"time":        "Tid",
			"title":       "Aktivitet",
			"place":       "Stad",
			"staff":       "Ansvarleg",
			"resources":   "Ressursar",
			"showMore":    "Vis meir",
			"toc":         "Innhald",
			"noData":      "Ingen timeplandata tilgjengeleg.",
			"renderError": "Timeplandata kunne ikkje visast.",
			"editText":    "Rediger",
		},
	},
	"en": {
		Code: "en",
		Months: map[string]string{
			"m01": "January", "m02": "February", "m03": "March", "m04": "April",
			"m05": "May", "m06": "June", "m07": "July", "m08": "August",
			"m09": "September", "m10": "October", "m11": "November", "m12": "December",
		},
		Days: map[string]string{
			"d0": "Sunday", "d1": "Monday", "d2": "Tuesday", "d3": "Wednesday",
			"d4": "Thursday", "d5": "Friday", "d6": "Saturday",
		},
		Labels: map[string]string{
			"cancelled":   "CANCELLED",
			"orphan":      "discontinued",
			"date":        "Date",
			"time":        "Time",
			"title":       "Activity",
			"place":       "Place",
			"staff":       "Staff",
			"resources":   "Resources",
			"showMore":    "Show more",
			"toc":         "Contents",
			"noData":      "No schedule data available.",
			"renderError": "Schedule data could not be displayed.",
			"editText":    "Edit",
		},
	},
}

// Get returns the string table for the given locale code, falling back to "en".
func Get(code string) Table {
	if t, ok := tables[code]; ok {
		return t
	}
	return tables["en"]
}

// Supported reports whether the CMS serves schedule strings for this code.
func Supported(code string) bool {
	_, ok := tables[code]
	return ok
}

// NewTranslator builds the universal-translator for validation messages in
// the given locale, with English as fallback.
func NewTranslator(code string) ut.Translator {
	var lt locales.Translator
	switch code {
	case "no":
		// the locales package has no generic "no"; Bokmål backs it
		lt = nb.New()
	case "nn":
		lt = nn.New()
	default:
		lt = en.New()
	}
	uni := ut.New(en.New(), lt)
	translator, found := uni.GetTranslator(lt.Locale())
	if !found {
		translator, _ = uni.GetTranslator("en")
	}
	return translator
}
