package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	coursePathTag   = "coursepath"
	coursePathText  = "must be an absolute CMS path like /studier/emner/matnat/ifi/INF1000/h14"
	coursePathRegex = regexp.MustCompile(`^/[\w\-./]*$`)

	localeCodeTag  = "localecode"
	localeCodeText = "unsupported locale; expected one of: no, nn, en"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(coursePathTag, coursePathValidation)
	RegisterCustomTranslation(validate, translator, coursePathTag, coursePathText)

	_ = validate.RegisterValidation(localeCodeTag, localeCodeValidation)
	RegisterCustomTranslation(validate, translator, localeCodeTag, localeCodeText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// coursePathValidation only allows absolute, scheme-less CMS course paths.
func coursePathValidation(fl validator.FieldLevel) bool {
	return coursePathRegex.MatchString(fl.Field().String())
}

// localeCodeValidation allows the locales the CMS serves schedule strings for.
func localeCodeValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "no", "nn", "en":
		return true
	}
	return false
}
