// Package i18n translates message keys with named parameters.
//
// Translations are loaded per language, typically one YAML file per language
// tag:
//
//	# de.yaml
//	validation:
//	  required: "%{field} ist erforderlich"
//	  min: "muss mindestens %{min} %{unit} lang sein"
//
//	trees, err := i18n.LoadFS(locales, "locales")
//	tr, err := i18n.New(trees, i18n.WithDefaultLanguage("en"))
//	msg := tr.T("de", "validation.required", map[string]any{"field": "email"})
//
// Language negotiation uses golang.org/x/text/language. Middleware picks the
// best loaded language from the lang query parameter, the lang cookie or the
// Accept-Language header and stores it with SetLocale; GetLocale reads it back.
package i18n
