package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/i18n"
)

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New(map[string]map[string]any{
		"en": {
			"validation": map[string]any{
				"required": "%{field} is required",
				"enum":     "must be one of %{values}",
			},
			"greeting": "Hello",
		},
		"de": {
			"validation": map[string]any{
				"required": "%{field} ist erforderlich",
				"min":      "muss mindestens %{min} %{unit} lang sein",
			},
		},
	}, opts...)
	require.NoError(t, err)
	return tr
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := i18n.New(nil)
	assert.ErrorIs(t, err, i18n.ErrNoTranslations)

	_, err = i18n.New(map[string]map[string]any{"not a tag!": {"a": "b"}})
	assert.ErrorIs(t, err, i18n.ErrInvalidTranslations)

	_, err = i18n.New(map[string]map[string]any{"de": {"a": "b"}})
	assert.ErrorIs(t, err, i18n.ErrInvalidTranslations, "default language must be loaded")

	tr, err := i18n.New(map[string]map[string]any{"de": {"a": "b"}}, i18n.WithDefaultLanguage("de"))
	require.NoError(t, err)
	assert.Equal(t, "de", tr.DefaultLanguage())
}

func TestTranslator_Translate(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t)

	tests := []struct {
		name   string
		lang   string
		key    string
		params map[string]any
		want   string
		ok     bool
	}{
		{"nested key", "de", "validation.required", map[string]any{"field": "email"}, "email ist erforderlich", true},
		{"numbers and units", "de", "validation.min", map[string]any{"min": 8.0, "unit": "Zeichen"}, "muss mindestens 8 Zeichen lang sein", true},
		{"falls back to default language", "de", "greeting", nil, "Hello", true},
		{"unknown language uses default", "fr", "validation.required", map[string]any{"field": "name"}, "name is required", true},
		{"list parameter", "en", "validation.enum", map[string]any{"values": []any{"free", "pro"}}, "must be one of free, pro", true},
		{"unknown placeholder kept", "en", "validation.required", nil, "%{field} is required", true},
		{"missing key", "en", "validation.nope", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tr.Translate(tt.lang, tt.key, tt.params)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t, i18n.WithMissingTranslationsLogging(true), i18n.WithLogger(discard()))
	assert.Equal(t, "Hello", tr.T("en", "greeting", nil))
	assert.Equal(t, "Thanks, Ann", tr.T("en", "Thanks, %{name}", map[string]any{"name": "Ann"}))
}

func TestTranslator_Match(t *testing.T) {
	t.Parallel()

	tr := newTranslator(t)
	assert.Equal(t, []string{"en", "de"}, tr.Languages())

	tests := []struct {
		prefs []string
		want  string
	}{
		{nil, "en"},
		{[]string{"de"}, "de"},
		{[]string{"de-AT,de;q=0.9,en;q=0.5"}, "de"},
		{[]string{"fr-FR"}, "en"},
		{[]string{"", "de"}, "de"},
		{[]string{"!!", "de"}, "de"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tr.Match(tt.prefs...), "prefs %q", tt.prefs)
	}
}
