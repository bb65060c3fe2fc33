package i18n

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no default language option is given.
const DefaultLanguage = "en"

// Translator resolves message keys to templates per language. Nested
// translation maps are flattened, so {"validation": {"min": "..."}} is looked
// up as "validation.min".
type Translator struct {
	fallback   string
	messages   map[string]map[string]string
	langs      []string
	matcher    language.Matcher
	log        *slog.Logger
	logMissing bool
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used for unknown languages and
// missing keys. It must be one of the loaded languages.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.fallback = lang
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMissingTranslationsLogging logs a warning for every key that has no
// translation in either the requested or the default language.
func WithMissingTranslationsLogging(enabled bool) Option {
	return func(t *Translator) { t.logMissing = enabled }
}

// New builds a Translator from translations keyed by language tag.
func New(translations map[string]map[string]any, opts ...Option) (*Translator, error) {
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}

	t := &Translator{
		fallback: DefaultLanguage,
		messages: make(map[string]map[string]string, len(translations)),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	var errs []error
	for lang, tree := range translations {
		if _, err := language.Parse(lang); err != nil {
			errs = append(errs, fmt.Errorf("language %q: %w", lang, err))
			continue
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		t.messages[lang] = flat
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidTranslations}, errs...)...)
	}
	if _, ok := t.messages[t.fallback]; !ok {
		return nil, fmt.Errorf("%w: default language %q has no translations", ErrInvalidTranslations, t.fallback)
	}

	// The first tag is what the matcher falls back to.
	t.langs = append([]string{t.fallback}, slices.DeleteFunc(slices.Sorted(maps.Keys(t.messages)), func(l string) bool {
		return l == t.fallback
	})...)
	tags := make([]language.Tag, len(t.langs))
	for i, l := range t.langs {
		tags[i] = language.MustParse(l)
	}
	t.matcher = language.NewMatcher(tags)

	return t, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, out)
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}

// Languages returns the loaded languages, default first.
func (t *Translator) Languages() []string {
	return slices.Clone(t.langs)
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.fallback
}

// Match returns the loaded language that best serves the preferences. Each
// preference may be a single tag or a full Accept-Language header value.
// Empty or unparseable preferences are skipped.
func (t *Translator) Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return t.fallback
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.fallback
	}
	return t.langs[idx]
}

// Translate formats the template of key in lang, falling back to the default
// language. It reports false when neither has the key.
func (t *Translator) Translate(lang, key string, params map[string]any) (string, bool) {
	tmpl, ok := t.messages[lang][key]
	if !ok && lang != t.fallback {
		tmpl, ok = t.messages[t.fallback][key]
	}
	if !ok {
		if t.logMissing {
			t.log.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		return "", false
	}
	return format(tmpl, params), true
}

// T is Translate returning the formatted key itself when no translation exists.
func (t *Translator) T(lang, key string, params map[string]any) string {
	if s, ok := t.Translate(lang, key, params); ok {
		return s
	}
	return format(key, params)
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// format replaces %{name} placeholders. Unknown placeholders are kept.
func format(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		v, ok := params[match[2:len(match)-1]]
		if !ok {
			return match
		}
		return stringify(v)
	})
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = stringify(p)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
