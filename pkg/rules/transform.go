package rules

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRegex = regexp.MustCompile(`\s+`)
	tagRegex   = regexp.MustCompile(`<[^>]*>`)
	dotsRegex  = regexp.MustCompile(`\.+`)
)

// transforms are the named string normalizers usable from rule files.
// Non-string values pass through unchanged.
var transforms = map[string]func(string) string{
	"trim":            strings.TrimSpace,
	"lower":           strings.ToLower,
	"upper":           strings.ToUpper,
	"collapse_spaces": collapseSpaces,
	"strip_html":      stripHTML,
	"strip_control":   stripControl,
	"digits":          keepDigits,
	"email":           normalizeEmail,
}

// Transforms chains the named normalizers into a Rule.Transform, applied in
// order.
func Transforms(names ...string) (func(any) any, error) {
	chain := make([]func(string) string, 0, len(names))
	for _, name := range names {
		fn, ok := transforms[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown transform %q", ErrInvalidRule, name)
		}
		chain = append(chain, fn)
	}
	return func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		for _, fn := range chain {
			s = fn(s)
		}
		return s
	}, nil
}

// WithTransform returns a copy of r normalizing values with the named
// transforms before checking them. It panics on an unknown name.
func (r Rule) WithTransform(names ...string) Rule {
	fn, err := Transforms(names...)
	if err != nil {
		panic(err)
	}
	r.Transform = fn
	return r
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

func stripHTML(s string) string {
	return html.UnescapeString(tagRegex.ReplaceAllString(s, ""))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// normalizeEmail lowercases and collapses repeated dots in the local part.
// Values without exactly one @ are only trimmed and lowercased.
func normalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return s
	}
	local = strings.Trim(dotsRegex.ReplaceAllString(local, "."), ".")
	return local + "@" + domain
}
