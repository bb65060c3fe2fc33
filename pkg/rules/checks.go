package rules

import (
	"encoding/json"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"time"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// isEmpty treats nil, "", and empty slices, arrays and maps as missing.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func matchesType(value any, t Type) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		_, ok := toFloat(value)
		return ok
	case TypeInteger:
		f, ok := toFloat(value)
		return ok && f == math.Trunc(f)
	case TypeFloat:
		f, ok := toFloat(value)
		return ok && f != math.Trunc(f)
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeArray:
		k := reflect.ValueOf(value).Kind()
		return k == reflect.Slice || k == reflect.Array
	case TypeObject:
		k := reflect.ValueOf(value).Kind()
		return k == reflect.Map || k == reflect.Struct
	case TypeEmail:
		s, ok := value.(string)
		return ok && len(s) <= 254 && emailRegex.MatchString(s)
	case TypeURL:
		s, ok := value.(string)
		if !ok {
			return false
		}
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	case TypeDate:
		return isDate(value)
	}
	return true
}

func isDate(value any) bool {
	switch v := value.(type) {
	case time.Time:
		return !v.IsZero()
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return true
			}
		}
	}
	return false
}

// measure returns the quantity bounded by Len, Min and Max, and its unit for
// messages.
func measure(value any) (float64, string, bool) {
	if s, ok := value.(string); ok {
		return float64(utf8.RuneCountInString(s)), "characters long", true
	}
	if f, ok := toFloat(value); ok {
		return f, "", true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(rv.Len()), "items", true
	}
	return 0, "", false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}
