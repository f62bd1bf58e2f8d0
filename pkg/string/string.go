package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims every referenced string in place.
func TrimStrings(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}

func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// DigitsOnly drops every rune that is not an ASCII digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// AlphanumericOnly drops every rune outside [A-Za-z0-9].
func AlphanumericOnly(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		}
		return -1
	}, s)
}

// GroupPhone formats up to nine digits as "XXX XXX XXX".
func GroupPhone(s string) string {
	d := DigitsOnly(s)
	if len(d) > 9 {
		d = d[:9]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + " " + d[3:]
	default:
		return d[:3] + " " + d[3:6] + " " + d[6:]
	}
}

// DedupeAndTrim trims every value and drops blanks and repeats, keeping order.
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
