// Package strutil holds the identifier case conversion and name matching
// shared by the model loader, the backfill synthesizer and the emitter.
package strutil

import (
	"strings"
	"unicode"
)

// isSeparator reports whether r separates words in an identifier or title.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// splitWords breaks an identifier into words at separators and case
// boundaries. An acronym stays one word up to the capital that starts the
// next word, so "parseXMLData" gives [parse XML Data]. Runes that are
// neither letters, digits nor separators are dropped.
func splitWords(s string) []string {
	rs := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range rs {
		switch {
		case isSeparator(r):
			flush()
			continue
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			continue
		}

		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToSnakeCase converts an identifier or title to snake_case:
// "userName" -> "user_name", "HTTPServer" -> "http_server",
// "Add Status" -> "add_status".
func ToSnakeCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToPascalCase converts an identifier or title to PascalCase:
// "add_status" -> "AddStatus", "v2.release" -> "V2Release".
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

// Words splits a snake_case name into lower-case words, skipping empty ones.
func Words(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool { return r == '_' })
}

// ShareWord reports whether two snake_case names have a word in common.
func ShareWord(a, b string) bool {
	wb := Words(b)
	for _, w := range Words(a) {
		for _, other := range wb {
			if w == other {
				return true
			}
		}
	}
	return false
}

// ShareSubstring reports whether a and b, ignoring case, contain a common
// substring of n bytes.
func ShareSubstring(a, b string, n int) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if n <= 0 {
		return false
	}
	for i := 0; i+n <= len(a); i++ {
		if strings.Contains(b, a[i:i+n]) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s contains any of subs.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
