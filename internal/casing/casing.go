// Package casing converts schema identifiers between naming conventions.
package casing

import (
	"strings"
	"unicode"
)

// words splits name on underscores, dropping empty segments.
func words(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
}

func isUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// Camel converts name to camelCase. All-caps words are lowered first.
func Camel(name string) string {
	ws := words(name)
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range ws {
		if isUpper(w) {
			w = strings.ToLower(w)
		}
		if i == 0 {
			b.WriteString(lowerFirst(w))
		} else {
			b.WriteString(upperFirst(w))
		}
	}
	return b.String()
}

// Pascal converts name to PascalCase. All-caps words are lowered first.
func Pascal(name string) string {
	ws := words(name)
	var b strings.Builder
	for _, w := range ws {
		if isUpper(w) {
			w = strings.ToLower(w)
		}
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// Snake converts name to snake_case, starting a new word at every upper-case letter.
func Snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
