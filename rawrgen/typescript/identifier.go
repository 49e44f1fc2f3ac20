package typescript

import (
	"strconv"
	"unicode"
)

// Reserved words that cannot name a type or a binding.
var reservedWords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"type":       true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// escapeReservedWord escapes a reserved word by appending an underscore.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// isIdentifier reports whether name can be written as a bare identifier.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// propertyName renders an object property key. Reserved words are valid
// property names and stay bare.
func propertyName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return strconv.Quote(name)
}

// bindingName renders a parameter or local name.
func bindingName(name string) string {
	if !isIdentifier(name) {
		r := []rune(name)
		for i, c := range r {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '$' {
				r[i] = '_'
			}
		}
		name = string(r)
		if name == "" || unicode.IsDigit(r[0]) {
			name = "_" + name
		}
	}
	return escapeReservedWord(name)
}
