// Package ir defines the Schema IR: a language-agnostic description of the
// types and services of a set of modules. Target generators consume it to
// produce type declarations and RPC bindings.
//
// Named declarations live at module top level; type expressions appear nested
// inside them. References across modules are weak (module path + name) and are
// resolved through a [SymbolTable].
package ir

import "strings"

// Documentation holds documentation comments attached to a schema element.
type Documentation struct {
	// Summary is the first line, suitable for brief descriptions.
	Summary string

	// Body is the complete documentation text, including the summary.
	Body string

	// Deprecated is non-nil if the element is marked deprecated.
	// The string value is the deprecation message (may be empty).
	Deprecated *string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && d.Deprecated == nil
}

// Doc builds Documentation from free text. The summary is the first line.
func Doc(text string) Documentation {
	text = strings.TrimSpace(text)
	if text == "" {
		return Documentation{}
	}
	summary, _, _ := strings.Cut(text, "\n")
	return Documentation{Summary: strings.TrimSpace(summary), Body: text}
}

// Warning represents a non-fatal issue encountered during generation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Path is the schema path that triggered the warning, if applicable.
	Path string
}
