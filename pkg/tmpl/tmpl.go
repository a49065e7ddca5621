// Package tmpl provides template rendering utilities for bot messages, item
// layouts and artifact filename patterns.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// pathSafe strips characters that would escape a path component.
func pathSafe(s string) string {
	return strings.ReplaceAll(s, "/", "")
}

var funcs = template.FuncMap{
	"join":     strings.Join,
	"lower":    strings.ToLower,
	"upper":    strings.ToUpper,
	"pathsafe": pathSafe,
}

// Template is a parsed template that can be executed many times.
type Template struct {
	t *template.Template
}

// Compile parses a template once for repeated execution. Templates are
// executed with missingkey=error.
func Compile(name, text string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// MustCompile is like Compile but panics on a parse error. Use only for
// templates that are part of the program.
func MustCompile(name, text string) *Template {
	t, err := Compile(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

// Execute renders the template with the given data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - join: Join string slice with separator (e.g., join .Chairs ", ")
//   - lower, upper: change case
//   - pathsafe: remove path separators
func Render(tmpl string, data any) (string, error) {
	t, err := Compile("", tmpl)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}

// Validate checks template syntax and, when data is non-nil, that every
// referenced key exists on data.
func Validate(tmpl string, data any) error {
	t, err := Compile("", tmpl)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	_, err = t.Execute(data)
	return err
}
