// Package iojson writes command output as JSON documents or JSON lines.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is written to the error stream when a value cannot be encoded.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func encodeError(msg string, cause error) []byte {
	bits, err := json.Marshal(Error{Message: msg, Data: map[string]any{"json_error": cause.Error()}})
	if err != nil {
		// both fields are strings, so this cannot fail
		panic(err)
	}
	return bits
}

// WriteWith writes obj to w as indented JSON. When obj cannot be encoded a
// JSON Error is written to ew instead and no error is returned, so callers
// can keep the exit status of the command.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, string(encodeError("cannot encode output", err)))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of JSON.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLines writes each element of items with WriteLine, stopping at the
// first error.
func WriteLines[T any](w io.Writer, items []T) error {
	for _, item := range items {
		if err := WriteLine(w, item); err != nil {
			return err
		}
	}
	return nil
}
