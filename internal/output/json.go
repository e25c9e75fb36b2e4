package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the full report as indented JSON. Labels are written
// as-is: `<`, `>` and `&` are common in commit messages and not HTML-escaped.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}
