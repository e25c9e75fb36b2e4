package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/suggestmsg/internal/suggest"
)

// Report is the result of a non-interactive suggestion run.
type Report struct {
	Tool       string              `json:"tool"`
	Version    string              `json:"version"`
	Invocation string              `json:"invocation,omitempty"`
	Source     string              `json:"source"`
	Prefix     string              `json:"prefix"`
	Redactions int                 `json:"redactions"`
	Candidates []suggest.Candidate `json:"candidates"`
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to w, or to stdout when w is nil.
func WriteReport(w io.Writer, report *Report, format string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stdout
	}
	return writer.Write(w, report)
}
