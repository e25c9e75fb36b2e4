package output

import (
	"fmt"
	"io"
	"strconv"
)

// TextWriter lists candidates one per line, most frequent first, with the
// number of choices that produced each.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	if len(report.Candidates) == 0 {
		ew.println("No suggestions returned.")
		return ew.err
	}

	width := len(strconv.Itoa(report.Candidates[0].Count))
	for _, c := range report.Candidates {
		ew.printf("%*dx  %s\n", width, c.Count, c.Label)
	}
	if report.Redactions > 0 {
		ew.printf("(%d secret(s) redacted from the %s diff)\n", report.Redactions, report.Source)
	}
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
