package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dshills/suggestmsg/internal/suggest"
)

func TestJSONWriter(t *testing.T) {
	report := &Report{
		Tool:    "suggestmsg",
		Version: "1.0",
		Source:  "staged",
		Prefix:  "fix: ",
		Candidates: []suggest.Candidate{
			{Label: "fix: added foo", Count: 7},
			{Label: "fix: remove bar", Count: 3},
		},
	}

	var buf bytes.Buffer
	w := &JSONWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Tool != "suggestmsg" {
		t.Errorf("Tool = %q, want %q", parsed.Tool, "suggestmsg")
	}
	if len(parsed.Candidates) != 2 {
		t.Fatalf("Candidates count = %d, want 2", len(parsed.Candidates))
	}
	if parsed.Candidates[0].Label != "fix: added foo" || parsed.Candidates[0].Count != 7 {
		t.Errorf("Candidates[0] = %+v", parsed.Candidates[0])
	}
}

func TestJSONWriter_EmptyCandidatesIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, &Report{Candidates: []suggest.Candidate{}}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"candidates": []`)) {
		t.Errorf("output = %s, want empty candidates array", buf.String())
	}
}

func TestJSONWriter_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{Candidates: []suggest.Candidate{{Label: "use Option<T> & drop <nil>", Count: 1}}}
	if err := (&JSONWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("use Option<T> & drop <nil>")) {
		t.Errorf("label was escaped: %s", buf.String())
	}
}
