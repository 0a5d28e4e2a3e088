package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Transcript is the deterministic record of one scenario run: every
// call in ledger order plus the outcome of every check.
type Transcript struct {
	Scenario string  `json:"scenario"`
	Events   []Event `json:"events"`
	Checks   []Check `json:"checks"`
	Pass     bool    `json:"pass"`
}

// Event is one recorded call.
type Event struct {
	// Index is the ledger index assigned to the call.
	Index int64 `json:"index"`

	Double string `json:"double"`
	Args   []any  `json:"args"`

	// Result is the resolved value; absent when the call failed.
	Result any `json:"result,omitempty"`

	// Error is the failure message; absent when the call succeeded.
	Error string `json:"error,omitempty"`
}

// Check is the outcome of one verification step.
type Check struct {
	Kind     string   `json:"kind"`
	Detail   string   `json:"detail"`
	Pass     bool     `json:"pass"`
	Failures []string `json:"failures,omitempty"`
}

// JSON renders the transcript as indented JSON with a trailing newline,
// the golden-file format.
func (t *Transcript) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding transcript: %w", err)
	}
	return append(data, '\n'), nil
}

// Text renders a human-readable summary.
func (t *Transcript) Text() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", t.Scenario)
	for _, ev := range t.Events {
		fmt.Fprintf(&buf, "  [%d] %s%s", ev.Index, ev.Double, formatValues(ev.Args))
		if ev.Error != "" {
			fmt.Fprintf(&buf, " !! %s", ev.Error)
		} else {
			fmt.Fprintf(&buf, " -> %v", ev.Result)
		}
		buf.WriteByte('\n')
	}
	for _, ck := range t.Checks {
		status := "ok"
		if !ck.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&buf, "  %s %s: %s\n", status, ck.Kind, ck.Detail)
		for _, f := range ck.Failures {
			fmt.Fprintf(&buf, "    %s\n", f)
		}
	}
	if t.Pass {
		buf.WriteString("PASS\n")
	} else {
		buf.WriteString("FAIL\n")
	}
	return buf.String()
}

func formatValues(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
