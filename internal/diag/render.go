package diag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
)

// RenderHuman reproduces the source snippet with a caret underline beneath
// the primary span, in the style expected by a terminal. source is the full
// text of the file named by d.Primary.File; pass "" when the snippet is
// unavailable (e.g. a runtime error raised without access to the original
// text) and RenderHuman falls back to a location-only line.
func RenderHuman(d Diagnostic, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]: %s\n", d.Level, d.Code, d.Message)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", d.Primary.File, d.Primary.Line, d.Primary.Column)

	if line := sourceLine(source, d.Primary.Line); line != "" {
		fmt.Fprintf(&b, "   |\n")
		fmt.Fprintf(&b, "%3d| %s\n", d.Primary.Line, line)
		caretLen := d.Primary.Length
		if caretLen < 1 {
			caretLen = 1
		}
		pad := strings.Repeat(" ", max(d.Primary.Column-1, 0))
		caret := strings.Repeat("^", caretLen)
		fmt.Fprintf(&b, "   | %s%s", pad, caret)
		if d.Label != "" {
			fmt.Fprintf(&b, " %s", d.Label)
		}
		b.WriteByte('\n')
	}

	for _, r := range d.Related {
		fmt.Fprintf(&b, "note: %s:%d:%d: %s\n", r.Span.File, r.Span.Line, r.Span.Column, r.Message)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "note: %s\n", n)
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "help: %s\n", d.Help)
	}
	return b.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	scanner := bufio.NewScanner(strings.NewReader(source))
	n := 0
	for scanner.Scan() {
		n++
		if n == line {
			return scanner.Text()
		}
	}
	return ""
}

// jsonRelated and jsonDiagnostic mirror the stable schema of §6.4 exactly.
type jsonRelated struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Length  int    `json:"length"`
	Message string `json:"message"`
}

type jsonDiagnostic struct {
	DiagVersion int           `json:"diag_version"`
	Level       string        `json:"level"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	File        string        `json:"file"`
	Line        int           `json:"line"`
	Column      int           `json:"column"`
	Length      int           `json:"length"`
	Snippet     string        `json:"snippet"`
	Label       string        `json:"label,omitempty"`
	Notes       []string      `json:"notes,omitempty"`
	Related     []jsonRelated `json:"related,omitempty"`
	Help        string        `json:"help,omitempty"`
}

// RenderJSON projects a Diagnostic into the stable schema of §6.4.
func RenderJSON(d Diagnostic, source string) ([]byte, error) {
	jd := jsonDiagnostic{
		DiagVersion: 1,
		Level:       string(d.Level),
		Code:        string(d.Code),
		Message:     d.Message,
		File:        d.Primary.File,
		Line:        d.Primary.Line,
		Column:      d.Primary.Column,
		Length:      d.Primary.Length,
		Snippet:     sourceLine(source, d.Primary.Line),
		Label:       d.Label,
		Notes:       d.Notes,
		Help:        d.Help,
	}
	for _, r := range d.Related {
		jd.Related = append(jd.Related, jsonRelated{
			File: r.Span.File, Line: r.Span.Line, Column: r.Span.Column,
			Length: r.Span.Length, Message: r.Message,
		})
	}
	return json.Marshal(jd)
}
