// Package diag implements the diagnostic taxonomy of §4.10 and §6.4: a
// closed Level/Code pair, a primary span, optional secondary spans, notes,
// and help text, plus a human renderer and a stable JSON projection.
package diag

import "fmt"

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Related is a secondary span attached to a Diagnostic, with its own label.
type Related struct {
	Span    Span
	Message string
}

// Diagnostic is a single structured compiler or runtime message.
type Diagnostic struct {
	Level   Level
	Code    Code
	Message string
	Primary Span
	Label   string
	Notes   []string
	Related []Related
	Help    string
}

// Option configures an optional Diagnostic field.
type Option func(*Diagnostic)

// WithLabel attaches a label to the primary span's caret underline.
func WithLabel(label string) Option {
	return func(d *Diagnostic) { d.Label = label }
}

// WithNote appends a free-form note.
func WithNote(note string) Option {
	return func(d *Diagnostic) { d.Notes = append(d.Notes, note) }
}

// WithRelated appends a secondary span with its own message.
func WithRelated(span Span, message string) Option {
	return func(d *Diagnostic) { d.Related = append(d.Related, Related{Span: span, Message: message}) }
}

// WithHelp attaches a help string.
func WithHelp(help string) Option {
	return func(d *Diagnostic) { d.Help = help }
}

// New builds an error-level Diagnostic. This is the sole constructor
// callers should use — nothing downstream builds a Diagnostic struct
// literal directly, mirroring the teacher's single-insertion-point
// discipline for its opcode table.
func New(code Code, span Span, message string, opts ...Option) Diagnostic {
	return build(LevelError, code, span, message, opts...)
}

// NewWarning builds a warning-level Diagnostic.
func NewWarning(code Code, span Span, message string, opts ...Option) Diagnostic {
	return build(LevelWarning, code, span, message, opts...)
}

func build(level Level, code Code, span Span, message string, opts ...Option) Diagnostic {
	d := Diagnostic{Level: level, Code: code, Message: message, Primary: span}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Error implements the error interface so a Diagnostic can be returned
// directly from functions that otherwise propagate Go errors (the module
// resolver and host callable surface do this).
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [%s] at %s:%d:%d", d.Level, d.Message, d.Code, d.Primary.File, d.Primary.Line, d.Primary.Column)
}
