package diag

// Span identifies a contiguous range of source text. Every annotated AST
// node and every bytecode instruction with a debug-info entry carries one.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

// Zero reports whether the span carries no location information, e.g. for
// synthetic nodes introduced by desugaring that should never be blamed in a
// diagnostic.
func (s Span) Zero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}
