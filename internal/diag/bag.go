package diag

// Bag accumulates diagnostics for a single compile pipeline run. It enforces
// the §4.10 rule: error emission stops after maxErrors errors, but warnings
// are never capped.
type Bag struct {
	maxErrors  int
	errorCount int
	items      []Diagnostic
}

// NewBag creates a Bag with the given error cap. A non-positive cap means
// unlimited (used by tests that want every diagnostic).
func NewBag(maxErrors int) *Bag {
	return &Bag{maxErrors: maxErrors}
}

// Add appends a diagnostic, dropping additional errors once the cap is hit.
// Returns false if the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Level == LevelError {
		if b.maxErrors > 0 && b.errorCount >= b.maxErrors {
			return false
		}
		b.errorCount++
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (b *Bag) HasErrors() bool { return b.errorCount > 0 }

// ErrorCount returns the number of recorded errors (capped at maxErrors).
func (b *Bag) ErrorCount() int { return b.errorCount }

// Stopped reports whether the bag has reached its error cap and further
// errors would be silently dropped.
func (b *Bag) Stopped() bool { return b.maxErrors > 0 && b.errorCount >= b.maxErrors }

// All returns every recorded diagnostic in emission order.
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Codes returns the Code of every recorded diagnostic in order, the
// projection the parity tests compare between engines (§8.1 Engine parity).
func (b *Bag) Codes() []Code {
	out := make([]Code, len(b.items))
	for i, d := range b.items {
		out[i] = d.Code
	}
	return out
}
