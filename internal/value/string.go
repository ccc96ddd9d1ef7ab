package value

import "unicode/utf8"

// stringStorage backs the String variant: a reference-counted immutable
// byte sequence (§3.1). Strings are never mutated in place — there is no
// mutation API at all — so no CoW path is needed here; retain/release
// exist purely for refcount-conservation bookkeeping (§8.1).
type stringStorage struct {
	refcounted
	data string
}

// String constructs a fresh String value with refcount 1.
func String(s string) Value {
	return Value{kind: KindString, str: &stringStorage{refcounted: newRefcounted(), data: s}}
}

func (v Value) AsString() string { return v.str.data }

// StringLen returns the Unicode scalar count, per §3.1 ("len returns
// Unicode scalar count").
func (v Value) StringLen() int { return utf8.RuneCountInString(v.str.data) }
