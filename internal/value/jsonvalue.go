package value

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JsonValue backs the JsonValue variant: a structurally-typed dynamic sum
// isolated from the static type system (§3.1, §4.2 "json values ... do
// not satisfy any other static type without an explicit extraction
// call"). It is represented as raw JSON text plus a lazily-parsed gjson
// result, following the teacher pack's preference (goa-ai) for gjson/sjson
// over unmarshalling into map[string]any: path-based get/set matches the
// "dynamic sum" shape directly without a Go-side schema.
type JsonValue struct {
	raw string
}

func NewJsonValue(raw string) *JsonValue { return &JsonValue{raw: raw} }

func JsonFromValue(v Value) Value {
	return Value{kind: KindJson, js: NewJsonValue(v.String())}
}

func (v Value) AsJson() *JsonValue { return v.js }

func (j *JsonValue) String() string { return j.raw }

func (j *JsonValue) Equal(other *JsonValue) bool {
	if j == other {
		return true
	}
	return gjson.Parse(j.raw).String() == gjson.Parse(other.raw).String()
}

// Get reads the value at a gjson path, e.g. "user.name" or "items.0".
func (j *JsonValue) Get(path string) gjson.Result { return gjson.Get(j.raw, path) }

// Set returns a new JsonValue with the value at path replaced, using
// sjson's copy-on-write-by-return style — matching the aggregate
// mutation contract of §4.6 even though JsonValue itself is not one of
// the refcounted CoW variants.
func (j *JsonValue) Set(path string, val any) (*JsonValue, error) {
	next, err := sjson.Set(j.raw, path, val)
	if err != nil {
		return nil, err
	}
	return NewJsonValue(next), nil
}

func (v Value) JsonGet(path string) gjson.Result { return v.js.Get(path) }

func (v Value) JsonSet(path string, val any) (Value, error) {
	next, err := v.js.Set(path, val)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindJson, js: next}, nil
}
