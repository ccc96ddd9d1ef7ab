// Package ast defines the annotated AST of §3.2: the tree produced by the
// binder and type checker, carrying spans on every node, symbol references
// on every identifier, resolved types on every expression, and ownership
// annotations and method-dispatch tags where the spec requires them.
package ast

import "fmt"

// TypeKind is the closed set of static type shapes the checker assigns.
type TypeKind int

const (
	KindNumber TypeKind = iota
	KindBool
	KindString
	KindNull
	KindVoid
	KindArray
	KindHashMap
	KindHashSet
	KindQueue
	KindStack
	KindFunction
	KindJson
	KindShared
	KindTypeParam // unresolved generic type parameter, pre-monomorphization
	KindNamed     // future-extension nominal type, resolved by name only
)

// Type is the resolved static type of an expression (§4.2). Array, Shared,
// HashMap and the other parametric aggregates carry one or more Elem types;
// Function types carry Params and Result.
type Type struct {
	Kind    TypeKind
	Name    string  // set for KindTypeParam and KindNamed
	Elem    *Type   // element type for Array/HashSet/Queue/Stack/Shared
	Key     *Type   // key type for HashMap; nil otherwise
	Params  []*Type // parameter types for KindFunction
	Result  *Type   // return type for KindFunction
}

func Number() *Type { return &Type{Kind: KindNumber} }
func Bool() *Type   { return &Type{Kind: KindBool} }
func StringT() *Type { return &Type{Kind: KindString} }
func Null() *Type   { return &Type{Kind: KindNull} }
func Void() *Type   { return &Type{Kind: KindVoid} }
func Json() *Type   { return &Type{Kind: KindJson} }

func Array(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }
func HashMap(key, elem *Type) *Type { return &Type{Kind: KindHashMap, Key: key, Elem: elem} }
func HashSet(elem *Type) *Type { return &Type{Kind: KindHashSet, Elem: elem} }
func Queue(elem *Type) *Type { return &Type{Kind: KindQueue, Elem: elem} }
func Stack(elem *Type) *Type { return &Type{Kind: KindStack, Elem: elem} }
func Shared(elem *Type) *Type { return &Type{Kind: KindShared, Elem: elem} }
func TypeParam(name string) *Type { return &Type{Kind: KindTypeParam, Name: name} }
func Named(name string) *Type { return &Type{Kind: KindNamed, Name: name} }
func Func(params []*Type, result *Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Result: result}
}

// Equal reports structural equality, the rule §4.2 requires for `==`/`!=`
// operand compatibility.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindArray, KindHashSet, KindQueue, KindStack, KindShared:
		return t.Elem.Equal(other.Elem)
	case KindHashMap:
		return t.Key.Equal(other.Key) && t.Elem.Equal(other.Elem)
	case KindTypeParam, KindNamed:
		return t.Name == other.Name
	case KindFunction:
		if len(t.Params) != len(other.Params) || !t.Result.Equal(other.Result) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the type the way diagnostics quote it ("Array<number>").
func (t *Type) String() string {
	if t == nil {
		return "<unresolved>"
	}
	switch t.Kind {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	case KindJson:
		return "json"
	case KindArray:
		return fmt.Sprintf("Array<%s>", t.Elem)
	case KindHashMap:
		return fmt.Sprintf("HashMap<%s, %s>", t.Key, t.Elem)
	case KindHashSet:
		return fmt.Sprintf("HashSet<%s>", t.Elem)
	case KindQueue:
		return fmt.Sprintf("Queue<%s>", t.Elem)
	case KindStack:
		return fmt.Sprintf("Stack<%s>", t.Elem)
	case KindShared:
		return fmt.Sprintf("Shared<%s>", t.Elem)
	case KindTypeParam, KindNamed:
		return t.Name
	case KindFunction:
		return "fn(...)"
	default:
		return "<unknown>"
	}
}

// Ownership mirrors internal/rawast.Ownership after validation by the type
// checker; kept as a distinct type so the annotated tree never imports the
// raw tree's package.
type Ownership int

const (
	Unannotated Ownership = iota
	Own
	Borrow
	SharedOwnership
)

// TypeTag is the closed enum of receiver categories that support method
// syntax (§3.2, §4.8). It is the sole key, alongside a method name, into
// the method-dispatch table.
type TypeTag int

const (
	TagNone TypeTag = iota
	TagString
	TagArray
	TagHashMap
	TagHashSet
	TagQueue
	TagStack
	TagJson
	TagShared
)

func (t TypeTag) String() string {
	switch t {
	case TagString:
		return "String"
	case TagArray:
		return "Array"
	case TagHashMap:
		return "HashMap"
	case TagHashSet:
		return "HashSet"
	case TagQueue:
		return "Queue"
	case TagStack:
		return "Stack"
	case TagJson:
		return "JsonValue"
	case TagShared:
		return "Shared"
	default:
		return "None"
	}
}

// TagForType maps a resolved Type to its method-dispatch TypeTag, or
// TagNone if the type does not support method syntax.
func TagForType(t *Type) TypeTag {
	if t == nil {
		return TagNone
	}
	switch t.Kind {
	case KindString:
		return TagString
	case KindArray:
		return TagArray
	case KindHashMap:
		return TagHashMap
	case KindHashSet:
		return TagHashSet
	case KindQueue:
		return TagQueue
	case KindStack:
		return TagStack
	case KindJson:
		return TagJson
	case KindShared:
		return TagShared
	default:
		return TagNone
	}
}
