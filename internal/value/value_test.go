package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayPushTriggersCoWWhenAliased(t *testing.T) {
	a := Array(Number(1), Number(2), Number(3))
	b := a.Clone()

	require.False(t, a.ArrayIsExclusivelyOwned())

	b = b.ArrayPush(Number(4))

	require.Equal(t, 3, a.ArrayLen())
	require.Equal(t, 4, b.ArrayLen())
}

func TestArrayPushMutatesInPlaceWhenExclusivelyOwned(t *testing.T) {
	a := Array(Number(1))
	require.True(t, a.ArrayIsExclusivelyOwned())

	b := a.ArrayPush(Number(2))
	require.Equal(t, 2, b.ArrayLen())
}

func TestArrayEqualityIsByContent(t *testing.T) {
	a := Array(Number(1), String("x"))
	b := Array(Number(1), String("x"))
	require.True(t, Equal(a, b))

	c := Array(Number(1), String("y"))
	require.False(t, Equal(a, c))
}

func TestArrayGetOutOfBounds(t *testing.T) {
	a := Array(Number(1), Number(2))
	_, ok := a.ArrayGet(5)
	require.False(t, ok)
	_, ok = a.ArrayGet(-1)
	require.False(t, ok)
}

func TestArraySetTriggersCoW(t *testing.T) {
	a := Array(Number(1), Number(2))
	b := a.Clone()
	b, ok := b.ArraySet(0, Number(99))
	require.True(t, ok)

	v0, _ := a.ArrayGet(0)
	require.Equal(t, float64(1), v0.AsNumber())
	v1, _ := b.ArrayGet(0)
	require.Equal(t, float64(99), v1.AsNumber())
}

func TestHashMapSetAndGet(t *testing.T) {
	m := HashMap()
	m = m.HashMapSet(String("a"), Number(1))
	m = m.HashMapSet(String("b"), Number(2))

	v, ok := m.HashMapGet(String("a"))
	require.True(t, ok)
	require.Equal(t, float64(1), v.AsNumber())
	require.Equal(t, 2, m.HashMapLen())
}

func TestHashMapCoWIsolation(t *testing.T) {
	m := HashMap().HashMapSet(String("a"), Number(1))
	alias := m.Clone()

	m2 := m.HashMapSet(String("a"), Number(2))

	v, _ := alias.HashMapGet(String("a"))
	require.Equal(t, float64(1), v.AsNumber())
	v2, _ := m2.HashMapGet(String("a"))
	require.Equal(t, float64(2), v2.AsNumber())
}

func TestHashSetAddDedupes(t *testing.T) {
	s := HashSet(Number(1), Number(2))
	s = s.HashSetAdd(Number(1))
	require.Equal(t, 2, s.HashSetLen())
	s = s.HashSetAdd(Number(3))
	require.Equal(t, 3, s.HashSetLen())
}

func TestQueueFIFOOrder(t *testing.T) {
	q := Queue()
	q = q.QueueEnqueue(Number(1))
	q = q.QueueEnqueue(Number(2))

	front, q, ok := q.QueueDequeue()
	require.True(t, ok)
	require.Equal(t, float64(1), front.AsNumber())
	require.Equal(t, 1, q.QueueLen())
}

func TestQueueDequeueEmpty(t *testing.T) {
	q := Queue()
	_, _, ok := q.QueueDequeue()
	require.False(t, ok)
}

func TestStackLIFOOrder(t *testing.T) {
	s := Stack()
	s = s.StackPush(Number(1))
	s = s.StackPush(Number(2))

	top, s, ok := s.StackPop()
	require.True(t, ok)
	require.Equal(t, float64(2), top.AsNumber())
	require.Equal(t, 1, s.StackLen())
}

func TestSharedMutationVisibleToAllHolders(t *testing.T) {
	s := NewShared(Number(1))
	alias := s.Clone()

	s.SharedSet(Number(42))

	got := alias.SharedGet()
	require.Equal(t, float64(42), got.AsNumber())
}

func TestSharedEqualityIsByIdentity(t *testing.T) {
	a := NewShared(Number(1))
	b := NewShared(Number(1))
	alias := a.Clone()

	require.False(t, Equal(a, b))
	require.True(t, Equal(a, alias))
}

func TestStringEqualityIsByContent(t *testing.T) {
	require.True(t, Equal(String("hi"), String("hi")))
	require.False(t, Equal(String("hi"), String("bye")))
}

func TestStringLenIsUnicodeScalarCount(t *testing.T) {
	s := String("héllo")
	require.Equal(t, 5, s.StringLen())
}

func TestNativeFunctionEqualityIsByIdentity(t *testing.T) {
	fn := func(args []Value) (Value, error) { return Null, nil }
	a := NativeFunctionValue(fn)
	b := NativeFunctionValue(fn)
	other := NativeFunctionValue(func(args []Value) (Value, error) { return Null, nil })

	require.True(t, Equal(a, b))
	require.False(t, Equal(a, other))
}

func TestCloneBumpsRefcountAndDropDecrements(t *testing.T) {
	a := Array(Number(1))
	require.True(t, a.ArrayIsExclusivelyOwned())

	b := a.Clone()
	require.False(t, a.ArrayIsExclusivelyOwned())
	require.False(t, b.ArrayIsExclusivelyOwned())

	b.Drop()
	require.True(t, a.ArrayIsExclusivelyOwned())
}

func TestRegexEqualityIsByPatternText(t *testing.T) {
	a, err := CompileRegex(`\d+`)
	require.NoError(t, err)
	b, err := CompileRegex(`\d+`)
	require.NoError(t, err)
	require.True(t, Equal(a, b))

	matched, err := a.RegexMatch("abc123")
	require.NoError(t, err)
	require.True(t, matched)
}

func TestJsonValueRoundTripsRawText(t *testing.T) {
	j := JsonFromValue(Number(42))
	require.Equal(t, "42", j.AsJson().String())
}

func TestJsonValueSetReturnsNewValue(t *testing.T) {
	j := Value{kind: KindJson, js: NewJsonValue(`{"a":1}`)}
	j2, err := j.JsonSet("a", 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), j.JsonGet("a").Int())
	require.Equal(t, int64(2), j2.JsonGet("a").Int())
}
