package diag

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuildsErrorDiagnostic(t *testing.T) {
	span := Span{File: "main.atl", Line: 3, Column: 5, Length: 1}
	d := New(CodeTypeMismatch, span, "expected Int, found String", WithLabel("here"), WithHelp("convert with toString()"))

	require.Equal(t, LevelError, d.Level)
	require.Equal(t, CodeTypeMismatch, d.Code)
	require.Equal(t, "here", d.Label)
	require.Equal(t, "convert with toString()", d.Help)
	require.Contains(t, d.Error(), "AT0001")
	require.Contains(t, d.Error(), "main.atl:3:5")
}

func TestNewWarningIsWarningLevel(t *testing.T) {
	d := NewWarning(CodeUnknownSymbol, Span{File: "a.atl", Line: 1, Column: 1}, "unused binding")
	require.Equal(t, LevelWarning, d.Level)
}

func TestWithRelatedAppendsSecondarySpan(t *testing.T) {
	primary := Span{File: "a.atl", Line: 10, Column: 1}
	related := Span{File: "a.atl", Line: 2, Column: 1}
	d := New(CodeRedeclaration, primary, "duplicate binding", WithRelated(related, "first declared here"))

	require.Len(t, d.Related, 1)
	require.Equal(t, "first declared here", d.Related[0].Message)
	require.Equal(t, related, d.Related[0].Span)
}

func TestWithNoteAccumulates(t *testing.T) {
	d := New(CodeDivideByZero, Span{}, "division by zero", WithNote("left operand"), WithNote("right operand was 0"))
	require.Equal(t, []string{"left operand", "right operand was 0"}, d.Notes)
}

func TestSpanZero(t *testing.T) {
	require.True(t, Span{}.Zero())
	require.False(t, Span{File: "a.atl"}.Zero())
	require.False(t, Span{Line: 1}.Zero())
}

func TestBagCapsErrorsNotWarnings(t *testing.T) {
	b := NewBag(2)

	require.True(t, b.Add(New(CodeTypeMismatch, Span{}, "e1")))
	require.True(t, b.Add(New(CodeTypeMismatch, Span{}, "e2")))
	require.False(t, b.Add(New(CodeTypeMismatch, Span{}, "e3 dropped")))

	require.True(t, b.Add(NewWarning(CodeUnknownSymbol, Span{}, "w1")))
	require.True(t, b.Add(NewWarning(CodeUnknownSymbol, Span{}, "w2")))
	require.True(t, b.Add(NewWarning(CodeUnknownSymbol, Span{}, "w3")))

	require.Equal(t, 2, b.ErrorCount())
	require.True(t, b.HasErrors())
	require.True(t, b.Stopped())
	require.Len(t, b.All(), 5)
}

func TestBagUnlimitedWhenMaxErrorsNonPositive(t *testing.T) {
	b := NewBag(0)
	for i := 0; i < 50; i++ {
		require.True(t, b.Add(New(CodeTypeMismatch, Span{}, "e")))
	}
	require.Equal(t, 50, b.ErrorCount())
	require.False(t, b.Stopped())
}

func TestBagCodesProjection(t *testing.T) {
	b := NewBag(0)
	b.Add(New(CodeTypeMismatch, Span{}, "e1"))
	b.Add(NewWarning(CodeUnknownSymbol, Span{}, "w1"))
	b.Add(New(CodeDivideByZero, Span{}, "e2"))

	require.Equal(t, []Code{CodeTypeMismatch, CodeUnknownSymbol, CodeDivideByZero}, b.Codes())
}

func TestBagAllIsDefensiveCopy(t *testing.T) {
	b := NewBag(0)
	b.Add(New(CodeTypeMismatch, Span{}, "e1"))

	all := b.All()
	all[0] = New(CodeDivideByZero, Span{}, "mutated")

	require.Equal(t, CodeTypeMismatch, b.All()[0].Code)
}

func TestRenderHumanIncludesCaretAndSnippet(t *testing.T) {
	source := "let x = 1\nlet y = x + \"oops\"\n"
	d := New(CodeTypeMismatch, Span{File: "a.atl", Line: 2, Column: 9, Length: 5}, "expected Int, found String", WithLabel("here"), WithHelp("convert first"))

	out := RenderHuman(d, source)

	require.Contains(t, out, "error[AT0001]")
	require.Contains(t, out, "a.atl:2:9")
	require.Contains(t, out, "let y = x + \"oops\"")
	require.Contains(t, out, strings.Repeat(" ", 8)+strings.Repeat("^", 5)+" here")
	require.Contains(t, out, "help: convert first")
}

func TestRenderHumanWithoutSourceFallsBackToLocationOnly(t *testing.T) {
	d := New(CodeUnknownSymbol, Span{File: "a.atl", Line: 1, Column: 1}, "unknown symbol")
	out := RenderHuman(d, "")
	require.Contains(t, out, "a.atl:1:1")
	require.NotContains(t, out, "|")
}

func TestRenderJSONMatchesStableSchema(t *testing.T) {
	source := "x / 0\n"
	d := New(CodeDivideByZero, Span{File: "a.atl", Line: 1, Column: 1, Length: 5}, "division by zero", WithNote("right operand is 0"))

	raw, err := RenderJSON(d, source)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Equal(t, float64(1), decoded["diag_version"])
	require.Equal(t, "error", decoded["level"])
	require.Equal(t, "AT0005", decoded["code"])
	require.Equal(t, "a.atl", decoded["file"])
	require.Equal(t, "x / 0", decoded["snippet"])
	require.Equal(t, []any{"right operand is 0"}, decoded["notes"])
	require.NotContains(t, decoded, "label")
	require.NotContains(t, decoded, "help")
}

func TestRenderJSONOmitsEmptyOptionalFields(t *testing.T) {
	d := New(CodeOutOfBounds, Span{File: "a.atl", Line: 1, Column: 1}, "index out of bounds")
	raw, err := RenderJSON(d, "")
	require.NoError(t, err)
	require.NotContains(t, string(raw), "\"label\"")
	require.NotContains(t, string(raw), "\"related\"")
	require.NotContains(t, string(raw), "\"help\"")
}
