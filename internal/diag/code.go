package diag

// Code is a stable diagnostic identifier of the form "AT####" (§6.5).
type Code string

const (
	// Type checker / semantic errors.
	CodeTypeMismatch       Code = "AT0001"
	CodeUnknownSymbol      Code = "AT0002"
	CodeInvalidAssignment  Code = "AT0003"
	CodeMissingReturn      Code = "AT0004"
	CodeDivideByZero       Code = "AT0005"
	CodeOutOfBounds        Code = "AT0006"
	CodeInvalidNumericRes  Code = "AT0007"
	CodeNonIntegerIndex    Code = "AT0103"
	CodeIllegalBreakOrCont Code = "AT1010"
	CodeIllegalReturn      Code = "AT1011"
	CodeIllegalPreludeName Code = "AT1012"
	CodeRedeclaration      Code = "AT2003"
	CodeNonExhaustiveMatch Code = "AT0008"
	CodeUnknownType        Code = "AT0009"

	// Parser errors (AT1001-AT1005), reserved for the external parser. The
	// core re-exports the codes so diagnostics produced upstream slot into
	// the same rendering and JSON-projection pipeline.
	CodeParseUnexpectedToken Code = "AT1001"
	CodeParseUnterminated    Code = "AT1002"
	CodeParseInvalidNumber   Code = "AT1003"
	CodeParseInvalidEscape   Code = "AT1004"
	CodeParseUnexpectedEOF   Code = "AT1005"

	// Module resolver.
	CodeCircularImport Code = "AT3001"
	CodeModuleNotFound Code = "AT3002"
)
