package errors

// Error codes for the kodo compiler core. Ranges mirror the teacher's
// convention (semantic analysis errors first, flow control next) but are
// trimmed to the checks this module actually implements: VarChecker's
// mutability and uninitialized-use passes, and IrGen's semantic fallbacks.
const (
	ErrorUndefinedVariable     = "E0001"
	ErrorUndefinedFunction     = "E0002"
	ErrorTypeMismatch          = "E0003"
	ErrorUnknownType           = "E0004"
	ErrorFieldNotFound         = "E0005"
	ErrorDuplicateField        = "E0006"
	ErrorMissingField          = "E0007"
	ErrorRedeclaration         = "E0008"
	ErrorInvalidArguments      = "E0013"
	ErrorInvalidAssignment     = "E0014" // immutability violation (VarChecker)
	ErrorUninitializedVariable = "E0017" // VarChecker reaching-value check
	ErrorInvalidCast           = "E0018"
)

// GetErrorDescription returns a human-readable description of an error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "variable is used but not defined in the current scope"
	case ErrorUndefinedFunction:
		return "function is called but not defined"
	case ErrorTypeMismatch:
		return "expression type does not match the expected type"
	case ErrorUnknownType:
		return "type name does not resolve to a builtin or declared type"
	case ErrorFieldNotFound:
		return "struct field does not exist"
	case ErrorDuplicateField:
		return "duplicate field in struct literal"
	case ErrorMissingField:
		return "required field missing in struct literal"
	case ErrorRedeclaration:
		return "variable is already declared in this scope"
	case ErrorInvalidArguments:
		return "function call has the wrong number of arguments"
	case ErrorInvalidAssignment:
		return "assignment to an immutable variable"
	case ErrorUninitializedVariable:
		return "use of a possibly uninitialized variable"
	case ErrorInvalidCast:
		return "no cast operation exists between these types"
	default:
		return "unknown error"
	}
}
