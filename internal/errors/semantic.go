package errors

import "fmt"

// ImmutableAssignment builds the diagnostic for VarChecker's mutability
// check: a second direct store to a `let`-declared local.
func ImmutableAssignment(name string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorInvalidAssignment,
		Message:  fmt.Sprintf("attempted assignment of immutable variable '%s'", name),
		Position: Position{Line: line},
		Length:   len(name),
		Notes:    []string{"consider declaring this variable with 'var' instead of 'let'"},
	}
}

// ImmutablePointerStore builds the diagnostic for a store through a
// pointer whose own type is not mutable.
func ImmutablePointerStore(pointeeType string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorInvalidAssignment,
		Message:  fmt.Sprintf("attempted assignment of '%s' value pointed to by an immutable pointer", pointeeType),
		Position: Position{Line: line},
	}
}

// UninitializedUse builds the diagnostic for VarChecker's uninitialized-use
// check: a Load whose reaching value expands to Undef on some path.
func UninitializedUse(name string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorUninitializedVariable,
		Message:  fmt.Sprintf("use of possibly uninitialized variable '%s'", name),
		Position: Position{Line: line},
		Length:   len(name),
	}
}

// UndefinedVariable builds the diagnostic for IrGen's symbol lookup.
func UndefinedVariable(name string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorUndefinedVariable,
		Message:  fmt.Sprintf("undefined variable '%s'", name),
		Position: Position{Line: line},
		Length:   len(name),
	}
}

// UnknownType builds the diagnostic for a type name that resolves to
// neither a builtin spelling nor a declared struct type.
func UnknownType(name string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorUnknownType,
		Message:  fmt.Sprintf("invalid type '%s'", name),
		Position: Position{Line: line},
		Length:   len(name),
	}
}

// Redeclaration builds the diagnostic for a DeclStmt whose name is already
// bound in the current scope.
func Redeclaration(name string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorRedeclaration,
		Message:  fmt.Sprintf("redeclaration of variable '%s'", name),
		Position: Position{Line: line},
		Length:   len(name),
	}
}

// UndefinedFunction builds the diagnostic for IrGen's call lowering.
func UndefinedFunction(name string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorUndefinedFunction,
		Message:  fmt.Sprintf("function '%s' is not defined", name),
		Position: Position{Line: line},
		Length:   len(name),
	}
}

// FieldNotFound builds the diagnostic for a member access on an unknown
// struct field.
func FieldNotFound(structName, field string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorFieldNotFound,
		Message:  fmt.Sprintf("struct '%s' has no field '%s'", structName, field),
		Position: Position{Line: line},
		Length:   len(field),
	}
}

// ArgumentCountMismatch builds the diagnostic for a call with the wrong
// arity, or a struct literal with the wrong element count.
func ArgumentCountMismatch(name string, want, got, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorInvalidArguments,
		Message:  fmt.Sprintf("'%s' expects %d argument(s), found %d", name, want, got),
		Position: Position{Line: line},
		Length:   len(name),
	}
}

// InvalidCast builds the diagnostic for IrGen's cast lowering when no
// (source, target) pairing is defined (spec SPEC_FULL item 8).
func InvalidCast(from, to string, line int) CompilerError {
	return CompilerError{
		Level:    Error,
		Code:     ErrorInvalidCast,
		Message:  fmt.Sprintf("cannot cast from '%s' to '%s'", from, to),
		Position: Position{Line: line},
	}
}
