package ir

import (
	"fmt"
	"strings"

	"kodo/internal/errors"
)

// TypeKind tags the concrete shape of a Type for switch dispatch, the Go
// stand-in for the original's Types.hh class hierarchy (Invalid/Bool/Void/
// Int/Pointer/Struct/Function), grounded on ir/Types.hh and ir/Types.cc.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindBool
	KindVoid
	KindInt
	KindPointer
	KindStruct
	KindFunction
	KindInferred
)

func (k TypeKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindPointer:
		return "pointer"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindInferred:
		return "inferred"
	default:
		return "unknown"
	}
}

// Type is implemented by every IR type. Types are interned per-Program by
// TypeCache, so two Types describing the same shape are always the same
// pointer — equality is pointer equality, never a deep Equals call.
type Type interface {
	Kind() TypeKind
	String() string

	// SizeInBytes reports the type's storage footprint. Asking for the
	// size of an unsized type (Invalid, Void, Function, Inferred) is a
	// usage error and aborts.
	SizeInBytes() int
}

// InvalidType marks a semantic-error fallback (spec §7): IrGen substitutes
// it for an expression whose type could not be determined, so that lowering
// can keep going without a nil Type.
type InvalidType struct{}

func (*InvalidType) Kind() TypeKind { return KindInvalid }
func (*InvalidType) String() string { return "<invalid>" }
func (*InvalidType) SizeInBytes() int {
	errors.Bug("size of invalid type")
	return 0
}

// BoolType is the single boolean type.
type BoolType struct{}

func (*BoolType) Kind() TypeKind   { return KindBool }
func (*BoolType) String() string   { return "bool" }
func (*BoolType) SizeInBytes() int { return 1 }

// VoidType marks the absence of a value (a function's return type, or a
// CallInst's result when the callee returns void).
type VoidType struct{}

func (*VoidType) Kind() TypeKind { return KindVoid }
func (*VoidType) String() string { return "void" }
func (*VoidType) SizeInBytes() int {
	errors.Bug("size of void type")
	return 0
}

// InferredType marks a surface-level `let x = expr` declaration whose type
// annotation was omitted. genDeclStmt never lets this reach a local's
// type — it takes the type from the lowered initialiser instead — but it
// has to exist as a Type so ast.TypeInferred has somewhere to map to
// inside genType.
type InferredType struct{}

func (*InferredType) Kind() TypeKind { return KindInferred }
func (*InferredType) String() string { return "<inferred>" }
func (*InferredType) SizeInBytes() int {
	errors.Bug("size of inferred type")
	return 0
}

// IntType is a fixed-width integer, signed or unsigned.
type IntType struct {
	BitWidth uint32
	IsSigned bool
}

func (*IntType) Kind() TypeKind { return KindInt }
func (t *IntType) SizeInBytes() int {
	errors.Assert(t.BitWidth%8 == 0, "int bit width %d is not a byte multiple", t.BitWidth)
	return int(t.BitWidth / 8)
}
func (t *IntType) String() string {
	if t.IsSigned {
		return fmt.Sprintf("i%d", t.BitWidth)
	}
	return fmt.Sprintf("u%d", t.BitWidth)
}

// PointerType is a pointer to another type, const or mutable.
type PointerType struct {
	Pointee   Type
	IsMutable bool
}

func (*PointerType) Kind() TypeKind   { return KindPointer }
func (*PointerType) SizeInBytes() int { return 8 }
func (t *PointerType) String() string {
	if t.IsMutable {
		return "*mut " + t.Pointee.String()
	}
	return "*" + t.Pointee.String()
}

// StructType is an ordered tuple of field types. Per SPEC_FULL's Open
// Question resolution, structural identity is by field-*type* sequence
// only — field names are IrGen's concern (its structFields side table),
// not part of the interned type.
type StructType struct {
	Fields []Type
}

func (*StructType) Kind() TypeKind { return KindStruct }
func (t *StructType) SizeInBytes() int {
	size := 0
	for _, f := range t.Fields {
		size += f.SizeInBytes()
	}
	return size
}
func (t *StructType) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FunctionType is a function's signature: a return type and an ordered
// parameter type list.
type FunctionType struct {
	ReturnType Type
	Params     []Type
}

func (*FunctionType) Kind() TypeKind { return KindFunction }
func (*FunctionType) SizeInBytes() int {
	errors.Bug("size of function type")
	return 0
}
func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + "): " + t.ReturnType.String()
}

// intKey and pointerKey are the comparable keys TypeCache interns on;
// StructType/FunctionType intern on a string signature built from their
// already-interned (and therefore pointer-identified) sub-types.
type intKey struct {
	bitWidth uint32
	signed   bool
}

type pointerKey struct {
	pointee   Type
	isMutable bool
}

// TypeCache interns every Type constructed for a Program, so that
// structurally identical types are always the same pointer — the
// precondition every later pass relies on when it compares Types with ==
// (ControlFlowAnalysis never does, but StackPromoter and VarChecker's type
// checks do). Grounded on ir/TypeCache.cc.
type TypeCache struct {
	invalid   *InvalidType
	boolean   *BoolType
	void      *VoidType
	inferred  *InferredType
	ints      map[intKey]*IntType
	pointers  map[pointerKey]*PointerType
	structs   map[string]*StructType
	functions map[string]*FunctionType
}

// NewTypeCache returns an empty cache with the singleton types pre-built.
func NewTypeCache() *TypeCache {
	return &TypeCache{
		invalid:   &InvalidType{},
		boolean:   &BoolType{},
		void:      &VoidType{},
		inferred:  &InferredType{},
		ints:      make(map[intKey]*IntType),
		pointers:  make(map[pointerKey]*PointerType),
		structs:   make(map[string]*StructType),
		functions: make(map[string]*FunctionType),
	}
}

func (c *TypeCache) Invalid() *InvalidType   { return c.invalid }
func (c *TypeCache) Bool() *BoolType         { return c.boolean }
func (c *TypeCache) Void() *VoidType         { return c.void }
func (c *TypeCache) Inferred() *InferredType { return c.inferred }

// GetInt interns (or returns the existing interned) integer type.
func (c *TypeCache) GetInt(bitWidth uint32, isSigned bool) *IntType {
	key := intKey{bitWidth, isSigned}
	if t, ok := c.ints[key]; ok {
		return t
	}
	t := &IntType{BitWidth: bitWidth, IsSigned: isSigned}
	c.ints[key] = t
	return t
}

// GetPointer interns (or returns the existing interned) pointer type.
// pointee must already be an interned Type (obtained from this cache).
func (c *TypeCache) GetPointer(pointee Type, isMutable bool) *PointerType {
	key := pointerKey{pointee, isMutable}
	if t, ok := c.pointers[key]; ok {
		return t
	}
	t := &PointerType{Pointee: pointee, IsMutable: isMutable}
	c.pointers[key] = t
	return t
}

// GetStruct interns (or returns the existing interned) struct type, keyed
// on the ordered sequence of already-interned field types.
func (c *TypeCache) GetStruct(fields []Type) *StructType {
	key := typeSeqKey(fields)
	if t, ok := c.structs[key]; ok {
		return t
	}
	t := &StructType{Fields: append([]Type(nil), fields...)}
	c.structs[key] = t
	return t
}

// GetFunction interns (or returns the existing interned) function type.
func (c *TypeCache) GetFunction(returnType Type, params []Type) *FunctionType {
	key := typeSeqKey(params) + "->" + fmt.Sprintf("%p", returnType)
	if t, ok := c.functions[key]; ok {
		return t
	}
	t := &FunctionType{ReturnType: returnType, Params: append([]Type(nil), params...)}
	c.functions[key] = t
	return t
}

// typeSeqKey builds a string signature from already-interned sub-types'
// addresses; since every sub-type is itself interned, pointer identity is
// exactly type identity, making this a sound structural key.
func typeSeqKey(types []Type) string {
	var b strings.Builder
	for _, t := range types {
		fmt.Fprintf(&b, "%p,", t)
	}
	return b.String()
}
