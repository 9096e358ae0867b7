package ir

import (
	"fmt"
	"strings"
)

// ConstantKind tags the concrete constant shape, mirroring ir::ConstantKind
// in Constant.hh (Array/Int/Null/String/Struct, plus Undef which the
// original represents as a nil Value rather than a real type — SPEC_FULL
// makes Undef an explicit constant kind instead, since spec §3 names it as
// a first-class member of the Constant family).
type ConstantKind int

const (
	ConstantInt_ ConstantKind = iota
	ConstantNull_
	ConstantString_
	ConstantStruct_
	ConstantArray_
	ConstantUndef_
)

// Constant is implemented by every constant value. Per spec §3, Int/Null/
// String constants are interned (pointer equality for equal content);
// Struct/Array constants are not (one instance per construction site).
type Constant interface {
	Value
	ConstantKind() ConstantKind
}

// ConstantInt is an integer constant. Interned per (type, value) by
// Program's constant cache.
type ConstantInt struct {
	ValueBase
	IntValue int64
}

func (c *ConstantInt) ConstantKind() ConstantKind { return ConstantInt_ }
func (c *ConstantInt) ReplaceUsesOfWith(Value, Value) {}

// ConstantNull is the single null-pointer constant, interned per pointer
// type (its type determines which pointer it denotes).
type ConstantNull struct {
	ValueBase
}

func (c *ConstantNull) ConstantKind() ConstantKind   { return ConstantNull_ }
func (c *ConstantNull) ReplaceUsesOfWith(Value, Value) {}

// ConstantString is a byte-string constant, typed as a pointer to u8.
// Interned per distinct string value.
type ConstantString struct {
	ValueBase
	StringValue string
}

func (c *ConstantString) ConstantKind() ConstantKind    { return ConstantString_ }
func (c *ConstantString) ReplaceUsesOfWith(Value, Value) {}

// ConstantStruct packages field values under a struct type, typed as a
// (non-mutable) pointer to that StructType, mirroring the original's
// ConstantStruct::type() == PointerType::get(struct_type, false). Never
// interned — "one per creation site" (spec §3).
type ConstantStruct struct {
	ValueBase
	Elems []Constant
}

func (c *ConstantStruct) ConstantKind() ConstantKind { return ConstantStruct_ }

func (c *ConstantStruct) StructType() *StructType {
	return c.Type().(*PointerType).Pointee.(*StructType)
}

func (c *ConstantStruct) ReplaceUsesOfWith(orig, repl Value) {
	for i, e := range c.Elems {
		if Value(e) != orig {
			continue
		}
		rc, ok := repl.(Constant)
		if !ok {
			continue
		}
		e.RemoveUser(c)
		c.Elems[i] = rc
		rc.AddUser(c)
	}
}

// ConstantArray packages a homogeneous sequence of element constants,
// typed as a pointer to the common element type (the array's length is
// simply len(Elems), following the same typing trick as ConstantStruct
// since spec §3 names Array without introducing a dedicated ArrayType).
// Never interned.
type ConstantArray struct {
	ValueBase
	Elems []Constant
}

func (c *ConstantArray) ConstantKind() ConstantKind { return ConstantArray_ }

func (c *ConstantArray) ElementType() Type {
	return c.Type().(*PointerType).Pointee
}

func (c *ConstantArray) ReplaceUsesOfWith(orig, repl Value) {
	for i, e := range c.Elems {
		if Value(e) != orig {
			continue
		}
		rc, ok := repl.(Constant)
		if !ok {
			continue
		}
		e.RemoveUser(c)
		c.Elems[i] = rc
		rc.AddUser(c)
	}
}

// ConstantUndef denotes an uninitialized value of a given type — produced
// by StackPromoter for a promoted load that no definition reaches
// (ReachingDefAnalysis itself records nil there), and checked for by
// VarChecker's uninitialized-use pass. Interned per type.
type ConstantUndef struct {
	ValueBase
}

func (c *ConstantUndef) ConstantKind() ConstantKind    { return ConstantUndef_ }
func (c *ConstantUndef) ReplaceUsesOfWith(Value, Value) {}

func newConstantBase(kind ValueKind, typ Type) ValueBase {
	var vb ValueBase
	vb.init(kind, typ)
	return vb
}

// ConstantCache interns Int/Null/String/Undef constants per-Program, per
// SPEC_FULL's redesign decision (spec §9/line 276): interning lives on
// Program, not as the original's process-wide globals, so compilation is
// re-entrant.
type ConstantCache struct {
	ints   map[constIntKey]*ConstantInt
	nulls  map[Type]*ConstantNull
	strs   map[string]*ConstantString
	undefs map[Type]*ConstantUndef
}

type constIntKey struct {
	typ   Type
	value int64
}

// NewConstantCache returns an empty constant cache.
func NewConstantCache() *ConstantCache {
	return &ConstantCache{
		ints:   make(map[constIntKey]*ConstantInt),
		nulls:  make(map[Type]*ConstantNull),
		strs:   make(map[string]*ConstantString),
		undefs: make(map[Type]*ConstantUndef),
	}
}

// GetInt interns (or returns the existing interned) int constant.
func (c *ConstantCache) GetInt(typ Type, value int64) *ConstantInt {
	key := constIntKey{typ, value}
	if v, ok := c.ints[key]; ok {
		return v
	}
	v := &ConstantInt{ValueBase: newConstantBase(KindConstantValue, typ), IntValue: value}
	c.ints[key] = v
	return v
}

// GetNull interns (or returns the existing interned) null constant for a
// pointer type.
func (c *ConstantCache) GetNull(ptrType Type) *ConstantNull {
	if v, ok := c.nulls[ptrType]; ok {
		return v
	}
	v := &ConstantNull{ValueBase: newConstantBase(KindConstantValue, ptrType)}
	c.nulls[ptrType] = v
	return v
}

// GetString interns (or returns the existing interned) string constant,
// typed as a pointer to u8.
func (c *ConstantCache) GetString(u8PtrType Type, value string) *ConstantString {
	if v, ok := c.strs[value]; ok {
		return v
	}
	v := &ConstantString{ValueBase: newConstantBase(KindConstantValue, u8PtrType), StringValue: value}
	c.strs[value] = v
	return v
}

// GetUndef interns (or returns the existing interned) undef constant of a
// type.
func (c *ConstantCache) GetUndef(typ Type) *ConstantUndef {
	if v, ok := c.undefs[typ]; ok {
		return v
	}
	v := &ConstantUndef{ValueBase: newConstantBase(KindConstantValue, typ)}
	c.undefs[typ] = v
	return v
}

// NewStruct always allocates a fresh, uninterned struct constant.
func (c *ConstantCache) NewStruct(structPtrType Type, elems []Constant) *ConstantStruct {
	s := &ConstantStruct{ValueBase: newConstantBase(KindConstantValue, structPtrType), Elems: append([]Constant(nil), elems...)}
	for _, e := range elems {
		e.AddUser(s)
	}
	return s
}

// NewArray always allocates a fresh, uninterned array constant.
func (c *ConstantCache) NewArray(elemPtrType Type, elems []Constant) *ConstantArray {
	a := &ConstantArray{ValueBase: newConstantBase(KindConstantValue, elemPtrType), Elems: append([]Constant(nil), elems...)}
	for _, e := range elems {
		e.AddUser(a)
	}
	return a
}

// PrintableConstant renders a constant's value the way ir/Dumper.cc does
// (printable_constant): used by the textual printer, never by diagnostics.
func PrintableConstant(c Constant) string {
	switch c.ConstantKind() {
	case ConstantInt_:
		return fmt.Sprintf("%d", c.(*ConstantInt).IntValue)
	case ConstantNull_:
		return "null"
	case ConstantString_:
		return c.(*ConstantString).StringValue
	case ConstantUndef_:
		return "undef"
	case ConstantStruct_:
		s := c.(*ConstantStruct)
		parts := make([]string, len(s.Elems))
		for i, e := range s.Elems {
			parts[i] = PrintableConstant(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ConstantArray_:
		a := c.(*ConstantArray)
		parts := make([]string, len(a.Elems))
		for i, e := range a.Elems {
			parts[i] = PrintableConstant(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<unknown constant>"
	}
}
