package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantCache_InternsIntPerTypeAndValue(t *testing.T) {
	types := NewTypeCache()
	consts := NewConstantCache()
	i32 := types.GetInt(32, true)

	a := consts.GetInt(i32, 42)
	b := consts.GetInt(i32, 42)
	assert.Same(t, a, b)

	c := consts.GetInt(i32, 43)
	assert.NotSame(t, a, c)
}

func TestConstantCache_InternsStringPerValue(t *testing.T) {
	types := NewTypeCache()
	consts := NewConstantCache()
	u8Ptr := types.GetPointer(types.GetInt(8, false), false)

	a := consts.GetString(u8Ptr, "hello")
	b := consts.GetString(u8Ptr, "hello")
	assert.Same(t, a, b)

	c := consts.GetString(u8Ptr, "world")
	assert.NotSame(t, a, c)
}

func TestConstantCache_StructAndArrayAreNeverInterned(t *testing.T) {
	types := NewTypeCache()
	consts := NewConstantCache()
	i32 := types.GetInt(32, true)
	structType := types.GetStruct([]Type{i32, i32})
	structPtr := types.GetPointer(structType, false)

	elems := []Constant{consts.GetInt(i32, 1), consts.GetInt(i32, 2)}
	a := consts.NewStruct(structPtr, elems)
	b := consts.NewStruct(structPtr, elems)
	assert.NotSame(t, a, b, "ConstantStruct must never be interned, per spec's Constant family")

	elemPtr := types.GetPointer(i32, false)
	c := consts.NewArray(elemPtr, elems)
	d := consts.NewArray(elemPtr, elems)
	assert.NotSame(t, c, d, "ConstantArray must never be interned either")
}

func TestPrintableConstant(t *testing.T) {
	types := NewTypeCache()
	consts := NewConstantCache()
	i32 := types.GetInt(32, true)

	assert.Equal(t, "42", PrintableConstant(consts.GetInt(i32, 42)))
	assert.Equal(t, "null", PrintableConstant(consts.GetNull(types.GetPointer(i32, false))))
	assert.Equal(t, "undef", PrintableConstant(consts.GetUndef(i32)))

	structType := types.GetStruct([]Type{i32, i32})
	structPtr := types.GetPointer(structType, false)
	s := consts.NewStruct(structPtr, []Constant{consts.GetInt(i32, 1), consts.GetInt(i32, 2)})
	assert.Equal(t, "{1, 2}", PrintableConstant(s))
}
