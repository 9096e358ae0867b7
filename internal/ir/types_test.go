package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeCache_InternsIntByWidthAndSign(t *testing.T) {
	c := NewTypeCache()
	a := c.GetInt(32, true)
	b := c.GetInt(32, true)
	assert.Same(t, a, b)

	u := c.GetInt(32, false)
	assert.NotSame(t, a, u)
	assert.Equal(t, "i32", a.String())
	assert.Equal(t, "u32", u.String())
}

func TestTypeCache_InternsPointerByPointeeAndMutability(t *testing.T) {
	c := NewTypeCache()
	i32 := c.GetInt(32, true)
	p1 := c.GetPointer(i32, true)
	p2 := c.GetPointer(i32, true)
	assert.Same(t, p1, p2)

	p3 := c.GetPointer(i32, false)
	assert.NotSame(t, p1, p3)
}

func TestTypeCache_InternsStructByFieldTypeSequenceOnly(t *testing.T) {
	c := NewTypeCache()
	i32 := c.GetInt(32, true)
	i64 := c.GetInt(64, true)

	s1 := c.GetStruct([]Type{i32, i64})
	s2 := c.GetStruct([]Type{i32, i64})
	assert.Same(t, s1, s2)

	s3 := c.GetStruct([]Type{i64, i32})
	assert.NotSame(t, s1, s3)
}

func TestSizeInBytes(t *testing.T) {
	c := NewTypeCache()
	i32 := c.GetInt(32, true)
	u8 := c.GetInt(8, false)

	assert.Equal(t, 4, i32.SizeInBytes())
	assert.Equal(t, 1, u8.SizeInBytes())
	assert.Equal(t, 1, c.Bool().SizeInBytes())
	assert.Equal(t, 8, c.GetPointer(i32, false).SizeInBytes())
	assert.Equal(t, 5, c.GetStruct([]Type{i32, u8}).SizeInBytes())
}

func TestTypeCache_Singletons(t *testing.T) {
	c := NewTypeCache()
	assert.Same(t, c.Bool(), c.Bool())
	assert.Same(t, c.Void(), c.Void())
	assert.Equal(t, KindVoid, c.Void().Kind())
	assert.Equal(t, KindBool, c.Bool().Kind())
}
