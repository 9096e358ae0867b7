package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDump_SimpleFunction(t *testing.T) {
	prog := NewProgram()
	i32 := prog.Types.GetInt(32, true)
	fnType := prog.Types.GetFunction(i32, nil)
	fn := prog.AddFunction("main", fnType, false)

	ptrType := prog.Types.GetPointer(i32, false)
	local := fn.AppendVar(ptrType, i32, false)
	local.SetName("x")

	block := fn.AppendBlock(prog.Types.Void())
	five := prog.Constants.GetInt(i32, 5)

	store := NewStoreInst(prog.Types.Void(), 1, local, five)
	block.Append(store)
	load := NewLoadInst(i32, 2, local)
	block.Append(load)
	ret := NewRetInst(prog.Types.Void(), 3, load)
	block.Append(ret)

	want := "fn @main(): i32 {\n" +
		"  let %s0: i32\n" +
		"  L0 {\n" +
		"    store %s0, i32 5\n" +
		"    %v0 = load %s0\n" +
		"    ret %v0\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, want, Dump(fn))
}

func TestDump_ExternedFunctionHasNoBody(t *testing.T) {
	prog := NewProgram()
	i32 := prog.Types.GetInt(32, true)
	fnType := prog.Types.GetFunction(prog.Types.Void(), []Type{i32})
	fn := prog.AddFunction("puts", fnType, true)
	fn.AppendArg(i32, false)

	assert.Equal(t, "fn @puts(let %v0: i32);\n", Dump(fn))
}
