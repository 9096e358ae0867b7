package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/ir"
)

// buildDiamondWithCell builds the same diamond shape as cfa_test.go but adds
// a LocalVar cell stored to on both arms and loaded in the join block, the
// classic mem2reg motivating example.
func buildDiamondWithCell(t *testing.T) (fn *ir.Function, left, right, join *ir.BasicBlock, cell *ir.LocalVar, load *ir.LoadInst) {
	t.Helper()
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	i1 := prog.Types.GetInt(1, false)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, true)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn = prog.AddFunction("f", fnType, false)

	cell = fn.AppendVar(ptrType, i32, true)

	entry := fn.AppendBlock(voidT)
	left = fn.AppendBlock(voidT)
	right = fn.AppendBlock(voidT)
	join = fn.AppendBlock(voidT)

	cond := prog.Constants.GetInt(i1, 1)
	entry.Append(ir.NewCondBranchInst(voidT, 1, cond, left, right))

	one := prog.Constants.GetInt(i32, 1)
	two := prog.Constants.GetInt(i32, 2)
	left.Append(ir.NewStoreInst(voidT, 2, cell, one))
	left.Append(ir.NewBranchInst(voidT, 2, join))
	right.Append(ir.NewStoreInst(voidT, 3, cell, two))
	right.Append(ir.NewBranchInst(voidT, 3, join))

	load = ir.NewLoadInst(i32, 4, cell)
	join.Append(load)
	join.Append(ir.NewRetInst(voidT, 4, load))

	return fn, left, right, join, cell, load
}

func TestBuildReachingDefAnalysis_PlacesMemoryPhiAtJoin(t *testing.T) {
	fn, left, right, join, cell, load := buildDiamondWithCell(t)
	rda := BuildReachingDefAnalysis(fn)

	phis := rda.MemoryPhis(join)
	require.Len(t, phis, 1)
	phi := phis[0]
	assert.Same(t, cell, phi.Cell)

	leftVal, ok := phi.Incoming(left)
	require.True(t, ok)
	assert.Equal(t, int64(1), leftVal.(*ir.ConstantInt).IntValue)

	rightVal, ok := phi.Incoming(right)
	require.True(t, ok)
	assert.Equal(t, int64(2), rightVal.(*ir.ConstantInt).IntValue)

	assert.Same(t, phi, rda.ReachingDef(load))
}

func TestBuildReachingDefAnalysis_ReachingValuesExpandsPhiOneLevel(t *testing.T) {
	fn, _, _, _, _, load := buildDiamondWithCell(t)
	rda := BuildReachingDefAnalysis(fn)

	values := rda.ReachingValues(load)
	require.Len(t, values, 2)
	var nums []int64
	for _, v := range values {
		nums = append(nums, v.(*ir.ConstantInt).IntValue)
	}
	assert.ElementsMatch(t, []int64{1, 2}, nums)
}

func TestBuildReachingDefAnalysis_NoStoreYieldsNilReachingDef(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, true)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("g", fnType, false)

	cell := fn.AppendVar(ptrType, i32, true)
	entry := fn.AppendBlock(voidT)
	load := ir.NewLoadInst(i32, 1, cell)
	entry.Append(load)
	entry.Append(ir.NewRetInst(voidT, 1, load))

	rda := BuildReachingDefAnalysis(fn)
	assert.Nil(t, rda.ReachingDef(load))
	assert.Equal(t, []ir.Value{nil}, rda.ReachingValues(load))
}

func TestBuildReachingDefAnalysis_StoreThroughDerivedPointerIsNotACell(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	structType := prog.Types.GetStruct([]ir.Type{i32, i32})
	structPtrType := prog.Types.GetPointer(structType, true)
	fieldPtrType := prog.Types.GetPointer(i32, true)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("h", fnType, false)

	s := fn.AppendVar(structPtrType, structType, true)
	entry := fn.AppendBlock(voidT)
	idx := prog.Constants.GetInt(i32, 0)
	lea := ir.NewLeaInst(fieldPtrType, 1, s, []ir.Value{idx})
	entry.Append(lea)
	val := prog.Constants.GetInt(i32, 9)
	entry.Append(ir.NewStoreInst(voidT, 1, lea, val))
	entry.Append(ir.NewRetInst(voidT, 1, nil))

	rda := BuildReachingDefAnalysis(fn)
	assert.Empty(t, rda.MemoryPhis(entry))
}
