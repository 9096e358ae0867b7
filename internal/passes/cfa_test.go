package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/ir"
)

// buildDiamond builds entry -> {left, right} -> join, the canonical fixture
// for dominator-tree and dominance-frontier tests.
func buildDiamond(t *testing.T) (fn *ir.Function, entry, left, right, join *ir.BasicBlock) {
	t.Helper()
	prog := ir.NewProgram()
	i1 := prog.Types.GetInt(1, false)
	voidT := prog.Types.Void()
	fnType := prog.Types.GetFunction(voidT, nil)
	fn = prog.AddFunction("f", fnType, false)

	entry = fn.AppendBlock(voidT)
	left = fn.AppendBlock(voidT)
	right = fn.AppendBlock(voidT)
	join = fn.AppendBlock(voidT)

	cond := prog.Constants.GetInt(i1, 1)
	entry.Append(ir.NewCondBranchInst(voidT, 1, cond, left, right))
	left.Append(ir.NewBranchInst(voidT, 2, join))
	right.Append(ir.NewBranchInst(voidT, 3, join))
	join.Append(ir.NewRetInst(voidT, 4, nil))

	return fn, entry, left, right, join
}

func TestBuildControlFlowAnalysis_DiamondEdges(t *testing.T) {
	fn, entry, left, right, join := buildDiamond(t)
	cfa := BuildControlFlowAnalysis(fn)

	assert.ElementsMatch(t, []*ir.BasicBlock{left, right}, cfa.Succs(entry))
	assert.ElementsMatch(t, []*ir.BasicBlock{entry}, cfa.Preds(left))
	assert.ElementsMatch(t, []*ir.BasicBlock{entry}, cfa.Preds(right))
	assert.ElementsMatch(t, []*ir.BasicBlock{left, right}, cfa.Preds(join))
}

func TestBuildControlFlowAnalysis_DiamondDominators(t *testing.T) {
	fn, entry, left, right, join := buildDiamond(t)
	cfa := BuildControlFlowAnalysis(fn)

	assert.Nil(t, cfa.Idom(entry))
	assert.Same(t, entry, cfa.Idom(left))
	assert.Same(t, entry, cfa.Idom(right))
	assert.Same(t, entry, cfa.Idom(join), "join is only dominated by entry, not by either arm")

	assert.True(t, cfa.Dominates(entry, join))
	assert.False(t, cfa.Dominates(left, join))
	assert.False(t, cfa.Dominates(right, join))
}

func TestBuildControlFlowAnalysis_DiamondDominanceFrontiers(t *testing.T) {
	fn, entry, left, right, join := buildDiamond(t)
	cfa := BuildControlFlowAnalysis(fn)

	assert.ElementsMatch(t, []*ir.BasicBlock{join}, cfa.Frontiers(left))
	assert.ElementsMatch(t, []*ir.BasicBlock{join}, cfa.Frontiers(right))
	assert.Empty(t, cfa.Frontiers(entry))
	assert.Empty(t, cfa.Frontiers(join))
}

func TestBuildControlFlowAnalysis_LinearChainHasNoFrontiers(t *testing.T) {
	prog := ir.NewProgram()
	voidT := prog.Types.Void()
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("g", fnType, false)

	a := fn.AppendBlock(voidT)
	b := fn.AppendBlock(voidT)
	c := fn.AppendBlock(voidT)
	a.Append(ir.NewBranchInst(voidT, 1, b))
	b.Append(ir.NewBranchInst(voidT, 2, c))
	c.Append(ir.NewRetInst(voidT, 3, nil))

	cfa := BuildControlFlowAnalysis(fn)
	require.Same(t, a, cfa.Entry())
	assert.Equal(t, []*ir.BasicBlock{a, b, c}, cfa.ReversePostorder())
	assert.Empty(t, cfa.Frontiers(a))
	assert.Empty(t, cfa.Frontiers(b))
	assert.Empty(t, cfa.Frontiers(c))
}
