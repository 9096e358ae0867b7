package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/errors"
	"kodo/internal/ir"
	"kodo/internal/pass"
)

func newReporter() *errors.ErrorReporter {
	return errors.NewErrorReporter("t.kodo", "")
}

func TestVarChecker_SecondDirectStoreToImmutableLocalIsAnError(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, false)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("f", fnType, false)

	cell := fn.AppendVar(ptrType, i32, false)
	cell.SetName("x")
	entry := fn.AppendBlock(voidT)
	one := prog.Constants.GetInt(i32, 1)
	two := prog.Constants.GetInt(i32, 2)
	entry.Append(ir.NewStoreInst(voidT, 1, cell, one))
	entry.Append(ir.NewStoreInst(voidT, 2, cell, two))
	entry.Append(ir.NewRetInst(voidT, 3, nil))

	reporter := newReporter()
	checker := &VarChecker{Reporter: reporter}
	checker.checkImmutability(fn)

	assert.True(t, reporter.HadError())
}

func TestVarChecker_SingleStoreToImmutableLocalIsFine(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, false)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("f", fnType, false)

	cell := fn.AppendVar(ptrType, i32, false)
	cell.SetName("x")
	entry := fn.AppendBlock(voidT)
	one := prog.Constants.GetInt(i32, 1)
	entry.Append(ir.NewStoreInst(voidT, 1, cell, one))
	entry.Append(ir.NewRetInst(voidT, 2, nil))

	reporter := newReporter()
	checker := &VarChecker{Reporter: reporter}
	checker.checkImmutability(fn)

	assert.False(t, reporter.HadError())
}

func TestVarChecker_MutableLocalAllowsRepeatedStores(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, true)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("f", fnType, false)

	cell := fn.AppendVar(ptrType, i32, true)
	cell.SetName("x")
	entry := fn.AppendBlock(voidT)
	one := prog.Constants.GetInt(i32, 1)
	two := prog.Constants.GetInt(i32, 2)
	entry.Append(ir.NewStoreInst(voidT, 1, cell, one))
	entry.Append(ir.NewStoreInst(voidT, 2, cell, two))
	entry.Append(ir.NewRetInst(voidT, 3, nil))

	reporter := newReporter()
	checker := &VarChecker{Reporter: reporter}
	checker.checkImmutability(fn)

	assert.False(t, reporter.HadError())
}

func TestVarChecker_StoreThroughNonMutablePointerIsAnError(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	nonMutPtr := prog.Types.GetPointer(i32, false)
	argPtrType := prog.Types.GetPointer(nonMutPtr, true)
	fnType := prog.Types.GetFunction(voidT, []ir.Type{nonMutPtr})
	fn := prog.AddFunction("f", fnType, false)

	arg := fn.AppendVar(argPtrType, nonMutPtr, true)
	arg.SetName("p")
	entry := fn.AppendBlock(voidT)
	loaded := ir.NewLoadInst(nonMutPtr, 1, arg)
	entry.Append(loaded)
	val := prog.Constants.GetInt(i32, 5)
	entry.Append(ir.NewStoreInst(voidT, 2, loaded, val))
	entry.Append(ir.NewRetInst(voidT, 3, nil))

	reporter := newReporter()
	checker := &VarChecker{Reporter: reporter}
	checker.checkImmutability(fn)

	assert.True(t, reporter.HadError())
}

func TestVarChecker_LoadWithNoReachingStoreIsUninitializedUse(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, true)
	fnType := prog.Types.GetFunction(i32, nil)
	fn := prog.AddFunction("f", fnType, false)

	cell := fn.AppendVar(ptrType, i32, true)
	cell.SetName("x")
	entry := fn.AppendBlock(voidT)
	load := ir.NewLoadInst(i32, 1, cell)
	entry.Append(load)
	entry.Append(ir.NewRetInst(voidT, 2, load))

	reporter := newReporter()
	rda := BuildReachingDefAnalysis(fn)
	checker := &VarChecker{Reporter: reporter}
	checker.checkUninitializedUse(fn, rda)

	assert.True(t, reporter.HadError())
}

func TestVarChecker_LoadAfterStoreIsNotUninitialized(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	ptrType := prog.Types.GetPointer(i32, true)
	fnType := prog.Types.GetFunction(i32, nil)
	fn := prog.AddFunction("f", fnType, false)

	cell := fn.AppendVar(ptrType, i32, true)
	cell.SetName("x")
	entry := fn.AppendBlock(voidT)
	val := prog.Constants.GetInt(i32, 3)
	entry.Append(ir.NewStoreInst(voidT, 1, cell, val))
	load := ir.NewLoadInst(i32, 2, cell)
	entry.Append(load)
	entry.Append(ir.NewRetInst(voidT, 3, load))

	reporter := newReporter()
	rda := BuildReachingDefAnalysis(fn)
	checker := &VarChecker{Reporter: reporter}
	checker.checkUninitializedUse(fn, rda)

	assert.False(t, reporter.HadError())
}

func TestVarChecker_StructTypedLocalsAreExemptFromUninitializedCheck(t *testing.T) {
	prog := ir.NewProgram()
	i32 := prog.Types.GetInt(32, true)
	voidT := prog.Types.Void()
	structType := prog.Types.GetStruct([]ir.Type{i32, i32})
	ptrType := prog.Types.GetPointer(structType, true)
	fnType := prog.Types.GetFunction(voidT, nil)
	fn := prog.AddFunction("f", fnType, false)

	cell := fn.AppendVar(ptrType, structType, true)
	cell.SetName("p")
	entry := fn.AppendBlock(voidT)
	load := ir.NewLoadInst(structType, 1, cell)
	entry.Append(load)
	entry.Append(ir.NewRetInst(voidT, 2, nil))

	reporter := newReporter()
	rda := BuildReachingDefAnalysis(fn)
	checker := &VarChecker{Reporter: reporter}
	checker.checkUninitializedUse(fn, rda)

	assert.False(t, reporter.HadError())
}

func TestVarChecker_RunFunctionViaPassManagerRunsBothChecks(t *testing.T) {
	fn, _, _, _, _, _ := buildDiamondWithCell(t)
	reporter := newReporter()
	checker := &VarChecker{Reporter: reporter}

	pm := pass.NewPassManager()
	pm.Register(checker)
	require.NoError(t, pm.Run(fn.Program))

	assert.False(t, reporter.HadError(), "both stores/loads in the diamond fixture are well-formed")
}
