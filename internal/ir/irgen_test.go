package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/ast"
	"kodo/internal/errors"
)

func i32AstType() ast.Type { return ast.Type{Kind: ast.TypeBase, Base: "i32"} }
func voidAstType() ast.Type { return ast.Type{Kind: ast.TypeBase, Base: "void"} }
func boolAstType() ast.Type { return ast.Type{Kind: ast.TypeBase, Base: "bool"} }

func TestGenIR_ArgumentsLowerToShadowLocalsAndReturnAdds(t *testing.T) {
	addExpr := ast.NewBinExpr(1, ast.BinAdd, ast.NewSymbol(1, "x"), ast.NewSymbol(1, "y"))
	retStmt := ast.NewRetStmt(1, addExpr)
	body := ast.NewBlock(1, []ast.Node{retStmt})

	args := []*ast.FunctionArg{
		ast.NewFunctionArg(1, "x", i32AstType(), false),
		ast.NewFunctionArg(1, "y", i32AstType(), false),
	}
	fd := ast.NewFunctionDecl(1, "add", false, args, i32AstType(), body)
	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)

	prog := GenIR(root, nil)
	fn, ok := prog.LookupFunction("add")
	require.True(t, ok)

	assert.Len(t, fn.Args, 2)
	require.Len(t, fn.Vars, 2)
	assert.Equal(t, "x", fn.Vars[0].Name())
	assert.Equal(t, "y", fn.Vars[1].Name())

	entry := fn.Entry()
	require.NotNil(t, entry)
	insts := entry.Instructions()

	// store x, store y, load x, load y, add, ret
	require.Len(t, insts, 6)
	assert.Equal(t, InstStore, insts[0].InstKind())
	assert.Equal(t, InstStore, insts[1].InstKind())
	assert.Equal(t, InstLoad, insts[2].InstKind())
	assert.Equal(t, InstLoad, insts[3].InstKind())
	assert.Equal(t, InstBinary, insts[4].InstKind())
	assert.Equal(t, InstRet, insts[5].InstKind())
	assert.True(t, insts[5].IsTerminator())
}

func TestGenIR_IfStmtFusesJoinAndFallthrough(t *testing.T) {
	cond := ast.NewBinExpr(1, ast.BinLessThan, ast.NewNumLit(1, 1), ast.NewNumLit(1, 2))
	innerRet := ast.NewRetStmt(1, nil)
	ifStmt := ast.NewIfStmt(1, cond, ast.NewBlock(1, []ast.Node{innerRet}))
	body := ast.NewBlock(1, []ast.Node{ifStmt})

	fd := ast.NewFunctionDecl(1, "maybe", false, nil, voidAstType(), body)
	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)

	prog := GenIR(root, nil)
	fn, ok := prog.LookupFunction("maybe")
	require.True(t, ok)
	require.Len(t, fn.Blocks, 3)

	entry := fn.Blocks[0]
	trueBlock := fn.Blocks[1]
	joinBlock := fn.Blocks[2]

	condBr, ok := entry.Terminator().(*CondBranchInst)
	require.True(t, ok)
	assert.Same(t, trueBlock, condBr.TrueDst())
	assert.Same(t, joinBlock, condBr.FalseDst())

	_, isRet := trueBlock.Terminator().(*RetInst)
	assert.True(t, isRet, "the if's own block should end in the explicit return, not fall through")

	_, joinIsRet := joinBlock.Terminator().(*RetInst)
	assert.True(t, joinIsRet, "a void function's last block gets an implicit ret void")
}

func TestSmallestSignedWidth(t *testing.T) {
	cases := []struct {
		value int64
		width uint32
	}{
		{0, 8},
		{127, 8},
		{128, 16},
		{-5, 8},
		{200, 16},
		{40000, 32},
	}
	for _, c := range cases {
		assert.Equal(t, c.width, smallestSignedWidth(c.value), "value %d", c.value)
	}
}

func TestSelectCastOp(t *testing.T) {
	types := NewTypeCache()
	i8 := types.GetInt(8, true)
	i32 := types.GetInt(32, true)
	u32 := types.GetInt(32, false)
	ptr := types.GetPointer(i32, false)
	otherPtr := types.GetPointer(u32, false)

	op, ok := selectCastOp(i8, i32)
	require.True(t, ok)
	assert.Equal(t, CastSignExtend, op)

	op, ok = selectCastOp(types.GetInt(8, false), u32)
	require.True(t, ok)
	assert.Equal(t, CastZeroExtend, op)

	op, ok = selectCastOp(i32, i8)
	require.True(t, ok)
	assert.Equal(t, CastTruncate, op)

	op, ok = selectCastOp(i32, ptr)
	require.True(t, ok)
	assert.Equal(t, CastIntToPtr, op)

	op, ok = selectCastOp(ptr, i32)
	require.True(t, ok)
	assert.Equal(t, CastPtrToInt, op)

	op, ok = selectCastOp(ptr, otherPtr)
	require.True(t, ok)
	assert.Equal(t, CastReinterpret, op)
}

func TestGenIR_MemberAccessLowersToZeroPrefixedLeaPlusLoad(t *testing.T) {
	structType := ast.Type{Kind: ast.TypeStruct, StructField: []ast.StructField{
		{Name: "a", Type: i32AstType()},
		{Name: "b", Type: i32AstType()},
	}}
	typeDecl := ast.NewTypeDecl(1, "P", structType)

	pType := ast.Type{Kind: ast.TypePointer, Pointee: &ast.Type{Kind: ast.TypeBase, Base: "P"}}
	memberA := ast.NewMemberExpr(1, ast.NewSymbol(1, "p"), ast.NewSymbol(1, "a"))
	memberB := ast.NewMemberExpr(1, ast.NewSymbol(1, "p"), ast.NewSymbol(1, "b"))
	add := ast.NewBinExpr(1, ast.BinAdd, memberA, memberB)
	body := ast.NewBlock(1, []ast.Node{ast.NewRetStmt(1, add)})

	args := []*ast.FunctionArg{ast.NewFunctionArg(1, "p", pType, false)}
	fd := ast.NewFunctionDecl(1, "f", false, args, i32AstType(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, typeDecl, fd)

	prog := GenIR(root, nil)
	fn, ok := prog.LookupFunction("f")
	require.True(t, ok)

	insts := fn.Entry().Instructions()
	// store p, lea, load, lea, load, add, ret
	require.Len(t, insts, 7)
	leaA, ok := insts[1].(*LeaInst)
	require.True(t, ok)
	_, ok = insts[2].(*LoadInst)
	require.True(t, ok)
	leaB, ok := insts[3].(*LeaInst)
	require.True(t, ok)

	for fieldIdx, lea := range []*LeaInst{leaA, leaB} {
		require.Len(t, lea.Indices(), 2)
		zero := lea.Indices()[0].(*ConstantInt)
		idx := lea.Indices()[1].(*ConstantInt)
		assert.Equal(t, int64(0), zero.IntValue)
		assert.Equal(t, int64(fieldIdx), idx.IntValue)
		assert.False(t, zero.Type().(*IntType).IsSigned, "lea indices are u32")
	}
	assert.Same(t, fn.Vars[0], leaA.Ptr(), "the lea indexes straight off the shadow slot, no pointer unwrap load")
}

func TestGenIR_RedeclarationInSameScopeIsReported(t *testing.T) {
	declA := ast.NewDeclStmt(1, "x", i32AstType(), ast.NewNumLit(1, 1), false)
	declB := ast.NewDeclStmt(2, "x", i32AstType(), ast.NewNumLit(2, 2), false)
	body := ast.NewBlock(1, []ast.Node{declA, declB, ast.NewRetStmt(3, nil)})
	fd := ast.NewFunctionDecl(1, "f", false, nil, voidAstType(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)

	reporter := errors.NewErrorReporter("t.kodo", "")
	prog := GenIR(root, reporter)
	assert.True(t, reporter.HadError())

	fn, ok := prog.LookupFunction("f")
	require.True(t, ok)
	assert.Len(t, fn.Vars, 1, "the second declaration allocates no slot")
}

func TestGenConstructExpr_ConstantFieldsProduceInternedlessConstantStruct(t *testing.T) {
	pointStructType := ast.Type{Kind: ast.TypeStruct, StructField: []ast.StructField{
		{Name: "x", Type: i32AstType()},
		{Name: "y", Type: i32AstType()},
	}}
	typeDecl := ast.NewTypeDecl(1, "Point", pointStructType)

	construct := ast.NewConstructExpr(1, "Point", []ast.Node{ast.NewNumLit(1, 1), ast.NewNumLit(1, 2)})
	decl := ast.NewDeclStmt(1, "p", ast.Type{Kind: ast.TypeInferred}, construct, false)
	body := ast.NewBlock(1, []ast.Node{decl, ast.NewRetStmt(1, nil)})
	fd := ast.NewFunctionDecl(1, "make", false, nil, voidAstType(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, typeDecl, fd)

	prog := GenIR(root, nil)
	fn, ok := prog.LookupFunction("make")
	require.True(t, ok)

	// the ConstantStruct initializer is broken up field-wise:
	// lea (0,0), store 1, lea (0,1), store 2, ret void
	insts := fn.Entry().Instructions()
	require.Len(t, insts, 5)
	for i := 0; i < 2; i++ {
		lea, ok := insts[2*i].(*LeaInst)
		require.True(t, ok)
		require.Len(t, lea.Indices(), 2)
		assert.Equal(t, int64(i), lea.Indices()[1].(*ConstantInt).IntValue)
		store, ok := insts[2*i+1].(*StoreInst)
		require.True(t, ok)
		assert.Same(t, lea, store.Ptr())
	}
	_, ok = insts[4].(*RetInst)
	assert.True(t, ok)
}
