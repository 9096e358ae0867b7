package main

import "kodo/internal/ast"

// A fixture pairs a Root the driver would normally get from the front
// end with the source text that would have produced it, purely for the
// error reporter's caret rendering. Mirrors spec §8's end-to-end
// scenarios one-for-one.
type fixture struct {
	name   string
	source string
	build  func() *ast.Root
}

var fixtures = []fixture{
	{"const-add", "fn main(): i32 { return 1 + 2; }", buildConstAdd},
	{"local-var", "fn f(): i32 { let x: i32 = 5; return x; }", buildLocalVar},
	{"if-return", "fn g(var x: i32): i32 { if (x < 0) { return 0; } return x; }", buildIfReturn},
	{"phi-via-if", "fn h(var x: i32, var y: i32): i32 { var z: i32 = x; if (y > 0) { z = y; } return z; }", buildPhiViaIf},
	{"struct-member", "type P = struct { a: i32; b: i32; } fn f(let p: *P): i32 { return p.a + p.b; }", buildStructMember},
	{"immutability-violation", "fn f() { let x: i32 = 0; x = 1; }", buildImmutabilityViolation},
}

func lookupFixture(name string) *fixture {
	for i := range fixtures {
		if fixtures[i].name == name {
			return &fixtures[i]
		}
	}
	return nil
}

func i32Type() ast.Type  { return ast.Type{Kind: ast.TypeBase, Base: "i32"} }
func voidType() ast.Type { return ast.Type{Kind: ast.TypeBase, Base: "void"} }

// buildConstAdd: fn main(): i32 { return 1 + 2; }
func buildConstAdd() *ast.Root {
	add := ast.NewBinExpr(1, ast.BinAdd, ast.NewNumLit(1, 1), ast.NewNumLit(1, 2))
	body := ast.NewBlock(1, []ast.Node{ast.NewRetStmt(1, add)})
	fd := ast.NewFunctionDecl(1, "main", false, nil, i32Type(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)
	return root
}

// buildLocalVar: fn f(): i32 { let x: i32 = 5; return x; }
func buildLocalVar() *ast.Root {
	decl := ast.NewDeclStmt(1, "x", i32Type(), ast.NewNumLit(1, 5), false)
	ret := ast.NewRetStmt(1, ast.NewSymbol(1, "x"))
	body := ast.NewBlock(1, []ast.Node{decl, ret})
	fd := ast.NewFunctionDecl(1, "f", false, nil, i32Type(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)
	return root
}

// buildIfReturn: fn g(var x: i32): i32 { if (x < 0) { return 0; } return x; }
func buildIfReturn() *ast.Root {
	cond := ast.NewBinExpr(1, ast.BinLessThan, ast.NewSymbol(1, "x"), ast.NewNumLit(1, 0))
	ifStmt := ast.NewIfStmt(1, cond, ast.NewBlock(1, []ast.Node{ast.NewRetStmt(1, ast.NewNumLit(1, 0))}))
	tailRet := ast.NewRetStmt(1, ast.NewSymbol(1, "x"))
	body := ast.NewBlock(1, []ast.Node{ifStmt, tailRet})

	args := []*ast.FunctionArg{ast.NewFunctionArg(1, "x", i32Type(), true)}
	fd := ast.NewFunctionDecl(1, "g", false, args, i32Type(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)
	return root
}

// buildPhiViaIf: fn h(var x: i32, var y: i32): i32 { var z: i32 = x; if (y > 0) { z = y; } return z; }
func buildPhiViaIf() *ast.Root {
	declZ := ast.NewDeclStmt(1, "z", i32Type(), ast.NewSymbol(1, "x"), true)
	assignZ := ast.NewAssignExpr(1, ast.NewSymbol(1, "z"), ast.NewSymbol(1, "y"))
	cond := ast.NewBinExpr(1, ast.BinGreaterThan, ast.NewSymbol(1, "y"), ast.NewNumLit(1, 0))
	ifStmt := ast.NewIfStmt(1, cond, ast.NewBlock(1, []ast.Node{assignZ}))
	ret := ast.NewRetStmt(1, ast.NewSymbol(1, "z"))
	body := ast.NewBlock(1, []ast.Node{declZ, ifStmt, ret})

	args := []*ast.FunctionArg{
		ast.NewFunctionArg(1, "x", i32Type(), true),
		ast.NewFunctionArg(1, "y", i32Type(), true),
	}
	fd := ast.NewFunctionDecl(1, "h", false, args, i32Type(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)
	return root
}

// buildStructMember: type P = struct { a: i32; b: i32; }
// fn f(let p: *P): i32 { return p.a + p.b; }
func buildStructMember() *ast.Root {
	structType := ast.Type{Kind: ast.TypeStruct, StructField: []ast.StructField{
		{Name: "a", Type: i32Type()},
		{Name: "b", Type: i32Type()},
	}}
	typeDecl := ast.NewTypeDecl(1, "P", structType)

	pType := ast.Type{Kind: ast.TypePointer, Pointee: &ast.Type{Kind: ast.TypeBase, Base: "P"}}
	memberA := ast.NewMemberExpr(1, ast.NewSymbol(1, "p"), ast.NewSymbol(1, "a"))
	memberB := ast.NewMemberExpr(1, ast.NewSymbol(1, "p"), ast.NewSymbol(1, "b"))
	add := ast.NewBinExpr(1, ast.BinAdd, memberA, memberB)
	body := ast.NewBlock(1, []ast.Node{ast.NewRetStmt(1, add)})

	args := []*ast.FunctionArg{ast.NewFunctionArg(1, "p", pType, false)}
	fd := ast.NewFunctionDecl(1, "f", false, args, i32Type(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, typeDecl, fd)
	return root
}

// buildImmutabilityViolation: fn f() { let x: i32 = 0; x = 1; }
func buildImmutabilityViolation() *ast.Root {
	decl := ast.NewDeclStmt(1, "x", i32Type(), ast.NewNumLit(1, 0), false)
	assign := ast.NewAssignExpr(2, ast.NewSymbol(2, "x"), ast.NewNumLit(2, 1))
	body := ast.NewBlock(1, []ast.Node{decl, assign})
	fd := ast.NewFunctionDecl(1, "f", false, nil, voidType(), body)

	root := ast.NewRoot(1)
	root.Decls = append(root.Decls, fd)
	return root
}
