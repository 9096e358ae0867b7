// Package ast defines the node shapes consumed by IR generation.
//
// The lexer, parser, and textual AST dumper that produce these nodes are
// out of scope here (they are external collaborators, per the language
// front end); this package only fixes the shape that internal/ir's builder
// walks. Every node carries a 1-based source Line for diagnostics.
package ast

// NodeKind tags the concrete type of a Node for switch dispatch, following
// the same tagged-sum style used throughout internal/ir.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindImportStmt
	KindTypeDecl
	KindFunctionDecl
	KindFunctionArg
	KindBlock
	KindDeclStmt
	KindIfStmt
	KindRetStmt
	KindAssignExpr
	KindBinExpr
	KindUnaryExpr
	KindCallExpr
	KindCastExpr
	KindConstructExpr
	KindMemberExpr
	KindSymbol
	KindNumLit
	KindStringLit
	KindAsmExpr
)

// Node is implemented by every AST node. Line is 1-based.
type Node interface {
	Kind() NodeKind
	Line() int
}

type node struct {
	kind NodeKind
	line int
}

func (n node) Kind() NodeKind { return n.kind }
func (n node) Line() int      { return n.line }

// Root is the top-level unit fed to IrGen: the union of every imported
// file's declarations, in file-then-source order.
type Root struct {
	node
	Imports []*ImportStmt
	Decls   []Node // *TypeDecl | *FunctionDecl
}

func NewRoot(line int) *Root {
	return &Root{node: node{KindRoot, line}}
}

// ImportStmt names a module path to resolve before IrGen runs; resolution
// itself (file discovery) is the driver's job (spec §6).
type ImportStmt struct {
	node
	Path string
}

func NewImportStmt(line int, path string) *ImportStmt {
	return &ImportStmt{node: node{KindImportStmt, line}, Path: path}
}

// TypeKind tags the surface-syntax spelling of a type reference, resolved
// into an ir.Type by IrGen's genType.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeBase             // i32, u64, bool, void, or a named struct
	TypeInferred          // "let x = ..." with no annotation
	TypePointer
	TypeStruct
)

// Type is the AST-side representation of a type annotation.
type Type struct {
	Kind        TypeKind
	Base        string       // TypeBase: "i32", "bool", "Point", ...
	Pointee     *Type        // TypePointer
	IsMutable   bool         // TypePointer: *mut T vs *T
	StructField []StructField // TypeStruct
}

// StructField is one field of a struct type declaration.
type StructField struct {
	Name string
	Type Type
}

// TypeDecl introduces a named type alias, most commonly a struct.
type TypeDecl struct {
	node
	Name string
	Type Type
}

func NewTypeDecl(line int, name string, typ Type) *TypeDecl {
	return &TypeDecl{node: node{KindTypeDecl, line}, Name: name, Type: typ}
}

// FunctionArg is one formal parameter.
type FunctionArg struct {
	node
	Name      string
	Type      Type
	IsMutable bool
}

func NewFunctionArg(line int, name string, typ Type, isMutable bool) *FunctionArg {
	return &FunctionArg{node: node{KindFunctionArg, line}, Name: name, Type: typ, IsMutable: isMutable}
}

// FunctionDecl declares a function. Extern functions have no Block.
type FunctionDecl struct {
	node
	Name       string
	Externed   bool
	Args       []*FunctionArg
	ReturnType Type
	Block      *Block // nil when Externed
}

func NewFunctionDecl(line int, name string, externed bool, args []*FunctionArg, returnType Type, block *Block) *FunctionDecl {
	return &FunctionDecl{
		node:       node{KindFunctionDecl, line},
		Name:       name,
		Externed:   externed,
		Args:       args,
		ReturnType: returnType,
		Block:      block,
	}
}

// Block is a lexical sequence of statements.
type Block struct {
	node
	Stmts []Node
}

func NewBlock(line int, stmts []Node) *Block {
	return &Block{node: node{KindBlock, line}, Stmts: stmts}
}

// DeclStmt is a `let`/`var` local declaration with an optional initializer.
type DeclStmt struct {
	node
	Name      string
	Type      Type
	Init      Node // optional
	IsMutable bool
}

func NewDeclStmt(line int, name string, typ Type, init Node, isMutable bool) *DeclStmt {
	return &DeclStmt{node: node{KindDeclStmt, line}, Name: name, Type: typ, Init: init, IsMutable: isMutable}
}

// IfStmt is a one-armed conditional; spec §4.F fuses its join with the
// fallthrough continuation (there is no else-block in this surface
// language).
type IfStmt struct {
	node
	Expr  Node
	Block *Block
}

func NewIfStmt(line int, expr Node, block *Block) *IfStmt {
	return &IfStmt{node: node{KindIfStmt, line}, Expr: expr, Block: block}
}

// RetStmt returns an optional value.
type RetStmt struct {
	node
	Val Node // nil for a void return
}

func NewRetStmt(line int, val Node) *RetStmt {
	return &RetStmt{node: node{KindRetStmt, line}, Val: val}
}

// AssignExpr is `lhs = rhs`.
type AssignExpr struct {
	node
	Lhs Node
	Rhs Node
}

func NewAssignExpr(line int, lhs, rhs Node) *AssignExpr {
	return &AssignExpr{node: node{KindAssignExpr, line}, Lhs: lhs, Rhs: rhs}
}

type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinLessThan
	BinGreaterThan
)

// BinExpr is a binary arithmetic or comparison expression.
type BinExpr struct {
	node
	Op  BinOp
	Lhs Node
	Rhs Node
}

func NewBinExpr(line int, op BinOp, lhs, rhs Node) *BinExpr {
	return &BinExpr{node: node{KindBinExpr, line}, Op: op, Lhs: lhs, Rhs: rhs}
}

type UnaryOp int

const (
	UnaryAddressOf UnaryOp = iota
	UnaryDeref
)

// UnaryExpr is `&e` or `*e`.
type UnaryExpr struct {
	node
	Op  UnaryOp
	Val Node
}

func NewUnaryExpr(line int, op UnaryOp, val Node) *UnaryExpr {
	return &UnaryExpr{node: node{KindUnaryExpr, line}, Op: op, Val: val}
}

// CallExpr calls a function by name.
type CallExpr struct {
	node
	Name string
	Args []Node
}

func NewCallExpr(line int, name string, args []Node) *CallExpr {
	return &CallExpr{node: node{KindCallExpr, line}, Name: name, Args: args}
}

// CastExpr is `val as T`.
type CastExpr struct {
	node
	Val  Node
	Type Type
}

func NewCastExpr(line int, val Node, typ Type) *CastExpr {
	return &CastExpr{node: node{KindCastExpr, line}, Val: val, Type: typ}
}

// ConstructExpr builds a struct value: `Point{1, 2}`, elements in
// declaration order.
type ConstructExpr struct {
	node
	Name string
	Args []Node
}

func NewConstructExpr(line int, name string, args []Node) *ConstructExpr {
	return &ConstructExpr{node: node{KindConstructExpr, line}, Name: name, Args: args}
}

// MemberExpr is `lhs.rhs`.
type MemberExpr struct {
	node
	Lhs Node
	Rhs *Symbol
}

func NewMemberExpr(line int, lhs Node, rhs *Symbol) *MemberExpr {
	return &MemberExpr{node: node{KindMemberExpr, line}, Lhs: lhs, Rhs: rhs}
}

// Symbol is a bare identifier reference.
type Symbol struct {
	node
	Name string
}

func NewSymbol(line int, name string) *Symbol {
	return &Symbol{node: node{KindSymbol, line}, Name: name}
}

// NumLit is an integer literal.
type NumLit struct {
	node
	Value int64
}

func NewNumLit(line int, value int64) *NumLit {
	return &NumLit{node: node{KindNumLit, line}, Value: value}
}

// StringLit is a string literal.
type StringLit struct {
	node
	Value string
}

func NewStringLit(line int, value string) *StringLit {
	return &StringLit{node: node{KindStringLit, line}, Value: value}
}

// AsmInput is one named input operand of an AsmExpr.
type AsmInput struct {
	Register string
	Expr     Node
}

// AsmOutput is one named output operand; the target must be addressable
// (IrGen lowers it with DontDeref).
type AsmOutput struct {
	Register string
	Target   Node
}

// AsmExpr is an inline-assembly expression.
type AsmExpr struct {
	node
	Template string
	Clobbers []string
	Inputs   []AsmInput
	Outputs  []AsmOutput
}

func NewAsmExpr(line int, template string, clobbers []string, inputs []AsmInput, outputs []AsmOutput) *AsmExpr {
	return &AsmExpr{node: node{KindAsmExpr, line}, Template: template, Clobbers: clobbers, Inputs: inputs, Outputs: outputs}
}
