package ir

import "kodo/internal/errors"

// GlobalVariable is a module-level storage location with a constant
// initialiser. Grounded on ir/GlobalVariable.hh.
type GlobalVariable struct {
	ValueBase
	Initialiser Constant
}

// NewGlobalVariable builds a global of the given pointer type, initialised
// by init.
func NewGlobalVariable(ptrType Type, init Constant) *GlobalVariable {
	g := &GlobalVariable{}
	g.init(KindGlobalVariableValue, ptrType)
	g.Initialiser = init
	if init != nil {
		init.AddUser(g)
	}
	return g
}

func (g *GlobalVariable) ReplaceUsesOfWith(orig, repl Value) {
	if Value(g.Initialiser) != orig {
		return
	}
	if g.Initialiser != nil {
		g.Initialiser.RemoveUser(g)
	}
	rc, _ := repl.(Constant)
	g.Initialiser = rc
	if rc != nil {
		rc.AddUser(g)
	}
}

// Argument is a function formal parameter. Per SPEC_FULL item 9, IrGen
// always copies an Argument's value into a shadow LocalVar at function
// entry, so Argument itself is never reassigned — it is a plain value,
// typed as the parameter's declared type (not a pointer).
type Argument struct {
	ValueBase
	IsMutable bool
}

func NewArgument(typ Type, isMutable bool) *Argument {
	a := &Argument{IsMutable: isMutable}
	a.init(KindArgumentValue, typ)
	return a
}

func (a *Argument) ReplaceUsesOfWith(Value, Value) {}

// LocalVar is a named stack slot. Its Value type is Pointer(varType,
// isMutable) — the type every Load/Store operand check relies on — while
// VarType holds the pointee type declared in source. Grounded on
// ir/Function.hh's LocalVar.
type LocalVar struct {
	ValueBase
	VarType   Type
	IsMutable bool
}

func NewLocalVar(ptrType Type, varType Type, isMutable bool) *LocalVar {
	v := &LocalVar{VarType: varType, IsMutable: isMutable}
	v.init(KindLocalVarValue, ptrType)
	return v
}

func (v *LocalVar) ReplaceUsesOfWith(Value, Value) {}

// BasicBlock is an ordered, intrusively-linked sequence of instructions
// ending in exactly one terminator, and is itself a Value so branches can
// reference it as an operand. Grounded on ir/BasicBlock.hh.
type BasicBlock struct {
	ValueBase
	Parent       *Function
	instructions *List
}

// NewBasicBlock returns an empty block with no parent set.
func NewBasicBlock(voidType Type) *BasicBlock {
	b := &BasicBlock{instructions: NewList()}
	b.init(KindBasicBlockValue, voidType)
	return b
}

func (b *BasicBlock) ReplaceUsesOfWith(Value, Value) {}

// Append adds inst to the end of the block and sets its parent.
func (b *BasicBlock) Append(inst Instruction) {
	b.instructions.PushBack(inst)
	inst.SetBlock(b)
}

// Prepend adds inst to the start of the block and sets its parent.
func (b *BasicBlock) Prepend(inst Instruction) {
	b.instructions.InsertBefore(b.instructions.Front(), inst)
	inst.SetBlock(b)
}

// InsertBefore splices inst in immediately before mark (which may be
// b.End() to append), setting its parent.
func (b *BasicBlock) InsertBefore(mark, inst Instruction) {
	b.instructions.InsertBefore(mark, inst)
	inst.SetBlock(b)
}

// Remove unlinks inst from the block. The instruction must have no users
// left — callers rewrite uses first (ReplaceAllUsesWith) and only then
// remove.
func (b *BasicBlock) Remove(inst Instruction) {
	errors.Assert(len(inst.Users()) == 0, "removing instruction that still has users")
	b.instructions.Remove(inst)
}

// Front returns the first instruction, or nil if the block is empty.
func (b *BasicBlock) Front() Instruction {
	if e := b.instructions.Front(); e != b.instructions.End() {
		return e.(Instruction)
	}
	return nil
}

// End returns the block's sentinel — iteration stops here. Callers
// compare against it with the Linkable identity, e.g.
// `for i := b.FrontLinkable(); i != b.End(); i = ir.Next(i)`.
func (b *BasicBlock) End() Linkable { return b.instructions.End() }

// FrontLinkable returns the block's first element as a Linkable, for
// removal-safe iteration via ir.Next/ir.Prev.
func (b *BasicBlock) FrontLinkable() Linkable { return b.instructions.Front() }

// Instructions materializes the block's instructions into a slice, in
// order. Safe to call at any point; callers that need removal-safe
// iteration while mutating should use FrontLinkable/ir.Next instead.
func (b *BasicBlock) Instructions() []Instruction {
	var out []Instruction
	for e := b.instructions.Front(); e != b.instructions.End(); e = Next(e) {
		out = append(out, e.(Instruction))
	}
	return out
}

// Empty reports whether the block has no instructions.
func (b *BasicBlock) Empty() bool { return b.instructions.Empty() }

// Terminator returns the block's terminating instruction (Branch,
// CondBranch, or Ret), or nil if the block is not yet well-formed.
func (b *BasicBlock) Terminator() Instruction {
	if e := b.instructions.Back(); e != b.instructions.End() {
		inst := e.(Instruction)
		if inst.IsTerminator() {
			return inst
		}
	}
	return nil
}

// Function owns a defined (or externed) function's signature, arguments,
// local variables, and basic blocks. The first block is the entry.
// Grounded on ir/Function.hh, merged with ir/Prototype.hh: this module
// treats "externed function" and "defined function" as the same Value
// kind distinguished by Externed/len(Blocks), rather than as separate
// Function/Prototype types, since nothing in spec.md gives Prototype
// behavior distinct from an externed Function (see DESIGN.md).
type Function struct {
	ValueBase
	ReturnType Type
	Externed   bool
	Args       []*Argument
	Vars       []*LocalVar
	Blocks     []*BasicBlock

	// Program back-references the owning Program, so passes operating on
	// a single Function (StackPromoter, in particular) can still reach
	// the shared TypeCache/ConstantCache without threading Program
	// through every pass signature.
	Program *Program
}

// NewFunction builds a function value of the given FunctionType.
func NewFunction(name string, fnType *FunctionType, externed bool) *Function {
	f := &Function{ReturnType: fnType.ReturnType, Externed: externed}
	f.init(KindFunctionValue, fnType)
	f.SetName(name)
	return f
}

func (f *Function) ReplaceUsesOfWith(Value, Value) {}

// AppendArg appends a new formal parameter.
func (f *Function) AppendArg(typ Type, isMutable bool) *Argument {
	a := NewArgument(typ, isMutable)
	f.Args = append(f.Args, a)
	return a
}

// AppendVar appends a new local variable of pointer type
// Pointer(varType, isMutable).
func (f *Function) AppendVar(ptrType Type, varType Type, isMutable bool) *LocalVar {
	v := NewLocalVar(ptrType, varType, isMutable)
	f.Vars = append(f.Vars, v)
	return v
}

// AppendBlock appends a new, empty basic block and sets its parent.
func (f *Function) AppendBlock(voidType Type) *BasicBlock {
	b := NewBasicBlock(voidType)
	b.Parent = f
	f.Blocks = append(f.Blocks, b)
	return b
}

// RemoveVar drops v from the function's locals list. Used by
// StackPromoter once every Load/Store of a promoted LocalVar has been
// eliminated; callers must ensure v has no remaining users first.
func (f *Function) RemoveVar(v *LocalVar) {
	for i, candidate := range f.Vars {
		if candidate == v {
			f.Vars = append(f.Vars[:i], f.Vars[i+1:]...)
			return
		}
	}
}

// Entry returns the function's first block, or nil if it has none (an
// externed function).
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Program owns every function, global variable, and the shared TypeCache/
// ConstantCache for a compilation unit. Grounded on ir/Program.hh.
type Program struct {
	Types     *TypeCache
	Constants *ConstantCache
	Functions []*Function
	Globals   []*GlobalVariable

	functionsByName map[string]*Function
}

// NewProgram returns an empty program with fresh type and constant caches.
func NewProgram() *Program {
	return &Program{
		Types:           NewTypeCache(),
		Constants:       NewConstantCache(),
		functionsByName: make(map[string]*Function),
	}
}

// AddFunction declares (or, if externed, redeclares) a function and
// registers it by name.
func (p *Program) AddFunction(name string, fnType *FunctionType, externed bool) *Function {
	f := NewFunction(name, fnType, externed)
	f.Program = p
	p.Functions = append(p.Functions, f)
	p.functionsByName[name] = f
	return f
}

// LookupFunction finds a previously declared function by name.
func (p *Program) LookupFunction(name string) (*Function, bool) {
	f, ok := p.functionsByName[name]
	return f, ok
}

// AddGlobal declares a new global variable.
func (p *Program) AddGlobal(ptrType Type, init Constant) *GlobalVariable {
	g := NewGlobalVariable(ptrType, init)
	p.Globals = append(p.Globals, g)
	return g
}
