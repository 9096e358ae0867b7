package ir

// InstKind tags the concrete instruction shape for switch dispatch, the Go
// stand-in for the original's `enum class InstKind` plus visitor-based
// double dispatch (ir/Visitor.hh) — printer.go and the passes type-switch
// on the concrete *Inst pointer directly instead of calling accept().
type InstKind int

const (
	InstBinary InstKind = iota
	InstCompare
	InstCast
	InstCall
	InstLea
	InstLoad
	InstStore
	InstCopy
	InstBranch
	InstCondBranch
	InstPhi
	InstInlineAsm
	InstRet
)

// Instruction is implemented by every instruction. Grounded on
// ir/Instruction.hh: every instruction is a Value, a member of its
// BasicBlock's intrusive list (Linkable), carries its parent block, a
// source line for diagnostics, and reports whether it terminates a block.
type Instruction interface {
	Value
	Linkable
	InstKind() InstKind
	Block() *BasicBlock
	SetBlock(b *BasicBlock)
	Line() int
	IsTerminator() bool
}

// InstructionBase is embedded by every concrete instruction type.
type InstructionBase struct {
	ValueBase
	node  Node
	block *BasicBlock
	line  int
}

func (b *InstructionBase) initInst(kind InstKind, typ Type, line int) {
	b.ValueBase.init(KindInstructionValue, typ)
	b.line = line
	_ = kind // recorded by the embedding type's InstKind() override
}

func (b *InstructionBase) linkNode() *Node   { return &b.node }
func (b *InstructionBase) Block() *BasicBlock { return b.block }
func (b *InstructionBase) SetBlock(p *BasicBlock) { b.block = p }
func (b *InstructionBase) Line() int          { return b.line }
func (b *InstructionBase) IsTerminator() bool { return false }

// BinaryOp is an arithmetic operator.
type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
)

// BinaryInst computes lhs OP rhs.
type BinaryInst struct {
	InstructionBase
	Op  BinaryOp
	lhs Value
	rhs Value
}

func NewBinaryInst(typ Type, line int, op BinaryOp, lhs, rhs Value) *BinaryInst {
	inst := &BinaryInst{Op: op}
	inst.initInst(InstBinary, typ, line)
	setOperand(inst, &inst.lhs, lhs)
	setOperand(inst, &inst.rhs, rhs)
	return inst
}

func (i *BinaryInst) InstKind() InstKind { return InstBinary }
func (i *BinaryInst) Lhs() Value         { return i.lhs }
func (i *BinaryInst) Rhs() Value         { return i.rhs }
func (i *BinaryInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.lhs, orig, repl)
	replaceIfMatch(i, &i.rhs, orig, repl)
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	CompareLessThan CompareOp = iota
	CompareGreaterThan
)

// CompareInst computes lhs OP rhs, producing a Bool.
type CompareInst struct {
	InstructionBase
	Op  CompareOp
	lhs Value
	rhs Value
}

func NewCompareInst(boolType Type, line int, op CompareOp, lhs, rhs Value) *CompareInst {
	inst := &CompareInst{Op: op}
	inst.initInst(InstCompare, boolType, line)
	setOperand(inst, &inst.lhs, lhs)
	setOperand(inst, &inst.rhs, rhs)
	return inst
}

func (i *CompareInst) InstKind() InstKind { return InstCompare }
func (i *CompareInst) Lhs() Value         { return i.lhs }
func (i *CompareInst) Rhs() Value         { return i.rhs }
func (i *CompareInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.lhs, orig, repl)
	replaceIfMatch(i, &i.rhs, orig, repl)
}

// CastOp is the concrete conversion an integer/pointer Cast performs. Per
// SPEC_FULL item 8, IrGen selects this from the (source, target) type
// pair rather than always emitting SignExtend as the original (buggily)
// does.
type CastOp int

const (
	CastSignExtend CastOp = iota
	CastZeroExtend
	CastTruncate
	CastIntToPtr
	CastPtrToInt
	CastReinterpret
)

// CastInst converts val to a new type via Op.
type CastInst struct {
	InstructionBase
	Op  CastOp
	val Value
}

func NewCastInst(typ Type, line int, op CastOp, val Value) *CastInst {
	inst := &CastInst{Op: op}
	inst.initInst(InstCast, typ, line)
	setOperand(inst, &inst.val, val)
	return inst
}

func (i *CastInst) InstKind() InstKind { return InstCast }
func (i *CastInst) Val() Value         { return i.val }
func (i *CastInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.val, orig, repl)
}

// CallInst calls callee (a *Function) with args, in order.
type CallInst struct {
	InstructionBase
	callee Value
	args   []Value
}

func NewCallInst(typ Type, line int, callee Value, args []Value) *CallInst {
	inst := &CallInst{args: make([]Value, len(args))}
	inst.initInst(InstCall, typ, line)
	setOperand(inst, &inst.callee, callee)
	for idx, a := range args {
		setOperand(inst, &inst.args[idx], a)
	}
	return inst
}

func (i *CallInst) InstKind() InstKind { return InstCall }
func (i *CallInst) Callee() Value      { return i.callee }
func (i *CallInst) Args() []Value      { return i.args }
func (i *CallInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.callee, orig, repl)
	for idx := range i.args {
		replaceIfMatch(i, &i.args[idx], orig, repl)
	}
}

// LeaInst computes a pointer into a compound type: a structural GEP. The
// first index strides by the pointee's size; subsequent indices pick
// struct fields or array elements.
type LeaInst struct {
	InstructionBase
	ptr     Value
	indices []Value
}

func NewLeaInst(typ Type, line int, ptr Value, indices []Value) *LeaInst {
	inst := &LeaInst{indices: make([]Value, len(indices))}
	inst.initInst(InstLea, typ, line)
	setOperand(inst, &inst.ptr, ptr)
	for idx, v := range indices {
		setOperand(inst, &inst.indices[idx], v)
	}
	return inst
}

func (i *LeaInst) InstKind() InstKind { return InstLea }
func (i *LeaInst) Ptr() Value         { return i.ptr }
func (i *LeaInst) Indices() []Value   { return i.indices }
func (i *LeaInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.ptr, orig, repl)
	for idx := range i.indices {
		replaceIfMatch(i, &i.indices[idx], orig, repl)
	}
}

// LoadInst reads the value pointed to by ptr.
type LoadInst struct {
	InstructionBase
	ptr Value
}

func NewLoadInst(typ Type, line int, ptr Value) *LoadInst {
	inst := &LoadInst{}
	inst.initInst(InstLoad, typ, line)
	setOperand(inst, &inst.ptr, ptr)
	return inst
}

func (i *LoadInst) InstKind() InstKind { return InstLoad }
func (i *LoadInst) Ptr() Value         { return i.ptr }
func (i *LoadInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.ptr, orig, repl)
}

// StoreInst writes val to the location pointed to by ptr. Produces no
// value (VoidType).
type StoreInst struct {
	InstructionBase
	ptr Value
	val Value
}

func NewStoreInst(voidType Type, line int, ptr, val Value) *StoreInst {
	inst := &StoreInst{}
	inst.initInst(InstStore, voidType, line)
	setOperand(inst, &inst.ptr, ptr)
	setOperand(inst, &inst.val, val)
	return inst
}

func (i *StoreInst) InstKind() InstKind { return InstStore }
func (i *StoreInst) Ptr() Value         { return i.ptr }
func (i *StoreInst) Val() Value         { return i.val }
func (i *StoreInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.ptr, orig, repl)
	replaceIfMatch(i, &i.val, orig, repl)
}

// CopyInst performs a structural element-by-element copy of len elements
// from src to dst. IrGen never constructs one: a non-constant struct-typed
// store is lowered as a single plain StoreInst (see createStore).
type CopyInst struct {
	InstructionBase
	src Value
	dst Value
	len Value
}

func NewCopyInst(voidType Type, line int, src, dst, length Value) *CopyInst {
	inst := &CopyInst{}
	inst.initInst(InstCopy, voidType, line)
	setOperand(inst, &inst.src, src)
	setOperand(inst, &inst.dst, dst)
	setOperand(inst, &inst.len, length)
	return inst
}

func (i *CopyInst) InstKind() InstKind { return InstCopy }
func (i *CopyInst) Src() Value         { return i.src }
func (i *CopyInst) Dst() Value         { return i.dst }
func (i *CopyInst) Len() Value         { return i.len }
func (i *CopyInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.src, orig, repl)
	replaceIfMatch(i, &i.dst, orig, repl)
	replaceIfMatch(i, &i.len, orig, repl)
}

// BranchInst is an unconditional jump to dst. Terminator.
type BranchInst struct {
	InstructionBase
	dst Value // *BasicBlock
}

func NewBranchInst(voidType Type, line int, dst *BasicBlock) *BranchInst {
	inst := &BranchInst{}
	inst.initInst(InstBranch, voidType, line)
	setOperand(inst, &inst.dst, dst)
	return inst
}

func (i *BranchInst) InstKind() InstKind   { return InstBranch }
func (i *BranchInst) Dst() *BasicBlock     { return i.dst.(*BasicBlock) }
func (i *BranchInst) IsTerminator() bool   { return true }
func (i *BranchInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.dst, orig, repl)
}

// CondBranchInst jumps to trueDst if cond holds, otherwise falseDst.
// Terminator.
type CondBranchInst struct {
	InstructionBase
	cond     Value
	trueDst  Value // *BasicBlock
	falseDst Value // *BasicBlock
}

func NewCondBranchInst(voidType Type, line int, cond Value, trueDst, falseDst *BasicBlock) *CondBranchInst {
	inst := &CondBranchInst{}
	inst.initInst(InstCondBranch, voidType, line)
	setOperand(inst, &inst.cond, cond)
	setOperand(inst, &inst.trueDst, trueDst)
	setOperand(inst, &inst.falseDst, falseDst)
	return inst
}

func (i *CondBranchInst) InstKind() InstKind { return InstCondBranch }
func (i *CondBranchInst) Cond() Value        { return i.cond }
func (i *CondBranchInst) TrueDst() *BasicBlock  { return i.trueDst.(*BasicBlock) }
func (i *CondBranchInst) FalseDst() *BasicBlock { return i.falseDst.(*BasicBlock) }
func (i *CondBranchInst) IsTerminator() bool    { return true }
func (i *CondBranchInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.cond, orig, repl)
	replaceIfMatch(i, &i.trueDst, orig, repl)
	replaceIfMatch(i, &i.falseDst, orig, repl)
}

// PhiIncoming is one (predecessor, value) pair of a PhiInst.
type PhiIncoming struct {
	Block *BasicBlock
	Value Value
}

// PhiInst selects among incoming values based on which predecessor block
// control arrived from. Produced by StackPromoter from a MemoryPhi.
type PhiInst struct {
	InstructionBase
	incoming []PhiIncoming
}

func NewPhiInst(typ Type, line int) *PhiInst {
	inst := &PhiInst{}
	inst.initInst(InstPhi, typ, line)
	return inst
}

func (i *PhiInst) InstKind() InstKind       { return InstPhi }
func (i *PhiInst) Incoming() []PhiIncoming  { return i.incoming }

// AddIncoming appends a (block, value) pair, registering the use.
func (i *PhiInst) AddIncoming(block *BasicBlock, val Value) {
	i.incoming = append(i.incoming, PhiIncoming{Block: block, Value: val})
	if val != nil {
		val.AddUser(i)
	}
}

// IncomingFor returns the value for a given predecessor, or nil (undef)
// if none is recorded.
func (i *PhiInst) IncomingFor(block *BasicBlock) Value {
	for _, in := range i.incoming {
		if in.Block == block {
			return in.Value
		}
	}
	return nil
}

func (i *PhiInst) ReplaceUsesOfWith(orig, repl Value) {
	for idx := range i.incoming {
		if i.incoming[idx].Value == orig {
			if i.incoming[idx].Value != nil {
				i.incoming[idx].Value.RemoveUser(i)
			}
			i.incoming[idx].Value = repl
			if repl != nil {
				repl.AddUser(i)
			}
		}
	}
}

// AsmInput is one named input operand of an InlineAsmInst.
type AsmInput struct {
	Register string
	Value    Value
}

// AsmOutput is one named output operand; Target must be addressable.
type AsmOutput struct {
	Register string
	Target   Value
}

// InlineAsmInst embeds a target-specific assembly template verbatim,
// naming its clobbered registers, input operands, and output operands.
type InlineAsmInst struct {
	InstructionBase
	Template string
	Clobbers []string
	inputs   []AsmInput
	outputs  []AsmOutput
}

func NewInlineAsmInst(typ Type, line int, template string, clobbers []string, inputs []AsmInput, outputs []AsmOutput) *InlineAsmInst {
	inst := &InlineAsmInst{Template: template, Clobbers: clobbers, inputs: inputs, outputs: outputs}
	inst.initInst(InstInlineAsm, typ, line)
	for idx := range inst.inputs {
		if inst.inputs[idx].Value != nil {
			inst.inputs[idx].Value.AddUser(inst)
		}
	}
	for idx := range inst.outputs {
		if inst.outputs[idx].Target != nil {
			inst.outputs[idx].Target.AddUser(inst)
		}
	}
	return inst
}

func (i *InlineAsmInst) InstKind() InstKind   { return InstInlineAsm }
func (i *InlineAsmInst) Inputs() []AsmInput   { return i.inputs }
func (i *InlineAsmInst) Outputs() []AsmOutput { return i.outputs }
func (i *InlineAsmInst) ReplaceUsesOfWith(orig, repl Value) {
	for idx := range i.inputs {
		if i.inputs[idx].Value == orig {
			orig.RemoveUser(i)
			i.inputs[idx].Value = repl
			if repl != nil {
				repl.AddUser(i)
			}
		}
	}
	for idx := range i.outputs {
		if i.outputs[idx].Target == orig {
			orig.RemoveUser(i)
			i.outputs[idx].Target = repl
			if repl != nil {
				repl.AddUser(i)
			}
		}
	}
}

// RetInst returns from the function, with an optional value (nil for
// `ret void`). Terminator.
type RetInst struct {
	InstructionBase
	val Value
}

func NewRetInst(voidType Type, line int, val Value) *RetInst {
	inst := &RetInst{}
	inst.initInst(InstRet, voidType, line)
	if val != nil {
		setOperand(inst, &inst.val, val)
	}
	return inst
}

func (i *RetInst) InstKind() InstKind { return InstRet }
func (i *RetInst) Val() Value         { return i.val }
func (i *RetInst) IsTerminator() bool { return true }
func (i *RetInst) ReplaceUsesOfWith(orig, repl Value) {
	replaceIfMatch(i, &i.val, orig, repl)
}
