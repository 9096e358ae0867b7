package ir

// MemoryPhi merges incoming definitions of one memory location (one
// LocalVar) at the head of a block, one instance per (block, cell) pair.
// It is itself a Value usable as a reaching definition — StackPromoter
// consumes this role directly when it rewrites a promotable MemoryPhi
// into a real PhiInst (spec §4.I). It lives here rather than in the
// passes package so the IR layer owns every ValueKind.
type MemoryPhi struct {
	ValueBase
	Cell  *LocalVar
	Block *BasicBlock

	incoming map[*BasicBlock]Value
	// preds remembers first-recorded order so IncomingBlocks (and
	// everything downstream of it: PhiInst incoming order, the textual
	// dump) is deterministic rather than map-iteration order.
	preds []*BasicBlock
}

// NewMemoryPhi returns an empty MemoryPhi for cell, placed at the head of
// block. Its Value type mirrors the cell's pointee type (the type a Load
// of this cell produces), since reaching_def is swapped directly in for
// a Load's operand chain during StackPromoter's rewrite.
func NewMemoryPhi(cell *LocalVar, block *BasicBlock) *MemoryPhi {
	p := &MemoryPhi{Cell: cell, Block: block, incoming: make(map[*BasicBlock]Value)}
	p.init(KindMemoryPhiValue, cell.VarType)
	return p
}

// SetIncoming records the reaching definition for predecessor pred. val
// may be nil, meaning "undef on this path" (spec §4.I: "a Value* or None").
func (p *MemoryPhi) SetIncoming(pred *BasicBlock, val Value) {
	if old, ok := p.incoming[pred]; ok {
		if old != nil {
			old.RemoveUser(p)
		}
	} else {
		p.preds = append(p.preds, pred)
	}
	p.incoming[pred] = val
	if val != nil {
		val.AddUser(p)
	}
}

// Incoming returns the recorded definition for pred, and whether one was
// ever recorded at all (distinct from an explicitly-recorded nil/undef).
func (p *MemoryPhi) Incoming(pred *BasicBlock) (Value, bool) {
	v, ok := p.incoming[pred]
	return v, ok
}

// IncomingBlocks returns every predecessor this phi has a (possibly nil)
// recorded incoming value for, in first-recorded order.
func (p *MemoryPhi) IncomingBlocks() []*BasicBlock {
	return p.preds
}

func (p *MemoryPhi) ReplaceUsesOfWith(orig, repl Value) {
	for b, v := range p.incoming {
		if v == orig {
			p.SetIncoming(b, repl)
		}
	}
}
