package passes

import (
	"kodo/internal/ir"
	"kodo/internal/pass"
)

// ReachingDefAnalysis is the cached result of analysing, for every Load
// of a LocalVar, which Store (or MemoryPhi) reaches it (spec §4.I):
// MemoryPhi placement at dominance frontiers per memory cell (Cytron et
// al.), renaming via a DFS over the dominator tree with one definition
// stack per cell.
type ReachingDefAnalysis struct {
	CFA *ControlFlowAnalysis

	phisByBlock map[*ir.BasicBlock][]*ir.MemoryPhi
	reachingDef map[*ir.LoadInst]ir.Value
}

// MemoryPhis returns every MemoryPhi placed at the head of block, in
// placement order.
func (r *ReachingDefAnalysis) MemoryPhis(block *ir.BasicBlock) []*ir.MemoryPhi {
	return r.phisByBlock[block]
}

// ReachingDef returns the single reaching definition recorded for load:
// a stored value, a *ir.MemoryPhi, or nil ("no definition reaches this
// load" — equivalent to Undef).
func (r *ReachingDefAnalysis) ReachingDef(load *ir.LoadInst) ir.Value {
	return r.reachingDef[load]
}

// ReachingValues expands load's reaching definition into the union of
// concrete values that may reach it: if the reaching def is a MemoryPhi,
// one level of its incoming values (not recursed further, per spec
// §4.I's "expands a MemoryPhi once"); otherwise a single-element slice.
// A nil element denotes "undef on this path" — VarChecker's
// uninitialized-use check looks for exactly that.
func (r *ReachingDefAnalysis) ReachingValues(load *ir.LoadInst) []ir.Value {
	def := r.reachingDef[load]
	phi, ok := def.(*ir.MemoryPhi)
	if !ok {
		return []ir.Value{def}
	}
	values := make([]ir.Value, 0, len(phi.IncomingBlocks()))
	for _, b := range phi.IncomingBlocks() {
		v, _ := phi.Incoming(b)
		values = append(values, v)
	}
	return values
}

// RDAAnalyser is the pass.Analyser that produces a ReachingDefAnalysis.
// It declares ControlFlowAnalysis as a dependency, so the manager's
// recursive resolution materializes (and caches) the CFA first.
type RDAAnalyser struct{}

func (RDAAnalyser) Name() string { return "rda" }

func (RDAAnalyser) BuildUsage(usage *pass.PassUsage) {
	usage.Requires(CFAAnalyser{})
}

func (RDAAnalyser) Analyze(pm *pass.PassManager, fn *ir.Function) (interface{}, error) {
	cfa, _ := pm.Get(fn, CFAAnalyser{}.Name()).(*ControlFlowAnalysis)
	if cfa == nil {
		cfa = BuildControlFlowAnalysis(fn)
	}
	return buildReachingDefAnalysis(fn, cfa), nil
}

// BuildReachingDefAnalysis computes placement and renaming for fn,
// building its own ControlFlowAnalysis. Direct entry point for callers
// without a PassManager.
func BuildReachingDefAnalysis(fn *ir.Function) *ReachingDefAnalysis {
	return buildReachingDefAnalysis(fn, BuildControlFlowAnalysis(fn))
}

func buildReachingDefAnalysis(fn *ir.Function, cfa *ControlFlowAnalysis) *ReachingDefAnalysis {
	r := &ReachingDefAnalysis{
		CFA:         cfa,
		phisByBlock: make(map[*ir.BasicBlock][]*ir.MemoryPhi),
		reachingDef: make(map[*ir.LoadInst]ir.Value),
	}
	if cfa.Entry() == nil {
		return r
	}

	placeMemoryPhis(fn, cfa, r)
	rename(cfa, r, cfa.Entry(), make(map[*ir.LocalVar][]ir.Value))
	return r
}

// placeMemoryPhis runs the classical iterative dominance-frontier
// placement algorithm, keyed per memory cell (LocalVar).
func placeMemoryPhis(fn *ir.Function, cfa *ControlFlowAnalysis, r *ReachingDefAnalysis) {
	defSites := make(map[*ir.LocalVar]map[*ir.BasicBlock]bool)

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions() {
			store, ok := inst.(*ir.StoreInst)
			if !ok {
				continue
			}
			lv, ok := store.Ptr().(*ir.LocalVar)
			if !ok {
				continue // a Store through a derived (Lea) pointer is not a memory cell
			}
			sites, ok := defSites[lv]
			if !ok {
				sites = make(map[*ir.BasicBlock]bool)
				defSites[lv] = sites
			}
			sites[b] = true
		}
	}

	hasPhi := make(map[*ir.LocalVar]map[*ir.BasicBlock]bool)
	for _, lv := range fn.Vars {
		sites, ok := defSites[lv]
		if !ok {
			continue
		}
		hasPhi[lv] = make(map[*ir.BasicBlock]bool)

		worklist := make([]*ir.BasicBlock, 0, len(sites))
		for _, b := range fn.Blocks {
			if sites[b] {
				worklist = append(worklist, b)
			}
		}

		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, d := range cfa.Frontiers(b) {
				if hasPhi[lv][d] {
					continue
				}
				phi := ir.NewMemoryPhi(lv, d)
				r.phisByBlock[d] = append(r.phisByBlock[d], phi)
				hasPhi[lv][d] = true
				if !sites[d] {
					worklist = append(worklist, d)
				}
			}
		}
	}
}

// rename performs the dominator-tree DFS, threading a per-cell definition
// stack. stacks is shared across the whole recursion (one call per
// function); pushes made while visiting b are popped before returning, so
// siblings in the dominator tree never see each other's definitions.
func rename(cfa *ControlFlowAnalysis, r *ReachingDefAnalysis, b *ir.BasicBlock, stacks map[*ir.LocalVar][]ir.Value) {
	var pushed []*ir.LocalVar

	for _, phi := range r.phisByBlock[b] {
		stacks[phi.Cell] = append(stacks[phi.Cell], phi)
		pushed = append(pushed, phi.Cell)
	}

	for _, inst := range b.Instructions() {
		switch t := inst.(type) {
		case *ir.LoadInst:
			if lv, ok := t.Ptr().(*ir.LocalVar); ok {
				r.reachingDef[t] = top(stacks[lv])
			}
		case *ir.StoreInst:
			if lv, ok := t.Ptr().(*ir.LocalVar); ok {
				stacks[lv] = append(stacks[lv], t.Val())
				pushed = append(pushed, lv)
			}
		}
	}

	for _, s := range cfa.Succs(b) {
		for _, phi := range r.phisByBlock[s] {
			phi.SetIncoming(b, top(stacks[phi.Cell]))
		}
	}

	for _, c := range cfa.Dominatees(b) {
		rename(cfa, r, c, stacks)
	}

	for i := len(pushed) - 1; i >= 0; i-- {
		cell := pushed[i]
		stacks[cell] = stacks[cell][:len(stacks[cell])-1]
	}
}

func top(stack []ir.Value) ir.Value {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}
