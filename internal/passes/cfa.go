// Package passes implements the pipeline's concrete analysers and
// transforms: ControlFlowAnalysis, ReachingDefAnalysis, StackPromoter,
// and VarChecker (spec §4.H–§4.K).
package passes

import (
	"kodo/internal/ir"
	"kodo/internal/pass"
)

// ControlFlowAnalysis is the cached result of analysing one function's
// control flow: the CFG (preds/succs), the dominator tree (idom/
// dominatees), and dominance frontiers. Grounded on spec §4.H; the
// original's `DominanceComputer` wasn't retrievable in the source pack,
// so the dominator tree here uses the Cooper/Harvey/Kennedy iterative
// algorithm ("A Simple, Fast Dominance Algorithm"), a standard choice for
// a from-scratch Go port with no particular coupling to how the original
// happened to compute it.
type ControlFlowAnalysis struct {
	entry *ir.BasicBlock

	succs map[*ir.BasicBlock][]*ir.BasicBlock
	preds map[*ir.BasicBlock][]*ir.BasicBlock

	idom       map[*ir.BasicBlock]*ir.BasicBlock
	dominatees map[*ir.BasicBlock][]*ir.BasicBlock
	frontiers  map[*ir.BasicBlock][]*ir.BasicBlock

	// reversePostorder lists every block reachable from entry; blocks
	// unreachable from entry (dead code IrGen never produces, but a
	// malformed manual IR fixture might) are simply absent from every
	// map above.
	reversePostorder []*ir.BasicBlock
}

func (a *ControlFlowAnalysis) Entry() *ir.BasicBlock { return a.entry }

func (a *ControlFlowAnalysis) Succs(b *ir.BasicBlock) []*ir.BasicBlock { return a.succs[b] }
func (a *ControlFlowAnalysis) Preds(b *ir.BasicBlock) []*ir.BasicBlock { return a.preds[b] }

// Dominatees returns b's children in the dominator tree.
func (a *ControlFlowAnalysis) Dominatees(b *ir.BasicBlock) []*ir.BasicBlock { return a.dominatees[b] }

// Idom returns b's immediate dominator, or nil for the entry block (the
// internal map roots the entry at itself for the intersect walk; that
// self-edge is not part of the dominator tree).
func (a *ControlFlowAnalysis) Idom(b *ir.BasicBlock) *ir.BasicBlock {
	if b == a.entry {
		return nil
	}
	return a.idom[b]
}

// Frontiers returns DF(b): the set of blocks d such that b dominates some
// predecessor of d but does not strictly dominate d itself.
func (a *ControlFlowAnalysis) Frontiers(b *ir.BasicBlock) []*ir.BasicBlock { return a.frontiers[b] }

// ReversePostorder returns every block reachable from entry, in reverse
// postorder (a valid processing order for any forward dataflow problem).
func (a *ControlFlowAnalysis) ReversePostorder() []*ir.BasicBlock { return a.reversePostorder }

// Dominates reports whether a dominates b (reflexively: every block
// dominates itself), by walking b's dominator-tree ancestry. idom(entry)
// is entry itself (there is no sentinel nil root), so the walk must stop
// explicitly at entry rather than waiting for a nil idom that never comes.
func (a *ControlFlowAnalysis) Dominates(dominator, b *ir.BasicBlock) bool {
	cur := b
	for {
		if cur == dominator {
			return true
		}
		if cur == a.entry {
			return false
		}
		cur = a.idom[cur]
	}
}

// CFAAnalyser is the pass.Analyser that produces a ControlFlowAnalysis,
// keyed as "cfa" in the PassManager's per-function cache.
type CFAAnalyser struct{}

func (CFAAnalyser) Name() string { return "cfa" }

func (CFAAnalyser) Analyze(pm *pass.PassManager, fn *ir.Function) (interface{}, error) {
	return BuildControlFlowAnalysis(fn), nil
}

// BuildControlFlowAnalysis computes the CFG, dominator tree, and
// dominance frontiers for fn. Exported directly (in addition to via
// CFAAnalyser) so RDA/StackPromoter tests can build one without a
// PassManager.
func BuildControlFlowAnalysis(fn *ir.Function) *ControlFlowAnalysis {
	a := &ControlFlowAnalysis{
		entry:      fn.Entry(),
		succs:      make(map[*ir.BasicBlock][]*ir.BasicBlock),
		preds:      make(map[*ir.BasicBlock][]*ir.BasicBlock),
		idom:       make(map[*ir.BasicBlock]*ir.BasicBlock),
		dominatees: make(map[*ir.BasicBlock][]*ir.BasicBlock),
		frontiers:  make(map[*ir.BasicBlock][]*ir.BasicBlock),
	}
	if a.entry == nil {
		return a
	}

	buildEdges(fn, a)
	postorderNum := computePostorder(a)
	computeDominators(a, postorderNum)
	buildDominatorTree(a)
	computeDominanceFrontiers(a)
	return a
}

func buildEdges(fn *ir.Function, a *ControlFlowAnalysis) {
	for _, b := range fn.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		switch t := term.(type) {
		case *ir.BranchInst:
			a.succs[b] = append(a.succs[b], t.Dst())
			a.preds[t.Dst()] = append(a.preds[t.Dst()], b)
		case *ir.CondBranchInst:
			a.succs[b] = append(a.succs[b], t.TrueDst(), t.FalseDst())
			a.preds[t.TrueDst()] = append(a.preds[t.TrueDst()], b)
			a.preds[t.FalseDst()] = append(a.preds[t.FalseDst()], b)
		}
	}
}

// computePostorder runs a DFS from entry and returns each reachable
// block's postorder number (higher = finished later; entry is highest), while
// also populating a.reversePostorder.
func computePostorder(a *ControlFlowAnalysis) map[*ir.BasicBlock]int {
	postorderNum := make(map[*ir.BasicBlock]int)
	visited := make(map[*ir.BasicBlock]bool)
	var postorder []*ir.BasicBlock

	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range a.succs[b] {
			visit(s)
		}
		postorder = append(postorder, b)
	}
	visit(a.entry)

	for i, b := range postorder {
		postorderNum[b] = i
	}
	a.reversePostorder = make([]*ir.BasicBlock, len(postorder))
	for i, b := range postorder {
		a.reversePostorder[len(postorder)-1-i] = b
	}
	return postorderNum
}

// computeDominators runs the Cooper/Harvey/Kennedy iterative algorithm.
func computeDominators(a *ControlFlowAnalysis, postorderNum map[*ir.BasicBlock]int) {
	a.idom[a.entry] = a.entry

	intersect := func(b1, b2 *ir.BasicBlock) *ir.BasicBlock {
		for b1 != b2 {
			for postorderNum[b1] < postorderNum[b2] {
				b1 = a.idom[b1]
			}
			for postorderNum[b2] < postorderNum[b1] {
				b2 = a.idom[b2]
			}
		}
		return b1
	}

	changed := true
	for changed {
		changed = false
		for _, b := range a.reversePostorder {
			if b == a.entry {
				continue
			}
			var newIdom *ir.BasicBlock
			for _, p := range a.preds[b] {
				if _, ok := postorderNum[p]; !ok {
					continue
				}
				if a.idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p)
			}
			if newIdom != nil && a.idom[b] != newIdom {
				a.idom[b] = newIdom
				changed = true
			}
		}
	}
	// The entry dominates itself; spec's idom(entry) is conventionally
	// itself-as-root, but tree-building below treats entry specially so
	// it never becomes its own child.
}

func buildDominatorTree(a *ControlFlowAnalysis) {
	for _, b := range a.reversePostorder {
		if b == a.entry {
			continue
		}
		parent := a.idom[b]
		a.dominatees[parent] = append(a.dominatees[parent], b)
	}
}

// computeDominanceFrontiers runs the standard bottom-up algorithm over a
// postorder DFS of the dominator tree (spec §4.H).
func computeDominanceFrontiers(a *ControlFlowAnalysis) {
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		for _, c := range a.dominatees[b] {
			visit(c)
		}

		seen := make(map[*ir.BasicBlock]bool)
		add := func(w *ir.BasicBlock) {
			if !seen[w] {
				seen[w] = true
				a.frontiers[b] = append(a.frontiers[b], w)
			}
		}
		for _, s := range a.succs[b] {
			if a.idom[s] != b {
				add(s)
			}
		}
		for _, c := range a.dominatees[b] {
			for _, w := range a.frontiers[c] {
				if a.idom[w] != b {
					add(w)
				}
			}
		}
	}
	visit(a.entry)
}
