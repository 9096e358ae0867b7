package passes

import (
	"kodo/internal/ir"
	"kodo/internal/pass"
)

// StackPromoter is the mem2reg-equivalent transform (spec §4.J): it lifts
// promotable LocalVar stack slots into real value-level PhiInsts and
// direct SSA use-def edges, consuming the MemoryPhi/reaching-def
// structure ReachingDefAnalysis already built.
type StackPromoter struct{}

func (StackPromoter) Name() string { return "stack-promoter" }

func (StackPromoter) BuildUsage(usage *pass.PassUsage) {
	usage.Requires(RDAAnalyser{})
}

func (StackPromoter) RunFunction(pm *pass.PassManager, fn *ir.Function) error {
	rda, _ := pm.Get(fn, RDAAnalyser{}.Name()).(*ReachingDefAnalysis)
	if rda == nil {
		rda = BuildReachingDefAnalysis(fn)
	}
	promote(fn, rda)
	return nil
}

// isPromotable reports whether every user of v is either a Load of v or a
// Store whose pointer (not value) is v. Any other use — a taken address,
// a call argument, a cast, an inline-asm operand, or a Lea base — is
// disqualifying, per spec §4.J.
func isPromotable(v *ir.LocalVar) bool {
	for _, user := range v.Users() {
		switch u := user.(type) {
		case *ir.LoadInst:
			if u.Ptr() != ir.Value(v) {
				return false
			}
		case *ir.StoreInst:
			if u.Val() == ir.Value(v) {
				return false
			}
			if u.Ptr() != ir.Value(v) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func promote(fn *ir.Function, rda *ReachingDefAnalysis) {
	promotable := make(map[*ir.LocalVar]bool)
	var promoteOrder []*ir.LocalVar
	for _, v := range fn.Vars {
		if isPromotable(v) {
			promotable[v] = true
			promoteOrder = append(promoteOrder, v)
		}
	}
	if len(promoteOrder) == 0 {
		return
	}

	phiMap := make(map[*ir.MemoryPhi]*ir.PhiInst)
	var phiOrder []*ir.MemoryPhi

	for _, block := range fn.Blocks {
		for _, memPhi := range rda.MemoryPhis(block) {
			if !promotable[memPhi.Cell] {
				continue
			}
			newPhi := ir.NewPhiInst(memPhi.Cell.VarType, 0)
			block.Prepend(newPhi)
			phiMap[memPhi] = newPhi
			phiOrder = append(phiOrder, memPhi)
		}
	}

	for _, memPhi := range phiOrder {
		newPhi := phiMap[memPhi]
		var resolvedType ir.Type
		for _, pred := range memPhi.IncomingBlocks() {
			val, _ := memPhi.Incoming(pred)
			resolved := resolveIncoming(val, phiMap)
			newPhi.AddIncoming(pred, resolved)
			if resolved != nil && resolvedType == nil {
				resolvedType = resolved.Type()
			}
		}
		if resolvedType != nil {
			newPhi.SetType(resolvedType)
		}
	}

	for _, v := range promoteOrder {
		users := append([]ir.Value(nil), v.Users()...)
		for _, user := range users {
			switch inst := user.(type) {
			case *ir.LoadInst:
				def := rda.ReachingDef(inst)
				replacement := resolveIncoming(def, phiMap)
				if replacement == nil {
					replacement = fn.Program.Constants.GetUndef(v.VarType)
				}
				ir.ReplaceAllUsesWith(inst, replacement)
				inst.Block().Remove(inst)
			case *ir.StoreInst:
				inst.Block().Remove(inst)
			}
		}
		fn.RemoveVar(v)
	}
}

// resolveIncoming rewrites a reaching definition that is itself a
// promoted MemoryPhi into its mapped PhiInst; anything else (a stored
// value, an unpromoted MemoryPhi, or nil/undef) passes through unchanged.
func resolveIncoming(val ir.Value, phiMap map[*ir.MemoryPhi]*ir.PhiInst) ir.Value {
	if memPhi, ok := val.(*ir.MemoryPhi); ok {
		if newPhi, ok := phiMap[memPhi]; ok {
			return newPhi
		}
	}
	return val
}
