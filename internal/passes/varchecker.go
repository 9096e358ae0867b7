package passes

import (
	"kodo/internal/errors"
	"kodo/internal/ir"
	"kodo/internal/pass"
)

// VarChecker enforces immutability and flags uninitialized-variable use
// over the IR (spec §4.K). The immutability check scans user lists and
// pointer types; only the uninitialized-use check uses
// ReachingDefAnalysis. It
// runs before StackPromoter in the registered pipeline, since once a
// local is promoted there is no longer a Load/Store pair left to check.
type VarChecker struct {
	Reporter *errors.ErrorReporter
}

func (*VarChecker) Name() string { return "var-checker" }

func (*VarChecker) BuildUsage(usage *pass.PassUsage) {
	usage.Requires(RDAAnalyser{})
}

func (c *VarChecker) RunFunction(pm *pass.PassManager, fn *ir.Function) error {
	rda, _ := pm.Get(fn, RDAAnalyser{}.Name()).(*ReachingDefAnalysis)
	if rda == nil {
		rda = BuildReachingDefAnalysis(fn)
	}
	c.checkImmutability(fn)
	c.checkUninitializedUse(fn, rda)
	return nil
}

// checkImmutability scans each local var's user list in order: the first
// direct store is the initializer, any further direct store to a var not
// declared mutable is an error at the store's line. A second walk over the
// blocks catches stores through derived pointers, checked against the
// pointer type's own mutability rather than any var's declaration.
func (c *VarChecker) checkImmutability(fn *ir.Function) {
	for _, v := range fn.Vars {
		hasStore := false
		for _, user := range v.Users() {
			store, ok := user.(*ir.StoreInst)
			isAssignment := ok && store.Ptr() == ir.Value(v)
			if isAssignment && hasStore && !v.IsMutable {
				c.report(errors.ImmutableAssignment(v.Name(), store.Line()))
			}
			hasStore = hasStore || isAssignment
		}
	}

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions() {
			store, ok := inst.(*ir.StoreInst)
			if !ok {
				continue
			}
			if _, direct := store.Ptr().(*ir.LocalVar); direct {
				continue
			}
			if pt, ok := store.Ptr().Type().(*ir.PointerType); ok && !pt.IsMutable {
				c.report(errors.ImmutablePointerStore(pt.Pointee.String(), store.Line()))
			}
		}
	}
}

// checkUninitializedUse flags a Load of a local whose reaching_values
// includes an undef (nil) entry. Struct-typed locals are exempted — a
// documented known limitation carried over unchanged from the original
// (SPEC_FULL item 7): struct locals are always constructed field-by-field
// via createStore's breakup rather than a single scalar store, so a naive
// per-load Undef check produces false positives on partially-initialized
// struct writes the original never resolved either.
func (c *VarChecker) checkUninitializedUse(fn *ir.Function, rda *ReachingDefAnalysis) {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions() {
			load, ok := inst.(*ir.LoadInst)
			if !ok {
				continue
			}
			lv, ok := load.Ptr().(*ir.LocalVar)
			if !ok {
				continue
			}
			if lv.VarType.Kind() == ir.KindStruct {
				continue
			}

			for _, v := range rda.ReachingValues(load) {
				if v == nil {
					c.report(errors.UninitializedUse(lv.Name(), inst.Line()))
					break
				}
				if _, ok := v.(*ir.ConstantUndef); ok {
					c.report(errors.UninitializedUse(lv.Name(), inst.Line()))
					break
				}
			}
		}
	}
}

func (c *VarChecker) report(err errors.CompilerError) {
	if c.Reporter != nil {
		c.Reporter.Report(err)
	}
}
