// Package pass implements the analysis-and-transform pipeline described
// in spec §4.G: registered transforms run in order, each declaring its
// analysis dependencies up front so the manager can materialize them
// on demand, cached per function until a transform invalidates them.
package pass

import (
	"fmt"

	"kodo/internal/ir"
)

// Analyser produces a cached analysis result for a single function.
// ControlFlowAnalysis and ReachingDefAnalysis are the two analysers this
// pipeline ships; VarChecker and StackPromoter consume their results
// without knowing how they're computed.
type Analyser interface {
	// Name identifies the analysis for caching; two Analysers sharing a
	// Name are treated as the same analysis (so re-registering the same
	// analyser twice is harmless).
	Name() string
	Analyze(pm *PassManager, fn *ir.Function) (interface{}, error)
}

// DependentAnalyser is an Analyser that itself depends on other analyses.
// The manager resolves declared dependencies recursively before calling
// Analyze, so an analyser can Get its prerequisites from the cache.
type DependentAnalyser interface {
	Analyser
	BuildUsage(usage *PassUsage)
}

// PassUsage collects the analyses a transform needs before it runs,
// declared by its BuildUsage method. Grounded on spec §4.G's
// `build_usage(PassUsage&)`.
type PassUsage struct {
	requires []Analyser
}

// Requires declares a dependency on an analysis; the manager ensures it
// has been computed (and cached) for the function being processed before
// the transform's RunFunction is invoked.
func (u *PassUsage) Requires(a Analyser) {
	u.requires = append(u.requires, a)
}

// Pass is implemented by every registered transform. A Pass may
// additionally implement ProgramPass and/or FunctionPass; PassManager
// type-switches to find which.
type Pass interface {
	Name() string
	BuildUsage(usage *PassUsage)
}

// ProgramPass runs once over the whole Program, before any FunctionPass
// invocations for this registration.
type ProgramPass interface {
	Pass
	RunProgram(pm *PassManager, program *ir.Program) error
}

// FunctionPass runs once per function.
type FunctionPass interface {
	Pass
	RunFunction(pm *PassManager, fn *ir.Function) error
}

// PassManager registers transforms and drives them over a Program,
// materializing each transform's declared analysis dependencies first and
// caching analysis results per function until a transform invalidates
// them. Program-scoped results (MakeProgram) are never invalidated.
type PassManager struct {
	passes []Pass

	funcResults map[*ir.Function]map[string]interface{}
	progResults map[string]interface{}
}

// NewPassManager returns an empty manager.
func NewPassManager() *PassManager {
	return &PassManager{
		funcResults: make(map[*ir.Function]map[string]interface{}),
		progResults: make(map[string]interface{}),
	}
}

// Register appends a transform to the pipeline; transforms run in
// registration order.
func (pm *PassManager) Register(p Pass) {
	pm.passes = append(pm.passes, p)
}

// Make installs an analysis result for fn, overwriting any previously
// cached result under the same key.
func (pm *PassManager) Make(fn *ir.Function, key string, result interface{}) {
	m, ok := pm.funcResults[fn]
	if !ok {
		m = make(map[string]interface{})
		pm.funcResults[fn] = m
	}
	m[key] = result
}

// Get returns a previously cached per-function analysis result. Per spec
// §4.G, the caller is responsible for ensuring it was produced — this
// mirrors the original's unchecked `get<R>`, relying on PassUsage to have
// done so; callers in this module always go through Requires.
func (pm *PassManager) Get(fn *ir.Function, key string) interface{} {
	m, ok := pm.funcResults[fn]
	if !ok {
		return nil
	}
	return m[key]
}

// MakeProgram/GetProgram mirror Make/Get for program-scoped analyses
// (none of VarChecker/StackPromoter's dependencies are program-scoped
// today, but the hook exists for a transform that needs one).
func (pm *PassManager) MakeProgram(key string, result interface{}) {
	pm.progResults[key] = result
}

func (pm *PassManager) GetProgram(key string) interface{} {
	return pm.progResults[key]
}

// Invalidate clears every cached analysis for fn. Called after a
// transform that may have rewritten fn's instructions, per spec §4.G:
// "Analyses are cleared whenever a transform rewrites instructions (the
// manager does so implicitly on the next request)" — this module takes
// the minimal, sufficient-for-this-pipeline approach of invalidating
// unconditionally after every FunctionPass invocation, rather than
// tracking which specific analyses a transform might have invalidated.
func (pm *PassManager) Invalidate(fn *ir.Function) {
	delete(pm.funcResults, fn)
}

// ensure runs analyser.Analyze for fn if not already cached, resolving the
// analyser's own declared dependencies first, and caches the result.
func (pm *PassManager) ensure(a Analyser, fn *ir.Function) error {
	if pm.Get(fn, a.Name()) != nil {
		return nil
	}
	if dep, ok := a.(DependentAnalyser); ok {
		usage := &PassUsage{}
		dep.BuildUsage(usage)
		for _, prereq := range usage.requires {
			if err := pm.ensure(prereq, fn); err != nil {
				return err
			}
		}
	}
	result, err := a.Analyze(pm, fn)
	if err != nil {
		return fmt.Errorf("analysis %q on function %q: %w", a.Name(), fn.Name(), err)
	}
	pm.Make(fn, a.Name(), result)
	return nil
}

// Run drives every registered transform, in order, over program. For
// each transform: build its PassUsage, materialize any missing analyses
// for every function in the program, run the transform's program-level
// entry point (if any), then its per-function entry point for each
// function in declaration order, then invalidate that function's cache
// since the transform may have rewritten its instructions.
func (pm *PassManager) Run(program *ir.Program) error {
	for _, p := range pm.passes {
		usage := &PassUsage{}
		p.BuildUsage(usage)

		for _, fn := range program.Functions {
			if fn.Externed {
				continue
			}
			for _, a := range usage.requires {
				if err := pm.ensure(a, fn); err != nil {
					return err
				}
			}
		}

		if pp, ok := p.(ProgramPass); ok {
			if err := pp.RunProgram(pm, program); err != nil {
				return fmt.Errorf("pass %q: %w", p.Name(), err)
			}
		}

		if fp, ok := p.(FunctionPass); ok {
			for _, fn := range program.Functions {
				if fn.Externed {
					continue
				}
				if err := fp.RunFunction(pm, fn); err != nil {
					return fmt.Errorf("pass %q on function %q: %w", p.Name(), fn.Name(), err)
				}
				pm.Invalidate(fn)
			}
		}
	}
	return nil
}
