package pass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/ir"
)

type countingAnalyser struct {
	runs *int
}

func (countingAnalyser) Name() string { return "counting" }

func (a countingAnalyser) Analyze(pm *PassManager, fn *ir.Function) (interface{}, error) {
	*a.runs++
	return *a.runs, nil
}

type recordingPass struct {
	analyser countingAnalyser
	results  []interface{}
}

func (*recordingPass) Name() string { return "recording" }

func (p *recordingPass) BuildUsage(usage *PassUsage) {
	usage.Requires(p.analyser)
}

func (p *recordingPass) RunFunction(pm *PassManager, fn *ir.Function) error {
	p.results = append(p.results, pm.Get(fn, p.analyser.Name()))
	return nil
}

func buildTwoFunctionProgram() *ir.Program {
	prog := ir.NewProgram()
	voidT := prog.Types.Void()
	fnType := prog.Types.GetFunction(voidT, nil)
	for _, name := range []string{"a", "b"} {
		fn := prog.AddFunction(name, fnType, false)
		entry := fn.AppendBlock(voidT)
		entry.Append(ir.NewRetInst(voidT, 1, nil))
	}
	return prog
}

func TestPassManager_MaterializesDeclaredAnalysesPerFunction(t *testing.T) {
	prog := buildTwoFunctionProgram()
	runs := 0
	p := &recordingPass{analyser: countingAnalyser{runs: &runs}}

	pm := NewPassManager()
	pm.Register(p)
	require.NoError(t, pm.Run(prog))

	assert.Equal(t, 2, runs, "one analysis run per function")
	require.Len(t, p.results, 2)
	assert.NotNil(t, p.results[0])
	assert.NotNil(t, p.results[1])
}

func TestPassManager_InvalidatesAfterEachTransform(t *testing.T) {
	prog := buildTwoFunctionProgram()
	runs := 0
	first := &recordingPass{analyser: countingAnalyser{runs: &runs}}
	second := &recordingPass{analyser: countingAnalyser{runs: &runs}}

	pm := NewPassManager()
	pm.Register(first)
	pm.Register(second)
	require.NoError(t, pm.Run(prog))

	assert.Equal(t, 4, runs, "the first transform's per-function invalidation forces a recompute for the second")
}

func TestPassManager_ExternedFunctionsAreSkipped(t *testing.T) {
	prog := buildTwoFunctionProgram()
	fnType := prog.Types.GetFunction(prog.Types.Void(), nil)
	prog.AddFunction("ext", fnType, true)

	runs := 0
	p := &recordingPass{analyser: countingAnalyser{runs: &runs}}
	pm := NewPassManager()
	pm.Register(p)
	require.NoError(t, pm.Run(prog))

	assert.Equal(t, 2, runs)
	assert.Len(t, p.results, 2)
}
