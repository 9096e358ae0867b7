package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kodo/internal/errors"
)

func TestReporter_HadErrorTracksErrorLevelOnly(t *testing.T) {
	reporter := errors.NewErrorReporter("test.kd", "let x = 1;\n")

	reporter.Report(errors.CompilerError{Level: errors.Warning, Message: "unused variable"})
	require.False(t, reporter.HadError(), "a Warning must not poison the compile")

	reporter.Report(errors.UninitializedUse("x", 1))
	assert.True(t, reporter.HadError())
	assert.True(t, reporter.AbortIfError())
}

func TestFormatError_IncludesCodeAndSourceLine(t *testing.T) {
	reporter := errors.NewErrorReporter("test.kd", "let x: i32 = y;\n")
	out := reporter.FormatError(errors.UndefinedVariable("y", 1))

	assert.Contains(t, out, "E0001")
	assert.Contains(t, out, "undefined variable 'y'")
	assert.Contains(t, out, "let x: i32 = y;")
}

func TestImmutableAssignment_MessageNamesVariable(t *testing.T) {
	err := errors.ImmutableAssignment("total", 12)
	assert.Equal(t, errors.ErrorInvalidAssignment, err.Code)
	assert.Equal(t, 12, err.Position.Line)
	assert.Contains(t, err.Message, "total")
}
