package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/automem-labs/automem-go/pkg/core"
)

func TestPipelineErrorFormat(t *testing.T) {
	err := &core.PipelineError{Op: "ProcessOutlet", Err: core.ErrNoUser}
	assert.Equal(t, "automem: ProcessOutlet: user id is required", err.Error())
}

func TestPipelineErrorUnwrap(t *testing.T) {
	err := core.NewPipelineError("NewFilter", core.ErrNoStore)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoStore)

	var pipeErr *core.PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, "NewFilter", pipeErr.Op)
}

func TestNewPipelineErrorNil(t *testing.T) {
	assert.NoError(t, core.NewPipelineError("AnyOp", nil))
}

func TestPipelineErrorWrapsArbitrary(t *testing.T) {
	inner := errors.New("connection refused")
	err := core.NewPipelineError("GetMemories", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "connection refused")
}
