package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunPipeline_DevServerExitsImmediately(t *testing.T) {
	// A command that exits without announcing a listening URL fails the run
	// before any browser work happens.
	err := RunPipeline(context.Background(), RunOptions{
		ProjectDir: t.TempDir(),
		DevCommand: []string{"false"},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "collection failed")
}
