package main

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectCommand_MissingProjectDir(t *testing.T) {
	binaryPath := getBinaryPath(t)

	missing := filepath.Join(t.TempDir(), "no-such-project")
	cmd := exec.Command(binaryPath, "collect", missing)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "project directory")
}

func TestCollectCommand_BadConfig(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect", "--config", filepath.Join(t.TempDir(), "missing.json"))
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to load config")
}

func TestCollectCommand_TooManyArgs(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect", "a", "b")
	_, err := cmd.CombinedOutput()

	assert.Error(t, err)
}
