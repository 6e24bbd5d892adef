// Package report persists the enhanced overflow summary as a JSON artifact.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/overflow-checker/internal/types"
)

// DefaultFilename is the artifact name written into the project directory.
const DefaultFilename = "check_overflow.json"

// Write saves the summary to check_overflow.json inside the project
// directory and returns the written path.
func Write(projectDir string, summary *types.OverflowSummary) (string, error) {
	path := filepath.Join(projectDir, DefaultFilename)
	if err := WriteTo(path, summary); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTo saves the summary to an explicit path.
func WriteTo(path string, summary *types.OverflowSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
