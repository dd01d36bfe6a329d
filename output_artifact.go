package mcptools

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	artifactSeparator   = "=================================================="
	artifactStampLayout = "20060102_150405"
	artifactTimeLayout  = "2006-01-02 15:04:05"
	maxArtifactSuffix   = 1000
)

// artifactName returns "<stem>_output_<YYYYMMDD_HHMMSS>.txt" for the given script.
func artifactName(scriptPath string, at time.Time) string {
	base := filepath.Base(scriptPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_output_%s.txt", stem, at.Format(artifactStampLayout))
}

// createArtifact creates a new artifact next to the script. It never opens an existing
// file: when the timestamped name is taken, "_1", "_2", ... is appended before ".txt".
func createArtifact(scriptPath string, at time.Time) (*os.File, error) {
	dir := filepath.Dir(scriptPath)
	name := artifactName(scriptPath, at)
	stem := strings.TrimSuffix(name, ".txt")

	for i := 0; i < maxArtifactSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d.txt", stem, i)
		}
		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to create output file: too many artifacts named %s", name)
}

func writeArtifactHeader(f *os.File, scriptPath, interpreter string, started time.Time) error {
	_, err := fmt.Fprintf(f, "Script: %s\nStarted: %s\nInterpreter: %s\n%s\n\n",
		filepath.Base(scriptPath), started.Format(artifactTimeLayout), interpreter, artifactSeparator)
	return err
}

func writeArtifactFooter(f *os.File, exitCode int, completed time.Time) error {
	_, err := fmt.Fprintf(f, "\n%s\nExit code: %d\nCompleted: %s\n",
		artifactSeparator, exitCode, completed.Format(artifactTimeLayout))
	return err
}

func writeArtifactTimeout(f *os.File, timeout time.Duration) error {
	_, err := fmt.Fprintf(f, "\n\nERROR: Script execution timed out after %s\n", formatSeconds(timeout))
	return err
}
