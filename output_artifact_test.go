package mcptools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactName(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "analysis_output_20250102_030405.txt", artifactName("/data/analysis.py", at))
	assert.Equal(t, "my.tool_output_20250102_030405.txt", artifactName("my.tool.py", at))
}

func TestCreateArtifact(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "job.py")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	var names []string
	for i := 0; i < 3; i++ {
		f, err := createArtifact(script, at)
		require.NoError(t, err)
		_, err = f.WriteString("run")
		require.NoError(t, err)
		require.NoError(t, f.Close())
		names = append(names, filepath.Base(f.Name()))
	}

	assert.Equal(t, []string{
		"job_output_20250102_030405.txt",
		"job_output_20250102_030405_1.txt",
		"job_output_20250102_030405_2.txt",
	}, names)

	for _, n := range names {
		content, err := os.ReadFile(filepath.Join(dir, n))
		require.NoError(t, err)
		assert.Equal(t, "run", string(content))
	}
}

func TestCreateArtifact_MissingDirectory(t *testing.T) {
	_, err := createArtifact(filepath.Join(t.TempDir(), "gone", "job.py"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestArtifactHeaderAndFooter(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "artifact.txt"))
	require.NoError(t, err)

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, writeArtifactHeader(f, "/scripts/job.py", "/usr/bin/python3", started))
	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
	require.NoError(t, writeArtifactFooter(f, 0, started.Add(2*time.Second)))
	require.NoError(t, f.Close())

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	want := strings.Join([]string{
		"Script: job.py",
		"Started: 2025-06-01 12:00:00",
		"Interpreter: /usr/bin/python3",
		artifactSeparator,
		"",
		"hello",
		"",
		artifactSeparator,
		"Exit code: 0",
		"Completed: 2025-06-01 12:00:02",
		"",
	}, "\n")
	assert.Equal(t, want, string(content))
}
