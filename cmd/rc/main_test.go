package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getProjectRoot returns the absolute path to the project root.
func getProjectRoot(t *testing.T) string {
	dir, err := os.Getwd()
	require.NoError(t, err)
	// Walk up to find go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	t.Fatal("go.mod not found")
	return ""
}

// buildBinary compiles the rc command into a temp dir.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping build test in short mode")
	}

	binPath := filepath.Join(t.TempDir(), "rc-test")
	buildCmd := exec.Command("go", "build", "-o", binPath, ".")
	buildCmd.Dir = filepath.Join(getProjectRoot(t), "cmd", "rc")
	output, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))
	return binPath
}

// command runs the binary with an isolated config.
func command(t *testing.T, bin string, args ...string) *exec.Cmd {
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(),
		"RC_CONFIG="+filepath.Join(t.TempDir(), "config.yaml"),
		"NO_COLOR=1",
	)
	return cmd
}

func TestMainEntryPoints(t *testing.T) {
	_ = main
}

func TestMainHelpFlag(t *testing.T) {
	bin := buildBinary(t)

	out, err := command(t, bin, "--help").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "resource containers")
	for _, sub := range []string{"info", "ls", "cat", "extract", "add", "init", "doctor", "hash"} {
		assert.Contains(t, string(out), sub)
	}
}

func TestMainUnknownCommand(t *testing.T) {
	bin := buildBinary(t)

	out, err := command(t, bin, "unknown-command-xyz").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(string(out)), "unknown")
}

func TestBinaryExecutionIntegration(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	archive := filepath.Join(dir, "en_ulb.zip")

	out, err := command(t, bin, "init", archive, "--identifier", "en-ulb").CombinedOutput()
	require.NoError(t, err, "init failed: %s", string(out))
	assert.Contains(t, string(out), "Created")

	src := filepath.Join(dir, "01.usfm")
	require.NoError(t, os.WriteFile(src, []byte("\\v 1 In the beginning"), 0644))
	out, err = command(t, bin, "add", archive, src, "content/01.usfm").CombinedOutput()
	require.NoError(t, err, "add failed: %s", string(out))

	out, err = command(t, bin, "cat", archive, "content/01.usfm").Output()
	require.NoError(t, err)
	assert.Equal(t, "\\v 1 In the beginning", string(out))

	out, err = command(t, bin, "--json", "info", archive).Output()
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal(out, &info))
	assert.Equal(t, "archive", info["storage"])
}

func TestBinaryErrorHandling(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	cmd := command(t, bin, "info", filepath.Join(dir, "missing"))
	out, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(out), "rc:")
	assert.Contains(t, string(out), "E_MISSING_MANIFEST")
}
