package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "main.go"),
		[]byte("package main\n\nfunc Hello() {}\n"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "README.md"),
		[]byte("# Demo\n\nSmall fixture repo.\n"), 0644))
	return root
}

func TestIndexThenVerify(t *testing.T) {
	root := seedRepo(t)

	index := NewRootCommand("test")
	index.SetArgs([]string{"index", root})
	require.NoError(t, index.Execute())

	for _, name := range []string{"meta.json", "repo_map.json", "symbols.jsonl", "test_map.json", "file_hashes.json"} {
		_, err := os.Stat(filepath.Join(root, ".ark", "index", name))
		assert.NoError(t, err, "expected artifact %s", name)
	}

	verify := NewRootCommand("test")
	verify.SetArgs([]string{"verify", root})
	assert.NoError(t, verify.Execute())
}

func TestIndexBaselineOnly(t *testing.T) {
	root := seedRepo(t)

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"index", root, "--no-adapters", "--json"})
	require.NoError(t, cmd.Execute())
}

func TestVerifyFailsWithoutIndex(t *testing.T) {
	root := seedRepo(t)

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"verify", root})
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}

func TestIndexRejectsMissingPath(t *testing.T) {
	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"index", filepath.Join(t.TempDir(), "nope")})
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}
