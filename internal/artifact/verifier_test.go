package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writtenSet(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "index")
	require.NoError(t, WriteSet(dir, sampleSet()))
	return dir
}

func TestVerify_ValidSet(t *testing.T) {
	dir := writtenSet(t)

	result := Verify(dir)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestVerify_MissingArtifact(t *testing.T) {
	dir := writtenSet(t)
	require.NoError(t, os.Remove(filepath.Join(dir, TestMapFile)))

	result := Verify(dir)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], TestMapFile)
}

func TestVerify_UnparseableJSON(t *testing.T) {
	dir := writtenSet(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, RepoMapFile), []byte("{broken"), 0644))

	result := Verify(dir)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], RepoMapFile)
}

func TestVerify_UnsupportedSchemaMajor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	set := sampleSet()
	set.Meta.SchemaVersion = "2.0.0"
	require.NoError(t, WriteSet(dir, set))

	result := Verify(dir)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "schema major")
}

func TestVerify_CountMismatchesAreWarnings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	set := sampleSet()
	set.Meta.Stats.TotalFiles = 99
	set.Meta.Stats.TotalSymbols = 99
	require.NoError(t, WriteSet(dir, set))

	result := Verify(dir)
	assert.True(t, result.Valid, "count drift is a warning, not an error")
	assert.Len(t, result.Warnings, 2)
}

func TestVerify_CorruptSymbolLine(t *testing.T) {
	dir := writtenSet(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, SymbolsFile), []byte("{\"symbol_id\":\"ok\"}\nnot json\n"), 0644))

	result := Verify(dir)
	assert.False(t, result.Valid)
}

func TestVerify_EmptyDirectory(t *testing.T) {
	result := Verify(filepath.Join(t.TempDir(), "index"))
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 5, "every missing artifact is reported")
}
