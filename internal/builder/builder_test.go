package builder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nramsrud/ark-index/internal/artifact"
	"github.com/Nramsrud/ark-index/internal/extract"
	"github.com/Nramsrud/ark-index/internal/ledger"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func seedRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "README.md", "# Demo\n\nA demo repository for indexing.\n")
	writeFile(t, root, "main.go", "package main\n\nfunc Hello() {}\n\nfunc helper() {}\n")
	writeFile(t, root, "src/app.ts", "export function boot() {}\n")
	writeFile(t, root, "pkg/math.py", "def add(a, b):\n    return a + b\n")
	writeFile(t, root, "tests/test_math.py", "def test_add():\n    assert True\n")
	return root
}

func buildOpts(root string) Options {
	return Options{RepoRoot: root, ToolVersion: "test"}
}

func readMeta(t *testing.T, indexDir string) artifact.Meta {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(indexDir, artifact.MetaFile))
	require.NoError(t, err)
	var meta artifact.Meta
	require.NoError(t, json.Unmarshal(data, &meta))
	return meta
}

func readLedger(t *testing.T, indexDir string) ledger.Ledger {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(indexDir, artifact.FileHashesFile))
	require.NoError(t, err)
	var l ledger.Ledger
	require.NoError(t, json.Unmarshal(data, &l))
	return l
}

func TestBuild_FullIndex(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)

	result := Build(opts)
	require.True(t, result.Success, "error: %v", result.Error)

	indexDir := opts.IndexDir()
	meta := readMeta(t, indexDir)
	assert.Equal(t, artifact.StatusSuccess, meta.Status)
	assert.False(t, meta.Stats.Incremental)
	assert.Equal(t, 5, meta.Stats.TotalFiles)

	// Every artifact file parses and the counts line up.
	verification := artifact.Verify(indexDir)
	assert.True(t, verification.Valid, "errors: %v", verification.Errors)
	assert.Empty(t, verification.Warnings)

	l := readLedger(t, indexDir)
	assert.Len(t, l.Files, meta.Stats.TotalFiles)
	for path, entry := range l.Files {
		assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, entry.Hash, "path=%s", path)
		assert.False(t, strings.Contains(path, "\\"))
	}
}

func TestBuild_SymbolContents(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	data, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.SymbolsFile))
	require.NoError(t, err)

	ids := map[string]extract.Symbol{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var sym extract.Symbol
		require.NoError(t, json.Unmarshal([]byte(line), &sym))
		_, dup := ids[sym.SymbolID]
		require.False(t, dup, "duplicate symbol_id %s", sym.SymbolID)
		ids[sym.SymbolID] = sym
	}

	hello := ids["main.go::Hello"]
	assert.Equal(t, "export", hello.Visibility)
	assert.Equal(t, "function", hello.Kind)

	helper := ids["main.go::helper"]
	assert.Equal(t, "private", helper.Visibility)

	assert.Contains(t, ids, "src/app.ts::boot")
	assert.Contains(t, ids, "pkg/math.py::add")
}

func TestBuild_SecondRunIsIdempotent(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	firstSymbols, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.SymbolsFile))
	require.NoError(t, err)

	second := Build(opts)
	require.True(t, second.Success)
	assert.True(t, second.Stats.Incremental)
	assert.Equal(t, 0, second.Stats.FilesChanged)

	secondSymbols, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.SymbolsFile))
	require.NoError(t, err)
	assert.Equal(t, firstSymbols, secondSymbols, "symbol stream must be byte-identical")
}

func TestBuild_TouchWithoutContentChange(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	firstLedger := readLedger(t, opts.IndexDir())
	firstSymbols, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.SymbolsFile))
	require.NoError(t, err)

	// Touch one file into the future without changing its bytes.
	target := filepath.Join(root, "main.go")
	future := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(target, future, future))

	second := Build(opts)
	require.True(t, second.Success)
	assert.Equal(t, 0, second.Stats.FilesChanged,
		"stat drift with identical content is not a change")

	secondSymbols, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.SymbolsFile))
	require.NoError(t, err)
	assert.Equal(t, firstSymbols, secondSymbols)

	secondLedger := readLedger(t, opts.IndexDir())
	assert.Equal(t, firstLedger.Files["main.go"].Hash, secondLedger.Files["main.go"].Hash)
	assert.NotEqual(t, firstLedger.Files["main.go"].Mtime, secondLedger.Files["main.go"].Mtime)
}

func TestBuild_IncrementalChurn(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)
	firstLedger := readLedger(t, opts.IndexDir())

	// Rewrite one python file's body.
	writeFile(t, root, "pkg/math.py", "def add(a, b):\n    return b + a\n\ndef sub(a, b):\n    return a - b\n")

	second := Build(opts)
	require.True(t, second.Success)
	assert.True(t, second.Stats.Incremental)
	assert.Equal(t, 1, second.Stats.FilesChanged)

	secondLedger := readLedger(t, opts.IndexDir())
	assert.NotEqual(t, firstLedger.Files["pkg/math.py"].Hash, secondLedger.Files["pkg/math.py"].Hash)
	for _, path := range []string{"README.md", "main.go", "src/app.ts"} {
		assert.Equal(t, firstLedger.Files[path].Hash, secondLedger.Files[path].Hash, "path=%s", path)
	}

	data, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.SymbolsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "pkg/math.py::sub")
}

func TestBuild_ConfigChangeForcesFullReindex(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	changed := buildOpts(root)
	changed.ExcludeGlobs = []string{"*.md"}
	result := Build(changed)
	require.True(t, result.Success)
	assert.False(t, result.Stats.Incremental, "config drift must force a full re-index")
	assert.Equal(t, 4, result.Stats.TotalFiles, "README.md is now excluded")
}

func TestBuild_ForceFlag(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	forced := buildOpts(root)
	forced.Force = true
	result := Build(forced)
	require.True(t, result.Success)
	assert.False(t, result.Stats.Incremental)
}

func TestBuild_TooManyFilesIsFatal(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	opts.MaxFiles = 2

	result := Build(opts)
	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, CodeTooManyFiles, result.Error.Code)

	// Nothing was committed: no meta, so the index reads as absent.
	_, err := os.Stat(filepath.Join(opts.IndexDir(), artifact.MetaFile))
	assert.True(t, os.IsNotExist(err))
}

func TestBuild_SkipsProducePartialStatus(t *testing.T) {
	root := seedRepo(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "blob.bin"), []byte{0x00, 0x01}, 0644))

	opts := buildOpts(root)
	result := Build(opts)
	require.True(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, WarnFileSkipped, result.Warnings[0].Code)

	meta := readMeta(t, opts.IndexDir())
	assert.Equal(t, artifact.StatusPartial, meta.Status)
}

func TestBuild_TestMapPopulated(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	data, err := os.ReadFile(filepath.Join(opts.IndexDir(), artifact.TestMapFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tests/test_math.py::test_add")
}

func TestBuild_MetaIsNewestArtifact(t *testing.T) {
	root := seedRepo(t)
	opts := buildOpts(root)
	require.True(t, Build(opts).Success)

	indexDir := opts.IndexDir()
	metaInfo, err := os.Stat(filepath.Join(indexDir, artifact.MetaFile))
	require.NoError(t, err)

	entries, err := os.ReadDir(indexDir)
	require.NoError(t, err)
	for _, e := range entries {
		info, err := e.Info()
		require.NoError(t, err)
		assert.False(t, metaInfo.ModTime().Before(info.ModTime()),
			"meta must be the newest artifact (saw %s)", e.Name())
	}
}
