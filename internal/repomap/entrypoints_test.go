package repomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEntrypoints_TypesFromFilename(t *testing.T) {
	files := []FileInfo{
		{Path: "main.go"},
		{Path: "index.ts"},
		{Path: "lib.rs"},
		{Path: "helper.go"},
	}

	eps := detectEntrypoints(".", files)
	byPath := map[string]string{}
	for _, ep := range eps {
		byPath[ep.Path] = ep.Type
	}

	assert.Equal(t, EntryExecutable, byPath["main.go"])
	assert.Equal(t, EntryModule, byPath["index.ts"])
	assert.Equal(t, EntryLibrary, byPath["lib.rs"])
	_, found := byPath["helper.go"]
	assert.False(t, found)
}

func TestDetectEntrypoints_DirectChildrenOnly(t *testing.T) {
	files := []FileInfo{
		{Path: "svc/main.py"},
		{Path: "svc/nested/main.py"},
	}

	eps := detectEntrypoints("svc", files)
	require.Len(t, eps, 1)
	assert.Equal(t, "svc/main.py", eps[0].Path)
}

func TestDetectEntrypoints_RootPromotesBin(t *testing.T) {
	files := []FileInfo{
		{Path: "bin/release.sh"},
		{Path: "bin/migrate"},
		{Path: "svc/bin/tool"},
	}

	eps := detectEntrypoints(".", files)
	byPath := map[string]string{}
	for _, ep := range eps {
		byPath[ep.Path] = ep.Type
	}

	assert.Equal(t, EntryExecutable, byPath["bin/release.sh"])
	assert.Equal(t, EntryExecutable, byPath["bin/migrate"])
	_, found := byPath["svc/bin/tool"]
	assert.False(t, found, "bin promotion applies to the root bin/ only")
}

func TestDetectEntrypoints_ModInitFiles(t *testing.T) {
	files := []FileInfo{
		{Path: "pkg/mod.rs"},
		{Path: "pkg/__init__.py"},
	}

	eps := detectEntrypoints("pkg", files)
	require.Len(t, eps, 2)
	assert.Equal(t, EntryModule, eps[0].Type)
	assert.Equal(t, EntryModule, eps[1].Type)
}
