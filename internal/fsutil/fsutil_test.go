package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SHA-256 of the empty octet sequence.
const emptySHA256 = "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestHashFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, emptySHA256, hash)
}

func TestHashFile_MatchesHashBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	content := []byte("package main\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes(content), hash)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, hash)
}

func TestSizeKB_RoundsUp(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name  string
		bytes int
		want  int
	}{
		{"empty", 0, 0},
		{"one byte", 1, 1},
		{"exactly 1k", 1024, 1},
		{"just over 1k", 1025, 2},
		{"4k", 4096, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			require.NoError(t, os.WriteFile(path, make([]byte, tc.bytes), 0644))
			got, err := SizeKB(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWithinRoot(t *testing.T) {
	root := t.TempDir()

	cases := []struct {
		rel  string
		want bool
	}{
		{"src/main.go", true},
		{"README.md", true},
		{"a/../b.txt", true},
		{"../outside.txt", false},
		{"..", false},
		{"a/../../outside.txt", false},
		{"/etc/passwd", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WithinRoot(tc.rel, root), "rel=%q", tc.rel)
	}
}

func TestToForwardSlashes_Idempotent(t *testing.T) {
	assert.Equal(t, "a/b/c.go", ToForwardSlashes(`a\b\c.go`))
	assert.Equal(t, "a/b/c.go", ToForwardSlashes("a/b/c.go"))
}

func TestIsBinary(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello\nworld\n"), 0644))
	assert.False(t, IsBinary(text))

	binary := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(binary, []byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01}, 0644))
	assert.True(t, IsBinary(binary))

	assert.False(t, IsBinary(filepath.Join(dir, "missing")))
}

func TestIsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	assert.True(t, IsSymlink(link))
	assert.False(t, IsSymlink(target))
	assert.False(t, IsSymlink(filepath.Join(dir, "missing")))
}

func TestLanguageOf(t *testing.T) {
	cases := map[string]string{
		"src/app.ts":    LangTypeScript,
		"src/App.tsx":   LangTypeScript,
		"index.js":      LangJavaScript,
		"util.mjs":      LangJavaScript,
		"main.py":       LangPython,
		"lib.rs":        LangRust,
		"main.go":       LangGo,
		"app.rb":        LangRuby,
		"Main.java":     LangJava,
		"core.c":        LangC,
		"engine.cpp":    LangCPP,
		"README.md":     LangUnknown,
		"Makefile":      LangUnknown,
		"image.png":     LangUnknown,
		"UPPER/FILE.GO": LangGo,
	}
	for path, want := range cases {
		assert.Equal(t, want, LanguageOf(path), "path=%q", path)
	}
}
