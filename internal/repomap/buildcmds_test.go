package repomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBuildCommands_Makefile(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Makefile", `build:
	go build ./...

test:
	go test ./...

test-all: test
	go test -race ./...
`)
	// A Makefile outranks every other manifest.
	writeFixture(t, root, "package.json", `{"scripts":{"build":"tsc"}}`)

	cmds := detectBuildCommands(root)
	require.NotNil(t, cmds)
	assert.Equal(t, "make build", cmds.Build)
	assert.Equal(t, "make test", cmds.Test)
	assert.Equal(t, "make test-all", cmds.TestFull)
}

func TestDetectBuildCommands_PackageJSON(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "package.json",
		`{"scripts":{"build":"tsc","test":"vitest run","test:ci":"vitest run --coverage"}}`)

	cmds := detectBuildCommands(root)
	require.NotNil(t, cmds)
	assert.Equal(t, "npm run build", cmds.Build)
	assert.Equal(t, "npm test", cmds.Test)
	assert.Equal(t, "npm run test:ci", cmds.TestFull)
}

func TestDetectBuildCommands_CargoFixed(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Cargo.toml", "[package]\nname = \"demo\"\n")

	cmds := detectBuildCommands(root)
	require.NotNil(t, cmds)
	assert.Equal(t, "cargo build", cmds.Build)
	assert.Equal(t, "cargo test", cmds.Test)
}

func TestDetectBuildCommands_PyprojectPoetry(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "pyproject.toml", `[tool.poetry]
name = "demo"
`)

	cmds := detectBuildCommands(root)
	require.NotNil(t, cmds)
	assert.Equal(t, "poetry install", cmds.Build)
	assert.Equal(t, "poetry run pytest", cmds.Test)
}

func TestDetectBuildCommands_GoMod(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "go.mod", "module example.com/demo\n")

	cmds := detectBuildCommands(root)
	require.NotNil(t, cmds)
	assert.Equal(t, "go build ./...", cmds.Build)
	assert.Equal(t, "go test ./...", cmds.Test)
	assert.Equal(t, "go test -race ./...", cmds.TestFull)
}

func TestDetectBuildCommands_NoManifest(t *testing.T) {
	assert.Nil(t, detectBuildCommands(t.TempDir()))
}
