package repomap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

var reMakeTarget = regexp.MustCompile(`(?m)^([A-Za-z0-9._-]+)\s*:`)

// detectBuildCommands probes the repository root for manifests in a fixed
// order and stops at the first match. Only populated fields are emitted.
func detectBuildCommands(root string) *BuildCommands {
	if cmds := makefileCommands(filepath.Join(root, "Makefile")); cmds != nil {
		return cmds
	}
	if cmds := packageJSONCommands(filepath.Join(root, "package.json")); cmds != nil {
		return cmds
	}
	if exists(filepath.Join(root, "Cargo.toml")) {
		return &BuildCommands{
			Build:    "cargo build",
			Test:     "cargo test",
			TestFull: "cargo test --all-targets",
		}
	}
	if exists(filepath.Join(root, "pyproject.toml")) {
		return pythonCommands(filepath.Join(root, "pyproject.toml"))
	}
	if exists(filepath.Join(root, "setup.py")) {
		return &BuildCommands{
			Build:    "pip install -e .",
			Test:     "pytest",
			TestFull: "pytest -v",
		}
	}
	if exists(filepath.Join(root, "go.mod")) {
		return &BuildCommands{
			Build:    "go build ./...",
			Test:     "go test ./...",
			TestFull: "go test -race ./...",
		}
	}
	return nil
}

func makefileCommands(path string) *BuildCommands {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	targets := make(map[string]bool)
	for _, m := range reMakeTarget.FindAllStringSubmatch(string(data), -1) {
		targets[m[1]] = true
	}

	cmds := &BuildCommands{}
	switch {
	case targets["build"]:
		cmds.Build = "make build"
	case targets["all"]:
		cmds.Build = "make all"
	}
	if targets["test"] {
		cmds.Test = "make test"
	}
	switch {
	case targets["test-all"]:
		cmds.TestFull = "make test-all"
	case targets["test-full"]:
		cmds.TestFull = "make test-full"
	case targets["test"]:
		cmds.TestFull = "make test"
	}
	if cmds.Build == "" && cmds.Test == "" && cmds.TestFull == "" {
		return nil
	}
	return cmds
}

func packageJSONCommands(path string) *BuildCommands {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil || len(pkg.Scripts) == 0 {
		return nil
	}

	cmds := &BuildCommands{}
	if _, ok := pkg.Scripts["build"]; ok {
		cmds.Build = "npm run build"
	}
	if _, ok := pkg.Scripts["test"]; ok {
		cmds.Test = "npm test"
	}
	for _, name := range []string{"test:full", "test:all", "test:ci", "test"} {
		if _, ok := pkg.Scripts[name]; ok {
			if name == "test" {
				cmds.TestFull = "npm test"
			} else {
				cmds.TestFull = "npm run " + name
			}
			break
		}
	}
	if cmds.Build == "" && cmds.Test == "" && cmds.TestFull == "" {
		return nil
	}
	return cmds
}

// pythonCommands inspects pyproject.toml for a poetry section so the
// emitted commands match the project's actual tooling.
func pythonCommands(path string) *BuildCommands {
	cmds := &BuildCommands{
		Build:    "pip install -e .",
		Test:     "pytest",
		TestFull: "pytest -v",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cmds
	}
	var pyproject struct {
		Tool map[string]toml.Primitive `toml:"tool"`
	}
	if toml.Unmarshal(data, &pyproject) == nil {
		if _, ok := pyproject.Tool["poetry"]; ok {
			cmds.Build = "poetry install"
			cmds.Test = "poetry run pytest"
			cmds.TestFull = "poetry run pytest -v"
		}
	}
	return cmds
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
