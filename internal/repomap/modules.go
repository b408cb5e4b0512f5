package repomap

import (
	"path"
	"sort"
	"strings"

	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// manifestNames identify a directory as a module root, in no particular
// order of precedence.
var manifestNames = map[string]bool{
	"package.json":   true,
	"Cargo.toml":     true,
	"go.mod":         true,
	"pyproject.toml": true,
	"setup.py":       true,
}

// inferModulePaths returns the sorted module paths for the file list. The
// root module "." is always present. When the root carries a manifest, only
// manifest-rooted directories become modules; otherwise top-level
// directories holding at least one code file are added.
func inferModulePaths(files []FileInfo) []string {
	manifestDirs := make(map[string]bool)
	for _, f := range files {
		if manifestNames[path.Base(f.Path)] {
			manifestDirs[dirOf(f.Path)] = true
		}
	}

	modules := map[string]bool{".": true}
	for dir := range manifestDirs {
		modules[dir] = true
	}

	if !manifestDirs["."] {
		for _, f := range files {
			if !fsutil.IsCodeFile(f.Path) {
				continue
			}
			top := topLevelDir(f.Path)
			if top == "" || modules[top] {
				continue
			}
			if coveredByManifest(top, manifestDirs) {
				continue
			}
			modules[top] = true
		}
	}

	out := make([]string, 0, len(modules))
	for m := range modules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func dirOf(filePath string) string {
	dir := path.Dir(filePath)
	if dir == "" {
		return "."
	}
	return dir
}

func topLevelDir(filePath string) string {
	if idx := strings.Index(filePath, "/"); idx >= 0 {
		return filePath[:idx]
	}
	return ""
}

// coveredByManifest reports whether dir sits at or below a manifest-rooted
// directory.
func coveredByManifest(dir string, manifestDirs map[string]bool) bool {
	for m := range manifestDirs {
		if m == "." {
			continue
		}
		if dir == m || strings.HasPrefix(dir, m+"/") {
			return true
		}
	}
	return false
}
