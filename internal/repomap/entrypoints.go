package repomap

import (
	"path"
	"sort"
	"strings"
)

var entrypointTypes = map[string]string{
	"main.ts": EntryExecutable, "main.js": EntryExecutable,
	"main.mjs": EntryExecutable, "main.go": EntryExecutable,
	"main.rs": EntryExecutable, "main.py": EntryExecutable,
	"index.ts": EntryModule, "index.js": EntryModule,
	"index.mjs": EntryModule, "index.py": EntryModule,
	"mod.rs": EntryModule, "__init__.py": EntryModule,
	"lib.ts": EntryLibrary, "lib.js": EntryLibrary, "lib.rs": EntryLibrary,
}

// detectEntrypoints lists the entry files directly inside the module
// directory (no descent). The root module additionally promotes every file
// under bin/ to an executable entrypoint.
func detectEntrypoints(modulePath string, files []FileInfo) []Entrypoint {
	out := []Entrypoint{}
	for _, f := range files {
		dir := dirOf(f.Path)
		if dir != modulePath {
			continue
		}
		if typ, ok := entrypointTypes[path.Base(f.Path)]; ok {
			out = append(out, Entrypoint{Path: f.Path, Type: typ})
		}
	}

	if modulePath == "." {
		for _, f := range files {
			if strings.HasPrefix(f.Path, "bin/") {
				out = append(out, Entrypoint{Path: f.Path, Type: EntryExecutable})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
