// Package repomap infers the structural map of a repository from the
// discovered file list: modules, important subdirectories, key files,
// entrypoints, ownership, build commands, and a directory overview.
//
// Hierarchy building is a pure function of the file list; the only I/O is
// reading README and manifest files for descriptions and build commands,
// and the CODEOWNERS file for ownership.
package repomap

// SchemaVersion of the repo_map artifact.
const SchemaVersion = "1.1.0"

// FileInfo carries the per-file facts the map builder ranks on. LOC and
// Imports are computed by the caller, which already has the content in hand.
type FileInfo struct {
	Path    string // repo-relative, forward slashes
	Size    int64
	LOC     int
	Imports int
}

// RepoMap is the repo_map artifact.
type RepoMap struct {
	SchemaVersion string              `json:"schema_version"`
	Modules       []Module            `json:"modules"`
	Owners        map[string][]string `json:"owners,omitempty"`
	BuildCommands *BuildCommands      `json:"build_commands,omitempty"`
	Overview      Overview            `json:"overview"`
}

// Module is one inferred module. The root module has path ".".
type Module struct {
	Path             string         `json:"path"`
	Description      *string        `json:"description"`
	Entrypoints      []Entrypoint   `json:"entrypoints"`
	KeyFiles         []string       `json:"key_files"`
	SubDirectories   []SubDirectory `json:"subdirectories,omitempty"`
	Responsibilities []string       `json:"responsibilities"`
}

// SubDirectory is a promoted descendant directory of a module.
type SubDirectory struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	FileCount     int      `json:"fileCount"`
	CodeFileCount int      `json:"codeFileCount"`
	KeyFiles      []string `json:"key_files"`
	Description   *string  `json:"description,omitempty"`
}

// Entrypoint types.
const (
	EntryExecutable = "executable"
	EntryModule     = "module"
	EntryLibrary    = "library"
)

// Entrypoint is a well-known entry file of a module.
type Entrypoint struct {
	Path        string  `json:"path"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
}

// BuildCommands holds the canonical commands detected from the root
// manifest. Only populated fields are emitted.
type BuildCommands struct {
	Build    string `json:"build,omitempty"`
	Test     string `json:"test,omitempty"`
	TestFull string `json:"test_full,omitempty"`
}

// Overview summarizes the tree: counts, language histogram, and the largest
// top-level directories.
type Overview struct {
	TotalFiles     int            `json:"total_files"`
	CodeFiles      int            `json:"code_files"`
	Languages      map[string]int `json:"languages"`
	TopDirectories []DirCount     `json:"top_directories"`
}

// DirCount pairs a top-level directory with its file count.
type DirCount struct {
	Path  string `json:"path"`
	Files int    `json:"files"`
}
