// Package artifact defines the five on-disk index files, the crash-safe
// writer that commits them, and the offline verifier that checks a cached
// set without re-indexing.
package artifact

import (
	"github.com/Nramsrud/ark-index/internal/extract"
	"github.com/Nramsrud/ark-index/internal/ledger"
	"github.com/Nramsrud/ark-index/internal/repomap"
	"github.com/Nramsrud/ark-index/internal/testmap"
)

// MetaSchemaVersion of the meta artifact. The verifier accepts any version
// sharing the same major component.
const MetaSchemaVersion = "1.0.0"

// Artifact file names inside the index directory.
const (
	MetaFile       = "meta.json"
	RepoMapFile    = "repo_map.json"
	SymbolsFile    = "symbols.jsonl"
	TestMapFile    = "test_map.json"
	FileHashesFile = "file_hashes.json"
)

// Build status values. StatusFailed is part of the taxonomy but is never
// persisted: fatal paths abort before meta is renamed in.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Stats summarizes one build inside meta.
type Stats struct {
	TotalFiles   int   `json:"total_files"`
	TotalSymbols int   `json:"total_symbols"`
	TotalTests   int   `json:"total_tests"`
	TotalModules int   `json:"total_modules"`
	Incremental  bool  `json:"incremental"`
	FilesChanged int   `json:"files_changed"`
	DurationMS   int64 `json:"duration_ms"`
}

// ConfigSnapshot embeds the effective build configuration in meta so the
// next run can detect config drift and force a full re-index.
type ConfigSnapshot struct {
	IncludeGlobs     []string `json:"include_globs"`
	ExcludeGlobs     []string `json:"exclude_globs"`
	MaxFileKB        int      `json:"max_file_kb"`
	MaxFiles         int      `json:"max_files"`
	RespectGitignore bool     `json:"respect_gitignore"`
	FollowSymlinks   bool     `json:"follow_symlinks"`
	Adapters         []string `json:"adapters"`
	AdaptersUsed     []string `json:"adapters_used"`
}

// Warning is a machine-readable, non-fatal diagnostic from a build.
type Warning struct {
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

// Meta is the completion marker: its presence with a success or partial
// status is the only signal that the artifact set is usable.
type Meta struct {
	SchemaVersion string         `json:"schema_version"`
	ToolVersion   string         `json:"tool_version"`
	GeneratedAt   string         `json:"generated_at"`
	RepoRoot      string         `json:"repo_root"`
	GitCommit     *string        `json:"git_commit"`
	Status        string         `json:"status"`
	Stats         Stats          `json:"stats"`
	Config        ConfigSnapshot `json:"config"`
	Warnings      []Warning      `json:"warnings"`
}

// Set is one complete artifact set ready to commit.
type Set struct {
	Meta    *Meta
	RepoMap *repomap.RepoMap
	Symbols []extract.Symbol
	TestMap *testmap.TestMap
	Ledger  *ledger.Ledger
}
