package builder

import (
	"path/filepath"
	"sort"

	"github.com/Nramsrud/ark-index/internal/artifact"
	"github.com/Nramsrud/ark-index/internal/extract"
)

// Defaults applied by Normalize.
const (
	DefaultMaxFileKB = 1024
	DefaultMaxFiles  = 50000
)

// LogFunc receives human-readable progress lines. Verbose-only detail goes
// through the same sink.
type LogFunc func(format string, args ...any)

// Options configure one build.
type Options struct {
	RepoRoot string
	// ArkDir is the workspace control directory; artifacts live in its
	// "index" subdirectory. Defaults to {RepoRoot}/.ark.
	ArkDir           string
	Force            bool
	IncludeGlobs     []string
	ExcludeGlobs     []string
	MaxFileKB        int
	MaxFiles         int
	RespectGitignore bool
	FollowSymlinks   bool
	// Adapters builds one adapter chain. A factory rather than a shared
	// chain because tree-sitter parsers are not safe for concurrent use and
	// each extraction worker needs its own instances. Nil means baseline
	// extraction only.
	Adapters    func() []extract.Adapter
	Verbose     bool
	Log         LogFunc
	ToolVersion string
}

// Normalize fills defaults in place and returns the options for chaining.
func (o *Options) Normalize() *Options {
	if o.ArkDir == "" {
		o.ArkDir = filepath.Join(o.RepoRoot, ".ark")
	}
	if len(o.IncludeGlobs) == 0 {
		o.IncludeGlobs = []string{"**/*"}
	}
	if o.MaxFileKB <= 0 {
		o.MaxFileKB = DefaultMaxFileKB
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.Log == nil {
		o.Log = func(string, ...any) {}
	}
	if o.ToolVersion == "" {
		o.ToolVersion = "dev"
	}
	return o
}

// IndexDir is where the artifact set lives.
func (o *Options) IndexDir() string {
	arkDir := o.ArkDir
	if arkDir == "" {
		arkDir = filepath.Join(o.RepoRoot, ".ark")
	}
	return filepath.Join(arkDir, "index")
}

func (o *Options) verbosef(format string, args ...any) {
	if o.Verbose {
		o.Log(format, args...)
	}
}

func (o *Options) adapterNames() []string {
	names := []string{}
	if o.Adapters == nil {
		return names
	}
	for _, a := range o.Adapters() {
		names = append(names, a.Name())
	}
	return names
}

func (o *Options) newAdapters() []extract.Adapter {
	if o.Adapters == nil {
		return nil
	}
	return o.Adapters()
}

// snapshot captures the effective configuration for embedding in meta.
func (o *Options) snapshot(adaptersUsed []string) artifact.ConfigSnapshot {
	if adaptersUsed == nil {
		adaptersUsed = []string{}
	}
	return artifact.ConfigSnapshot{
		IncludeGlobs:     append([]string{}, o.IncludeGlobs...),
		ExcludeGlobs:     append([]string{}, o.ExcludeGlobs...),
		MaxFileKB:        o.MaxFileKB,
		MaxFiles:         o.MaxFiles,
		RespectGitignore: o.RespectGitignore,
		FollowSymlinks:   o.FollowSymlinks,
		Adapters:         o.adapterNames(),
		AdaptersUsed:     adaptersUsed,
	}
}

// configChanged compares the effective config with a previous snapshot.
// Glob lists and the adapter set compare set-wise; any mismatch forces a
// full re-index.
func (o *Options) configChanged(prev *artifact.ConfigSnapshot) bool {
	if prev == nil {
		return true
	}
	if o.MaxFileKB != prev.MaxFileKB || o.RespectGitignore != prev.RespectGitignore {
		return true
	}
	return !sameSet(o.IncludeGlobs, prev.IncludeGlobs) ||
		!sameSet(o.ExcludeGlobs, prev.ExcludeGlobs) ||
		!sameSet(o.adapterNames(), prev.Adapters)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string{}, a...)
	bs := append([]string{}, b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
