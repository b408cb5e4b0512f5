// Package builder orchestrates one index build: discovery, change analysis,
// symbol extraction with incremental reuse, map building, and the atomic
// artifact commit.
package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Nramsrud/ark-index/internal/artifact"
	"github.com/Nramsrud/ark-index/internal/discovery"
	"github.com/Nramsrud/ark-index/internal/extract"
	"github.com/Nramsrud/ark-index/internal/gitinfo"
	"github.com/Nramsrud/ark-index/internal/ledger"
	"github.com/Nramsrud/ark-index/internal/repomap"
	"github.com/Nramsrud/ark-index/internal/testmap"
)

// Result is what a build reports back to the invoker.
type Result struct {
	Success  bool               `json:"success"`
	Error    *Error             `json:"error,omitempty"`
	Stats    artifact.Stats     `json:"stats"`
	Warnings []artifact.Warning `json:"warnings"`
}

// fileWork is the per-file output of the parallel read/extract phase.
type fileWork struct {
	info        repomap.FileInfo
	symbols     []extract.Symbol
	testEntries []testmap.TestEntry
	usedAdapter string
	warning     *artifact.Warning
	readFailed  bool
}

// Build runs one complete index build against opts.RepoRoot.
func Build(opts Options) Result {
	opts.Normalize()
	start := time.Now()

	root, err := filepath.Abs(opts.RepoRoot)
	if err != nil {
		return fail(newError(CodeReadError, "resolve repo root: %v", err))
	}

	gitCommit := gitinfo.Head(root)
	indexDir := opts.IndexDir()
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return fail(newError(CodeWriteError, "create index dir: %v", err))
	}

	var prevMeta *artifact.Meta
	var prevLedger *ledger.Ledger
	var prevSymbols map[string][]extract.Symbol
	if !opts.Force {
		prevMeta = loadPreviousMeta(indexDir)
		prevLedger = ledger.Load(filepath.Join(indexDir, artifact.FileHashesFile))
		prevSymbols = loadPreviousSymbols(filepath.Join(indexDir, artifact.SymbolsFile))
	}

	// A missing or corrupt piece of the cache degrades to a full re-index;
	// reuse is only safe when meta, ledger, and symbol stream all loaded.
	fullReindex := opts.Force || prevMeta == nil || prevLedger == nil || prevSymbols == nil
	if !fullReindex && opts.configChanged(&prevMeta.Config) {
		opts.verbosef("config changed since last build, forcing full re-index")
		fullReindex = true
	}

	disc, err := discovery.Discover(discovery.Options{
		Root:             root,
		IncludeGlobs:     opts.IncludeGlobs,
		ExcludeGlobs:     opts.ExcludeGlobs,
		MaxFileKB:        opts.MaxFileKB,
		MaxFiles:         opts.MaxFiles,
		RespectGitignore: opts.RespectGitignore,
		FollowSymlinks:   opts.FollowSymlinks,
	})
	if err != nil {
		if errors.Is(err, discovery.ErrTooManyFiles) {
			return fail(newError(CodeTooManyFiles, "%v", err))
		}
		return fail(newError(CodeReadError, "discovery: %v", err))
	}

	warnings := []artifact.Warning{}
	for _, s := range disc.Skipped {
		warnings = append(warnings, artifact.Warning{
			Code: WarnFileSkipped, File: s.Path, Message: s.Reason,
		})
	}
	for _, e := range disc.Errors {
		opts.verbosef("discovery error: %s: %s", e.Path, e.Error)
	}

	var changes ledger.Changes
	if fullReindex {
		changes = ledger.Analyze(disc.Files, nil)
	} else {
		changes = ledger.Analyze(disc.Files, prevLedger)
	}

	toIndex := make(map[string]bool, len(disc.Files))
	changedCount := len(changes.Deleted)
	for path, verdict := range changes.Verdicts {
		if verdict == ledger.VerdictNew || verdict == ledger.VerdictChanged {
			toIndex[path] = true
			changedCount++
		}
	}
	opts.verbosef("discovered %d files, %d to index, %d deleted",
		len(disc.Files), len(toIndex), len(changes.Deleted))

	work := processFiles(&opts, disc.Files, toIndex)

	// Serial assembly in discovery order keeps the symbol stream and the
	// emitted ID sequence deterministic.
	symbols := []extract.Symbol{}
	infos := make([]repomap.FileInfo, 0, len(disc.Files))
	testEntries := []testmap.TestEntry{}
	seenIDs := make(map[string]bool)
	adaptersUsed := map[string]bool{}

	for i, f := range disc.Files {
		w := work[i]
		if w.warning != nil {
			warnings = append(warnings, *w.warning)
		}
		if w.readFailed {
			continue
		}
		infos = append(infos, w.info)
		testEntries = append(testEntries, w.testEntries...)
		if w.usedAdapter != "" {
			adaptersUsed[w.usedAdapter] = true
		}

		fileSymbols := w.symbols
		if !toIndex[f.RelPath] && prevSymbols != nil {
			if cached, ok := prevSymbols[f.RelPath]; ok {
				fileSymbols = cached
			}
		}
		for _, sym := range fileSymbols {
			if seenIDs[sym.SymbolID] {
				continue
			}
			seenIDs[sym.SymbolID] = true
			symbols = append(symbols, sym)
		}
	}

	repoMap := repomap.Build(root, infos)
	testMap := testmap.New(testEntries)
	newLedger := ledger.Rebuild(disc.Files, changes.Hashes, gitCommit)

	status := artifact.StatusSuccess
	if len(warnings) > 0 {
		status = artifact.StatusPartial
	}

	stats := artifact.Stats{
		TotalFiles:   len(newLedger.Files),
		TotalSymbols: len(symbols),
		TotalTests:   len(testMap.Tests),
		TotalModules: len(repoMap.Modules),
		Incremental:  !fullReindex,
		FilesChanged: changedCount,
		DurationMS:   time.Since(start).Milliseconds(),
	}

	meta := &artifact.Meta{
		SchemaVersion: artifact.MetaSchemaVersion,
		ToolVersion:   opts.ToolVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		RepoRoot:      root,
		GitCommit:     gitCommit,
		Status:        status,
		Stats:         stats,
		Config:        opts.snapshot(orderedAdapters(&opts, adaptersUsed)),
		Warnings:      warnings,
	}

	set := &artifact.Set{
		Meta:    meta,
		RepoMap: repoMap,
		Symbols: symbols,
		TestMap: testMap,
		Ledger:  newLedger,
	}
	if err := artifact.WriteSet(indexDir, set); err != nil {
		return fail(newError(CodeWriteError, "%v", err))
	}

	return Result{Success: true, Stats: stats, Warnings: warnings}
}

// processFiles reads and analyzes every discovered file with a worker pool:
// metrics and test scanning for all files, symbol extraction only for those
// in toIndex. Results land at the file's discovery position.
func processFiles(opts *Options, files []discovery.File, toIndex map[string]bool) []fileWork {
	work := make([]fileWork, len(files))
	if len(files) == 0 {
		return work
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	indexCh := make(chan int, len(files))
	for i := range files {
		indexCh <- i
	}
	close(indexCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each worker owns its registry: tree-sitter parser state must
			// not be shared across goroutines.
			registry := extract.NewRegistry(opts.newAdapters())
			for i := range indexCh {
				work[i] = processOne(registry, files[i], toIndex[files[i].RelPath])
			}
		}()
	}
	wg.Wait()
	return work
}

func processOne(registry *extract.Registry, f discovery.File, index bool) fileWork {
	w := fileWork{}

	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		w.readFailed = true
		w.warning = &artifact.Warning{
			Code: WarnExtractionError, File: f.RelPath, Message: err.Error(),
		}
		return w
	}

	w.info = repomap.FileInfo{
		Path:    f.RelPath,
		Size:    f.Size,
		LOC:     repomap.CountLOC(content),
		Imports: repomap.CountImports(f.RelPath, content),
	}

	if testmap.IsTestFile(f.RelPath) {
		w.testEntries = testmap.ScanFile(f.RelPath, content)
	}

	if index {
		symbols, usedAdapter, err := registry.ExtractFile(f.RelPath, content)
		if err != nil {
			w.warning = &artifact.Warning{
				Code: WarnExtractionError, File: f.RelPath, Message: err.Error(),
			}
			return w
		}
		w.symbols = symbols
		w.usedAdapter = usedAdapter
	}
	return w
}

func fail(err *Error) Result {
	return Result{Success: false, Error: err, Warnings: []artifact.Warning{}}
}

func loadPreviousMeta(dir string) *artifact.Meta {
	data, err := os.ReadFile(filepath.Join(dir, artifact.MetaFile))
	if err != nil {
		return nil
	}
	var meta artifact.Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}

// loadPreviousSymbols groups the cached symbol stream by file so unchanged
// files can inherit their records. A corrupt stream yields nil, which
// degrades to fresh extraction.
func loadPreviousSymbols(path string) map[string][]extract.Symbol {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	byFile := make(map[string][]extract.Symbol)
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var sym extract.Symbol
		if err := dec.Decode(&sym); err != nil {
			return nil
		}
		byFile[sym.File] = append(byFile[sym.File], sym)
	}
	return byFile
}

// orderedAdapters renders the used-adapter set in configured chain order.
func orderedAdapters(opts *Options, used map[string]bool) []string {
	out := []string{}
	for _, name := range opts.adapterNames() {
		if used[name] {
			out = append(out, name)
		}
	}
	return out
}
