// Package ledger tracks per-file content hashes between builds and derives
// change verdicts that drive incremental reuse.
package ledger

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Nramsrud/ark-index/internal/discovery"
	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// SchemaVersion of the file_hashes artifact.
const SchemaVersion = "1.0.0"

// Entry is one ledger record.
type Entry struct {
	Hash  string `json:"hash"`  // "sha256:" + 64 hex
	Mtime string `json:"mtime"` // ISO-8601
	Size  int64  `json:"size"`  // bytes
}

// Ledger is the file_hashes artifact.
type Ledger struct {
	SchemaVersion string           `json:"schema_version"`
	GitCommit     *string          `json:"git_commit"`
	Files         map[string]Entry `json:"files"`
}

// Verdict classifies one file against the previous ledger.
type Verdict string

const (
	VerdictNew       Verdict = "new"
	VerdictChanged   Verdict = "changed"
	VerdictUnchanged Verdict = "unchanged"
	VerdictDeleted   Verdict = "deleted"
)

// Changes is the outcome of one analysis pass.
type Changes struct {
	Verdicts map[string]Verdict
	// Hashes holds every hash established during analysis: freshly computed
	// for new/changed files, carried over for unchanged ones.
	Hashes  map[string]string
	Deleted []string
}

// FormatMtime renders a modification time the way the ledger stores it.
// Quick-check comparison is string equality on this form.
func FormatMtime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Load reads a previous ledger. A missing or corrupt file yields nil, which
// callers treat as "no prior ledger" (forcing a full re-index).
func Load(path string) *Ledger {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil
	}
	if l.Files == nil {
		l.Files = make(map[string]Entry)
	}
	return &l
}

// Analyze classifies each discovered file against prev using the two-tier
// test: the mtime+size quick check first, then a content hash. A nil prev
// marks everything new.
func Analyze(files []discovery.File, prev *Ledger) Changes {
	changes := Changes{
		Verdicts: make(map[string]Verdict, len(files)),
		Hashes:   make(map[string]string, len(files)),
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f.RelPath] = true

		var prevEntry Entry
		ok := false
		if prev != nil {
			prevEntry, ok = prev.Files[f.RelPath]
		}
		if !ok {
			changes.Verdicts[f.RelPath] = VerdictNew
			if hash, err := fsutil.HashFile(f.AbsPath); err == nil {
				changes.Hashes[f.RelPath] = hash
			}
			continue
		}

		if prevEntry.Mtime == FormatMtime(f.ModTime) && prevEntry.Size == f.Size {
			changes.Verdicts[f.RelPath] = VerdictUnchanged
			changes.Hashes[f.RelPath] = prevEntry.Hash
			continue
		}

		hash, err := fsutil.HashFile(f.AbsPath)
		if err != nil {
			// Unreadable content counts as changed; extraction reports the
			// read failure downstream.
			changes.Verdicts[f.RelPath] = VerdictChanged
			continue
		}
		changes.Hashes[f.RelPath] = hash
		if hash == prevEntry.Hash {
			// Stats drifted but content did not.
			changes.Verdicts[f.RelPath] = VerdictUnchanged
		} else {
			changes.Verdicts[f.RelPath] = VerdictChanged
		}
	}

	if prev != nil {
		for path := range prev.Files {
			if !seen[path] {
				changes.Deleted = append(changes.Deleted, path)
			}
		}
	}
	return changes
}

// Rebuild produces the next ledger from the surviving files: fresh stats for
// every survivor, hashes from the analysis pass (recomputed here only when
// analysis could not establish one), deleted entries dropped.
func Rebuild(files []discovery.File, hashes map[string]string, gitCommit *string) *Ledger {
	next := &Ledger{
		SchemaVersion: SchemaVersion,
		GitCommit:     gitCommit,
		Files:         make(map[string]Entry, len(files)),
	}
	for _, f := range files {
		hash, ok := hashes[f.RelPath]
		if !ok {
			computed, err := fsutil.HashFile(f.AbsPath)
			if err != nil {
				continue
			}
			hash = computed
		}
		next.Files[f.RelPath] = Entry{
			Hash:  hash,
			Mtime: FormatMtime(f.ModTime),
			Size:  f.Size,
		}
	}
	return next
}
