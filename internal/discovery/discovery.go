// Package discovery enumerates the files a build indexes. It walks the
// repository with ignore-aware pruning, applies include/exclude globs, size
// and count caps, and the symlink policy, and reports per-file skips instead
// of aborting.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nramsrud/ark-index/internal/fsutil"
	"github.com/Nramsrud/ark-index/internal/ignore"
)

// ErrTooManyFiles is returned when the candidate count exceeds Options.MaxFiles.
var ErrTooManyFiles = errors.New("too many files")

// Options control a discovery pass.
type Options struct {
	Root             string
	IncludeGlobs     []string
	ExcludeGlobs     []string
	MaxFileKB        int
	MaxFiles         int
	RespectGitignore bool
	FollowSymlinks   bool
}

// File is one discovered, in-scope file.
type File struct {
	RelPath string // repo-relative, forward slashes
	AbsPath string
	Size    int64
	ModTime time.Time
}

// Skip records a file excluded by policy rather than by globs.
type Skip struct {
	Path   string
	Reason string
}

// Failure records an I/O error that did not abort the walk.
type Failure struct {
	Path  string
	Error string
}

// Result is the output of one discovery pass.
type Result struct {
	Files   []File
	Skipped []Skip
	Errors  []Failure
}

// ignoreFileName is the repo-root ignore file honored in addition to
// .gitignore files.
const ignoreFileName = ".arkignore"

// Discover walks opts.Root and returns the candidate files in the walker's
// lexical order. The built-in excludes for .git and the artifact directory
// always apply. An include list of ["**/*"] is treated as no filter.
func Discover(opts Options) (*Result, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", opts.Root, err)
	}
	// Containment checks compare resolved targets, so the root itself must
	// be in resolved form too.
	realRoot := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		realRoot = resolved
	}

	matcher := ignore.NewMatcher(opts.ExcludeGlobs)
	if err := matcher.LoadIgnoreFile(filepath.Join(root, ignoreFileName), ""); err != nil {
		return nil, err
	}

	includes := effectiveIncludes(opts.IncludeGlobs)
	result := &Result{}
	candidates := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = fsutil.ToForwardSlashes(rel)

		if err != nil {
			result.Errors = append(result.Errors, Failure{Path: rel, Error: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == "." {
			if opts.RespectGitignore {
				if err := matcher.LoadIgnoreFile(filepath.Join(path, ".gitignore"), ""); err != nil {
					result.Errors = append(result.Errors, Failure{Path: ".gitignore", Error: err.Error()})
				}
			}
			return nil
		}

		if d.IsDir() {
			if matcher.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			if opts.RespectGitignore {
				if err := matcher.LoadIgnoreFile(filepath.Join(path, ".gitignore"), rel); err != nil {
					result.Errors = append(result.Errors, Failure{Path: rel + "/.gitignore", Error: err.Error()})
				}
			}
			return nil
		}

		if matcher.ShouldIgnore(rel, false) {
			return nil
		}

		candidates++
		if opts.MaxFiles > 0 && candidates > opts.MaxFiles {
			return fmt.Errorf("%w: candidate count exceeds limit of %d", ErrTooManyFiles, opts.MaxFiles)
		}

		if !matchesAny(includes, rel) {
			return nil
		}

		statPath := path
		if fsutil.IsSymlink(path) {
			if !opts.FollowSymlinks {
				result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: "symlink"})
				return nil
			}
			target, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: "broken symlink"})
				return nil
			}
			if !strings.HasPrefix(target, realRoot+string(filepath.Separator)) && target != realRoot {
				result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: "symlink target outside repository root"})
				return nil
			}
			statPath = target
		}

		info, statErr := os.Stat(statPath)
		if statErr != nil {
			result.Errors = append(result.Errors, Failure{Path: rel, Error: statErr.Error()})
			result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: "stat failed"})
			return nil
		}

		if opts.MaxFileKB > 0 {
			sizeKB := int((info.Size() + 1023) / 1024)
			if sizeKB > opts.MaxFileKB {
				result.Skipped = append(result.Skipped, Skip{
					Path:   rel,
					Reason: fmt.Sprintf("file too large (%dKB > %dKB)", sizeKB, opts.MaxFileKB),
				})
				return nil
			}
		}

		if fsutil.IsBinary(statPath) {
			result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: "binary file"})
			return nil
		}

		result.Files = append(result.Files, File{
			RelPath: rel,
			AbsPath: path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, ErrTooManyFiles) {
			return nil, walkErr
		}
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	return result, nil
}

// effectiveIncludes drops the degenerate ["**/*"] filter, which would match
// everything at quadratic cost in some glob engines.
func effectiveIncludes(globs []string) []string {
	if len(globs) == 0 {
		return nil
	}
	if len(globs) == 1 && globs[0] == "**/*" {
		return nil
	}
	return globs
}

func matchesAny(globs []string, rel string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if ignore.MatchGlob(g, rel) {
			return true
		}
	}
	return false
}
