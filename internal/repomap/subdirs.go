package repomap

import (
	"path"
	"sort"
	"strings"

	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// importantNames promote a directory regardless of its size.
var importantNames = map[string]bool{
	"components": true, "lib": true, "hooks": true, "utils": true,
	"services": true, "handlers": true, "actions": true, "api": true,
	"store": true, "data": true, "types": true, "models": true,
	"views": true, "controllers": true, "middleware": true, "routes": true,
	"pages": true, "features": true, "modules": true, "core": true,
	"common": true, "shared": true,
}

const (
	maxSubdirsPerModule  = 10
	maxSubdirDepth       = 3
	importantBonus       = 50
	depthBonus           = 10
	largeParentPenalty   = 30
	largeParentThreshold = 20
	promotedCodeFiles    = 6
	importantCodeFiles   = 3
	keepParentDirectCode = 10
)

type dirStats struct {
	path       string // repo-relative
	rel        string // relative to the module
	depth      int
	fileCount  int
	codeCount  int // recursive
	directCode int // direct children only
}

// detectSubdirectories finds the promoted subdirectories of a non-root
// module. otherModules are the remaining module paths; their subtrees are
// excluded.
func detectSubdirectories(modulePath string, files []FileInfo, otherModules []string) []SubDirectory {
	stats := collectDirStats(modulePath, files, otherModules)
	if len(stats) == 0 {
		return nil
	}

	important := make(map[string]bool)
	for _, d := range stats {
		if importantNames[path.Base(d.path)] || d.codeCount >= importantCodeFiles {
			important[d.path] = true
		}
	}

	// Children of a large important parent earn promotion on their own
	// merits at a lower threshold.
	for _, d := range stats {
		if important[d.path] {
			continue
		}
		parent := path.Dir(d.path)
		pstats, ok := statByPath(stats, parent)
		if !ok || !important[parent] || pstats.codeCount < largeParentThreshold {
			continue
		}
		if importantNames[path.Base(d.path)] || d.codeCount >= promotedCodeFiles {
			important[d.path] = true
		}
	}

	hasImportantChild := make(map[string]bool)
	for _, d := range stats {
		if important[d.path] {
			hasImportantChild[path.Dir(d.path)] = true
		}
	}

	type scored struct {
		dirStats
		score int
	}
	var candidates []scored
	for _, d := range stats {
		if !important[d.path] {
			continue
		}
		score := d.codeCount + importantBonus
		if d.depth > 1 {
			score += depthBonus
		}
		if d.codeCount >= largeParentThreshold && hasImportantChild[d.path] {
			score -= largeParentPenalty
		}
		candidates = append(candidates, scored{dirStats: d, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].path < candidates[j].path
	})

	// Prefer the specific child over its parent: the parent stays only when
	// it holds enough code of its own.
	selected := make(map[string]bool)
	var out []SubDirectory
	for _, c := range candidates {
		if len(out) >= maxSubdirsPerModule {
			break
		}
		childSelected := false
		for sel := range selected {
			if strings.HasPrefix(sel, c.path+"/") {
				childSelected = true
				break
			}
		}
		if childSelected && c.directCode < keepParentDirectCode {
			continue
		}
		// The same rule applies to ancestors selected before this child.
		kept := out[:0]
		for _, sd := range out {
			if strings.HasPrefix(c.path, sd.Path+"/") {
				if ps, ok := statByPath(stats, sd.Path); ok && ps.directCode < keepParentDirectCode {
					delete(selected, sd.Path)
					continue
				}
			}
			kept = append(kept, sd)
		}
		out = kept
		selected[c.path] = true
		out = append(out, SubDirectory{
			Name:          path.Base(c.path),
			Path:          c.path,
			FileCount:     c.fileCount,
			CodeFileCount: c.codeCount,
			KeyFiles:      []string{},
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// collectDirStats gathers every descendant directory of modulePath up to
// maxSubdirDepth, excluding other modules' subtrees.
func collectDirStats(modulePath string, files []FileInfo, otherModules []string) []dirStats {
	byPath := make(map[string]*dirStats)

	for _, f := range files {
		if !inModule(f.Path, modulePath) {
			continue
		}
		if ownedByOther(f.Path, modulePath, otherModules) {
			continue
		}
		rel := strings.TrimPrefix(f.Path, modulePath+"/")

		segments := strings.Split(rel, "/")
		if len(segments) < 2 {
			continue // file directly in the module directory
		}
		dirSegments := segments[:len(segments)-1]
		if len(dirSegments) > maxSubdirDepth {
			dirSegments = dirSegments[:maxSubdirDepth]
		}

		isCode := fsutil.IsCodeFile(f.Path)
		for depth := 1; depth <= len(dirSegments); depth++ {
			dirRel := strings.Join(dirSegments[:depth], "/")
			dirPath := modulePath + "/" + dirRel
			d, ok := byPath[dirPath]
			if !ok {
				d = &dirStats{path: dirPath, rel: dirRel, depth: depth}
				byPath[dirPath] = d
			}
			d.fileCount++
			if isCode {
				d.codeCount++
				if depth == len(segments)-1 {
					d.directCode++
				}
			}
		}
	}

	out := make([]dirStats, 0, len(byPath))
	for _, d := range byPath {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func statByPath(stats []dirStats, p string) (dirStats, bool) {
	for _, d := range stats {
		if d.path == p {
			return d, true
		}
	}
	return dirStats{}, false
}

func inModule(filePath, modulePath string) bool {
	if modulePath == "." {
		return true
	}
	return strings.HasPrefix(filePath, modulePath+"/")
}

// ownedByOther reports whether filePath belongs to a different, more
// specific module than modulePath.
func ownedByOther(filePath, modulePath string, otherModules []string) bool {
	for _, other := range otherModules {
		if other == "." || other == modulePath {
			continue
		}
		if !strings.HasPrefix(other, modulePath+"/") && modulePath != "." {
			continue
		}
		if strings.HasPrefix(filePath, other+"/") {
			return true
		}
	}
	return false
}
