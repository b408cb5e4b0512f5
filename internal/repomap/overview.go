package repomap

import (
	"sort"

	"github.com/Nramsrud/ark-index/internal/fsutil"
)

const maxTopDirectories = 10

// buildOverview computes the directory overview: totals, a language
// histogram keyed by resolved language name, and the ten largest top-level
// directories.
func buildOverview(files []FileInfo) Overview {
	overview := Overview{
		TotalFiles: len(files),
		Languages:  make(map[string]int),
	}

	topDirs := make(map[string]int)
	for _, f := range files {
		if lang := fsutil.LanguageOf(f.Path); lang != fsutil.LangUnknown {
			overview.CodeFiles++
			overview.Languages[lang]++
		}
		if top := topLevelDir(f.Path); top != "" {
			topDirs[top]++
		}
	}

	dirs := make([]DirCount, 0, len(topDirs))
	for dir, count := range topDirs {
		dirs = append(dirs, DirCount{Path: dir, Files: count})
	}
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].Files != dirs[j].Files {
			return dirs[i].Files > dirs[j].Files
		}
		return dirs[i].Path < dirs[j].Path
	})
	if len(dirs) > maxTopDirectories {
		dirs = dirs[:maxTopDirectories]
	}
	overview.TopDirectories = dirs
	return overview
}
