package repomap

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

const (
	keyFilesPerSubdir = 3
	keyFilesPerModule = 15
	keyFileLOC        = 300
	keyFileImports    = 10
	semanticMinLOC    = 100
)

type semanticPattern struct {
	re    *regexp.Regexp
	boost int
}

// semanticPatterns rank files whose names signal architectural weight.
// Checked in order; the first hit wins.
var semanticPatterns = []semanticPattern{
	{regexp.MustCompile(`Complete\.(tsx|jsx)$`), 300},
	{regexp.MustCompile(`(Client|Server)\.\w+$`), 250},
	{regexp.MustCompile(`(Handler|Manager|Controller|Service)\.\w+$`), 200},
	{regexp.MustCompile(`(Store|Context|Provider|Router|Reducer)\.\w+$`), 150},
	{regexp.MustCompile(`^(types|utils|helpers?|constants?|config)\.\w+$`), 100},
	{regexp.MustCompile(`^index\.\w+$`), 50},
}

// semanticBoost returns the name-pattern bonus for a file, 0 when none.
func semanticBoost(filePath string) int {
	base := path.Base(filePath)
	for _, p := range semanticPatterns {
		if p.re.MatchString(base) {
			return p.boost
		}
	}
	return 0
}

type keyCandidate struct {
	path  string
	score int
	boost int
}

// qualifies applies the key-file gate: big, import-heavy, or semantically
// named with enough substance.
func qualifies(f FileInfo, boost int) bool {
	return f.LOC >= keyFileLOC || f.Imports >= keyFileImports ||
		(boost > 0 && f.LOC >= semanticMinLOC)
}

// rankKeyFiles scores and sorts the qualifying files among candidates.
func rankKeyFiles(candidates []FileInfo) []keyCandidate {
	var ranked []keyCandidate
	for _, f := range candidates {
		boost := semanticBoost(f.Path)
		if !qualifies(f, boost) {
			continue
		}
		ranked = append(ranked, keyCandidate{
			path:  f.Path,
			score: f.LOC + boost,
			boost: boost,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].path < ranked[j].path
	})
	return ranked
}

// subdirKeyFiles picks up to three key files for one subdirectory. When any
// qualifier carries a semantic boost, the top-boosted file is guaranteed a
// slot even if outscored.
func subdirKeyFiles(files []FileInfo, subdirPath string) []string {
	var inDir []FileInfo
	for _, f := range files {
		if strings.HasPrefix(f.Path, subdirPath+"/") {
			inDir = append(inDir, f)
		}
	}
	ranked := rankKeyFiles(inDir)
	if len(ranked) == 0 {
		return []string{}
	}

	topBoosted := -1
	for i, c := range ranked {
		if c.boost > 0 && (topBoosted == -1 || c.boost > ranked[topBoosted].boost) {
			topBoosted = i
		}
	}

	limit := keyFilesPerSubdir
	if limit > len(ranked) {
		limit = len(ranked)
	}
	picked := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		picked = append(picked, ranked[i].path)
	}

	if topBoosted >= limit {
		picked[limit-1] = ranked[topBoosted].path
	}
	return picked
}

// moduleKeyFiles assembles up to fifteen key files for a module:
// round-robin over its subdirectories by rank, then top-up with the
// highest-scoring remaining qualifiers anywhere in the module.
func moduleKeyFiles(modulePath string, files []FileInfo, subdirs []SubDirectory, otherModules []string) []string {
	perSubdir := make([][]string, len(subdirs))
	for i, sd := range subdirs {
		perSubdir[i] = sd.KeyFiles
	}

	chosen := make(map[string]bool)
	out := []string{}

	for rank := 0; len(out) < keyFilesPerModule; rank++ {
		advanced := false
		for _, list := range perSubdir {
			if rank >= len(list) {
				continue
			}
			advanced = true
			if len(out) >= keyFilesPerModule {
				break
			}
			if !chosen[list[rank]] {
				chosen[list[rank]] = true
				out = append(out, list[rank])
			}
		}
		if !advanced {
			break
		}
	}

	if len(out) < keyFilesPerModule {
		var inModule []FileInfo
		for _, f := range files {
			if !inModuleScope(f.Path, modulePath, otherModules) || chosen[f.Path] {
				continue
			}
			inModule = append(inModule, f)
		}
		for _, c := range rankKeyFiles(inModule) {
			if len(out) >= keyFilesPerModule {
				break
			}
			if !chosen[c.path] {
				chosen[c.path] = true
				out = append(out, c.path)
			}
		}
	}

	return out
}

// rootKeyFiles ranks only files directly in the repository root.
func rootKeyFiles(files []FileInfo) []string {
	var direct []FileInfo
	for _, f := range files {
		if !strings.Contains(f.Path, "/") {
			direct = append(direct, f)
		}
	}
	out := []string{}
	for i, c := range rankKeyFiles(direct) {
		if i >= keyFilesPerModule {
			break
		}
		out = append(out, c.path)
	}
	return out
}

func inModuleScope(filePath, modulePath string, otherModules []string) bool {
	if !inModule(filePath, modulePath) {
		return false
	}
	return !ownedByOther(filePath, modulePath, otherModules)
}
