package repomap

import (
	"os"
	"path/filepath"
	"strings"
)

// codeownersLocations in lookup order; the first existing file wins.
var codeownersLocations = []string{
	"CODEOWNERS",
	".github/CODEOWNERS",
	"docs/CODEOWNERS",
}

// parseOwners reads the repository's CODEOWNERS file into a pattern→owners
// map. Returns nil when no file exists or nothing parses.
func parseOwners(root string) map[string][]string {
	for _, loc := range codeownersLocations {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(loc)))
		if err != nil {
			continue
		}
		return parseOwnersContent(string(data))
	}
	return nil
}

func parseOwnersContent(content string) map[string][]string {
	owners := make(map[string][]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pattern := fields[0]
		if strings.HasPrefix(pattern, "@") {
			continue
		}
		var list []string
		for _, f := range fields[1:] {
			if strings.HasPrefix(f, "@") {
				list = append(list, f)
			}
		}
		if len(list) > 0 {
			owners[pattern] = list
		}
	}
	if len(owners) == 0 {
		return nil
	}
	return owners
}
