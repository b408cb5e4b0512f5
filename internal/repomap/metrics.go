package repomap

import (
	"strings"

	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// locCap bounds the counted lines so a generated megafile cannot dominate
// every ranking.
const locCap = 100000

// CountLOC counts non-blank, non-comment lines, capped at locCap. Comment
// detection is the line-prefix kind; block comments count only on their
// marker lines.
func CountLOC(content []byte) int {
	loc := 0
	for _, line := range strings.Split(string(content), "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "#") ||
			strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*") {
			continue
		}
		loc++
		if loc >= locCap {
			return locCap
		}
	}
	return loc
}

var importPrefixes = map[string][]string{
	fsutil.LangTypeScript: {"import ", "export * from", "const ", "require("},
	fsutil.LangJavaScript: {"import ", "export * from", "const ", "require("},
	fsutil.LangPython:     {"import ", "from "},
	fsutil.LangRust:       {"use "},
	fsutil.LangGo:         {"import "},
	fsutil.LangRuby:       {"require ", "require_relative "},
	fsutil.LangJava:       {"import "},
	fsutil.LangC:          {"#include"},
	fsutil.LangCPP:        {"#include"},
}

// CountImports counts import-like lines using language-specific prefixes.
// Go import blocks contribute one per quoted path line.
func CountImports(path string, content []byte) int {
	lang := fsutil.LanguageOf(path)
	prefixes, ok := importPrefixes[lang]
	if !ok {
		return 0
	}

	count := 0
	inGoBlock := false
	for _, line := range strings.Split(string(content), "\n") {
		t := strings.TrimSpace(line)

		if lang == fsutil.LangGo {
			if inGoBlock {
				if t == ")" {
					inGoBlock = false
					continue
				}
				if strings.Contains(t, `"`) {
					count++
				}
				continue
			}
			if strings.HasPrefix(t, "import (") {
				inGoBlock = true
				continue
			}
		}

		for _, prefix := range prefixes {
			if prefix == "const " || prefix == "require(" {
				// JS require form: const x = require("...")
				if strings.HasPrefix(t, "const ") && strings.Contains(t, "require(") {
					count++
					break
				}
				continue
			}
			if strings.HasPrefix(t, prefix) {
				count++
				break
			}
		}
	}
	return count
}
