// Package testmap catalogs the repository's tests: which files are tests,
// what framework runs them, the individual test names, and coarse tier/tag
// classification.
//
// Name parsing is line-regex based with no comment awareness, so
// commented-out tests are indexed. That is a stated trade-off: the catalog
// answers "which tests cover this area", not "which tests will run".
package testmap

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// SchemaVersion of the test_map artifact.
const SchemaVersion = "1.0.0"

// Frameworks.
const (
	FrameworkGo     = "go"
	FrameworkRust   = "rust"
	FrameworkPytest = "pytest"
	FrameworkJest   = "jest"
)

// Tiers.
const (
	TierFast        = "fast"
	TierSlow        = "slow"
	TierIntegration = "integration"
)

// TestMap is the test_map artifact.
type TestMap struct {
	SchemaVersion string      `json:"schema_version"`
	Tests         []TestEntry `json:"tests"`
}

// TestEntry is one cataloged test. Name is null when no test parsed out of
// a detected test file.
type TestEntry struct {
	TestID       string   `json:"test_id"`
	File         string   `json:"file"`
	Name         *string  `json:"name"`
	Tags         []string `json:"tags"`
	Tier         string   `json:"tier"`
	FilesTouched []string `json:"files_touched"`
	Packages     []string `json:"packages"`
}

// New wraps scanned entries into the artifact.
func New(entries []TestEntry) *TestMap {
	if entries == nil {
		entries = []TestEntry{}
	}
	return &TestMap{SchemaVersion: SchemaVersion, Tests: entries}
}

var testBasenames = []*regexp.Regexp{
	regexp.MustCompile(`\.test\.[jt]sx?$`),
	regexp.MustCompile(`\.spec\.[jt]sx?$`),
	regexp.MustCompile(`_test\.[jt]sx?$`),
	regexp.MustCompile(`_spec\.[jt]sx?$`),
	regexp.MustCompile(`_test\.py$`),
	regexp.MustCompile(`^test_.*\.py$`),
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`_test\.rs$`),
	regexp.MustCompile(`^tests\.rs$`),
}

var testSegments = map[string]bool{
	"__tests__": true, "tests": true, "test": true, "spec": true,
	"specs": true, "__test__": true, "__spec__": true, "__specs__": true,
}

// IsTestFile reports whether a code file looks like a test by basename or
// by living under a test directory.
func IsTestFile(relPath string) bool {
	if !fsutil.IsCodeFile(relPath) {
		return false
	}
	base := path.Base(relPath)
	for _, re := range testBasenames {
		if re.MatchString(base) {
			return true
		}
	}
	segments := strings.Split(relPath, "/")
	for _, seg := range segments[:len(segments)-1] {
		if testSegments[seg] {
			return true
		}
	}
	return false
}

// FrameworkOf maps a test file to the framework whose syntax is parsed.
// The jest patterns cover the whole Jest/Mocha/Vitest family.
func FrameworkOf(relPath string) string {
	switch fsutil.LanguageOf(relPath) {
	case fsutil.LangGo:
		return FrameworkGo
	case fsutil.LangRust:
		return FrameworkRust
	case fsutil.LangPython:
		return FrameworkPytest
	case fsutil.LangTypeScript, fsutil.LangJavaScript:
		return FrameworkJest
	default:
		return ""
	}
}

type parsedTest struct {
	name string // "" when unnamed
	line int    // 0 when unknown
}

var (
	reJestCase   = regexp.MustCompile("(?:describe|it|test)\\s*\\(\\s*['\"`](.+?)['\"`]")
	rePytestCase = regexp.MustCompile(`^def\s+(test_\w*)\s*\(`)
	reGoCase     = regexp.MustCompile(`^func\s+(Test\w*)\s*\(`)
	reRustAttr   = regexp.MustCompile(`^\s*#\[test\]`)
	reRustFn     = regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?fn\s+(\w+)\s*\(`)
)

// parseTests extracts test names per framework, line by line.
func parseTests(framework string, content []byte) []parsedTest {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	var tests []parsedTest

	switch framework {
	case FrameworkJest:
		for i, line := range lines {
			if m := reJestCase.FindStringSubmatch(line); m != nil {
				tests = append(tests, parsedTest{name: m[1], line: i + 1})
			}
		}
	case FrameworkPytest:
		for i, line := range lines {
			if m := rePytestCase.FindStringSubmatch(line); m != nil {
				tests = append(tests, parsedTest{name: m[1], line: i + 1})
			}
		}
	case FrameworkGo:
		for i, line := range lines {
			if m := reGoCase.FindStringSubmatch(line); m != nil {
				tests = append(tests, parsedTest{name: m[1], line: i + 1})
			}
		}
	case FrameworkRust:
		pending := false
		for i, line := range lines {
			if reRustAttr.MatchString(line) {
				pending = true
				continue
			}
			if !pending {
				continue
			}
			if m := reRustFn.FindStringSubmatch(line); m != nil {
				tests = append(tests, parsedTest{name: m[1], line: i + 1})
				pending = false
			}
		}
	}
	return tests
}

// ScanFile catalogs one detected test file. Files with no parseable tests
// still yield one unnamed placeholder entry.
func ScanFile(relPath string, content []byte) []TestEntry {
	framework := FrameworkOf(relPath)
	parsed := parseTests(framework, content)

	if len(parsed) == 0 {
		parsed = []parsedTest{{}}
	}

	entries := make([]TestEntry, 0, len(parsed))
	unnamed := 0
	for _, p := range parsed {
		entry := TestEntry{
			File:         relPath,
			Tags:         tagsFor(relPath, p.name),
			Tier:         tierFor(relPath, p.name),
			FilesTouched: []string{},
			Packages:     packagesFor(relPath),
		}
		if p.name != "" {
			name := p.name
			entry.Name = &name
			entry.TestID = relPath + "::" + name
		} else {
			unnamed++
			if p.line > 0 {
				entry.TestID = fmt.Sprintf("%s::unnamed_test:L%d", relPath, p.line)
			} else {
				entry.TestID = fmt.Sprintf("%s::unnamed_test:%d", relPath, unnamed)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// tierFor classifies runtime: integration beats slow beats fast.
func tierFor(relPath, name string) string {
	haystack := strings.ToLower(relPath + " " + name)
	if strings.Contains(haystack, "integration") || strings.Contains(haystack, "e2e") {
		return TierIntegration
	}
	for _, marker := range []string{"slow", "benchmark", "perf"} {
		if strings.Contains(haystack, marker) {
			return TierSlow
		}
	}
	return TierFast
}

var knownTags = []string{
	"unit", "integration", "e2e", "smoke", "regression", "api", "ui", "component",
}

func tagsFor(relPath, name string) []string {
	haystack := strings.ToLower(relPath + " " + name)
	tags := []string{}
	for _, tag := range knownTags {
		if strings.Contains(haystack, tag) {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

var structuralSegments = map[string]bool{
	"src": true, "lib": true, "pkg": true, "internal": true, "cmd": true,
	"__tests__": true, "tests": true, "test": true, "spec": true, "specs": true,
}

// packagesFor guesses the owning package: the first path component that is
// neither structural nor file-like. Scoped npm packages are recognized
// after a node_modules component.
func packagesFor(relPath string) []string {
	segments := strings.Split(relPath, "/")

	for i, seg := range segments[:len(segments)-1] {
		if seg == "node_modules" && i+2 < len(segments) && strings.HasPrefix(segments[i+1], "@") {
			return []string{segments[i+1] + "/" + segments[i+2]}
		}
	}

	for _, seg := range segments[:len(segments)-1] {
		if structuralSegments[seg] || strings.Contains(seg, ".") {
			continue
		}
		return []string{seg}
	}
	return []string{}
}
