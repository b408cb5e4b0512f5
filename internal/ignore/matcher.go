// Package ignore implements gitignore-style exclusion rules for file
// discovery: built-in excludes, user globs, and per-directory ignore files
// with negation and parent inheritance.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type rule struct {
	pattern  string
	re       *regexp.Regexp
	negated  bool
	dirOnly  bool
	anchored bool
}

// scopedRule binds a rule to the directory whose ignore file declared it.
// base is "" for root-level and user-supplied rules.
type scopedRule struct {
	rule
	base string
}

// Matcher applies gitignore-like rules with "last rule wins" behavior.
// Rules from deeper ignore files are appended after their parents, which
// gives them precedence, matching gitignore inheritance.
type Matcher struct {
	rules    []scopedRule
	builtins []string
}

// NewMatcher builds a matcher from user-provided exclude rules scoped to the
// repository root. The built-in excludes for the git directory and the
// artifact directory always apply and cannot be negated.
func NewMatcher(userRules []string) *Matcher {
	m := &Matcher{builtins: []string{".git", ".ark"}}
	m.AddRules("", userRules)
	return m
}

// AddRules appends rules declared by an ignore file at baseDir (repo-relative,
// forward slashes, "" for the root). Patterns are interpreted relative to
// baseDir, per gitignore semantics.
func (m *Matcher) AddRules(baseDir string, lines []string) {
	baseDir = strings.Trim(normalizePath(baseDir), "/")
	for _, line := range lines {
		if parsed, ok := parseRule(line); ok {
			m.rules = append(m.rules, scopedRule{rule: parsed, base: baseDir})
		}
	}
}

// LoadIgnoreFile reads an ignore file and scopes its rules to baseDir.
// A missing file is not an error.
func (m *Matcher) LoadIgnoreFile(path, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	m.AddRules(baseDir, strings.Split(string(data), "\n"))
	return nil
}

// ShouldIgnore returns true when relPath should be excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)

	// Built-ins exclude at any depth ("**/.git/**" semantics).
	for _, seg := range strings.Split(relPath, "/") {
		for _, builtin := range m.builtins {
			if seg == builtin {
				return true
			}
		}
	}

	ignored := false
	for _, sr := range m.rules {
		sub := relPath
		if sr.base != "" {
			if !strings.HasPrefix(relPath, sr.base+"/") {
				continue
			}
			sub = relPath[len(sr.base)+1:]
		}
		if ruleMatches(sr.rule, sub, isDir) {
			ignored = !sr.negated
		}
	}
	return ignored
}

// MatchGlob reports whether relPath matches a single glob pattern using the
// same dialect as ignore rules ("**" crosses separators, "*" does not).
func MatchGlob(pattern, relPath string) bool {
	parsed, ok := parseRule(pattern)
	if !ok {
		return false
	}
	return ruleMatches(parsed, normalizePath(relPath), false)
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	parsed := rule{}
	if strings.HasPrefix(line, "!") {
		parsed.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		parsed.anchored = true
		line = strings.TrimPrefix(line, "/")
	} else if idx := strings.Index(line, "/"); idx >= 0 && idx != len(line)-1 {
		// A separator anywhere but the end anchors the pattern to the
		// declaring directory, per gitignore.
		parsed.anchored = true
	}
	if strings.HasSuffix(line, "/") {
		parsed.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	parsed.pattern = line
	parsed.re = regexp.MustCompile("^" + globToRegex(line) + "$")
	return parsed, true
}

func ruleMatches(rule rule, relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)

	if rule.dirOnly {
		if matchDirectoryPattern(rule, relPath) {
			return true
		}
		if isDir && rule.re.MatchString(filepath.Base(relPath)) {
			return true
		}
		return false
	}

	if rule.anchored {
		return rule.re.MatchString(relPath)
	}

	if strings.Contains(rule.pattern, "/") {
		if rule.re.MatchString(relPath) {
			return true
		}
		parts := strings.Split(relPath, "/")
		for i := 1; i < len(parts); i++ {
			if rule.re.MatchString(strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	if rule.re.MatchString(filepath.Base(relPath)) {
		return true
	}
	for _, segment := range strings.Split(relPath, "/") {
		if rule.re.MatchString(segment) {
			return true
		}
	}
	return false
}

func matchDirectoryPattern(rule rule, relPath string) bool {
	if rule.anchored {
		if rule.re.MatchString(relPath) {
			return true
		}
		parts := strings.Split(relPath, "/")
		for i := range parts {
			if rule.re.MatchString(strings.Join(parts[:i+1], "/")) {
				return true
			}
		}
		return false
	}

	if relPath == rule.pattern || strings.HasPrefix(relPath, rule.pattern+"/") {
		return true
	}
	parts := strings.Split(relPath, "/")
	for i := range parts {
		if rule.re.MatchString(parts[i]) {
			return true
		}
		if strings.Join(parts[:i+1], "/") == rule.pattern {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]

		if ch == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
				// Collapse "**/" so it also matches zero directories.
				if i+1 < len(pattern) && pattern[i+1] == '/' {
					b.WriteString("/?")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
			continue
		}

		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}

		if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")
	return path
}
