package extract

import (
	"regexp"
	"strings"
)

var (
	rePyClass    = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`)
	rePyDef      = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	rePyConstant = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)\s*=`)
)

// ExtractPython pulls module-level functions, classes, one level of methods,
// and ALL_CAPS constants from Python source. The current class is tracked by
// indentation.
func ExtractPython(src []byte) []RawSymbol {
	lines := splitLines(src)
	var symbols []RawSymbol

	currentClass := ""
	methodIndent := -1 // indent width of defs directly inside the class

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentWidth(line)

		// Any code back at column zero ends the class scope.
		if indent == 0 && currentClass != "" && !strings.HasPrefix(strings.TrimSpace(line), "#") {
			currentClass = ""
			methodIndent = -1
		}

		if m := rePyClass.FindStringSubmatch(line); m != nil {
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindClass,
				Visibility: pyVisibility(m[1]),
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        pyDocstring(lines, i),
			})
			currentClass = m[1]
			methodIndent = -1
			continue
		}

		if m := rePyDef.FindStringSubmatch(line); m != nil {
			name := m[2]
			if indent == 0 {
				symbols = append(symbols, RawSymbol{
					Name:       name,
					Kind:       KindFunction,
					Visibility: pyVisibility(name),
					Line:       i + 1,
					Signature:  signatureHead(lines, i),
					Doc:        pyDocstring(lines, i),
				})
				continue
			}
			if currentClass == "" {
				continue
			}
			if methodIndent == -1 {
				methodIndent = indent
			}
			// Only one level into the class; nested defs are deeper.
			if indent == methodIndent {
				symbols = append(symbols, RawSymbol{
					Name:       name,
					Container:  currentClass,
					Kind:       KindMethod,
					Visibility: pyVisibility(name),
					Line:       i + 1,
					Signature:  signatureHead(lines, i),
					Doc:        pyDocstring(lines, i),
				})
			}
			continue
		}

		if indent == 0 {
			if m := rePyConstant.FindStringSubmatch(line); m != nil {
				symbols = append(symbols, RawSymbol{
					Name:       m[1],
					Kind:       KindConstant,
					Visibility: VisExport,
					Line:       i + 1,
					Signature:  bareLine(line),
				})
			}
		}
	}

	return symbols
}

func pyVisibility(name string) string {
	switch {
	case strings.HasPrefix(name, "__"):
		return VisPrivate
	case strings.HasPrefix(name, "_"):
		return VisInternal
	default:
		return VisExport
	}
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

// pyDocstring finds the triple-quoted docstring on the first statement after
// the definition header at line idx (0-based). Single-line docstrings return
// their inner text; multi-line ones return the first content line.
func pyDocstring(lines []string, idx int) string {
	// Headers may span lines; scan to the one ending in a colon.
	end := idx
	for ; end < len(lines) && end < idx+8; end++ {
		t := strings.TrimSpace(lines[end])
		if strings.HasSuffix(t, ":") {
			break
		}
	}

	for i := end + 1; i < len(lines) && i < end+4; i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		for _, quote := range []string{`"""`, "'''"} {
			if !strings.HasPrefix(t, quote) {
				continue
			}
			body := strings.TrimPrefix(t, quote)
			if closing := strings.Index(body, quote); closing >= 0 {
				return truncate(strings.TrimSpace(body[:closing]), maxDocLen)
			}
			if body = strings.TrimSpace(body); body != "" {
				return truncate(body, maxDocLen)
			}
			// Opening quotes alone; summary is the next non-empty line.
			for j := i + 1; j < len(lines) && j < i+4; j++ {
				next := strings.TrimSpace(lines[j])
				if next == "" || strings.HasPrefix(next, quote) {
					continue
				}
				return truncate(strings.TrimSuffix(next, quote), maxDocLen)
			}
			return ""
		}
		return ""
	}
	return ""
}
