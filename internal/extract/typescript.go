package extract

import (
	"regexp"
	"strings"
)

// jsKeywords are names that the "identifier followed by parens" method
// heuristic must never treat as a method.
var jsKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "return": true, "throw": true, "try": true,
	"catch": true, "finally": true, "new": true, "typeof": true,
	"instanceof": true, "void": true, "delete": true, "await": true,
	"yield": true, "import": true, "export": true, "default": true,
	"from": true, "as": true, "with": true, "debugger": true, "super": true,
	"this": true, "constructor": true, "get": true, "set": true,
}

var (
	reTSFunc      = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*[(<]`)
	reTSClass     = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	reTSInterface = regexp.MustCompile(`^\s*export\s+(?:default\s+)?interface\s+([A-Za-z_$][\w$]*)`)
	reTSType      = regexp.MustCompile(`^\s*export\s+type\s+([A-Za-z_$][\w$]*)`)
	reTSEnum      = regexp.MustCompile(`^\s*export\s+(?:const\s+)?enum\s+([A-Za-z_$][\w$]*)`)
	reTSVariable  = regexp.MustCompile(`^\s*export\s+(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	reTSMethod    = regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|async|readonly|override)\s+)*\*?\s*([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*\(`)
)

// ExtractTypeScript pulls export-marked top-level declarations from
// TypeScript or JavaScript source, descending one level into exported class
// bodies for methods.
func ExtractTypeScript(src []byte) []RawSymbol {
	lines := splitLines(src)
	var symbols []RawSymbol

	currentClass := ""
	classDepth := 0
	bodyOpened := false

	for i, line := range lines {
		if currentClass != "" {
			if bodyOpened && classDepth == 1 {
				if m := reTSMethod.FindStringSubmatch(line); m != nil && !jsKeywords[m[1]] {
					symbols = append(symbols, RawSymbol{
						Name:       m[1],
						Container:  currentClass,
						Kind:       KindMethod,
						Visibility: tsMethodVisibility(line),
						Line:       i + 1,
						Signature:  signatureHead(lines, i),
						Doc:        blockDocAbove(lines, i),
					})
				}
			}
			if strings.Contains(line, "{") {
				bodyOpened = true
			}
			classDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if bodyOpened && classDepth <= 0 {
				currentClass = ""
			}
			continue
		}

		switch {
		case reTSFunc.MatchString(line):
			m := reTSFunc.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindFunction,
				Visibility: VisExport,
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        blockDocAbove(lines, i),
			})

		case reTSClass.MatchString(line):
			m := reTSClass.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindClass,
				Visibility: VisExport,
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        blockDocAbove(lines, i),
			})
			currentClass = m[1]
			bodyOpened = strings.Contains(line, "{")
			classDepth = strings.Count(line, "{") - strings.Count(line, "}")
			if bodyOpened && classDepth <= 0 {
				currentClass = ""
			}

		case reTSInterface.MatchString(line):
			m := reTSInterface.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindInterface,
				Visibility: VisExport,
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        blockDocAbove(lines, i),
			})

		case reTSEnum.MatchString(line):
			m := reTSEnum.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindEnum,
				Visibility: VisExport,
				Line:       i + 1,
				Signature:  bareLine(line),
				Doc:        blockDocAbove(lines, i),
			})

		case reTSType.MatchString(line):
			m := reTSType.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindType,
				Visibility: VisExport,
				Line:       i + 1,
				Signature:  bareLine(line),
				Doc:        blockDocAbove(lines, i),
			})

		case reTSVariable.MatchString(line):
			m := reTSVariable.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[1],
				Kind:       KindVariable,
				Visibility: VisExport,
				Line:       i + 1,
				Signature:  bareLine(line),
				Doc:        blockDocAbove(lines, i),
			})
		}
	}

	return symbols
}

func tsMethodVisibility(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "private"):
		return VisPrivate
	case strings.HasPrefix(trimmed, "protected"):
		return VisInternal
	default:
		return VisPublic
	}
}
