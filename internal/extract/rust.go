package extract

import (
	"regexp"
	"strings"
)

var (
	reRustFn       = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+([A-Za-z_]\w*)`)
	reRustStruct   = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?struct\s+([A-Za-z_]\w*)`)
	reRustTrait    = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?(?:unsafe\s+)?trait\s+([A-Za-z_]\w*)`)
	reRustEnum     = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?enum\s+([A-Za-z_]\w*)`)
	reRustConst    = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?(?:const|static)\s+([A-Za-z_]\w*)\s*:`)
	reRustTypeDecl = regexp.MustCompile(`^\s*(pub(?:\([^)]*\))?\s+)?type\s+([A-Za-z_]\w*)`)
	reRustImpl     = regexp.MustCompile(`^\s*impl(?:<[^>]*>)?\s+(?:([\w:]+(?:<[^>]*>)?)\s+for\s+)?([\w:]+)`)
)

// ExtractRust pulls module-level items and impl-block methods from Rust
// source. The impl context is tracked by brace counting, so methods are
// named "Type::method".
func ExtractRust(src []byte) []RawSymbol {
	lines := splitLines(src)
	var symbols []RawSymbol

	implType := ""
	implDepth := 0
	implOpened := false

	// Trait bodies are skipped wholesale: their fn items are neither
	// module-level functions nor impl methods.
	traitDepth := 0
	inTrait := false
	traitOpened := false

	for i, line := range lines {
		if inTrait {
			if strings.Contains(line, "{") {
				traitOpened = true
			}
			traitDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if traitOpened && traitDepth <= 0 {
				inTrait = false
			}
			continue
		}

		if implType != "" {
			if implOpened && implDepth == 1 {
				if m := reRustFn.FindStringSubmatch(line); m != nil {
					symbols = append(symbols, RawSymbol{
						Name:       implType + "::" + m[2],
						Kind:       KindMethod,
						Visibility: rustVisibility(m[1]),
						Line:       i + 1,
						Signature:  signatureHead(lines, i),
						Doc:        lineCommentDocAbove(lines, i, "///", true),
					})
				}
			}
			if strings.Contains(line, "{") {
				implOpened = true
			}
			implDepth += strings.Count(line, "{") - strings.Count(line, "}")
			if implOpened && implDepth <= 0 {
				implType = ""
			}
			continue
		}

		if m := reRustImpl.FindStringSubmatch(line); m != nil {
			implType = rustBaseType(m[2])
			implOpened = strings.Contains(line, "{")
			implDepth = strings.Count(line, "{") - strings.Count(line, "}")
			if implOpened && implDepth <= 0 {
				implType = ""
			}
			continue
		}

		switch {
		case reRustFn.MatchString(line):
			m := reRustFn.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[2],
				Kind:       KindFunction,
				Visibility: rustVisibility(m[1]),
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        lineCommentDocAbove(lines, i, "///", true),
			})

		case reRustStruct.MatchString(line):
			m := reRustStruct.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[2],
				Kind:       KindClass,
				Visibility: rustVisibility(m[1]),
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        lineCommentDocAbove(lines, i, "///", true),
			})

		case reRustTrait.MatchString(line):
			m := reRustTrait.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[2],
				Kind:       KindInterface,
				Visibility: rustVisibility(m[1]),
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        lineCommentDocAbove(lines, i, "///", true),
			})
			inTrait = true
			traitOpened = strings.Contains(line, "{")
			traitDepth = strings.Count(line, "{") - strings.Count(line, "}")
			if traitOpened && traitDepth <= 0 {
				inTrait = false
			}

		case reRustEnum.MatchString(line):
			m := reRustEnum.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[2],
				Kind:       KindEnum,
				Visibility: rustVisibility(m[1]),
				Line:       i + 1,
				Signature:  signatureHead(lines, i),
				Doc:        lineCommentDocAbove(lines, i, "///", true),
			})

		case reRustConst.MatchString(line):
			m := reRustConst.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[2],
				Kind:       KindConstant,
				Visibility: rustVisibility(m[1]),
				Line:       i + 1,
				Signature:  bareLine(line),
				Doc:        lineCommentDocAbove(lines, i, "///", true),
			})

		case reRustTypeDecl.MatchString(line):
			m := reRustTypeDecl.FindStringSubmatch(line)
			symbols = append(symbols, RawSymbol{
				Name:       m[2],
				Kind:       KindType,
				Visibility: rustVisibility(m[1]),
				Line:       i + 1,
				Signature:  bareLine(line),
				Doc:        lineCommentDocAbove(lines, i, "///", true),
			})
		}
	}

	return symbols
}

func rustVisibility(pubGroup string) string {
	if strings.TrimSpace(pubGroup) != "" {
		return VisExport
	}
	return VisPrivate
}

// rustBaseType strips generic arguments and path qualifiers from an impl
// target: "crate::module::Type<T>" -> "Type".
func rustBaseType(typ string) string {
	if idx := strings.Index(typ, "<"); idx >= 0 {
		typ = typ[:idx]
	}
	if idx := strings.LastIndex(typ, "::"); idx >= 0 {
		typ = typ[idx+2:]
	}
	return typ
}
