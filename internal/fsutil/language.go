package fsutil

import (
	"path/filepath"
	"strings"
)

// Language names for the nine supported source families. Anything else maps
// to LangUnknown.
const (
	LangTypeScript = "typescript"
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangRust       = "rust"
	LangGo         = "go"
	LangRuby       = "ruby"
	LangJava       = "java"
	LangC          = "c"
	LangCPP        = "cpp"
	LangUnknown    = "unknown"
)

var extToLang = map[string]string{
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".mjs":  LangJavaScript,
	".cjs":  LangJavaScript,
	".py":   LangPython,
	".pyi":  LangPython,
	".rs":   LangRust,
	".go":   LangGo,
	".rb":   LangRuby,
	".java": LangJava,
	".c":    LangC,
	".h":    LangC,
	".cpp":  LangCPP,
	".cc":   LangCPP,
	".cxx":  LangCPP,
	".hpp":  LangCPP,
	".hh":   LangCPP,
}

// LanguageOf classifies a path by extension into one of the supported
// language families.
func LanguageOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extToLang[ext]; ok {
		return lang
	}
	return LangUnknown
}

// IsCodeFile reports whether the path carries one of the supported code
// extensions.
func IsCodeFile(path string) bool {
	return LanguageOf(path) != LangUnknown
}
