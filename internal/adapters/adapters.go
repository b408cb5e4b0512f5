// Package adapters provides tree-sitter backed symbol extractors that plug
// into the extract.Adapter chain. Each adapter handles one language family
// and declines files outside it, so the regex baseline still covers the
// rest.
package adapters

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Nramsrud/ark-index/internal/extract"
)

// DefaultChain returns the standard adapter order: Go, TypeScript/JavaScript,
// Python. The chain is tried per file; the first adapter producing symbols
// pre-empts the regex baseline.
func DefaultChain() []extract.Adapter {
	return []extract.Adapter{
		NewGoAdapter(),
		NewTypeScriptAdapter(),
		NewPythonAdapter(),
	}
}

// ChainByNames resolves a configured adapter-name list to instances,
// silently dropping unknown names. An empty list means no adapters.
func ChainByNames(names []string) []extract.Adapter {
	var chain []extract.Adapter
	for _, name := range names {
		switch name {
		case adapterNameGo:
			chain = append(chain, NewGoAdapter())
		case adapterNameTypeScript:
			chain = append(chain, NewTypeScriptAdapter())
		case adapterNamePython:
			chain = append(chain, NewPythonAdapter())
		}
	}
	return chain
}

const (
	adapterNameGo         = "treesitter-go"
	adapterNameTypeScript = "treesitter-typescript"
	adapterNamePython     = "treesitter-python"
)

func spanOf(node *sitter.Node) (line, col, endLine, endCol int) {
	return int(node.StartPoint().Row) + 1,
		int(node.StartPoint().Column) + 1,
		int(node.EndPoint().Row) + 1,
		int(node.EndPoint().Column) + 1
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// docFromSiblings walks backward over preceding comment siblings and returns
// the first non-empty, non-tag line of the contiguous block.
func docFromSiblings(node *sitter.Node, content []byte) string {
	var block []string
	anchor := node
	for prev := anchor.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Type() != "comment" {
			break
		}
		if prev.EndPoint().Row+1 < anchor.StartPoint().Row {
			break // detached comment, not attached documentation
		}
		block = append([]string{cleanComment(prev.Content(content))}, block...)
		anchor = prev
	}
	for _, chunk := range block {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "@") {
				continue
			}
			return clip(line, 200)
		}
	}
	return ""
}

func cleanComment(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "///")
	raw = strings.TrimPrefix(raw, "//")
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		out = append(out, strings.TrimSpace(line))
	}
	return strings.Join(out, "\n")
}
