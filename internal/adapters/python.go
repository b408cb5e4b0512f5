package adapters

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Nramsrud/ark-index/internal/extract"
	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// PythonAdapter extracts Python symbols with tree-sitter: module functions,
// classes, one level of methods, and ALL_CAPS module constants.
type PythonAdapter struct {
	parser *sitter.Parser
}

// NewPythonAdapter creates the tree-sitter Python adapter.
func NewPythonAdapter() *PythonAdapter {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonAdapter{parser: p}
}

func (p *PythonAdapter) Name() string { return adapterNamePython }

func (p *PythonAdapter) Available() bool { return true }

func (p *PythonAdapter) ExtractSymbols(path string, src []byte) ([]extract.RawSymbol, error) {
	if fsutil.LanguageOf(path) != fsutil.LangPython {
		return nil, nil
	}

	tree, err := p.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var symbols []extract.RawSymbol
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		p.topLevel(unwrapDecorated(root.Child(i)), src, &symbols)
	}
	return symbols, nil
}

func (p *PythonAdapter) topLevel(node *sitter.Node, content []byte, out *[]extract.RawSymbol) {
	switch node.Type() {
	case "function_definition":
		if sym := p.callable(node, content, "", extract.KindFunction); sym != nil {
			*out = append(*out, *sym)
		}
	case "class_definition":
		p.class(node, content, out)
	case "expression_statement":
		p.constant(node, content, out)
	}
}

func (p *PythonAdapter) class(node *sitter.Node, content []byte, out *[]extract.RawSymbol) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := nameNode.Content(content)
	line, col, endLine, endCol := spanOf(node)
	*out = append(*out, extract.RawSymbol{
		Name:       className,
		Kind:       extract.KindClass,
		Visibility: pyVisibility(className),
		Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
		Signature: clip(collapse(firstLine(node.Content(content))), 200),
		Doc:       pyBodyDocstring(node, content),
	})

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := unwrapDecorated(body.Child(i))
		if member.Type() != "function_definition" {
			continue
		}
		if sym := p.callable(member, content, className, extract.KindMethod); sym != nil {
			*out = append(*out, *sym)
		}
	}
}

func (p *PythonAdapter) callable(node *sitter.Node, content []byte, container, kind string) *extract.RawSymbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(content)

	sig := "def " + name
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		sig += collapse(paramsNode.Content(content))
	}
	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		sig += " -> " + collapse(retNode.Content(content))
	}

	line, col, endLine, endCol := spanOf(node)
	return &extract.RawSymbol{
		Name:       name,
		Container:  container,
		Kind:       kind,
		Visibility: pyVisibility(name),
		Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
		Signature: clip(sig, 200),
		Doc:       pyBodyDocstring(node, content),
	}
}

func (p *PythonAdapter) constant(node *sitter.Node, content []byte, out *[]extract.RawSymbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		assign := node.Child(i)
		if assign.Type() != "assignment" {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			continue
		}
		name := left.Content(content)
		if !isAllCaps(name) {
			continue
		}
		line, col, endLine, endCol := spanOf(assign)
		*out = append(*out, extract.RawSymbol{
			Name:       name,
			Kind:       extract.KindConstant,
			Visibility: extract.VisExport,
			Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
			Signature: clip(collapse(firstLine(assign.Content(content))), 100),
		})
	}
}

// pyBodyDocstring returns the summary line of a definition's leading
// docstring, when its first body statement is a string literal.
func pyBodyDocstring(node *sitter.Node, content []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first.Type() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str.Type() != "string" {
		return ""
	}

	text := str.Content(content)
	for _, quote := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) >= 2*len(quote) {
			text = text[len(quote) : len(text)-len(quote)]
			break
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return clip(line, 200)
		}
	}
	return ""
}

func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node.Type() != "decorated_definition" {
		return node
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return def
	}
	return node
}

func pyVisibility(name string) string {
	switch {
	case strings.HasPrefix(name, "__"):
		return extract.VisPrivate
	case strings.HasPrefix(name, "_"):
		return extract.VisInternal
	default:
		return extract.VisExport
	}
}

func isAllCaps(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return hasLetter
}
