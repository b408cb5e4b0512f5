package adapters

import (
	"context"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/Nramsrud/ark-index/internal/extract"
	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// GoAdapter extracts Go symbols with tree-sitter.
type GoAdapter struct {
	parser *sitter.Parser
}

// NewGoAdapter creates the tree-sitter Go adapter.
func NewGoAdapter() *GoAdapter {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &GoAdapter{parser: p}
}

func (g *GoAdapter) Name() string { return adapterNameGo }

func (g *GoAdapter) Available() bool { return true }

// ExtractSymbols parses path's content and yields top-level declarations.
// Files outside the Go family yield nothing so later candidates run.
func (g *GoAdapter) ExtractSymbols(path string, src []byte) ([]extract.RawSymbol, error) {
	if fsutil.LanguageOf(path) != fsutil.LangGo {
		return nil, nil
	}

	tree, err := g.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var symbols []extract.RawSymbol
	g.walk(tree.RootNode(), src, &symbols)
	return symbols, nil
}

func (g *GoAdapter) walk(node *sitter.Node, content []byte, out *[]extract.RawSymbol) {
	switch node.Type() {
	case "function_declaration":
		if sym := g.function(node, content); sym != nil {
			*out = append(*out, *sym)
		}
	case "method_declaration":
		if sym := g.method(node, content); sym != nil {
			*out = append(*out, *sym)
		}
	case "type_declaration":
		g.typeDecl(node, content, out)
	case "const_declaration":
		g.valueDecl(node, content, extract.KindConstant, out)
	case "var_declaration":
		g.valueDecl(node, content, extract.KindVariable, out)
	}

	// Only the file's own children are declarations of interest; function
	// bodies and type literals are not descended into.
	if node.Type() != "source_file" {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		g.walk(node.Child(i), content, out)
	}
}

func (g *GoAdapter) function(node *sitter.Node, content []byte) *extract.RawSymbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(content)
	line, col, endLine, endCol := spanOf(node)

	return &extract.RawSymbol{
		Name:       name,
		Kind:       extract.KindFunction,
		Visibility: goExported(name),
		Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
		Signature: g.funcSignature(node, content, ""),
		Doc:       docFromSiblings(node, content),
	}
}

func (g *GoAdapter) method(node *sitter.Node, content []byte) *extract.RawSymbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(content)

	receiver := ""
	if recvNode := node.ChildByFieldName("receiver"); recvNode != nil {
		receiver = receiverBaseType(recvNode.Content(content))
	}
	qualified := name
	if receiver != "" {
		qualified = receiver + "." + name
	}

	line, col, endLine, endCol := spanOf(node)
	return &extract.RawSymbol{
		Name:       qualified,
		Kind:       extract.KindMethod,
		Visibility: goExported(name),
		Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
		Signature: g.funcSignature(node, content, receiver),
		Doc:       docFromSiblings(node, content),
	}
}

func (g *GoAdapter) typeDecl(node *sitter.Node, content []byte, out *[]extract.RawSymbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		spec := node.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(content)

		kind := extract.KindType
		sig := "type " + name
		if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
			switch typeNode.Type() {
			case "struct_type":
				kind = extract.KindClass
				sig += " struct"
			case "interface_type":
				kind = extract.KindInterface
				sig += " interface"
			default:
				sig += " " + collapse(typeNode.Content(content))
			}
		}

		line, col, endLine, endCol := spanOf(spec)
		*out = append(*out, extract.RawSymbol{
			Name:       name,
			Kind:       kind,
			Visibility: goExported(name),
			Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
			Signature: clip(sig, 200),
			Doc:       docFromSiblings(node, content),
		})
	}
}

func (g *GoAdapter) valueDecl(node *sitter.Node, content []byte, kind string, out *[]extract.RawSymbol) {
	var specs []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "const_spec", "var_spec":
			specs = append(specs, child)
		case "var_spec_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				if spec := child.Child(j); spec.Type() == "var_spec" {
					specs = append(specs, spec)
				}
			}
		}
	}

	for _, spec := range specs {
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(content)
		if name == "_" {
			continue
		}
		line, col, endLine, endCol := spanOf(spec)
		*out = append(*out, extract.RawSymbol{
			Name:       name,
			Kind:       kind,
			Visibility: goExported(name),
			Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
			Signature: clip(collapse(spec.Content(content)), 100),
			Doc:       docFromSiblings(spec, content),
		})
	}
}

func (g *GoAdapter) funcSignature(node *sitter.Node, content []byte, receiver string) string {
	sig := "func"
	if receiver != "" {
		if recvNode := node.ChildByFieldName("receiver"); recvNode != nil {
			sig += " " + collapse(recvNode.Content(content))
		}
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		sig += " " + nameNode.Content(content)
	}
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		sig += collapse(paramsNode.Content(content))
	}
	if resultNode := node.ChildByFieldName("result"); resultNode != nil {
		sig += " " + collapse(resultNode.Content(content))
	}
	return clip(sig, 200)
}

func goExported(name string) string {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return extract.VisExport
		}
		return extract.VisPrivate
	}
	return extract.VisPrivate
}

// receiverBaseType extracts a clean base type from a receiver block:
// "(s *Server)" -> "Server", "(p *pkg.Type[T])" -> "Type".
func receiverBaseType(recvBlock string) string {
	s := strings.TrimSpace(recvBlock)
	if strings.HasPrefix(s, "(") {
		if i := strings.IndexByte(s, ')'); i >= 0 {
			s = s[1:i]
		}
	}
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ""
	}
	typ := tokens[len(tokens)-1]
	typ = strings.TrimLeft(typ, "*&")
	if i := strings.IndexByte(typ, '['); i >= 0 {
		typ = typ[:i]
	}
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	return strings.TrimSpace(typ)
}
