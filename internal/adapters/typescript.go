package adapters

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/Nramsrud/ark-index/internal/extract"
	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// TypeScriptAdapter extracts TypeScript/JavaScript symbols with tree-sitter.
// Only export-marked top-level declarations are indexed, plus methods inside
// exported classes.
type TypeScriptAdapter struct {
	tsParser *sitter.Parser
	jsParser *sitter.Parser
}

// NewTypeScriptAdapter creates the tree-sitter TS/JS adapter.
func NewTypeScriptAdapter() *TypeScriptAdapter {
	ts := sitter.NewParser()
	ts.SetLanguage(typescript.GetLanguage())

	js := sitter.NewParser()
	js.SetLanguage(javascript.GetLanguage())

	return &TypeScriptAdapter{tsParser: ts, jsParser: js}
}

func (t *TypeScriptAdapter) Name() string { return adapterNameTypeScript }

func (t *TypeScriptAdapter) Available() bool { return true }

func (t *TypeScriptAdapter) ExtractSymbols(path string, src []byte) ([]extract.RawSymbol, error) {
	lang := fsutil.LanguageOf(path)
	if lang != fsutil.LangTypeScript && lang != fsutil.LangJavaScript {
		return nil, nil
	}

	p := t.tsParser
	if lang == fsutil.LangJavaScript {
		p = t.jsParser
	}

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var symbols []extract.RawSymbol
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "export_statement" {
			continue
		}
		t.exportedDecl(child, src, &symbols)
	}
	return symbols, nil
}

func (t *TypeScriptAdapter) exportedDecl(export *sitter.Node, content []byte, out *[]extract.RawSymbol) {
	decl := export.ChildByFieldName("declaration")
	if decl == nil {
		// "export default <expr>" or re-export forms carry no declaration.
		for i := 0; i < int(export.ChildCount()); i++ {
			child := export.Child(i)
			if strings.HasSuffix(child.Type(), "_declaration") || child.Type() == "lexical_declaration" {
				decl = child
				break
			}
		}
	}
	if decl == nil {
		return
	}

	switch decl.Type() {
	case "function_declaration", "generator_function_declaration":
		if sym := t.named(decl, content, extract.KindFunction, export); sym != nil {
			sym.Signature = t.funcSignature(decl, content)
			*out = append(*out, *sym)
		}
	case "class_declaration", "abstract_class_declaration":
		if sym := t.named(decl, content, extract.KindClass, export); sym != nil {
			*out = append(*out, *sym)
			t.classMethods(decl, content, sym.Name, out)
		}
	case "interface_declaration":
		if sym := t.named(decl, content, extract.KindInterface, export); sym != nil {
			*out = append(*out, *sym)
		}
	case "type_alias_declaration":
		if sym := t.named(decl, content, extract.KindType, export); sym != nil {
			*out = append(*out, *sym)
		}
	case "enum_declaration":
		if sym := t.named(decl, content, extract.KindEnum, export); sym != nil {
			*out = append(*out, *sym)
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.ChildCount()); i++ {
			child := decl.Child(i)
			if child.Type() != "variable_declarator" {
				continue
			}
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			line, col, endLine, endCol := spanOf(child)
			*out = append(*out, extract.RawSymbol{
				Name:       nameNode.Content(content),
				Kind:       extract.KindVariable,
				Visibility: extract.VisExport,
				Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
				Signature: clip(collapse(firstLine(decl.Content(content))), 100),
				Doc:       docFromSiblings(export, content),
			})
		}
	}
}

func (t *TypeScriptAdapter) named(decl *sitter.Node, content []byte, kind string, export *sitter.Node) *extract.RawSymbol {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	line, col, endLine, endCol := spanOf(decl)
	return &extract.RawSymbol{
		Name:       nameNode.Content(content),
		Kind:       kind,
		Visibility: extract.VisExport,
		Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
		Signature: clip(collapse(firstLine(decl.Content(content))), 200),
		Doc:       docFromSiblings(export, content),
	}
}

func (t *TypeScriptAdapter) classMethods(class *sitter.Node, content []byte, className string, out *[]extract.RawSymbol) {
	body := class.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() != "method_definition" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(content)
		if name == "constructor" {
			continue
		}
		line, col, endLine, endCol := spanOf(member)
		*out = append(*out, extract.RawSymbol{
			Name:       name,
			Container:  className,
			Kind:       extract.KindMethod,
			Visibility: tsMemberVisibility(member, content),
			Line:       line, Col: col, EndLine: endLine, EndCol: endCol,
			Signature: t.funcSignature(member, content),
			Doc:       docFromSiblings(member, content),
		})
	}
}

func (t *TypeScriptAdapter) funcSignature(node *sitter.Node, content []byte) string {
	sig := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		sig = nameNode.Content(content)
	}
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		sig += collapse(paramsNode.Content(content))
	}
	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		sig += collapse(retNode.Content(content))
	}
	return clip(sig, 200)
}

func tsMemberVisibility(member *sitter.Node, content []byte) string {
	head := firstLine(member.Content(content))
	switch {
	case strings.HasPrefix(strings.TrimSpace(head), "private"):
		return extract.VisPrivate
	case strings.HasPrefix(strings.TrimSpace(head), "protected"):
		return extract.VisInternal
	default:
		return extract.VisPublic
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
