//go:build cgo

package tsparse

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Available reports whether tree-sitter parsing is compiled in.
func Available() bool {
	return true
}

// literalNodeTypes are the node types whose contents must never be rewritten.
var literalNodeTypes = map[string]bool{
	"comment":         true,
	"string":          true,
	"template_string": true,
	"regex":           true,
}

// Exclude parses the source and returns the per-line spans covered by string
// literals, template strings, regexes and comments. The grammar is chosen by
// file extension (.tsx uses the TSX grammar, everything else TypeScript).
func Exclude(ctx context.Context, path string, source []byte) (Exclusions, error) {
	parser := sitter.NewParser()
	if strings.EqualFold(filepath.Ext(path), ".tsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}

	exclusions := make(Exclusions)
	collectLiterals(tree.RootNode(), exclusions)
	return exclusions, nil
}

// collectLiterals walks the AST and records literal node extents. Literal
// nodes are not descended into: their children are part of the same span.
func collectLiterals(node *sitter.Node, out Exclusions) {
	if node == nil {
		return
	}

	if literalNodeTypes[node.Type()] {
		startLine := int(node.StartPoint().Row) + 1
		endLine := int(node.EndPoint().Row) + 1
		startCol := int(node.StartPoint().Column)
		endCol := int(node.EndPoint().Column)

		if startLine == endLine {
			out[startLine] = append(out[startLine], Span{Start: startCol, End: endCol})
		} else {
			out[startLine] = append(out[startLine], Span{Start: startCol, End: fullLine.End})
			for line := startLine + 1; line < endLine; line++ {
				out[line] = append(out[line], fullLine)
			}
			out[endLine] = append(out[endLine], Span{Start: 0, End: endCol})
		}
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectLiterals(node.Child(i), out)
	}
}
