package parser

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// SyntaxChecker validates Java source with the tree-sitter Java grammar. The
// Element Model never depends on it: it only reports where the source is not
// valid Java. A SyntaxChecker is safe for concurrent use.
type SyntaxChecker struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

func NewSyntaxChecker() *SyntaxChecker {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &SyntaxChecker{parser: p}
}

// Check returns one ParseError per syntax error or missing token in src.
func (c *SyntaxChecker) Check(ctx context.Context, path string, src []byte) ([]ParseError, error) {
	c.mu.Lock()
	tree, err := c.parser.ParseCtx(ctx, nil, src)
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	var errs []ParseError
	collectSyntaxErrors(tree.RootNode(), src, func(n *sitter.Node, reason string) {
		errs = append(errs, ParseError{
			Path:   path,
			Line:   int(n.StartPoint().Row) + 1,
			Reason: reason,
		})
	})
	return errs, nil
}

// Close releases parser resources.
func (c *SyntaxChecker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parser.Close()
}

func collectSyntaxErrors(node *sitter.Node, src []byte, report func(*sitter.Node, string)) {
	if node == nil || !node.HasError() {
		return
	}
	switch {
	case node.IsMissing():
		report(node, fmt.Sprintf("missing %q", node.Type()))
		return
	case node.IsError():
		report(node, fmt.Sprintf("syntax error near %q", snippet(node.Content(src))))
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectSyntaxErrors(node.Child(i), src, report)
	}
}

func snippet(s string) string {
	const limit = 24
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
