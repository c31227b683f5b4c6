package loader

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// LoadError reports that a module could not be parsed. It aggregates every
// syntax diagnostic found in the tree so one failed load shows all problems.
type LoadError struct {
	Path        string
	Diagnostics []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s:\n  %s", e.Path, strings.Join(e.Diagnostics, "\n  "))
}

// checkDiagnostics walks the parse tree collecting ERROR and MISSING nodes.
func checkDiagnostics(mod *Module) error {
	var diags []string

	cursor := sitter.NewTreeCursor(mod.Root)
	defer cursor.Close()

	var visit func(c *sitter.TreeCursor)
	visit = func(c *sitter.TreeCursor) {
		n := c.CurrentNode()
		if n.Type() == "ERROR" {
			text := n.Content(mod.Source)
			if len(text) > 40 {
				text = text[:40] + "..."
			}
			diags = append(diags, fmt.Sprintf("syntax error at %d:%d near %q",
				n.StartPoint().Row+1, n.StartPoint().Column+1, text))
		} else if n.IsMissing() {
			diags = append(diags, fmt.Sprintf("missing %s at %d:%d",
				n.Type(), n.StartPoint().Row+1, n.StartPoint().Column+1))
		}
		if c.GoToFirstChild() {
			visit(c)
			for c.GoToNextSibling() {
				visit(c)
			}
			c.GoToParent()
		}
	}
	visit(cursor)

	if len(diags) == 0 {
		return nil
	}
	return &LoadError{Path: mod.Path, Diagnostics: diags}
}
