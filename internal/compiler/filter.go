package compiler

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"tsjoi/internal/loader"
)

// MarkerTag is the documentation tag that makes a declaration eligible for
// schema generation.
const MarkerTag = "schema"

var tagPattern = regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_-]*)`)

// DeclarationFilter decides eligibility: only declarations whose attached
// doc comment carries the marker tag are translated. Untagged declarations
// of the same kinds produce no output.
type DeclarationFilter struct {
	tag string
}

func NewDeclarationFilter() *DeclarationFilter {
	return &DeclarationFilter{tag: MarkerTag}
}

// Eligible reports whether a declaration node carries the marker tag. For
// declarations wrapped in an export statement, the doc comment sits before
// the export statement, so both levels are checked.
func (f *DeclarationFilter) Eligible(mod *loader.Module, decl *sitter.Node) bool {
	for _, tag := range f.Tags(mod, decl) {
		if tag == f.tag {
			return true
		}
	}
	return false
}

// Tags collects the documentation tags attached to a declaration.
func (f *DeclarationFilter) Tags(mod *loader.Module, decl *sitter.Node) []string {
	node := decl
	if parent := decl.Parent(); parent != nil && parent.Type() == "export_statement" {
		node = parent
	}
	doc := docComment(node, mod.Source)
	if doc == "" {
		return nil
	}

	var tags []string
	for _, m := range tagPattern.FindAllStringSubmatch(doc, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// docComment gathers the run of comment siblings immediately preceding a
// node, nearest last.
func docComment(node *sitter.Node, source []byte) string {
	var lines []string
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil || prev.Type() != "comment" {
			break
		}
		if current.StartPoint().Row-prev.EndPoint().Row > 1 {
			break
		}
		lines = append([]string{prev.Content(source)}, lines...)
		current = prev
	}
	return strings.Join(lines, "\n")
}
