// Package symbols answers name and constant queries against a loaded
// program, so the compiler stays independent of the parser.
package symbols

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"tsjoi/internal/loader"
)

// Unknown is the sentinel display name used when a node has no resolvable
// symbol.
const Unknown = "__unknown"

// Resolver resolves display names, enum constants and imported modules for
// one loaded program.
type Resolver struct {
	prog *loader.Program
}

func NewResolver(prog *loader.Program) *Resolver {
	return &Resolver{prog: prog}
}

// DisplayName returns the declared or referenced name of a node, or the
// Unknown sentinel when the node carries no symbol.
func (r *Resolver) DisplayName(mod *loader.Module, n *sitter.Node) string {
	if n == nil {
		return Unknown
	}
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(mod.Source)
	}
	switch n.Type() {
	case "identifier", "type_identifier", "property_identifier":
		return n.Content(mod.Source)
	}
	return Unknown
}

// ModuleFor resolves a relative import specifier to its loaded module.
func (r *Resolver) ModuleFor(from *loader.Module, spec string) (*loader.Module, bool) {
	return r.prog.ModuleFor(from, spec)
}

// EnumMemberValues folds the constant value of every member of an enum
// declaration, in declaration order. Values keep their raw source spelling:
// string members stay quoted, explicit numbers stay as written, implicit
// members auto-increment from the previous numeric member. A member whose
// constant cannot be folded fails the whole enum.
func (r *Resolver) EnumMemberValues(mod *loader.Module, enumDecl *sitter.Node) ([]string, error) {
	body := enumDecl.ChildByFieldName("body")
	if body == nil {
		return nil, fmt.Errorf("enum %s has no body", r.DisplayName(mod, enumDecl))
	}

	var values []string
	byName := make(map[string]foldedValue)
	prev := foldedValue{numeric: true, number: -1}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		var name string
		var folded foldedValue
		var err error

		switch member.Type() {
		case "comment":
			continue
		case "property_identifier":
			name = member.Content(mod.Source)
			folded, err = implicitValue(prev)
		case "enum_assignment":
			name = r.DisplayName(mod, member)
			folded, err = r.foldInitializer(mod, member.ChildByFieldName("value"), byName)
		default:
			err = fmt.Errorf("unexpected enum member %s", member.Type())
		}
		if err != nil {
			return nil, fmt.Errorf("cannot resolve constant for enum member %s: %w", name, err)
		}

		byName[name] = folded
		values = append(values, folded.text)
		prev = folded
	}
	return values, nil
}

type foldedValue struct {
	text    string
	numeric bool
	number  float64
}

func implicitValue(prev foldedValue) (foldedValue, error) {
	if !prev.numeric {
		return foldedValue{}, fmt.Errorf("implicit member follows a non-numeric member")
	}
	n := prev.number + 1
	return foldedValue{
		text:    strconv.FormatFloat(n, 'f', -1, 64),
		numeric: true,
		number:  n,
	}, nil
}

func (r *Resolver) foldInitializer(mod *loader.Module, value *sitter.Node, byName map[string]foldedValue) (foldedValue, error) {
	if value == nil {
		return foldedValue{}, fmt.Errorf("missing initializer")
	}

	text := value.Content(mod.Source)
	switch value.Type() {
	case "string":
		return foldedValue{text: text}, nil
	case "number":
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return foldedValue{}, fmt.Errorf("malformed number %q", text)
		}
		return foldedValue{text: text, numeric: true, number: n}, nil
	case "unary_expression":
		n, err := strconv.ParseFloat(strings.ReplaceAll(text, " ", ""), 64)
		if err != nil {
			return foldedValue{}, fmt.Errorf("unsupported initializer %q", text)
		}
		return foldedValue{text: text, numeric: true, number: n}, nil
	case "identifier":
		if v, ok := byName[text]; ok {
			return v, nil
		}
		return foldedValue{}, fmt.Errorf("reference to unknown member %q", text)
	case "member_expression":
		prop := value.ChildByFieldName("property")
		if prop != nil {
			if v, ok := byName[prop.Content(mod.Source)]; ok {
				return v, nil
			}
		}
		return foldedValue{}, fmt.Errorf("unsupported member reference %q", text)
	}
	return foldedValue{}, fmt.Errorf("unsupported initializer %q", text)
}
