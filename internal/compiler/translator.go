package compiler

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"tsjoi/internal/loader"
)

// DefaultSuffix is appended to the base name of rewritten relative module
// specifiers and to generated file names.
const DefaultSuffix = "-joi"

// Options are the recognized generation options.
type Options struct {
	Suffix               string
	OutDir               string
	IgnoreGenerics       bool
	IgnoreIndexSignature bool
	InlineImports        bool
}

// Resolver is the symbol capability the translator queries: display names,
// folded enum constants and imported-module lookup. It is implemented by
// symbols.Resolver on top of the loaded program.
type Resolver interface {
	DisplayName(mod *loader.Module, n *sitter.Node) string
	EnumMemberValues(mod *loader.Module, enumDecl *sitter.Node) ([]string, error)
	ModuleFor(from *loader.Module, spec string) (*loader.Module, bool)
}

// Translator converts type-graph nodes into schema-expression text by pure
// structural recursion. Unknown kinds at the top statement level of a module
// are skipped; unknown kinds nested inside a translated type are fatal. The
// asymmetry is deliberate: a module may contain ordinary value declarations,
// but a translated type must be fully understood.
type Translator struct {
	opts     Options
	resolver Resolver
	filter   *DeclarationFilter

	exported []string
	inlining []string
}

func NewTranslator(opts Options, resolver Resolver) *Translator {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	return &Translator{
		opts:     opts,
		resolver: resolver,
		filter:   NewDeclarationFilter(),
	}
}

// Exported lists the names bound by the current compilation, in emission
// order.
func (t *Translator) Exported() []string {
	return t.exported
}

// Module translates every top-level statement of a module in source order
// and joins the non-empty fragments with blank lines.
func (t *Translator) Module(mod *loader.Module) (string, error) {
	var fragments []string
	root := mod.Root
	for i := 0; i < int(root.NamedChildCount()); i++ {
		fragment, err := t.Statement(mod, root.NamedChild(i))
		if err != nil {
			return "", err
		}
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.Join(fragments, "\n\n"), nil
}

// Statement translates one top-level statement. Statements outside the
// supported grammar translate to the empty fragment.
func (t *Translator) Statement(mod *loader.Module, n *sitter.Node) (string, error) {
	switch n.Type() {
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return t.Statement(mod, decl)
		}
		return t.reexportStatement(mod, n)
	case "import_statement":
		return t.importStatement(mod, n)
	case "interface_declaration":
		return t.interfaceDecl(mod, n)
	case "type_alias_declaration":
		return t.aliasDecl(mod, n)
	case "enum_declaration":
		return t.enumDecl(mod, n)
	}
	return "", nil
}

// --- Declarations ---

func (t *Translator) interfaceDecl(mod *loader.Module, n *sitter.Node) (string, error) {
	if !t.filter.Eligible(mod, n) {
		return "", nil
	}
	name := t.resolver.DisplayName(mod, n)

	var exts []Expr
	if clause := heritageClause(n); clause != nil {
		for i := 0; i < int(clause.NamedChildCount()); i++ {
			h := clause.NamedChild(i)
			if h.Type() == "comment" {
				continue
			}
			// An array-like base has no object shape to extend; the whole
			// declaration is dropped rather than mistranslated.
			if heritageName(h, mod.Source) == "Array" {
				return "", nil
			}
			exts = append(exts, Raw{Text: heritageName(h, mod.Source)})
		}
	}

	shape, err := t.objectShape(mod, n.ChildByFieldName("body"))
	if err != nil {
		return "", err
	}

	var expr Expr = shape
	if len(exts) > 0 {
		expr = Concat{Base: shape, Exts: exts}
	}
	t.exported = append(t.exported, name)
	return bind(name, Strict{Inner: expr}), nil
}

func (t *Translator) aliasDecl(mod *loader.Module, n *sitter.Node) (string, error) {
	if !t.filter.Eligible(mod, n) {
		return "", nil
	}
	name := t.resolver.DisplayName(mod, n)

	expr, err := t.typeExpr(mod, n.ChildByFieldName("value"))
	if err != nil {
		return "", err
	}
	// A bare string literal becomes a single-value set so downstream
	// composition sees a named value set, not raw text.
	if raw, ok := expr.(Raw); ok && isStringLiteral(raw.Text) {
		expr = ValidValues{Values: []string{raw.Text}}
	}

	t.exported = append(t.exported, name)
	return bind(name, Strict{Inner: expr}), nil
}

func (t *Translator) enumDecl(mod *loader.Module, n *sitter.Node) (string, error) {
	if !t.filter.Eligible(mod, n) {
		return "", nil
	}
	name := t.resolver.DisplayName(mod, n)

	values, err := t.resolver.EnumMemberValues(mod, n)
	if err != nil {
		return "", &UnsupportedConstructError{Kind: n.Type(), Text: name, Err: err}
	}

	t.exported = append(t.exported, name)
	return bind(name, Strict{Inner: ValidValues{Values: values}}), nil
}

func bind(name string, expr Expr) string {
	return "export const " + name + " = " + expr.Render("") + ";"
}

// --- Members ---

func (t *Translator) objectShape(mod *loader.Module, body *sitter.Node) (ObjectShape, error) {
	var shape ObjectShape
	if body == nil {
		return shape, nil
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		switch m.Type() {
		case "comment":
		case "property_signature":
			entry, err := t.fieldEntry(mod, m)
			if err != nil {
				return shape, err
			}
			shape.Entries = append(shape.Entries, entry)
		case "method_signature", "call_signature":
			entry, err := t.methodEntry(mod, m)
			if err != nil {
				return shape, err
			}
			shape.Entries = append(shape.Entries, entry)
		case "index_signature":
			if t.opts.IgnoreIndexSignature {
				continue
			}
			return shape, &UnsupportedIndexSignatureError{Text: m.Content(mod.Source)}
		default:
			return shape, &UnsupportedConstructError{Kind: m.Type(), Text: m.Content(mod.Source)}
		}
	}
	return shape, nil
}

func (t *Translator) fieldEntry(mod *loader.Module, n *sitter.Node) (FieldEntry, error) {
	name := loader.Unquote(t.resolver.DisplayName(mod, n))

	var expr Expr = Primitive{Kind: KindAny}
	if annotation := n.ChildByFieldName("type"); annotation != nil {
		var err error
		expr, err = t.typeExpr(mod, annotatedType(annotation))
		if err != nil {
			return FieldEntry{}, err
		}
	}

	return FieldEntry{
		Name:     name,
		Expr:     expr,
		Required: !hasOptionalMarker(n),
	}, nil
}

// methodEntry renders any callable member as a required function check.
// Parameter and return detail is still walked so unsupported constructs in
// signatures fail the same way they do elsewhere, but the detail is not
// emitted.
func (t *Translator) methodEntry(mod *loader.Module, n *sitter.Node) (FieldEntry, error) {
	if err := t.walkSignature(mod, n); err != nil {
		return FieldEntry{}, err
	}
	return FieldEntry{
		Name:     t.resolver.DisplayName(mod, n),
		Expr:     Primitive{Kind: KindFunc},
		Required: true,
	}, nil
}

// parameterDescriptor is the computed shape of one callable parameter. The
// default rendering degrades callables to a bare function check, so the
// descriptor never reaches the output.
type parameterDescriptor struct {
	Name     string
	Type     Expr
	Optional bool
}

// walkSignature computes parameter detail for a callable node. Works for
// method signatures and function types alike. Return types are left alone:
// they have no rendering in the target grammar (void in particular), and a
// bare function check discards them anyway.
func (t *Translator) walkSignature(mod *loader.Module, n *sitter.Node) error {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	_, err := t.parameters(mod, params)
	return err
}

func (t *Translator) parameters(mod *loader.Module, params *sitter.Node) ([]parameterDescriptor, error) {
	var out []parameterDescriptor
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "required_parameter", "optional_parameter":
		case "comment":
			continue
		default:
			return nil, &UnsupportedConstructError{Kind: p.Type(), Text: p.Content(mod.Source)}
		}

		desc := parameterDescriptor{
			Name:     t.resolver.DisplayName(mod, p.ChildByFieldName("pattern")),
			Type:     Primitive{Kind: KindAny},
			Optional: p.Type() == "optional_parameter",
		}
		if annotation := p.ChildByFieldName("type"); annotation != nil {
			expr, err := t.typeExpr(mod, annotatedType(annotation))
			if err != nil {
				return nil, err
			}
			desc.Type = expr
		}
		out = append(out, desc)
	}
	return out, nil
}

// --- Types ---

func (t *Translator) typeExpr(mod *loader.Module, n *sitter.Node) (Expr, error) {
	if n == nil {
		return Primitive{Kind: KindAny}, nil
	}

	switch n.Type() {
	case "predefined_type":
		return t.predefinedType(mod, n)
	case "literal_type":
		return literalType(n.Content(mod.Source)), nil
	case "type_identifier":
		return typeReference(n.Content(mod.Source)), nil
	case "identifier", "property_identifier":
		return Raw{Text: n.Content(mod.Source)}, nil
	case "generic_type":
		return t.genericType(mod, n)
	case "function_type":
		if err := t.walkSignature(mod, n); err != nil {
			return nil, err
		}
		return Primitive{Kind: KindFunc}, nil
	case "object_type":
		shape, err := t.objectShape(mod, n)
		if err != nil {
			return nil, err
		}
		return shape, nil
	case "array_type":
		elem, err := t.typeExpr(mod, n.NamedChild(0))
		if err != nil {
			return nil, err
		}
		return ArrayOf{Elem: elem}, nil
	case "tuple_type":
		var elems []Expr
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "comment" {
				continue
			}
			elem, err := t.typeExpr(mod, c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return OrderedTuple{Elems: elems}, nil
	case "union_type":
		var options []Expr
		for _, member := range unionMembers(n) {
			option, err := t.typeExpr(mod, member)
			if err != nil {
				return nil, err
			}
			options = append(options, option)
		}
		return Alternatives{Options: options}, nil
	case "parenthesized_type":
		return t.typeExpr(mod, n.NamedChild(0))
	}

	return nil, &UnsupportedConstructError{Kind: n.Type(), Text: n.Content(mod.Source)}
}

func (t *Translator) predefinedType(mod *loader.Module, n *sitter.Node) (Expr, error) {
	switch text := n.Content(mod.Source); text {
	case "any", "number", "object", "boolean", "string", "symbol":
		return Primitive{Kind: text}, nil
	case "never":
		return Primitive{Kind: KindForbidden}, nil
	default:
		return nil, &UnsupportedConstructError{Kind: n.Type(), Text: text}
	}
}

func literalType(text string) Expr {
	switch text {
	case "null":
		return ValidValues{Values: []string{"null"}}
	case "undefined":
		return ValidValues{Values: []string{"undefined"}}
	}
	return ValidValues{Values: []string{text}}
}

func typeReference(name string) Expr {
	switch name {
	case "Date":
		return Primitive{Kind: KindDate}
	case "Buffer":
		return Primitive{Kind: KindBinary}
	case "undefined":
		// Grammar revisions disagree on whether undefined in type position
		// is a literal type or a plain reference.
		return ValidValues{Values: []string{"undefined"}}
	}
	return LazyRef{Name: name}
}

func (t *Translator) genericType(mod *loader.Module, n *sitter.Node) (Expr, error) {
	name := t.resolver.DisplayName(mod, n)
	args := n.ChildByFieldName("type_arguments")

	if name == "Array" && args != nil && args.NamedChildCount() > 0 {
		elem, err := t.typeExpr(mod, args.NamedChild(0))
		if err != nil {
			return nil, err
		}
		return ArrayOf{Elem: elem}, nil
	}
	if t.opts.IgnoreGenerics {
		return Primitive{Kind: KindAny}, nil
	}
	return nil, &UnsupportedGenericsError{Text: n.Content(mod.Source)}
}

// annotatedType unwraps a type_annotation wrapper when present.
func annotatedType(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == "type_annotation" && n.NamedChildCount() > 0 {
		return n.NamedChild(0)
	}
	return n
}

// --- Imports and exports ---

func (t *Translator) importStatement(mod *loader.Module, n *sitter.Node) (string, error) {
	spec, ok := loader.StatementSpecifier(n, mod.Source)
	if !ok || !loader.IsRelative(spec) {
		return "", nil
	}

	if t.opts.InlineImports {
		if target, found := t.resolver.ModuleFor(mod, spec); found {
			return t.inlineModule(target)
		}
		// Unresolvable target: fall back to a rewritten import.
	}

	if !hasNamedBindings(n) {
		return "", nil
	}
	return t.rewriteStatement(mod, n), nil
}

func (t *Translator) reexportStatement(mod *loader.Module, n *sitter.Node) (string, error) {
	spec, ok := loader.StatementSpecifier(n, mod.Source)
	if !ok || !loader.IsRelative(spec) {
		return "", nil
	}
	if !hasNamedBindings(n) {
		return "", nil
	}
	return t.rewriteStatement(mod, n), nil
}

// rewriteStatement re-emits the statement's raw source text with only the
// module specifier replaced, so per-element `original as local` aliasing is
// preserved verbatim.
func (t *Translator) rewriteStatement(mod *loader.Module, n *sitter.Node) string {
	src := n.ChildByFieldName("source")
	raw := src.Content(mod.Source)
	quote := string(raw[0])
	spec := loader.Unquote(raw)

	rewritten := quote + RewriteSpecifier(spec, t.opts.Suffix, t.opts.OutDir) + quote
	stmt := n.Content(mod.Source)
	start := int(src.StartByte() - n.StartByte())
	end := int(src.EndByte() - n.StartByte())
	return stmt[:start] + rewritten + stmt[end:]
}

// inlineModule translates an imported module's top-level statements in place
// of the import. A path-scoped stack breaks import cycles; revisits through
// separate import statements still retranslate.
func (t *Translator) inlineModule(target *loader.Module) (string, error) {
	for _, p := range t.inlining {
		if p == target.Path {
			return "", nil
		}
	}
	t.inlining = append(t.inlining, target.Path)
	defer func() { t.inlining = t.inlining[:len(t.inlining)-1] }()
	return t.Module(target)
}

// --- Helpers ---

func hasNamedBindings(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "import_clause" || c.Type() == "export_clause" {
			return c.NamedChildCount() > 0
		}
	}
	return false
}

// heritageClause finds an interface's extends clause. The grammar has named
// the clause differently across revisions, so both spellings are accepted.
func heritageClause(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "extends_type_clause" || c.Type() == "extends_clause" {
			return c
		}
	}
	return nil
}

// heritageName is the literal text of an inherited expression's base name.
func heritageName(n *sitter.Node, source []byte) string {
	if n.Type() == "generic_type" {
		if base := n.ChildByFieldName("name"); base != nil {
			return base.Content(source)
		}
	}
	return n.Content(source)
}

// unionMembers flattens the grammar's nested binary union into clause order.
func unionMembers(n *sitter.Node) []*sitter.Node {
	var members []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment":
		case "union_type":
			members = append(members, unionMembers(c)...)
		default:
			members = append(members, c)
		}
	}
	return members
}

func hasOptionalMarker(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "?" {
			return true
		}
	}
	return false
}

func isStringLiteral(text string) bool {
	return len(text) > 0 && (text[0] == '\'' || text[0] == '"' || text[0] == '`')
}
