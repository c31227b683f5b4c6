package compiler

import "strings"

// Expr is a schema-expression: the intermediate form a type-graph node is
// translated into before rendering as a Joi call chain. Render receives the
// indentation prefix of the line the expression starts on; nested object
// shapes indent two spaces deeper.
type Expr interface {
	Render(indent string) string
}

// Primitive kinds and their Joi call tokens.
const (
	KindAny       = "any"
	KindNumber    = "number"
	KindObject    = "object"
	KindBoolean   = "boolean"
	KindString    = "string"
	KindSymbol    = "symbol"
	KindDate      = "date"
	KindBinary    = "binary"
	KindFunc      = "func"
	KindForbidden = "forbidden"
)

// Primitive is a fixed single-call Joi check.
type Primitive struct {
	Kind string
}

func (p Primitive) Render(string) string {
	return "Joi." + p.Kind + "()"
}

// ValidValues is an ordered set of literal value texts accepted verbatim.
type ValidValues struct {
	Values []string
}

func (v ValidValues) Render(string) string {
	return "Joi.valid(" + strings.Join(v.Values, ", ") + ")"
}

// FieldEntry is one member of an object shape. A field is required unless its
// declaration carried the optional marker.
type FieldEntry struct {
	Name     string
	Expr     Expr
	Required bool
}

// ObjectShape is a keyed object check. Entry order equals declaration order
// in source.
type ObjectShape struct {
	Entries []FieldEntry
}

func (o ObjectShape) Render(indent string) string {
	return "Joi.object()" + o.renderKeys(indent)
}

// renderKeys renders only the trailing .keys(...) call, so Concat can splice
// its .concat(...) chain between the constructor and the keys.
func (o ObjectShape) renderKeys(indent string) string {
	if len(o.Entries) == 0 {
		return ".keys({})"
	}

	inner := indent + "  "
	var b strings.Builder
	b.WriteString(".keys({\n")
	for i, e := range o.Entries {
		b.WriteString(inner)
		b.WriteString("'" + e.Name + "': ")
		b.WriteString(e.Expr.Render(inner))
		if e.Required {
			b.WriteString(".required()")
		}
		if i < len(o.Entries)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent + "})")
	return b.String()
}

// ArrayOf checks an array whose every item matches the element expression.
type ArrayOf struct {
	Elem Expr
}

func (a ArrayOf) Render(indent string) string {
	return "Joi.array().items(" + a.Elem.Render(indent) + ")"
}

// OrderedTuple checks an array with one positional expression per element.
type OrderedTuple struct {
	Elems []Expr
}

func (t OrderedTuple) Render(indent string) string {
	return "Joi.array().ordered(" + renderList(t.Elems, indent) + ")"
}

// Alternatives accepts a value matching any of its options, tried in order.
type Alternatives struct {
	Options []Expr
}

func (a Alternatives) Render(indent string) string {
	return "Joi.alternatives(" + renderList(a.Options, indent) + ")"
}

// LazyRef refers to another named schema, resolved at schema-construction
// time so forward and self references need no declaration-order sorting.
type LazyRef struct {
	Name string
}

func (l LazyRef) Render(string) string {
	return "Joi.lazy(() => " + l.Name + ")"
}

// Concat structurally extends a base object shape with inherited schemas,
// chained in inheritance-clause order before the trailing .keys(...).
type Concat struct {
	Base ObjectShape
	Exts []Expr
}

func (c Concat) Render(indent string) string {
	var b strings.Builder
	b.WriteString("Joi.object()")
	for _, ext := range c.Exts {
		b.WriteString(".concat(" + ext.Render(indent) + ")")
	}
	b.WriteString(c.Base.renderKeys(indent))
	return b.String()
}

// Strict forbids values not explicitly described by the wrapped expression.
// It is applied only at the outermost level of a bound declaration.
type Strict struct {
	Inner Expr
}

func (s Strict) Render(indent string) string {
	return s.Inner.Render(indent) + ".strict()"
}

// Raw is literal passthrough text, used for bare references whose spelling
// is emitted as-is.
type Raw struct {
	Text string
}

func (r Raw) Render(string) string { return r.Text }

func renderList(exprs []Expr, indent string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Render(indent)
	}
	return strings.Join(parts, ", ")
}
