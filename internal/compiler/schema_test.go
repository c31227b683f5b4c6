package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Primitives(t *testing.T) {
	assert.Equal(t, "Joi.any()", Primitive{Kind: KindAny}.Render(""))
	assert.Equal(t, "Joi.func()", Primitive{Kind: KindFunc}.Render(""))
	assert.Equal(t, "Joi.forbidden()", Primitive{Kind: KindForbidden}.Render(""))
}

func TestRender_ObjectShape(t *testing.T) {
	shape := ObjectShape{Entries: []FieldEntry{
		{Name: "a", Expr: Primitive{Kind: KindNumber}, Required: true},
		{Name: "b", Expr: Primitive{Kind: KindString}},
	}}

	want := `Joi.object().keys({
  'a': Joi.number().required(),
  'b': Joi.string()
})`
	assert.Equal(t, want, shape.Render(""))
}

func TestRender_EmptyObjectShape(t *testing.T) {
	assert.Equal(t, "Joi.object().keys({})", ObjectShape{}.Render(""))
}

func TestRender_NestedIndentation(t *testing.T) {
	inner := ObjectShape{Entries: []FieldEntry{
		{Name: "deep", Expr: Primitive{Kind: KindBoolean}, Required: true},
	}}
	outer := ObjectShape{Entries: []FieldEntry{
		{Name: "nested", Expr: inner, Required: true},
	}}

	want := `Joi.object().keys({
  'nested': Joi.object().keys({
    'deep': Joi.boolean().required()
  }).required()
})`
	assert.Equal(t, want, outer.Render(""))
}

func TestRender_ConcatChainsBeforeKeys(t *testing.T) {
	c := Concat{
		Base: ObjectShape{Entries: []FieldEntry{
			{Name: "x", Expr: Primitive{Kind: KindNumber}, Required: true},
		}},
		Exts: []Expr{Raw{Text: "Alpha"}, Raw{Text: "Beta"}},
	}

	want := `Joi.object().concat(Alpha).concat(Beta).keys({
  'x': Joi.number().required()
})`
	assert.Equal(t, want, c.Render(""))
}

func TestRender_Wrappers(t *testing.T) {
	assert.Equal(t, "Joi.valid(1, 2)", ValidValues{Values: []string{"1", "2"}}.Render(""))
	assert.Equal(t, "Joi.array().items(Joi.string())", ArrayOf{Elem: Primitive{Kind: KindString}}.Render(""))
	assert.Equal(t, "Joi.array().ordered(Joi.number(), Joi.string())",
		OrderedTuple{Elems: []Expr{Primitive{Kind: KindNumber}, Primitive{Kind: KindString}}}.Render(""))
	assert.Equal(t, "Joi.alternatives(Joi.string(), Joi.valid(null))",
		Alternatives{Options: []Expr{Primitive{Kind: KindString}, ValidValues{Values: []string{"null"}}}}.Render(""))
	assert.Equal(t, "Joi.lazy(() => Node)", LazyRef{Name: "Node"}.Render(""))
	assert.Equal(t, "Joi.number().strict()", Strict{Inner: Primitive{Kind: KindNumber}}.Render(""))
}
