package compiler

import (
	"tsjoi/internal/loader"
)

// Preamble is the fixed header prepended to every generated root module.
const Preamble = "// Code generated by tsjoi. DO NOT EDIT.\n\nimport * as Joi from 'joi';\n"

// Emitter assembles translated declaration fragments into final module text.
// One Emitter holds the state of one compilation; independent compilations
// must not share it.
type Emitter struct {
	tr *Translator
}

func NewEmitter(opts Options, resolver Resolver) *Emitter {
	return &Emitter{tr: NewTranslator(opts, resolver)}
}

// Compile translates the root module's top-level statements in source order
// and prepends the preamble. Modules reached through import inlining are
// translated without it.
func (e *Emitter) Compile(mod *loader.Module) (string, error) {
	e.tr.exported = nil
	e.tr.inlining = []string{mod.Path}

	body, err := e.tr.Module(mod)
	if err != nil {
		return "", err
	}

	out := Preamble
	if body != "" {
		out += "\n" + body + "\n"
	}
	return out, nil
}

// Exported lists the names bound by the last compilation, in emission order.
// Produced for downstream aggregation (the manifest); the root emission does
// not fold them into a barrel export.
func (e *Emitter) Exported() []string {
	return e.tr.Exported()
}
