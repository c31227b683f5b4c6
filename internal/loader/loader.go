package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Module is a parsed TypeScript source file. Path is the module's identity:
// it decides which compilation gets the header preamble and keys the
// program's module map.
type Module struct {
	Path   string
	Source []byte
	Tree   *sitter.Tree
	Root   *sitter.Node
}

// Program is the type graph for one root module: the root plus every module
// reachable through relative import/export specifiers, keyed by resolved path.
type Program struct {
	Root    *Module
	Modules map[string]*Module
}

// Loader parses TypeScript files into Modules.
type Loader struct {
	parser *sitter.Parser
}

func NewLoader() *Loader {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return &Loader{parser: parser}
}

// Load parses the root file and transitively follows relative import/export
// specifiers so that imported modules are available for inlining and symbol
// resolution. A parse failure in any reached module aborts the load.
func (l *Loader) Load(path string) (*Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	prog := &Program{Modules: make(map[string]*Module)}
	root, err := l.load(abs, prog)
	if err != nil {
		return nil, err
	}
	prog.Root = root
	return prog, nil
}

func (l *Loader) load(path string, prog *Program) (*Module, error) {
	if mod, ok := prog.Modules[path]; ok {
		return mod, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tree, err := l.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	mod := &Module{
		Path:   path,
		Source: source,
		Tree:   tree,
		Root:   tree.RootNode(),
	}
	if err := checkDiagnostics(mod); err != nil {
		return nil, err
	}
	prog.Modules[path] = mod

	// Follow relative specifiers. Missing target files are tolerated here:
	// they only matter when inlining asks for them.
	for _, spec := range moduleSpecifiers(mod) {
		if !IsRelative(spec) {
			continue
		}
		target := ResolveSpecifier(path, spec)
		if _, statErr := os.Stat(target); statErr != nil {
			continue
		}
		if _, err := l.load(target, prog); err != nil {
			return nil, err
		}
	}

	return mod, nil
}

// ModuleFor resolves a specifier appearing in `from` to a loaded module.
func (p *Program) ModuleFor(from *Module, spec string) (*Module, bool) {
	if !IsRelative(spec) {
		return nil, false
	}
	mod, ok := p.Modules[ResolveSpecifier(from.Path, spec)]
	return mod, ok
}

// IsRelative reports whether a module specifier is a relative file reference.
func IsRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// ResolveSpecifier maps a relative specifier to a file path next to the
// importing module, appending the .ts extension when the specifier has none.
func ResolveSpecifier(fromPath, spec string) string {
	target := filepath.Join(filepath.Dir(fromPath), filepath.FromSlash(spec))
	if filepath.Ext(target) == "" {
		target += ".ts"
	}
	return target
}

// moduleSpecifiers collects the source specifier of every import/export
// statement at the top level of the module.
func moduleSpecifiers(mod *Module) []string {
	var specs []string
	root := mod.Root
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "import_statement" && stmt.Type() != "export_statement" {
			continue
		}
		if spec, ok := StatementSpecifier(stmt, mod.Source); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// StatementSpecifier returns the unquoted module specifier of an import or
// re-export statement, if the statement has one.
func StatementSpecifier(stmt *sitter.Node, source []byte) (string, bool) {
	src := stmt.ChildByFieldName("source")
	if src == nil {
		return "", false
	}
	return Unquote(src.Content(source)), true
}

// Unquote strips the surrounding quote characters from a string literal's
// raw source text.
func Unquote(raw string) string {
	if len(raw) >= 2 {
		switch raw[0] {
		case '\'', '"', '`':
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
