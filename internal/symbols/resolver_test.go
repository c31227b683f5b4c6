package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsjoi/internal/loader"
)

func loadModule(t *testing.T, src string) (*loader.Module, *Resolver) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ts")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	prog, err := loader.NewLoader().Load(path)
	require.NoError(t, err)
	return prog.Root, NewResolver(prog)
}

func TestDisplayName(t *testing.T) {
	mod, r := loadModule(t, "interface Foo { x: number; }\n")

	decl := mod.Root.NamedChild(0)
	assert.Equal(t, "Foo", r.DisplayName(mod, decl))
	assert.Equal(t, Unknown, r.DisplayName(mod, nil))
	assert.Equal(t, Unknown, r.DisplayName(mod, mod.Root))
}

func TestEnumMemberValues(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"Implicit", "enum E { A, B, C }\n", []string{"0", "1", "2"}},
		{"Explicit Numbers", "enum E { A = 10, B = 20 }\n", []string{"10", "20"}},
		{"Resumed Increment", "enum E { A = 5, B, C }\n", []string{"5", "6", "7"}},
		{"Strings", "enum E { A = 'a', B = 'b' }\n", []string{"'a'", "'b'"}},
		{"Negative", "enum E { A = -1, B }\n", []string{"-1", "0"}},
		{"Member Reference", "enum E { A = 1, B = A }\n", []string{"1", "1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mod, r := loadModule(t, tc.src)
			values, err := r.EnumMemberValues(mod, mod.Root.NamedChild(0))
			require.NoError(t, err)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestEnumMemberValues_Failures(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"Implicit After String", "enum E { A = 'a', B }\n"},
		{"Computed Initializer", "enum E { A = 1 + 2 }\n"},
		{"Call Initializer", "enum E { A = f() }\n"},
		{"Unknown Reference", "enum E { A = Other }\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mod, r := loadModule(t, tc.src)
			_, err := r.EnumMemberValues(mod, mod.Root.NamedChild(0))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot resolve constant")
		})
	}
}

func TestModuleFor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.ts"),
		[]byte("export interface Base { v: number; }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ts"),
		[]byte("import { Base } from './base';\n"), 0644))

	prog, err := loader.NewLoader().Load(filepath.Join(dir, "main.ts"))
	require.NoError(t, err)
	r := NewResolver(prog)

	base, ok := r.ModuleFor(prog.Root, "./base")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "base.ts"), base.Path)

	_, ok = r.ModuleFor(prog.Root, "./missing")
	assert.False(t, ok)
	_, ok = r.ModuleFor(prog.Root, "joi")
	assert.False(t, ok)
}
