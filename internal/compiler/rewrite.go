package compiler

import (
	"path"
	"strings"
)

// RewriteSpecifier points a relative module specifier at the sibling
// generated module: the extension is stripped and the suffix appended to the
// base name. When an explicit output directory is configured all generated
// files are flattened into it, so the rewritten specifier uses a fixed ./
// prefix instead of the original directory. Non-relative specifiers are
// external-library references and pass through untouched.
func RewriteSpecifier(spec, suffix, outDir string) string {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return spec
	}

	dir, file := path.Split(spec)
	base := strings.TrimSuffix(file, path.Ext(file))
	if outDir != "" {
		return "./" + base + suffix
	}
	return dir + base + suffix
}
