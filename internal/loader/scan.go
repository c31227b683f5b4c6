package loader

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var ignoredDirs = []string{".git", "node_modules", "dist", "testdata"}

// FindSources walks root and returns every TypeScript source file eligible
// for generation, in walk order. Declaration files and files already carrying
// the generated suffix are skipped so repeated runs do not feed the tool its
// own output.
func FindSources(root, suffix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range ignoredDirs {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		name := d.Name()
		if !strings.HasSuffix(name, ".ts") || strings.HasSuffix(name, ".d.ts") {
			return nil
		}
		if suffix != "" && strings.HasSuffix(name, suffix+".ts") {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
