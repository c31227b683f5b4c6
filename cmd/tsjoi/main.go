package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tsjoi/internal/compiler"
	"tsjoi/internal/config"
	"tsjoi/internal/loader"
	"tsjoi/internal/manifest"
	"tsjoi/internal/storage"
	"tsjoi/internal/symbols"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "tsjoi",
		Short: "Generate Joi validation schemas from tagged TypeScript declarations",
	}

	configPath string
	cachePath  string
	noCache    bool

	suffix               string
	outDir               string
	ignoreGenerics       bool
	ignoreIndexSignature bool
	inlineImports        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "tsjoi.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Path to the generation cache database (SQLite)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Regenerate every file, ignoring the cache")

	generateCmd.Flags().StringVar(&suffix, "suffix", compiler.DefaultSuffix, "Suffix appended to generated file names and rewritten specifiers")
	generateCmd.Flags().StringVar(&outDir, "out-dir", "", "Write all generated files into this directory (flattened)")
	generateCmd.Flags().BoolVar(&ignoreGenerics, "ignore-generics", false, "Map unsupported generic references to any instead of failing")
	generateCmd.Flags().BoolVar(&ignoreIndexSignature, "ignore-index-signature", false, "Drop index signatures instead of failing")
	generateCmd.Flags().BoolVar(&inlineImports, "inline-imports", false, "Inline relatively-imported modules instead of rewriting their imports")

	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate schema modules for the given TypeScript files or directories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		opts := cfg.Options()
		if cmd.Flags().Changed("suffix") {
			opts.Suffix = suffix
		}
		if cmd.Flags().Changed("out-dir") {
			opts.OutDir = outDir
		}
		if cmd.Flags().Changed("ignore-generics") {
			opts.IgnoreGenerics = ignoreGenerics
		}
		if cmd.Flags().Changed("ignore-index-signature") {
			opts.IgnoreIndexSignature = ignoreIndexSignature
		}
		if cmd.Flags().Changed("inline-imports") {
			opts.InlineImports = inlineImports
		}

		files, err := collectFiles(args, opts.Suffix)
		if err != nil {
			log.Fatalf("Failed to collect input files: %v", err)
		}
		if len(files) == 0 {
			fmt.Println("No TypeScript sources found.")
			return
		}

		var cache *storage.Cache
		if !noCache {
			path := cachePath
			if path == "" {
				path = cfg.Cache.Path
			}
			cache, err = storage.NewCache(path)
			if err != nil {
				log.Fatalf("Failed to open cache: %v", err)
			}
			defer cache.Close()
		}

		ctx := context.Background()
		ld := loader.NewLoader()
		man := manifest.New()
		key := optionsKey(opts)
		failed := 0

		for _, file := range files {
			source, err := os.ReadFile(file)
			if err != nil {
				log.Printf("⚠️  %s: %v", file, err)
				failed++
				continue
			}

			hash := storage.Fingerprint(source, key)
			outPath := outputPath(file, opts)

			if cache != nil {
				if entry, ok, err := cache.Lookup(ctx, file); err == nil && ok && entry.Hash == hash {
					if _, statErr := os.Stat(outPath); statErr == nil {
						man.Add(manifest.Entry{Source: file, Output: outPath, Hash: hash, Exports: entry.Exports})
						fmt.Printf("  %s (cached)\n", outPath)
						continue
					}
				}
			}

			prog, err := ld.Load(file)
			if err != nil {
				log.Printf("⚠️  %s: %v", file, err)
				failed++
				continue
			}

			em := compiler.NewEmitter(opts, symbols.NewResolver(prog))
			text, err := em.Compile(prog.Root)
			if err != nil {
				log.Printf("⚠️  %s: %v", file, err)
				failed++
				continue
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				log.Fatalf("Failed to create output directory: %v", err)
			}
			if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
				log.Fatalf("Failed to write %s: %v", outPath, err)
			}
			fmt.Printf("  %s\n", outPath)

			exports := em.Exported()
			if cache != nil {
				entry := &storage.Entry{Source: file, Hash: hash, Output: outPath, Exports: exports}
				if err := cache.Save(ctx, entry); err != nil {
					log.Printf("Warning: failed to update cache for %s: %v", file, err)
				}
			}
			man.Add(manifest.Entry{Source: file, Output: outPath, Hash: hash, Exports: exports})
		}

		manifestDir := opts.OutDir
		if manifestDir == "" {
			manifestDir = "."
		}
		if err := man.Save(manifestDir); err != nil {
			log.Printf("Warning: failed to write manifest: %v", err)
		}

		if failed > 0 {
			fmt.Printf("❌ %d of %d files failed.\n", failed, len(files))
			os.Exit(1)
		}
		fmt.Printf("✅ Generated %d files.\n", len(files))
	},
}

// collectFiles expands the argument list: directories are scanned for
// TypeScript sources, files are taken as-is.
func collectFiles(args []string, suffix string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := loader.FindSources(arg, suffix)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, arg)
	}
	return files, nil
}

// outputPath is the generated file for input name.ext: name<suffix>.ts in
// the resolved output directory.
func outputPath(file string, opts compiler.Options) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	dir := filepath.Dir(file)
	if opts.OutDir != "" {
		dir = opts.OutDir
	}
	return filepath.Join(dir, base+opts.Suffix+".ts")
}

// optionsKey fingerprints the options that affect generated output, so the
// cache invalidates when they change.
func optionsKey(opts compiler.Options) string {
	return fmt.Sprintf("%s|%s|%t|%t|%t",
		opts.Suffix, opts.OutDir, opts.IgnoreGenerics, opts.IgnoreIndexSignature, opts.InlineImports)
}
