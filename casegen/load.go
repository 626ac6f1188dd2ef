package casegen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
	"github.com/JeremiahSanders/testingutils-xunit-extras/syntax"
)

// LoadOptions controls how input paths are expanded into C# files
type LoadOptions struct {
	// GeneratedSuffix marks files produced by casegen; they are never read back as input
	GeneratedSuffix string
	// ExcludeDirs are directory base names skipped while walking
	ExcludeDirs []string
	// Defines are the conditional compilation symbols defined while parsing
	Defines []string
}

// DefaultLoadOptions returns the options matching config defaults
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		GeneratedSuffix: config.DefaultSuffix,
		ExcludeDirs:     config.DefaultExcludeDirs,
	}
}

// LoadOptionsFromConfig derives load options from cfg
func LoadOptionsFromConfig(cfg *config.Config) LoadOptions {
	return LoadOptions{
		GeneratedSuffix: cfg.Output.Suffix,
		ExcludeDirs:     cfg.Sources.ExcludeDirs,
		Defines:         cfg.Sources.DefineConstants,
	}
}

// IsSourceFile reports whether path is a C# input file under opts
func (o LoadOptions) IsSourceFile(path string) bool {
	if !strings.HasSuffix(path, ".cs") {
		return false
	}
	return o.GeneratedSuffix == "" || !strings.HasSuffix(path, o.GeneratedSuffix)
}

// IsExcludedDir reports whether a directory with this base name is skipped
func (o LoadOptions) IsExcludedDir(name string) bool {
	for _, ex := range o.ExcludeDirs {
		if name == ex {
			return true
		}
	}
	return false
}

// Expand resolves files and directories into a sorted, duplicate-free list of C# files.
// Explicitly named files are kept even when they do not look like sources.
func Expand(paths []string, opts LoadOptions) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && opts.IsExcludedDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if opts.IsSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", root)
		}
	}
	return out, nil
}

// Load expands paths and parses every file concurrently. Files are returned in the order
// Expand lists them, so generation order does not depend on scheduling.
func Load(ctx context.Context, paths []string, opts LoadOptions) ([]*syntax.File, error) {
	names, err := Expand(paths, opts)
	if err != nil {
		return nil, err
	}

	files := make([]*syntax.File, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := ParseFile(name, opts.Defines...)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debugw("Loaded sources", logger.FieldCount, len(files))
	return files, nil
}

// ParseFile reads and parses one C# file with the given conditional compilation symbols defined
func ParseFile(path string, defines ...string) (*syntax.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return syntax.ParseWith(path, string(data), defines)
}
