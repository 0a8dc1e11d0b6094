package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ops-generator/internal/cache"
	"ops-generator/internal/config"
	"ops-generator/internal/diagnostic"
	"ops-generator/internal/gen"
	"ops-generator/internal/token"
)

// CodeRead is reported for inputs that cannot be read.
const CodeRead = "DRV001"

// Driver generates code for many files with shared settings.
type Driver struct {
	cfg         *config.Config
	generator   *gen.Generator
	cache       *cache.Cache
	logger      *zap.Logger
	toolVersion string
}

// New creates a Driver. The disk cache is opened when cfg.Cache is set; a
// cache that cannot be opened is logged and skipped.
func New(cfg *config.Config, toolVersion string, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Driver{
		cfg:         cfg,
		generator:   gen.NewGenerator(cfg.Generator()),
		logger:      logger,
		toolVersion: toolVersion,
	}

	if cfg.Cache {
		c, err := cache.Open(cfg.CacheDir)
		if err != nil {
			logger.Warn("cache disabled", zap.Error(err))
		} else {
			d.cache = c
			logger.Debug("cache opened", zap.String("dir", c.Dir()))
		}
	}

	return d
}

// FileResult is the outcome for one input.
type FileResult struct {
	Path string
	// Source is the input content, kept for diagnostic snippets.
	Source []byte
	// File is nil when the input had errors or no directives.
	File        *gen.GeneratedFile
	Diagnostics diagnostic.Diagnostics
	Cached      bool
}

// Result is the outcome of one run.
type Result struct {
	// Files are in input order.
	Files       []FileResult
	Diagnostics diagnostic.Diagnostics
}

// Generated returns the generated files in input order.
func (r *Result) Generated() []gen.GeneratedFile {
	var out []gen.GeneratedFile

	for _, f := range r.Files {
		if f.File != nil {
			out = append(out, *f.File)
		}
	}

	return out
}

// Sources maps every input path to its content.
func (r *Result) Sources() map[string][]byte {
	out := make(map[string][]byte, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = f.Source
	}

	return out
}

// Run generates code for paths, or for the configured inputs when paths is
// empty. The returned error is only set for problems outside the inputs,
// such as cancellation; input problems are diagnostics.
func (d *Driver) Run(ctx context.Context, paths []string) (*Result, error) {
	if len(paths) == 0 {
		paths = d.cfg.Inputs
	}

	files, err := CollectInputs(paths, d.cfg.Extensions, d.cfg.Suffix)
	if err != nil {
		return nil, err
	}

	res := &Result{Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		d.logger.Info("no input files", zap.Strings("paths", paths))
		return res, nil
	}

	jobs := d.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			// Each goroutine owns its index.
			res.Files[i] = d.processFile(path)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generating: %w", err)
	}

	cached := 0

	for _, f := range res.Files {
		res.Diagnostics.Merge(f.Diagnostics)

		if f.Cached {
			cached++
		}
	}

	d.logger.Info("generation finished",
		zap.Int("files", len(files)),
		zap.Int("generated", len(res.Generated())),
		zap.Int("cached", cached),
		zap.Int("errors", len(res.Diagnostics.Errors)),
		zap.Int("warnings", len(res.Diagnostics.Warnings)))

	return res, nil
}

func (d *Driver) processFile(path string) FileResult {
	fr := FileResult{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		fr.Diagnostics.AddError(CodeRead, err.Error(), path, token.Pos{})
		return fr
	}

	fr.Source = content

	key := cache.NewKey(d.toolVersion, d.cfg.Fingerprint(), path, content)

	entry, ok, err := d.cache.Get(key)
	if err != nil {
		d.logger.Warn("cache read failed", zap.String("file", path), zap.Error(err))
	}

	if ok {
		fr.Cached = true
		fr.Diagnostics = entry.Diagnostics(path)

		if entry.Filename != "" {
			fr.File = &gen.GeneratedFile{
				Filename: entry.Filename,
				Source:   path,
				Content:  entry.Content,
				Units:    entry.Units,
			}
		}

		d.logger.Debug("cache hit", zap.String("file", path))

		return fr
	}

	fr.File, fr.Diagnostics = d.generator.Generate(gen.SourceFile{Path: path, Content: content})

	if fr.Diagnostics.HasErrors() {
		d.logger.Debug("file has errors", zap.String("file", path), zap.Int("errors", len(fr.Diagnostics.Errors)))
		return fr
	}

	e := &cache.Entry{Notes: cache.NotesFrom(fr.Diagnostics)}
	if fr.File != nil {
		e.Filename = fr.File.Filename
		e.Content = fr.File.Content
		e.Units = fr.File.Units

		d.logger.Debug("generated", zap.String("file", path), zap.String("output", fr.File.Filename),
			zap.Int("units", fr.File.Units))
	}

	if err := d.cache.Put(key, e); err != nil {
		d.logger.Warn("cache write failed", zap.String("file", path), zap.Error(err))
	}

	return fr
}

// CollectInputs expands paths into a sorted, deduplicated list of files.
// Files named explicitly are always kept. Directories are walked for files
// ending in one of exts, skipping hidden directories and generated files
// ending in suffix.
func CollectInputs(paths, exts []string, suffix string) ([]string, error) {
	seen := make(map[string]bool)

	var files []string

	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		st, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", root, err)
		}

		if !st.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if path != root && isHidden(entry.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if IsInput(path, exts, suffix) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(files)

	return files, nil
}

// IsInput reports whether a file found while walking is an input.
func IsInput(path string, exts []string, suffix string) bool {
	name := filepath.Base(path)
	if suffix != "" && strings.HasSuffix(name, suffix) {
		return false
	}

	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
