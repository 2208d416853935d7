package barkml

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// SourceFile is one unit of input to the loader: a source label (a file
// name in the common case) paired with its already-read text.
type SourceFile struct {
	Label string
	Text  string
}

// FileProvider yields the source files to load, in a deterministic
// order. The loader never touches a filesystem or glob pattern itself —
// directory discovery and file reading are a host concern (out of
// scope); the provider is the seam where that concern plugs in.
type FileProvider interface {
	Files() ([]SourceFile, error)
}

// StaticProvider is the simplest FileProvider: an in-memory, pre-sorted
// list of files. Hosts that already know their file set (tests, embedded
// configs) can use this directly instead of implementing the interface.
type StaticProvider []SourceFile

func (p StaticProvider) Files() ([]SourceFile, error) { return []SourceFile(p), nil }

// LoaderMode selects whether exactly one file must match (Single) or
// every file the provider yields is loaded (Multi).
type LoaderMode int

const (
	ModeMulti LoaderMode = iota
	ModeSingle
)

// MergeStrategy governs how duplicate top-level identifiers across
// files are resolved.
type MergeStrategy int

const (
	MergeError MergeStrategy = iota
	MergeOverride
	MergeAppendUnique
)

// PathValidation governs how strictly the loader checks source labels
// it receives from the provider.
type PathValidation int

const (
	PathLenient PathValidation = iota
	PathStrict
)

// LoaderConfig configures the loading pipeline. It is built with a
// fluent With... chain, the way the teacher's Parser and TemplateEngine
// configure themselves.
type LoaderConfig struct {
	Mode               LoaderMode
	Strategy           MergeStrategy
	MaxDepth           int
	AllowMissingMacros bool
	FileCacheEnabled   bool
	PathValidation     PathValidation
	Logger             *slog.Logger
}

// NewLoaderConfig returns a LoaderConfig with its documented defaults:
// Multi mode, Error merge strategy, a macro-chain depth ceiling of 64,
// missing macros rejected, no file cache, and lenient path validation.
func NewLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Mode:               ModeMulti,
		Strategy:           MergeError,
		MaxDepth:           64,
		AllowMissingMacros: false,
		FileCacheEnabled:   false,
		PathValidation:     PathLenient,
		Logger:             slog.Default(),
	}
}

func (c *LoaderConfig) WithMode(m LoaderMode) *LoaderConfig { c.Mode = m; return c }

func (c *LoaderConfig) WithMergeStrategy(s MergeStrategy) *LoaderConfig { c.Strategy = s; return c }

func (c *LoaderConfig) WithMaxDepth(d int) *LoaderConfig { c.MaxDepth = d; return c }

func (c *LoaderConfig) WithAllowMissingMacros(v bool) *LoaderConfig {
	c.AllowMissingMacros = v
	return c
}

func (c *LoaderConfig) WithFileCacheEnabled(v bool) *LoaderConfig { c.FileCacheEnabled = v; return c }

func (c *LoaderConfig) WithPathValidation(v PathValidation) *LoaderConfig {
	c.PathValidation = v
	return c
}

func (c *LoaderConfig) WithLogger(l *slog.Logger) *LoaderConfig {
	if l != nil {
		c.Logger = l
	}
	return c
}

func (c *LoaderConfig) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// fileCache is a process-wide, opt-in mapping from content hash to
// already-parsed module, guarded by sync.Map's own internal locking —
// writes are idempotent (re-parsing and re-storing the same content is
// harmless), so no additional mutual exclusion is required.
var fileCache sync.Map

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Load runs the full pipeline: collect, wrap, merge, resolve macros,
// validate.
func Load(provider FileProvider, cfg *LoaderConfig) (*Statement, error) {
	if cfg == nil {
		cfg = NewLoaderConfig()
	}
	files, err := provider.Files()
	if err != nil {
		return nil, newFileError("<provider>", err)
	}

	modules := make([]*Statement, 0, len(files))
	texts := make(map[string]string, len(files))
	for _, f := range files {
		if cfg.PathValidation == PathStrict {
			if err := validateStrictLabel(f.Label); err != nil {
				return nil, err
			}
		}
		mod, err := collectOne(f, cfg)
		if err != nil {
			return nil, err
		}
		modules = append(modules, mod)
		texts[f.Label] = f.Text
	}

	if cfg.Mode == ModeSingle && len(modules) != 1 {
		return nil, &Error{
			Kind:    KindFileError,
			Message: fmt.Sprintf("single mode requires exactly one matching file, found %d", len(modules)),
		}
	}

	merged, err := mergeFileModules(modules, cfg.Strategy, texts)
	if err != nil {
		return nil, err
	}

	r := newResolver(merged, cfg.MaxDepth, cfg.AllowMissingMacros, texts)
	resolved, err := r.Resolve(merged)
	if err != nil {
		return nil, err
	}

	if err := validateAssignmentTypes(resolved, texts); err != nil {
		return nil, err
	}
	return resolved, nil
}

func collectOne(f SourceFile, cfg *LoaderConfig) (*Statement, error) {
	if cfg.FileCacheEnabled {
		if cached, ok := fileCache.Load(contentHash(f.Text)); ok {
			return cached.(*Statement), nil
		}
	}
	mod, err := Parse(f.Label, f.Text)
	if err != nil {
		return nil, err
	}
	if cfg.FileCacheEnabled {
		if _, loaded := fileCache.LoadOrStore(contentHash(f.Text), mod); loaded {
			cfg.logger().Debug("file cache hit raced with parse, keeping first parse", "source", f.Label)
		}
	}
	return mod, nil
}

func validateStrictLabel(label string) error {
	if strings.HasPrefix(label, "/") || strings.Contains(label, "..") {
		return &Error{Kind: KindFileError, Message: "path traversal or absolute path not allowed", Path: label}
	}
	return nil
}

// mergeFileModules implements the Wrap + Merge pipeline stages: the
// top-level children of each file's Module are folded per strategy, in
// provider order, into one flat top-level Module. The per-file Modules
// are not kept as children of the result.
func mergeFileModules(modules []*Statement, strategy MergeStrategy, texts map[string]string) (*Statement, error) {
	if len(modules) == 0 {
		return NewModule("", "<empty>", newOrderedMap[*Statement](), Location{}, Metadata{}), nil
	}
	dst := newOrderedMap[*Statement]()
	for _, mod := range modules {
		if mod.Children == nil {
			continue
		}
		if err := mergeInto(dst, mod.Children, strategy, texts); err != nil {
			return nil, err
		}
	}
	label := modules[0].Source
	if len(modules) > 1 {
		labels := make([]string, len(modules))
		for i, m := range modules {
			labels[i] = m.Source
		}
		label = strings.Join(labels, "+")
	}
	return NewModule(label, label, dst, Location{Source: label}, Metadata{}), nil
}

func mergeInto(dst *orderedMap[*Statement], src *orderedMap[*Statement], strategy MergeStrategy, texts map[string]string) error {
	var err error
	src.Each(func(key string, child *Statement) bool {
		existing, ok := dst.Get(key)
		if !ok {
			dst.Set(key, child)
			return true
		}
		switch strategy {
		case MergeOverride:
			dst.Set(key, child)
			return true
		case MergeAppendUnique:
			if existing.Kind == StatementBlock && child.Kind == StatementBlock {
				mergedChild := existing.Clone()
				if mergedChild.Children == nil {
					mergedChild.Children = newOrderedMap[*Statement]()
				}
				if e := mergeInto(mergedChild.Children, child.Children, strategy, texts); e != nil {
					err = e
					return false
				}
				dst.Set(key, mergedChild)
				return true
			}
			// A duplicated non-block child under AppendUnique is under-specified
			// upstream; this implementation treats it as a conflict (see DESIGN.md).
			err = newMergeConflict(child.Loc, key, "AppendUnique does not support duplicate non-block identifiers", texts[child.Loc.Source])
			return false
		default: // MergeError
			err = newMergeConflict(child.Loc, key, "duplicate top-level identifier across files", texts[child.Loc.Source])
			return false
		}
	})
	return err
}

// validateAssignmentTypes is the loader's final pass: declared types may
// have become incompatible with their value after a merge introduced a
// wider or narrower replacement.
func validateAssignmentTypes(stmt *Statement, texts map[string]string) error {
	if stmt.Kind == StatementAssignment {
		if stmt.DeclaredType != nil && stmt.Value.Kind != TypeMacro {
			if !Compatible(*stmt.DeclaredType, stmt.Value.Type()) {
				return newTypeMismatch(stmt.Value.Loc, *stmt.DeclaredType, stmt.Value.Type(), texts[stmt.Value.Loc.Source])
			}
		}
		return nil
	}
	if stmt.Children == nil {
		return nil
	}
	var err error
	stmt.Children.Each(func(_ string, child *Statement) bool {
		if e := validateAssignmentTypes(child, texts); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}
