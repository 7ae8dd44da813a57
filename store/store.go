// Package store keeps a directory of amis page schemas indexed by form name.
//
// Every *.json, *.json5, *.yaml and *.yml file below the directory is parsed
// and each form it contains is registered under its name. A Store is safe for
// concurrent use; Reload swaps the whole index at once, so readers never see
// a half-loaded directory.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	amisform "github.com/reoring/amisform"
	"github.com/reoring/amisform/node"
)

// DefaultExtensions lists the schema file types picked up by default.
var DefaultExtensions = []string{".json", ".json5", ".yaml", ".yml"}

// DefaultDebounce is the quiet period Watch waits for before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Store.
type Options struct {
	Logger     *slog.Logger
	ParseOpt   *amisform.ParseOpt // nil means amisform.LenientParseOpt
	Extensions []string           // nil means DefaultExtensions
	Debounce   time.Duration      // 0 means DefaultDebounce
}

// Entry is one indexed form.
type Entry struct {
	Form *node.Node
	File string
}

// Store indexes the forms found in a schema directory.
type Store struct {
	dir  string
	opts Options

	mu      sync.RWMutex
	entries map[string]Entry
	loaded  time.Time
}

// Open loads dir and returns the populated store.
func Open(dir string, opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ParseOpt == nil {
		po := amisform.LenientParseOpt()
		opts.ParseOpt = &po
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store: %s is not a directory", dir)
	}
	s := &Store{dir: dir, opts: opts, entries: map[string]Entry{}}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the watched directory.
func (s *Store) Dir() string { return s.dir }

// Lookup returns the form registered under name.
func (s *Store) Lookup(name string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	return e.Form, ok
}

// Entry returns the form registered under name together with its file.
func (s *Store) Entry(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	return e, ok
}

// Names returns the registered form names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	for n := range s.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadedAt reports when the index was last replaced.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Reload rescans the directory. On any file error the previous index is
// kept and the joined errors are returned.
func (s *Store) Reload() error {
	files, err := s.files()
	if err != nil {
		return fmt.Errorf("store: scan %s: %w", s.dir, err)
	}
	entries := make(map[string]Entry)
	var errs []error
	for _, f := range files {
		forms, err := s.loadFile(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			continue
		}
		for name, form := range forms {
			if prev, dup := entries[name]; dup {
				s.opts.Logger.Warn("form defined twice, keeping the first",
					"form", name, "kept", prev.File, "ignored", f)
				continue
			}
			entries[name] = Entry{Form: form, File: f}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("store: reload: %w", errors.Join(errs...))
	}

	s.mu.Lock()
	s.entries = entries
	s.loaded = time.Now()
	s.mu.Unlock()

	s.opts.Logger.Info("schema store loaded", "dir", s.dir, "files", len(files), "forms", len(entries))
	return nil
}

// files lists schema files in lexical order, skipping hidden entries.
func (s *Store) files() ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != s.dir && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && s.wants(path) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func (s *Store) loadFile(path string) (map[string]*node.Node, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opt := *s.opts.ParseOpt
	if isYAML(path) {
		// YAML has its own # comments and quoting rules, and // or an
		// apostrophe is legal inside plain scalars
		opt.AllowComments = false
		opt.AllowSingleQuotes = false
		opt.AllowUnquotedKeys = true
	}
	root, err := amisform.Parse(b, opt)
	if err != nil {
		return nil, err
	}
	return amisform.FindForms(root), nil
}

func (s *Store) wants(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.opts.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
