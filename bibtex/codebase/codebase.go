// Package codebase keeps the parsed .bib documents of a workspace in memory
// and serves them to editors over the language server protocol.
package codebase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dhamidi/bib/bibtex"
	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

// Extension is the file extension of documents picked up from disk.
const Extension = ".bib"

// Document is one parsed file. Documents are replaced, never modified, so a
// reader holding one sees a consistent text and tree.
type Document struct {
	Path string
	Text string
	Tree *bibtex.Tree
	// Open is set while an editor owns the document. Disk changes do not
	// replace open documents.
	Open bool
}

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	docs    map[string]*Document
	opts    []parser.Option
	log     commonlog.Logger
}

func New(rootDir string, opts ...parser.Option) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		docs:    make(map[string]*Document),
		opts:    opts,
		log:     commonlog.GetLogger("bib.codebase"),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// SetParserOptions changes the options used for documents parsed from now
// on. Documents already in the codebase keep their trees.
func (c *Codebase) SetParserOptions(opts ...parser.Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
}

// Update parses text and replaces the document at path. The open flag of an
// existing document is kept.
func (c *Codebase) Update(path, text string) *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	open := false
	if old, ok := c.docs[path]; ok {
		open = old.Open
	}
	return c.putLocked(path, text, open)
}

// Open stores the editor's text for path and marks it open.
func (c *Codebase) Open(path, text string) *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.putLocked(path, text, true)
}

func (c *Codebase) putLocked(path, text string, open bool) *Document {
	doc := &Document{
		Path: path,
		Text: text,
		Tree: bibtex.Parse(text, c.opts...),
		Open: open,
	}
	c.docs[path] = doc
	return doc
}

// Close hands path back to the disk: the saved content replaces the
// editor's text, or the document is dropped when the file is gone.
func (c *Codebase) Close(path string) {
	data, err := os.ReadFile(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warningf("reading %s: %s", path, err)
		}
		delete(c.docs, path)
		return
	}
	c.putLocked(path, string(data), false)
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[path]
	return ok && doc.Open
}

func (c *Codebase) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, path)
}

func (c *Codebase) Get(path string) *Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.docs[path]
}

// Paths returns the paths of all documents in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.docs))
	for path := range c.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Load reads path from disk and parses it, unless the document is open.
func (c *Codebase) Load(path string) error {
	if c.IsOpen(path) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if doc, ok := c.docs[path]; ok && doc.Open {
		return nil
	}
	c.putLocked(path, string(data), false)
	return nil
}

// ScanAll loads every .bib file below the root directory. Hidden directories
// are skipped. Files that fail to load are logged and skipped.
func (c *Codebase) ScanAll() error {
	var paths []string
	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Extension {
			paths = append(paths, path)
		}
		return nil
	})

	var loaded atomic.Int64
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := c.Load(path); err != nil {
				c.log.Warningf("%s", err)
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	g.Wait()

	c.log.Infof("scanned %d documents in %s", loaded.Load(), c.rootDir)
	return err
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// lookup walks the document at path first, then all other documents in
// path order, and returns the first document for which found reports true.
func (c *Codebase) lookup(path string, found func(*Document) bool) *Document {
	if doc := c.Get(path); doc != nil && found(doc) {
		return doc
	}
	for _, other := range c.Paths() {
		if other == path {
			continue
		}
		if doc := c.Get(other); doc != nil && found(doc) {
			return doc
		}
	}
	return nil
}

// FindEntry resolves a citation key as seen from the document at path.
func (c *Codebase) FindEntry(path, key string) (*Document, *bibtex.Entry) {
	var entry *bibtex.Entry
	doc := c.lookup(path, func(doc *Document) bool {
		entry = doc.Tree.Entry(key)
		return entry != nil
	})
	if doc == nil {
		return nil, nil
	}
	return doc, entry
}

// FindMacro resolves an @string name as seen from the document at path.
func (c *Codebase) FindMacro(path, name string) (*Document, *bibtex.String) {
	var macro *bibtex.String
	doc := c.lookup(path, func(doc *Document) bool {
		macro = doc.Tree.Macro(name)
		return macro != nil
	})
	if doc == nil {
		return nil, nil
	}
	return doc, macro
}

// Macros returns the @string declarations visible from the document at
// path in lookup order. A name already declared earlier in that order is
// skipped, so every returned macro is the one FindMacro resolves.
func (c *Codebase) Macros(path string) []*bibtex.String {
	var macros []*bibtex.String
	seen := make(map[string]bool)
	c.lookup(path, func(doc *Document) bool {
		for _, macro := range doc.Tree.Strings() {
			name := strings.ToLower(macro.Name())
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			macros = append(macros, macro)
		}
		return false
	})
	return macros
}
