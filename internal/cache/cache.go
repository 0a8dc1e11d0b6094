package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"ops-generator/internal/diagnostic"
	"ops-generator/internal/token"
)

// schemaVersion is bumped whenever Entry changes shape.
const schemaVersion uint16 = 1

// Key identifies one cached result.
type Key [sha256.Size]byte

// String returns the key in hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// NewKey derives the cache key of one input file.
func NewKey(toolVersion, fingerprint, path string, content []byte) Key {
	h := sha256.New()

	for _, part := range []string{toolVersion, fingerprint, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}

	h.Write(content)

	var k Key
	copy(k[:], h.Sum(nil))

	return k
}

// Entry is the cached outcome of generating one input. Only inputs without
// errors are cached.
type Entry struct {
	Schema uint16
	// Filename is empty when the input held no directives.
	Filename string
	Content  []byte
	Units    int
	Notes    []Note
}

// Note is a warning or info diagnostic replayed on a cache hit.
type Note struct {
	Severity uint8
	Code     string
	Message  string
	Offset   uint32
	Line     int
	Col      int
	Help     []string `msgpack:",omitempty"`
}

// NotesFrom keeps the non-error diagnostics of one file.
func NotesFrom(d diagnostic.Diagnostics) []Note {
	var out []Note

	for _, list := range [][]diagnostic.Diagnostic{d.Warnings, d.Infos} {
		for _, x := range list {
			out = append(out, Note{
				Severity: uint8(x.Severity),
				Code:     x.Code,
				Message:  x.Message,
				Offset:   x.Pos.Offset,
				Line:     x.Pos.Line,
				Col:      x.Pos.Col,
				Help:     x.Suggestions,
			})
		}
	}

	return out
}

// Diagnostics rebuilds the notes of an entry for file.
func (e *Entry) Diagnostics(file string) diagnostic.Diagnostics {
	var d diagnostic.Diagnostics

	for _, n := range e.Notes {
		pos := token.Pos{Offset: n.Offset, Line: n.Line, Col: n.Col}

		switch diagnostic.DiagnosticSeverity(n.Severity) {
		case diagnostic.DiagnosticWarning:
			d.AddWarning(n.Code, n.Message, file, pos, n.Help...)
		default:
			d.AddInfo(n.Code, n.Message, file, pos, n.Help...)
		}
	}

	return d
}

// Cache is a directory of msgpack entries. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache rooted at dir, creating it if needed. An empty dir
// selects ops-generator under the user cache directory.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locating user cache directory: %w", err)
		}

		dir = filepath.Join(base, "ops-generator")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}

	return c.dir
}

func (c *Cache) pathFor(key Key) string {
	s := key.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

// Get reads the entry for key. Missing entries and entries written by
// another schema are reported as misses.
func (c *Cache) Get(key Key) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}

	if e.Schema != schemaVersion {
		return nil, false, nil
	}

	return &e, true, nil
}

// Put stores e under key.
func (c *Cache) Put(key Key, e *Entry) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := *e
	stored.Schema = schemaVersion

	data, err := msgpack.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache entry %s: %w", key, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())

		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}

	if err := os.Rename(f.Name(), p); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("storing cache entry %s: %w", key, err)
	}

	return nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}

	return nil
}
