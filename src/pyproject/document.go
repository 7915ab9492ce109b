// Package pyproject models the toolchain configuration of a Python
// project: the [tool.black], [tool.mypy], and [tool.ruff] tables of
// pyproject.toml, the curated profile those tables are audited against,
// and the canonical serialization used by fmt/init/migrate.
package pyproject

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Document is a parsed pyproject.toml. The raw tree preserves every
// table and key of the source file; typed views of the managed tool
// tables are decoded on demand.
type Document struct {
	Path string // source path, empty for in-memory documents
	root map[string]any
}

// Parse decodes TOML bytes into a Document.
func Parse(data []byte) (*Document, error) {
	root := map[string]any{}
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing toml: %w", err)
	}
	return &Document{root: root}, nil
}

// Load reads and parses a pyproject.toml from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: map[string]any{}}
}

// Raw returns the underlying tree. Callers must not mutate it directly;
// use SetTable/Delete so managed and unmanaged keys stay consistent.
func (d *Document) Raw() map[string]any {
	return d.root
}

// Table returns the nested table at the given key path, e.g.
// Table("tool", "ruff", "lint"). The second result is false when any
// segment is missing or not a table.
func (d *Document) Table(path ...string) (map[string]any, bool) {
	cur := d.root
	for _, seg := range path {
		next, ok := cur[seg]
		if !ok {
			return nil, false
		}
		tbl, ok := next.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = tbl
	}
	return cur, true
}

// Has reports whether a key or table exists at the given path.
func (d *Document) Has(path ...string) bool {
	if len(path) == 0 {
		return false
	}
	parent, ok := d.Table(path[:len(path)-1]...)
	if !ok {
		return false
	}
	_, ok = parent[path[len(path)-1]]
	return ok
}

// SetTable replaces the table at the given path, creating intermediate
// tables as needed.
func (d *Document) SetTable(value map[string]any, path ...string) {
	cur := d.root
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// Delete removes the key or table at the given path. Missing segments
// are a no-op.
func (d *Document) Delete(path ...string) {
	if len(path) == 0 {
		return
	}
	parent, ok := d.Table(path[:len(path)-1]...)
	if !ok {
		return
	}
	delete(parent, path[len(path)-1])
}

// decodeTable re-encodes the table at path and decodes it into out.
// Returns false when the table does not exist. Type mismatches surface
// as a *toml.DecodeError from the inner decode.
func (d *Document) decodeTable(out any, path ...string) (bool, error) {
	tbl, ok := d.Table(path...)
	if !ok {
		return false, nil
	}
	raw, err := toml.Marshal(tbl)
	if err != nil {
		return true, fmt.Errorf("encoding [%s]: %w", strings.Join(path, "."), err)
	}
	if err := toml.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("[%s]: %w", strings.Join(path, "."), err)
	}
	return true, nil
}

// ParsePosition extracts the line/column of a TOML decode error.
// Returns ok=false when err carries no position info.
func ParsePosition(err error) (line, col int, ok bool) {
	var derr *toml.DecodeError
	if !errors.As(err, &derr) {
		return 0, 0, false
	}
	row, column := derr.Position()
	return row, column, true
}

// ParseErrorKey extracts the key path a TOML decode error points at,
// e.g. ["tool", "black", "line-length"]. Returns ok=false when err is
// not a decode error or carries no key.
func ParseErrorKey(err error) ([]string, bool) {
	var derr *toml.DecodeError
	if !errors.As(err, &derr) {
		return nil, false
	}
	key := derr.Key()
	if len(key) == 0 {
		return nil, false
	}
	return []string(key), true
}

// FindKeyLine locates the 1-based line of a TOML key assignment in raw
// file content. Returns 0 when the key is not found.
func FindKeyLine(data []byte, key string) int {
	return FindKeyLineAfter(data, key, 1)
}

// FindKeyLineAfter locates the 1-based line of a key assignment at or
// after the given line. Lets callers disambiguate keys that appear in
// more than one table, e.g. line-length under both black and ruff.
func FindKeyLineAfter(data []byte, key string, after int) int {
	for i, line := range strings.Split(string(data), "\n") {
		if i+1 < after {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, key+" ") || strings.HasPrefix(trimmed, key+"=") || strings.HasPrefix(trimmed, `"`+key+`"`) {
			return i + 1
		}
	}
	return 0
}

// FindTableLine locates the 1-based line of a [table] header, e.g.
// FindTableLine(data, "tool.ruff"). Returns 0 when not found.
func FindTableLine(data []byte, table string) int {
	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "["+table+"]" || strings.HasPrefix(trimmed, "["+table+"]") {
			return i + 1
		}
	}
	return 0
}
