// Package catalog builds the read-only mapping from known URL paths to dense
// PathIds that the rest of the pipeline parses and aggregates against. The
// catalog's source is an injected collaborator; this package only knows how
// to validate and shape whatever pairs it is handed.
package catalog

import "strings"

// Prefix is the fixed literal every valid catalog URI and every valid log
// record begins with.
const Prefix = "https://stitcher.io"

// Catalog is the immutable, read-only structure shared by every worker.
type Catalog struct {
	// EscapedByID holds the JSON-path-escaped form of each known path,
	// indexed by PathId.
	EscapedByID []string

	// IDByPath maps the raw (unescaped) path to its PathId.
	IDByPath map[string]int
}

// Entry is one (id, uri) pair from the catalog source.
type Entry struct {
	ID  int
	URI string
}

// Build validates and shapes a sequence of catalog entries into a Catalog.
// An entry is dropped when its URI is empty or does not begin with Prefix.
// P (len(EscapedByID)) may be smaller than len(entries) as a result.
//
// IDs need not be dense or ordered on input; Build assigns array slots in
// the order entries are accepted, so the resulting PathIds are dense
// regardless of the source numbering.
func Build(entries []Entry) *Catalog {
	cat := &Catalog{
		IDByPath: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if len(e.URI) <= len(Prefix) || !strings.HasPrefix(e.URI, Prefix) {
			continue
		}
		path := e.URI[len(Prefix):]
		id := len(cat.EscapedByID)
		cat.EscapedByID = append(cat.EscapedByID, escapePath(path))
		cat.IDByPath[path] = id
	}
	return cat
}

// P returns the number of known paths.
func (c *Catalog) P() int {
	return len(c.EscapedByID)
}

// escapePath applies the one escaping rule the emitter's grammar needs:
// '/' becomes '\/'. The catalog guarantees paths contain no other
// JSON-special characters.
func escapePath(path string) string {
	if !strings.ContainsRune(path, '/') {
		return path
	}
	var b strings.Builder
	b.Grow(len(path) + 4)
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			b.WriteByte('\\')
		}
		b.WriteByte(path[i])
	}
	return b.String()
}
