package render

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReferenceEntry points at a real hairstyle photo on local disk.
type ReferenceEntry struct {
	LocalPath string `json:"local_path"`
	SourceURL string `json:"source_url,omitempty"`
}

// ReferenceCatalog maps style slugs to downloaded reference photos. It is
// loaded once at construction and injected into the render client, so there
// is no process-wide mutable state behind the lookup.
type ReferenceCatalog struct {
	entries map[string]ReferenceEntry
}

// LoadReferenceCatalog reads the catalog file written by the reference image
// sync. A missing path yields an empty catalog rather than an error so the
// worker can run without reference assets.
func LoadReferenceCatalog(path string) (*ReferenceCatalog, error) {
	if path == "" {
		return &ReferenceCatalog{entries: map[string]ReferenceEntry{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ReferenceCatalog{entries: map[string]ReferenceEntry{}}, nil
		}
		return nil, fmt.Errorf("read reference catalog: %w", err)
	}
	entries := map[string]ReferenceEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode reference catalog: %w", err)
	}
	return &ReferenceCatalog{entries: entries}, nil
}

// Lookup returns the reference entry for a slug, if any.
func (c *ReferenceCatalog) Lookup(slug string) (ReferenceEntry, bool) {
	if c == nil {
		return ReferenceEntry{}, false
	}
	entry, ok := c.entries[slug]
	return entry, ok
}

// Len returns the number of reference entries.
func (c *ReferenceCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
