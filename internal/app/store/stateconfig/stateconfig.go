// internal/app/store/stateconfig/stateconfig.go
package stateconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/dstonem/discord-city-channel-bot/internal/domain/models"
)

// SchemaVersion is the current lookup-table file format version. Load fails
// loudly on a mismatch rather than letting stale ids surface later as obscure
// remote-API errors.
const SchemaVersion = 1

// ErrSchemaMismatch is returned by Load when the file carries a different
// schema version than this build understands.
var ErrSchemaMismatch = errors.New("stateconfig: schema version mismatch")

// Table is the region lookup table: sanitized region slug → provisioned ids.
// Onboarding requests read it while a provisioning run may be committing new
// regions, so access is guarded by a reader/writer lock.
type Table struct {
	mu      sync.RWMutex
	regions map[string]models.RegionConfig
}

// file is the on-disk shape of the lookup table.
type file struct {
	SchemaVersion int                            `json:"schema_version"`
	Regions       map[string]models.RegionConfig `json:"regions"`
}

// New returns an empty table.
func New() *Table {
	return &Table{regions: make(map[string]models.RegionConfig)}
}

// Put records the provisioned ids for a region slug.
func (t *Table) Put(cfg models.RegionConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regions[cfg.Slug] = cfg
}

// Lookup resolves a region slug. The second return is false for unknown
// regions.
func (t *Table) Lookup(slug string) (models.RegionConfig, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cfg, ok := t.regions[slug]
	return cfg, ok
}

// Len returns the number of configured regions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.regions)
}

// Slugs returns the region slugs in sorted order.
func (t *Table) Slugs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	slugs := make([]string, 0, len(t.regions))
	for slug := range t.regions {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Load reads the lookup table from path. A missing file is an error the
// caller can detect with os.IsNotExist and treat as "provisioning has not
// run yet".
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("stateconfig: parsing %s: %w", path, err)
	}
	if f.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("stateconfig: %s has schema version %d, this build expects %d: %w",
			path, f.SchemaVersion, SchemaVersion, ErrSchemaMismatch)
	}

	t := New()
	for slug, cfg := range f.Regions {
		cfg.Slug = slug
		t.regions[slug] = cfg
	}
	return t, nil
}

// Save writes the lookup table to path, replacing any previous file.
func (t *Table) Save(path string) error {
	out, err := t.MarshalIndent()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("stateconfig: writing %s: %w", path, err)
	}
	return nil
}

// MarshalIndent renders the table in its on-disk form, which doubles as the
// copy-pasteable representation printed after a provisioning run.
func (t *Table) MarshalIndent() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out, err := json.MarshalIndent(file{
		SchemaVersion: SchemaVersion,
		Regions:       t.regions,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("stateconfig: encoding table: %w", err)
	}
	return append(out, '\n'), nil
}
