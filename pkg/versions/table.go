package versions

import (
	_ "embed"
	"io"
	"slices"
	"sync"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// Well-known keys of the bundled defaults.
const (
	KeySpringBoot  = "SPRING_BOOT_VERSION"
	KeySpringCloud = "SPRING_CLOUD_VERSION"
)

//go:embed defaults.properties
var bundledDefaults []byte

// Seed produces the initial contents of a Table. It runs at most once.
type Seed func() (map[string]string, error)

// Table maps version keys to fallback version strings.
//
// A Table is created once at startup and shared by reference with every
// component that needs fallback versions. Its contents are seeded lazily on
// first access; concurrent first accesses seed exactly once. After seeding
// the table only grows: Put and Merge never overwrite an existing key.
type Table struct {
	seed Seed
	once sync.Once
	err  error

	mu     sync.RWMutex
	values map[string]string
}

// New creates a table seeded by seed on first access. A nil seed yields an
// initially empty table.
func New(seed Seed) *Table {
	return &Table{seed: seed}
}

// NewDefault creates a table seeded from the bundled defaults document.
func NewDefault() *Table {
	return New(func() (map[string]string, error) {
		return ParseDocument(bundledDefaults)
	})
}

// NewLayered creates a table seeded from version documents on top of the
// bundled defaults. Earlier documents take precedence over later ones.
func NewLayered(docs ...[]byte) *Table {
	return New(func() (map[string]string, error) {
		values := make(map[string]string)
		for _, doc := range append(slices.Clone(docs), bundledDefaults) {
			parsed, err := ParseDocument(doc)
			if err != nil {
				return nil, err
			}
			for k, v := range parsed {
				if _, ok := values[k]; !ok {
					values[k] = v
				}
			}
		}
		return values, nil
	})
}

// NewFromMap creates a table seeded with a copy of values.
func NewFromMap(values map[string]string) *Table {
	return New(func() (map[string]string, error) {
		out := make(map[string]string, len(values))
		for k, v := range values {
			out[k] = v
		}
		return out, nil
	})
}

func (t *Table) init() {
	t.once.Do(func() {
		values := map[string]string{}
		if t.seed != nil {
			seeded, err := t.seed()
			if err != nil {
				t.err = errors.Wrap(errors.ErrCodeInvalidDocument, err, "seed default versions")
			} else if seeded != nil {
				values = seeded
			}
		}
		t.mu.Lock()
		t.values = values
		t.mu.Unlock()
	})
}

// Err returns the error raised while seeding the table, if any. A table
// whose seed failed starts out empty.
func (t *Table) Err() error {
	t.init()
	return t.err
}

// Get returns the version stored under key.
func (t *Table) Get(key string) (string, bool) {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[key]
	return v, ok
}

// GetOrDefault returns the version stored under key, or fallback.
func (t *Table) GetOrDefault(key, fallback string) string {
	if v, ok := t.Get(key); ok {
		return v
	}
	return fallback
}

// GetOrThrow returns the version stored under key or an
// UNKNOWN_VERSION_KEY error.
func (t *Table) GetOrThrow(key string) (string, error) {
	if v, ok := t.Get(key); ok {
		return v, nil
	}
	return "", errors.New(errors.ErrCodeUnknownVersionKey,
		"cannot get property '%s' on default versions as it does not exist", key)
}

// GetOrCompute returns the version stored under key. When absent, compute
// is called without holding the table lock, so it may read the table, and
// its result is stored unless another writer stored key first. Concurrent
// callers may each run compute; all of them get the stored value.
func (t *Table) GetOrCompute(key string, compute func(key string) string) string {
	if v, ok := t.Get(key); ok {
		return v
	}
	v := compute(key)
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.values[key]; ok {
		return existing
	}
	t.values[key] = v
	return v
}

// Put stores version under key unless the key is already present.
// It reports whether the value was stored.
func (t *Table) Put(key, version string) bool {
	t.init()
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.values[key]; ok {
		return false
	}
	t.values[key] = version
	return true
}

// Merge puts every entry of values, keeping existing keys. It returns the
// keys that were added.
func (t *Table) Merge(values map[string]string) []string {
	var added []string
	for _, k := range sortedKeys(values) {
		if t.Put(k, values[k]) {
			added = append(added, k)
		}
	}
	return added
}

// Load reads a version document from r and merges it into the table.
func (t *Table) Load(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read version document")
	}
	values, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return t.Merge(values), nil
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedKeys(t.values)
}

// Snapshot returns a copy of the table contents.
func (t *Table) Snapshot() map[string]string {
	t.init()
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
