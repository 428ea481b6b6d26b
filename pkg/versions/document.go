package versions

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/magiconair/properties"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// ParseDocument reads a shared version document. Lines are KEY=VALUE pairs
// (":" and whitespace separators are accepted too); comment lines starting
// with '#' or '!' and blank lines are ignored. Values are taken literally:
// ${...} references are not expanded.
func ParseDocument(data []byte) (map[string]string, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse version document")
	}
	values := make(map[string]string, p.Len())
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		values[k] = strings.TrimSpace(v)
	}
	return values, nil
}

// RenderDocument writes values as sorted KEY=VALUE lines.
func RenderDocument(values map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(values) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values[k])
		b.WriteByte('\n')
	}
	return b.String()
}

// Downgrade records a merge that replaced a version with a lower one.
type Downgrade struct {
	Key  string
	From string
	To   string
}

// MergeReport describes what a document merge overwrote.
type MergeReport struct {
	// Collisions lists incoming keys already present in the existing document.
	Collisions []string
	// Downgrades lists collisions whose incoming version is semantically lower.
	Downgrades []Downgrade
}

// Collides reports whether incoming shares at least one key with existing.
func Collides(existing, incoming map[string]string) bool {
	for k := range incoming {
		if _, ok := existing[k]; ok {
			return true
		}
	}
	return false
}

// MergeDocument merges incoming into a copy of existing. Unlike Table.Put,
// incoming values win on collision.
func MergeDocument(existing, incoming map[string]string) (map[string]string, MergeReport) {
	merged := make(map[string]string, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}

	var report MergeReport
	for _, k := range sortedKeys(incoming) {
		v := incoming[k]
		if old, ok := existing[k]; ok {
			report.Collisions = append(report.Collisions, k)
			if IsDowngrade(old, v) {
				report.Downgrades = append(report.Downgrades, Downgrade{Key: k, From: old, To: v})
			}
		}
		merged[k] = v
	}
	return merged, report
}

// IsDowngrade reports whether to is a lower version than from. Versions that
// do not parse as semantic versions never count as downgrades.
func IsDowngrade(from, to string) bool {
	a, err := semver.NewVersion(from)
	if err != nil {
		return false
	}
	b, err := semver.NewVersion(to)
	if err != nil {
		return false
	}
	return b.LessThan(a)
}
