package feature

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// Registry holds the defined features of one build session and the current
// enable/disable selection. It is not safe for concurrent use.
type Registry struct {
	features  *Set[string, Feature]
	selection map[string]bool
	logger    *log.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		features:  NewSet(FeatureKey),
		selection: make(map[string]bool),
		logger:    orDiscard(logger),
	}
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

// Define stores a feature, replacing any earlier definition with the same
// key. Dependencies sharing a [DependencyKey] collapse to the first one and
// duplicate exclusions collapse to one; an exclusion with neither group nor
// name fails with INVALID_EXCLUSION. An empty activationProperty defaults to
// key.
func (r *Registry) Define(key, name string, deps []Dependency, activationProperty string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New(errors.ErrCodeInvalidFeatureDefinition, "feature key is blank")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidFeatureDefinition, "feature %q has a blank name", key)
	}
	if activationProperty == "" {
		activationProperty = key
	}

	set := NewDependencySet()
	for _, d := range deps {
		d, err := withExclusionSet(key, d)
		if err != nil {
			return err
		}
		set.Add(d)
	}
	f := Feature{Key: key, Name: name, Dependencies: set.Values(), ActivationProperty: activationProperty}

	if r.features.Replace(f) {
		r.logger.Info("Redefined feature", "key", key, "name", name)
	} else {
		r.logger.Info("Defined feature", "key", key, "name", name)
	}
	for _, d := range f.Dependencies {
		r.logger.Debug("  dependency", "feature", key, "configuration", d.Configuration, "coordinate", d.String())
	}
	return nil
}

// Enable marks key as enabled. Unknown and blank keys are accepted here and
// reported by [Registry.ValidateSelected].
func (r *Registry) Enable(key string) {
	r.set(key, true)
}

// Disable marks key as disabled.
func (r *Registry) Disable(key string) {
	r.set(key, false)
}

// Select merges values into the selection, overwriting existing entries.
func (r *Registry) Select(values map[string]bool) {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		r.set(k, values[k])
	}
}

func (r *Registry) set(key string, enabled bool) {
	r.selection[key] = enabled
	r.logger.Debug("Selected feature", "key", key, "enabled", enabled)
}

// Selection returns a copy of the selection map.
func (r *Registry) Selection() map[string]bool {
	return maps.Clone(r.selection)
}

// ValidateSelected fails with UNKNOWN_FEATURE_KEY when the selection names
// keys that were never defined. All offending keys are reported at once.
func (r *Registry) ValidateSelected() error {
	var unknown []string
	for k := range r.selection {
		if !r.features.Has(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	for i, k := range unknown {
		if strings.TrimSpace(k) == "" {
			unknown[i] = strconv.Quote(k)
		}
	}
	return errors.New(errors.ErrCodeUnknownFeatureKey, "feature does not exist: %s", strings.Join(unknown, ", "))
}

// EnabledFeatures returns the defined features whose selection is true, in
// definition order. Features missing from the selection are disabled.
func (r *Registry) EnabledFeatures() []Feature {
	var out []Feature
	for _, f := range r.features.Values() {
		if r.selection[f.Key] {
			out = append(out, f.clone())
		}
	}
	return out
}

// EnabledKeys returns the set of enabled, defined feature keys.
func (r *Registry) EnabledKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, f := range r.features.Values() {
		if r.selection[f.Key] {
			keys[f.Key] = true
		}
	}
	return keys
}

// AllFeatures returns every defined feature in definition order.
func (r *Registry) AllFeatures() []Feature {
	all := r.features.Values()
	for i := range all {
		all[i] = all[i].clone()
	}
	return all
}

// Feature returns the definition stored under key.
func (r *Registry) Feature(key string) (Feature, bool) {
	f, ok := r.features.Get(key)
	if !ok {
		return Feature{}, false
	}
	return f.clone(), true
}

// Enabled reports whether key is selected and defined.
func (r *Registry) Enabled(key string) bool {
	return r.selection[key] && r.features.Has(key)
}
