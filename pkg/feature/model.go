package feature

import (
	"slices"
	"strings"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// Exclusion removes a transitive dependency from a declaration. An empty
// field is absent: a group-only exclusion drops every module of that group.
//
// Identity is the pair (Group, Name) as given, with no normalization.
type Exclusion struct {
	Group string
	Name  string
}

// NewExclusion builds an exclusion rule. At least one of group and name must
// be non-blank.
func NewExclusion(group, name string) (Exclusion, error) {
	if strings.TrimSpace(group) == "" && strings.TrimSpace(name) == "" {
		return Exclusion{}, errors.New(errors.ErrCodeInvalidExclusion, "exclusion requires a group or a name")
	}
	return Exclusion{Group: group, Name: name}, nil
}

// HasGroup reports whether the exclusion restricts the group.
func (e Exclusion) HasGroup() bool { return strings.TrimSpace(e.Group) != "" }

// HasName reports whether the exclusion restricts the module name.
func (e Exclusion) HasName() bool { return strings.TrimSpace(e.Name) != "" }

// String returns "group:name" with "*" standing in for an absent field.
func (e Exclusion) String() string {
	group, name := "*", "*"
	if e.HasGroup() {
		group = e.Group
	}
	if e.HasName() {
		name = e.Name
	}
	return group + ":" + name
}

// NewExclusionSet returns an empty set of exclusions keyed on (Group, Name).
func NewExclusionSet() *Set[Exclusion, Exclusion] {
	return NewSet(func(e Exclusion) Exclusion { return e })
}

// DependencyKey is the identity of a [Dependency].
type DependencyKey struct {
	Configuration string
	Group         string
	Name          string
}

// Dependency is one dependency declaration contributed by a feature.
//
// Identity is [Dependency.Key]: (Configuration, Group, Name). Version,
// VersionProperty, Exclusions and ActivationCondition do not take part, so a
// [DependencySet] collapses two declarations that differ only by version.
type Dependency struct {
	// Configuration is the dependency scope, e.g. "implementation".
	Configuration string
	Group         string
	Name          string
	// Version is the literal version, or empty for a managed version.
	Version string
	// VersionProperty names an entry in the process property table that
	// supplies the version when Version is empty.
	VersionProperty string
	Exclusions      []Exclusion
	// ActivationCondition is empty (always active), a feature key (active when
	// that feature is enabled) or "!" followed by a key (active when it is not).
	ActivationCondition string
}

// Key returns the identity projection of d.
func (d Dependency) Key() DependencyKey {
	return DependencyKey{Configuration: d.Configuration, Group: d.Group, Name: d.Name}
}

// Module returns "group:name".
func (d Dependency) Module() string {
	return d.Group + ":" + d.Name
}

// ResolveVersion applies the version precedence: literal version, then the
// VersionProperty entry in properties, then none.
func (d Dependency) ResolveVersion(properties map[string]string) string {
	if d.Version != "" {
		return d.Version
	}
	if d.VersionProperty != "" {
		if v, ok := properties[d.VersionProperty]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Coordinate returns the resolved "group:name[:version]" string.
func (d Dependency) Coordinate(properties map[string]string) string {
	if v := d.ResolveVersion(properties); v != "" {
		return d.Module() + ":" + v
	}
	return d.Module()
}

// String returns the unresolved coordinate, showing a version property as
// "$property".
func (d Dependency) String() string {
	switch {
	case d.Version != "":
		return d.Module() + ":" + d.Version
	case d.VersionProperty != "":
		return d.Module() + ":$" + d.VersionProperty
	default:
		return d.Module()
	}
}

func (d Dependency) clone() Dependency {
	d.Exclusions = slices.Clone(d.Exclusions)
	return d
}

// withExclusionSet returns d with its exclusions deduplicated in first-seen
// order. Blank exclusions are rejected.
func withExclusionSet(key string, d Dependency) (Dependency, error) {
	if len(d.Exclusions) == 0 {
		return d.clone(), nil
	}
	set := NewExclusionSet()
	for _, e := range d.Exclusions {
		if !e.HasGroup() && !e.HasName() {
			return d, errors.New(errors.ErrCodeInvalidExclusion, "feature %q: dependency %s has an exclusion without group or name", key, d.String())
		}
		set.Add(e)
	}
	d.Exclusions = set.Values()
	return d, nil
}

// NewDependencySet returns an empty set keyed on [Dependency.Key].
func NewDependencySet() *Set[DependencyKey, Dependency] {
	return NewSet(Dependency.Key)
}

// Feature is a named bundle of dependency declarations.
//
// Identity is Key only. Two features with the same key are the same feature
// regardless of name or dependencies.
type Feature struct {
	Key  string
	Name string
	// Dependencies holds at most one entry per [DependencyKey].
	Dependencies []Dependency
	// ActivationProperty is the build property that toggles the feature. It
	// defaults to Key.
	ActivationProperty string
}

// FeatureKey is the identity projection of a [Feature].
func FeatureKey(f Feature) string { return f.Key }

func (f Feature) clone() Feature {
	deps := make([]Dependency, len(f.Dependencies))
	for i, d := range f.Dependencies {
		deps[i] = d.clone()
	}
	f.Dependencies = deps
	return f
}
