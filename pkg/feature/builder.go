package feature

import (
	stderrors "errors"
	"fmt"
	"maps"
	"strings"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// Common dependency configurations.
const (
	Implementation     = "implementation"
	TestImplementation = "testImplementation"
)

// Map keys accepted by the map forms of the builders.
const (
	KeyID                 = "key"
	KeyName               = "name"
	KeyActivationProperty = "activationProperty"
	KeyConfiguration      = "configuration"
	KeyGroup              = "group"
	KeyVersion            = "version"
	KeyVersionProperty    = "versionProperty"
)

// Definitions registers features from a configuration callback. It is only
// valid inside the callback passed to [Registry.Definitions].
type Definitions struct {
	registry *Registry
	versions *versions.Table
	errs     []error
}

// Definitions runs configure against a fresh [Definitions] builder. Features
// whose configuration fails are not registered; all failures are returned
// joined. table resolves "%KEY" versions and may be nil.
func (r *Registry) Definitions(table *versions.Table, configure func(*Definitions)) error {
	d := &Definitions{registry: r, versions: table}
	if configure != nil {
		configure(d)
	}
	return stderrors.Join(d.errs...)
}

// Feature defines a feature whose activation property is its key.
func (d *Definitions) Feature(key, name string, configure func(*FeatureBuilder)) {
	d.FeatureWithActivation(key, name, "", configure)
}

// FeatureWithActivation defines a feature toggled by activationProperty.
func (d *Definitions) FeatureWithActivation(key, name, activationProperty string, configure func(*FeatureBuilder)) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(name) == "" {
		d.errs = append(d.errs, errors.New(errors.ErrCodeInvalidFeatureDefinition,
			"feature %q is invalid: key and name are required", key))
		return
	}
	b := &FeatureBuilder{versions: d.versions, deps: NewDependencySet()}
	if configure != nil {
		configure(b)
	}
	if len(b.errs) > 0 {
		d.errs = append(d.errs, fmt.Errorf("feature %q: %w", key, stderrors.Join(b.errs...)))
		return
	}
	if err := d.registry.Define(key, name, b.deps.Values(), activationProperty); err != nil {
		d.errs = append(d.errs, err)
	}
}

// FeatureMap defines a feature from a map with "key", "name" and an
// optional "activationProperty".
func (d *Definitions) FeatureMap(values map[string]string, configure func(*FeatureBuilder)) {
	if missing := missingKeys(values, KeyID, KeyName); len(missing) > 0 {
		d.errs = append(d.errs, errors.New(errors.ErrCodeInvalidFeatureDefinition,
			"feature %v did not specify %s", values, strings.Join(missing, ", ")))
		return
	}
	d.FeatureWithActivation(values[KeyID], values[KeyName], values[KeyActivationProperty], configure)
}

// FeatureBuilder collects the dependencies of one feature. It is only valid
// inside the callback that received it.
type FeatureBuilder struct {
	versions *versions.Table
	deps     *Set[DependencyKey, Dependency]
	errs     []error
}

// Dependency adds a declaration on configuration from a "group:name[:version]"
// coordinate.
func (b *FeatureBuilder) Dependency(configuration, coordinate string, configure func(*DependencyBuilder)) {
	b.DependencyWithProperty(configuration, coordinate, "", configure)
}

// DependencyWithProperty adds a declaration whose version may come from the
// process property versionProperty.
func (b *FeatureBuilder) DependencyWithProperty(configuration, coordinate, versionProperty string, configure func(*DependencyBuilder)) {
	c, err := ParseCoordinate(coordinate)
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	b.add(configuration, c.Group, c.Name, c.Version, versionProperty, configure)
}

// DependencyMap adds a declaration from a map with "configuration", "group"
// and "name", and optional "version" and "versionProperty".
func (b *FeatureBuilder) DependencyMap(values map[string]string, configure func(*DependencyBuilder)) {
	if missing := missingKeys(values, KeyConfiguration, KeyGroup, KeyName); len(missing) > 0 {
		b.errs = append(b.errs, errors.New(errors.ErrCodeMalformedCoordinate,
			"dependency %v did not specify %s", values, strings.Join(missing, ", ")))
		return
	}
	b.add(values[KeyConfiguration], values[KeyGroup], values[KeyName],
		values[KeyVersion], values[KeyVersionProperty], configure)
}

// Implementation adds a declaration on the implementation configuration.
func (b *FeatureBuilder) Implementation(coordinate string, configure func(*DependencyBuilder)) {
	b.Dependency(Implementation, coordinate, configure)
}

// ImplementationWithProperty adds an implementation declaration with a
// version property.
func (b *FeatureBuilder) ImplementationWithProperty(coordinate, versionProperty string, configure func(*DependencyBuilder)) {
	b.DependencyWithProperty(Implementation, coordinate, versionProperty, configure)
}

// TestImplementation adds a declaration on the testImplementation configuration.
func (b *FeatureBuilder) TestImplementation(coordinate string, configure func(*DependencyBuilder)) {
	b.Dependency(TestImplementation, coordinate, configure)
}

// TestImplementationWithProperty adds a testImplementation declaration with a
// version property.
func (b *FeatureBuilder) TestImplementationWithProperty(coordinate, versionProperty string, configure func(*DependencyBuilder)) {
	b.DependencyWithProperty(TestImplementation, coordinate, versionProperty, configure)
}

func (b *FeatureBuilder) add(configuration, group, name, version, versionProperty string, configure func(*DependencyBuilder)) {
	db := &DependencyBuilder{exclusions: NewExclusionSet()}
	if configure != nil {
		configure(db)
	}
	if len(db.errs) > 0 {
		b.errs = append(b.errs, fmt.Errorf("dependency %s:%s: %w", group, name, stderrors.Join(db.errs...)))
		return
	}
	b.deps.Add(Dependency{
		Configuration:       configuration,
		Group:               group,
		Name:                name,
		Version:             b.resolveVersion(version),
		VersionProperty:     versionProperty,
		Exclusions:          db.exclusions.Values(),
		ActivationCondition: db.condition(),
	})
}

// resolveVersion replaces a "%KEY" version with the table entry for KEY,
// keeping it verbatim when the table has none.
func (b *FeatureBuilder) resolveVersion(version string) string {
	if key, ok := strings.CutPrefix(version, "%"); ok && b.versions != nil {
		version = b.versions.GetOrDefault(key, version)
	}
	return strings.TrimSpace(version)
}

// DependencyBuilder configures exclusions and the activation condition of
// one declaration. It is only valid inside the callback that received it.
type DependencyBuilder struct {
	exclusions *Set[Exclusion, Exclusion]
	enabledOn  string
	disabledOn string
	errs       []error
}

// Exclude drops a transitive group and/or module.
func (b *DependencyBuilder) Exclude(group, name string) {
	e, err := NewExclusion(group, name)
	if err != nil {
		b.errs = append(b.errs, err)
		return
	}
	b.exclusions.Add(e)
}

// ExcludeCoordinate drops a transitive dependency given as "group:name".
func (b *DependencyBuilder) ExcludeCoordinate(coordinate string) {
	parts := strings.Split(coordinate, ":")
	if len(parts) != 2 {
		b.errs = append(b.errs, errors.New(errors.ErrCodeInvalidExclusion,
			"exclusion %q must have the form group:name", coordinate))
		return
	}
	b.Exclude(parts[0], parts[1])
}

// ExcludeMap drops a transitive dependency given as {"group", "name"}.
func (b *DependencyBuilder) ExcludeMap(values map[string]string) {
	b.Exclude(values[KeyGroup], values[KeyName])
}

// ConditionalOnFeature is an alias for [DependencyBuilder.ConditionalOnFeatureEnabled].
func (b *DependencyBuilder) ConditionalOnFeature(key string) {
	b.ConditionalOnFeatureEnabled(key)
}

// ConditionalOnFeatureEnabled activates the declaration only when key is enabled.
func (b *DependencyBuilder) ConditionalOnFeatureEnabled(key string) {
	if strings.TrimSpace(key) == "" {
		b.errs = append(b.errs, errors.New(errors.ErrCodeInvalidFeatureDefinition, "condition requires a feature key"))
		return
	}
	b.enabledOn = key
}

// ConditionalOnFeatureNotEnabled activates the declaration only when key is
// not enabled.
func (b *DependencyBuilder) ConditionalOnFeatureNotEnabled(key string) {
	if strings.TrimSpace(key) == "" {
		b.errs = append(b.errs, errors.New(errors.ErrCodeInvalidFeatureDefinition, "condition requires a feature key"))
		return
	}
	b.disabledOn = key
}

// condition returns the activation condition. An enabled-condition takes
// precedence when both were set.
func (b *DependencyBuilder) condition() string {
	switch {
	case b.enabledOn != "":
		return EnabledWhen(b.enabledOn)
	case b.disabledOn != "":
		return DisabledWhen(b.disabledOn)
	default:
		return ""
	}
}

// Selection enables and disables features from a configuration callback.
// It is only valid inside the callback passed to [Registry.Configure].
type Selection struct {
	registry *Registry
}

// Configure runs configure against the registry's selection.
func (r *Registry) Configure(configure func(*Selection)) {
	if configure != nil {
		configure(&Selection{registry: r})
	}
}

// Enable enables each key.
func (s *Selection) Enable(keys ...string) {
	for _, k := range keys {
		s.registry.Enable(k)
	}
}

// Disable disables each key.
func (s *Selection) Disable(keys ...string) {
	for _, k := range keys {
		s.registry.Disable(k)
	}
}

// Status collects explicit key/value flags and merges them into the
// selection once flags returns.
func (s *Selection) Status(flags func(*Flags)) {
	f := &Flags{values: make(map[string]bool)}
	if flags != nil {
		flags(f)
	}
	s.registry.Select(f.values)
}

// Flags collects explicit feature states for [Selection.Status].
type Flags struct {
	values map[string]bool
}

// Value sets the state of one feature.
func (f *Flags) Value(key string, enabled bool) {
	f.values[key] = enabled
}

// Values sets the state of several features.
func (f *Flags) Values(values map[string]bool) {
	maps.Copy(f.values, values)
}

func missingKeys(values map[string]string, required ...string) []string {
	var missing []string
	for _, k := range required {
		if _, ok := values[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
