package feature

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// DependencyHandler receives the declarations produced by a [Resolver].
// Implementations live on the host side (see the host package).
type DependencyHandler interface {
	// AddDeclaration declares coordinate on configuration. exclusions is
	// empty when the declaration has no exclusion rules.
	AddDeclaration(configuration, coordinate string, exclusions []Exclusion) error
}

// Declaration is one resolved dependency declaration.
type Declaration struct {
	// Feature is the key of the enabled feature that contributed it.
	Feature       string
	Configuration string
	Coordinate    string
	Exclusions    []Exclusion
	// Dependency is the unresolved definition.
	Dependency Dependency
}

// Options configures a [Resolver].
type Options struct {
	// Properties is the process property table consulted for
	// Dependency.VersionProperty.
	Properties map[string]string
	// Versions resolves "%KEY" versions left unresolved at definition time.
	// Nil disables the lookup and such versions are emitted verbatim.
	Versions *versions.Table
	// Logger receives the enabled-feature listing and conflict warnings.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with nil fields replaced.
func (o Options) WithDefaults() Options {
	if o.Properties == nil {
		o.Properties = map[string]string{}
	}
	o.Logger = orDiscard(o.Logger)
	return o
}

// Resolver turns the enabled features of a registry into dependency
// declarations.
type Resolver struct {
	registry *Registry
	handler  DependencyHandler
	opts     Options
}

// NewResolver creates a resolver emitting to handler.
func NewResolver(registry *Registry, handler DependencyHandler, opts Options) *Resolver {
	return &Resolver{registry: registry, handler: handler, opts: opts.WithDefaults()}
}

// Plan validates the selection and computes the declarations of all enabled
// features without emitting them.
//
// Dependencies are flattened per feature without deduplication: two enabled
// features declaring the same (configuration, group, name) both contribute a
// declaration. A warning is logged when their versions differ.
func (r *Resolver) Plan() ([]Declaration, error) {
	if err := r.registry.ValidateSelected(); err != nil {
		return nil, err
	}

	enabled := r.registry.EnabledFeatures()
	r.logEnabled(enabled)
	keys := r.registry.EnabledKeys()

	var out []Declaration
	seen := make(map[DependencyKey]Declaration)
	for _, f := range enabled {
		for _, d := range f.Dependencies {
			if !Active(d.ActivationCondition, keys) {
				r.opts.Logger.Debug("Skipping inactive dependency", "feature", f.Key,
					"dependency", d.String(), "condition", d.ActivationCondition)
				continue
			}
			coord, err := r.coordinate(d)
			if err != nil {
				return nil, err
			}
			decl := Declaration{
				Feature:       f.Key,
				Configuration: d.Configuration,
				Coordinate:    coord,
				Exclusions:    slices.Clone(d.Exclusions),
				Dependency:    d,
			}
			if prev, ok := seen[d.Key()]; ok && prev.Coordinate != coord {
				r.warnConflict(prev, decl)
			} else if !ok {
				seen[d.Key()] = decl
			}
			out = append(out, decl)
		}
	}
	return out, nil
}

// Apply plans the declarations and emits each one to the handler. A
// validation or handler failure aborts the whole operation.
func (r *Resolver) Apply(ctx context.Context) ([]Declaration, error) {
	decls, err := r.Plan()
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.handler.AddDeclaration(d.Configuration, d.Coordinate, d.Exclusions); err != nil {
			return nil, err
		}
		r.opts.Logger.Debug("Added dependency", "configuration", d.Configuration, "coordinate", d.Coordinate)
	}
	return decls, nil
}

// coordinate resolves d, strictly looking up a version still written as
// "%KEY".
func (r *Resolver) coordinate(d Dependency) (string, error) {
	if key, ok := strings.CutPrefix(d.Version, "%"); ok && r.opts.Versions != nil {
		v, err := r.opts.Versions.GetOrThrow(key)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeUnknownVersionKey, err, "resolve %s", d.String())
		}
		d.Version = v
	}
	return d.Coordinate(r.opts.Properties), nil
}

func (r *Resolver) logEnabled(enabled []Feature) {
	sorted := slices.Clone(enabled)
	slices.SortFunc(sorted, func(a, b Feature) int { return cmp.Compare(a.Name, b.Name) })
	r.opts.Logger.Info("Adding features:")
	for _, f := range sorted {
		r.opts.Logger.Info("> Feature: " + f.Name + " enabled")
	}
}

func (r *Resolver) warnConflict(prev, next Declaration) {
	from := versionOf(prev.Coordinate)
	to := versionOf(next.Coordinate)
	kv := []any{
		"dependency", next.Dependency.Module(),
		"configuration", next.Configuration,
		prev.Feature, from,
		next.Feature, to,
	}
	a, errA := semver.NewVersion(from)
	b, errB := semver.NewVersion(to)
	if errA == nil && errB == nil {
		kv = append(kv, "higher", semverMax(a, b).Original())
	}
	r.opts.Logger.Warn("Dependency declared with different versions", kv...)
}

func versionOf(coordinate string) string {
	if i := strings.LastIndexByte(coordinate, ':'); i >= 0 && strings.Count(coordinate, ":") == 2 {
		return coordinate[i+1:]
	}
	return ""
}

func semverMax(a, b *semver.Version) *semver.Version {
	if b.GreaterThan(a) {
		return b
	}
	return a
}
