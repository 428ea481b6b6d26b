package featurefile

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// Extension is the file extension of feature documents.
const Extension = ".gradle"

// File is a feature document loaded from disk.
type File struct {
	Path     string
	Document Document
}

// LoadDir parses every *.gradle file at the root of fsys, in lexical order.
func LoadDir(fsys fs.FS) ([]File, error) {
	names, err := fs.Glob(fsys, "*"+Extension)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "list feature documents")
	}
	files := make([]File, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", name)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		files = append(files, File{Path: name, Document: doc})
	}
	return files, nil
}

// Apply defines every feature of docs on reg. table resolves "%KEY"
// versions and may be nil.
func Apply(reg *feature.Registry, table *versions.Table, docs ...Document) error {
	var errs []error
	for _, doc := range docs {
		err := reg.Definitions(table, func(d *feature.Definitions) {
			for _, def := range doc.Features {
				d.FeatureWithActivation(def.ID, def.Description, def.ActivationProperty, func(f *feature.FeatureBuilder) {
					for _, dep := range def.Dependencies {
						f.DependencyWithProperty(dep.Configuration, dep.Coordinate, dep.VersionProperty, configureDependency(dep))
					}
				})
			}
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func configureDependency(dep Dependency) func(*feature.DependencyBuilder) {
	if !dep.hasBody() {
		return nil
	}
	return func(b *feature.DependencyBuilder) {
		for _, e := range dep.Exclusions {
			b.Exclude(e.Group, e.Name)
		}
		if dep.OnEnabled != "" {
			b.ConditionalOnFeatureEnabled(dep.OnEnabled)
		}
		if dep.OnNotEnabled != "" {
			b.ConditionalOnFeatureNotEnabled(dep.OnNotEnabled)
		}
	}
}

// FromFeature converts a registered feature back into a document
// definition. Versions are written as resolved at definition time.
func FromFeature(f feature.Feature) Definition {
	def := Definition{ID: f.Key, Description: f.Name}
	if f.ActivationProperty != f.Key {
		def.ActivationProperty = f.ActivationProperty
	}
	for _, d := range f.Dependencies {
		dep := Dependency{
			Configuration:   d.Configuration,
			Coordinate:      feature.Coordinate{Group: d.Group, Name: d.Name, Version: d.Version}.String(),
			VersionProperty: d.VersionProperty,
		}
		for _, e := range d.Exclusions {
			dep.Exclusions = append(dep.Exclusions, Exclusion{Group: e.Group, Name: e.Name})
		}
		if key, ok := cutNegation(d.ActivationCondition); ok {
			dep.OnNotEnabled = key
		} else {
			dep.OnEnabled = d.ActivationCondition
		}
		def.Dependencies = append(def.Dependencies, dep)
	}
	return def
}

func cutNegation(cond string) (string, bool) {
	if len(cond) > 1 && cond[0] == '!' {
		return cond[1:], true
	}
	return "", false
}
