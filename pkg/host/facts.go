package host

import (
	"slices"
	"strings"

	"github.com/matzehuels/buildfeatures/pkg/extract"
	"github.com/matzehuels/buildfeatures/pkg/script"
)

// ScriptFacts answers dependency questions from the declarations of a
// build script's dependencies block.
type ScriptFacts struct {
	Store      extract.DocumentStore
	ScriptPath string
}

// Declarations returns the parsed declarations of the build script.
func (f ScriptFacts) Declarations() ([]script.Declaration, error) {
	text, err := f.Store.ReadText(f.ScriptPath)
	if err != nil {
		return nil, err
	}
	return script.ReadDependencies(text), nil
}

// FindDependencies returns the declared dependencies whose name contains
// fragment, one per group:name:version, with every configuration declaring
// that group:name.
func (f ScriptFacts) FindDependencies(fragment string) ([]extract.Match, error) {
	decls, err := f.Declarations()
	if err != nil {
		return nil, err
	}

	configs := make(map[string][]string)
	for _, d := range decls {
		module := d.Group + ":" + d.Name
		if !slices.Contains(configs[module], d.Configuration) {
			configs[module] = append(configs[module], d.Configuration)
		}
	}

	var out []extract.Match
	seen := make(map[string]bool)
	for _, d := range decls {
		if !strings.Contains(d.Name, fragment) {
			continue
		}
		id := d.Group + ":" + d.Name + ":" + d.Version
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, extract.Match{
			Group:          d.Group,
			Name:           d.Name,
			Version:        d.Version,
			Configurations: slices.Clone(configs[d.Group+":"+d.Name]),
		})
	}
	return out, nil
}
