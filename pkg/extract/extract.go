package extract

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/buildfeatures/pkg/casing"
	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/featurefile"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// Match is a dependency declared by the host build whose name contains the
// requested fragment.
type Match struct {
	Group   string
	Name    string
	Version string
	// Configurations lists every configuration declaring Group:Name.
	Configurations []string
}

// Module returns "group:name".
func (m Match) Module() string { return m.Group + ":" + m.Name }

// FactsProvider answers questions about the host build's declared
// dependencies.
type FactsProvider interface {
	FindDependencies(fragment string) ([]Match, error)
}

// DocumentStore reads and writes text documents. ReadText fails with
// FILE_NOT_FOUND for missing paths.
type DocumentStore interface {
	ReadText(path string) (string, error)
	WriteText(path, text string) error
	Copy(src, dst string) error
	Exists(path string) bool
	Writable(path string) bool
}

// Publisher publishes the shared feature repository.
type Publisher interface {
	Publish(ctx context.Context, repoPath string) error
}

// Reporter receives the user-facing outcome of each extraction step.
type Reporter interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// Paths of the generated artifacts, relative to the shared repository or the
// project root.
const (
	ResourcesDir       = "src/main/resources"
	FeaturesDir        = ResourcesDir + "/buildFeatures"
	SharedVersionsFile = "build-features-versions.properties"
	LocalVersionsFile  = "features-versions.properties"
	BackupSuffix       = ".bak"
)

// Request describes one extraction.
type Request struct {
	// Fragment selects host dependencies whose name contains it.
	Fragment string
	// ID overrides the feature id derived from Fragment.
	ID string
	// Description overrides the description derived from the id.
	Description string
	// VersionProperty overrides the derived version property identifier.
	// It only applies when exactly one dependency matches.
	VersionProperty string
	// RepoPath is the shared feature repository. When set, documents go
	// there and the build script is rewritten.
	RepoPath string
	// Force allows overwriting existing local documents.
	Force bool
	// SkipPublish disables publishing before the script rewrite.
	SkipPublish bool
}

// Result summarises an extraction.
type Result struct {
	// NoResult is set when nothing matched the fragment.
	NoResult    bool
	FeatureID   string
	Description string
	Matches     []Match
	// Lines are the dependency lines of the generated feature.
	Lines []featurefile.Dependency
	// Versions maps version keys to the literal versions that were found.
	Versions     map[string]string
	VersionsPath string
	FeaturePath  string
	// Conflicts lists documents that existed and were not overwritten.
	Conflicts     []string
	Backups       []string
	Published     bool
	ScriptChanged bool

	// RemovedDeclarations counts the declarations dropped from the script.
	RemovedDeclarations int
}

// Options configures an [Extractor].
type Options struct {
	// RootDir is the host project root used for local documents.
	RootDir string
	// ScriptPath is the build script to rewrite.
	ScriptPath string
	// Extension is the name of the build script's feature block.
	Extension string
	Logger    *log.Logger
}

// DefaultExtension is the block name of the build plugin's extension.
const DefaultExtension = "buildFeatures"

// WithDefaults returns a copy of o with empty fields replaced.
func (o Options) WithDefaults() Options {
	if o.RootDir == "" {
		o.RootDir = "."
	}
	if o.ScriptPath == "" {
		o.ScriptPath = filepath.Join(o.RootDir, "build.gradle")
	}
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Extractor turns declared host dependencies into a feature document.
type Extractor struct {
	facts     FactsProvider
	store     DocumentStore
	publisher Publisher
	reporter  Reporter
	versions  *versions.Table
	opts      Options
}

// New creates an extractor. publisher may be nil, in which case shared
// repositories are never published.
func New(facts FactsProvider, store DocumentStore, publisher Publisher, reporter Reporter, table *versions.Table, opts Options) *Extractor {
	return &Extractor{
		facts:     facts,
		store:     store,
		publisher: publisher,
		reporter:  reporter,
		versions:  table,
		opts:      opts.WithDefaults(),
	}
}

// Extract runs one extraction. Only invalid input and a failing facts
// provider are returned as errors; document conflicts and file-system
// failures are reported and recorded in the result.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Fragment) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dependency name fragment is required")
	}

	matches, err := e.facts.FindDependencies(req.Fragment)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		e.reporter.Info("No result")
		return &Result{NoResult: true}, nil
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = casing.CamelCase(req.Fragment)
	}
	if err := errors.ValidateFeatureID(id); err != nil {
		e.reporter.Error("Feature name must not contain whitespace character")
		return nil, err
	}
	desc := req.Description
	if strings.TrimSpace(desc) == "" {
		desc = casing.TitleCase(id)
	}

	res := &Result{FeatureID: id, Description: desc}
	res.Matches = sortedMatches(matches)
	res.Lines, res.Versions = e.lines(res.Matches, req.VersionProperty)
	e.opts.Logger.Info("Extracting feature", "id", id, "matches", len(res.Matches))

	shared := strings.TrimSpace(req.RepoPath) != ""
	if len(res.Versions) > 0 {
		e.writeVersions(res, req)
	}
	e.writeFeature(res, req)

	if shared {
		e.updateScript(ctx, res, req)
	}
	return res, nil
}

func sortedMatches(matches []Match) []Match {
	out := slices.Clone(matches)
	slices.SortFunc(out, func(a, b Match) int {
		return cmp.Or(
			cmp.Compare(a.Group, b.Group),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Version, b.Version),
		)
	})
	return out
}

// lines derives one dependency line per match and declaring configuration,
// plus the literal versions to publish.
func (e *Extractor) lines(matches []Match, propertyOverride string) ([]featurefile.Dependency, map[string]string) {
	found := make(map[string]string)
	var lines []featurefile.Dependency
	seen := make(map[string]bool)

	if propertyOverride != "" && len(matches) > 1 {
		e.reporter.Warn(fmt.Sprintf("Ignoring version property %q: %d dependencies matched", propertyOverride, len(matches)))
		propertyOverride = ""
	}

	for _, m := range matches {
		key := casing.ScreamingSnakeCase(m.Name)
		prop := casing.VersionProperty(m.Name)
		if propertyOverride != "" {
			prop = propertyOverride
		}

		coord := m.Module()
		switch {
		case m.Version != "":
			found[key] = m.Version
			coord += ":%" + key
		case e.knowsVersion(key):
			coord += ":%" + key
		}

		for _, cfg := range declaringConfigurations(m.Configurations) {
			if seen[cfg+" "+coord] {
				continue
			}
			seen[cfg+" "+coord] = true
			lines = append(lines, featurefile.Dependency{
				Configuration:   cfg,
				Coordinate:      coord,
				VersionProperty: prop,
			})
		}
	}
	return lines, found
}

func (e *Extractor) knowsVersion(key string) bool {
	if e.versions == nil {
		return false
	}
	_, ok := e.versions.Get(key)
	return ok
}

// declaringConfigurations drops resolvable classpaths and outgoing variants,
// which inherit declarations rather than declare them.
func declaringConfigurations(configs []string) []string {
	var out []string
	for _, c := range configs {
		if strings.HasSuffix(c, "Classpath") || strings.HasSuffix(c, "Elements") {
			continue
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
