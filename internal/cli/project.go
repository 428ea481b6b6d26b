package cli

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/buildfeatures/internal/config"
	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
	"github.com/matzehuels/buildfeatures/pkg/featurefile"
	"github.com/matzehuels/buildfeatures/pkg/host"
	"github.com/matzehuels/buildfeatures/pkg/script"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// project is the loaded state of a host build: its configuration, version
// table and feature registry with the selection applied.
type project struct {
	cfg      *config.Config
	store    host.FileStore
	table    *versions.Table
	registry *feature.Registry
	// documents lists the feature documents that were loaded.
	documents []string
}

func (c *CLI) loadConfig(overrides config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		Dir:       c.dir,
		Path:      c.configPath,
		Environ:   c.environ,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		c.Logger.Debug("Loaded config", "file", cfg.Source)
	}
	return cfg, nil
}

// loadProject reads the configuration, version documents and feature
// documents, then applies the build script selection followed by the
// project file selection.
func (c *CLI) loadProject(overrides config.Overrides) (*project, error) {
	cfg, err := c.loadConfig(overrides)
	if err != nil {
		return nil, err
	}
	p := &project{cfg: cfg, registry: feature.NewRegistry(c.Logger)}

	if p.table, err = c.loadVersions(cfg.VersionsFiles); err != nil {
		return nil, err
	}
	if err := p.loadFeatures(c); err != nil {
		return nil, err
	}
	if err := p.applySelection(); err != nil {
		return nil, err
	}
	return p, nil
}

// loadVersions layers the existing version documents over the bundled
// defaults. Missing documents are skipped.
func (c *CLI) loadVersions(paths []string) (*versions.Table, error) {
	var docs [][]byte
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			c.Logger.Debug("Skipping missing version document", "file", path)
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
		}
		c.Logger.Debug("Loaded version document", "file", path)
		docs = append(docs, data)
	}
	table := versions.NewLayered(docs...)
	if err := table.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func (p *project) loadFeatures(c *CLI) error {
	var docs []featurefile.Document
	for _, dir := range p.cfg.FeatureDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			c.Logger.Debug("Skipping feature directory", "dir", dir)
			continue
		}
		files, err := featurefile.LoadDir(os.DirFS(dir))
		if err != nil {
			return err
		}
		for _, f := range files {
			docs = append(docs, f.Document)
			p.documents = append(p.documents, filepath.Join(dir, f.Path))
		}
	}
	c.Logger.Debug("Loaded feature documents", "count", len(p.documents))
	return featurefile.Apply(p.registry, p.table, docs...)
}

func (p *project) applySelection() error {
	text, err := p.store.ReadText(p.cfg.BuildScript)
	switch {
	case err == nil:
		sel, _ := script.ReadSelection(text, p.cfg.Extension)
		for _, w := range sel {
			if w.Enabled {
				p.registry.Enable(w.Key)
			} else {
				p.registry.Disable(w.Key)
			}
		}
	case !errors.Is(err, errors.ErrCodeFileNotFound):
		return err
	}

	sel := p.cfg.Selection
	p.registry.Configure(func(s *feature.Selection) {
		s.Enable(sel.Enable...)
		s.Disable(sel.Disable...)
		s.Status(func(f *feature.Flags) { f.Values(sel.Status) })
	})
	return nil
}
