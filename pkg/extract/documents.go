package extract

import (
	"fmt"
	"path/filepath"

	"github.com/matzehuels/buildfeatures/pkg/casing"
	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/featurefile"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// writeVersions merges the found versions into the shared version document
// or, failing that, writes a fresh local one.
func (e *Extractor) writeVersions(res *Result, req Request) {
	e.opts.Logger.Debug("Version document content", "content", versions.RenderDocument(res.Versions))

	if req.RepoPath != "" {
		path := filepath.Join(req.RepoPath, ResourcesDir, SharedVersionsFile)
		err := e.mergeShared(path, res)
		if err == nil {
			res.VersionsPath = path
			e.remember(res.Versions)
			e.reporter.Success("Updated " + path)
			return
		}
		e.reporter.Error(err.Error())
	}

	path := filepath.Join(e.opts.RootDir, LocalVersionsFile)
	if e.writeGuarded(path, versions.RenderDocument(res.Versions), req.Force, res) {
		res.VersionsPath = path
		e.remember(res.Versions)
	}
}

// remember adds the written versions to the version table without
// replacing existing entries.
func (e *Extractor) remember(values map[string]string) {
	if e.versions != nil {
		e.versions.Merge(values)
	}
}

// mergeShared rewrites the shared version document with res.Versions merged
// in, backing it up first when an existing key is overwritten.
func (e *Extractor) mergeShared(path string, res *Result) error {
	if !e.store.Exists(path) || !e.store.Writable(path) {
		return errors.New(errors.ErrCodeFileNotFound, "file %s not found or permission denied", path)
	}
	text, err := e.store.ReadText(path)
	if err != nil {
		return err
	}
	existing, err := versions.ParseDocument([]byte(text))
	if err != nil {
		return err
	}
	merged, report := versions.MergeDocument(existing, res.Versions)
	if len(report.Collisions) > 0 {
		if err := e.backup(path, res); err != nil {
			return err
		}
	}
	for _, d := range report.Downgrades {
		e.reporter.Warn(fmt.Sprintf("%s downgraded from %s to %s", d.Key, d.From, d.To))
	}
	return e.store.WriteText(path, versions.RenderDocument(merged))
}

// writeFeature writes the feature document to the shared repository, with a
// backup when it replaces an existing document, or to the project root.
func (e *Extractor) writeFeature(res *Result, req Request) {
	doc := featurefile.Document{
		Package: featurefile.PackageName,
		Features: []featurefile.Definition{{
			ID:           res.FeatureID,
			Description:  res.Description,
			Dependencies: res.Lines,
		}},
	}
	content := featurefile.Render(doc)
	e.opts.Logger.Debug("Feature document content", "feature", res.FeatureID, "content", content)

	name := casing.KebabCase(res.FeatureID) + featurefile.Extension
	if req.RepoPath != "" {
		path := filepath.Join(req.RepoPath, FeaturesDir, name)
		err := e.writeShared(req.RepoPath, path, content, res)
		if err == nil {
			res.FeaturePath = path
			e.reporter.Success("Wrote " + path)
			return
		}
		e.reporter.Error(err.Error())
	}

	path := filepath.Join(e.opts.RootDir, FeaturesDir, name)
	if e.writeGuarded(path, content, req.Force, res) {
		res.FeaturePath = path
	}
}

func (e *Extractor) writeShared(repo, path, content string, res *Result) error {
	if !e.store.Exists(repo) {
		return errors.New(errors.ErrCodeFileNotFound, "shared repository %s not found", repo)
	}
	if e.store.Exists(path) {
		if err := e.backup(path, res); err != nil {
			return err
		}
	}
	return e.store.WriteText(path, content)
}

// writeGuarded writes a local document, refusing to replace an existing one
// unless force is set. Failures are reported, not returned.
func (e *Extractor) writeGuarded(path, content string, force bool, res *Result) bool {
	if e.store.Exists(path) {
		if !force {
			err := errors.New(errors.ErrCodeWriteConflict, "file %s already exists", path)
			e.reporter.Error(err.Error())
			res.Conflicts = append(res.Conflicts, path)
			return false
		}
		if err := e.backup(path, res); err != nil {
			e.reporter.Error(err.Error())
			return false
		}
	}
	if err := e.store.WriteText(path, content); err != nil {
		e.reporter.Error(err.Error())
		return false
	}
	e.reporter.Success("Wrote " + path)
	return true
}

func (e *Extractor) backup(path string, res *Result) error {
	dst := path + BackupSuffix
	e.opts.Logger.Info("Backing up file", "from", filepath.Base(path), "to", dst)
	if err := e.store.Copy(path, dst); err != nil {
		return err
	}
	res.Backups = append(res.Backups, dst)
	return nil
}
