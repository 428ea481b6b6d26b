package extract

import (
	"context"
	"fmt"

	"github.com/matzehuels/buildfeatures/pkg/script"
)

// updateScript publishes the shared repository and replaces the matched
// dependency lines of the build script with an enable statement. Any failure
// stops this step only.
func (e *Extractor) updateScript(ctx context.Context, res *Result, req Request) {
	if !e.store.Exists(req.RepoPath) {
		e.reporter.Error(fmt.Sprintf("Shared repository %s not found, build script left unchanged", req.RepoPath))
		return
	}

	if e.publisher != nil && !req.SkipPublish {
		e.reporter.Info("Publishing build features from " + req.RepoPath)
		if err := e.publisher.Publish(ctx, req.RepoPath); err != nil {
			e.reporter.Error(err.Error())
			return
		}
		res.Published = true
	}

	text, err := e.store.ReadText(e.opts.ScriptPath)
	if err != nil {
		e.reporter.Error(err.Error())
		return
	}

	modules := make([]script.Module, 0, len(res.Matches))
	for _, m := range res.Matches {
		modules = append(modules, script.Module{Group: m.Group, Name: m.Name})
	}
	updated, removed := script.RemoveDependencies(text, modules)
	updated, _, err = script.InsertEnable(updated, e.opts.Extension, res.FeatureID)
	if err != nil {
		e.reporter.Error(err.Error())
		return
	}
	if updated == text {
		e.reporter.Info("Build script already enables " + res.FeatureID)
		return
	}

	if err := e.backup(e.opts.ScriptPath, res); err != nil {
		e.reporter.Error(err.Error())
		return
	}
	if err := e.store.WriteText(e.opts.ScriptPath, updated); err != nil {
		e.reporter.Error(err.Error())
		return
	}
	res.ScriptChanged = true
	res.RemovedDeclarations = removed
	e.reporter.Success(fmt.Sprintf("Updated %s: removed %d declaration(s), enabled %s", e.opts.ScriptPath, removed, res.FeatureID))
}
