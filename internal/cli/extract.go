package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/buildfeatures/internal/config"
	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/extract"
	"github.com/matzehuels/buildfeatures/pkg/host"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	dependency string // dependency name fragment
	name       string // feature id
	desc       string // feature description
	property   string // version property override
	path       string // shared feature repository
	force      bool   // overwrite local documents
	noPublish  bool   // skip publishing before the script rewrite
	remote     bool   // publish to the remote repository
}

func publishTask(remote bool) string {
	if remote {
		return host.TaskPublishRemote
	}
	return host.TaskPublishLocal
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [dependency]",
		Short: "Extract declared dependencies into a new feature",
		Long: `Extract every dependency of the build script whose name contains the
given fragment into a new feature document and a version document.

Without a shared repository the documents are written to the project
(existing files are kept unless --force is set). With --path or
BUILD_FEATURES_REPO they are written to the shared repository, which is
then published, and the build script is rewritten to enable the new
feature instead of declaring the dependencies.

Examples:
  buildfeatures extract spring-boot-starter-web
  buildfeatures extract --dependency lombok --name lombok --desc "Project Lombok"
  buildfeatures extract jackson --path ../shared-features --no-publish`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.dependency != "" && opts.dependency != args[0] {
					return errors.New(errors.ErrCodeInvalidInput, "dependency given twice: %q and %q", args[0], opts.dependency)
				}
				opts.dependency = args[0]
			}
			return c.runExtract(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dependency, "dependency", "", "dependency name fragment")
	cmd.Flags().StringVar(&opts.name, "name", "", "feature id (default: camelCase of the fragment)")
	cmd.Flags().StringVar(&opts.desc, "desc", "", "feature description (default: derived from the id)")
	cmd.Flags().StringVar(&opts.property, "property", "", "version property name (single match only)")
	cmd.Flags().StringVar(&opts.path, "path", "", "shared feature repository (default $BUILD_FEATURES_REPO)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite existing local documents")
	cmd.Flags().BoolVar(&opts.noPublish, "no-publish", false, "do not publish the shared repository")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "publish to the remote repository instead of Maven local")
	return cmd
}

func (c *CLI) runExtract(cmd *cobra.Command, opts extractOpts) error {
	cfg, err := c.loadConfig(config.Overrides{Repo: opts.path})
	if err != nil {
		return err
	}
	table, err := c.loadVersions(cfg.VersionsFiles)
	if err != nil {
		return err
	}

	ui := out(cmd)
	store := host.FileStore{}
	x := extract.New(
		host.ScriptFacts{Store: store, ScriptPath: cfg.BuildScript},
		store,
		host.CommandPublisher{Task: publishTask(opts.remote), Logger: c.Logger},
		ui,
		table,
		extract.Options{
			RootDir:    cfg.Dir,
			ScriptPath: cfg.BuildScript,
			Extension:  cfg.Extension,
			Logger:     c.Logger,
		},
	)

	prog := newProgress(c.Logger)
	res, err := x.Extract(cmd.Context(), extract.Request{
		Fragment:        opts.dependency,
		ID:              opts.name,
		Description:     opts.desc,
		VersionProperty: opts.property,
		RepoPath:        cfg.Repo,
		Force:           opts.force,
		SkipPublish:     opts.noPublish,
	})
	if err != nil {
		return err
	}
	if res.NoResult {
		return nil
	}
	prog.done(fmt.Sprintf("Extracted %s", res.FeatureID))

	fmt.Fprintln(cmd.OutOrStdout())
	ui.keyValue("Feature", res.FeatureID)
	ui.keyValue("Description", res.Description)
	for _, m := range res.Matches {
		ui.keyValue("Dependency", fmt.Sprintf("%s (%s)", coordinateOf(m), strings.Join(m.Configurations, ", ")))
	}
	for _, path := range []string{res.VersionsPath, res.FeaturePath} {
		if path != "" {
			ui.file(path)
		}
	}
	if res.ScriptChanged {
		ui.file(cfg.BuildScript)
	}
	for _, path := range res.Backups {
		ui.detail("Backup: %s", path)
	}
	if len(res.Conflicts) > 0 {
		ui.detail("Use --force to overwrite existing documents")
	}
	return nil
}

func coordinateOf(m extract.Match) string {
	if m.Version == "" {
		return m.Module()
	}
	return m.Module() + ":" + m.Version
}

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		path   string
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build and publish the shared feature repository",
		Long: `Run "gradlew build publishToMavenLocal" (or "publish" with --remote) in
the shared feature repository.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(config.Overrides{Repo: path})
			if err != nil {
				return err
			}
			if cfg.Repo == "" {
				return errors.New(errors.ErrCodeInvalidInput, "shared repository is required: use --path or BUILD_FEATURES_REPO")
			}

			ui := out(cmd)
			task := publishTask(remote)
			ui.infof("Publishing build features from %s", cfg.Repo)
			prog := newProgress(c.Logger)
			if err := (host.CommandPublisher{Task: task, Logger: c.Logger}).Publish(cmd.Context(), cfg.Repo); err != nil {
				return err
			}
			prog.done("Published " + cfg.Repo)
			ui.successf("Published build features (%s)", task)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "shared feature repository (default $BUILD_FEATURES_REPO)")
	cmd.Flags().BoolVar(&remote, "remote", false, "publish to the remote repository instead of Maven local")
	return cmd
}
