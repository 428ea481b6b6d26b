package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/buildfeatures/internal/config"
	"github.com/matzehuels/buildfeatures/pkg/host"
	"github.com/matzehuels/buildfeatures/pkg/script"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	var bundled bool

	cmd := &cobra.Command{
		Use:   "versions [key...]",
		Short: "List the fallback version table",
		Long: `List the fallback versions used for "%KEY" references.

The table layers the project's version documents over the bundled
defaults. With --bundled only the bundled defaults are shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := versions.NewDefault()
			if !bundled {
				cfg, err := c.loadConfig(config.Overrides{})
				if err != nil {
					return err
				}
				if table, err = c.loadVersions(cfg.VersionsFiles); err != nil {
					return err
				}
			}

			ui := out(cmd)
			if len(args) == 0 {
				for _, key := range table.Keys() {
					v, _ := table.Get(key)
					ui.keyValue(key, v)
				}
				return nil
			}
			for _, key := range args {
				v, err := table.GetOrThrow(key)
				if err != nil {
					return err
				}
				ui.keyValue(key, v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bundled, "bundled", false, "show only the bundled defaults")
	return cmd
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "List the dependencies declared in the build script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(config.Overrides{})
			if err != nil {
				return err
			}
			decls, err := host.ScriptFacts{Store: host.FileStore{}, ScriptPath: cfg.BuildScript}.Declarations()
			if err != nil {
				return err
			}

			ui := out(cmd)
			if len(decls) == 0 {
				ui.Info("No dependencies declared in " + cfg.BuildScript)
				return nil
			}
			slices.SortStableFunc(decls, func(a, b script.Declaration) int {
				return cmp.Or(
					cmp.Compare(a.Group, b.Group),
					cmp.Compare(a.Name, b.Name),
					cmp.Compare(a.Configuration, b.Configuration),
				)
			})
			for _, d := range decls {
				coord := d.Group + ":" + d.Name
				if d.Version != "" {
					coord += ":" + d.Version
				}
				fmt.Fprintln(cmd.OutOrStdout(), StyleDim.Render(fmt.Sprintf("%-20s", d.Configuration))+" "+StyleValue.Render(coord))
			}
			return nil
		},
	}
}
