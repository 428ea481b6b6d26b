package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/buildfeatures/internal/config"
	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
	"github.com/matzehuels/buildfeatures/pkg/featurefile"
	"github.com/matzehuels/buildfeatures/pkg/host"
)

// selectionOpts holds the --enable/--disable flags applied after the
// build script and project file selection.
type selectionOpts struct {
	enable  []string
	disable []string
}

func (o *selectionOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.enable, "enable", "e", nil, "enable features (repeatable, comma-separated)")
	cmd.Flags().StringSliceVarP(&o.disable, "disable", "d", nil, "disable features (repeatable, comma-separated)")
}

func (o *selectionOpts) apply(reg *feature.Registry) {
	reg.Configure(func(s *feature.Selection) {
		s.Enable(o.enable...)
		s.Disable(o.disable...)
	})
}

// declarationJSON is the --json form of a resolved declaration.
type declarationJSON struct {
	Feature       string   `json:"feature"`
	Configuration string   `json:"configuration"`
	Coordinate    string   `json:"coordinate"`
	Exclusions    []string `json:"exclusions,omitempty"`
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		sel    selectionOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve enabled features into dependency declarations",
		Long: `Resolve the enabled features into dependency declarations.

The selection is read from the build script's features block, then the
[selection] table of buildfeatures.toml, then --enable/--disable.

Examples:
  buildfeatures resolve
  buildfeatures resolve --enable web,security --disable jetty
  buildfeatures resolve --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(config.Overrides{})
			if err != nil {
				return err
			}
			sel.apply(p.registry)

			var handler feature.DependencyHandler = host.Printer{W: cmd.OutOrStdout()}
			if asJSON {
				handler = &host.Recorder{}
			}
			prog := newProgress(c.Logger)
			decls, err := feature.NewResolver(p.registry, handler, feature.Options{
				Properties: p.cfg.Properties,
				Versions:   p.table,
				Logger:     c.Logger,
			}).Apply(cmd.Context())
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %d declarations", len(decls)))

			if !asJSON {
				return nil
			}
			rows := make([]declarationJSON, 0, len(decls))
			for _, d := range decls {
				row := declarationJSON{Feature: d.Feature, Configuration: d.Configuration, Coordinate: d.Coordinate}
				for _, e := range d.Exclusions {
					row.Exclusions = append(row.Exclusions, e.String())
				}
				rows = append(rows, row)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print declarations as JSON")
	return cmd
}

// featuresCommand creates the features command.
func (c *CLI) featuresCommand() *cobra.Command {
	var (
		sel    selectionOpts
		source bool
	)

	cmd := &cobra.Command{
		Use:   "features [key...]",
		Short: "List defined features and their selection state",
		Long: `List defined features and whether they are enabled.

With --source the definitions are printed as a feature document, with
versions as resolved when the definitions were loaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(config.Overrides{})
			if err != nil {
				return err
			}
			sel.apply(p.registry)

			features := p.registry.AllFeatures()
			if len(args) > 0 {
				features = nil
				for _, key := range args {
					f, ok := p.registry.Feature(key)
					if !ok {
						return errors.New(errors.ErrCodeUnknownFeatureKey, "feature does not exist: %s", key)
					}
					features = append(features, f)
				}
			}

			if source {
				doc := featurefile.Document{}
				for _, f := range features {
					doc.Features = append(doc.Features, featurefile.FromFeature(f))
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), featurefile.Render(doc))
				return err
			}

			ui := out(cmd)
			if len(features) == 0 {
				ui.Info("No features defined")
				ui.detail("Searched: %s", strings.Join(p.cfg.FeatureDirs, ", "))
				return nil
			}
			for _, f := range features {
				ui.feature(f.Key, f.Name, p.registry.Enabled(f.Key))
				for _, d := range f.Dependencies {
					ui.detail("%s %s", d.Configuration, d.String())
				}
			}
			if err := p.registry.ValidateSelected(); err != nil {
				ui.Warn(err.Error())
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&source, "source", false, "print definitions as a feature document")
	return cmd
}
