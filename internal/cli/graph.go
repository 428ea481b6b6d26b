package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/buildfeatures/internal/config"
	"github.com/matzehuels/buildfeatures/pkg/render"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		sel      selectionOpts
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render features and their dependencies as a graph",
		Long: `Render the defined features and their dependencies as a Graphviz graph.

The format is taken from --format, or from the --output extension (.svg
renders SVG, anything else writes DOT source).

Examples:
  buildfeatures graph > features.dot
  buildfeatures graph -o features.svg --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(config.Overrides{})
			if err != nil {
				return err
			}
			sel.apply(p.registry)

			dot := render.ToDOT(p.registry.AllFeatures(), p.registry.EnabledKeys(), render.Options{
				Properties: p.cfg.Properties,
				Detailed:   detailed,
			})
			if format == "" {
				format = "dot"
				if strings.EqualFold(filepath.Ext(output), ".svg") {
					format = "svg"
				}
			}

			data := []byte(dot)
			if strings.EqualFold(format, "svg") {
				if data, err = render.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			if !toStdout(output) {
				ui := out(cmd)
				ui.successf("Rendered %d features", len(p.registry.AllFeatures()))
				ui.file(output)
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", "", "output format: dot or svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show exclusions on dependency edges")
	return cmd
}
