// Package cli implements the buildfeatures command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/buildfeatures/pkg/buildinfo"
	"github.com/matzehuels/buildfeatures/pkg/host"
)

// appName is the application name used for display and completions.
const appName = "buildfeatures"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags.
	dir        string
	configPath string
	verbose    bool

	// environ replaces the process environment when non-nil.
	environ []string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Buildfeatures resolves and extracts optional dependency bundles",
		Long: `Buildfeatures manages named bundles of build dependencies ("features").

Features are defined in feature documents, enabled in the build script or the
buildfeatures.toml project file, and resolved into dependency declarations.
The extract command turns dependencies already declared in a build script
into a new feature and replaces them with an enable statement.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "project directory")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "project file (default <dir>/buildfeatures.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.featuresCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.graphCommand())

	return root
}

// out returns the console for a command's standard output.
func out(cmd *cobra.Command) console {
	return console{w: cmd.OutOrStdout()}
}

// toStdout reports whether an --output value names standard output.
func toStdout(path string) bool {
	return path == "" || path == "-"
}

// writeOutput writes data to path, or to w when path names standard output.
func writeOutput(w io.Writer, path string, data []byte) error {
	if toStdout(path) {
		_, err := w.Write(data)
		return err
	}
	return host.FileStore{}.WriteText(path, string(data))
}
