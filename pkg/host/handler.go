package host

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
)

// Declaration is one call received by a [Recorder].
type Declaration struct {
	Configuration string
	Coordinate    string
	Exclusions    []feature.Exclusion
}

// Recorder is an in-memory [feature.DependencyHandler].
type Recorder struct {
	Declarations []Declaration
}

// AddDeclaration records the call.
func (r *Recorder) AddDeclaration(configuration, coordinate string, exclusions []feature.Exclusion) error {
	r.Declarations = append(r.Declarations, Declaration{
		Configuration: configuration,
		Coordinate:    coordinate,
		Exclusions:    slices.Clone(exclusions),
	})
	return nil
}

// Printer writes each declaration as a Gradle dependencies-block statement:
//
//	implementation('g:n:1.0') {
//	    exclude group: 'x', module: 'y'
//	}
type Printer struct {
	W      io.Writer
	Indent string
}

// AddDeclaration writes the statement.
func (p Printer) AddDeclaration(configuration, coordinate string, exclusions []feature.Exclusion) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s('%s')", p.Indent, configuration, coordinate)
	if len(exclusions) > 0 {
		b.WriteString(" {\n")
		for _, e := range exclusions {
			b.WriteString(p.Indent + "    exclude " + ExclusionRule(e) + "\n")
		}
		b.WriteString(p.Indent + "}")
	}
	b.WriteString("\n")
	if _, err := io.WriteString(p.W, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write declaration")
	}
	return nil
}

// ExclusionRule renders the Gradle exclude arguments of e, keeping only the
// fields it restricts.
func ExclusionRule(e feature.Exclusion) string {
	var parts []string
	if e.HasGroup() {
		parts = append(parts, "group: '"+e.Group+"'")
	}
	if e.HasName() {
		parts = append(parts, "module: '"+e.Name+"'")
	}
	return strings.Join(parts, ", ")
}

// LogReporter reports extraction outcomes through a logger.
type LogReporter struct {
	Logger *log.Logger
}

func (r LogReporter) Info(msg string)    { r.Logger.Info(msg) }
func (r LogReporter) Success(msg string) { r.Logger.Info(msg) }
func (r LogReporter) Warn(msg string)    { r.Logger.Warn(msg) }
func (r LogReporter) Error(msg string)   { r.Logger.Error(msg) }
