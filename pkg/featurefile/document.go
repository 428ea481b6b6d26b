package featurefile

import (
	"fmt"
	"strings"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// PackageName is the package line the extractor writes at the top of every
// feature document.
const PackageName = "buildFeatures"

// Statement names of the feature DSL.
const (
	stmtPackage      = "package"
	stmtFeature      = "feature"
	stmtExclude      = "exclude"
	stmtOnFeature    = "conditionalOnFeature"
	stmtOnEnabled    = "conditionalOnFeatureEnabled"
	stmtOnNotEnabled = "conditionalOnFeatureNotEnabled"
)

const (
	indentFeatureBody    = "    "
	indentDependencyBody = "        "
)

// Document is a parsed feature-definition document.
type Document struct {
	// Package is the optional package line, empty when absent.
	Package  string
	Features []Definition
}

// Definition is one `feature('<id>', '<description>') { ... }` block.
type Definition struct {
	ID          string
	Description string
	// ActivationProperty is the optional third feature argument.
	ActivationProperty string
	Dependencies       []Dependency
}

// Dependency is one declaration line inside a feature block.
type Dependency struct {
	Configuration string
	// Coordinate is "group:name[:version]" where version may be "%KEY".
	Coordinate      string
	VersionProperty string
	Exclusions      []Exclusion
	// OnEnabled and OnNotEnabled are the conditional feature keys.
	OnEnabled    string
	OnNotEnabled string
}

// Exclusion is an `exclude` statement. Either field may be empty.
type Exclusion struct {
	Group string
	Name  string
}

func (d Dependency) hasBody() bool {
	return len(d.Exclusions) > 0 || d.OnEnabled != "" || d.OnNotEnabled != ""
}

// Render writes doc in the canonical form:
//
//	package buildFeatures
//	feature('id', 'Description') {
//	    implementation('g:n:%KEY', 'nVersion')
//	}
func Render(doc Document) string {
	var b strings.Builder
	if doc.Package != "" {
		fmt.Fprintf(&b, "%s %s\n", stmtPackage, doc.Package)
	}
	for _, f := range doc.Features {
		b.WriteString(stmtFeature + "(" + quote(f.ID) + ", " + quote(f.Description))
		if f.ActivationProperty != "" {
			b.WriteString(", " + quote(f.ActivationProperty))
		}
		b.WriteString(") {\n")
		for _, d := range f.Dependencies {
			b.WriteString(indentFeatureBody + d.Configuration + "(" + quote(d.Coordinate))
			if d.VersionProperty != "" {
				b.WriteString(", " + quote(d.VersionProperty))
			}
			b.WriteString(")")
			if !d.hasBody() {
				b.WriteString("\n")
				continue
			}
			b.WriteString(" {\n")
			for _, e := range d.Exclusions {
				b.WriteString(indentDependencyBody + renderExclusion(e) + "\n")
			}
			if d.OnEnabled != "" {
				b.WriteString(indentDependencyBody + stmtOnFeature + " " + quote(d.OnEnabled) + "\n")
			}
			if d.OnNotEnabled != "" {
				b.WriteString(indentDependencyBody + stmtOnNotEnabled + " " + quote(d.OnNotEnabled) + "\n")
			}
			b.WriteString(indentFeatureBody + "}\n")
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func renderExclusion(e Exclusion) string {
	switch {
	case e.Group != "" && e.Name != "":
		return stmtExclude + " " + quote(e.Group+":"+e.Name)
	case e.Group != "":
		return stmtExclude + " group: " + quote(e.Group)
	default:
		return stmtExclude + " name: " + quote(e.Name)
	}
}

type parseState int

const (
	stateTop parseState = iota
	stateFeature
	stateDependency
)

// Parse reads a feature-definition document. It accepts the canonical form
// written by [Render] and the bare call style
// (`implementation 'g:n:1.0', 'nVersion'`).
func Parse(data []byte) (Document, error) {
	var (
		doc   Document
		state = stateTop
		cur   *Definition
		dep   *Dependency
	)
	for i, line := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		c, ok, err := lexLine(line)
		if err != nil {
			return Document{}, parseError(lineNo, "%v", err)
		}
		if !ok {
			continue
		}

		switch state {
		case stateTop:
			switch {
			case c.Name == stmtPackage:
				if len(doc.Features) > 0 || doc.Package != "" {
					return Document{}, parseError(lineNo, "package must be the first statement")
				}
				pos := c.positional()
				if len(pos) != 1 {
					return Document{}, parseError(lineNo, "package requires a name")
				}
				doc.Package = pos[0]
			case c.Name == stmtFeature && c.Open:
				f, err := parseFeature(c)
				if err != nil {
					return Document{}, parseError(lineNo, "%v", err)
				}
				doc.Features = append(doc.Features, f)
				cur = &doc.Features[len(doc.Features)-1]
				state = stateFeature
			default:
				return Document{}, parseError(lineNo, "expected feature block, got %q", strings.TrimSpace(line))
			}

		case stateFeature:
			if c.Close {
				cur, state = nil, stateTop
				continue
			}
			d, err := parseDependency(c)
			if err != nil {
				return Document{}, parseError(lineNo, "%v", err)
			}
			cur.Dependencies = append(cur.Dependencies, d)
			if c.Open {
				dep = &cur.Dependencies[len(cur.Dependencies)-1]
				state = stateDependency
			}

		case stateDependency:
			if c.Close {
				dep, state = nil, stateFeature
				continue
			}
			if err := parseDependencyStatement(dep, c); err != nil {
				return Document{}, parseError(lineNo, "%v", err)
			}
		}
	}
	if state != stateTop {
		return Document{}, errors.New(errors.ErrCodeInvalidDocument, "unterminated block at end of document")
	}
	return doc, nil
}

func parseFeature(c call) (Definition, error) {
	pos := c.positional()
	if len(pos) < 2 || len(pos) > 3 {
		return Definition{}, fmt.Errorf("feature requires an id and a description")
	}
	f := Definition{ID: pos[0], Description: pos[1]}
	if len(pos) == 3 {
		f.ActivationProperty = pos[2]
	}
	return f, nil
}

func parseDependency(c call) (Dependency, error) {
	pos := c.positional()
	if len(pos) < 1 || len(pos) > 2 {
		return Dependency{}, fmt.Errorf("%s requires a coordinate and an optional version property", c.Name)
	}
	d := Dependency{Configuration: c.Name, Coordinate: pos[0]}
	if len(pos) == 2 {
		d.VersionProperty = pos[1]
	}
	return d, nil
}

func parseDependencyStatement(d *Dependency, c call) error {
	switch c.Name {
	case stmtExclude:
		group, hasGroup := c.named("group")
		name, hasName := c.named("name")
		if hasGroup || hasName {
			d.Exclusions = append(d.Exclusions, Exclusion{Group: group, Name: name})
			return nil
		}
		pos := c.positional()
		if len(pos) != 1 {
			return fmt.Errorf("exclude requires 'group:name' or group:/name: arguments")
		}
		g, n, ok := strings.Cut(pos[0], ":")
		if !ok {
			return fmt.Errorf("exclusion %q must have the form group:name", pos[0])
		}
		d.Exclusions = append(d.Exclusions, Exclusion{Group: g, Name: n})
	case stmtOnFeature, stmtOnEnabled:
		key, err := single(c)
		if err != nil {
			return err
		}
		d.OnEnabled = key
	case stmtOnNotEnabled:
		key, err := single(c)
		if err != nil {
			return err
		}
		d.OnNotEnabled = key
	default:
		return fmt.Errorf("unknown dependency statement %q", c.Name)
	}
	return nil
}

func single(c call) (string, error) {
	pos := c.positional()
	if len(pos) != 1 {
		return "", fmt.Errorf("%s requires one feature key", c.Name)
	}
	return pos[0], nil
}

func parseError(line int, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidDocument, "line %d: %s", line, fmt.Sprintf(format, args...))
}
