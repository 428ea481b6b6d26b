package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
)

// Options configures feature graph rendering.
type Options struct {
	// Properties resolves VersionProperty references in dependency labels.
	// Unresolved references are shown as "$property".
	Properties map[string]string
	// Detailed adds the configuration and exclusions to dependency edges.
	Detailed bool
}

const featurePrefix = "feature:"

// ToDOT converts feature definitions to Graphviz DOT. Features in enabled
// are filled, conditional dependency edges are dashed and carry their
// condition, and a dotted edge links the feature a condition refers to.
func ToDOT(features []feature.Feature, enabled map[string]bool, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	defined := make(map[string]bool, len(features))
	for _, f := range features {
		defined[f.Key] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", featurePrefix+f.Key, strings.Join(featureAttrs(f, enabled[f.Key]), ", "))
	}

	buf.WriteString("\n")
	seen := make(map[string]bool)
	for _, f := range features {
		for _, d := range f.Dependencies {
			id := depLabel(d, opts.Properties)
			if !seen[id] {
				seen[id] = true
				fmt.Fprintf(&buf, "  %q [label=%q, shape=note, style=filled, fillcolor=\"#f5f5f5\"];\n", id, id)
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", featurePrefix+f.Key, id, strings.Join(edgeAttrs(d, opts.Detailed), ", "))

			if key, _ := conditionKey(d.ActivationCondition); defined[key] {
				fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none, color=grey];\n", featurePrefix+key, id)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func featureAttrs(f feature.Feature, enabled bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", f.Name+"\n"+f.Key)}
	if enabled {
		attrs = append(attrs, "fillcolor=\"#c8e6c9\"", "penwidth=2")
	}
	return attrs
}

func depLabel(d feature.Dependency, properties map[string]string) string {
	if d.ResolveVersion(properties) != "" {
		return d.Coordinate(properties)
	}
	return d.String()
}

func edgeAttrs(d feature.Dependency, detailed bool) []string {
	parts := []string{d.Configuration}
	if key, negated := conditionKey(d.ActivationCondition); key != "" {
		if negated {
			parts = append(parts, "unless "+key)
		} else {
			parts = append(parts, "if "+key)
		}
	}
	if detailed {
		for _, e := range d.Exclusions {
			parts = append(parts, "-"+e.String())
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", strings.Join(parts, "\n"))}
	if d.ActivationCondition != "" {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func conditionKey(condition string) (key string, negated bool) {
	if condition == "" {
		return "", false
	}
	if key, ok := strings.CutPrefix(condition, feature.DisabledWhen("")); ok {
		return key, true
	}
	return condition, false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
