// Package render draws feature definitions as a Graphviz node-link diagram.
//
// Each feature is a box labelled with its name and key; each dependency is a
// note labelled with its coordinate. Edges run from a feature to the
// dependencies it declares and carry the configuration. Enabled features are
// filled green, conditional edges are dashed and a dotted edge ties the
// dependency to the feature its condition names.
//
//	dot := render.ToDOT(reg.AllFeatures(), reg.EnabledKeys(), render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
package render
