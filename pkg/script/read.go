package script

import (
	"regexp"
	"strconv"
)

var (
	enableRe  = regexp.MustCompile(`^\s*enable\s*\(?\s*['"]([^'"]+)['"]\s*\)?`)
	disableRe = regexp.MustCompile(`^\s*disable\s*\(?\s*['"]([^'"]+)['"]\s*\)?`)
	valueRe   = regexp.MustCompile(`^\s*value\s*\(?\s*['"]([^'"]+)['"]\s*,\s*(true|false)\b`)
	declRe    = regexp.MustCompile(`^\s*([A-Za-z_][\w]*)\s*\(?\s*['"]([^'":\s]+):([^'":\s]+)(?::([^'"\s]+))?['"]`)
)

// Write is one selection statement: `enable`, `disable` or a status
// `value` entry.
type Write struct {
	Key     string
	Enabled bool
}

// Selection is the feature selection declared in a build script, in
// statement order.
type Selection []Write

// Values replays the writes in order. The last write per key wins.
func (s Selection) Values() map[string]bool {
	out := make(map[string]bool, len(s))
	for _, w := range s {
		out[w.Key] = w.Enabled
	}
	return out
}

// ReadSelection returns the statements of the
// `<extension> { ... features { ... } }` block in line order, including the
// entries of a nested status block where it sits. ok is false when the block
// does not exist.
func ReadSelection(text, extension string) (sel Selection, ok bool) {
	lines := splitLines(text)
	span, ok := findBlock(lines, extension, FeaturesMarker)
	if !ok {
		return nil, false
	}
	from, to := span.Body()
	for _, line := range lines[from:to] {
		if m := enableRe.FindStringSubmatch(line); m != nil {
			sel = append(sel, Write{Key: m[1], Enabled: true})
		} else if m := disableRe.FindStringSubmatch(line); m != nil {
			sel = append(sel, Write{Key: m[1]})
		} else if m := valueRe.FindStringSubmatch(line); m != nil {
			v, _ := strconv.ParseBool(m[2])
			sel = append(sel, Write{Key: m[1], Enabled: v})
		}
	}
	return sel, true
}

// Declaration is one `configuration 'group:name[:version]'` line of the
// dependencies block.
type Declaration struct {
	Configuration string
	Group         string
	Name          string
	Version       string
	// Line is the zero-based line index in the script.
	Line int
}

// ReadDependencies returns the single-string declarations of the top-level
// dependencies block, in file order. Map-style and multi-line declarations
// are not recognised.
func ReadDependencies(text string) []Declaration {
	lines := splitLines(text)
	span, ok := findBlock(lines, DependenciesMarker)
	if !ok {
		return nil
	}
	var out []Declaration
	from, to := span.Body()
	for i := from; i < to; i++ {
		m := declRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		out = append(out, Declaration{
			Configuration: m[1],
			Group:         m[2],
			Name:          m[3],
			Version:       m[4],
			Line:          i,
		})
	}
	return out
}
