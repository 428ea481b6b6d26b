package script

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// DependenciesMarker opens the dependency declaration block of a build script.
const DependenciesMarker = "dependencies"

// FeaturesMarker opens the selection block inside the extension block.
const FeaturesMarker = "features"

// bodyIndent is added to the closing line's indentation when a block body
// holds no line to copy indentation from.
const bodyIndent = "    "

// Module is a "group:name" pair to remove from a dependency block.
type Module struct {
	Group string
	Name  string
}

// patterns returns the literal substrings that mark a line as declaring m.
// Coordinates split across lines or quoted any other way are not detected.
func (m Module) patterns() []string {
	base := m.Group + ":" + m.Name
	return []string{base + ":", base + "'", base + `"`}
}

// RemoveDependencies deletes every declaration of the top-level dependencies
// block that names one of modules. A declaration whose line opens a body,
// such as an exclusion block, is removed together with that body. It returns
// the new text and the number of removed declarations; text is returned
// unchanged when no block is found.
func RemoveDependencies(text string, modules []Module) (string, int) {
	lines := splitLines(text)
	span, ok := findBlock(lines, DependenciesMarker)
	if !ok {
		return text, 0
	}
	var patterns []string
	for _, m := range modules {
		patterns = append(patterns, m.patterns()...)
	}

	from, to := span.Body()
	out := slices.Clone(lines[:from])
	removed := 0
	for i := from; i < to; i++ {
		if !containsAny(lines[i], patterns) {
			out = append(out, lines[i])
			continue
		}
		removed++
		for depth := braceDelta(lines[i]); depth > 0 && i+1 < to; {
			i++
			depth += braceDelta(lines[i])
		}
	}
	if removed == 0 {
		return text, 0
	}
	out = append(out, lines[to:]...)
	return joinLines(out), removed
}

// EnableStatement returns the statement inserted for id.
func EnableStatement(id string) string {
	return fmt.Sprintf("enable '%s'", id)
}

// enableVariants lists the spellings that count as an existing enable of id.
func enableVariants(id string) []string {
	return []string{
		fmt.Sprintf(`enable "%s"`, id),
		fmt.Sprintf(`enable '%s'`, id),
		fmt.Sprintf(`enable("%s")`, id),
		fmt.Sprintf(`enable('%s')`, id),
	}
}

// HasEnable reports whether the features block of extension already enables
// id in any of the four accepted spellings.
func HasEnable(text, extension, id string) bool {
	lines := splitLines(text)
	span, ok := findBlock(lines, extension, FeaturesMarker)
	if !ok {
		return false
	}
	from, to := span.Body()
	variants := enableVariants(id)
	for _, line := range lines[from:to] {
		if containsAny(line, variants) {
			return true
		}
	}
	return false
}

// InsertEnable adds `enable '<id>'` as the last statement of the
// `<extension> { ... features { ... } }` block. The statement copies the
// indentation of the nearest non-blank body line. It reports false without
// changing text when id is already enabled, and fails with INVALID_DOCUMENT
// when the block does not exist.
func InsertEnable(text, extension, id string) (string, bool, error) {
	lines := splitLines(text)
	span, ok := findBlock(lines, extension, FeaturesMarker)
	if !ok {
		return text, false, errors.New(errors.ErrCodeInvalidDocument,
			"no %s { %s { } } block found", extension, FeaturesMarker)
	}
	if HasEnable(text, extension, id) {
		return text, false, nil
	}

	indent := indentOf(lines[span.End]) + bodyIndent
	from, to := span.Body()
	for i := to - 1; i >= from; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			indent = indentOf(lines[i])
			break
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:span.End]...)
	out = append(out, indent+EnableStatement(id))
	out = append(out, lines[span.End:]...)
	return joinLines(out), true, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
