package feature

import (
	"strings"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// Coordinate is a parsed "group:name[:version]" string.
type Coordinate struct {
	Group   string
	Name    string
	Version string
}

// ParseCoordinate splits s on ':' into two or three non-blank segments.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid dependency coordinate %q: expected group:name[:version]", s)
	}
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
				"invalid dependency coordinate %q: segment %d is blank", s, i+1)
		}
	}
	c := Coordinate{Group: parts[0], Name: parts[1]}
	if len(parts) == 3 {
		c.Version = parts[2]
	}
	return c, nil
}

// String joins the coordinate back together.
func (c Coordinate) String() string {
	if c.Version == "" {
		return c.Group + ":" + c.Name
	}
	return c.Group + ":" + c.Name + ":" + c.Version
}
