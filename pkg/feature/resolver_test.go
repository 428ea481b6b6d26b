package feature

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

type call struct {
	configuration string
	coordinate    string
	exclusions    []Exclusion
}

type recordingHandler struct {
	calls []call
	err   error
}

func (h *recordingHandler) AddDeclaration(configuration, coordinate string, exclusions []Exclusion) error {
	if h.err != nil {
		return h.err
	}
	h.calls = append(h.calls, call{configuration, coordinate, exclusions})
	return nil
}

func TestResolverEndToEnd(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.Definitions(nil, func(d *Definitions) {
		d.Feature("web", "Web", func(f *FeatureBuilder) {
			f.Dependency("implementation", "org.example:web-starter:1.2.3", nil)
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	reg.Enable("web")

	h := &recordingHandler{}
	if _, err := NewResolver(reg, h, Options{}).Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if len(h.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(h.calls))
	}
	got := h.calls[0]
	if got.configuration != "implementation" || got.coordinate != "org.example:web-starter:1.2.3" || len(got.exclusions) != 0 {
		t.Errorf("call = %+v", got)
	}
}

func TestResolverNegatedCondition(t *testing.T) {
	define := func() *Registry {
		reg := NewRegistry(nil)
		err := reg.Definitions(nil, func(d *Definitions) {
			d.Feature("F1", "Feature one", func(f *FeatureBuilder) {
				f.Implementation("g:d:1.0", func(dep *DependencyBuilder) {
					dep.ConditionalOnFeatureNotEnabled("F2")
				})
			})
			d.Feature("F2", "Feature two", nil)
		})
		if err != nil {
			t.Fatal(err)
		}
		return reg
	}

	reg := define()
	reg.Enable("F1")
	h := &recordingHandler{}
	if _, err := NewResolver(reg, h, Options{}).Apply(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(h.calls) != 1 {
		t.Errorf("F2 disabled: calls = %d, want 1", len(h.calls))
	}

	reg = define()
	reg.Enable("F1")
	reg.Enable("F2")
	h = &recordingHandler{}
	if _, err := NewResolver(reg, h, Options{}).Apply(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(h.calls) != 0 {
		t.Errorf("F2 enabled: calls = %d, want 0", len(h.calls))
	}
}

func TestResolverConditionOnOtherFeature(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.Definitions(nil, func(d *Definitions) {
		d.Feature("web", "Web", func(f *FeatureBuilder) {
			f.Implementation("g:jpa-web", func(dep *DependencyBuilder) { dep.ConditionalOnFeature("db") })
		})
		d.Feature("db", "Database", nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	reg.Enable("web")

	decls, err := NewResolver(reg, &recordingHandler{}, Options{}).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 0 {
		t.Errorf("Plan() = %+v, want none while db disabled", decls)
	}

	reg.Enable("db")
	decls, _ = NewResolver(reg, &recordingHandler{}, Options{}).Plan()
	if len(decls) != 1 || decls[0].Feature != "web" {
		t.Errorf("Plan() = %+v, want jpa-web from web", decls)
	}
}

func TestResolverEmitsIdentityEqualDependencies(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	reg := NewRegistry(nil)
	_ = reg.Define("a", "A", []Dependency{{Configuration: "implementation", Group: "g", Name: "n", Version: "1.0"}}, "")
	_ = reg.Define("b", "B", []Dependency{{Configuration: "implementation", Group: "g", Name: "n", Version: "2.0"}}, "")
	reg.Enable("a")
	reg.Enable("b")

	h := &recordingHandler{}
	if _, err := NewResolver(reg, h, Options{Logger: logger}).Apply(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(h.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(h.calls))
	}
	if h.calls[0].coordinate != "g:n:1.0" || h.calls[1].coordinate != "g:n:2.0" {
		t.Errorf("coordinates = %s, %s", h.calls[0].coordinate, h.calls[1].coordinate)
	}
	if !strings.Contains(buf.String(), "different versions") {
		t.Errorf("expected conflict warning, log = %q", buf.String())
	}
}

func TestResolverVersionPrecedence(t *testing.T) {
	props := map[string]string{"nVersion": "3.0"}
	tests := []struct {
		name string
		dep  Dependency
		want string
	}{
		{"literal", Dependency{Version: "1.0", VersionProperty: "nVersion"}, "g:n:1.0"},
		{"property", Dependency{VersionProperty: "nVersion"}, "g:n:3.0"},
		{"bare", Dependency{}, "g:n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.dep
			d.Configuration, d.Group, d.Name = "implementation", "g", "n"
			reg := NewRegistry(nil)
			_ = reg.Define("f", "F", []Dependency{d}, "")
			reg.Enable("f")

			h := &recordingHandler{}
			if _, err := NewResolver(reg, h, Options{Properties: props}).Apply(context.Background()); err != nil {
				t.Fatal(err)
			}
			if len(h.calls) != 1 || h.calls[0].coordinate != tt.want {
				t.Errorf("calls = %+v, want %s", h.calls, tt.want)
			}
		})
	}
}

func TestResolverStrictVersionKey(t *testing.T) {
	reg := NewRegistry(nil)
	_ = reg.Define("f", "F", []Dependency{{Configuration: "implementation", Group: "g", Name: "n", Version: "%LATE_VERSION"}}, "")
	reg.Enable("f")
	table := versions.New(nil)

	_, err := NewResolver(reg, &recordingHandler{}, Options{Versions: table}).Plan()
	if !errors.Is(err, errors.ErrCodeUnknownVersionKey) {
		t.Fatalf("Plan() = %v, want UNKNOWN_VERSION_KEY", err)
	}

	table.Put("LATE_VERSION", "4.0")
	decls, err := NewResolver(reg, &recordingHandler{}, Options{Versions: table}).Plan()
	if err != nil {
		t.Fatal(err)
	}
	if decls[0].Coordinate != "g:n:4.0" {
		t.Errorf("Coordinate = %q, want g:n:4.0", decls[0].Coordinate)
	}
}

func TestResolverValidationIsFatal(t *testing.T) {
	reg := NewRegistry(nil)
	_ = reg.Define("f", "F", []Dependency{{Configuration: "implementation", Group: "g", Name: "n"}}, "")
	reg.Enable("f")
	reg.Enable("missing")

	h := &recordingHandler{}
	_, err := NewResolver(reg, h, Options{}).Apply(context.Background())
	if !errors.Is(err, errors.ErrCodeUnknownFeatureKey) {
		t.Fatalf("Apply() = %v, want UNKNOWN_FEATURE_KEY", err)
	}
	if len(h.calls) != 0 {
		t.Errorf("calls = %d, want none after validation failure", len(h.calls))
	}
}

func TestResolverPassesExclusionsAndHandlerErrors(t *testing.T) {
	reg := NewRegistry(nil)
	_ = reg.Define("f", "F", []Dependency{{
		Configuration: "implementation", Group: "g", Name: "n",
		Exclusions: []Exclusion{{Group: "x"}, {Name: "y"}},
	}}, "")
	reg.Enable("f")

	h := &recordingHandler{}
	if _, err := NewResolver(reg, h, Options{}).Apply(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(h.calls[0].exclusions) != 2 {
		t.Errorf("exclusions = %+v", h.calls[0].exclusions)
	}

	boom := stderrors.New("boom")
	_, err := NewResolver(reg, &recordingHandler{err: boom}, Options{}).Apply(context.Background())
	if !stderrors.Is(err, boom) {
		t.Errorf("Apply() = %v, want handler error", err)
	}
}

func TestResolverLogsSortedListing(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(nil)
	_ = reg.Define("z", "Alpha", nil, "")
	_ = reg.Define("a", "Zulu", nil, "")
	reg.Enable("z")
	reg.Enable("a")

	if _, err := NewResolver(reg, &recordingHandler{}, Options{Logger: log.New(&buf)}).Plan(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	alpha := strings.Index(out, "Feature: Alpha enabled")
	zulu := strings.Index(out, "Feature: Zulu enabled")
	if alpha < 0 || zulu < 0 || alpha > zulu {
		t.Errorf("listing not sorted by name: %q", out)
	}
}
