package script

import (
	"strings"
	"testing"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

const buildScript = `plugins {
    id 'java'
}

buildscript {
    dependencies {
        classpath 'org.example:plugin:1.0'
    }
}

buildFeatures {
    features {
        enable 'core'
        disable("legacy")
        status {
            value 'metrics', true
        }
    }
}

dependencies {
    implementation 'org.example:web-starter:1.2.3'
    implementation "org.example:web-starter-extra"
    testImplementation('org.example:web-starter:1.2.3')
    implementation 'org.other:lib:2.0'
}
`

func TestFindBlock(t *testing.T) {
	tests := []struct {
		name    string
		markers []string
		want    Span
		ok      bool
	}{
		{"top-level dependencies skips buildscript", []string{"dependencies"}, Span{20, 25}, true},
		{"nested features", []string{"buildFeatures", "features"}, Span{11, 17}, true},
		{"nested status", []string{"buildFeatures", "features", "status"}, Span{14, 16}, true},
		{"missing", []string{"publishing"}, Span{}, false},
		{"missing nested", []string{"plugins", "features"}, Span{}, false},
		{"no markers", nil, Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindBlock(buildScript, tt.markers...)
			if ok != tt.ok || got != tt.want {
				t.Errorf("FindBlock(%v) = %+v, %v; want %+v, %v", tt.markers, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFindBlockIgnoresSingleLineBlocks(t *testing.T) {
	if _, ok := FindBlock("buildFeatures { features { enable 'a' } }\n", "buildFeatures", "features"); ok {
		t.Error("FindBlock() matched a single-line block")
	}
}

func TestBraceDelta(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"dependencies {", 1},
		{"}", -1},
		{"status { value 'a', true }", 0},
		{`implementation 'a:b' // {`, 0},
		{`def s = "}"`, 0},
		{`def s = 'it\'s {'`, 0},
	}
	for _, tt := range tests {
		if got := braceDelta(tt.line); got != tt.want {
			t.Errorf("braceDelta(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestRemoveDependencies(t *testing.T) {
	got, removed := RemoveDependencies(buildScript, []Module{{Group: "org.example", Name: "web-starter"}})
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	want := `dependencies {
    implementation "org.example:web-starter-extra"
    implementation 'org.other:lib:2.0'
}
`
	if !strings.HasSuffix(got, want) {
		t.Errorf("dependencies block =\n%s\nwant suffix\n%s", got, want)
	}
	if !strings.Contains(got, "classpath 'org.example:plugin:1.0'") {
		t.Error("buildscript dependencies were touched")
	}
}

func TestRemoveDependenciesQuotingStyles(t *testing.T) {
	text := "dependencies {\n" +
		"    implementation 'g:n'\n" +
		"    implementation \"g:n\"\n" +
		"    implementation 'g:n:1'\n" +
		"    implementation group: 'g', name: 'n'\n" +
		"}\n"
	got, removed := RemoveDependencies(text, []Module{{Group: "g", Name: "n"}})
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if !strings.Contains(got, "group: 'g', name: 'n'") {
		t.Error("map-style declaration should not be detected")
	}
}

func TestRemoveDependenciesWithBody(t *testing.T) {
	text := `dependencies {
    implementation('org.x:web:1.0') {
        exclude group: 'a'
        exclude group: 'b', name: 'c'
    }
    runtimeOnly 'org.x:web:1.0' // {
    implementation 'org.y:keep:2.0'
}

task hello {
}
`
	got, removed := RemoveDependencies(text, []Module{{Group: "org.x", Name: "web"}})
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	want := `dependencies {
    implementation 'org.y:keep:2.0'
}

task hello {
}
`
	if got != want {
		t.Errorf("RemoveDependencies() =\n%s\nwant\n%s", got, want)
	}

	depth := 0
	for _, line := range strings.Split(got, "\n") {
		depth += braceDelta(line)
	}
	if depth != 0 {
		t.Errorf("brace balance after removal = %d, want 0", depth)
	}
}

func TestRemoveDependenciesNoMatch(t *testing.T) {
	got, removed := RemoveDependencies(buildScript, []Module{{Group: "x", Name: "y"}})
	if removed != 0 || got != buildScript {
		t.Errorf("RemoveDependencies() changed text without a match")
	}
	got, removed = RemoveDependencies("plugins {\n}\n", []Module{{Group: "x", Name: "y"}})
	if removed != 0 || got != "plugins {\n}\n" {
		t.Error("RemoveDependencies() changed text without a block")
	}
}

func TestInsertEnable(t *testing.T) {
	got, changed, err := InsertEnable(buildScript, "buildFeatures", "web")
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("changed = false")
	}
	want := `        }
        enable 'web'
    }
}`
	if !strings.Contains(got, want) {
		t.Errorf("InsertEnable() =\n%s\nwant fragment\n%s", got, want)
	}
}

func TestInsertEnableIdempotent(t *testing.T) {
	once, _, err := InsertEnable(buildScript, "buildFeatures", "web")
	if err != nil {
		t.Fatal(err)
	}
	twice, changed, err := InsertEnable(once, "buildFeatures", "web")
	if err != nil {
		t.Fatal(err)
	}
	if changed || twice != once {
		t.Error("second InsertEnable() changed the script")
	}
	if n := strings.Count(twice, "enable 'web'"); n != 1 {
		t.Errorf("enable 'web' appears %d times, want 1", n)
	}
}

func TestInsertEnableRecognisesVariants(t *testing.T) {
	for _, stmt := range []string{`enable "web"`, `enable 'web'`, `enable("web")`, `enable('web')`} {
		text := "buildFeatures {\n    features {\n        " + stmt + "\n    }\n}\n"
		got, changed, err := InsertEnable(text, "buildFeatures", "web")
		if err != nil {
			t.Fatal(err)
		}
		if changed || got != text {
			t.Errorf("InsertEnable() with existing %s changed the script", stmt)
		}
	}
}

func TestInsertEnableEmptyBlock(t *testing.T) {
	text := "buildFeatures {\n    features {\n    }\n}\n"
	got, changed, err := InsertEnable(text, "buildFeatures", "web")
	if err != nil || !changed {
		t.Fatalf("InsertEnable() = %v, %v", changed, err)
	}
	want := "buildFeatures {\n    features {\n        enable 'web'\n    }\n}\n"
	if got != want {
		t.Errorf("InsertEnable() = %q, want %q", got, want)
	}
}

func TestInsertEnableMissingBlock(t *testing.T) {
	_, _, err := InsertEnable("dependencies {\n}\n", "buildFeatures", "web")
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("InsertEnable() = %v, want INVALID_DOCUMENT", err)
	}
}

func TestReadSelection(t *testing.T) {
	sel, ok := ReadSelection(buildScript, "buildFeatures")
	if !ok {
		t.Fatal("ReadSelection() ok = false")
	}
	values := sel.Values()
	want := map[string]bool{"core": true, "legacy": false, "metrics": true}
	if len(values) != len(want) {
		t.Fatalf("Values() = %v, want %v", values, want)
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("Values()[%q] = %v, want %v", k, values[k], v)
		}
	}
	if _, ok := ReadSelection(buildScript, "otherExtension"); ok {
		t.Error("ReadSelection() found a missing extension")
	}
}

func TestReadSelectionLastWriteWins(t *testing.T) {
	text := `buildFeatures {
    features {
        disable 'web'
        enable 'web'
        enable 'jetty'
        status {
            value 'jetty', false
        }
        enable("metrics")
        disable "metrics"
    }
}
`
	sel, ok := ReadSelection(text, "buildFeatures")
	if !ok {
		t.Fatal("ReadSelection() ok = false")
	}
	wantWrites := Selection{
		{"web", false}, {"web", true}, {"jetty", true},
		{"jetty", false}, {"metrics", true}, {"metrics", false},
	}
	if len(sel) != len(wantWrites) {
		t.Fatalf("ReadSelection() = %v, want %v", sel, wantWrites)
	}
	for i := range wantWrites {
		if sel[i] != wantWrites[i] {
			t.Errorf("sel[%d] = %v, want %v", i, sel[i], wantWrites[i])
		}
	}

	values := sel.Values()
	for k, want := range map[string]bool{"web": true, "jetty": false, "metrics": false} {
		if values[k] != want {
			t.Errorf("Values()[%q] = %v, want %v", k, values[k], want)
		}
	}
}

func TestReadDependencies(t *testing.T) {
	decls := ReadDependencies(buildScript)
	want := []Declaration{
		{"implementation", "org.example", "web-starter", "1.2.3", 21},
		{"implementation", "org.example", "web-starter-extra", "", 22},
		{"testImplementation", "org.example", "web-starter", "1.2.3", 23},
		{"implementation", "org.other", "lib", "2.0", 24},
	}
	if len(decls) != len(want) {
		t.Fatalf("ReadDependencies() = %+v", decls)
	}
	for i := range want {
		if decls[i] != want[i] {
			t.Errorf("decls[%d] = %+v, want %+v", i, decls[i], want[i])
		}
	}
}
