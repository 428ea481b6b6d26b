package featurefile

import (
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
	"github.com/matzehuels/buildfeatures/pkg/versions"
)

func sampleDocument() Document {
	return Document{
		Package: PackageName,
		Features: []Definition{
			{
				ID:          "webStarter",
				Description: "Web Starter",
				Dependencies: []Dependency{
					{Configuration: "implementation", Coordinate: "org.example:web-starter:%WEB_STARTER_VERSION", VersionProperty: "webStarterVersion"},
					{
						Configuration: "testImplementation",
						Coordinate:    "org.example:web-test",
						Exclusions:    []Exclusion{{Group: "junit", Name: "junit"}, {Group: "org.hamcrest"}, {Name: "jcl"}},
						OnNotEnabled:  "legacy",
					},
				},
			},
			{
				ID:                 "db",
				Description:        "It's a database",
				ActivationProperty: "withDb",
				Dependencies: []Dependency{
					{Configuration: "runtimeOnly", Coordinate: "org.example:driver:1.0", OnEnabled: "webStarter"},
				},
			},
		},
	}
}

func TestRenderCanonicalForm(t *testing.T) {
	doc := Document{
		Package: PackageName,
		Features: []Definition{{
			ID:          "webStarter",
			Description: "Web Starter",
			Dependencies: []Dependency{{
				Configuration:   "implementation",
				Coordinate:      "org.example:web-starter:%WEB_STARTER_VERSION",
				VersionProperty: "webStarterVersion",
			}},
		}},
	}
	want := `package buildFeatures
feature('webStarter', 'Web Starter') {
    implementation('org.example:web-starter:%WEB_STARTER_VERSION', 'webStarterVersion')
}
`
	if got := Render(doc); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	doc := sampleDocument()
	rendered := Render(doc)
	got, err := Parse([]byte(rendered))
	if err != nil {
		t.Fatalf("Parse(Render()) error: %v\n%s", err, rendered)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Parse(Render()) = %+v, want %+v", got, doc)
	}
}

func TestParseBareCallStyle(t *testing.T) {
	src := `// hand written
feature("logging", "Logging", "withLogging") {
    implementation 'org.slf4j:slf4j-api:2.0.9', 'slf4jVersion'
    runtimeOnly "ch.qos.logback:logback-classic" {
        exclude group: 'org.slf4j', name: 'slf4j-api'
        conditionalOnFeatureEnabled 'logging'
    }
}
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Package != "" || len(doc.Features) != 1 {
		t.Fatalf("Parse() = %+v", doc)
	}
	f := doc.Features[0]
	if f.ID != "logging" || f.ActivationProperty != "withLogging" || len(f.Dependencies) != 2 {
		t.Fatalf("feature = %+v", f)
	}
	if d := f.Dependencies[0]; d.Coordinate != "org.slf4j:slf4j-api:2.0.9" || d.VersionProperty != "slf4jVersion" {
		t.Errorf("first dependency = %+v", d)
	}
	d := f.Dependencies[1]
	if d.Configuration != "runtimeOnly" || d.OnEnabled != "logging" {
		t.Errorf("second dependency = %+v", d)
	}
	if len(d.Exclusions) != 1 || d.Exclusions[0] != (Exclusion{Group: "org.slf4j", Name: "slf4j-api"}) {
		t.Errorf("exclusions = %+v", d.Exclusions)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"statement outside feature", "implementation 'g:n'\n"},
		{"unterminated feature", "feature('a', 'A') {\n"},
		{"feature without description", "feature('a') {\n}\n"},
		{"unknown dependency statement", "feature('a', 'A') {\n    implementation('g:n') {\n        bogus 'x'\n    }\n}\n"},
		{"unterminated string", "feature('a, 'A') {\n}\n"},
		{"late package", "feature('a', 'A') {\n}\npackage buildFeatures\n"},
		{"malformed exclusion", "feature('a', 'A') {\n    implementation('g:n') {\n        exclude 'g'\n    }\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("Parse() = %v, want INVALID_DOCUMENT", err)
			}
		})
	}
}

func TestLoadDirAndApply(t *testing.T) {
	fsys := fstest.MapFS{
		"b-web.gradle": {Data: []byte(Render(sampleDocument()))},
		"a-cache.gradle": {Data: []byte(`feature('cache', 'Cache') {
    implementation('org.example:cache:%CACHE_VERSION')
}
`)},
		"notes.txt": {Data: []byte("ignored")},
	}
	files, err := LoadDir(fsys)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(files) != 2 || files[0].Path != "a-cache.gradle" || files[1].Path != "b-web.gradle" {
		t.Fatalf("LoadDir() = %+v", files)
	}

	reg := feature.NewRegistry(nil)
	table := versions.NewFromMap(map[string]string{"CACHE_VERSION": "5.0", "WEB_STARTER_VERSION": "1.2.3"})
	docs := []Document{files[0].Document, files[1].Document}
	if err := Apply(reg, table, docs...); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	var keys []string
	for _, f := range reg.AllFeatures() {
		keys = append(keys, f.Key)
	}
	if got := strings.Join(keys, ","); got != "cache,webStarter,db" {
		t.Errorf("features = %s", got)
	}
	web, _ := reg.Feature("webStarter")
	if web.Dependencies[0].Version != "1.2.3" {
		t.Errorf("version = %q, want resolved from table", web.Dependencies[0].Version)
	}
	if web.Dependencies[1].ActivationCondition != "!legacy" || len(web.Dependencies[1].Exclusions) != 3 {
		t.Errorf("test dependency = %+v", web.Dependencies[1])
	}
	db, _ := reg.Feature("db")
	if db.ActivationProperty != "withDb" || db.Dependencies[0].ActivationCondition != "webStarter" {
		t.Errorf("db = %+v", db)
	}
}

func TestLoadDirReportsFile(t *testing.T) {
	fsys := fstest.MapFS{"broken.gradle": {Data: []byte("feature('x') {\n")}}
	_, err := LoadDir(fsys)
	if err == nil || !strings.Contains(err.Error(), "broken.gradle") {
		t.Errorf("LoadDir() = %v, want error naming broken.gradle", err)
	}
}

func TestFromFeature(t *testing.T) {
	f := feature.Feature{
		Key:                "web",
		Name:               "Web",
		ActivationProperty: "web",
		Dependencies: []feature.Dependency{{
			Configuration:       "implementation",
			Group:               "g",
			Name:                "n",
			Version:             "1.0",
			Exclusions:          []feature.Exclusion{{Group: "x"}},
			ActivationCondition: "!legacy",
		}},
	}
	def := FromFeature(f)
	if def.ActivationProperty != "" {
		t.Errorf("ActivationProperty = %q, want omitted default", def.ActivationProperty)
	}
	d := def.Dependencies[0]
	if d.Coordinate != "g:n:1.0" || d.OnNotEnabled != "legacy" || d.OnEnabled != "" || d.Exclusions[0].Group != "x" {
		t.Errorf("dependency = %+v", d)
	}
}
