package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

const projectFile = `extension = "features"
build_script = "app/build.gradle"
repo = "../shared"
feature_dirs = ["defs", "defs"]
versions_files = ["/abs/versions.properties"]

[properties]
tomcatVersion = "10.1.19"

[selection]
enable = ["web"]
disable = ["jetty"]
status = { security = true, metrics = false }
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(Options{Dir: dir, Environ: []string{}})
	require.NoError(t, err)

	assert.Equal(t, "buildFeatures", cfg.Extension)
	assert.Equal(t, filepath.Join(dir, "build.gradle"), cfg.BuildScript)
	assert.Empty(t, cfg.Repo)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, []string{filepath.Join(dir, "src/main/resources/buildFeatures")}, cfg.FeatureDirs)
	assert.Equal(t, []string{
		filepath.Join(dir, "src/main/resources/build-features-versions.properties"),
		filepath.Join(dir, "features-versions.properties"),
	}, cfg.VersionsFiles)
	assert.NotNil(t, cfg.Properties)
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), projectFile)

	cfg, err := Load(Options{Dir: dir, Environ: []string{}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, FileName), cfg.Source)
	assert.Equal(t, "features", cfg.Extension)
	assert.Equal(t, filepath.Join(dir, "app/build.gradle"), cfg.BuildScript)
	assert.Equal(t, filepath.Join(dir, "../shared"), cfg.Repo)
	assert.Equal(t, []string{filepath.Join(dir, "defs")}, cfg.FeatureDirs)
	assert.Equal(t, []string{"/abs/versions.properties"}, cfg.VersionsFiles)
	assert.Equal(t, map[string]string{"tomcatVersion": "10.1.19"}, cfg.Properties)
	assert.Equal(t, Selection{
		Enable:  []string{"web"},
		Disable: []string{"jetty"},
		Status:  map[string]bool{"security": true, "metrics": false},
	}, cfg.Selection)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), projectFile)
	writeFile(t, filepath.Join(dir, DotEnvName), "BUILD_FEATURES_REPO=/from/dotenv\nBUILD_FEATURES_SCRIPT=/from/dotenv/build.gradle\n")

	tests := []struct {
		name      string
		environ   []string
		overrides Overrides
		wantRepo  string
		wantExt   string
		wantBuild string
	}{
		{
			name:      "dotenv over file",
			environ:   []string{},
			wantRepo:  "/from/dotenv",
			wantExt:   "features",
			wantBuild: "/from/dotenv/build.gradle",
		},
		{
			name:      "process env over dotenv",
			environ:   []string{"BUILD_FEATURES_REPO=/from/env", "BUILD_FEATURES_EXTENSION=envExt"},
			wantRepo:  "/from/env",
			wantExt:   "envExt",
			wantBuild: "/from/dotenv/build.gradle",
		},
		{
			name:      "flags over env",
			environ:   []string{"BUILD_FEATURES_REPO=/from/env"},
			overrides: Overrides{Repo: "/from/flag", Extension: "flagExt", BuildScript: "/flag/build.gradle"},
			wantRepo:  "/from/flag",
			wantExt:   "flagExt",
			wantBuild: "/flag/build.gradle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(Options{Dir: dir, Environ: tt.environ, Overrides: tt.overrides})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepo, cfg.Repo)
			assert.Equal(t, tt.wantExt, cfg.Extension)
			assert.Equal(t, tt.wantBuild, cfg.BuildScript)
		})
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(Options{Dir: t.TempDir(), Path: filepath.Join(t.TempDir(), "nope.toml"), Environ: []string{}})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "Load() = %v", err)
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "extension = \"x\"\nrepository = \"typo\"\n")

	_, found, err := LoadFile(path)
	assert.True(t, found)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))
	assert.Contains(t, err.Error(), "repository")
}

func TestLoadFileInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "extension = \n")

	_, _, err := LoadFile(path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument), "LoadFile() = %v", err)
}

func TestLoadEnvWithoutDotenv(t *testing.T) {
	e, err := LoadEnv(filepath.Join(t.TempDir(), DotEnvName), []string{"BUILD_FEATURES_SCRIPT=/s/build.gradle", "UNRELATED=1"})
	require.NoError(t, err)
	assert.Equal(t, Env{Script: "/s/build.gradle"}, e)
}
