package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/extract"
)

// File names looked up in the project directory.
const (
	FileName   = "buildfeatures.toml"
	DotEnvName = ".env"
	ScriptName = "build.gradle"
)

// File is the project file. Every field is optional.
type File struct {
	Extension     string            `toml:"extension"`
	BuildScript   string            `toml:"build_script"`
	Repo          string            `toml:"repo"`
	FeatureDirs   []string          `toml:"feature_dirs"`
	VersionsFiles []string          `toml:"versions_files"`
	Properties    map[string]string `toml:"properties"`
	Selection     Selection         `toml:"selection"`
}

// Selection is the feature selection applied before resolution.
type Selection struct {
	Enable  []string        `toml:"enable"`
	Disable []string        `toml:"disable"`
	Status  map[string]bool `toml:"status"`
}

// Env holds the environment settings.
type Env struct {
	Repo      string `env:"BUILD_FEATURES_REPO"`
	Script    string `env:"BUILD_FEATURES_SCRIPT"`
	Extension string `env:"BUILD_FEATURES_EXTENSION"`
}

// Overrides are command-line values. Empty fields do not override.
type Overrides struct {
	Extension   string
	BuildScript string
	Repo        string
}

// Options controls [Load].
type Options struct {
	// Dir is the project directory. Empty means ".".
	Dir string
	// Path is an explicit project file. It must exist when set.
	Path string
	// Environ is the process environment as KEY=VALUE pairs. Nil means
	// os.Environ().
	Environ   []string
	Overrides Overrides
}

// Config is the effective configuration. Paths are absolute or relative to
// the working directory, never to Dir.
type Config struct {
	Dir           string
	Extension     string
	BuildScript   string
	Repo          string
	FeatureDirs   []string
	VersionsFiles []string
	Properties    map[string]string
	Selection     Selection
	// Source is the project file that was read, empty when none was.
	Source string
}

// Load resolves the configuration with precedence flag > environment >
// project file > default. A .env file in the project directory fills
// variables the process environment does not set.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	path, required := opts.Path, true
	if path == "" {
		path, required = filepath.Join(dir, FileName), false
	}
	file, found, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if !found && required {
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	vars, err := LoadEnv(filepath.Join(dir, DotEnvName), environ)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Dir:        dir,
		Extension:  first(opts.Overrides.Extension, vars.Extension, file.Extension, extract.DefaultExtension),
		Repo:       first(opts.Overrides.Repo, vars.Repo, within(dir, file.Repo)),
		Properties: file.Properties,
		Selection:  file.Selection,
	}
	cfg.BuildScript = first(opts.Overrides.BuildScript, vars.Script, within(dir, file.BuildScript), filepath.Join(dir, ScriptName))
	if found {
		cfg.Source = path
	}
	if cfg.Properties == nil {
		cfg.Properties = map[string]string{}
	}

	cfg.FeatureDirs = withinAll(dir, file.FeatureDirs)
	if len(cfg.FeatureDirs) == 0 {
		cfg.FeatureDirs = []string{filepath.Join(dir, extract.FeaturesDir)}
	}
	cfg.VersionsFiles = withinAll(dir, file.VersionsFiles)
	if len(cfg.VersionsFiles) == 0 {
		cfg.VersionsFiles = []string{
			filepath.Join(dir, extract.ResourcesDir, extract.SharedVersionsFile),
			filepath.Join(dir, extract.LocalVersionsFile),
		}
	}
	return cfg, nil
}

// LoadFile decodes a project file. found is false when path does not exist.
// Unknown keys are rejected.
func LoadFile(path string) (file File, found bool, err error) {
	md, err := toml.DecodeFile(path, &file)
	if stderrors.Is(err, fs.ErrNotExist) {
		return File{}, false, nil
	}
	if err != nil {
		return File{}, true, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return File{}, true, errors.New(errors.ErrCodeInvalidDocument, "%s: unknown key %q", path, undecoded[0].String())
	}
	return file, true, nil
}

// LoadEnv parses the environment settings from environ, falling back to the
// dotenv file at dotenvPath for unset variables. A missing dotenv file is
// not an error.
func LoadEnv(dotenvPath string, environ []string) (Env, error) {
	vars, err := godotenv.Read(dotenvPath)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		vars = map[string]string{}
	case err != nil:
		return Env{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s", dotenvPath)
	}
	for k, v := range env.ToMap(environ) {
		vars[k] = v
	}

	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse environment")
	}
	return e, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// within resolves a project-file path against the project directory.
func within(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func withinAll(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = within(dir, p); !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
