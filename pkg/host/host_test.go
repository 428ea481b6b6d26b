package host

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/buildfeatures/pkg/errors"
	"github.com/matzehuels/buildfeatures/pkg/feature"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := FileStore{}
	path := filepath.Join(dir, "nested", "doc.txt")

	_, err := store.ReadText(path)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "ReadText() = %v", err)
	assert.False(t, store.Exists(path))
	assert.False(t, store.Writable(path))

	require.NoError(t, store.WriteText(path, "hello"))
	assert.True(t, store.Exists(path))
	assert.True(t, store.Writable(path))

	text, err := store.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	require.NoError(t, store.Copy(path, path+".bak"))
	require.NoError(t, store.WriteText(path, "changed"))
	backup, err := store.ReadText(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "hello", backup)

	err = store.Copy(filepath.Join(dir, "missing"), filepath.Join(dir, "x"))
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
}

func TestFileStoreRejectsInvalidPath(t *testing.T) {
	err := FileStore{}.WriteText("bad\x00path", "x")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "WriteText() = %v", err)
}

func TestScriptFacts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.gradle")
	script := `dependencies {
    implementation 'org.springframework.boot:spring-boot-starter-web:3.2.5'
    testImplementation 'org.springframework.boot:spring-boot-starter-web:3.2.5'
    developmentOnly 'org.springframework.boot:spring-boot-devtools'
    implementation 'org.example:lib:1.0'
}
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	facts := ScriptFacts{Store: FileStore{}, ScriptPath: path}
	matches, err := facts.FindDependencies("spring-boot")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "spring-boot-starter-web", matches[0].Name)
	assert.Equal(t, "3.2.5", matches[0].Version)
	assert.Equal(t, []string{"implementation", "testImplementation"}, matches[0].Configurations)
	assert.Equal(t, "spring-boot-devtools", matches[1].Name)
	assert.Empty(t, matches[1].Version)

	none, err := facts.FindDependencies("hibernate")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = ScriptFacts{Store: FileStore{}, ScriptPath: filepath.Join(dir, "missing.gradle")}.FindDependencies("x")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	excl := []feature.Exclusion{{Group: "g"}}
	require.NoError(t, rec.AddDeclaration("implementation", "a:b:1", excl))
	excl[0].Group = "mutated"

	require.Len(t, rec.Declarations, 1)
	assert.Equal(t, "a:b:1", rec.Declarations[0].Coordinate)
	assert.Equal(t, "g", rec.Declarations[0].Exclusions[0].Group)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{W: &buf}
	require.NoError(t, p.AddDeclaration("implementation", "org.example:web:1.0", nil))
	require.NoError(t, p.AddDeclaration("runtimeOnly", "org.example:db", []feature.Exclusion{
		{Group: "org.slf4j", Name: "slf4j-api"},
		{Group: "commons-logging"},
		{Name: "jcl"},
	}))

	want := `implementation('org.example:web:1.0')
runtimeOnly('org.example:db') {
    exclude group: 'org.slf4j', module: 'slf4j-api'
    exclude group: 'commons-logging'
    exclude module: 'jcl'
}
`
	assert.Equal(t, want, buf.String())
}

func TestCommandPublisher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell wrapper")
	}
	repo := t.TempDir()
	wrapper := "#!/bin/sh\necho \"$@\" > args.txt\n"
	require.NoError(t, os.WriteFile(filepath.Join(repo, "gradlew"), []byte(wrapper), 0o755))

	var logs bytes.Buffer
	pub := CommandPublisher{Task: TaskPublishRemote, Logger: log.New(&logs)}
	require.NoError(t, pub.Publish(context.Background(), repo))

	args, err := os.ReadFile(filepath.Join(repo, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, "build publish", strings.TrimSpace(string(args)))
	assert.Contains(t, logs.String(), "Executing build features")
}

func TestCommandPublisherFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell wrapper")
	}
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "gradlew"), []byte("#!/bin/sh\nexit 3\n"), 0o755))

	err := CommandPublisher{}.Publish(context.Background(), repo)
	assert.True(t, errors.Is(err, errors.ErrCodePublishFailed), "Publish() = %v", err)

	err = CommandPublisher{}.Publish(context.Background(), filepath.Join(repo, "missing"))
	assert.True(t, errors.Is(err, errors.ErrCodePublishFailed))
}
