package host

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// Publish tasks of the shared feature repository.
const (
	TaskPublishLocal  = "publishToMavenLocal"
	TaskPublishRemote = "publish"
)

// CommandPublisher publishes a shared feature repository by running its
// Gradle wrapper: `gradlew build <task>`.
type CommandPublisher struct {
	// Task is the publish task. Empty means TaskPublishLocal.
	Task string
	// Logger receives the wrapper output at info level. Nil discards it.
	Logger *log.Logger
}

// Publish runs the wrapper in repoPath.
func (p CommandPublisher) Publish(ctx context.Context, repoPath string) error {
	task := p.Task
	if task == "" {
		task = TaskPublishLocal
	}
	wrapper := filepath.Join(repoPath, wrapperName())

	cmd := exec.CommandContext(ctx, wrapper, "build", task)
	cmd.Dir = repoPath
	out := p.output()
	cmd.Stdout = out
	cmd.Stderr = out

	if p.Logger != nil {
		p.Logger.Info("Executing build features", "task", task, "repo", repoPath)
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodePublishFailed, err, "%s build %s in %s", wrapperName(), task, repoPath)
	}
	return nil
}

func (p CommandPublisher) output() io.Writer {
	if p.Logger == nil {
		return io.Discard
	}
	return p.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}).Writer()
}

func wrapperName() string {
	if runtime.GOOS == "windows" {
		return "gradlew.bat"
	}
	return "gradlew"
}
