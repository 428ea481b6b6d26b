package host

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/buildfeatures/pkg/errors"
)

// FileStore reads and writes documents on the local file system.
type FileStore struct {
	// Perm is the mode of newly created files. Zero means 0o644.
	Perm fs.FileMode
}

func (s FileStore) perm() fs.FileMode {
	if s.Perm == 0 {
		return 0o644
	}
	return s.Perm
}

// ReadText returns the content of path, failing with FILE_NOT_FOUND when it
// does not exist.
func (s FileStore) ReadText(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return string(data), nil
}

// WriteText replaces path with text, creating parent directories.
func (s FileStore) WriteText(path, text string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(text), s.perm()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Copy copies src to dst, replacing dst.
func (s FileStore) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "backup %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "backup %s", src)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "backup %s to %s", src, dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "backup %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "backup %s to %s", src, dst)
	}
	return nil
}

// Exists reports whether path exists.
func (s FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Writable reports whether path is an existing file that can be opened for
// writing.
func (s FileStore) Writable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
