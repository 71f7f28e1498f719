// Package atomicfile replaces files through a temporary sibling and a rename,
// so readers see either the old content or the complete new content.
package atomicfile

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
)

// Write calls write with a buffered writer over a temporary file in path's
// directory and renames it onto path. On any error the temporary file is
// removed and path is left as it was.
func Write(path string, perm fs.FileMode, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nberrors.NewIOError("create", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		return nberrors.NewIOError("write", path, err)
	}
	if err := w.Flush(); err != nil {
		return nberrors.NewIOError("write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return nberrors.NewIOError("sync", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return nberrors.NewIOError("chmod", path, err)
	}
	if err := tmp.Close(); err != nil {
		return nberrors.NewIOError("close", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nberrors.NewIOError("rename", path, err)
	}
	return nil
}
