// Package figure persists rendered figures, creating missing output directories first.
package figure

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/nbtools/internal/atomicfile"
	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/GriffinCanCode/nbtools/internal/logging"
	"go.uber.org/zap"
)

// Options are rendering options handed to the figure as given.
type Options struct {
	// Format overrides the format implied by the destination extension.
	Format string
	DPI    float64
	// Width and Height are in inches.
	Width   float64
	Height  float64
	Quality int
	Extra   map[string]any
}

// Figure is anything that can render itself in a named format.
type Figure interface {
	Render(w io.Writer, format string, opts Options) error
}

// Saver writes figures to disk.
type Saver struct {
	Logger *logging.Logger
	// DirPerm is the mode for created directories.
	DirPerm fs.FileMode
}

// NewSaver creates a saver with 0755 directories.
func NewSaver(logger *logging.Logger) *Saver {
	return &Saver{Logger: logging.OrNop(logger), DirPerm: 0o755}
}

// Save renders fig to destination and returns the directories it had to create.
func Save(fig Figure, destination string, opts Options) ([]string, error) {
	return NewSaver(nil).Save(fig, destination, opts)
}

// Save renders fig to destination and returns the directories it had to create,
// parents first. A failed render leaves any existing destination untouched.
func (s *Saver) Save(fig Figure, destination string, opts Options) ([]string, error) {
	created, err := s.EnsureParents(destination)
	if err != nil {
		return created, err
	}

	format := FormatFor(destination, opts)
	if err := atomicfile.Write(destination, 0o644, func(w io.Writer) error {
		return fig.Render(w, format, opts)
	}); err != nil {
		return created, err
	}
	return created, nil
}

// EnsureParents creates every missing ancestor of path's parent directory.
//
// It walks upward until it finds an existing directory, then creates the
// missing ones root-to-leaf. A directory that appears concurrently counts as
// created by someone else and is not reported.
func (s *Saver) EnsureParents(path string) ([]string, error) {
	logger := logging.OrNop(s.Logger)
	perm := s.DirPerm
	if perm == 0 {
		perm = 0o755
	}

	var missing []string
	for dir := filepath.Dir(path); ; {
		_, err := os.Stat(dir)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, nberrors.NewIOError("stat", dir, err)
		}
		missing = append(missing, dir)

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	created := make([]string, 0, len(missing))
	for i := len(missing) - 1; i >= 0; i-- {
		dir := missing[i]
		if err := os.Mkdir(dir, perm); err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return created, nberrors.NewIOError("mkdir", dir, err)
		}
		logger.Info("make directory", zap.String("path", dir))
		created = append(created, dir)
	}
	return created, nil
}

// FormatFor returns opts.Format, or the destination extension without the dot.
func FormatFor(destination string, opts Options) string {
	if opts.Format != "" {
		return strings.ToLower(opts.Format)
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(destination), "."))
}
