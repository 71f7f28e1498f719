package export

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/nbtools/internal/atomicfile"
	"github.com/GriffinCanCode/nbtools/internal/logging"
	"github.com/GriffinCanCode/nbtools/internal/nbformat"
	"go.uber.org/zap"
)

// Exporter converts notebook files to HTML files.
type Exporter struct {
	Renderer *HTMLRenderer
	Logger   *logging.Logger
}

// NewExporter creates an exporter with the default renderer.
func NewExporter(logger *logging.Logger) *Exporter {
	return &Exporter{Renderer: NewHTMLRenderer(), Logger: logging.OrNop(logger)}
}

// Export renders source to destination.
// destination is replaced atomically and left untouched on failure.
func (e *Exporter) Export(ctx context.Context, source, destination string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nb, err := nbformat.Read(source)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	title := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if err := atomicfile.Write(destination, 0o644, func(w io.Writer) error {
		return e.Renderer.Render(w, nb, title)
	}); err != nil {
		return err
	}

	logging.OrNop(e.Logger).Debug("notebook exported",
		zap.String("source", source),
		zap.String("destination", destination),
		zap.Int("cells", len(nb.Cells)))
	return nil
}
