// Package frontend sends fire-and-forget commands to the live notebook front-end.
//
// Commands travel as display bundles: MIME-keyed payloads that the front-end
// renders or executes. No reply is ever read; a returned nil only means the
// bundle was written.
//
// A bundle only takes effect when the host forwards it to the browser as a
// display_data message, for example a kernel-side wrapper reading
// WriterChannel lines from a pipe and passing each one to the display
// machinery. Written to a terminal, or to cell output as with `!nbtools save`,
// the line is plain text and nothing executes. The scripts also target the
// classic Notebook API (IPython.notebook, Jupyter.notebook); JupyterLab and
// Notebook 7 ignore them. Callers that must not depend on the front-end use
// the server REST API for restarts and the save grace period for saves.
package frontend

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/GriffinCanCode/nbtools/internal/logging"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// MIME types understood by the notebook front-end.
const (
	MIMEJavaScript = "application/javascript"
	MIMEHTML       = "text/html"
)

// Commands the front-end executes.
const (
	SaveNotebookScript  = "IPython.notebook.save_notebook()"
	RestartKernelScript = "<script>Jupyter.notebook.kernel.restart()</script>"
)

// Bundle is one display message.
type Bundle struct {
	Data     map[string]string `json:"data"`
	Metadata map[string]any    `json:"metadata"`
}

// Channel delivers bundles to the front-end.
type Channel interface {
	Display(ctx context.Context, b Bundle) error
}

// Frontend issues the save and restart commands over a Channel.
type Frontend struct {
	Channel Channel
	Logger  *logging.Logger
}

// New creates a Frontend.
func New(ch Channel, logger *logging.Logger) *Frontend {
	return &Frontend{Channel: ch, Logger: logging.OrNop(logger)}
}

// SaveNotebook asks the front-end to persist the document. It does not wait for the save.
func (f *Frontend) SaveNotebook(ctx context.Context) error {
	logging.OrNop(f.Logger).Debug("triggering notebook save")
	return f.send(ctx, MIMEJavaScript, SaveNotebookScript)
}

// RestartKernel asks the front-end to restart the kernel.
func (f *Frontend) RestartKernel(ctx context.Context) error {
	logging.OrNop(f.Logger).Debug("triggering kernel restart")
	return f.send(ctx, MIMEHTML, RestartKernelScript)
}

func (f *Frontend) send(ctx context.Context, mime, payload string) error {
	b := Bundle{
		Data:     map[string]string{mime: payload},
		Metadata: map[string]any{},
	}
	if err := f.Channel.Display(ctx, b); err != nil {
		logging.OrNop(f.Logger).Error("display failed", zap.String("mime", mime), zap.Error(err))
		return fmt.Errorf("display %s: %w", mime, err)
	}
	return nil
}

// WriterChannel writes each bundle as one JSON line. See the package
// documentation for which hosts act on those lines.
type WriterChannel struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterChannel creates a channel over w, typically a kernel's stdout.
func NewWriterChannel(w io.Writer) *WriterChannel {
	return &WriterChannel{w: w}
}

// Display encodes and writes b.
func (c *WriterChannel) Display(ctx context.Context, b Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := sonic.Marshal(b)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.w.Write(append(data, '\n'))
	return err
}
