package notebook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/nbtools/internal/logging"
	"go.uber.org/zap"
)

// HTMLExtension replaces the notebook extension on exported reports.
const HTMLExtension = ".html"

// PathResolver locates the current notebook.
type PathResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Frontend sends commands to the live notebook front-end.
type Frontend interface {
	SaveNotebook(ctx context.Context) error
	RestartKernel(ctx context.Context) error
}

// Exporter renders a notebook file to an HTML file.
type Exporter interface {
	Export(ctx context.Context, source, destination string) error
}

// WaitConfig bounds the wait between triggering a save and exporting.
type WaitConfig struct {
	GracePeriod  time.Duration
	PollInterval time.Duration
}

// Service runs the notebook helpers against injected collaborators.
type Service struct {
	Resolver PathResolver
	Frontend Frontend
	Exporter Exporter
	Wait     WaitConfig
	Logger   *logging.Logger
}

// New creates a service.
func New(resolver PathResolver, frontend Frontend, exporter Exporter, wait WaitConfig, logger *logging.Logger) *Service {
	return &Service{
		Resolver: resolver,
		Frontend: frontend,
		Exporter: exporter,
		Wait:     wait,
		Logger:   logging.OrNop(logger),
	}
}

// CurrentPath returns the path of the notebook driving the local kernel.
func (s *Service) CurrentPath(ctx context.Context) (string, error) {
	return s.Resolver.Resolve(ctx)
}

// TriggerSave asks the front-end to save. It does not wait for the save.
func (s *Service) TriggerSave(ctx context.Context) error {
	return s.Frontend.SaveNotebook(ctx)
}

// RestartKernel asks the front-end to restart the kernel.
func (s *Service) RestartKernel(ctx context.Context) error {
	return s.Frontend.RestartKernel(ctx)
}

// Export renders source to destination.
func (s *Service) Export(ctx context.Context, source, destination string) error {
	return s.Exporter.Export(ctx, source, destination)
}

// SaveAsHTML saves the current notebook and exports it to HTML.
// With an empty targetFolder the report lands next to the notebook.
// It returns the report path.
func (s *Service) SaveAsHTML(ctx context.Context, targetFolder string) (string, error) {
	logger := logging.OrNop(s.Logger)

	triggered := time.Now()
	if err := s.Frontend.SaveNotebook(ctx); err != nil {
		return "", fmt.Errorf("trigger save: %w", err)
	}

	current, err := s.Resolver.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve notebook: %w", err)
	}
	if err := s.waitForSave(ctx, current, triggered); err != nil {
		return "", err
	}

	output := HTMLPath(current, targetFolder)
	if err := s.Exporter.Export(ctx, current, output); err != nil {
		return "", fmt.Errorf("export %s: %w", current, err)
	}

	logger.Info("report saved", zap.String("path", output), zap.String("source", current))
	return output, nil
}

// waitForSave polls path until it was modified at or after since, or the grace period ends.
func (s *Service) waitForSave(ctx context.Context, path string, since time.Time) error {
	grace := s.Wait.GracePeriod
	if grace <= 0 {
		return ctx.Err()
	}
	interval := s.Wait.PollInterval
	if interval <= 0 || interval > grace {
		interval = grace
	}

	deadline := time.NewTimer(grace)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			logging.OrNop(s.Logger).Debug("save not observed within grace period", zap.Duration("grace", grace))
			return nil
		case <-ticker.C:
			if !modTime(path).Before(since) {
				return nil
			}
		}
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// HTMLPath derives the report path for a notebook.
// The extension is replaced by .html; targetFolder, when set, replaces the directory.
func HTMLPath(notebookPath, targetFolder string) string {
	base := filepath.Base(notebookPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + HTMLExtension
	if targetFolder == "" {
		return filepath.Join(filepath.Dir(notebookPath), name)
	}
	return filepath.Join(targetFolder, name)
}
