package jupyter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/GriffinCanCode/nbtools/internal/logging"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const serverFilePattern = "{nbserver,jpserver}-*.json"

// RuntimeDir returns the Jupyter runtime directory.
// An explicit runtimeDir wins, then dataDir/runtime, then the platform default.
func RuntimeDir(runtimeDir, dataDir string) (string, error) {
	if runtimeDir != "" {
		return runtimeDir, nil
	}
	if dataDir != "" {
		return filepath.Join(dataDir, "runtime"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate runtime dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Jupyter", "runtime"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "jupyter", "runtime"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "jupyter", "runtime"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "jupyter", "runtime"), nil
		}
		return filepath.Join(home, ".local", "share", "jupyter", "runtime"), nil
	}
}

// RuntimeDirectory lists servers advertised in a runtime directory.
type RuntimeDirectory struct {
	Dir string
	// Token fills in servers whose file carries no token.
	Token  string
	Logger *logging.Logger
}

// NewRuntimeDirectory creates a lister for dir.
func NewRuntimeDirectory(dir, token string, logger *logging.Logger) *RuntimeDirectory {
	return &RuntimeDirectory{Dir: dir, Token: token, Logger: logging.OrNop(logger)}
}

// Servers reads every server file in the directory.
// Unreadable or malformed files are skipped; a missing directory yields no servers.
// Servers advertised under both file names are reported once.
func (r *RuntimeDirectory) Servers(ctx context.Context) ([]Server, error) {
	logger := logging.OrNop(r.Logger)

	matches, err := doublestar.Glob(os.DirFS(r.Dir), serverFilePattern)
	if err != nil {
		return nil, fmt.Errorf("scan runtime dir %s: %w", r.Dir, err)
	}
	sort.Strings(matches)

	seen := make(map[string]bool, len(matches))
	servers := make([]Server, 0, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(r.Dir, name)
		srv, err := readServerFile(path)
		if err != nil {
			logger.Warn("skipping server file", zap.String("path", path), zap.Error(err))
			continue
		}
		if srv.Token == "" {
			srv.Token = r.Token
		}

		key := srv.Endpoint()
		if seen[key] {
			continue
		}
		seen[key] = true
		servers = append(servers, srv)
	}

	logger.Debug("servers discovered", zap.String("dir", r.Dir), zap.Int("count", len(servers)))
	return servers, nil
}

func readServerFile(path string) (Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Server{}, nberrors.NewIOError("read", path, err)
	}

	var srv Server
	if err := sonic.Unmarshal(data, &srv); err != nil {
		return Server{}, nberrors.NewFormatError(path, "invalid server file", err)
	}
	srv.Source = path
	return srv, nil
}
