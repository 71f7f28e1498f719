// Package session resolves the on-disk path of the notebook driving the local kernel.
package session

import (
	"context"
	"fmt"
	"path/filepath"

	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/GriffinCanCode/nbtools/internal/jupyter"
	"github.com/GriffinCanCode/nbtools/internal/kernel"
	"github.com/GriffinCanCode/nbtools/internal/logging"
	"go.uber.org/zap"
)

// Directory enumerates running servers and their sessions.
type Directory interface {
	Servers(ctx context.Context) ([]jupyter.Server, error)
	Sessions(ctx context.Context, srv jupyter.Server) ([]jupyter.Session, error)
}

// Match is a session record that belongs to the local kernel.
type Match struct {
	Server  jupyter.Server
	Session jupyter.Session
	Path    string
}

// Resolver correlates a kernel identity with server session listings.
type Resolver struct {
	Directory Directory
	KernelID  kernel.ID
	Logger    *logging.Logger
}

// NewResolver creates a resolver for the kernel identified by id.
func NewResolver(dir Directory, id kernel.ID, logger *logging.Logger) *Resolver {
	return &Resolver{Directory: dir, KernelID: id, Logger: logging.OrNop(logger)}
}

// NewResolverFromConnectionFile derives the kernel identity from a connection file path.
func NewResolverFromConnectionFile(dir Directory, connectionFile string, logger *logging.Logger) (*Resolver, error) {
	id, err := kernel.IDFromConnectionFile(connectionFile)
	if err != nil {
		return nil, err
	}
	return NewResolver(dir, id, logger), nil
}

// Resolve returns the absolute path of the current notebook.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	m, err := r.Find(ctx)
	if err != nil {
		return "", err
	}
	return m.Path, nil
}

// Find returns the single session matching the local kernel.
//
// Every server is queried once. A failing server does not stop the others;
// its error is reported only when no session matches. More than one match,
// on one server or across several, is an ambiguity failure.
func (r *Resolver) Find(ctx context.Context) (*Match, error) {
	logger := logging.OrNop(r.Logger)
	id := string(r.KernelID)

	servers, err := r.Directory.Servers(ctx)
	if err != nil {
		return nil, nberrors.NewLookupError(id, fmt.Errorf("%w: %v", nberrors.ErrNoServers, err))
	}
	if len(servers) == 0 {
		return nil, nberrors.NewLookupError(id, nberrors.ErrNoServers)
	}

	var (
		matches []Match
		failed  []error
	)
	for _, srv := range servers {
		sessions, err := r.Directory.Sessions(ctx, srv)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("session listing failed", zap.String("server", srv.Endpoint()), zap.Error(err))
			failed = append(failed, err)
			continue
		}
		for _, s := range sessions {
			if s.Kernel.ID != id {
				continue
			}
			matches = append(matches, Match{
				Server:  srv,
				Session: s,
				Path:    filepath.Join(srv.Root(), filepath.FromSlash(s.RelativePath())),
			})
		}
	}

	switch len(matches) {
	case 0:
		return nil, nberrors.NewLookupError(id, nberrors.Join(append([]error{nberrors.ErrSessionNotFound}, failed...)...))
	case 1:
		logger.Debug("notebook resolved", zap.String("kernel", id), zap.String("path", matches[0].Path))
		return &matches[0], nil
	default:
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return nil, nberrors.NewLookupError(id, nberrors.ErrAmbiguousSession, paths...)
	}
}
