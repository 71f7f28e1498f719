package jupyter

import (
	"fmt"
	"strings"
)

// Server is one running notebook server as advertised in the runtime directory.
type Server struct {
	URL         string `json:"url"`
	BaseURL     string `json:"base_url"`
	Hostname    string `json:"hostname"`
	Port        int    `json:"port"`
	Secure      bool   `json:"secure"`
	Token       string `json:"token"`
	PID         int    `json:"pid"`
	NotebookDir string `json:"notebook_dir"`
	RootDir     string `json:"root_dir"`
	Version     string `json:"version"`

	// Source is the runtime file the record was read from.
	Source string `json:"-"`
}

// Root returns the directory session paths are relative to.
// jupyter_server calls it root_dir, the classic server notebook_dir.
func (s Server) Root() string {
	if s.RootDir != "" {
		return s.RootDir
	}
	return s.NotebookDir
}

// Endpoint returns the server URL with a trailing slash.
func (s Server) Endpoint() string {
	u := s.URL
	if u == "" {
		scheme := "http"
		if s.Secure {
			scheme = "https"
		}
		host := s.Hostname
		if host == "" {
			host = "localhost"
		}
		u = fmt.Sprintf("%s://%s:%d%s", scheme, host, s.Port, s.BaseURL)
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// Session associates a running kernel with the document driving it.
type Session struct {
	ID       string          `json:"id"`
	Path     string          `json:"path"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Kernel   SessionKernel   `json:"kernel"`
	Notebook SessionNotebook `json:"notebook"`
}

// SessionKernel is the kernel half of a session record.
type SessionKernel struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ExecutionState string `json:"execution_state"`
}

// SessionNotebook is the document half of a session record.
type SessionNotebook struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// RelativePath returns the document path relative to the server root.
// Older servers only fill notebook.path, newer ones also the top-level path.
func (s Session) RelativePath() string {
	if s.Notebook.Path != "" {
		return s.Notebook.Path
	}
	return s.Path
}
