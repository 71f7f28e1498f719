package jupyter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionsJSON = `[
  {"id": "s1", "path": "work/analysis.ipynb", "name": "analysis.ipynb", "type": "notebook",
   "kernel": {"id": "k-1", "name": "python3", "execution_state": "idle"},
   "notebook": {"path": "work/analysis.ipynb", "name": "analysis.ipynb"}},
  {"id": "s2", "path": "other.ipynb", "name": "other.ipynb", "type": "notebook",
   "kernel": {"id": "k-2", "name": "python3"},
   "notebook": {"path": "other.ipynb", "name": "other.ipynb"}}
]`

func TestClientSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("lists sessions with token", func(t *testing.T) {
		var gotToken, gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotToken = r.URL.Query().Get("token")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sessionsJSON))
		}))
		defer ts.Close()

		client := NewClient(ClientConfig{Timeout: 5 * time.Second})
		sessions, err := client.Sessions(ctx, Server{URL: ts.URL + "/", Token: "secret"})
		require.NoError(t, err)

		assert.Equal(t, "/api/sessions", gotPath)
		assert.Equal(t, "secret", gotToken)
		require.Len(t, sessions, 2)
		assert.Equal(t, "k-1", sessions[0].Kernel.ID)
		assert.Equal(t, "work/analysis.ipynb", sessions[0].RelativePath())
	})

	t.Run("rejected token", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		}))
		defer ts.Close()

		_, err := NewClient(ClientConfig{}).Sessions(ctx, Server{URL: ts.URL, Token: "wrong"})
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusForbidden, statusErr.Status)
	})

	t.Run("invalid body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>login</html>"))
		}))
		defer ts.Close()

		_, err := NewClient(ClientConfig{}).Sessions(ctx, Server{URL: ts.URL})
		assert.ErrorContains(t, err, "decode sessions")
	})

	t.Run("unreachable server is not retried", func(t *testing.T) {
		calls := 0
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		_, err := NewClient(ClientConfig{}).Sessions(ctx, Server{URL: ts.URL})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestClientRestartKernel(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "k-1", "name": "python3"}`))
	}))
	defer ts.Close()

	err := NewClient(ClientConfig{}).RestartKernel(context.Background(), Server{URL: ts.URL, Token: "t"}, "k-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/kernels/k-1/restart", gotPath)
}

func TestStatusErrorBodyTruncation(t *testing.T) {
	body := strings.Repeat("a", 199) + strings.Repeat("é", 20)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	_, err := NewClient(ClientConfig{}).Sessions(context.Background(), Server{URL: ts.URL})
	var status *StatusError
	require.True(t, errors.As(err, &status))
	assert.True(t, utf8.ValidString(status.Body))
	assert.Equal(t, strings.Repeat("a", 199)+"...", status.Body)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"ascii cut", "abcdef", 3, "abc..."},
		{"cut inside rune", "aé", 2, "a..."},
		{"cut on rune start", "aéb", 3, "aé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}
