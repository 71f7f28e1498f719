package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupError(t *testing.T) {
	t.Run("unwraps to sentinel", func(t *testing.T) {
		err := fmt.Errorf("resolve: %w", NewLookupError("abc", ErrSessionNotFound))

		assert.True(t, Is(err, ErrSessionNotFound))
		assert.True(t, IsLookup(err))
		assert.False(t, IsIO(err))
		assert.Contains(t, err.Error(), "kernel abc")
	})

	t.Run("lists candidates", func(t *testing.T) {
		err := NewLookupError("abc", ErrAmbiguousSession, "/a.ipynb", "/b.ipynb")

		assert.Equal(t, "lookup kernel abc: multiple sessions match kernel (/a.ipynb, /b.ipynb)", err.Error())
	})
}

func TestIOError(t *testing.T) {
	err := NewIOError("write", "/tmp/out.html", fs.ErrPermission)

	assert.True(t, IsIO(err))
	assert.True(t, Is(err, fs.ErrPermission))
	assert.Equal(t, "write /tmp/out.html: permission denied", err.Error())
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  *FormatError
		want string
	}{
		{
			name: "without cause",
			err:  NewFormatError("nb.ipynb", "unsupported nbformat 3", nil),
			want: "format nb.ipynb: unsupported nbformat 3",
		},
		{
			name: "with cause",
			err:  NewFormatError("nb.ipynb", "invalid json", New("unexpected EOF")),
			want: "format nb.ipynb: invalid json: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, IsFormat(tt.err))
		})
	}
}
