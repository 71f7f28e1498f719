package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/GriffinCanCode/nbtools/internal/nbformat"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func notebookJSON(t *testing.T) string {
	return `{
  "nbformat": 4, "nbformat_minor": 5,
  "metadata": {"language_info": {"name": "python"}},
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["# Quarterly results\n", "\n", "Revenue **grew**.<script>alert(1)</script>"]},
    {"cell_type": "code", "metadata": {}, "execution_count": 7, "source": "print(\"hello world\")",
     "outputs": [
       {"output_type": "stream", "name": "stdout", "text": ["hello world\n"]},
       {"output_type": "execute_result", "execution_count": 7, "metadata": {},
        "data": {"text/plain": "42", "text/html": "<b>forty-two</b><script>x()</script>"}},
       {"output_type": "display_data", "metadata": {}, "data": {"image/png": "` + pngBase64(t) + `", "text/plain": "<Figure>"}},
       {"output_type": "error", "ename": "ValueError", "evalue": "bad",
        "traceback": ["\u001b[0;31mValueError\u001b[0m: bad"]}
     ]},
    {"cell_type": "code", "metadata": {}, "execution_count": null, "source": "x = 1", "outputs": []},
    {"cell_type": "raw", "metadata": {}, "source": "raw block"}
  ]
}`
}

func writeNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	src := writeNotebook(t, dir, "report.ipynb", notebookJSON(t))
	dst := filepath.Join(dir, "report.html")

	require.NoError(t, NewExporter(nil).Export(context.Background(), src, dst))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	t.Run("title from filename", func(t *testing.T) {
		assert.Equal(t, "report", doc.Find("title").Text())
	})

	t.Run("markdown rendered and sanitized", func(t *testing.T) {
		md := doc.Find(".markdown-cell")
		assert.Equal(t, "Quarterly results", md.Find("h1").Text())
		assert.Equal(t, "grew", md.Find("strong").Text())
		assert.Equal(t, 0, md.Find("script").Length())
	})

	t.Run("code source and prompts", func(t *testing.T) {
		cells := doc.Find(".code-cell")
		require.Equal(t, 2, cells.Length())
		first := cells.First()
		assert.Equal(t, `print("hello world")`, first.Find(".input code").Text())
		assert.Equal(t, "In [7]:", first.Find(".input .prompt").Text())
		assert.True(t, first.Find(".input code").HasClass("language-python"))
		assert.Equal(t, "In [ ]:", cells.Last().Find(".input .prompt").Text())
	})

	t.Run("outputs", func(t *testing.T) {
		outputs := doc.Find(".code-cell").First().Find(".output")
		require.Equal(t, 4, outputs.Length())

		assert.Equal(t, "hello world\n", outputs.Eq(0).Find("pre").Text())
		assert.True(t, outputs.Eq(0).HasClass("stream-stdout"))

		result := outputs.Eq(1)
		assert.Equal(t, "Out [7]:", result.Find(".output-prompt").Text())
		assert.Equal(t, "forty-two", result.Find("b").Text())
		assert.Equal(t, 0, result.Find("script").Length())

		src, ok := outputs.Eq(2).Find("img").Attr("src")
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(src, "data:image/png;base64,"))

		assert.Equal(t, "ValueError: bad", outputs.Eq(3).Find("pre").Text())
	})

	t.Run("raw cell", func(t *testing.T) {
		assert.Equal(t, "raw block", doc.Find(".raw-cell pre").Text())
	})
}

func TestExportFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed source leaves destination untouched", func(t *testing.T) {
		dir := t.TempDir()
		src := writeNotebook(t, dir, "bad.ipynb", `{"nbformat": 4, "cells": [`)
		dst := filepath.Join(dir, "bad.html")
		require.NoError(t, os.WriteFile(dst, []byte("previous"), 0o644))

		err := NewExporter(nil).Export(ctx, src, dst)
		require.Error(t, err)
		assert.True(t, nberrors.IsFormat(err))

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "previous", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		err := NewExporter(nil).Export(ctx, filepath.Join(dir, "missing.ipynb"), filepath.Join(dir, "out.html"))
		assert.True(t, nberrors.IsIO(err))
	})

	t.Run("unwritable destination", func(t *testing.T) {
		dir := t.TempDir()
		src := writeNotebook(t, dir, "ok.ipynb", `{"nbformat": 4, "nbformat_minor": 5, "metadata": {}, "cells": []}`)

		err := NewExporter(nil).Export(ctx, src, filepath.Join(dir, "absent", "ok.html"))
		require.Error(t, err)
		assert.True(t, nberrors.IsIO(err))
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		src := writeNotebook(t, dir, "ok.ipynb", `{"nbformat": 4, "nbformat_minor": 5, "metadata": {}, "cells": []}`)
		require.NoError(t, NewExporter(nil).Export(ctx, src, filepath.Join(dir, "ok.html")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.ElementsMatch(t, []string{"ok.ipynb", "ok.html"}, names)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := NewExporter(nil).Export(cctx, "a.ipynb", "a.html")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRenderTitleFromMetadata(t *testing.T) {
	nb, err := nbformat.Parse([]byte(`{"nbformat": 4, "metadata": {"title": "Lab notes"}, "cells": []}`), "x")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, nb, "fallback"))
	assert.Contains(t, buf.String(), "<title>Lab notes</title>")
}

func TestRenderMarkdownAttachments(t *testing.T) {
	payload := pngBase64(t)
	nb, err := nbformat.Parse([]byte(`{"nbformat": 4, "metadata": {}, "cells": [
  {"cell_type": "markdown", "metadata": {},
   "source": "![plot](attachment:p.png) ![spaced](attachment:my%20plot.png) ![gone](attachment:missing.png)",
   "attachments": {
     "p.png": {"image/png": "`+payload+`"},
     "my plot.png": {"image/png": "`+payload+`"}
   }}
]}`), "x")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, nb, "attachments"))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	for _, alt := range []string{"plot", "spaced"} {
		src, ok := doc.Find(`.markdown-cell img[alt="` + alt + `"]`).Attr("src")
		require.True(t, ok, alt)
		assert.Equal(t, "data:image/png;base64,"+payload, src, alt)
	}

	_, ok := doc.Find(`.markdown-cell img[alt="gone"]`).Attr("src")
	assert.False(t, ok, "unresolved attachment src is stripped")
}
