package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/nbtools/internal/nbformat"
	"github.com/charmbracelet/x/ansi"
	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Output representations in order of preference.
var displayPriority = []string{
	"text/html",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"text/markdown",
	"text/plain",
}

// HTMLRenderer turns a notebook into an HTML page.
type HTMLRenderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	page     *template.Template
}

// NewHTMLRenderer creates a renderer with GFM markdown and a UGC sanitizing policy.
func NewHTMLRenderer() *HTMLRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).OnElements("code", "pre", "span", "div", "table")

	return &HTMLRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		policy: policy,
		page:   template.Must(template.New("page").Parse(pageTemplate)),
	}
}

type pageData struct {
	Title    string
	Language string
	Cells    []cellData
}

type cellData struct {
	Type     string
	Prompt   string
	Source   string
	HTML     template.HTML
	Language string
	Outputs  []outputData
}

type outputData struct {
	Kind     string
	Prompt   string
	Stream   string
	Text     string
	HTML     template.HTML
	ImageSrc template.URL
}

// Render writes the HTML page for nb to w.
func (r *HTMLRenderer) Render(w io.Writer, nb *nbformat.Notebook, title string) error {
	if t := nb.Title(); t != "" {
		title = t
	}
	data := pageData{Title: title, Language: nb.Language()}

	for _, cell := range nb.Cells {
		cd, err := r.renderCell(cell, data.Language)
		if err != nil {
			return err
		}
		data.Cells = append(data.Cells, cd)
	}

	return r.page.Execute(w, data)
}

func (r *HTMLRenderer) renderCell(cell nbformat.Cell, lang string) (cellData, error) {
	cd := cellData{Type: cell.CellType, Language: lang}

	switch cell.CellType {
	case nbformat.CellMarkdown:
		html, err := r.renderMarkdown(cell.Source.String(), cell.Attachments)
		if err != nil {
			return cd, err
		}
		cd.HTML = html
	case nbformat.CellCode:
		cd.Prompt = prompt("In", cell.ExecutionCount)
		cd.Source = cell.Source.String()
		for _, out := range cell.Outputs {
			if od, ok := r.renderOutput(out); ok {
				cd.Outputs = append(cd.Outputs, od)
			}
		}
	default:
		cd.Source = cell.Source.String()
	}
	return cd, nil
}

// renderMarkdown converts src to sanitized HTML. Images referencing
// attachment:<name> are inlined from attachments as data URIs.
func (r *HTMLRenderer) renderMarkdown(src string, attachments map[string]nbformat.MimeBundle) (template.HTML, error) {
	source := []byte(src)
	doc := r.markdown.Parser().Parse(text.NewReader(source))
	if len(attachments) > 0 {
		inlineAttachments(doc, attachments)
	}

	var buf bytes.Buffer
	if err := r.markdown.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

const attachmentScheme = "attachment:"

func inlineAttachments(doc ast.Node, attachments map[string]nbformat.MimeBundle) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		img, ok := n.(*ast.Image)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if !strings.HasPrefix(dest, attachmentScheme) {
			return ast.WalkContinue, nil
		}
		name := strings.TrimPrefix(dest, attachmentScheme)
		bundle, ok := attachments[name]
		if !ok {
			if unescaped, err := url.PathUnescape(name); err == nil {
				bundle, ok = attachments[unescaped]
			}
		}
		if !ok {
			return ast.WalkContinue, nil
		}
		if uri, ok := attachmentURI(bundle); ok {
			img.Destination = []byte(uri)
		}
		return ast.WalkContinue, nil
	})
}

// attachmentURI picks the first image representation in bundle.
func attachmentURI(bundle nbformat.MimeBundle) (string, bool) {
	for _, mime := range attachmentPriority {
		payload, ok := bundle.Text(mime)
		if !ok {
			continue
		}
		if uri, err := imageDataURI(mime, payload); err == nil {
			return uri, true
		}
	}
	return "", false
}

// Raster types only: the sanitizer drops SVG data URIs.
var attachmentPriority = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

func (r *HTMLRenderer) renderOutput(out nbformat.Output) (outputData, bool) {
	switch out.OutputType {
	case nbformat.OutputStream:
		return outputData{Kind: "stream", Stream: out.Name, Text: ansi.Strip(out.Text.String())}, true
	case nbformat.OutputError:
		text := strings.Join(out.Traceback, "\n")
		if text == "" {
			text = out.EName + ": " + out.EValue
		}
		return outputData{Kind: "error", Text: ansi.Strip(text)}, true
	case nbformat.OutputExecuteResult, nbformat.OutputDisplayData:
		od, ok := r.renderData(out.Data)
		if out.OutputType == nbformat.OutputExecuteResult {
			od.Prompt = prompt("Out", out.ExecutionCount)
		}
		return od, ok
	}
	return outputData{}, false
}

func (r *HTMLRenderer) renderData(bundle nbformat.MimeBundle) (outputData, bool) {
	for _, mime := range displayPriority {
		payload, ok := bundle.Text(mime)
		if !ok {
			continue
		}
		switch mime {
		case "text/html":
			return outputData{Kind: "html", HTML: template.HTML(r.policy.Sanitize(payload))}, true
		case "image/svg+xml":
			src := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
			return outputData{Kind: "image", ImageSrc: template.URL(src)}, true
		case "image/png", "image/jpeg":
			src, err := imageDataURI(mime, payload)
			if err != nil {
				continue
			}
			return outputData{Kind: "image", ImageSrc: template.URL(src)}, true
		case "text/markdown":
			html, err := r.renderMarkdown(payload, nil)
			if err != nil {
				continue
			}
			return outputData{Kind: "html", HTML: html}, true
		default:
			return outputData{Kind: "text", Text: ansi.Strip(payload)}, true
		}
	}
	return outputData{}, false
}

// imageDataURI decodes a base64 image payload and re-encodes it as a data URI.
// The MIME type is taken from the bytes when they are recognizably an image.
func imageDataURI(declared, payload string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	if err != nil {
		return "", fmt.Errorf("decode %s output: %w", declared, err)
	}

	mime := declared
	if detected := mimetype.Detect(raw); strings.HasPrefix(detected.String(), "image/") {
		mime = detected.String()
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func prompt(label string, count *int) string {
	if count == nil {
		return label + " [ ]:"
	}
	return fmt.Sprintf("%s [%d]:", label, *count)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 960px; margin: 2em auto; padding: 0 1em; color: #1f1f1f; }
.cell { margin: 1em 0; }
.prompt { color: #303f9f; font-family: monospace; font-size: 0.85em; }
.output-prompt { color: #d84315; }
pre { background: #f7f7f7; border: 1px solid #e0e0e0; padding: 0.6em; overflow-x: auto; }
.output pre { background: #fff; border: none; }
.stream-stderr pre, .error pre { background: #fdd; }
.output img { max-width: 100%; }
</style>
</head>
<body>
<main class="notebook">
{{- range .Cells}}
{{- if eq .Type "markdown"}}
<div class="cell markdown-cell">{{.HTML}}</div>
{{- else if eq .Type "code"}}
<div class="cell code-cell">
<div class="input"><span class="prompt">{{.Prompt}}</span>
<pre><code class="language-{{.Language}}">{{.Source}}</code></pre></div>
{{- range .Outputs}}
<div class="output {{.Kind}}{{if .Stream}} stream-{{.Stream}}{{end}}">
{{- if .Prompt}}<span class="prompt output-prompt">{{.Prompt}}</span>{{end}}
{{- if eq .Kind "html"}}{{.HTML}}
{{- else if eq .Kind "image"}}<img src="{{.ImageSrc}}" alt="output">
{{- else}}<pre>{{.Text}}</pre>{{end}}
</div>
{{- end}}
</div>
{{- else}}
<div class="cell raw-cell"><pre>{{.Source}}</pre></div>
{{- end}}
{{- end}}
</main>
</body>
</html>
`
