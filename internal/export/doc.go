// Package export renders notebook documents to standalone HTML reports.
//
// The page embeds everything it needs: markdown cells are rendered with
// goldmark, HTML from markdown and text/html outputs is sanitized with
// bluemonday, and image outputs are inlined as data URIs whose MIME type is
// sniffed from the decoded bytes.
//
// Reports are written atomically: the page goes to a temp file next to the
// destination and is renamed into place only after a successful write, so a
// failed export never leaves a truncated file behind.
//
// Example Usage:
//
//	exp := export.NewExporter(logger)
//	err := exp.Export(ctx, "analysis.ipynb", "analysis.html")
package export
