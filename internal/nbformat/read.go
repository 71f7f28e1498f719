package nbformat

import (
	"fmt"
	"os"
	"unicode/utf8"

	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/bytedance/sonic"
	"github.com/saintfish/chardet"
)

// Read loads and decodes the notebook at path.
func Read(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nberrors.NewIOError("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a notebook document. name is used in error messages only.
func Parse(data []byte, name string) (*Notebook, error) {
	if !utf8.Valid(data) {
		reason := "not valid UTF-8"
		if res, err := chardet.NewTextDetector().DetectBest(data); err == nil {
			reason = fmt.Sprintf("not valid UTF-8 (looks like %s)", res.Charset)
		}
		return nil, nberrors.NewFormatError(name, reason, nil)
	}

	var header struct {
		NBFormat *int `json:"nbformat"`
	}
	if err := sonic.Unmarshal(data, &header); err != nil {
		return nil, nberrors.NewFormatError(name, "invalid json", err)
	}
	if header.NBFormat == nil {
		return nil, nberrors.NewFormatError(name, "missing nbformat version", nil)
	}
	if *header.NBFormat != Version {
		return nil, nberrors.NewFormatError(name, fmt.Sprintf("unsupported nbformat %d, want %d", *header.NBFormat, Version), nil)
	}

	var nb Notebook
	if err := sonic.Unmarshal(data, &nb); err != nil {
		return nil, nberrors.NewFormatError(name, "invalid v4 document", err)
	}

	for i, cell := range nb.Cells {
		switch cell.CellType {
		case CellMarkdown, CellCode, CellRaw:
		default:
			return nil, nberrors.NewFormatError(name, fmt.Sprintf("cell %d: unknown cell_type %q", i, cell.CellType), nil)
		}
	}
	return &nb, nil
}
