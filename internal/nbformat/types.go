package nbformat

import (
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"
)

// Version is the only major nbformat version read.
const Version = 4

// Cell types.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputStream        = "stream"
	OutputDisplayData   = "display_data"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

// Notebook is a decoded v4 document.
type Notebook struct {
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
	Metadata      Metadata `json:"metadata"`
	Cells         []Cell   `json:"cells"`
}

// Metadata is the notebook-level metadata the exporter uses.
type Metadata struct {
	Title        string        `json:"title,omitempty"`
	KernelSpec   *KernelSpec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
}

type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language,omitempty"`
}

type LanguageInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version,omitempty"`
	FileExtension string `json:"file_extension,omitempty"`
}

// Cell is one markdown, code or raw cell.
type Cell struct {
	ID             string                `json:"id,omitempty"`
	CellType       string                `json:"cell_type"`
	Source         MultilineString       `json:"source"`
	Metadata       map[string]any        `json:"metadata,omitempty"`
	ExecutionCount *int                  `json:"execution_count,omitempty"`
	Outputs        []Output              `json:"outputs,omitempty"`
	Attachments    map[string]MimeBundle `json:"attachments,omitempty"`
}

// Output is one entry of a code cell's outputs.
type Output struct {
	OutputType     string          `json:"output_type"`
	Name           string          `json:"name,omitempty"`
	Text           MultilineString `json:"text,omitempty"`
	Data           MimeBundle      `json:"data,omitempty"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	EName          string          `json:"ename,omitempty"`
	EValue         string          `json:"evalue,omitempty"`
	Traceback      []string        `json:"traceback,omitempty"`
}

// MultilineString is a string stored either whole or as a list of lines.
type MultilineString string

// UnmarshalJSON accepts both a JSON string and an array of strings.
func (m *MultilineString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var lines []string
		if err := sonic.Unmarshal(data, &lines); err != nil {
			return err
		}
		*m = MultilineString(strings.Join(lines, ""))
		return nil
	}
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = MultilineString(s)
	return nil
}

func (m MultilineString) String() string { return string(m) }

// MimeBundle maps MIME types to payloads. Text payloads are multiline
// strings; JSON payloads such as application/json stay raw.
type MimeBundle map[string]json.RawMessage

// Text returns the payload for mime decoded as a multiline string.
func (b MimeBundle) Text(mime string) (string, bool) {
	raw, ok := b[mime]
	if !ok {
		return "", false
	}
	var s MultilineString
	if err := s.UnmarshalJSON(raw); err != nil {
		return "", false
	}
	return s.String(), true
}

// Title returns the notebook title, if its metadata names one.
func (nb *Notebook) Title() string {
	return nb.Metadata.Title
}

// Language returns the kernel language, defaulting to the kernelspec.
func (nb *Notebook) Language() string {
	if nb.Metadata.LanguageInfo != nil && nb.Metadata.LanguageInfo.Name != "" {
		return nb.Metadata.LanguageInfo.Name
	}
	if nb.Metadata.KernelSpec != nil {
		return nb.Metadata.KernelSpec.Language
	}
	return ""
}
