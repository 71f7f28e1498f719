// Package nbformat reads notebook documents in the nbformat v4 JSON schema.
//
// Only major version 4 is accepted. Anything else, invalid JSON, unknown cell
// types and non-UTF-8 content are reported as FormatError.
//
// Example Usage:
//
//	nb, err := nbformat.Read("analysis.ipynb")
//	for _, cell := range nb.Cells {
//		fmt.Println(cell.CellType, cell.Source.String())
//	}
package nbformat
