package pipeline

import (
	"fmt"
	"os"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
)

// ExtractRowsFromInput reads plant rows from a standalone file for one-off
// imports outside the mail flow.
func ExtractRowsFromInput(inputType string, path string) ([]*internal.RawRow, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch inputType {
	case "xlsx":
		return parseXLSXRows(blob)
	case "csv":
		return parseCSVRows(blob)
	case "html":
		return parseHTMLTableRows(string(blob)), nil
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}
