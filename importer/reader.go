package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Reader loads tabular rows from a spreadsheet file.
type Reader interface {
	Read(path string) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{Sheet: "Entries"}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// DetectFormat infers the input format from the file extension.
func DetectFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "json"
	}
}
