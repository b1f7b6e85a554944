package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"chronoassist/timeentry"
)

// Writer exports entries to a spreadsheet file.
type Writer interface {
	Write(path string, entries []timeentry.Entry) error
}

var headers = []string{"id", "Date", "Project", "Activity", "WorkItem", "Hours", "Comment"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// DetectFormat infers the export format from the output path, defaulting to csv.
func DetectFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func row(entry timeentry.Entry) []string {
	hours := ""
	if entry.Hours != nil {
		hours = fmt.Sprintf("%g", *entry.Hours)
	}
	return []string{
		entry.ClientID,
		entry.Date,
		entry.Project,
		entry.Activity,
		entry.WorkItem,
		hours,
		entry.Comment,
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
