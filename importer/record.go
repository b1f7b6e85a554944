package importer

import (
	"strings"
)

// Record is one spreadsheet row keyed by normalized header.
type Record struct {
	RowNumber int
	Values    map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		if value, ok := r.Values[normalizeHeader(key)]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (r Record) Empty() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// recordsFromRows pairs each data row with the header row. Short rows are
// padded with empty values. firstRow is the 1-based row number of rows[0].
func recordsFromRows(header []string, rows [][]string, firstRow int) []Record {
	keys := make([]string, len(header))
	for i, name := range header {
		keys[i] = normalizeHeader(name)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		values := make(map[string]string, len(keys))
		for col, key := range keys {
			if key == "" {
				continue
			}
			if col < len(row) {
				values[key] = row[col]
			} else {
				values[key] = ""
			}
		}
		records = append(records, Record{RowNumber: firstRow + i, Values: values})
	}
	return records
}

func normalizeHeader(input string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(strings.ToLower(input)))
}
