// Package importer turns submission input into entries: the JSON array passed
// as a command argument, or a JSON, CSV or Excel file.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"chronoassist/timeentry"
)

// Rejection is an input element that could not be turned into an entry.
// ClientID is recovered from the raw element when possible.
type Rejection struct {
	Index    int
	ClientID string
	Err      error
}

// DecodeEntries parses a JSON array of entry objects. Elements that do not
// decode are returned as rejections; only input that is not a JSON array
// yields an error.
func DecodeEntries(content []byte) ([]timeentry.Entry, []Rejection, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("decode entries: empty input")
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, nil, fmt.Errorf("decode entries: %w", err)
	}

	entries := make([]timeentry.Entry, 0, len(elements))
	var rejected []Rejection
	for i, element := range elements {
		var entry timeentry.Entry
		if err := json.Unmarshal(element, &entry); err != nil {
			rejected = append(rejected, Rejection{
				Index:    i,
				ClientID: peekClientID(element),
				Err:      fmt.Errorf("entry %d: decode: %w", i+1, err),
			})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rejected, nil
}

// peekClientID returns the raw "id" of an element that failed to decode as an
// entry. Numeric ids keep their JSON spelling.
func peekClientID(element json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil {
		return ""
	}
	raw, ok := fields["id"]
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String()
	}
	return ""
}

// ReadEntriesFile reads entries from path in the given format (json, csv,
// excel). An empty format is inferred from the extension.
func ReadEntriesFile(path, format string) ([]timeentry.Entry, []Rejection, error) {
	if format == "" {
		format = DetectFormat(path)
	}
	if normalizeHeader(format) == "json" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read entries file %s: %w", path, err)
		}
		return DecodeEntries(content)
	}

	reader, err := ReaderForFormat(format)
	if err != nil {
		return nil, nil, err
	}
	records, err := reader.Read(path)
	if err != nil {
		return nil, nil, err
	}
	entries, rejected := EntriesFromRecords(records)
	return entries, rejected, nil
}

// EntriesFromRecords maps spreadsheet rows to entries. Rows with unreadable
// hours are rejected; empty rows are skipped.
func EntriesFromRecords(records []Record) ([]timeentry.Entry, []Rejection) {
	entries := make([]timeentry.Entry, 0, len(records))
	var rejected []Rejection
	for i, record := range records {
		if record.Empty() {
			continue
		}
		clientID := record.Get("id", "ClientID")
		hours, err := parseHours(record.Get("Hours"))
		if err != nil {
			rejected = append(rejected, Rejection{
				Index:    i,
				ClientID: clientID,
				Err:      fmt.Errorf("row %d: %w", record.RowNumber, err),
			})
			continue
		}
		entries = append(entries, timeentry.Entry{
			ClientID: clientID,
			Date:     record.Get("Date"),
			Project:  record.Get("Project"),
			Activity: record.Get("Activity"),
			WorkItem: record.Get("WorkItem"),
			Hours:    hours,
			Comment:  record.Get("Comment", "External comment"),
		})
	}
	return entries, rejected
}
