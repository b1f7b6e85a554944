package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/dimchansky/utfbom"
)

// CSVReader reads comma or semicolon separated files. Excel exports from
// European locales use semicolons; the delimiter is picked from the header
// line unless Comma is set.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	buffered := bufio.NewReader(utfbom.SkipOnly(file))
	comma := r.Comma
	if comma == 0 {
		comma = sniffDelimiter(buffered)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read csv header: file %s is empty", path)
	}
	return recordsFromRows(rows[0], rows[1:], 2), nil
}

func sniffDelimiter(r *bufio.Reader) rune {
	line, _ := r.Peek(4096)
	if end := bytes.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
