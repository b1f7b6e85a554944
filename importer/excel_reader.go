package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the sheet named Sheet, or the first sheet when Sheet is
// empty or missing from the workbook.
type ExcelReader struct {
	Sheet string
}

func (r *ExcelReader) Read(path string) ([]Record, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := r.sheetName(file.GetSheetList())
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}
	return recordsFromRows(rows[0], rows[1:], 2), nil
}

func (r *ExcelReader) sheetName(sheets []string) string {
	if want := strings.TrimSpace(r.Sheet); want != "" && slices.Contains(sheets, want) {
		return want
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}
