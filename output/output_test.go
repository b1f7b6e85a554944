package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"chronoassist/timeentry"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

var exportEntries = []timeentry.Entry{
	{Date: "2026-03-30", Project: "Project Alpha", Activity: "Development", WorkItem: "Feature X", Comment: "API"},
	{ClientID: "b", Date: "Last Tuesday", Project: "Project Beta", Activity: "Meeting", Hours: timeentry.HoursPtr(0.25)},
}

func TestEmitEntries_NilIsEmptyArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := EmitEntries(&buf, nil); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestEmitEntries_SingleJSONValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := EmitEntries(&buf, exportEntries[:1]); err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := `[{"Date":"2026-03-30","Project":"Project Alpha","Activity":"Development","WorkItem":"Feature X","Comment":"API"}]` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestCSVWriter_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.csv")
	writer, err := WriterForFormat(DetectFormat(path))
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := writer.Write(path, exportEntries); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"id", "Date", "Project", "Activity", "WorkItem", "Hours", "Comment"},
		{"", "2026-03-30", "Project Alpha", "Development", "Feature X", "", "API"},
		{"b", "Last Tuesday", "Project Beta", "Meeting", "", "0.25", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected csv rows (-want +got):\n%s", diff)
	}
}

func TestExcelWriter_WritesRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.xlsx")
	writer, err := WriterForFormat(DetectFormat(path))
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := writer.Write(path, exportEntries); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer file.Close()
	value, err := file.GetCellValue(file.GetSheetName(0), "C3")
	if err != nil {
		t.Fatalf("get cell: %v", err)
	}
	if value != "Project Beta" {
		t.Fatalf("expected Project Beta in C3, got %q", value)
	}
}

func TestWriterForFormat_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestEmitJSON_KeepsAmpersand(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := EmitJSON(&buf, map[string]string{"Project": "D365 F&SC"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if buf.String() != `{"Project":"D365 F&SC"}`+"\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
