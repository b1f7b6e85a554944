package timeentry

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestKeySetAdd_RejectsSameTuple(t *testing.T) {
	t.Parallel()

	set := KeySet{}
	first := Entry{Date: "2026-03-02", Project: "P", Activity: "A", WorkItem: "W", Comment: "one"}
	second := Entry{Date: "2026-03-02", Project: "P", Activity: "A", WorkItem: "W", Comment: "two"}
	other := Entry{Date: "2026-03-02", Project: "P", Activity: "A", WorkItem: ""}

	if !set.Add(first.Key()) {
		t.Fatalf("expected first key to be new")
	}
	if set.Add(second.Key()) {
		t.Fatalf("expected comment to be ignored by the uniqueness key")
	}
	if !set.Add(other.Key()) {
		t.Fatalf("expected different work item to be a new key")
	}
}

func TestEntryJSON_ScrapedEntryOmitsIDAndHours(t *testing.T) {
	t.Parallel()

	content, err := json.Marshal(Entry{Date: "2026-03-02", Project: "P", Activity: "A", Comment: "c"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(content)
	if strings.Contains(got, `"id"`) || strings.Contains(got, `"Hours"`) {
		t.Fatalf("expected id and Hours to be omitted, got %s", got)
	}
	if !strings.Contains(got, `"WorkItem":""`) {
		t.Fatalf("expected empty WorkItem to be emitted, got %s", got)
	}
}

func TestEntryJSON_DecodesCallerPayload(t *testing.T) {
	t.Parallel()

	var entry Entry
	payload := `{"id":"a","Date":"2025-05-13","Project":"P","Activity":"A","WorkItem":"W","Hours":0.25,"Comment":"c"}`
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.ClientID != "a" {
		t.Fatalf("expected client id a, got %q", entry.ClientID)
	}
	if entry.Hours == nil || *entry.Hours != 0.25 {
		t.Fatalf("expected hours 0.25, got %v", entry.Hours)
	}
}
