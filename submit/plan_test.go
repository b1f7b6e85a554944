package submit

import (
	"testing"

	"chronoassist/timeentry"

	"github.com/google/go-cmp/cmp"
)

func TestParseLayout(t *testing.T) {
	t.Parallel()

	got, err := ParseLayout([]string{"Date", " tab ", "work_item", "suggest"})
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	want := []Token{TokenDate, TokenTab, TokenWorkItem, TokenSuggest}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected layout (-want +got):\n%s", diff)
	}

	if _, err := ParseLayout([]string{"date", "enter"}); err == nil {
		t.Fatalf("expected unsupported token error")
	}
	if _, err := ParseLayout(nil); err == nil {
		t.Fatalf("expected empty layout error")
	}
}

func TestPlan_DefaultLayoutSkipsEmptyWorkItem(t *testing.T) {
	t.Parallel()

	entry := timeentry.Entry{
		Project:  "BIO02001",
		Activity: "CR01",
		Hours:    timeentry.HoursPtr(1.5),
		Comment:  "Test comment",
	}
	steps := Plan(DefaultLayout, entry, "Tue 5/13")

	var typed []string
	tabs := 0
	for _, step := range steps {
		switch step.Kind {
		case StepType:
			typed = append(typed, step.Text)
		case StepTab:
			tabs++
		}
	}
	if diff := cmp.Diff([]string{"Tue 5/13", "BIO02001", "CR01", "1.5", "Test comment"}, typed); diff != "" {
		t.Fatalf("unexpected typed values (-want +got):\n%s", diff)
	}
	if tabs != 9 {
		t.Fatalf("expected 9 tabs, got %d", tabs)
	}
}

func TestPlan_SuggestAfterEmptyValueIsDropped(t *testing.T) {
	t.Parallel()

	steps := Plan([]Token{TokenWorkItem, TokenSuggest}, timeentry.Entry{}, "Tue 5/13")
	if len(steps) != 0 {
		t.Fatalf("expected no steps, got %#v", steps)
	}
}
