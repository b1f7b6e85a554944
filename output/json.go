package output

import (
	"encoding/json"
	"fmt"
	"io"

	"chronoassist/timeentry"
)

// EmitEntries writes entries as one JSON array; nil becomes [].
func EmitEntries(w io.Writer, entries []timeentry.Entry) error {
	if entries == nil {
		entries = []timeentry.Entry{}
	}
	return EmitJSON(w, entries)
}

// EmitJSON writes v as a single JSON value followed by a newline.
func EmitJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}
