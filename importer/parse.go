package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHours accepts "0.25", ".25" and decimal-comma values like "1,5".
func parseHours(raw string) (*float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, nil
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("parse hours %q: %w", raw, err)
	}
	if hours < 0 {
		return nil, fmt.Errorf("hours must not be negative")
	}
	return &hours, nil
}
