// Package content resolves the text, images and structured data shown on
// each page section: hardcoded defaults overlaid by rows fetched from the
// hosted data service.
package content

import (
	"encoding/json"

	"wedding-site/models"
)

// Merge overlays fetched rows onto a section's defaults. Fetched keys win;
// defaults absent from the fetch stay untouched. A later row overwrites an
// earlier one on key collision, so behavior with duplicate (section, key)
// pairs is last-row-wins in store order. Rows typed "json" are parsed,
// falling back to the raw string when the value is malformed.
func Merge(defaults map[string]any, rows []models.WebContent) map[string]any {
	merged := make(map[string]any, len(defaults)+len(rows))
	for k, v := range defaults {
		merged[k] = v
	}
	for _, row := range rows {
		if row.Type == models.TypeJSON {
			var parsed any
			if err := json.Unmarshal([]byte(row.Value), &parsed); err == nil {
				merged[row.Key] = parsed
				continue
			}
		}
		merged[row.Key] = row.Value
	}
	return merged
}
