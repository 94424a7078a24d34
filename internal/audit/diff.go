package audit

import (
	"reflect"

	"github.com/noah-isme/gm-panel-api/internal/models"
)

// Diff computes the field-level changes between two snapshots of an entity.
// Unchanged fields are omitted; fields present on only one side diff against
// nil. Returns nil when nothing changed.
func Diff(before, after map[string]interface{}) map[string]models.FieldChange {
	changes := make(map[string]models.FieldChange)

	for field, to := range after {
		from, ok := before[field]
		if ok && reflect.DeepEqual(from, to) {
			continue
		}
		if !ok {
			from = nil
		}
		changes[field] = models.FieldChange{From: from, To: to}
	}
	for field, from := range before {
		if _, ok := after[field]; !ok {
			changes[field] = models.FieldChange{From: from, To: nil}
		}
	}

	if len(changes) == 0 {
		return nil
	}
	return changes
}
