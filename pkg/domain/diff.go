package domain

import (
	"reflect"
	"slices"
)

// StoreDiff lists the keys that differ between two store snapshots.
// Removed keys are present in Changed with a nil value.
type StoreDiff struct {
	Changed map[string]any `json:"changed,omitempty"`
}

// Diff calculates the difference between two snapshots.
// A nil old snapshot yields every key of next (initial load). Nil means no change.
func Diff(old, next map[string]any) *StoreDiff {
	delta := make(map[string]any)

	for k, v := range next {
		prev, exists := old[k]
		if !exists || !reflect.DeepEqual(prev, v) {
			delta[k] = v
		}
	}

	for k := range old {
		if _, exists := next[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return &StoreDiff{Changed: delta}
}

// Keys returns the changed key names sorted.
func (d *StoreDiff) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Changed))
	for k := range d.Changed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsEmpty checks if the diff contains any changes.
func (d *StoreDiff) IsEmpty() bool {
	return d == nil || len(d.Changed) == 0
}
