package inspect

import (
	"reflect"
	"sort"
)

// RootKey names the whole value when a snapshot is not a mapping.
const RootKey = "."

// ChangeKind says how a key differs between two snapshots.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Modified
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one top-level key that differs between two snapshots.
// Old is nil for Added, New is nil for Removed.
type Change struct {
	Key  string
	Kind ChangeKind
	Old  any
	New  any
}

// Diff compares the top-level keys of two snapshots after normalizing them.
// Nested values are compared whole. Changes are sorted by key.
func Diff(oldValue, newValue any) ([]Change, error) {
	before, err := Normalize(oldValue)
	if err != nil {
		return nil, err
	}
	after, err := Normalize(newValue)
	if err != nil {
		return nil, err
	}

	oldMap, oldOK := before.(map[string]any)
	newMap, newOK := after.(map[string]any)
	if !oldOK || !newOK {
		if reflect.DeepEqual(before, after) {
			return nil, nil
		}
		return []Change{{Key: RootKey, Kind: Modified, Old: before, New: after}}, nil
	}

	var changes []Change
	for key, next := range newMap {
		prev, exists := oldMap[key]
		switch {
		case !exists:
			changes = append(changes, Change{Key: key, Kind: Added, New: next})
		case !reflect.DeepEqual(prev, next):
			changes = append(changes, Change{Key: key, Kind: Modified, Old: prev, New: next})
		}
	}
	for key, prev := range oldMap {
		if _, exists := newMap[key]; !exists {
			changes = append(changes, Change{Key: key, Kind: Removed, Old: prev})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Key < changes[j].Key
	})
	return changes, nil
}
