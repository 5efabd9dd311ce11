// Package draft is the immutability engine behind state.Store.
//
// An Engine turns an immutable snapshot into a Draft that may be mutated freely,
// then finalizes the draft into a new snapshot. Finalizing a draft that was not
// changed returns the base snapshot untouched; finalizing a changed draft
// returns a value that reuses every unchanged subtree of the base.
package draft

import "errors"

var (
	// ErrRevoked is returned when a finalized draft is used again.
	ErrRevoked = errors.New("draft: draft already finalized")
	// ErrPatchTarget is returned when a patch is applied to a value without named fields.
	ErrPatchTarget = errors.New("draft: patch target must be a struct or string-keyed map")
	// ErrUnknownField is returned when a patch names a field the target does not have.
	ErrUnknownField = errors.New("draft: unknown patch field")
	// ErrInvalidPatch is returned when a patch value cannot be decoded into its field.
	ErrInvalidPatch = errors.New("draft: invalid patch value")
)

// Engine produces drafts from snapshots and finalizes them back into snapshots.
type Engine[S any] interface {
	// Produce normalizes value into a snapshot without changing it.
	Produce(value S) S
	// CreateDraft returns a mutable view over base.
	CreateDraft(base S) *Draft[S]
	// FinishDraft finalizes d. It reports false, and returns the draft's base,
	// when nothing was changed.
	FinishDraft(d *Draft[S]) (S, bool)
	// Patch assigns each top-level entry of fields onto the draft.
	Patch(d *Draft[S], fields map[string]any) error
}

// Draft is a mutable copy of a snapshot, owned by a single transaction.
type Draft[S any] struct {
	base    S
	value   S
	revoked bool
}

// New wraps base and its mutable copy into a draft. Engines call this from CreateDraft.
func New[S any](base, value S) *Draft[S] {
	return &Draft[S]{base: base, value: value}
}

// Base returns the snapshot the draft was created from.
func (d *Draft[S]) Base() S {
	if d == nil {
		var zero S
		return zero
	}
	return d.base
}

// Value returns the mutable value, or nil once the draft has been finalized.
func (d *Draft[S]) Value() *S {
	if d == nil || d.revoked {
		return nil
	}
	return &d.value
}

// Revoked reports whether the draft has been finalized.
func (d *Draft[S]) Revoked() bool {
	return d == nil || d.revoked
}

// Revoke detaches the draft from its transaction and returns the final value.
func (d *Draft[S]) Revoke() S {
	if d == nil {
		var zero S
		return zero
	}
	d.revoked = true
	value := d.value
	var zero S
	d.value = zero
	return value
}
