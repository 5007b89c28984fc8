// Package ordering maintains the dense zero-based position sequence among
// ordered siblings sharing one parent: sections within a project, tasks
// within a section, sub-tasks within a task.
//
// Every operation runs inside the caller's transaction and starts by
// row-locking the full sibling set of each scope it will renumber, so
// concurrent reorders of the same list serialize while disjoint scopes
// proceed in parallel. Renumbering writes the whole permutation in one bulk
// update; the (parent, position) uniqueness constraint is deferred to commit
// because intermediate states transiently duplicate positions.
package ordering

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// SiblingStore is one ordered sibling scope family (e.g. tasks keyed by
// section). Implementations are bound to the ambient transaction.
type SiblingStore interface {
	// LockSiblings returns the ids under parentID ordered by position,
	// acquiring FOR UPDATE row locks on all of them.
	LockSiblings(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error)
	// SetPositions assigns position = index for every id, in one bulk update.
	SetPositions(ctx context.Context, parentID uuid.UUID, ids []uuid.UUID) error
	// SetParent re-parents one item into a different scope.
	SetParent(ctx context.Context, id, parentID uuid.UUID) error
}

// Manager owns the renumbering algorithm for one sibling scope family. It is
// called explicitly by every mutation path that touches ordering; nothing
// renumbers implicitly.
type Manager struct {
	store SiblingStore
}

// NewManager creates a position manager over store
func NewManager(store SiblingStore) *Manager {
	return &Manager{store: store}
}

// InsertAtEnd returns the position for a new item appended under parentID,
// which is simply the current sibling count. The sibling set is locked first
// so a concurrent insert or reorder cannot hand out the same position.
func (m *Manager) InsertAtEnd(ctx context.Context, parentID uuid.UUID) (int, error) {
	ids, err := m.store.LockSiblings(ctx, parentID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock siblings: %w", err)
	}
	return len(ids), nil
}

// MoveTo moves id to target within its scope. Out-of-range targets are
// silently clamped, never rejected: moving the only item to position 5
// leaves it at position 0.
func (m *Manager) MoveTo(ctx context.Context, parentID, id uuid.UUID, target int) error {
	ids, err := m.store.LockSiblings(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to lock siblings: %w", err)
	}

	idx := indexOf(ids, id)
	if idx < 0 {
		return domain.NewNotFoundError("item")
	}

	rest := removeAt(ids, idx)
	reordered := insertAt(rest, clamp(target, 0, len(rest)), id)
	if equalIDs(ids, reordered) {
		return nil
	}

	if err := m.store.SetPositions(ctx, parentID, reordered); err != nil {
		return fmt.Errorf("failed to renumber siblings: %w", err)
	}
	return nil
}

// MoveInDirection moves id one step or to an extreme within its scope.
// Moving the first item up is a silent no-op; moving the last item down is a
// user-facing validation error. The asymmetry is inherited behavior, kept
// as observed.
func (m *Manager) MoveInDirection(ctx context.Context, parentID, id uuid.UUID, dir domain.MoveDirection) error {
	ids, err := m.store.LockSiblings(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to lock siblings: %w", err)
	}

	idx := indexOf(ids, id)
	if idx < 0 {
		return domain.NewNotFoundError("item")
	}

	var target int
	switch dir {
	case domain.MoveUp:
		if idx == 0 {
			return nil
		}
		target = idx - 1
	case domain.MoveDown:
		if idx == len(ids)-1 {
			return domain.NewValidationError("cannot move down, there is no next item")
		}
		target = idx + 1
	case domain.MoveTop:
		target = 0
	case domain.MoveBottom:
		target = len(ids) - 1
	default:
		return domain.NewValidationError("unknown move direction %q", dir)
	}

	rest := removeAt(ids, idx)
	reordered := insertAt(rest, clamp(target, 0, len(rest)), id)
	if equalIDs(ids, reordered) {
		return nil
	}

	if err := m.store.SetPositions(ctx, parentID, reordered); err != nil {
		return fmt.Errorf("failed to renumber siblings: %w", err)
	}
	return nil
}

// MoveAfter moves id, currently under srcParent, to immediately follow after
// within dstParent. A nil after means the front of dstParent. When the
// scopes differ both sibling sets are locked before either is mutated, the
// item is re-parented, and both scopes are renumbered; the vacated scope
// closes its gap.
func (m *Manager) MoveAfter(ctx context.Context, srcParent, dstParent, id uuid.UUID, after *uuid.UUID) error {
	if srcParent == dstParent {
		return m.moveAfterWithin(ctx, srcParent, id, after)
	}

	// Deterministic lock order across scopes prevents deadlock between two
	// opposite-direction moves.
	first, second := srcParent, dstParent
	if bytes.Compare(dstParent[:], srcParent[:]) < 0 {
		first, second = dstParent, srcParent
	}
	locked := map[uuid.UUID][]uuid.UUID{}
	for _, parent := range []uuid.UUID{first, second} {
		ids, err := m.store.LockSiblings(ctx, parent)
		if err != nil {
			return fmt.Errorf("failed to lock siblings: %w", err)
		}
		locked[parent] = ids
	}

	srcIDs, dstIDs := locked[srcParent], locked[dstParent]
	idx := indexOf(srcIDs, id)
	if idx < 0 {
		return domain.NewNotFoundError("item")
	}

	target := 0
	if after != nil {
		afterIdx := indexOf(dstIDs, *after)
		if afterIdx < 0 {
			return domain.NewNotFoundError("item")
		}
		target = afterIdx + 1
	}

	if err := m.store.SetParent(ctx, id, dstParent); err != nil {
		return fmt.Errorf("failed to re-parent item: %w", err)
	}
	if err := m.store.SetPositions(ctx, srcParent, removeAt(srcIDs, idx)); err != nil {
		return fmt.Errorf("failed to renumber source siblings: %w", err)
	}
	if err := m.store.SetPositions(ctx, dstParent, insertAt(dstIDs, target, id)); err != nil {
		return fmt.Errorf("failed to renumber destination siblings: %w", err)
	}
	return nil
}

func (m *Manager) moveAfterWithin(ctx context.Context, parentID, id uuid.UUID, after *uuid.UUID) error {
	ids, err := m.store.LockSiblings(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to lock siblings: %w", err)
	}

	idx := indexOf(ids, id)
	if idx < 0 {
		return domain.NewNotFoundError("item")
	}

	rest := removeAt(ids, idx)
	target := 0
	if after != nil {
		afterIdx := indexOf(rest, *after)
		if afterIdx < 0 {
			return domain.NewNotFoundError("item")
		}
		target = afterIdx + 1
	}

	reordered := insertAt(rest, target, id)
	if equalIDs(ids, reordered) {
		return nil
	}

	if err := m.store.SetPositions(ctx, parentID, reordered); err != nil {
		return fmt.Errorf("failed to renumber siblings: %w", err)
	}
	return nil
}

// Remove closes the gap left by deleting id from its scope. It locks the
// sibling set and renumbers the survivors; the caller deletes the row itself
// within the same transaction, and the deferred uniqueness constraint covers
// the moment where the doomed row still holds its old position.
func (m *Manager) Remove(ctx context.Context, parentID, id uuid.UUID) error {
	ids, err := m.store.LockSiblings(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to lock siblings: %w", err)
	}

	idx := indexOf(ids, id)
	if idx < 0 {
		return domain.NewNotFoundError("item")
	}

	remaining := removeAt(ids, idx)
	if len(remaining) == 0 {
		return nil
	}
	if err := m.store.SetPositions(ctx, parentID, remaining); err != nil {
		return fmt.Errorf("failed to renumber siblings: %w", err)
	}
	return nil
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(ids []uuid.UUID, idx int) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids)-1)
	out = append(out, ids[:idx]...)
	return append(out, ids[idx+1:]...)
}

func insertAt(ids []uuid.UUID, idx int, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	return append(out, ids[idx:]...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func equalIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
