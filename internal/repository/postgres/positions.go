package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// lockSiblingIDs runs a FOR UPDATE query returning the ordered id column of
// one sibling scope. Shared by the section, task and sub-task repositories.
func lockSiblingIDs(ctx context.Context, q Querier, query string, parentID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock siblings: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sibling id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// setSiblingPositions applies position = index for each id in one set-based
// update. The (parent, position) uniqueness constraint is deferred to commit,
// so the intermediate permutation never trips it. The affected-row count must
// match the input; a shortfall means an id escaped the scope despite the
// locks and indicates corruption.
func setSiblingPositions(ctx context.Context, q Querier, query string, parentID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	tag, err := q.Exec(ctx, query, parentID, ids)
	if err != nil {
		return fmt.Errorf("failed to renumber siblings: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return domain.NewInternalError(
			"renumbered %d of %d siblings under %s", tag.RowsAffected(), len(ids), parentID)
	}
	return nil
}
