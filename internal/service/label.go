package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// LabelService handles workspace label operations
type LabelService struct {
	store domain.Store
}

// NewLabelService creates a new label service
func NewLabelService(store domain.Store) *LabelService {
	return &LabelService{store: store}
}

// Create creates a label in a workspace
func (s *LabelService) Create(ctx context.Context, userID, workspaceID uuid.UUID, input domain.LabelCreate) (*domain.Label, error) {
	now := time.Now()
	label := &domain.Label{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Color:       input.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.CreateLabel, "workspace"); err != nil {
			return err
		}
		if err := tx.Labels().Create(ctx, label); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

// ListByWorkspace lists a workspace's labels
func (s *LabelService) ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) ([]domain.Label, error) {
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "workspace"); err != nil {
		return nil, err
	}

	labels, err := s.store.Labels().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// Update updates a label's name or color
func (s *LabelService) Update(ctx context.Context, userID, labelID uuid.UUID, input domain.LabelUpdate) (*domain.Label, error) {
	var label *domain.Label
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, err := s.visibleLabel(ctx, tx, userID, labelID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, existing.WorkspaceID, userID, authz.UpdateLabel, "label"); err != nil {
			return err
		}
		if err := tx.Labels().Update(ctx, labelID, &input); err != nil {
			return err
		}

		label, err = tx.Labels().GetByID(ctx, labelID)
		if err != nil {
			return fmt.Errorf("failed to get label: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return label, nil
}

// Delete deletes a label, detaching it from all tasks
func (s *LabelService) Delete(ctx context.Context, userID, labelID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, err := s.visibleLabel(ctx, tx, userID, labelID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, existing.WorkspaceID, userID, authz.DeleteLabel, "label"); err != nil {
			return err
		}
		if err := tx.Labels().Delete(ctx, labelID); err != nil {
			return fmt.Errorf("failed to delete label: %w", err)
		}
		return nil
	})
}

func (s *LabelService) visibleLabel(ctx context.Context, store domain.Store, userID, labelID uuid.UUID) (*domain.Label, error) {
	label, err := store.Labels().GetByID(ctx, labelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	if label == nil {
		return nil, domain.NewNotFoundError("label")
	}
	if _, err := memberOf(ctx, store, label.WorkspaceID, userID, "label"); err != nil {
		return nil, err
	}
	return label, nil
}
