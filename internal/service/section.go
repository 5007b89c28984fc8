package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/ordering"
)

// SectionService handles section operations
type SectionService struct {
	store domain.Store
}

// NewSectionService creates a new section service
func NewSectionService(store domain.Store) *SectionService {
	return &SectionService{store: store}
}

// Create appends a new section at the end of the project's section list
func (s *SectionService) Create(ctx context.Context, userID, projectID uuid.UUID, input domain.SectionCreate) (*domain.Section, error) {
	now := time.Now()
	section := &domain.Section{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		project, err := tx.Projects().GetByID(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}
		if project == nil {
			return domain.NewNotFoundError("project")
		}
		if _, err := authorize(ctx, tx, project.WorkspaceID, userID, authz.CreateSection, "project"); err != nil {
			return err
		}

		position, err := ordering.NewManager(tx.Sections()).InsertAtEnd(ctx, projectID)
		if err != nil {
			return err
		}
		section.Position = position

		if err := tx.Sections().Create(ctx, section); err != nil {
			return fmt.Errorf("failed to create section: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// GetByID retrieves a section visible to the user
func (s *SectionService) GetByID(ctx context.Context, userID, sectionID uuid.UUID) (*domain.Section, error) {
	section, _, err := s.visibleSection(ctx, s.store, userID, sectionID)
	if err != nil {
		return nil, err
	}
	return section, nil
}

// ListByProject lists a project's sections in position order
func (s *SectionService) ListByProject(ctx context.Context, userID, projectID uuid.UUID) ([]domain.Section, error) {
	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, domain.NewNotFoundError("project")
	}
	if _, err := memberOf(ctx, s.store, project.WorkspaceID, userID, "project"); err != nil {
		return nil, err
	}

	sections, err := s.store.Sections().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

// Update updates section metadata
func (s *SectionService) Update(ctx context.Context, userID, sectionID uuid.UUID, input domain.SectionUpdate) (*domain.Section, error) {
	var section *domain.Section
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		_, workspaceID, err := s.visibleSection(ctx, tx, userID, sectionID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateSection, "section"); err != nil {
			return err
		}
		if err := tx.Sections().Update(ctx, sectionID, &input); err != nil {
			return fmt.Errorf("failed to update section: %w", err)
		}

		section, err = tx.Sections().GetByID(ctx, sectionID)
		if err != nil {
			return fmt.Errorf("failed to get section: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

// MoveTo moves a section to the given position within its project.
// Out-of-range positions are clamped.
func (s *SectionService) MoveTo(ctx context.Context, userID, sectionID uuid.UUID, position int) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		section, workspaceID, err := s.visibleSection(ctx, tx, userID, sectionID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateSection, "section"); err != nil {
			return err
		}
		return ordering.NewManager(tx.Sections()).MoveTo(ctx, section.ProjectID, sectionID, position)
	})
}

// Move moves a section one step or to an extreme within its project
func (s *SectionService) Move(ctx context.Context, userID, sectionID uuid.UUID, dir domain.MoveDirection) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		section, workspaceID, err := s.visibleSection(ctx, tx, userID, sectionID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.UpdateSection, "section"); err != nil {
			return err
		}
		return ordering.NewManager(tx.Sections()).MoveInDirection(ctx, section.ProjectID, sectionID, dir)
	})
}

// Delete deletes a section and renumbers the remaining siblings
func (s *SectionService) Delete(ctx context.Context, userID, sectionID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		section, workspaceID, err := s.visibleSection(ctx, tx, userID, sectionID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.DeleteSection, "section"); err != nil {
			return err
		}
		if err := ordering.NewManager(tx.Sections()).Remove(ctx, section.ProjectID, sectionID); err != nil {
			return err
		}
		if err := tx.Sections().Delete(ctx, sectionID); err != nil {
			return fmt.Errorf("failed to delete section: %w", err)
		}
		return nil
	})
}

// visibleSection loads a section and the workspace it belongs to, verifying
// the user can see it
func (s *SectionService) visibleSection(ctx context.Context, store domain.Store, userID, sectionID uuid.UUID) (*domain.Section, uuid.UUID, error) {
	section, err := store.Sections().GetByID(ctx, sectionID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to get section: %w", err)
	}
	if section == nil {
		return nil, uuid.Nil, domain.NewNotFoundError("section")
	}

	workspaceID, err := store.Sections().GetWorkspaceID(ctx, sectionID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	if _, err := memberOf(ctx, store, workspaceID, userID, "section"); err != nil {
		return nil, uuid.Nil, err
	}
	return section, workspaceID, nil
}
