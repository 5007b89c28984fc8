package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/authz"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// ProjectService handles project operations
type ProjectService struct {
	store domain.Store
}

// NewProjectService creates a new project service
func NewProjectService(store domain.Store) *ProjectService {
	return &ProjectService{store: store}
}

// Create creates a project in a workspace
func (s *ProjectService) Create(ctx context.Context, userID, workspaceID uuid.UUID, input domain.ProjectCreate) (*domain.Project, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		if _, err := authorize(ctx, tx, workspaceID, userID, authz.CreateProject, "workspace"); err != nil {
			return err
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// GetByID retrieves a project visible to the user
func (s *ProjectService) GetByID(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.visibleProject(ctx, s.store, userID, projectID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListByWorkspace lists the workspace's projects, optionally including
// archived ones
func (s *ProjectService) ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID, includeArchived bool) ([]domain.Project, error) {
	if _, err := memberOf(ctx, s.store, workspaceID, userID, "workspace"); err != nil {
		return nil, err
	}

	projects, err := s.store.Projects().ListByWorkspace(ctx, workspaceID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update updates project metadata
func (s *ProjectService) Update(ctx context.Context, userID, projectID uuid.UUID, input domain.ProjectUpdate) (*domain.Project, error) {
	var project *domain.Project
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, err := s.visibleProject(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, existing.WorkspaceID, userID, authz.UpdateProject, "project"); err != nil {
			return err
		}
		if err := tx.Projects().Update(ctx, projectID, &input); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		project, err = tx.Projects().GetByID(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// SetArchived archives or unarchives a project. Archiving stamps the time;
// unarchiving clears it.
func (s *ProjectService) SetArchived(ctx context.Context, userID, projectID uuid.UUID, archived bool) (*domain.Project, error) {
	var project *domain.Project
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, err := s.visibleProject(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, existing.WorkspaceID, userID, authz.UpdateProject, "project"); err != nil {
			return err
		}

		var ts *time.Time
		if archived {
			now := time.Now()
			ts = &now
		}
		if err := tx.Projects().SetArchived(ctx, projectID, ts); err != nil {
			return fmt.Errorf("failed to set archived: %w", err)
		}

		project, err = tx.Projects().GetByID(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete deletes a project and everything under it
func (s *ProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.Store) error {
		existing, err := s.visibleProject(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		if _, err := authorize(ctx, tx, existing.WorkspaceID, userID, authz.DeleteProject, "project"); err != nil {
			return err
		}
		if err := tx.Projects().Delete(ctx, projectID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
}

// visibleProject loads a project and verifies the user can see it
func (s *ProjectService) visibleProject(ctx context.Context, store domain.Store, userID, projectID uuid.UUID) (*domain.Project, error) {
	project, err := store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, domain.NewNotFoundError("project")
	}
	if _, err := memberOf(ctx, store, project.WorkspaceID, userID, "project"); err != nil {
		return nil, err
	}
	return project, nil
}
