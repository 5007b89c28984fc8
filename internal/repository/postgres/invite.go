package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jwpconsulting/projectify/internal/domain"
)

const inviteColumns = `tmi.id, tmi.workspace_id, tmi.user_invite_id, ui.email, tmi.redeemed, tmi.redeemed_when, tmi.created_at`

// InviteRepository implements domain.InviteRepository
type InviteRepository struct {
	q Querier
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(q Querier) *InviteRepository {
	return &InviteRepository{q: q}
}

func (r *InviteRepository) GetUserInviteByEmail(ctx context.Context, email string) (*domain.UserInvite, error) {
	query := `SELECT id, email, created_at FROM user_invites WHERE email = $1`

	var ui domain.UserInvite
	err := r.q.QueryRow(ctx, query, email).Scan(&ui.ID, &ui.Email, &ui.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user invite: %w", err)
	}
	return &ui, nil
}

func (r *InviteRepository) CreateUserInvite(ctx context.Context, invite *domain.UserInvite) error {
	query := `INSERT INTO user_invites (id, email, created_at) VALUES ($1, $2, $3)`

	if _, err := r.q.Exec(ctx, query, invite.ID, invite.Email, invite.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user invite: %w", err)
	}
	return nil
}

func (r *InviteRepository) CreateTeamMemberInvite(ctx context.Context, invite *domain.TeamMemberInvite) error {
	query := `
		INSERT INTO team_member_invites (id, workspace_id, user_invite_id, redeemed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.Exec(ctx, query,
		invite.ID,
		invite.WorkspaceID,
		invite.UserInviteID,
		invite.Redeemed,
		invite.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "team_member_invites_workspace_id_user_invite_id_key") {
			return domain.NewValidationError("this email has already been invited to the workspace")
		}
		return fmt.Errorf("failed to create team member invite: %w", err)
	}
	return nil
}

func scanInvite(row pgx.Row) (*domain.TeamMemberInvite, error) {
	var inv domain.TeamMemberInvite
	err := row.Scan(
		&inv.ID,
		&inv.WorkspaceID,
		&inv.UserInviteID,
		&inv.Email,
		&inv.Redeemed,
		&inv.RedeemedWhen,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InviteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMemberInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM team_member_invites tmi
		INNER JOIN user_invites ui ON ui.id = tmi.user_invite_id
		WHERE tmi.id = $1
	`
	inv, err := scanInvite(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

func (r *InviteRepository) GetPendingByWorkspaceAndEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*domain.TeamMemberInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM team_member_invites tmi
		INNER JOIN user_invites ui ON ui.id = tmi.user_invite_id
		WHERE tmi.workspace_id = $1 AND ui.email = $2 AND NOT tmi.redeemed
	`
	inv, err := scanInvite(r.q.QueryRow(ctx, query, workspaceID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending invite: %w", err)
	}
	return inv, nil
}

func (r *InviteRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.TeamMemberInvite, error) {
	query := `
		SELECT ` + inviteColumns + `
		FROM team_member_invites tmi
		INNER JOIN user_invites ui ON ui.id = tmi.user_invite_id
		WHERE ui.email = $1 AND NOT tmi.redeemed
		ORDER BY tmi.created_at
	`
	rows, err := r.q.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invites: %w", err)
	}
	defer rows.Close()

	var invites []domain.TeamMemberInvite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

func (r *InviteRepository) CountPendingByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM team_member_invites WHERE workspace_id = $1 AND NOT redeemed`

	var count int
	if err := r.q.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending invites: %w", err)
	}
	return count, nil
}

func (r *InviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM team_member_invites WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	return nil
}

func (r *InviteRepository) Redeem(ctx context.Context, id uuid.UUID, when time.Time) (bool, error) {
	// The redeemed guard in the WHERE clause makes redemption exactly-once
	// even under concurrent registration attempts.
	query := `
		UPDATE team_member_invites
		SET redeemed = TRUE, redeemed_when = $2
		WHERE id = $1 AND NOT redeemed
	`
	tag, err := r.q.Exec(ctx, query, id, when)
	if err != nil {
		return false, fmt.Errorf("failed to redeem invite: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
