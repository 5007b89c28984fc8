package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jwpconsulting/projectify/internal/config"
	"github.com/jwpconsulting/projectify/internal/domain"
)

// DB wraps the database connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new database connection pool
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx. Every
// repository runs against a Querier, so the same repository code serves both
// plain reads and transaction-bound mutations.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements domain.Store over one Querier
type Store struct {
	db *DB
	tx pgx.Tx

	users        *UserRepository
	workspaces   *WorkspaceRepository
	customers    *CustomerRepository
	teamMembers  *TeamMemberRepository
	invites      *InviteRepository
	projects     *ProjectRepository
	sections     *SectionRepository
	tasks        *TaskRepository
	subTasks     *SubTaskRepository
	labels       *LabelRepository
	chatMessages *ChatMessageRepository
	quotas       *QuotaRepository
}

// NewStore creates a pool-bound store
func NewStore(db *DB) *Store {
	return newStore(db, nil)
}

func newStore(db *DB, tx pgx.Tx) *Store {
	var q Querier = db.Pool
	if tx != nil {
		q = tx
	}
	return &Store{
		db:           db,
		tx:           tx,
		users:        NewUserRepository(q),
		workspaces:   NewWorkspaceRepository(q),
		customers:    NewCustomerRepository(q),
		teamMembers:  NewTeamMemberRepository(q),
		invites:      NewInviteRepository(q),
		projects:     NewProjectRepository(q),
		sections:     NewSectionRepository(q),
		tasks:        NewTaskRepository(q),
		subTasks:     NewSubTaskRepository(q),
		labels:       NewLabelRepository(q),
		chatMessages: NewChatMessageRepository(q),
		quotas:       NewQuotaRepository(q),
	}
}

// Atomic runs fn against a transaction-bound Store. A nested call on an
// already transaction-bound store joins the ambient transaction instead of
// opening a new one.
func (s *Store) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newStore(s.db, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Users() domain.UserRepository               { return s.users }
func (s *Store) Workspaces() domain.WorkspaceRepository     { return s.workspaces }
func (s *Store) Customers() domain.CustomerRepository       { return s.customers }
func (s *Store) TeamMembers() domain.TeamMemberRepository   { return s.teamMembers }
func (s *Store) Invites() domain.InviteRepository           { return s.invites }
func (s *Store) Projects() domain.ProjectRepository         { return s.projects }
func (s *Store) Sections() domain.SectionRepository         { return s.sections }
func (s *Store) Tasks() domain.TaskRepository               { return s.tasks }
func (s *Store) SubTasks() domain.SubTaskRepository         { return s.subTasks }
func (s *Store) Labels() domain.LabelRepository             { return s.labels }
func (s *Store) ChatMessages() domain.ChatMessageRepository { return s.chatMessages }
func (s *Store) Quotas() domain.QuotaRepository             { return s.quotas }
