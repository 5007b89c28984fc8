package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/stretchr/testify/mock"
)

// mockStore satisfies domain.Store over per-repository mocks. Atomic runs the
// callback against the store itself, which is what the real implementation
// does with a transaction-bound copy.
type mockStore struct {
	users       *MockUserRepository
	workspaces  *MockWorkspaceRepository
	customers   *MockCustomerRepository
	teamMembers *MockTeamMemberRepository
	invites     *MockInviteRepository
	projects    *MockProjectRepository
	sections    *MockSectionRepository
	tasks       *MockTaskRepository
	subTasks    *MockSubTaskRepository
	labels      *MockLabelRepository
	chat        *MockChatMessageRepository
	quotas      *MockQuotaRepository
}

func newMockStore() *mockStore {
	return &mockStore{
		users:       new(MockUserRepository),
		workspaces:  new(MockWorkspaceRepository),
		customers:   new(MockCustomerRepository),
		teamMembers: new(MockTeamMemberRepository),
		invites:     new(MockInviteRepository),
		projects:    new(MockProjectRepository),
		sections:    new(MockSectionRepository),
		tasks:       new(MockTaskRepository),
		subTasks:    new(MockSubTaskRepository),
		labels:      new(MockLabelRepository),
		chat:        new(MockChatMessageRepository),
		quotas:      new(MockQuotaRepository),
	}
}

func (s *mockStore) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	return fn(s)
}

func (s *mockStore) Users() domain.UserRepository               { return s.users }
func (s *mockStore) Workspaces() domain.WorkspaceRepository     { return s.workspaces }
func (s *mockStore) Customers() domain.CustomerRepository       { return s.customers }
func (s *mockStore) TeamMembers() domain.TeamMemberRepository   { return s.teamMembers }
func (s *mockStore) Invites() domain.InviteRepository           { return s.invites }
func (s *mockStore) Projects() domain.ProjectRepository         { return s.projects }
func (s *mockStore) Sections() domain.SectionRepository         { return s.sections }
func (s *mockStore) Tasks() domain.TaskRepository               { return s.tasks }
func (s *mockStore) SubTasks() domain.SubTaskRepository         { return s.subTasks }
func (s *mockStore) Labels() domain.LabelRepository             { return s.labels }
func (s *mockStore) ChatMessages() domain.ChatMessageRepository { return s.chat }
func (s *mockStore) Quotas() domain.QuotaRepository             { return s.quotas }

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockWorkspaceRepository mocks the WorkspaceRepository interface
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) NextTaskNumber(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockCustomerRepository mocks the CustomerRepository interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.Customer, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, workspaceID uuid.UUID, update *domain.CustomerUpdate) error {
	args := m.Called(ctx, workspaceID, update)
	return args.Error(0)
}

// MockTeamMemberRepository mocks the TeamMemberRepository interface
type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.TeamMember, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.TeamMember, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.TeamMember), args.Error(1)
}

func (m *MockTeamMemberRepository) Update(ctx context.Context, id uuid.UUID, update *domain.TeamMemberUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) UpdatePrefs(ctx context.Context, id uuid.UUID, prefs *domain.TeamMemberPrefsUpdate) error {
	args := m.Called(ctx, id, prefs)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamMemberRepository) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

// MockInviteRepository mocks the InviteRepository interface
type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) GetUserInviteByEmail(ctx context.Context, email string) (*domain.UserInvite, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserInvite), args.Error(1)
}

func (m *MockInviteRepository) CreateUserInvite(ctx context.Context, invite *domain.UserInvite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockInviteRepository) CreateTeamMemberInvite(ctx context.Context, invite *domain.TeamMemberInvite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockInviteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMemberInvite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMemberInvite), args.Error(1)
}

func (m *MockInviteRepository) GetPendingByWorkspaceAndEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*domain.TeamMemberInvite, error) {
	args := m.Called(ctx, workspaceID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMemberInvite), args.Error(1)
}

func (m *MockInviteRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.TeamMemberInvite, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.TeamMemberInvite), args.Error(1)
}

func (m *MockInviteRepository) CountPendingByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

func (m *MockInviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInviteRepository) Redeem(ctx context.Context, id uuid.UUID, when time.Time) (bool, error) {
	args := m.Called(ctx, id, when)
	return args.Bool(0), args.Error(1)
}

// MockProjectRepository mocks the ProjectRepository interface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, includeArchived bool) ([]domain.Project, error) {
	args := m.Called(ctx, workspaceID, includeArchived)
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ProjectUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockProjectRepository) SetArchived(ctx context.Context, id uuid.UUID, archived *time.Time) error {
	args := m.Called(ctx, id, archived)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

// MockSectionRepository mocks the SectionRepository interface
type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) Create(ctx context.Context, section *domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Section), args.Error(1)
}

func (m *MockSectionRepository) GetWorkspaceID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSectionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Section, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]domain.Section), args.Error(1)
}

func (m *MockSectionRepository) Update(ctx context.Context, id uuid.UUID, update *domain.SectionUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockSectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSectionRepository) LockSiblings(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSectionRepository) SetPositions(ctx context.Context, projectID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, projectID, ids)
	return args.Error(0)
}

func (m *MockSectionRepository) SetParent(ctx context.Context, id, projectID uuid.UUID) error {
	args := m.Called(ctx, id, projectID)
	return args.Error(0)
}

// MockTaskRepository mocks the TaskRepository interface
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) GetWorkspaceID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTaskRepository) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.Task, error) {
	args := m.Called(ctx, sectionID)
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uuid.UUID, update *domain.TaskUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) AddLabel(ctx context.Context, taskID, labelID uuid.UUID) error {
	args := m.Called(ctx, taskID, labelID)
	return args.Error(0)
}

func (m *MockTaskRepository) RemoveLabel(ctx context.Context, taskID, labelID uuid.UUID) error {
	args := m.Called(ctx, taskID, labelID)
	return args.Error(0)
}

func (m *MockTaskRepository) ListLabels(ctx context.Context, taskID uuid.UUID) ([]domain.Label, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.Label), args.Error(1)
}

func (m *MockTaskRepository) LockSiblings(ctx context.Context, sectionID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, sectionID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTaskRepository) SetPositions(ctx context.Context, sectionID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, sectionID, ids)
	return args.Error(0)
}

func (m *MockTaskRepository) SetParent(ctx context.Context, id, sectionID uuid.UUID) error {
	args := m.Called(ctx, id, sectionID)
	return args.Error(0)
}

// MockSubTaskRepository mocks the SubTaskRepository interface
type MockSubTaskRepository struct {
	mock.Mock
}

func (m *MockSubTaskRepository) Create(ctx context.Context, subTask *domain.SubTask) error {
	args := m.Called(ctx, subTask)
	return args.Error(0)
}

func (m *MockSubTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SubTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]domain.SubTask, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) Update(ctx context.Context, id uuid.UUID, update *domain.SubTaskUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockSubTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubTaskRepository) DeleteNotIn(ctx context.Context, taskID uuid.UUID, keep []uuid.UUID) (int64, error) {
	args := m.Called(ctx, taskID, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubTaskRepository) BulkUpdate(ctx context.Context, subTasks []domain.SubTask) error {
	args := m.Called(ctx, subTasks)
	return args.Error(0)
}

func (m *MockSubTaskRepository) LockSiblings(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSubTaskRepository) SetPositions(ctx context.Context, taskID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, taskID, ids)
	return args.Error(0)
}

func (m *MockSubTaskRepository) SetParent(ctx context.Context, id, taskID uuid.UUID) error {
	args := m.Called(ctx, id, taskID)
	return args.Error(0)
}

// MockLabelRepository mocks the LabelRepository interface
type MockLabelRepository struct {
	mock.Mock
}

func (m *MockLabelRepository) Create(ctx context.Context, label *domain.Label) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *MockLabelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Label), args.Error(1)
}

func (m *MockLabelRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Label, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Label), args.Error(1)
}

func (m *MockLabelRepository) ListByIDsInWorkspace(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID) ([]domain.Label, error) {
	args := m.Called(ctx, workspaceID, ids)
	return args.Get(0).([]domain.Label), args.Error(1)
}

func (m *MockLabelRepository) Update(ctx context.Context, id uuid.UUID, update *domain.LabelUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockLabelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChatMessageRepository mocks the ChatMessageRepository interface
type MockChatMessageRepository struct {
	mock.Mock
}

func (m *MockChatMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatMessageRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

// MockQuotaRepository mocks the QuotaRepository interface
type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) Count(ctx context.Context, workspaceID uuid.UUID, resource domain.Resource) (int, error) {
	args := m.Called(ctx, workspaceID, resource)
	return args.Int(0), args.Error(1)
}
