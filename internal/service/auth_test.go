package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwpconsulting/projectify/internal/domain"
	"github.com/jwpconsulting/projectify/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newJWT() *security.JWTManager {
	return security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email is rejected", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, newJWT())

		store.users.On("EmailExists", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.Register(ctx, domain.UserCreate{
			Email:    "taken@example.com",
			Password: "hunter22",
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		store.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("registration redeems waiting invites", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, newJWT())

		email := "invited@example.com"
		invite := domain.TeamMemberInvite{ID: uuid.New(), WorkspaceID: uuid.New(), Email: email}

		store.users.On("EmailExists", ctx, email).Return(false, nil)
		store.users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			// The password is stored hashed, never verbatim.
			return u.Email == email && u.PasswordHash != "hunter22"
		})).Return(nil)
		store.invites.On("ListPendingByEmail", ctx, email).Return([]domain.TeamMemberInvite{invite}, nil)
		store.invites.On("Redeem", ctx, invite.ID, mock.AnythingOfType("time.Time")).Return(true, nil)
		store.teamMembers.On("Create", ctx, mock.MatchedBy(func(m *domain.TeamMember) bool {
			return m.WorkspaceID == invite.WorkspaceID && m.Role == domain.RoleObserver
		})).Return(nil)

		user, err := svc.Register(ctx, domain.UserCreate{
			Email:    email,
			Password: "hunter22",
		})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))
		store.teamMembers.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}

	t.Run("valid credentials", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, newJWT())
		store.users.On("GetByEmail", ctx, user.Email).Return(user, nil)

		pair, err := svc.Login(ctx, domain.UserLogin{Email: user.Email, Password: "hunter22"})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, newJWT())
		store.users.On("GetByEmail", ctx, user.Email).Return(user, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: user.Email, Password: "wrong"})
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, newJWT())
		store.users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "nobody@example.com", Password: "hunter22"})
		var authErr *domain.AuthorizationError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	jwt := newJWT()

	t.Run("valid refresh token", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, jwt)

		user := &domain.User{ID: uuid.New(), Email: "user@example.com"}
		refreshToken, err := jwt.GenerateRefreshToken(user.ID)
		require.NoError(t, err)
		store.users.On("GetByID", ctx, user.ID).Return(user, nil)

		pair, err := svc.Refresh(ctx, refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		store := newMockStore()
		svc := NewAuthService(store, jwt)

		_, err := svc.Refresh(ctx, "not-a-token")
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})
}
