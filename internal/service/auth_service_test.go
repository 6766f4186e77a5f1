package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"course_insights/internal/model"
	"course_insights/internal/repository"
	"course_insights/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(repo *mockUserRepository) (AuthService, *utils.JWTUtil) {
	jwtUtil := utils.NewJWTUtil("test-secret", time.Hour)
	return NewAuthService(repo, jwtUtil, "", zap.NewNop()), jwtUtil
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepository()
	svc, jwtUtil := newTestAuthService(repo)

	user, token, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "pw1", repo.storedHash("alice"))
	assert.True(t, utils.CheckPasswordHash("pw1", repo.storedHash("alice")))

	claims, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)

	_, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "alice", "pw2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, 1, repo.count())
	assert.True(t, utils.CheckPasswordHash("pw1", repo.storedHash("alice")))
}

func TestAuthService_Register_UsernameIsCaseSensitive(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)

	_, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	_, _, err = svc.Register(context.Background(), "Alice", "pw1")
	assert.NoError(t, err)
	assert.Equal(t, 2, repo.count())
}

func TestAuthService_Register_LostRace(t *testing.T) {
	repo := &raceUserRepository{mockUserRepository: newMockUserRepository()}
	svc := NewAuthService(repo, utils.NewJWTUtil("test-secret", time.Hour), "", zap.NewNop())

	_, _, err := svc.Register(context.Background(), "bob", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Register_InitialAdmin(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, utils.NewJWTUtil("s", time.Hour), "root", zap.NewNop())

	admin, _, err := svc.Register(context.Background(), "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	user, _, err := svc.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestAuthService_Register_RepoError(t *testing.T) {
	repo := newMockUserRepository()
	repo.createError = errors.New("db down")
	svc, _ := newTestAuthService(repo)

	_, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepository()
	svc, jwtUtil := newTestAuthService(repo)
	registered, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, token, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.String(), claims.Subject)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(newMockUserRepository())

	_, _, err := svc.Login(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repo := newMockUserRepository()
	repo.findError = errors.New("db down")
	svc, _ := newTestAuthService(repo)

	_, _, err := svc.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	user, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	originalHash := repo.storedHash("alice")

	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "pw2")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)
	assert.Equal(t, originalHash, repo.storedHash("alice"))

	err = svc.ChangePassword(context.Background(), user.ID, "pw1", "pw2")
	require.NoError(t, err)
	assert.NotEqual(t, "pw2", repo.storedHash("alice"))

	_, _, err = svc.Login(context.Background(), "alice", "pw2")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "alice", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword_SamePasswordAllowed(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	user, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	assert.NoError(t, svc.ChangePassword(context.Background(), user.ID, "pw1", "pw1"))
}

func TestAuthService_CreateAdmin(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	admin := &model.User{ID: uuid.New(), Username: "root", Role: model.RoleAdmin}

	created, err := svc.CreateAdmin(context.Background(), admin, "ops", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, created.Role)
	assert.Equal(t, "ops", created.Username)

	_, _, err = svc.Login(context.Background(), "ops", "secret")
	assert.NoError(t, err)
}

func TestAuthService_CreateAdmin_ForbiddenForUsers(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	caller := &model.User{ID: uuid.New(), Username: "alice", Role: model.RoleUser}

	for _, payload := range [][2]string{{"ops", "secret"}, {"", ""}, {"alice", "x"}} {
		_, err := svc.CreateAdmin(context.Background(), caller, payload[0], payload[1])
		assert.ErrorIs(t, err, ErrForbidden)
	}
	_, err := svc.CreateAdmin(context.Background(), nil, "ops", "secret")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, repo.count())
}

func TestAuthService_CreateAdmin_Conflict(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	_, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	admin := &model.User{ID: uuid.New(), Username: "root", Role: model.RoleAdmin}

	_, err = svc.CreateAdmin(context.Background(), admin, "alice", "secret")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_SeedAdmin(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)

	admin, created, err := svc.SeedAdmin(context.Background(), "Admin", "p")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	again, created, err := svc.SeedAdmin(context.Background(), "Admin", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.True(t, utils.CheckPasswordHash("p", repo.storedHash("Admin")))
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	user, _, err := svc.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	identity, err := svc.ResolveIdentity(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Empty(t, identity.PasswordHash)

	_, err = svc.ResolveIdentity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// raceUserRepository reports no existing user but then rejects the insert,
// as happens when a concurrent registration wins.
type raceUserRepository struct {
	*mockUserRepository
}

func (r *raceUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func (r *raceUserRepository) Create(ctx context.Context, user *model.User) error {
	return fmt.Errorf("insert user: %w", repository.ErrDuplicateUsername)
}

type failingTokenIssuer struct{}

func (failingTokenIssuer) GenerateToken(uuid.UUID) (string, error) {
	return "", errors.New("signing key unavailable")
}

func TestAuthService_Register_TokenFailureCreatesNoAccount(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, failingTokenIssuer{}, "", zap.NewNop())

	user, token, err := svc.Register(context.Background(), "alice", "pw1")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.Equal(t, 0, repo.count())
}

func TestAuthService_PasswordTooLong(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	tooLong := strings.Repeat("a", 73)

	_, _, err := svc.Register(context.Background(), "alice", tooLong)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, 0, repo.count())

	admin := &model.User{ID: uuid.New(), Username: "root", Role: model.RoleAdmin}
	_, err = svc.CreateAdmin(context.Background(), admin, "ops", tooLong)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	user, _, err := svc.Register(context.Background(), "bob", strings.Repeat("b", 72))
	require.NoError(t, err)
	hash := repo.storedHash("bob")

	err = svc.ChangePassword(context.Background(), user.ID, strings.Repeat("b", 72), tooLong)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Equal(t, hash, repo.storedHash("bob"))
}
