package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course_insights/internal/model"
	"course_insights/internal/repository"
	"course_insights/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrForbidden          = errors.New("forbidden: user does not have permission for this action")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// TokenIssuer signs session tokens for a user id
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID) (string, error)
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	CreateAdmin(ctx context.Context, caller *model.User, username, password string) (*model.User, error)
	SeedAdmin(ctx context.Context, username, password string) (*model.User, bool, error)
	ResolveIdentity(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	tokens       TokenIssuer
	initialAdmin string
	log          *zap.Logger
}

// NewAuthService creates a new AuthService. Registering initialAdmin (when
// non-empty) yields an admin account, which bootstraps the first admin.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, initialAdmin string, log *zap.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokens:       tokens,
		initialAdmin: initialAdmin,
		log:          log,
	}
}

// Register creates a new user account and issues a token for it
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	role := model.RoleUser
	if s.initialAdmin != "" && username == s.initialAdmin {
		role = model.RoleAdmin
		s.log.Info("registering initial admin", zap.String("username", username))
	}

	// The token is signed before the insert so a signing failure leaves no account behind.
	id := uuid.New()
	token, err := s.tokens.GenerateToken(id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user, err := s.createUser(ctx, id, username, password, role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and returns a fresh token
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil {
		utils.BurnPasswordCheck(password)
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// ChangePassword replaces the password after verifying the old one.
// Previously issued tokens stay valid until they expire.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user for password change: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return ErrInvalidOldPassword
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

// CreateAdmin lets an existing admin create another admin account
func (s *authService) CreateAdmin(ctx context.Context, caller *model.User, username, password string) (*model.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	user, err := s.createUser(ctx, uuid.New(), username, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin created", zap.String("username", username), zap.String("created_by", caller.Username))
	return user, nil
}

// SeedAdmin creates an admin account unless the username is already taken.
// The boolean reports whether a new account was created.
func (s *authService) SeedAdmin(ctx context.Context, username, password string) (*model.User, bool, error) {
	user, err := s.createUser(ctx, uuid.New(), username, password, model.RoleAdmin)
	if errors.Is(err, ErrUserAlreadyExists) {
		existing, findErr := s.userRepo.FindByUsername(ctx, username)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to load existing admin: %w", findErr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// ResolveIdentity maps a token subject to a live user without its password hash
func (s *authService) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Identity(), nil
}

// createUser runs the existence check, hashes the password and inserts the
// record. A concurrent insert that wins the race surfaces as the unique
// constraint violation and is reported the same way.
func (s *authService) createUser(ctx context.Context, id uuid.UUID, username, password, role string) (*model.User, error) {
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           id,
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := utils.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}
