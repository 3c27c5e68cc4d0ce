package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/gatehouse/internal/auth"
	"github.com/BradenHooton/gatehouse/internal/models"
	pkgauth "github.com/BradenHooton/gatehouse/pkg/auth"
	"github.com/google/uuid"
)

// UserRepository defines the credential store operations the service needs
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
}

// SessionRepository defines the session store operations the service needs
type SessionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Session, error)
	Create(ctx context.Context, userID string) (*models.Session, error)
	DeleteByUserID(ctx context.Context, userID string) error
	Replace(ctx context.Context, userID string) (*models.Session, error)
}

// notifyTimeout bounds the detached email dispatch, which outlives the request
const notifyTimeout = 30 * time.Second

// IdentityService implements the registration, verification, login and logout
// state transitions over the User and Session records.
type IdentityService struct {
	users    UserRepository
	sessions SessionRepository
	tokens   *auth.TokenManager
	notifier Notifier
	logger   *slog.Logger
}

func NewIdentityService(
	users UserRepository,
	sessions SessionRepository,
	tokens *auth.TokenManager,
	notifier Notifier,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterInput carries the required registration fields
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult is what a successful login hands back to the handler
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Register creates an unverified user, stores a fresh verification token on it
// and dispatches the verification email without waiting for delivery.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The id is minted here so the verification token can name the user
	// before the row exists.
	id := uuid.New().String()
	token, err := s.tokens.SignVerification(id)
	if err != nil {
		return nil, fmt.Errorf("failed to sign verification token: %w", err)
	}

	user := &models.User{
		ID:           id,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		PendingToken: &token,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Lost a race with a concurrent registration for the same email
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.dispatchVerification(token, created.Email)

	s.logger.Info("user registered", slog.String("user_id", created.ID))
	return created, nil
}

// Verify confirms a user's email from a bearer token. The token must decode,
// be unexpired, resolve to a user, and match that user's stored pending
// token; replaying a consumed token fails.
func (s *IdentityService) Verify(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		// ErrTokenExpired and ErrUnauthorized pass through for the handler split
		return err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.PendingToken == nil || *user.PendingToken != rawToken {
		s.logger.Info("verification rejected: token does not match pending token",
			slog.String("user_id", user.ID))
		return models.ErrUnauthorized
	}

	user.PendingToken = nil
	user.Verified = true

	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	s.logger.Info("email verified", slog.String("user_id", user.ID))
	return nil
}

// ReVerify mints a fresh verification token for an existing account and
// re-sends the email. The token is returned so the handler can echo it in the
// response body, which the current API contract requires.
func (s *IdentityService) ReVerify(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.tokens.SignVerification(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	user.PendingToken = &token
	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return "", fmt.Errorf("failed to store pending token: %w", err)
	}

	s.dispatchVerification(token, user.Email)

	s.logger.Info("verification email re-issued", slog.String("user_id", user.ID))
	return token, nil
}

// Login checks credentials and verification state, issues the access/refresh
// token pair and replaces the user's session.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials", slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	if !user.Verified {
		s.logger.Info("login blocked: email not verified", slog.String("user_id", user.ID))
		return nil, models.ErrEmailNotVerified
	}

	accessToken, err := s.tokens.SignAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.tokens.SignRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	user.LoggedIn = true
	updated, err := s.users.Update(ctx, user.ID, user)
	if err != nil {
		return nil, fmt.Errorf("failed to mark user logged in: %w", err)
	}

	if _, err := s.sessions.Replace(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to replace session: %w", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return &LoginResult{
		User:         updated,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the logged-in flag and removes the user's session. Any token
// decode failure collapses to unauthorized; there is no expired/invalid split
// here.
func (s *IdentityService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return models.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	user.LoggedIn = false
	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		return fmt.Errorf("failed to mark user logged out: %w", err)
	}

	if err := s.sessions.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("user logged out", slog.String("user_id", user.ID))
	return nil
}

// dispatchVerification sends the verification email on a detached goroutine.
// Delivery success or failure never reaches the caller; failures are only
// observable in the log.
func (s *IdentityService) dispatchVerification(token, email string) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.Send(ctx, token, email); err != nil {
			s.logger.Error("failed to send verification email",
				slog.String("email", email),
				slog.Any("error", err))
		}
	}()
}
