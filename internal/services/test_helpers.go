package services

import (
	"context"
	"time"

	"github.com/BradenHooton/gatehouse/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc     func(ctx context.Context, id string, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	GetByUserIDFunc    func(ctx context.Context, userID string) (*models.Session, error)
	CreateFunc         func(ctx context.Context, userID string) (*models.Session, error)
	DeleteByUserIDFunc func(ctx context.Context, userID string) error
	ReplaceFunc        func(ctx context.Context, userID string) (*models.Session, error)
}

func (m *MockSessionRepository) GetByUserID(ctx context.Context, userID string) (*models.Session, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockSessionRepository) Create(ctx context.Context, userID string) (*models.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID)
	}
	return &models.Session{ID: "session_123", UserID: userID, CreatedAt: time.Now()}, nil
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if m.DeleteByUserIDFunc != nil {
		return m.DeleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *MockSessionRepository) Replace(ctx context.Context, userID string) (*models.Session, error) {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, userID)
	}
	return &models.Session{ID: "session_123", UserID: userID, CreatedAt: time.Now()}, nil
}

// MockNotifier records dispatched verification emails
type MockNotifier struct {
	SendFunc func(ctx context.Context, token, email string) error
}

func (m *MockNotifier) Send(ctx context.Context, token, email string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, token, email)
	}
	return nil
}

// NewTestUser builds a user with sensible defaults for tests
func NewTestUser(id, email, firstName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		FirstName: firstName,
		LastName:  "Tester",
		Email:     email,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
