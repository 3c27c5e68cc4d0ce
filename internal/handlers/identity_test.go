package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/gatehouse/internal/handlers"
	"github.com/BradenHooton/gatehouse/internal/models"
	"github.com/BradenHooton/gatehouse/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	token := "pending-token"
	now := time.Now()
	return &models.User{
		ID:           "user123",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         models.RoleUser,
		PendingToken: &token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ============================================================================
// Register
// ============================================================================

func TestRegister_Success(t *testing.T) {
	mock := &handlers.MockIdentityService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			assert.Equal(t, "ada@example.com", in.Email)
			return testUser(), nil
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/register", handlers.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com", // normalized before the service sees it
		Password:  "Password1!",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp handlers.RegisterResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, "user123", resp.User.ID)
	assert.False(t, resp.User.IsVerified)
	require.NotNil(t, resp.User.Token)
}

func TestRegister_MissingFields(t *testing.T) {
	handler := handlers.NewIdentityHandler(&handlers.MockIdentityService{})

	cases := []handlers.RegisterRequest{
		{LastName: "Lovelace", Email: "ada@example.com", Password: "Password1!"},
		{FirstName: "Ada", Email: "ada@example.com", Password: "Password1!"},
		{FirstName: "Ada", LastName: "Lovelace", Password: "Password1!"},
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	}

	for _, body := range cases {
		req := handlers.NewTestRequest(t, "POST", "/api/v1/user/register", body)
		w := httptest.NewRecorder()
		handler.Register(w, req)

		handlers.AssertFailureEnvelope(t, w, 400, "All fields are required")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mock := &handlers.MockIdentityService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/register", handlers.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "Password1!",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertFailureEnvelope(t, w, 409, "User already exists")
}

func TestRegister_ServiceFailure(t *testing.T) {
	mock := &handlers.MockIdentityService{
		RegisterFunc: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
			return nil, assert.AnError
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/register", handlers.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "Password1!",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertFailureEnvelope(t, w, 500, "Server error")
}

// ============================================================================
// Verify
// ============================================================================

func TestVerify_Success(t *testing.T) {
	mock := &handlers.MockIdentityService{
		VerifyFunc: func(ctx context.Context, rawToken string) error {
			assert.Equal(t, "token123", rawToken)
			return nil
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/verify", nil)
	req.Header.Set("Authorization", "Bearer token123")

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	handlers.AssertSuccessEnvelope(t, w, 200, "Email verified successfully")
}

func TestVerify_MissingAuthorizationHeader(t *testing.T) {
	handler := handlers.NewIdentityHandler(&handlers.MockIdentityService{})

	for _, header := range []string{"", "token123", "Basic abc", "Bearer "} {
		req := handlers.NewTestRequest(t, "POST", "/api/v1/user/verify", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		w := httptest.NewRecorder()
		handler.Verify(w, req)

		handlers.AssertFailureEnvelope(t, w, 401, "Authorization header missing")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	mock := &handlers.MockIdentityService{
		VerifyFunc: func(ctx context.Context, rawToken string) error {
			return models.ErrTokenExpired
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/verify", nil)
	req.Header.Set("Authorization", "Bearer expired")

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	handlers.AssertFailureEnvelope(t, w, 401, "Token has expired")
}

func TestVerify_InvalidToken(t *testing.T) {
	mock := &handlers.MockIdentityService{
		VerifyFunc: func(ctx context.Context, rawToken string) error {
			return models.ErrUnauthorized
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/verify", nil)
	req.Header.Set("Authorization", "Bearer invalid")

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	handlers.AssertFailureEnvelope(t, w, 401, "Token verification failed")
}

func TestVerify_UnknownUser(t *testing.T) {
	mock := &handlers.MockIdentityService{
		VerifyFunc: func(ctx context.Context, rawToken string) error {
			return models.ErrNotFound
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/verify", nil)
	req.Header.Set("Authorization", "Bearer orphaned")

	w := httptest.NewRecorder()
	handler.Verify(w, req)

	handlers.AssertFailureEnvelope(t, w, 404, "User not found")
}

// ============================================================================
// ReVerify
// ============================================================================

func TestReVerify_Success(t *testing.T) {
	mock := &handlers.MockIdentityService{
		ReVerifyFunc: func(ctx context.Context, email string) (string, error) {
			assert.Equal(t, "ada@example.com", email)
			return "fresh-token", nil
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/reverify", handlers.ReVerifyRequest{
		Email: "ada@example.com",
	})

	w := httptest.NewRecorder()
	handler.ReVerify(w, req)

	var resp handlers.ReVerifyResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Verification email sent", resp.Message)
	assert.Equal(t, "fresh-token", resp.Token)
}

func TestReVerify_UnknownEmail(t *testing.T) {
	handler := handlers.NewIdentityHandler(&handlers.MockIdentityService{})
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/reverify", handlers.ReVerifyRequest{
		Email: "ghost@example.com",
	})

	w := httptest.NewRecorder()
	handler.ReVerify(w, req)

	handlers.AssertFailureEnvelope(t, w, 404, "User not found")
}

// ============================================================================
// Login
// ============================================================================

func TestLogin_Success(t *testing.T) {
	user := testUser()
	user.Verified = true
	user.LoggedIn = true

	mock := &handlers.MockIdentityService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
			return &services.LoginResult{
				User:         user,
				AccessToken:  "access_token_123",
				RefreshToken: "refresh_token_123",
			}, nil
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/login", handlers.LoginRequest{
		Email:    "ada@example.com",
		Password: "Password1!",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp handlers.LoginResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Welcome back, Ada", resp.Message)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, "refresh_token_123", resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.True(t, resp.User.IsLoggedIn)
}

func TestLogin_MissingFields(t *testing.T) {
	handler := handlers.NewIdentityHandler(&handlers.MockIdentityService{})

	cases := []handlers.LoginRequest{
		{Password: "Password1!"},
		{Email: "ada@example.com"},
		{},
	}

	for _, body := range cases {
		req := handlers.NewTestRequest(t, "POST", "/api/v1/user/login", body)
		w := httptest.NewRecorder()
		handler.Login(w, req)

		handlers.AssertFailureEnvelope(t, w, 400, "Email and password are required")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	mock := &handlers.MockIdentityService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/login", handlers.LoginRequest{
		Email:    "ghost@example.com",
		Password: "Password1!",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertFailureEnvelope(t, w, 404, "User not found")
}

func TestLogin_WrongPassword(t *testing.T) {
	mock := &handlers.MockIdentityService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
			return nil, models.ErrUnauthorized
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/login", handlers.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertFailureEnvelope(t, w, 401, "Invalid password")
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	mock := &handlers.MockIdentityService{
		LoginFunc: func(ctx context.Context, email, password string) (*services.LoginResult, error) {
			return nil, models.ErrEmailNotVerified
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/login", handlers.LoginRequest{
		Email:    "ada@example.com",
		Password: "Password1!",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	handlers.AssertFailureEnvelope(t, w, 403, "Email not verified")
}

// ============================================================================
// Logout
// ============================================================================

func TestLogout_Success(t *testing.T) {
	mock := &handlers.MockIdentityService{
		LogoutFunc: func(ctx context.Context, rawToken string) error {
			assert.Equal(t, "token123", rawToken)
			return nil
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/logout", nil)
	req.Header.Set("Authorization", "Bearer token123")

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertSuccessEnvelope(t, w, 200, "Logged out successfully")
}

func TestLogout_MissingHeader(t *testing.T) {
	handler := handlers.NewIdentityHandler(&handlers.MockIdentityService{})
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/logout", nil)

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertFailureEnvelope(t, w, 401, "Authorization header missing")
}

func TestLogout_BadToken(t *testing.T) {
	mock := &handlers.MockIdentityService{
		LogoutFunc: func(ctx context.Context, rawToken string) error {
			return models.ErrUnauthorized
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/logout", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertFailureEnvelope(t, w, 401, "Token verification failed")
}

func TestLogout_UnknownUser(t *testing.T) {
	mock := &handlers.MockIdentityService{
		LogoutFunc: func(ctx context.Context, rawToken string) error {
			return models.ErrNotFound
		},
	}

	handler := handlers.NewIdentityHandler(mock)
	req := handlers.NewTestRequest(t, "POST", "/api/v1/user/logout", nil)
	req.Header.Set("Authorization", "Bearer token123")

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	handlers.AssertFailureEnvelope(t, w, 404, "User not found")
}
