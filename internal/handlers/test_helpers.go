package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/gatehouse/internal/models"
	"github.com/BradenHooton/gatehouse/internal/services"
	pkghttp "github.com/BradenHooton/gatehouse/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with a JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks status and decodes the JSON body into target
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertFailureEnvelope checks status plus the {success:false, message} shape
func AssertFailureEnvelope(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.False(t, resp.Success)
	assert.Equal(t, expectedMessage, resp.Message)
}

// AssertSuccessEnvelope checks status plus the {success:true, message} shape
func AssertSuccessEnvelope(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode response")
	assert.True(t, resp.Success)
	assert.Equal(t, expectedMessage, resp.Message)
}

// MockIdentityService implements IdentityServiceInterface for testing
type MockIdentityService struct {
	RegisterFunc func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	VerifyFunc   func(ctx context.Context, rawToken string) error
	ReVerifyFunc func(ctx context.Context, email string) (string, error)
	LoginFunc    func(ctx context.Context, email, password string) (*services.LoginResult, error)
	LogoutFunc   func(ctx context.Context, rawToken string) error
}

func (m *MockIdentityService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, in)
}

func (m *MockIdentityService) Verify(ctx context.Context, rawToken string) error {
	if m.VerifyFunc == nil {
		return models.ErrUnauthorized
	}
	return m.VerifyFunc(ctx, rawToken)
}

func (m *MockIdentityService) ReVerify(ctx context.Context, email string) (string, error) {
	if m.ReVerifyFunc == nil {
		return "", models.ErrNotFound
	}
	return m.ReVerifyFunc(ctx, email)
}

func (m *MockIdentityService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockIdentityService) Logout(ctx context.Context, rawToken string) error {
	if m.LogoutFunc == nil {
		return models.ErrUnauthorized
	}
	return m.LogoutFunc(ctx, rawToken)
}
