package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/BradenHooton/gatehouse/internal/models"
	"github.com/BradenHooton/gatehouse/internal/services"
	pkghttp "github.com/BradenHooton/gatehouse/pkg/http"
)

// IdentityServiceInterface defines the identity business logic the handler calls
type IdentityServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Verify(ctx context.Context, rawToken string) error
	ReVerify(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
}

// IdentityHandler handles the /user endpoints
type IdentityHandler struct {
	service IdentityServiceInterface
}

func NewIdentityHandler(service IdentityServiceInterface) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Request DTOs

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type ReVerifyRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the user record as serialized on the wire. The password
// hash travels in the body because existing clients read it; a known wart of
// the inherited contract.
type UserResponse struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	Token        *string `json:"token"`
	IsVerified   bool    `json:"isVerified"`
	IsLoggedIn   bool    `json:"isLoggedIn"`
	ProfilePic   string  `json:"profilePic"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	ZipCode      *string `json:"zipCode,omitempty"`
	PhoneNo      *string `json:"phoneNo,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func userToResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Password:   u.PasswordHash,
		Role:       u.Role,
		Token:      u.PendingToken,
		IsVerified: u.Verified,
		IsLoggedIn: u.LoggedIn,
		ProfilePic: u.ProfilePic,
		Address:    u.Address,
		City:       u.City,
		ZipCode:    u.ZipCode,
		PhoneNo:    u.PhoneNo,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}

// Response DTOs

type RegisterResponse struct {
	pkghttp.Response
	User *UserResponse `json:"user"`
}

type ReVerifyResponse struct {
	pkghttp.Response
	Token string `json:"token"`
}

type LoginResponse struct {
	pkghttp.Response
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. ok is false for a missing or malformed header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// Register handles POST /register
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "All fields are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteConflict(w, "User already exists")
			return
		}
		pkghttp.WriteInternalError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Response: pkghttp.Response{Success: true, Message: "User registered successfully"},
		User:     userToResponse(user),
	})
}

// Verify handles POST /verify
func (h *IdentityHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authorization header missing")
		return
	}

	if err := h.service.Verify(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, models.ErrTokenExpired):
			pkghttp.WriteUnauthorized(w, "Token has expired")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Token verification failed")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, err)
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Email verified successfully")
}

// ReVerify handles POST /reverify
func (h *IdentityHandler) ReVerify(w http.ResponseWriter, r *http.Request) {
	var req ReVerifyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	token, err := h.service.ReVerify(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ReVerifyResponse{
		Response: pkghttp.Response{Success: true, Message: "Verification email sent"},
		Token:    token,
	})
}

// Login handles POST /login
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Email and password are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid password")
		case errors.Is(err, models.ErrEmailNotVerified):
			pkghttp.WriteForbidden(w, "Email not verified")
		default:
			pkghttp.WriteInternalError(w, err)
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Response: pkghttp.Response{
			Success: true,
			Message: "Welcome back, " + result.User.FirstName,
		},
		User:         userToResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Logout handles POST /logout. The handler is implemented and covered by
// tests but the route is not registered; see routes.RegisterRoutes.
func (h *IdentityHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authorization header missing")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrTokenExpired):
			pkghttp.WriteUnauthorized(w, "Token verification failed")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, err)
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Logged out successfully")
}
