package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/gatehouse/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload carried by every token this service signs. The user
// id travels in the "id" claim for compatibility with existing clients.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the HS256 tokens used for email
// verification, access and refresh credentials.
type TokenManager struct {
	secret               string
	verificationTokenTTL time.Duration
	accessTokenTTL       time.Duration
	refreshTokenTTL      time.Duration
}

func NewTokenManager(secret string, verificationTTL, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:               secret,
		verificationTokenTTL: verificationTTL,
		accessTokenTTL:       accessTTL,
		refreshTokenTTL:      refreshTTL,
	}
}

// Sign creates a token naming userID, valid for ttl from now.
func (tm *TokenManager) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// SignVerification mints an email verification token.
func (tm *TokenManager) SignVerification(userID string) (string, error) {
	return tm.Sign(userID, tm.verificationTokenTTL)
}

// SignAccess mints an access token.
func (tm *TokenManager) SignAccess(userID string) (string, error) {
	return tm.Sign(userID, tm.accessTokenTTL)
}

// SignRefresh mints a refresh token.
func (tm *TokenManager) SignRefresh(userID string) (string, error) {
	return tm.Sign(userID, tm.refreshTokenTTL)
}

// Verify parses and validates a token. Expiry is reported as
// models.ErrTokenExpired; every other decode failure collapses to
// models.ErrUnauthorized so callers can branch on exactly two outcomes.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, models.ErrUnauthorized
	}

	if !token.Valid || claims.UserID == "" {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
