package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mmynk/tabungan/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// DefaultTokenDuration is how long a login stays valid.
const DefaultTokenDuration = 12 * time.Hour

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims for a session.
// StudentID, NIS and Name are only present for the user role.
type Claims struct {
	Role      models.Role `json:"role"`
	StudentID int64       `json:"id,omitempty"`
	NIS       string      `json:"nis,omitempty"`
	Name      string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	if tokenDuration <= 0 {
		tokenDuration = DefaultTokenDuration
	}
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate creates a signed token for the given principal.
func (m *JWTManager) Generate(p *models.Principal) (string, error) {
	now := m.now()
	claims := &Claims{
		Role:      p.Role,
		StudentID: p.StudentID,
		NIS:       p.NIS,
		Name:      p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a JWT token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Principal converts validated claims into the principal they describe.
// A user token without a student ID, or an unknown role, is rejected.
func (c *Claims) Principal() (*models.Principal, error) {
	switch c.Role {
	case models.RoleAdmin:
		return &models.Principal{Role: models.RoleAdmin}, nil
	case models.RoleUser:
		if c.StudentID <= 0 {
			return nil, fmt.Errorf("%w: user token without student id", ErrInvalidToken)
		}
		return &models.Principal{
			Role:      models.RoleUser,
			StudentID: c.StudentID,
			NIS:       c.NIS,
			Name:      c.Name,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, c.Role)
	}
}
