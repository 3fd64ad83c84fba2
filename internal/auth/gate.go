package auth

import (
	"errors"
	"strings"

	"github.com/mmynk/tabungan/internal/models"
)

// ErrForbidden is returned when a valid principal lacks the role or ownership
// an operation requires.
var ErrForbidden = errors.New("access denied")

// Rule is the access requirement of one operation.
type Rule struct {
	// Roles lists the roles allowed to call the operation.
	Roles []models.Role

	// OwnerRequired restricts a user principal to the student in Owner.
	// Admins bypass this check.
	OwnerRequired bool

	// Owner is the student the operation reads or writes.
	Owner int64
}

// AdminOnly allows admins only.
func AdminOnly() Rule {
	return Rule{Roles: []models.Role{models.RoleAdmin}}
}

// AnyRole allows admins and users.
func AnyRole() Rule {
	return Rule{Roles: []models.Role{models.RoleAdmin, models.RoleUser}}
}

// OwnerOrAdmin allows admins, and users acting on their own student record.
func OwnerOrAdmin(studentID int64) Rule {
	r := AnyRole()
	r.OwnerRequired = true
	r.Owner = studentID
	return r
}

// Gate turns bearer tokens into principals and decides access.
// It holds no per-request state; every call is evaluated from scratch.
type Gate struct {
	jwt *JWTManager
}

// NewGate creates a gate that verifies tokens with jwtManager.
func NewGate(jwtManager *JWTManager) *Gate {
	return &Gate{jwt: jwtManager}
}

// Issue signs a token for p.
func (g *Gate) Issue(p *models.Principal) (string, error) {
	return g.jwt.Generate(p)
}

// Verify validates a raw token and returns its principal.
// It fails with ErrMissingToken for an empty token and ErrInvalidToken otherwise.
func (g *Gate) Verify(token string) (*models.Principal, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := g.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	return claims.Principal()
}

// Authorize checks p against rule.
func (g *Gate) Authorize(p *models.Principal, rule Rule) error {
	if p == nil {
		return ErrMissingToken
	}

	allowed := false
	for _, role := range rule.Roles {
		if p.Role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrForbidden
	}

	if p.Role == models.RoleAdmin {
		return nil
	}
	if rule.OwnerRequired && (p.StudentID <= 0 || rule.Owner != p.StudentID) {
		return ErrForbidden
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value.
// An empty header yields ErrMissingToken; anything not of the form
// "Bearer <token>" yields ErrInvalidToken.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
