package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/middleware"
	"github.com/mmynk/tabungan/internal/models"
	"google.golang.org/protobuf/types/known/emptypb"
)

var errCredentialsRequired = fmt.Errorf("%w: nis and pin are required", ledger.ErrInvalidInput)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	gate          *auth.Gate
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, gate *auth.Gate, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		gate:          gate,
		logger:        logger,
	}
}

// LoginAdmin exchanges the admin password for an admin token.
func (s *AuthService) LoginAdmin(ctx context.Context, req *connect.Request[LoginAdminRequest]) (*connect.Response[LoginResponse], error) {
	resp, err := s.AdminLogin(req.Msg.Password)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(resp), nil
}

// AdminLogin is the transport-independent admin login.
func (s *AuthService) AdminLogin(password string) (*LoginResponse, error) {
	if !s.authenticator.VerifyAdmin(password) {
		s.logger.Warn("Admin login failed")
		return nil, auth.ErrWrongAdminPass
	}

	token, err := s.gate.Issue(&models.Principal{Role: models.RoleAdmin})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin logged in")
	return &LoginResponse{Token: token, Role: string(models.RoleAdmin)}, nil
}

// Login authenticates a student by NIS and PIN and returns a user token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	resp, err := s.StudentLogin(ctx, req.Msg.NIS, req.Msg.PIN)
	if err != nil {
		// Unknown NIS is NotFound and a wrong PIN Unauthenticated.
		return nil, toConnectError(err)
	}
	return connect.NewResponse(resp), nil
}

// StudentLogin is the transport-independent student login. It fails with
// auth.ErrStudentNotFound or auth.ErrWrongPIN.
func (s *AuthService) StudentLogin(ctx context.Context, nis, pin string) (*LoginResponse, error) {
	nis = strings.TrimSpace(nis)
	s.logger.Info("Login request", "nis", nis)

	if nis == "" || pin == "" {
		return nil, errCredentialsRequired
	}

	student, err := s.authenticator.Authenticate(ctx, nis, pin)
	if err != nil {
		s.logger.Warn("Login failed", "nis", nis, "error", err)
		return nil, err
	}

	token, err := s.gate.Issue(&models.Principal{
		Role:      models.RoleUser,
		StudentID: student.ID,
		NIS:       student.NIS,
		Name:      student.Name,
	})
	if err != nil {
		s.logger.Error("Failed to generate token", "student_id", student.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Student logged in", "student_id", student.ID, "nis", student.NIS)
	return &LoginResponse{
		Token: token,
		Role:  string(models.RoleUser),
		Student: &Student{
			ID:   student.ID,
			NIS:  student.NIS,
			Name: student.Name,
		},
	}, nil
}

// Me returns the caller's principal as carried in the token.
func (s *AuthService) Me(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[MeResponse], error) {
	principal := middleware.PrincipalFrom(ctx)
	if err := s.gate.Authorize(principal, auth.AnyRole()); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MeResponse{Me: MeFrom(principal)}), nil
}

// Logout is a no-op: tokens are stateless and discarded client-side.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	s.logger.Info("Logout request")
	return connect.NewResponse(&emptypb.Empty{}), nil
}
