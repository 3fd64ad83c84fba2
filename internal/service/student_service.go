package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/middleware"
	"google.golang.org/protobuf/types/known/emptypb"
)

// StudentService implements the admin-only StudentService.
type StudentService struct {
	directory *ledger.Directory
	gate      *auth.Gate
}

// NewStudentService creates a StudentService over directory.
func NewStudentService(directory *ledger.Directory, gate *auth.Gate) *StudentService {
	return &StudentService{directory: directory, gate: gate}
}

func (s *StudentService) requireAdmin(ctx context.Context) error {
	if err := s.gate.Authorize(middleware.PrincipalFrom(ctx), auth.AdminOnly()); err != nil {
		return toConnectError(err)
	}
	return nil
}

// ListStudents returns every student, newest first, each with its balance.
func (s *StudentService) ListStudents(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListStudentsResponse], error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	list, err := s.directory.List(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	students := make([]*Student, 0, len(list))
	for _, sb := range list {
		students = append(students, StudentWithBalance(sb))
	}
	return connect.NewResponse(&ListStudentsResponse{Students: students}), nil
}

// GetStudent returns one student with its balance.
func (s *StudentService) GetStudent(ctx context.Context, req *connect.Request[GetStudentRequest]) (*connect.Response[StudentResponse], error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	sb, err := s.directory.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&StudentResponse{Student: StudentWithBalance(sb)}), nil
}

// CreateStudent enrolls a student with a zero balance.
func (s *StudentService) CreateStudent(ctx context.Context, req *connect.Request[CreateStudentRequest]) (*connect.Response[StudentResponse], error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	sb, err := s.directory.Create(ctx, req.Msg.NIS, req.Msg.Name, req.Msg.PIN)
	if err != nil {
		slog.Warn("CreateStudent failed", "nis", req.Msg.NIS, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&StudentResponse{Student: StudentWithBalance(sb)}), nil
}

// UpdateStudent applies a partial update.
func (s *StudentService) UpdateStudent(ctx context.Context, req *connect.Request[UpdateStudentRequest]) (*connect.Response[StudentResponse], error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	sb, err := s.directory.Update(ctx, req.Msg.ID, ledger.StudentPatch{
		NIS:  req.Msg.NIS,
		Name: req.Msg.Name,
		PIN:  req.Msg.PIN,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&StudentResponse{Student: StudentWithBalance(sb)}), nil
}

// DeleteStudent removes a student and its ledger.
func (s *StudentService) DeleteStudent(ctx context.Context, req *connect.Request[DeleteStudentRequest]) (*connect.Response[DeleteStudentResponse], error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.directory.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteStudentResponse{OK: true}), nil
}
