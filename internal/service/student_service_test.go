package service

import (
	"testing"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

func strPtr(s string) *string { return &s }

func TestCreateStudent(t *testing.T) {
	ts := setupTestServer(t)

	student := ts.createStudent(t, "S001", "Alice", "1234")
	if student.ID == 0 {
		t.Error("expected student ID")
	}
	if student.Saldo == nil || *student.Saldo != 0 {
		t.Errorf("saldo = %v, want 0", student.Saldo)
	}
	if student.NIS != "S001" || student.Name != "Alice" {
		t.Errorf("unexpected student: %+v", student)
	}
}

func TestCreateStudent_DuplicateNIS(t *testing.T) {
	ts := setupTestServer(t)
	ts.createStudent(t, "S001", "Alice", "1234")

	_, err := call[StudentResponse](t, ts, StudentCreateProcedure, ts.admin, &CreateStudentRequest{NIS: "S001", Name: "Bob", PIN: "9999"})
	expectCode(t, err, connect.CodeAlreadyExists)
}

func TestCreateStudent_MissingFields(t *testing.T) {
	ts := setupTestServer(t)

	_, err := call[StudentResponse](t, ts, StudentCreateProcedure, ts.admin, &CreateStudentRequest{NIS: "S001", Name: "Alice"})
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestListStudents(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.createStudent(t, "S001", "Alice", "1234")
	bob := ts.createStudent(t, "S002", "Bob", "5678")
	ts.record(t, alice.ID, 5000, "DEPOSIT")

	resp, err := call[ListStudentsResponse](t, ts, StudentListProcedure, ts.admin, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if len(resp.Students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(resp.Students))
	}
	if resp.Students[0].ID != bob.ID || *resp.Students[0].Saldo != 0 {
		t.Errorf("first = %+v", resp.Students[0])
	}
	if resp.Students[1].ID != alice.ID || *resp.Students[1].Saldo != 5000 {
		t.Errorf("second = %+v", resp.Students[1])
	}
}

func TestListStudents_Empty(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := call[ListStudentsResponse](t, ts, StudentListProcedure, ts.admin, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if len(resp.Students) != 0 {
		t.Errorf("expected no students, got %d", len(resp.Students))
	}
}

func TestGetStudent_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	_, err := call[StudentResponse](t, ts, StudentGetProcedure, ts.admin, &GetStudentRequest{ID: 42})
	expectCode(t, err, connect.CodeNotFound)
}

func TestUpdateStudent(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.createStudent(t, "S001", "Alice", "1234")
	ts.createStudent(t, "S002", "Bob", "5678")
	ts.record(t, alice.ID, 700, "DEPOSIT")

	resp, err := call[StudentResponse](t, ts, StudentUpdateProcedure, ts.admin, &UpdateStudentRequest{
		ID:   alice.ID,
		Name: strPtr("Alice Putri"),
		PIN:  strPtr("4321"),
	})
	if err != nil {
		t.Fatalf("UpdateStudent failed: %v", err)
	}
	if resp.Student.Name != "Alice Putri" || resp.Student.NIS != "S001" || *resp.Student.Saldo != 700 {
		t.Errorf("unexpected student: %+v", resp.Student)
	}

	// The new PIN is live, the old one is not.
	ts.login(t, "S001", "4321")
	_, err = call[LoginResponse](t, ts, AuthLoginProcedure, "", &LoginRequest{NIS: "S001", PIN: "1234"})
	expectCode(t, err, connect.CodeUnauthenticated)

	t.Run("nis collision", func(t *testing.T) {
		_, err := call[StudentResponse](t, ts, StudentUpdateProcedure, ts.admin, &UpdateStudentRequest{ID: alice.ID, NIS: strPtr("S002")})
		expectCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := call[StudentResponse](t, ts, StudentUpdateProcedure, ts.admin, &UpdateStudentRequest{ID: 999, Name: strPtr("X")})
		expectCode(t, err, connect.CodeNotFound)
	})
}

func TestDeleteStudent(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.createStudent(t, "S001", "Alice", "1234")
	ts.record(t, alice.ID, 500, "DEPOSIT")

	resp, err := call[DeleteStudentResponse](t, ts, StudentDeleteProcedure, ts.admin, &DeleteStudentRequest{ID: alice.ID})
	if err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok")
	}

	_, err = call[ListTransactionsResponse](t, ts, LedgerListProcedure, ts.admin, &ListTransactionsRequest{StudentID: alice.ID})
	expectCode(t, err, connect.CodeNotFound)

	// The NIS is free again.
	ts.createStudent(t, "S001", "Alice", "1234")
}

func TestDeleteStudent_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	_, err := call[DeleteStudentResponse](t, ts, StudentDeleteProcedure, ts.admin, &DeleteStudentRequest{ID: 999})
	expectCode(t, err, connect.CodeNotFound)
}

func TestStudentService_RequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.createStudent(t, "S001", "Alice", "1234")
	user := ts.login(t, "S001", "1234")

	_, err := call[ListStudentsResponse](t, ts, StudentListProcedure, user, &emptypb.Empty{})
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = call[StudentResponse](t, ts, StudentGetProcedure, user, &GetStudentRequest{ID: alice.ID})
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = call[StudentResponse](t, ts, StudentCreateProcedure, user, &CreateStudentRequest{NIS: "S002", Name: "Bob", PIN: "1"})
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = call[DeleteStudentResponse](t, ts, StudentDeleteProcedure, "", &DeleteStudentRequest{ID: alice.ID})
	expectCode(t, err, connect.CodeUnauthenticated)
}
