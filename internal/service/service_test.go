package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/middleware"
	"github.com/mmynk/tabungan/internal/storage/sqlite"
)

const testAdminPassword = "admin-pass"

type testServer struct {
	url   string
	gate  *auth.Gate
	admin string
}

// setupTestServer wires the three services on a temp database behind the
// auth interceptor, and logs in as admin.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	authenticator := auth.NewPINAuthenticator(store, testAdminPassword).WithCost(bcrypt.MinCost)
	gate := auth.NewGate(auth.NewJWTManager("test-secret", time.Hour))

	mux := http.NewServeMux()
	Register(mux,
		NewAuthService(authenticator, gate, nil),
		NewStudentService(ledger.NewDirectory(store, authenticator), gate),
		NewLedgerService(ledger.New(store), gate),
		connect.WithInterceptors(middleware.RequireAuth(gate, PublicProcedures...)),
	)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	ts := &testServer{url: server.URL, gate: gate}
	resp, err := call[LoginResponse](t, ts, AuthLoginAdminProcedure, "", &LoginAdminRequest{Password: testAdminPassword})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	ts.admin = resp.Token
	return ts
}

// call invokes procedure with an optional bearer token.
func call[Res, Req any](t *testing.T, ts *testServer, procedure, token string, msg *Req) (*Res, error) {
	t.Helper()

	client := connect.NewClient[Req, Res](http.DefaultClient, ts.url+procedure, connect.WithCodec(Codec()))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}

	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

// createStudent enrolls a student as admin and returns it.
func (ts *testServer) createStudent(t *testing.T, nis, name, pin string) *Student {
	t.Helper()
	resp, err := call[StudentResponse](t, ts, StudentCreateProcedure, ts.admin, &CreateStudentRequest{NIS: nis, Name: name, PIN: pin})
	if err != nil {
		t.Fatalf("CreateStudent(%s) failed: %v", nis, err)
	}
	return resp.Student
}

// login returns a user token for the student.
func (ts *testServer) login(t *testing.T, nis, pin string) string {
	t.Helper()
	resp, err := call[LoginResponse](t, ts, AuthLoginProcedure, "", &LoginRequest{NIS: nis, PIN: pin})
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", nis, err)
	}
	return resp.Token
}

func (ts *testServer) record(t *testing.T, studentID, amount int64, kind string) *Transaction {
	t.Helper()
	resp, err := call[TransactionResponse](t, ts, LedgerRecordProcedure, ts.admin, &RecordTransactionRequest{
		StudentID: studentID,
		Amount:    amount,
		Type:      kind,
	})
	if err != nil {
		t.Fatalf("RecordTransaction(%s %d) failed: %v", kind, amount, err)
	}
	return resp.Transaction
}
