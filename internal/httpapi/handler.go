// Package httpapi serves the JSON REST API used by the browser frontend.
// It shares the domain layer and the auth gate with the Connect services.
package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/middleware"
	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/service"
	"github.com/mmynk/tabungan/internal/statement"
)

var (
	errInvalidJSON = fmt.Errorf("%w: body must be valid JSON", ledger.ErrInvalidInput)
	errInvalidID   = fmt.Errorf("%w: id must be a positive integer", ledger.ErrInvalidInput)
)

// Handler serves /api/*.
type Handler struct {
	auth      *service.AuthService
	directory *ledger.Directory
	ledger    *ledger.Ledger
	gate      *auth.Gate
}

// New creates the REST handler.
func New(authSvc *service.AuthService, directory *ledger.Directory, l *ledger.Ledger, gate *auth.Gate) *Handler {
	return &Handler{
		auth:      authSvc,
		directory: directory,
		ledger:    l,
		gate:      gate,
	}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login-admin", h.loginAdmin)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.Handle("GET /api/me", h.authed(h.me))

	mux.Handle("GET /api/students", h.adminOnly(h.listStudents))
	mux.Handle("POST /api/students", h.adminOnly(h.createStudent))
	mux.Handle("PUT /api/students/{id}", h.adminOnly(h.updateStudent))
	mux.Handle("DELETE /api/students/{id}", h.adminOnly(h.deleteStudent))

	mux.Handle("POST /api/transactions", h.adminOnly(h.recordTransaction))
	mux.Handle("GET /api/transactions/{studentId}", h.authed(h.listTransactions))
	mux.Handle("GET /api/balance/{studentId}", h.authed(h.balance))
	mux.Handle("GET /api/statement/{studentId}", h.authed(h.statement))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, errors.New("not found"), http.StatusNotFound)
	})
}

type principalHandler func(w http.ResponseWriter, r *http.Request, p *models.Principal)

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	writeErr(w, err, http.StatusUnauthorized)
}

// authed requires a valid token and passes the principal on.
func (h *Handler) authed(fn principalHandler) http.Handler {
	return middleware.RequireAuthHTTP(h.gate, unauthorized, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, middleware.PrincipalFrom(r.Context()))
	}))
}

// adminOnly requires an admin token.
func (h *Handler) adminOnly(fn http.HandlerFunc) http.Handler {
	return h.authed(func(w http.ResponseWriter, r *http.Request, p *models.Principal) {
		if err := h.gate.Authorize(p, auth.AdminOnly()); err != nil {
			writeError(w, r, err)
			return
		}
		fn(w, r)
	})
}

// ownedStudent parses the student id from the path and checks the principal
// may read it.
func (h *Handler) ownedStudent(w http.ResponseWriter, r *http.Request, p *models.Principal) (int64, bool) {
	id, err := pathID(r, "studentId")
	if err != nil {
		writeError(w, r, err)
		return 0, false
	}
	if err := h.gate.Authorize(p, auth.OwnerOrAdmin(id)); err != nil {
		writeError(w, r, err)
		return 0, false
	}
	return id, true
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func (h *Handler) loginAdmin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginAdminRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.auth.AdminLogin(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.auth.StudentLogin(r.Context(), req.NIS, req.PIN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request, p *models.Principal) {
	writeJSON(w, http.StatusOK, service.MeResponse{Me: service.MeFrom(p)})
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]*service.Student, 0, len(list))
	for _, sb := range list {
		out = append(out, service.StudentWithBalance(sb))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateStudentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sb, err := h.directory.Create(r.Context(), req.NIS, req.Name, req.PIN)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.StudentWithBalance(sb))
}

func (h *Handler) updateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req service.UpdateStudentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sb, err := h.directory.Update(r.Context(), id, ledger.StudentPatch{
		NIS:  req.NIS,
		Name: req.Name,
		PIN:  req.PIN,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.StudentWithBalance(sb))
}

func (h *Handler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.directory.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.DeleteStudentResponse{OK: true})
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	var req service.RecordTransactionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := h.ledger.Append(r.Context(), req.StudentID, req.Amount, req.Type, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.TransactionFrom(tx))
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request, p *models.Principal) {
	id, ok := h.ownedStudent(w, r, p)
	if !ok {
		return
	}
	txs, err := h.ledger.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.TransactionsFrom(txs))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request, p *models.Principal) {
	id, ok := h.ownedStudent(w, r, p)
	if !ok {
		return
	}
	balance, err := h.ledger.Balance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.BalanceResponse{StudentID: id, Saldo: balance})
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request, p *models.Principal) {
	id, ok := h.ownedStudent(w, r, p)
	if !ok {
		return
	}
	st, err := h.ledger.Statement(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": statement.Filename(st)}))
	if err := statement.Render(w, st); err != nil {
		w.Header().Del("Content-Disposition")
		writeError(w, r, err)
	}
}
