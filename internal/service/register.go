package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// Register mounts every procedure on mux. The JSON codec is always
// installed; opts typically carry interceptors.
func Register(mux *http.ServeMux, authSvc *AuthService, students *StudentService, ledgerSvc *LedgerService, opts ...connect.HandlerOption) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux.Handle(AuthLoginAdminProcedure, connect.NewUnaryHandler(AuthLoginAdminProcedure, authSvc.LoginAdmin, opts...))
	mux.Handle(AuthLoginProcedure, connect.NewUnaryHandler(AuthLoginProcedure, authSvc.Login, opts...))
	mux.Handle(AuthMeProcedure, connect.NewUnaryHandler(AuthMeProcedure, authSvc.Me, opts...))
	mux.Handle(AuthLogoutProcedure, connect.NewUnaryHandler(AuthLogoutProcedure, authSvc.Logout, opts...))

	mux.Handle(StudentListProcedure, connect.NewUnaryHandler(StudentListProcedure, students.ListStudents, opts...))
	mux.Handle(StudentGetProcedure, connect.NewUnaryHandler(StudentGetProcedure, students.GetStudent, opts...))
	mux.Handle(StudentCreateProcedure, connect.NewUnaryHandler(StudentCreateProcedure, students.CreateStudent, opts...))
	mux.Handle(StudentUpdateProcedure, connect.NewUnaryHandler(StudentUpdateProcedure, students.UpdateStudent, opts...))
	mux.Handle(StudentDeleteProcedure, connect.NewUnaryHandler(StudentDeleteProcedure, students.DeleteStudent, opts...))

	mux.Handle(LedgerRecordProcedure, connect.NewUnaryHandler(LedgerRecordProcedure, ledgerSvc.RecordTransaction, opts...))
	mux.Handle(LedgerListProcedure, connect.NewUnaryHandler(LedgerListProcedure, ledgerSvc.ListTransactions, opts...))
	mux.Handle(LedgerBalanceProcedure, connect.NewUnaryHandler(LedgerBalanceProcedure, ledgerSvc.GetBalance, opts...))
}
