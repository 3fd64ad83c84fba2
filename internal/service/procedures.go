package service

// Fully-qualified procedure names, as registered on the mux.
const (
	AuthLoginAdminProcedure = "/tabungan.v1.AuthService/LoginAdmin"
	AuthLoginProcedure      = "/tabungan.v1.AuthService/Login"
	AuthMeProcedure         = "/tabungan.v1.AuthService/Me"
	AuthLogoutProcedure     = "/tabungan.v1.AuthService/Logout"

	StudentListProcedure   = "/tabungan.v1.StudentService/ListStudents"
	StudentGetProcedure    = "/tabungan.v1.StudentService/GetStudent"
	StudentCreateProcedure = "/tabungan.v1.StudentService/CreateStudent"
	StudentUpdateProcedure = "/tabungan.v1.StudentService/UpdateStudent"
	StudentDeleteProcedure = "/tabungan.v1.StudentService/DeleteStudent"

	LedgerRecordProcedure  = "/tabungan.v1.LedgerService/RecordTransaction"
	LedgerListProcedure    = "/tabungan.v1.LedgerService/ListTransactions"
	LedgerBalanceProcedure = "/tabungan.v1.LedgerService/GetBalance"
)

// PublicProcedures can be called without a token.
var PublicProcedures = []string{
	AuthLoginAdminProcedure,
	AuthLoginProcedure,
	AuthLogoutProcedure,
}
