package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    nis TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    pin_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    amount BIGINT NOT NULL CHECK (amount > 0),
    type TEXT NOT NULL CHECK (type IN ('DEPOSIT', 'WITHDRAW')),
    note TEXT,
    created_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_student_id ON transactions(student_id)`,
}
