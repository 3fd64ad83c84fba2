package sqlite

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// The students table must be created BEFORE transactions due to the foreign key.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nis TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    pin_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id INTEGER NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    type TEXT NOT NULL CHECK (type IN ('DEPOSIT', 'WITHDRAW')),
    note TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_student_id ON transactions(student_id)`,
}
