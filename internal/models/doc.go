// Package models defines the core domain models for Tabungan.
//
// # Models
//
//   - Student: a savings account holder, keyed by a unique NIS
//   - Transaction: one immutable DEPOSIT or WITHDRAW entry in a student's ledger
//   - Principal: the authenticated caller of a request (admin or a student)
//
// # Design Principles
//
//  1. **Derived balance**: there is no balance field anywhere. The balance of a
//     student is always folded from its transactions (see package calculator).
//  2. **Append-only ledger**: transactions are never updated. They only
//     disappear together with their owning student.
//  3. **Admins are not rows**: the admin role is asserted with a shared secret
//     and never stored in the students table.
//  4. **Avoid circular references**: relationships use IDs, not pointers.
package models
