// Package models defines the core domain models for the expense ledger.
//
// # Models
//
//   - User: registered account, referenced by ID everywhere else
//   - Group: a set of members who share expenses
//   - Expense: one immutable entry in a group's append-only expense log
//
// # Design Principles
//
//  1. **Append-only expenses**: an Expense is never updated or deleted.
//     A mis-entered expense is corrected by recording an offsetting one.
//  2. **Integer money**: all amounts are money.Money (minor units), never
//     floating point.
//  3. **Avoid circular references**: models reference each other by ID
//     strings, not pointers.
//
// Derived values (per-participant shares, member balances, settlement
// transfers) live in the ledger package — they are recomputable from the
// expense log and are not persisted models.
package models
