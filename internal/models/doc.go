// Package models defines the core domain models for dues.
//
// # Models
//
//   - Member: a person who pays for or shares expenses
//   - ExpenseType: a user-defined category such as "Groceries" or "Rent"
//   - Expense: a single payment by one member, split among one or more members
//   - Due: a simplified transfer that settles outstanding balances
//
// # Conventions
//
// 1. Money is always decimal.Decimal; float64 never carries an amount
// 2. Relationships use ID strings, not pointers
// 3. Timestamps are Unix seconds
// 4. MemberRef carries a resolved name alongside the ID for display
package models
