// Package models defines the core domain models for groupledger.
//
// # Models
//
//   - Group: a set of members sharing expenses, plus the ordered expense list
//   - Member: a participant of one group (members are per-group copies)
//   - Expense: an amount paid by one member and split among several
//   - Installment: one entry of a display-only monthly payment schedule
//
// # Design Principles
//
//  1. **Snapshots, not live objects**: a Group returned by storage is a complete,
//     self-contained snapshot that the calculator reads without further queries.
//  2. **One member representation**: members are always an ordered slice; lookups
//     build a map on demand via Group.MemberIndex.
//  3. **Decimal money**: every amount is a decimal.Decimal, never a float.
//  4. **Derived balances**: balances are never stored; they are recomputed from
//     the expense list by the calculator package.
//  5. **IDs, not pointers**: relationships reference member and expense IDs.
package models
