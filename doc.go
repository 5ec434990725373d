// Package networth tracks a personal investment book and derives a consolidated
// net-worth view in TWD.
//
// The book is made of a few independent slots: a transaction log, bank
// balances, stock-pledge loans, and the reference data used to value them
// (prices, betas and exchange rates). Nothing derived is ever stored.
//
// The core functionalities include:
//   - Valuation: Valuate folds the transaction log into one Position per
//     symbol using a single weighted-average cost basis.
//   - Aggregation: Aggregate joins positions with bank cash and pledge loans
//     to compute net worth, category exposure and the portfolio beta.
//   - State: a Book is the single writer of a State. Mutations are Commands
//     applied atomically and persisted slot by slot through a Storage.
//
// This package serves as the foundational logic for the `nw` command-line
// tool.
package networth
