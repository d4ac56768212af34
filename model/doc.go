// Package model defines core types used throughout lexgo.
//
// # Identity Types
//
//   - DocID: Dense, snapshot-local document number (uint32)
//   - PrimaryKey: Stable, user-facing document key (uint64)
//
// # Data Types
//
//   - Document: Named text fields indexed under a primary key
//   - Candidate: Search result with key, document number and score
package model
