// Package repokit provides the seams repositories are written against
package repokit

import "bear/internal/platform/store"

type (
	// Queryer is the read and write surface a repo is bound to
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)
