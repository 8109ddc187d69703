// Package backend selects and assembles a substrate implementation from
// configuration.
package backend

import (
	"context"

	"chitieu/internal/sheets"
)

// Backend is the full substrate surface the HTTP server needs.
type Backend interface {
	sheets.PartitionReader
	sheets.ExpenseAppender
}

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Result holds an assembled backend and its optional cleanup.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds everything backend assembly needs.
type Config struct {
	Type Type

	// sqlite
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// sheets
	GoogleSpreadsheetID string

	// common
	SheetPrefix string
}

// Type identifies a substrate implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
