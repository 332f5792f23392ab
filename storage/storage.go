package storage

import (
	"context"
)

// Storage persists period records. Implementations return *Error values so
// callers can tell missing records from bad input.
type Storage interface {
	// GetRecord finds a record by id
	GetRecord(ctx context.Context, id string) (*Record, error)
	// ListRecords returns records ordered by label, then id. opts may be nil.
	ListRecords(ctx context.Context, opts *ListOptions) ([]*Record, error)
	// CreateRecord stores a new record.
	// Implementation should assign an ID when empty and set Created and Modified.
	CreateRecord(ctx context.Context, rec *Record) error
	// UpdateRecord replaces an existing record
	UpdateRecord(ctx context.Context, rec *Record) error
	// DeleteRecord removes a record.
	DeleteRecord(ctx context.Context, id string) error
}
