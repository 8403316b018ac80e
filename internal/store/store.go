// Package store persists completed evaluations. Two backends are provided:
// an append-only JSON-lines file for single-machine deployments, and a
// PostgreSQL store for shared installations where teachers review results
// across devices.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/podium-ed/podium/internal/present"
	"github.com/podium-ed/podium/internal/report"
)

// Record is one persisted evaluation: the raw report together with the
// age-tier presentation that was shown to the child.
type Record struct {
	// ID is the database-assigned identifier. Zero for records that were
	// never stored in PostgreSQL.
	ID int64 `json:"id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Report       report.Raw           `json:"report"`
	Presentation present.Presentation `json:"presentation"`
}

// Store is the persistence abstraction for evaluation records.
//
// Save must be safe for concurrent use. A failed save never invalidates the
// evaluation itself; callers log and continue.
type Store interface {
	Save(ctx context.Context, rec *Record) error
}

// Multi fans a save out to several stores. Every store is attempted; errors
// are collected so one failing backend does not starve the others.
type Multi []Store

var _ Store = (Multi)(nil)

// Save attempts every store in order and returns the joined errors.
func (m Multi) Save(ctx context.Context, rec *Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
