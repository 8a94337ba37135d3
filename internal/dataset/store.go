package dataset

import (
	"errors"
	"sync/atomic"
	"time"

	"wastesense/internal/analytics"
)

// ErrNoDataset is returned when a query runs before any dataset upload.
var ErrNoDataset = errors.New("dataset not uploaded")

// Snapshot is one immutable generation of the dataset and its derived
// distributor-quarter table. Readers hold a snapshot reference for the
// duration of a request; an upload never mutates a published snapshot.
type Snapshot struct {
	Frame      *Frame
	Records    []analytics.Record
	Quarters   []analytics.QuarterAggregate
	UploadedAt time.Time
}

// Store holds the current dataset snapshot and the model collaborator's
// feature-importance list. Writes are whole-value pointer swaps, so a
// reader can never observe a torn replacement, and concurrent reads never
// block each other or the writer.
type Store struct {
	snapshot    atomic.Pointer[Snapshot]
	importances atomic.Pointer[[]analytics.FeatureImportance]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace publishes a new snapshot, replacing any previous one wholesale.
func (s *Store) Replace(snap *Snapshot) {
	s.snapshot.Store(snap)
}

// Snapshot returns the current snapshot, or ErrNoDataset before the first
// upload.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoDataset
	}
	return snap, nil
}

// SetImportances stores the ranked importance list supplied by the model
// collaborator. The slice is copied so later caller mutations cannot leak
// into published state.
func (s *Store) SetImportances(importances []analytics.FeatureImportance) {
	owned := make([]analytics.FeatureImportance, len(importances))
	copy(owned, importances)
	s.importances.Store(&owned)
}

// Importances returns the stored importance list, or
// analytics.ErrNoImportances when the collaborator has not reported yet.
func (s *Store) Importances() ([]analytics.FeatureImportance, error) {
	list := s.importances.Load()
	if list == nil {
		return nil, analytics.ErrNoImportances
	}
	return *list, nil
}
