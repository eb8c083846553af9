package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ecotrack/binsight/core/model"
)

// MemoryStore is an in-memory Store used by tests, the simulator and
// single-node deployments that do not need persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	bins map[string]model.Bin
	obs  map[string][]model.Observation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bins: map[string]model.Bin{},
		obs:  map[string][]model.Observation{},
	}
}

// PutBin creates or replaces a bin record.
func (s *MemoryStore) PutBin(ctx context.Context, bin model.Bin) error {
	s.mu.Lock()
	s.bins[bin.ID] = bin
	s.mu.Unlock()
	return nil
}

// GetBin returns the bin or ErrBinNotFound.
func (s *MemoryStore) GetBin(ctx context.Context, binID string) (model.Bin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bin, ok := s.bins[binID]
	if !ok {
		return model.Bin{}, ErrBinNotFound
	}
	return bin, nil
}

// ListBins returns all bins sorted by id for deterministic iteration.
func (s *MemoryStore) ListBins(ctx context.Context) ([]model.Bin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bins := make([]model.Bin, 0, len(s.bins))
	for _, b := range s.bins {
		bins = append(bins, b)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].ID < bins[j].ID })
	return bins, nil
}

// SetFillLevel updates the bin's current fill state.
func (s *MemoryStore) SetFillLevel(ctx context.Context, binID string, fill float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bin, ok := s.bins[binID]
	if !ok {
		return ErrBinNotFound
	}
	bin.CurrentFillLevel = fill
	s.bins[binID] = bin
	return nil
}

// Append inserts an observation for its bin.
func (s *MemoryStore) Append(ctx context.Context, obs model.Observation) error {
	s.mu.Lock()
	s.obs[obs.BinID] = append(s.obs[obs.BinID], obs)
	s.mu.Unlock()
	return nil
}

// Observations returns a bin's observations since the given time, ordered
// by timestamp.
func (s *MemoryStore) Observations(ctx context.Context, binID string, since time.Time) ([]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterSorted(s.obs[binID], since), nil
}

// ObservationsByBin returns every bin's observations since the given time.
func (s *MemoryStore) ObservationsByBin(ctx context.Context, since time.Time) (map[string][]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]model.Observation, len(s.obs))
	for id, list := range s.obs {
		if recent := filterSorted(list, since); len(recent) > 0 {
			out[id] = recent
		}
	}
	return out, nil
}

func filterSorted(list []model.Observation, since time.Time) []model.Observation {
	out := make([]model.Observation, 0, len(list))
	for _, o := range list {
		if !o.Timestamp.Before(since) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}
