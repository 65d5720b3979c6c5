package stock

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu       sync.Mutex
	daily    *DailyRecord
	campaign *CampaignRecord
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadDaily returns a copy of the stored daily record
func (s *MemoryStore) LoadDaily(_ context.Context) (DailyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.daily == nil {
		return DailyRecord{}, false, nil
	}
	rec := *s.daily
	rec.Items = cloneItems(rec.Items)
	return rec, true, nil
}

// SaveDaily replaces the daily record
func (s *MemoryStore) SaveDaily(_ context.Context, rec DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Items = cloneItems(rec.Items)
	s.daily = &rec
	return nil
}

// LoadCampaign returns a copy of the stored campaign record
func (s *MemoryStore) LoadCampaign(_ context.Context) (CampaignRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.campaign == nil {
		return CampaignRecord{}, false, nil
	}
	rec := *s.campaign
	rec.Items = cloneItems(rec.Items)
	return rec, true, nil
}

// SaveCampaign replaces the campaign record
func (s *MemoryStore) SaveCampaign(_ context.Context, rec CampaignRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Items = cloneItems(rec.Items)
	s.campaign = &rec
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }

func cloneItems(items []ItemRemaining) []ItemRemaining {
	if items == nil {
		return nil
	}
	out := make([]ItemRemaining, len(items))
	copy(out, items)
	return out
}
