package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore backs the logger when the service runs without Postgres.
type MemoryStore struct {
	mu     sync.RWMutex
	events []*Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Event
	for _, e := range s.events {
		if filter.matches(e) {
			cp := *e
			matched = append(matched, &cp)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	if filter.Offset >= len(matched) {
		return []*Event{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (f QueryFilter) matches(e *Event) bool {
	switch {
	case f.ActorID != nil && (e.ActorID == nil || *e.ActorID != *f.ActorID):
		return false
	case f.ResourceType != nil && e.ResourceType != *f.ResourceType:
		return false
	case f.ResourceID != nil && (e.ResourceID == nil || *e.ResourceID != *f.ResourceID):
		return false
	case f.Action != nil && e.Action != *f.Action:
		return false
	case f.Status != nil && e.Status != *f.Status:
		return false
	case f.StartTime != nil && e.CreatedAt.Before(*f.StartTime):
		return false
	case f.EndTime != nil && e.CreatedAt.After(*f.EndTime):
		return false
	}
	return true
}
