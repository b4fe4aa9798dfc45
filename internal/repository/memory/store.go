// Package memory keeps every repository in process memory behind one lock.
// It honours the same atomicity guarantees as the postgres package and backs
// tests and STORE_DRIVER=memory.
package memory

import (
	"sort"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/comment"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	clock func() time.Time
	last  time.Time

	accounts      map[uuid.UUID]*account.ClientAccount
	profiles      map[uuid.UUID]*account.Profile
	projects      map[uuid.UUID]*project.Project
	briefs        map[uuid.UUID]*project.Brief
	milestones    map[uuid.UUID]*project.Milestone
	updates       map[uuid.UUID]*project.Update
	assignments   map[uuid.UUID]*assignment.Assignment
	assets        map[uuid.UUID]*asset.Asset
	comments      map[uuid.UUID]*comment.Comment
	notifications map[uuid.UUID]*notification.Notification
	jobs          map[uuid.UUID]*job.Job
	deliverables  map[uuid.UUID]*job.Deliverable
	reviews       map[uuid.UUID]*job.QualityReview
	payments      map[uuid.UUID]*job.Payment
}

func New() *Store {
	return &Store{
		clock:         func() time.Time { return time.Now().UTC() },
		accounts:      make(map[uuid.UUID]*account.ClientAccount),
		profiles:      make(map[uuid.UUID]*account.Profile),
		projects:      make(map[uuid.UUID]*project.Project),
		briefs:        make(map[uuid.UUID]*project.Brief),
		milestones:    make(map[uuid.UUID]*project.Milestone),
		updates:       make(map[uuid.UUID]*project.Update),
		assignments:   make(map[uuid.UUID]*assignment.Assignment),
		assets:        make(map[uuid.UUID]*asset.Asset),
		comments:      make(map[uuid.UUID]*comment.Comment),
		notifications: make(map[uuid.UUID]*notification.Notification),
		jobs:          make(map[uuid.UUID]*job.Job),
		deliverables:  make(map[uuid.UUID]*job.Deliverable),
		reviews:       make(map[uuid.UUID]*job.QualityReview),
		payments:      make(map[uuid.UUID]*job.Payment),
	}
}

// SetClock replaces the timestamp source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = now
	s.last = time.Time{}
}

// now returns a strictly increasing timestamp so creation order survives
// sorting. Callers hold the write lock.
func (s *Store) now() time.Time {
	t := s.clock()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

// sortByCreated orders items oldest first, breaking ties on id.
func sortByCreated[T any](items []T, created func(T) time.Time, id func(T) uuid.UUID) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci.Equal(cj) {
			return id(items[i]).String() < id(items[j]).String()
		}
		return ci.Before(cj)
	})
}
