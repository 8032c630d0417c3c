package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"course-registry/feature/registration/models"
)

// Memory is the process-local registration list. It is a cache: its content
// disappears with the process and is never authoritative.
type Memory struct {
	mu      sync.Mutex
	records []models.Registration
	lastID  int64
	now     func() time.Time
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) List(_ context.Context) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.records), nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

// Append stores r. Ids come from the millisecond clock and are bumped to stay
// strictly increasing. A record whose id is already held for the same email
// is returned unchanged.
func (m *Memory) Append(_ context.Context, r models.Registration) (models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := findByID(m.records, r.ID); ok {
		if sameEmail(existing, r) {
			return existing, nil
		}
		r.ID = 0
	}
	if r.ID == 0 {
		r.ID = m.nextID()
	} else if r.ID > m.lastID {
		m.lastID = r.ID
	}
	if r.RegistrationDate.IsZero() {
		r.RegistrationDate = models.Stamp(m.now())
	}

	m.records = append(m.records, r)
	return r, nil
}

func (m *Memory) ReplaceAll(_ context.Context, records []models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID = max(m.lastID, maxID(records))
	m.records = uniqueIDs(records, m.nextID)
	return nil
}

func (m *Memory) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.records)
	m.records = nil
	return n, nil
}

func (m *Memory) nextID() int64 {
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

// uniqueIDs copies records, giving a fresh id from next to every record whose
// id is zero or already taken by an earlier record.
func uniqueIDs(records []models.Registration, next func() int64) []models.Registration {
	out := make([]models.Registration, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup || r.ID == 0 {
			r.ID = next()
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func maxID(records []models.Registration) int64 {
	var id int64
	for _, r := range records {
		id = max(id, r.ID)
	}
	return id
}

func clone(records []models.Registration) []models.Registration {
	out := make([]models.Registration, len(records))
	copy(out, records)
	return out
}

func findByID(records []models.Registration, id int64) (models.Registration, bool) {
	if id == 0 {
		return models.Registration{}, false
	}
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Registration{}, false
}

func sameEmail(a, b models.Registration) bool {
	return strings.EqualFold(strings.TrimSpace(a.Email), strings.TrimSpace(b.Email))
}
