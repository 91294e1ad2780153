package roster

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository used by tests and local runs.
type MemoryRepo struct {
	mu           sync.Mutex
	interviewers map[string]Interviewer
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{interviewers: make(map[string]Interviewer)}
}

func (m *MemoryRepo) UpsertAll(ctx context.Context, interviewers []Interviewer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, iv := range interviewers {
		if existing, ok := m.interviewers[iv.ID]; ok {
			iv.CreatedAt = existing.CreatedAt
		}
		m.interviewers[iv.ID] = iv
	}
	return nil
}

func (m *MemoryRepo) ListManagedIDs(ctx context.Context, supervisorID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for _, iv := range m.interviewers {
		if iv.SupervisorID == supervisorID {
			ids = append(ids, iv.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
