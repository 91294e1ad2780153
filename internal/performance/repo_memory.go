package performance

import (
	"context"
	"sync"
	"time"

	"cati-platform/internal/calls"
	"cati-platform/internal/survey"
)

// MemoryRepo is an in-memory Repository used by tests and local runs.
type MemoryRepo struct {
	mu        sync.Mutex
	campaigns map[string]struct{}
	attempts  []calls.CallAttempt
	queues    []calls.QueueEntry
	responses []survey.InterviewResponse
	batches   map[string]survey.Batch
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		campaigns: make(map[string]struct{}),
		batches:   make(map[string]survey.Batch),
	}
}

func (m *MemoryRepo) AddCampaign(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns[id] = struct{}{}
}

func (m *MemoryRepo) AddAttempt(a calls.CallAttempt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
}

func (m *MemoryRepo) AddQueueEntry(q calls.QueueEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues = append(m.queues, q)
}

func (m *MemoryRepo) AddResponse(r survey.InterviewResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, r)
}

func (m *MemoryRepo) AddBatch(b survey.Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[b.ID] = b
}

func (m *MemoryRepo) GetAttempt(ctx context.Context, id string) (calls.CallAttempt, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.ID == id {
			return a, true, nil
		}
	}
	return calls.CallAttempt{}, false, nil
}

func (m *MemoryRepo) SaveAttempt(ctx context.Context, a calls.CallAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.attempts {
		if m.attempts[i].ID == a.ID {
			m.attempts[i] = a
			return nil
		}
	}
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *MemoryRepo) CampaignExists(ctx context.Context, campaignID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.campaigns[campaignID]
	return ok, nil
}

func (m *MemoryRepo) ListAttemptsByCampaign(ctx context.Context, campaignID string, from, to time.Time) ([]calls.CallAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []calls.CallAttempt
	for _, a := range m.attempts {
		if a.CampaignID != campaignID {
			continue
		}
		if !inRange(a.CreatedAt, from, to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *MemoryRepo) ListQueueEntryIDs(ctx context.Context, campaignID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, q := range m.queues {
		if q.CampaignID == campaignID {
			ids = append(ids, q.ID)
		}
	}
	return ids, nil
}

func (m *MemoryRepo) ListAttemptsByQueueEntries(ctx context.Context, queueEntryIDs []string, from, to time.Time) ([]calls.CallAttempt, error) {
	wanted := make(map[string]struct{}, len(queueEntryIDs))
	for _, id := range queueEntryIDs {
		wanted[id] = struct{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []calls.CallAttempt
	for _, a := range m.attempts {
		if a.QueueEntryID == "" {
			continue
		}
		if _, ok := wanted[a.QueueEntryID]; !ok {
			continue
		}
		if !inRange(a.CreatedAt, from, to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *MemoryRepo) ListResponses(ctx context.Context, campaignID string, from, to time.Time) ([]survey.InterviewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []survey.InterviewResponse
	for _, r := range m.responses {
		if r.CampaignID != campaignID {
			continue
		}
		if !inRange(r.CreatedAt, from, to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryRepo) GetBatches(ctx context.Context, batchIDs []string) (map[string]survey.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]survey.Batch, len(batchIDs))
	for _, id := range batchIDs {
		if b, ok := m.batches[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

// inRange treats zero bounds as open ended so unfiltered requests see
// every record.
func inRange(t, from, to time.Time) bool {
	if t.IsZero() {
		return true
	}
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
