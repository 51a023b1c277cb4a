package recordstore

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process. A positive lag hides a freshly
// written record from that many Fetch calls, imitating an eventually
// consistent backend.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	pending map[string]int
	lag     int
}

func NewMemoryStore(lag int) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		pending: make(map[string]int),
		lag:     lag,
	}
}

func (m *MemoryStore) Upsert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = cloneRecord(rec)
	if m.lag > 0 {
		m.pending[rec.ID] = m.lag
	}
	return nil
}

func (m *MemoryStore) Fetch(ctx context.Context, id string) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.pending[id]; n > 0 {
		m.pending[id] = n - 1
		return Record{}, false, nil
	}
	rec, ok := m.records[id]
	if !ok {
		return Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	delete(m.pending, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
