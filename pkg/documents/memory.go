package documents

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process, listed in upload order.
type MemoryStore struct {
	mu    sync.Mutex
	docs  []Document
	blobs map[string][]byte
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte), now: time.Now}
}

func (m *MemoryStore) Upload(ctx context.Context, filename string, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	name, err := CheckFilename(filename)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		ID:         uuid.NewString(),
		Name:       name,
		Status:     StatusAvailable,
		Size:       int64(len(data)),
		UploadedAt: m.now().UTC(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
	m.blobs[doc.ID] = slices.Clone(data)
	return doc, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.docs), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.docs, func(d Document) bool { return d.ID == id })
	if i < 0 {
		return &ErrNotFound{ID: id}
	}
	m.docs = slices.Delete(m.docs, i, i+1)
	delete(m.blobs, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
