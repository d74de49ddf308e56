package userdata

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

type memoryKey struct {
	email  string
	serial int
}

// MemoryRepo is the in-memory fallback used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[memoryKey]Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{records: make(map[memoryKey]Record)}
}

func (r *MemoryRepo) Save(ctx context.Context, email string, serial int, data json.RawMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memoryKey{email: email, serial: serial}
	_, exists := r.records[key]
	r.records[key] = Record{
		Email:     email,
		Serial:    serial,
		Data:      append(json.RawMessage(nil), data...),
		UpdatedAt: time.Now().UTC(),
	}
	if exists {
		return OpUpdate, nil
	}
	return OpInsert, nil
}

func (r *MemoryRepo) Get(ctx context.Context, email string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var records []Record
	for key, rec := range r.records {
		if key.email == email {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Serial < records[j].Serial })
	return records, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, email string, serial int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memoryKey{email: email, serial: serial}
	if _, ok := r.records[key]; !ok {
		return ErrNotFound
	}
	delete(r.records, key)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
