package mirror

import (
	"context"
	"sync"
)

// Sink persists the whole set of mirror tables at once.
type Sink interface {
	Load(ctx context.Context) (*Tables, error)
	Store(ctx context.Context, t *Tables) error
	// Snapshot returns the stored workbook as .xlsx bytes.
	Snapshot(ctx context.Context) ([]byte, error)
}

// MemorySink keeps the tables in process memory.
type MemorySink struct {
	mu     sync.Mutex
	tables *Tables
}

func NewMemorySink() *MemorySink {
	return &MemorySink{tables: NewTables()}
}

func (s *MemorySink) Load(ctx context.Context) (*Tables, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.clone(), nil
}

func (s *MemorySink) Store(ctx context.Context, t *Tables) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = t.clone()
	return nil
}

func (s *MemorySink) Snapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	f, err := encodeWorkbook(s.tables)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
