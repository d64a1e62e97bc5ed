package loginhistory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]models.LoginEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.LoginEvent)}
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.LoginEvent) (*models.LoginEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	if e.LoginTime.IsZero() {
		e.LoginTime = time.Now().UTC()
	}
	r.items[e.ID] = *e
	return e, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID int64) ([]models.LoginEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.LoginEvent
	for _, e := range r.items {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.items {
		if e.UserID == userID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}
