package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]models.Comment
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[int64]models.Comment),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = r.now()
	r.items[c.ID] = *c
	return c, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Comment
	for _, c := range r.items {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[c.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Content = c.Content
	stored.CreatedAt = r.now()
	r.items[c.ID] = stored
	c.CreatedAt = stored.CreatedAt
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return r.deleteWhere(func(c models.Comment) bool { return c.PostID == postID }), nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.deleteWhere(func(c models.Comment) bool { return c.UserID == userID }), nil
}

func (r *MemoryRepository) deleteWhere(match func(models.Comment) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, c := range r.items {
		if match(c) {
			delete(r.items, id)
			n++
		}
	}
	return n
}
