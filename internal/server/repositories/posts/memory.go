package posts

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
	items  map[int64]models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.Post)}
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now().UTC()
	r.items[post.ID] = *post
	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.filter(func(models.Post) bool { return true }), nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Post, error) {
	return r.filter(func(p models.Post) bool { return p.OwnerID == ownerID }), nil
}

func (r *MemoryRepository) filter(keep func(models.Post) bool) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Post
	for _, p := range r.items {
		if keep(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *MemoryRepository) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[post.ID]
	if !ok {
		return common.ErrNotFound
	}
	p.Title = post.Title
	p.Content = post.Content
	r.items[post.ID] = p
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

func (r *MemoryRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, p := range r.items {
		if p.OwnerID == ownerID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}
