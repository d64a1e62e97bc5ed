package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

// MemoryRepository keeps users in a map. Username and email are unique.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.items {
		if u.UserName == user.UserName || u.Email == user.Email {
			return nil, common.ErrAlreadyExists
		}
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.items[user.ID] = *user
	return user, nil
}

func (r *MemoryRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if u := r.items[id]; match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.UserName == userName })
}

func (r *MemoryRepository) GetByUserNameAndEmail(ctx context.Context, userName, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.UserName == userName && u.Email == email })
}

func (r *MemoryRepository) ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	_, err := r.find(func(u models.User) bool { return u.UserName == userName || u.Email == email })
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *MemoryRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = hash
	r.items[id] = u
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
