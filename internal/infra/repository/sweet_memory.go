package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"

	"github.com/google/uuid"
)

// SweetMemoryRepository はmapとmutexによるインメモリ実装。
// 条件付き減算をロック内で行うので、DB実装と同じ直列化保証を持つ。
// テストとローカル動作確認用。
type SweetMemoryRepository struct {
	mu     sync.Mutex
	sweets map[string]model.Sweet
}

func NewSweetMemoryRepository() *SweetMemoryRepository {
	return &SweetMemoryRepository{sweets: make(map[string]model.Sweet)}
}

func (r *SweetMemoryRepository) FindByID(ctx context.Context, id string) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sweets[id]
	if !ok {
		return model.Sweet{}, repo.ErrNotFound
	}
	return s, nil
}

func (r *SweetMemoryRepository) List(ctx context.Context) ([]model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked(func(model.Sweet) bool { return true }), nil
}

func (r *SweetMemoryRepository) Search(ctx context.Context, q repo.SweetSearchQuery) ([]model.Sweet, int64, error) {
	name := strings.ToLower(strings.TrimSpace(q.Name))

	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.snapshotLocked(func(s model.Sweet) bool {
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			return false
		}
		if q.Category != nil && s.Category != *q.Category {
			return false
		}
		if q.MinPrice != nil && s.Price < *q.MinPrice {
			return false
		}
		if q.MaxPrice != nil && s.Price > *q.MaxPrice {
			return false
		}
		return true
	})
	return out, int64(len(out)), nil
}

func (r *SweetMemoryRepository) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.sweets[s.ID] = s
	return s, nil
}

func (r *SweetMemoryRepository) Update(ctx context.Context, id string, f repo.SweetUpdateFields) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sweets[id]
	if !ok {
		return model.Sweet{}, repo.ErrNotFound
	}

	if f.Name != nil {
		s.Name = *f.Name
	}
	if f.Price != nil {
		s.Price = *f.Price
	}
	if f.Description != nil {
		s.Description = *f.Description
	}
	if f.Image != nil {
		s.Image = *f.Image
	}
	if f.Category != nil {
		s.Category = *f.Category
	}
	if f.Quantity != nil {
		s.Quantity = *f.Quantity
	}
	s.UpdatedAt = time.Now()

	r.sweets[id] = s
	return s, nil
}

func (r *SweetMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sweets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.sweets, id)
	return nil
}

func (r *SweetMemoryRepository) DecreaseQuantityIfEnough(ctx context.Context, id string, qty int64) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sweets[id]
	if !ok {
		return model.Sweet{}, repo.ErrNotFound
	}
	if s.Quantity < qty {
		return model.Sweet{}, repo.ErrInsufficientStock
	}

	s.Quantity -= qty
	s.UpdatedAt = time.Now()
	r.sweets[id] = s
	return s, nil
}

func (r *SweetMemoryRepository) IncreaseQuantity(ctx context.Context, id string, qty int64) (model.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sweets[id]
	if !ok {
		return model.Sweet{}, repo.ErrNotFound
	}

	s.Quantity += qty
	s.UpdatedAt = time.Now()
	r.sweets[id] = s
	return s, nil
}

// 作成日時の降順で安定した並びを返す
func (r *SweetMemoryRepository) snapshotLocked(match func(model.Sweet) bool) []model.Sweet {
	out := make([]model.Sweet, 0, len(r.sweets))
	for _, s := range r.sweets {
		if match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
