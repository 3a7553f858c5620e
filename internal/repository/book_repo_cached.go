package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"readmore/referral/internal/model"
)

// cachedBookRepository fronts a BookRepository with a TTL cache. Book
// summaries are read on every listing page, so this is the hottest lookup
// in the service. Cache failures fall through to the inner repository.
type cachedBookRepository struct {
	inner BookRepository
	cache Cache
	ttl   time.Duration
}

func NewCachedBookRepository(inner BookRepository, cache Cache, ttl time.Duration) BookRepository {
	return &cachedBookRepository{inner: inner, cache: cache, ttl: ttl}
}

func bookCacheKey(id uuid.UUID) string {
	return "book:summary:" + id.String()
}

func (r *cachedBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	key := bookCacheKey(id)

	if raw, err := r.cache.Get(ctx, key); err == nil && raw != nil {
		var book model.Book
		if err := json.Unmarshal(raw, &book); err == nil {
			return &book, nil
		}
		// Corrupt entry, drop it and reload from the store.
		_ = r.cache.Delete(ctx, key)
	}

	book, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(book); err == nil {
		_ = r.cache.Set(ctx, key, raw, r.ttl)
	}
	return book, nil
}
