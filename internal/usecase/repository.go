package usecase

import (
	"context"

	"github.com/DRSN-tech/image-search/internal/domain"
)

// BlobRepository — контент-адресуемое объектное хранилище.
type BlobRepository interface {
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, obj *domain.StoredObject) error
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// PointRepository — векторный индекс.
type PointRepository interface {
	// EnsureCollection создает коллекцию с размерностью dim, если её нет.
	// Для существующей коллекции проверяет совпадение размерности и возвращает
	// e.ErrDimensionMismatch при расхождении.
	EnsureCollection(ctx context.Context, dim uint64) error
	Upsert(ctx context.Context, points []domain.Embedding) error
	Recommend(ctx context.Context, positive [][]float32, params SearchParams) ([]domain.SearchResult, error)
}

// CacheRepository — необязательный кэш уже проиндексированных контент-хэшей.
// Промах кэша означает лишь поход в blob-хранилище, поэтому ошибки кэша
// не фатальны для элемента.
type CacheRepository interface {
	IsSeen(ctx context.Context, hash string) (bool, error)
	MarkSeen(ctx context.Context, hash string) error
}
