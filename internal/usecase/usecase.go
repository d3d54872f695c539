package usecase

import (
	"context"

	"github.com/DRSN-tech/image-search/internal/domain"
)

type IngestUC interface {
	Ingest(ctx context.Context, req *IngestReq) (*IngestRes, error)
}

type SearchUC interface {
	Search(ctx context.Context, req *SearchReq) (*SearchRes, error)
	SearchImage(ctx context.Context, data []byte, params SearchParams) ([]domain.SearchResult, error)
}
