package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/internal/domain"
	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// PointRepo — репозиторий точек векторного индекса поверх Qdrant.
// Все операции выполняются с таймаутом cfg.CallTimeout; ошибка вызова
// становится отказом элемента, а не остановкой процесса.
type PointRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
	chunk  int
}

func NewPointRepo(client *qdrant.Client, cfg *cfg.QdrantCfg, upsertChunkSize int) *PointRepo {
	return &PointRepo{
		client: client,
		cfg:    cfg,
		chunk:  upsertChunkSize,
	}
}

// EnsureCollection создает коллекцию под размерность модели, если её ещё нет.
// Векторы — косинусная метрика; опционально on-disk со скалярной квантизацией
// для больших коллекций. Существующая коллекция с другой размерностью — фатальная
// ошибка конфигурации.
func (q *PointRepo) EnsureCollection(ctx context.Context, dim uint64) error {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	exists, err := q.client.CollectionExists(ctx, q.cfg.QdrantCollectionName)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if exists {
		info, err := q.client.GetCollectionInfo(ctx, q.cfg.QdrantCollectionName)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != dim {
			return e.Wrap(
				fmt.Sprintf("collection %q has size %d, model outputs %d", q.cfg.QdrantCollectionName, size, dim),
				e.ErrDimensionMismatch,
			)
		}

		return nil
	}

	vectorParams := &qdrant.VectorParams{
		Size:     dim,
		Distance: qdrant.Distance_Cosine,
	}

	create := &qdrant.CreateCollection{
		CollectionName: q.cfg.QdrantCollectionName,
		VectorsConfig:  qdrant.NewVectorsConfig(vectorParams),
	}

	if q.cfg.OnDisk {
		vectorParams.OnDisk = qdrant.PtrOf(true)
		create.QuantizationConfig = qdrant.NewQuantizationScalar(&qdrant.ScalarQuantization{
			Type: qdrant.QuantizationType_Int8,
		})
	}

	if err := q.client.CreateCollection(ctx, create); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Upsert сохраняет или обновляет точки чанками фиксированной ширины,
// амортизируя сетевые обращения. Каждый чанк ждёт подтверждения записи.
func (q *PointRepo) Upsert(ctx context.Context, points []domain.Embedding) error {
	for start := 0; start < len(points); start += q.chunk {
		end := min(start+q.chunk, len(points))

		reqPoints := make([]*qdrant.PointStruct, 0, end-start)
		for _, point := range points[start:end] {
			reqPoints = append(reqPoints, &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(point.ID),
				Vectors: qdrant.NewVectors(point.Vector...),
				Payload: qdrant.NewValueMap(point.Payload),
			})
		}

		callCtx, cancel := q.withTimeout(ctx)
		_, err := q.client.Upsert(callCtx, &qdrant.UpsertPoints{
			CollectionName: q.cfg.QdrantCollectionName,
			Points:         reqPoints,
			Wait:           qdrant.PtrOf(true),
		})
		cancel()
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}

// Recommend выполняет поиск по positive-векторам и возвращает типизированные результаты.
func (q *PointRepo) Recommend(ctx context.Context, positive [][]float32, params usecase.SearchParams) ([]domain.SearchResult, error) {
	if len(positive) == 0 {
		return nil, e.ErrEmptyVectors
	}

	input := &qdrant.RecommendInput{
		Positive: make([]*qdrant.VectorInput, 0, len(positive)),
	}
	for _, vector := range positive {
		input.Positive = append(input.Positive, qdrant.NewVectorInput(vector...))
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Query:          qdrant.NewQueryRecommend(input),
		Limit:          qdrant.PtrOf(params.Limit),
		ScoreThreshold: qdrant.PtrOf(params.ScoreThreshold),
		Params: &qdrant.SearchParams{
			Exact:  qdrant.PtrOf(params.Exact),
			HnswEf: qdrant.PtrOf(params.HnswEf),
		},
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	results := make([]domain.SearchResult, 0, len(points))
	for _, point := range points {
		result, err := toSearchResult(point)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		results = append(results, *result)
	}

	return results, nil
}

// toSearchResult переводит payload точки в типизированную запись.
// Отсутствие обязательного поля — ошибка границы с Qdrant.
func toSearchResult(point *qdrant.ScoredPoint) (*domain.SearchResult, error) {
	path, err := stringField(point.GetPayload(), "path")
	if err != nil {
		return nil, err
	}

	hash, err := stringField(point.GetPayload(), "hash")
	if err != nil {
		return nil, err
	}

	url, err := stringField(point.GetPayload(), "url")
	if err != nil {
		return nil, err
	}

	return domain.NewSearchResult(path, hash, url, point.GetScore()), nil
}

func stringField(payload map[string]*qdrant.Value, key string) (string, error) {
	value, ok := payload[key]
	if !ok {
		return "", e.Wrap(key, e.ErrPayloadFieldMissing)
	}

	return value.GetStringValue(), nil
}

func (q *PointRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := q.cfg.CallTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
