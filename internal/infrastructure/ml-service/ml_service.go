package ml_service

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/internal/infrastructure/imaging"
	"github.com/DRSN-tech/image-search/internal/proto"
	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/DRSN-tech/image-search/pkg/jitter"
	"github.com/DRSN-tech/image-search/pkg/logger"
)

// MLService — клиент внешнего сервиса векторизации изображений.
// Один экземпляр безопасно используется из многих горутин; число одновременных
// RPC ограничено семафором, неудачные вызовы повторяются с экспоненциальной
// задержкой и джиттером.
type MLService struct {
	client     proto.MachineLearningServiceClient
	info       usecase.ModelInfo
	sem        chan struct{}
	maxRetries int
	logger     logger.Logger
}

// NewMLService запрашивает свойства модели (один раз, фатально при неудаче)
// и возвращает готовый клиент.
func NewMLService(ctx context.Context, client proto.MachineLearningServiceClient, cfg *cfg.MLServiceCfg, logger logger.Logger) (*MLService, error) {
	const op = "MLService.NewMLService"

	infoCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := client.GetModelInfo(infoCtx, &proto.ModelInfoRequest{})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if res.GetOutputSize() == 0 || res.GetTargetSize() == 0 {
		return nil, e.Wrap(op, fmt.Errorf("model reported zero target/output size"))
	}

	return &MLService{
		client:     client,
		info:       *usecase.NewModelInfo(res.GetTargetSize(), res.GetOutputSize(), res.GetModelVersion()),
		sem:        make(chan struct{}, cfg.MaxConcurrent),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

// Info возвращает свойства модели, зафиксированные при создании клиента.
func (m *MLService) Info() usecase.ModelInfo {
	return m.info
}

// Vectorize возвращает вектор для одного изображения.
func (m *MLService) Vectorize(ctx context.Context, img image.Image) ([]float32, error) {
	const op = "MLService.Vectorize"

	req := &proto.VectorizeRequest{
		ImageData: imaging.Preprocess(img, int(m.info.TargetSize)),
	}

	var vector []float32
	err := m.withRetry(ctx, op, func(ctx context.Context) error {
		res, err := m.client.Vectorize(ctx, req)
		if err != nil {
			return err
		}
		vector = res.GetVector()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return vector, nil
}

// VectorizeBatch векторизует суб-батч одним упорядоченным вызовом.
// Результат позиционно выровнен со входом; расхождение длины — ошибка батча
// целиком, чтобы не исказить соответствие соседних элементов.
func (m *MLService) VectorizeBatch(ctx context.Context, imgs []image.Image) ([][]float32, error) {
	const op = "MLService.VectorizeBatch"

	req := &proto.VectorizeBatchRequest{
		Images: make([]*proto.VectorizeRequest, 0, len(imgs)),
	}
	for _, img := range imgs {
		req.Images = append(req.Images, &proto.VectorizeRequest{
			ImageData: imaging.Preprocess(img, int(m.info.TargetSize)),
		})
	}

	var vectors [][]float32
	err := m.withRetry(ctx, op, func(ctx context.Context) error {
		res, err := m.client.VectorizeBatch(ctx, req)
		if err != nil {
			return err
		}

		if len(res.GetVectors()) != len(imgs) {
			return e.Wrap(
				fmt.Sprintf("sent %d images, got %d vectors", len(imgs), len(res.GetVectors())),
				e.ErrBatchSizeMismatch,
			)
		}

		vectors = make([][]float32, 0, len(imgs))
		for _, v := range res.GetVectors() {
			vectors = append(vectors, v.GetVector())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return vectors, nil
}

// withRetry выполняет вызов под семафором с повторами и экспоненциальной задержкой.
func (m *MLService) withRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	const (
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	select {
	case m.sem <- struct{}{}:
		defer func() { <-m.sem }()
	case <-ctx.Done():
		return e.Wrap(op, ctx.Err())
	}

	var lastErr error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		lastErr = call(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == m.maxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(baseJitter, maxJitter, attempt, jitter.DefaultJitter)
		m.logger.Warnf("%s failed, retrying in %v (attempt %d): %v", op, sleepTime, attempt+1, lastErr)

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", m.maxRetries, lastErr))
}
