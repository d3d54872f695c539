package usecase

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/internal/domain"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/DRSN-tech/image-search/pkg/logger"
	"github.com/DRSN-tech/image-search/pkg/pool"
)

// SearchUseCase реализует поисковый конвейер: probe-изображения группы
// векторизуются батчами, набор векторов сжимается до допустимой мощности
// recommend-запроса, найденные файлы скачиваются в выходной каталог.
type SearchUseCase struct {
	blobRepo   BlobRepository
	pointRepo  PointRepository
	mlService  MlServiceInfra
	discovery  DiscoveryInfra
	imaging    ImagingInfra
	cfg        *cfg.PipelineCfg
	httpClient *http.Client
	logger     logger.Logger
}

func NewSearchUC(
	blobRepo BlobRepository,
	pointRepo PointRepository,
	mlService MlServiceInfra,
	discovery DiscoveryInfra,
	imaging ImagingInfra,
	cfg *cfg.PipelineCfg,
	logger logger.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		blobRepo:   blobRepo,
		pointRepo:  pointRepo,
		mlService:  mlService,
		discovery:  discovery,
		imaging:    imaging,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Search обрабатывает probe-вход по группам. Группы независимы: отказ одной
// логируется и не прерывает остальные.
func (s *SearchUseCase) Search(ctx context.Context, req *SearchReq) (*SearchRes, error) {
	const op = "SearchUseCase.Search"

	if err := s.ensureDimension(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	groups, err := s.discovery.TagGroups(req.Input)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(groups) == 0 {
		return nil, e.Wrap(op, e.ErrNoProbeImages)
	}

	output := req.Output
	if output == "" {
		output = defaultOutputDir(req.Input)
	}

	res := &SearchRes{Groups: len(groups)}
	for _, group := range groups {
		groupOutput := filepath.Join(output, group.Tag)
		if err := os.MkdirAll(groupOutput, 0o755); err != nil {
			return nil, e.Wrap(op, err)
		}

		found, downloaded, failed, err := s.processGroup(ctx, group, groupOutput, req)
		if err != nil {
			s.logger.Warnf("%s: tag=%s failed: %v", op, group.Tag, err)
			res.Failed++
			continue
		}

		res.Found += found
		res.Downloaded += downloaded
		res.Failed += failed
	}

	return res, nil
}

// SearchImage ищет по одному изображению без скачивания результатов (HTTP-режим).
func (s *SearchUseCase) SearchImage(ctx context.Context, data []byte, params SearchParams) ([]domain.SearchResult, error) {
	const op = "SearchUseCase.SearchImage"

	img, err := s.imaging.DecodeBytes(data)
	if err != nil {
		return nil, e.Wrap(op, e.ErrNotAnImage)
	}

	vector, err := s.mlService.Vectorize(ctx, img)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	results, err := s.pointRepo.Recommend(ctx, [][]float32{vector}, params)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return results, nil
}

// processGroup выполняет полный цикл для одной tag-группы.
func (s *SearchUseCase) processGroup(ctx context.Context, group TagGroup, output string, req *SearchReq) (found, downloaded, failed int, err error) {
	vectors, embedFailed := s.embedFiles(ctx, group.Files)
	failed += embedFailed
	if len(vectors) == 0 {
		return 0, 0, failed, e.ErrEmptyVectors
	}

	reduced := reduceVectors(vectors, s.cfg.MaxQueryVectors)

	results, err := s.pointRepo.Recommend(ctx, reduced, req.Params)
	if err != nil {
		return 0, 0, failed, err
	}
	found = len(results)

	s.logger.Infof("tag=%s: %d probe vectors reduced to %d, %d results", group.Tag, len(vectors), len(reduced), found)

	// Скачивание найденных файлов небольшим пулом, порядок неважен
	done := pool.Map(ctx, pool.Feed(ctx, results), s.cfg.DownloadWorkers,
		func(ctx context.Context, r domain.SearchResult) (domain.SearchResult, error) {
			return r, s.downloadResult(ctx, r, output, req.UseHTTP)
		})

	for res := range done {
		if res.Err != nil {
			failed++
			s.logger.Warnf("download failed, tag=%s, path=%s: %v", group.Tag, res.Value.Path, res.Err)
			continue
		}
		downloaded++
	}

	return found, downloaded, failed, nil
}

// embedFiles векторизует файлы группы суб-батчами, сохраняя порядок.
// Недекодируемые файлы пропускаются с логом; отказ батч-вызова
// относится ко всем элементам суб-батча.
func (s *SearchUseCase) embedFiles(ctx context.Context, files []string) ([][]float32, int) {
	var (
		vectors [][]float32
		failed  int
	)

	for chunk := range chunked(files, s.cfg.EmbedBatchSize) {
		imgs := make([]image.Image, 0, len(chunk))
		for _, file := range chunk {
			img, err := s.imaging.DecodeFile(file)
			if err != nil {
				failed++
				s.logger.Warnf("cannot decode probe image %s: %v", file, err)
				continue
			}
			imgs = append(imgs, img)
		}
		if len(imgs) == 0 {
			continue
		}

		batch, err := s.mlService.VectorizeBatch(ctx, imgs)
		if err != nil {
			failed += len(imgs)
			s.logger.Warnf("vectorize batch of %d failed: %v", len(imgs), err)
			continue
		}

		vectors = append(vectors, batch...)
	}

	return vectors, failed
}

// downloadResult сохраняет один найденный файл под его относительным путём.
func (s *SearchUseCase) downloadResult(ctx context.Context, r domain.SearchResult, output string, useHTTP bool) error {
	var (
		data []byte
		err  error
	)

	if useHTTP {
		data, err = s.fetchURL(ctx, r.URL)
	} else {
		data, err = s.blobRepo.Download(ctx, r.Hash+filepath.Ext(r.Path))
	}
	if err != nil {
		return err
	}

	dest := filepath.Join(output, r.Path)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	return os.WriteFile(dest, data, 0o644)
}

// fetchURL скачивает объект по payload url.
func (s *SearchUseCase) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	return io.ReadAll(resp.Body)
}

// ensureDimension сверяет размерность существующей коллекции с выходом модели.
func (s *SearchUseCase) ensureDimension(ctx context.Context) error {
	return s.pointRepo.EnsureCollection(ctx, uint64(s.mlService.Info().OutputSize))
}

// reduceVectors сжимает произвольный набор векторов до не более чем limit
// представителей. Список разбивается на непрерывные чанки размера
// 1 + ceil(n/limit), каждый чанк заменяется покомпонентным средним.
// Слагаемое +1 намеренно недозаполняет лимит — запас от переполнения
// на единицу ценой более грубого разрешения около границы.
func reduceVectors(vectors [][]float32, limit int) [][]float32 {
	n := len(vectors)
	if n <= limit {
		return vectors
	}

	chunkSize := 1 + ceilDiv(n, limit)
	reduced := make([][]float32, 0, ceilDiv(n, chunkSize))
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		reduced = append(reduced, meanVector(vectors[start:end]))
	}

	return reduced
}

// meanVector возвращает покомпонентное среднее непустого набора векторов одной длины.
func meanVector(vectors [][]float32) []float32 {
	mean := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			mean[i] += x
		}
	}

	inv := 1 / float32(len(vectors))
	for i := range mean {
		mean[i] *= inv
	}

	return mean
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// chunked выдает непрерывные куски среза размером не более size.
func chunked[T any](items []T, size int) func(func([]T) bool) {
	if size < 1 {
		size = 1
	}
	return func(yield func([]T) bool) {
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end]) {
				return
			}
		}
	}
}

// defaultOutputDir возвращает каталог output рядом со входом.
func defaultOutputDir(input string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(input)), "output")
}
