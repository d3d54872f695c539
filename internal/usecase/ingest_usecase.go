package usecase

import (
	"context"
	"image"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/internal/domain"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/DRSN-tech/image-search/pkg/hash"
	"github.com/DRSN-tech/image-search/pkg/logger"
	"github.com/DRSN-tech/image-search/pkg/pool"
)

// IngestUseCase индексирует дерево каталогов: для каждого изображения
// гарантирует ровно одну точку в коллекции и ровно один объект в blob-хранилище.
// Конвейер из трёх стадий с ограниченной конкурентностью:
// хэширование+дедупликация → векторизация → загрузка+индексация.
// Отказ отдельного элемента логируется и не прерывает прогон.
type IngestUseCase struct {
	blobRepo  BlobRepository
	pointRepo PointRepository
	mlService MlServiceInfra
	cacheRepo CacheRepository // nil, если кэш выключен
	discovery DiscoveryInfra
	imaging   ImagingInfra
	cfg       *cfg.PipelineCfg
	publicURL string
	logger    logger.Logger
}

func NewIngestUC(
	blobRepo BlobRepository,
	pointRepo PointRepository,
	mlService MlServiceInfra,
	cacheRepo CacheRepository,
	discovery DiscoveryInfra,
	imaging ImagingInfra,
	cfg *cfg.PipelineCfg,
	publicURL string,
	logger logger.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		blobRepo:  blobRepo,
		pointRepo: pointRepo,
		mlService: mlService,
		cacheRepo: cacheRepo,
		discovery: discovery,
		imaging:   imaging,
		cfg:       cfg,
		publicURL: publicURL,
		logger:    logger,
	}
}

// ingestItem — единица работы конвейера. Элемент с img == nil прошёл
// дедупликацию (объект уже в хранилище) и дальше по стадиям не идёт.
type ingestItem struct {
	path   string
	hash   string
	key    string
	img    image.Image
	vector []float32
}

// Ingest запускает конвейер индексации по каталогу req.InputDir.
func (u *IngestUseCase) Ingest(ctx context.Context, req *IngestReq) (*IngestRes, error) {
	const op = "IngestUseCase.Ingest"

	paths, err := u.discovery.Images(req.InputDir)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(paths) == 0 {
		u.logger.Warnf("no images found under %s", req.InputDir)
		return &IngestRes{}, nil
	}

	// Бутстрап коллекции до первой записи; несовпадение размерности фатально.
	if err := u.pointRepo.EnsureCollection(ctx, uint64(u.mlService.Info().OutputSize)); err != nil {
		return nil, e.Wrap(op, err)
	}

	var indexed, skipped, failed atomic.Int64

	// Стадия 1: хэш + проверка существования (IO-bound)
	hashed := pool.Map(ctx, pool.Feed(ctx, paths), u.cfg.HashWorkers, u.hashAndCheck)

	// Элементы, прошедшие дедупликацию, завершаются здесь; остальные идут на векторизацию
	toEmbed := make(chan ingestItem)
	go func() {
		defer close(toEmbed)
		for res := range hashed {
			if res.Err != nil {
				failed.Add(1)
				u.logger.Warnf("%s: hash/dedup failed, path=%s: %v", op, res.Value.path, res.Err)
				continue
			}
			if res.Value.img == nil {
				skipped.Add(1)
				u.logger.Debugf("already indexed, skipping %s", res.Value.path)
				continue
			}

			select {
			case toEmbed <- res.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Стадия 2: векторизация (compute-bound, узкое место — сама модель)
	embedded := pool.Map(ctx, toEmbed, u.cfg.EmbedWorkers, u.embed)

	toIndex := make(chan ingestItem)
	go func() {
		defer close(toIndex)
		for res := range embedded {
			if res.Err != nil {
				failed.Add(1)
				u.logger.Warnf("%s: vectorize failed, path=%s: %v", op, res.Value.path, res.Err)
				continue
			}

			select {
			case toIndex <- res.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Стадия 3: загрузка в blob-хранилище + upsert точки (network-bound)
	done := pool.Map(ctx, toIndex, u.cfg.UploadWorkers, u.uploadAndIndex)

	for res := range done {
		if res.Err != nil {
			failed.Add(1)
			u.logger.Warnf("%s: upload/index failed, path=%s: %v", op, res.Value.path, res.Err)
			continue
		}
		indexed.Add(1)
	}

	if err := ctx.Err(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &IngestRes{
		Discovered: len(paths),
		Indexed:    int(indexed.Load()),
		Skipped:    int(skipped.Load()),
		Failed:     int(failed.Load()),
	}, nil
}

// hashAndCheck вычисляет контент-хэш и проверяет, не проиндексирован ли файл ранее.
// Для уже сохранённого содержимого пиксели не декодируются, векторизация и upsert
// не выполняются: предыдущий успешный прогон считается проиндексировавшим точку.
func (u *IngestUseCase) hashAndCheck(ctx context.Context, path string) (ingestItem, error) {
	item := ingestItem{path: path}

	sum, err := hash.SumFile(path)
	if err != nil {
		return item, err
	}
	item.hash = sum

	ext := extOf(path)
	if ext == "" {
		if ext, err = sniffExtension(path); err != nil {
			return item, err
		}
	}
	item.key = domain.ObjectKey(sum, ext)

	if u.cacheRepo != nil {
		// Кэш — только ускоритель: его ошибка не отменяет обработку элемента
		seen, err := u.cacheRepo.IsSeen(ctx, sum)
		if err == nil && seen {
			return item, nil
		}
	}

	exists, err := u.blobRepo.Exists(ctx, item.key)
	if err != nil {
		return item, err
	}
	if exists {
		u.markSeen(ctx, sum)
		return item, nil
	}

	img, err := u.imaging.DecodeFile(path)
	if err != nil {
		return item, err
	}
	item.img = img

	return item, nil
}

// embed получает вектор для декодированного изображения.
func (u *IngestUseCase) embed(ctx context.Context, item ingestItem) (ingestItem, error) {
	vector, err := u.mlService.Vectorize(ctx, item.img)
	if err != nil {
		return item, err
	}
	if len(vector) == 0 {
		return item, e.ErrEmptyVector
	}

	item.vector = vector
	item.img = nil // пиксели дальше не нужны, отпускаем память
	return item, nil
}

// uploadAndIndex загружает исходные байты под контент-адресуемым ключом
// и идемпотентно сохраняет точку с детерминированным ID.
func (u *IngestUseCase) uploadAndIndex(ctx context.Context, item ingestItem) (ingestItem, error) {
	data, contentType, err := readObject(item.path)
	if err != nil {
		return item, err
	}

	if err := u.blobRepo.Upload(ctx, domain.NewStoredObject(item.key, data, contentType)); err != nil {
		return item, err
	}

	payload := domain.NewPayload(
		item.hash,
		filepath.Base(item.path),
		u.publicURL+"/"+item.key,
		u.mlService.Info().ModelVersion,
	)
	point := domain.NewEmbedding(domain.PointID(item.hash), item.vector, payload)

	if err := u.pointRepo.Upsert(ctx, []domain.Embedding{*point}); err != nil {
		return item, err
	}

	u.markSeen(ctx, item.hash)
	return item, nil
}

// markSeen помечает хэш обработанным в кэше, если кэш включён.
func (u *IngestUseCase) markSeen(ctx context.Context, hash string) {
	if u.cacheRepo == nil {
		return
	}
	if err := u.cacheRepo.MarkSeen(ctx, hash); err != nil {
		u.logger.Warnf("failed to mark hash seen in cache: %v", err)
	}
}

// extOf возвращает расширение файла без точки, в нижнем регистре.
func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
