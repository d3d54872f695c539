package minio

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/internal/domain"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// BlobRepo реализует контент-адресуемое хранилище изображений поверх MinIO.
type BlobRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewBlobRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *BlobRepo {
	return &BlobRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Exists проверяет наличие объекта по ключу.
func (b *BlobRepo) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.mc.StatObject(ctx, b.cfg.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return true, nil
}

// Upload сохраняет объект под его контент-адресуемым ключом.
// Повторная загрузка того же ключа перезаписывает идентичное содержимое.
func (b *BlobRepo) Upload(ctx context.Context, obj *domain.StoredObject) error {
	reader := bytes.NewReader(obj.Bytes)

	_, err := b.mc.PutObject(ctx, b.cfg.BucketName, obj.Key, reader, int64(len(obj.Bytes)), minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Download возвращает байты объекта по ключу.
func (b *BlobRepo) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.mc.GetObject(ctx, b.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// List возвращает ключи объектов с указанным префиксом.
func (b *BlobRepo) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range b.mc.ListObjects(ctx, b.cfg.BucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}
