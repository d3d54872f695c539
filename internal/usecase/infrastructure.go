package usecase

import (
	"context"
	"image"
)

// MlServiceInfra — клиент внешнего сервиса векторизации.
// Свойства модели фиксируются при создании клиента; батч-вызов обязан
// сохранять позиционное соответствие результатов входным изображениям.
type MlServiceInfra interface {
	Info() ModelInfo
	Vectorize(ctx context.Context, img image.Image) ([]float32, error)
	VectorizeBatch(ctx context.Context, imgs []image.Image) ([][]float32, error)
}

// DiscoveryInfra перечисляет изображения на файловой системе.
type DiscoveryInfra interface {
	// Images рекурсивно обходит корень и возвращает пути файлов-изображений.
	Images(root string) ([]string, error)
	// TagGroups группирует probe-вход: каталог tag-подкаталогов либо одиночный файл.
	TagGroups(input string) ([]TagGroup, error)
}

// ImagingInfra декодирует изображения для стадии векторизации.
type ImagingInfra interface {
	DecodeFile(path string) (image.Image, error)
	DecodeBytes(data []byte) (image.Image, error)
}
