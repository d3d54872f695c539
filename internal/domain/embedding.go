package domain

import "github.com/google/uuid"

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет эмбеддинг одного изображения
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// NewPayload собирает payload точки: контент-хэш, относительный путь файла
// и публичный URL объекта в blob-хранилище.
func NewPayload(hash string, path string, url string, modelVersion string) Payload {
	return Payload{
		"hash":          hash,
		"path":          path,
		"url":           url,
		"model_version": modelVersion,
	}
}

// PointID детерминированно выводит идентификатор точки из контент-хэша
// (name-based UUID v5). Повторная индексация того же содержимого обновляет
// ту же точку, а не создает дубликат.
func PointID(contentHash string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(contentHash)).String()
}
