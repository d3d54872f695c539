package domain

import "fmt"

// StoredObject описывает изображение, которое хранится в S3 под контент-адресуемым ключом.
type StoredObject struct {
	Key         string // "{hash}.{ext}"
	Bytes       []byte
	ContentType string // Example: "image/png"
}

func NewStoredObject(key string, data []byte, contentType string) *StoredObject {
	return &StoredObject{
		Key:         key,
		Bytes:       data,
		ContentType: contentType,
	}
}

// ObjectKey строит ключ объекта из контент-хэша и расширения исходного файла.
// Одинаковое содержимое всегда отображается в одинаковый ключ, поэтому
// повторная загрузка идемпотентна.
func ObjectKey(contentHash string, ext string) string {
	return fmt.Sprintf("%s.%s", contentHash, ext)
}
