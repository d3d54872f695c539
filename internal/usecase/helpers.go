package usecase

import (
	"net/http"
	"os"

	"github.com/DRSN-tech/image-search/pkg/e"
)

// readObject читает исходные байты файла и определяет Content-Type по содержимому.
func readObject(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	contentType := http.DetectContentType(data[:min(len(data), 512)])
	return data, contentType, nil
}

// extensionFromMIME возвращает расширение файла по MIME-типу изображения.
// Поддерживает jpeg, jpg, png, webp. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func extensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}

// sniffExtension определяет расширение по содержимому файла, когда
// у имени файла расширения нет.
func sniffExtension(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return "", err
	}

	return extensionFromMIME(http.DetectContentType(head[:n]))
}
