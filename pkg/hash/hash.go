// Package hash вычисляет контент-дайджесты файлов для дедупликации.
// Одинаковые байты всегда дают одинаковый дайджест независимо от имени и пути файла.
package hash

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"

	"lukechampine.com/blake3"
)

const digestSize = 32 // 256 бит

// SumFile возвращает hex-кодированный BLAKE3-дайджест содержимого файла.
// Файл читается потоково, без загрузки целиком в память.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(digestSize, nil)
	if _, err := io.Copy(h, bufio.NewReaderSize(f, 1<<20)); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumBytes возвращает hex-кодированный BLAKE3-дайджест среза байт.
func SumBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
