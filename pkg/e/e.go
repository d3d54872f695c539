package e

import "fmt"

var (
	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
	ErrDimensionMismatch    = fmt.Errorf("collection vector size does not match model output size")

	// Внутренние ошибки с векторами
	ErrEmptyVectors        = fmt.Errorf("empty vectors")
	ErrEmptyVector         = fmt.Errorf("vector embedding is empty")
	ErrBatchSizeMismatch   = fmt.Errorf("batch result count does not match input count")
	ErrPayloadFieldMissing = fmt.Errorf("required payload field is missing")

	// Ошибки входных данных
	ErrNotAnImage           = fmt.Errorf("not a decodable image")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrNoProbeImages        = fmt.Errorf("no probe images found")

	// 400 Bad Request / 500 (HTTP-режим)
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrExpectedMultipart   = fmt.Errorf("expected multipart/form-data")
	ErrNoImage             = fmt.Errorf("no image provided")
	ErrFileTooLarge        = fmt.Errorf("file too large")
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
