package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrNoImage):
		return http.StatusBadRequest, e.ErrNoImage.Error()
	case errors.Is(err, e.ErrNotAnImage):
		return http.StatusBadRequest, e.ErrNotAnImage.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseSearchParams собирает параметры поиска из query-строки,
// недостающие значения добивает значениями по умолчанию.
func parseSearchParams(r *http.Request) (usecase.SearchParams, error) {
	const (
		defaultLimit          = 100
		defaultScoreThreshold = 0.5
		defaultHnswEf         = 32
	)

	params := usecase.SearchParams{
		Limit:          defaultLimit,
		ScoreThreshold: defaultScoreThreshold,
		Exact:          false,
		HnswEf:         defaultHnswEf,
	}

	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			return params, e.Wrap("limit", e.ErrStatusBadRequest)
		}
		params.Limit = v
	}

	if raw := q.Get("score_threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil || v < 0 || v > 1 {
			return params, e.Wrap("score_threshold", e.ErrStatusBadRequest)
		}
		params.ScoreThreshold = float32(v)
	}

	if raw := q.Get("exact"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return params, e.Wrap("exact", e.ErrStatusBadRequest)
		}
		params.Exact = v
	}

	if raw := q.Get("hnsw_ef"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return params, e.Wrap("hnsw_ef", e.ErrStatusBadRequest)
		}
		params.HnswEf = v
	}

	return params, nil
}

// readProbeImage читает эталонное изображение из multipart-формы.
func readProbeImage(files []*multipart.FileHeader) ([]byte, error) {
	const maxFileSize = 15 << 20

	if len(files) == 0 {
		return nil, e.ErrNoImage
	}

	fh := files[0]
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxFileSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	return data, nil
}
