package domain

// SearchResult — типизированный результат recommend-запроса.
// Поля заполняются из payload точки на границе с Qdrant; отсутствие
// обязательного поля — ошибка границы, а не паника в пайплайне.
type SearchResult struct {
	Path  string
	Hash  string
	URL   string
	Score float32
}

func NewSearchResult(path string, hash string, url string, score float32) *SearchResult {
	return &SearchResult{
		Path:  path,
		Hash:  hash,
		URL:   url,
		Score: score,
	}
}
