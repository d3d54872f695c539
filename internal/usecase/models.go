package usecase

// INGEST

// IngestReq — запрос на индексацию дерева каталогов с изображениями.
type IngestReq struct {
	InputDir string
}

// IngestRes — счётчики завершённого прогона индексации.
type IngestRes struct {
	Discovered int // найдено файлов-изображений
	Indexed    int // загружено и проиндексировано
	Skipped    int // пропущено по дедупликации
	Failed     int // отказы по отдельным элементам
}

// SEARCH

// SearchParams — параметры recommend-запроса, прокидываемые в Qdrant как есть.
type SearchParams struct {
	Limit          uint64
	ScoreThreshold float32
	Exact          bool // точный (полный перебор) вместо приближённого HNSW
	HnswEf         uint64
}

// SearchReq — запрос поиска: одиночное изображение или каталог tag-подкаталогов.
type SearchReq struct {
	Input   string
	Output  string // пустая строка — каталог output рядом со входом
	Params  SearchParams
	UseHTTP bool // скачивать найденные файлы по payload url, а не из blob-хранилища
}

// SearchRes — счётчики завершённого поиска.
type SearchRes struct {
	Groups     int
	Found      int
	Downloaded int
	Failed     int
}

// TagGroup — логическая группа probe-изображений: один исходный каталог = один тег.
// Группы ищутся независимо, их результаты не пересекаются.
type TagGroup struct {
	Tag   string
	Files []string
}

// ML

// ModelInfo — фиксированные свойства модели, запрашиваемые один раз при старте.
type ModelInfo struct {
	TargetSize   uint32
	OutputSize   uint32
	ModelVersion string
}

// MAPPERS

func NewIngestReq(inputDir string) *IngestReq {
	return &IngestReq{InputDir: inputDir}
}

func NewSearchReq(input string, output string, params SearchParams, useHTTP bool) *SearchReq {
	return &SearchReq{
		Input:   input,
		Output:  output,
		Params:  params,
		UseHTTP: useHTTP,
	}
}

func NewTagGroup(tag string, files []string) *TagGroup {
	return &TagGroup{
		Tag:   tag,
		Files: files,
	}
}

func NewModelInfo(targetSize uint32, outputSize uint32, modelVersion string) *ModelInfo {
	return &ModelInfo{
		TargetSize:   targetSize,
		OutputSize:   outputSize,
		ModelVersion: modelVersion,
	}
}
