package cfg

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/DRSN-tech/image-search/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio    *MinIOCfg
	Qdrant   *QdrantCfg
	Ml       *MLServiceCfg
	Redis    *RedisCfg
	Http     *HTTPConfig
	Pipeline *PipelineCfg
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	PublicURL         string // Базовый URL, по которому объекты доступны снаружи (для payload url)
}

type QdrantCfg struct {
	Port                 int
	Host                 string
	ApiKey               string
	QdrantCollectionName string // имя коллекции в Qdrant
	UseTLS               bool
	OnDisk               bool // хранить векторы на диске со скалярной квантизацией
	CallTimeout          time.Duration
}

type MLServiceCfg struct {
	Addr          string
	MaxConcurrent int
	MaxRetries    int
}

// RedisCfg — необязательный кэш уже проиндексированных хэшей.
// Enabled=false, если REDIS_ADDR не задан; пайплайн тогда ходит за
// проверкой существования напрямую в blob-хранилище.
type RedisCfg struct {
	Enabled     bool
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	SeenTTL     time.Duration
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// PipelineCfg — параметры конвейеров индексации и поиска.
type PipelineCfg struct {
	HashWorkers     int // стадия хэширования/дедупликации (IO-bound)
	EmbedWorkers    int // стадия векторизации (compute-bound)
	UploadWorkers   int // стадия загрузки и индексации (network-bound)
	EmbedBatchSize  int // ширина суб-батча при векторизации probe-изображений
	UpsertChunkSize int // ширина чанка при upsert точек в Qdrant
	DownloadWorkers int // параллельные скачивания найденных файлов
	MaxQueryVectors int // максимум positive-векторов в recommend-запросе
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	pipeline, err := loadPipelineCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:    minio,
		Qdrant:   qdrant,
		Ml:       loadMLServiceCfg(),
		Redis:    redis,
		Http:     http,
		Pipeline: pipeline,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)

	bucket := getEnv("BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("BUCKET_NAME environment variable is required")
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	publicURL := getEnvOrDefault("MINIO_PUBLIC_URL", fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket))

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        bucket,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PublicURL:         publicURL,
	}, nil
}

func loadQdrantCfg(logger logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultOnDisk         = true
		defaultCallTimeout    = 60 * time.Second
	)

	strPort := getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	port, err := strconv.Atoi(strPort)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	onDisk, err := strconv.ParseBool(getEnvOrDefault("QDRANT_ON_DISK", strconv.FormatBool(defaultOnDisk)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_ON_DISK")
		return nil, err
	}

	callTimeout, err := parseDurationEnv("QDRANT_CALL_TIMEOUT", defaultCallTimeout)
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_CALL_TIMEOUT")
		return nil, err
	}

	collection := getEnv("COLLECTION_NAME")
	if collection == "" {
		return nil, fmt.Errorf("COLLECTION_NAME environment variable is required")
	}

	return &QdrantCfg{
		Host:                 getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		QdrantCollectionName: collection,
		UseTLS:               useTLS,
		OnDisk:               onDisk,
		CallTimeout:          callTimeout,
	}, nil
}

func loadMLServiceCfg() *MLServiceCfg {
	const (
		defaultHost          = "ml-service"
		defaultPort          = "50051"
		defaultMaxConcurrent = 8
		defaultMaxRetries    = 3
	)

	host := getEnvOrDefault("ML_HOST", defaultHost)
	port := getEnvOrDefault("ML_PORT", defaultPort)

	return &MLServiceCfg{
		Addr:          host + ":" + port,
		MaxConcurrent: defaultMaxConcurrent,
		MaxRetries:    defaultMaxRetries,
	}
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB          = 0
		defaultMaxRetries  = 3
		defaultDialTimeout = 5 * time.Second
		defaultTimeout     = 3 * time.Second
		defaultSeenTTL     = 24 * time.Hour
	)

	addr := getEnv("REDIS_ADDR")
	if addr == "" {
		// Кэш необязателен: без адреса просто выключаем его
		return &RedisCfg{Enabled: false}, nil
	}

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	timeout, err := parseDurationEnv("REDIS_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_TIMEOUT")
		return nil, err
	}

	seenTTL, err := parseDurationEnv("SEEN_TTL", defaultSeenTTL)
	if err != nil {
		log.Errorf(err, "invalid SEEN_TTL")
		return nil, err
	}

	return &RedisCfg{
		Enabled:     true,
		Addr:        addr,
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		SeenTTL:     seenTTL,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPipelineCfg() (*PipelineCfg, error) {
	// Ширины стадий привязаны к доступному параллелизму:
	// хэширование IO-bound (2x), векторизация и сеть — 1x.
	cpu := runtime.NumCPU()

	const (
		defaultEmbedBatchSize  = 16
		defaultUpsertChunkSize = 32
		defaultDownloadWorkers = 4
		defaultMaxQueryVectors = 32
	)

	hashWorkers, err := parseIntEnv("HASH_WORKERS", cpu*2)
	if err != nil {
		return nil, e.Wrap("HASH_WORKERS", err)
	}

	embedWorkers, err := parseIntEnv("EMBED_WORKERS", cpu)
	if err != nil {
		return nil, e.Wrap("EMBED_WORKERS", err)
	}

	uploadWorkers, err := parseIntEnv("UPLOAD_WORKERS", cpu)
	if err != nil {
		return nil, e.Wrap("UPLOAD_WORKERS", err)
	}

	embedBatchSize, err := parseIntEnv("EMBED_BATCH_SIZE", defaultEmbedBatchSize)
	if err != nil {
		return nil, e.Wrap("EMBED_BATCH_SIZE", err)
	}

	return &PipelineCfg{
		HashWorkers:     hashWorkers,
		EmbedWorkers:    embedWorkers,
		UploadWorkers:   uploadWorkers,
		EmbedBatchSize:  embedBatchSize,
		UpsertChunkSize: defaultUpsertChunkSize,
		DownloadWorkers: defaultDownloadWorkers,
		MaxQueryVectors: defaultMaxQueryVectors,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
