package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/image-search/internal/cfg"
	v1Http "github.com/DRSN-tech/image-search/internal/delivery/v1/http"
	"github.com/DRSN-tech/image-search/internal/infrastructure/fs"
	"github.com/DRSN-tech/image-search/internal/infrastructure/imaging"
	ml_service "github.com/DRSN-tech/image-search/internal/infrastructure/ml-service"
	"github.com/DRSN-tech/image-search/internal/proto"
	s3Repo "github.com/DRSN-tech/image-search/internal/repository/minio"
	qdrantRepo "github.com/DRSN-tech/image-search/internal/repository/qdrant"
	redisRepo "github.com/DRSN-tech/image-search/internal/repository/redis"
	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/DRSN-tech/image-search/pkg/clients"
	"github.com/DRSN-tech/image-search/pkg/closer"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/DRSN-tech/image-search/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// App собирает все зависимости приложения: клиентов хранилищ, сервис
// векторизации и сценарии использования. Один экземпляр обслуживает и
// CLI-команды, и HTTP-режим.
type App struct {
	Cfg    *config.Config
	Logger logger.Logger

	ingestUC usecase.IngestUC
	searchUC usecase.SearchUC

	closer *closer.Closer
}

// NewApp подключает внешние зависимости и собирает сценарии использования.
// Коллекция в Qdrant создаётся (или проверяется на совместимость размерности)
// сразу после получения свойств модели.
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(0)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(ctx, 10*time.Second)
	err = clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName)
	minioCancel()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	blobRepo := s3Repo.NewBlobRepo(minioClient, cfg.Minio)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(context.Context) error {
		return qdrantClient.Client.Close()
	})

	pointRepo := qdrantRepo.NewPointRepo(qdrantClient.Client, cfg.Qdrant, cfg.Pipeline.UpsertChunkSize)

	var cacheRepo usecase.CacheRepository
	if cfg.Redis.Enabled {
		redisClient := clients.NewRedisClient(cfg.Redis)

		redisCtx, redisCancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(redisCtx)
		redisCancel()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		cl.Add(func(context.Context) error {
			return redisClient.Client.Close()
		})

		cacheRepo = redisRepo.NewCacheRepo(redisClient, cfg.Redis, log)
	}

	conn, err := grpc.NewClient(
		cfg.Ml.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()), // явное указание gRPC-клиенту использовать НЕзащищённое соединение (без TLS).
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(context.Context) error {
		return conn.Close()
	})

	mlClient := proto.NewMachineLearningServiceClient(conn)
	ml, err := ml_service.NewMLService(ctx, mlClient, cfg.Ml, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := pointRepo.EnsureCollection(ctx, uint64(ml.Info().OutputSize)); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	discovery := fs.NewDiscovery()
	img := imaging.NewImaging()

	ingestUC := usecase.NewIngestUC(
		blobRepo,
		pointRepo,
		ml,
		cacheRepo,
		discovery,
		img,
		cfg.Pipeline,
		cfg.Minio.PublicURL,
		log,
	)

	searchUC := usecase.NewSearchUC(
		blobRepo,
		pointRepo,
		ml,
		discovery,
		img,
		cfg.Pipeline,
		log,
	)

	return &App{
		Cfg:      cfg,
		Logger:   log,
		ingestUC: ingestUC,
		searchUC: searchUC,
		closer:   cl,
	}, nil
}

func (a *App) IngestUC() usecase.IngestUC {
	return a.ingestUC
}

func (a *App) SearchUC() usecase.SearchUC {
	return a.searchUC
}

// Close освобождает все подключения в порядке, обратном их созданию.
func (a *App) Close(ctx context.Context) error {
	return a.closer.Close(ctx)
}

// RunServer поднимает HTTP-поиск и блокируется до сигнала завершения
// или фатальной ошибки сервера.
func (a *App) RunServer() error {
	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.Logger)
	router.Init(a.searchUC)

	httpSrv := v1Http.NewServer(r, a.Cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Infof("HTTP server started on port %s", a.Cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.Logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.Logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		a.Logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.Logger.Infof("HTTP server stopped")
	}

	if err := a.Close(shutdownCtx); err != nil {
		a.Logger.Warnf("resource close error: %v", err)
	}

	return appErr
}
