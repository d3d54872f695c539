package usecase

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/internal/domain"
	"github.com/DRSN-tech/image-search/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

type fakeBlobRepo struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobRepo() *fakeBlobRepo {
	return &fakeBlobRepo{objects: make(map[string][]byte)}
}

func (f *fakeBlobRepo) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeBlobRepo) Upload(_ context.Context, obj *domain.StoredObject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[obj.Key] = obj.Bytes
	return nil
}

func (f *fakeBlobRepo) Download(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (f *fakeBlobRepo) List(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeBlobRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakePointRepo struct {
	mu     sync.Mutex
	dim    uint64
	points map[string]domain.Embedding
}

func newFakePointRepo() *fakePointRepo {
	return &fakePointRepo{points: make(map[string]domain.Embedding)}
}

func (f *fakePointRepo) EnsureCollection(_ context.Context, dim uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dim = dim
	return nil
}

func (f *fakePointRepo) Upsert(_ context.Context, points []domain.Embedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

// Recommend возвращает ближайшую по L2 к первому positive-вектору точку.
func (f *fakePointRepo) Recommend(_ context.Context, positive [][]float32, params SearchParams) ([]domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var (
		best     *domain.Embedding
		bestDist = math.MaxFloat64
	)
	for _, p := range f.points {
		d := l2(p.Vector, positive[0])
		if d < bestDist {
			bestDist = d
			cp := p
			best = &cp
		}
	}
	if best == nil {
		return nil, nil
	}

	return []domain.SearchResult{*domain.NewSearchResult(
		best.Payload["path"].(string),
		best.Payload["hash"].(string),
		best.Payload["url"].(string),
		1.0,
	)}, nil
}

func (f *fakePointRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points)
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return sum
}

// fakeML возвращает вектор по цвету пикселя (0,0) и считает вызовы.
type fakeML struct {
	calls atomic.Int64
}

func (f *fakeML) Info() ModelInfo {
	return *NewModelInfo(224, 3, "test-model")
}

func (f *fakeML) Vectorize(_ context.Context, img image.Image) ([]float32, error) {
	f.calls.Add(1)
	return pixelVector(img), nil
}

func (f *fakeML) VectorizeBatch(_ context.Context, imgs []image.Image) ([][]float32, error) {
	f.calls.Add(1)
	vectors := make([][]float32, 0, len(imgs))
	for _, img := range imgs {
		vectors = append(vectors, pixelVector(img))
	}
	return vectors, nil
}

func pixelVector(img image.Image) []float32 {
	r, g, b, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	return []float32{float32(r >> 8), float32(g >> 8), float32(b >> 8)}
}

type realDecoder struct{}

func (realDecoder) DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func (realDecoder) DecodeBytes(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

type fsDiscovery struct{}

func (fsDiscovery) Images(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			paths = append(paths, filepath.Join(root, entry.Name()))
		}
	}
	return paths, nil
}

func (fsDiscovery) TagGroups(input string) ([]TagGroup, error) {
	return nil, nil
}

func writePNG(t *testing.T, dir, name string, c color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return path
}

func testPipelineCfg() *cfg.PipelineCfg {
	return &cfg.PipelineCfg{
		HashWorkers:     4,
		EmbedWorkers:    2,
		UploadWorkers:   2,
		EmbedBatchSize:  16,
		UpsertChunkSize: 32,
		DownloadWorkers: 2,
		MaxQueryVectors: 32,
	}
}

func newTestIngestUC(blobRepo *fakeBlobRepo, pointRepo *fakePointRepo, ml *fakeML) *IngestUseCase {
	return NewIngestUC(
		blobRepo, pointRepo, ml, nil,
		fsDiscovery{}, realDecoder{},
		testPipelineCfg(), "http://minio/test", nopLogger{},
	)
}

func TestIngest_IndexesAllImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "red.png", color.RGBA{R: 255, A: 255})
	writePNG(t, dir, "green.png", color.RGBA{G: 255, A: 255})
	writePNG(t, dir, "blue.png", color.RGBA{B: 255, A: 255})

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	ml := &fakeML{}
	uc := newTestIngestUC(blobRepo, pointRepo, ml)

	res, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Discovered)
	assert.Equal(t, 3, res.Indexed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 0, res.Failed)

	assert.Equal(t, 3, blobRepo.count())
	assert.Equal(t, 3, pointRepo.count())
	assert.Equal(t, uint64(3), pointRepo.dim)
}

func TestIngest_StoresOriginalBytesUnderContentKey(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", color.RGBA{R: 255, A: 255})

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	uc := newTestIngestUC(blobRepo, pointRepo, &fakeML{})

	_, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)

	sum, err := hash.SumFile(path)
	require.NoError(t, err)

	stored, err := blobRepo.Download(context.Background(), domain.ObjectKey(sum, "png"))
	require.NoError(t, err)

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, stored, "stored object must be byte-identical to the source file")

	point, ok := pointRepo.points[domain.PointID(sum)]
	require.True(t, ok, "point ID must derive from the content hash")
	assert.Equal(t, sum, point.Payload["hash"])
	assert.Equal(t, "red.png", point.Payload["path"])
}

func TestIngest_SecondRunSkipsWithoutVectorizing(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "red.png", color.RGBA{R: 255, A: 255})
	writePNG(t, dir, "green.png", color.RGBA{G: 255, A: 255})

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	ml := &fakeML{}
	uc := newTestIngestUC(blobRepo, pointRepo, ml)

	_, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)
	callsAfterFirst := ml.calls.Load()

	res, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Indexed)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, callsAfterFirst, ml.calls.Load(), "already stored content must not be vectorized again")
	assert.Equal(t, 2, blobRepo.count())
	assert.Equal(t, 2, pointRepo.count())
}

func TestIngest_RenamedDuplicateIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", color.RGBA{R: 255, A: 255})
	writePNG(t, dir, "b.png", color.RGBA{R: 255, A: 255})

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	uc := newTestIngestUC(blobRepo, pointRepo, &fakeML{})

	res, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)

	// Одинаковое содержимое под разными именами — один объект и одна точка
	assert.Equal(t, 2, res.Indexed+res.Skipped)
	assert.Equal(t, 1, blobRepo.count())
	assert.Equal(t, 1, pointRepo.count())
}

func TestIngest_CorruptFileFailsItemOnly(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "ok.png", color.RGBA{R: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0o644))

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	uc := newTestIngestUC(blobRepo, pointRepo, &fakeML{})

	res, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Indexed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, blobRepo.count())
}

func TestIngest_EmptyFolder(t *testing.T) {
	uc := newTestIngestUC(newFakeBlobRepo(), newFakePointRepo(), &fakeML{})

	res, err := uc.Ingest(context.Background(), NewIngestReq(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, &IngestRes{}, res)
}

func TestIngest_CacheHitShortCircuitsBlobCheck(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", color.RGBA{R: 255, A: 255})

	sum, err := hash.SumFile(path)
	require.NoError(t, err)

	cache := &fakeCache{seen: map[string]bool{sum: true}}
	uc := NewIngestUC(
		newFakeBlobRepo(), newFakePointRepo(), &fakeML{}, cache,
		fsDiscovery{}, realDecoder{},
		testPipelineCfg(), "http://minio/test", nopLogger{},
	)

	res, err := uc.Ingest(context.Background(), NewIngestReq(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
}

type fakeCache struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (f *fakeCache) IsSeen(_ context.Context, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[hash], nil
}

func (f *fakeCache) MarkSeen(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen[hash] = true
	return nil
}
