package usecase

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/image-search/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceVectors_UnderLimitUnchanged(t *testing.T) {
	vectors := [][]float32{{1, 2}, {3, 4}, {5, 6}}

	reduced := reduceVectors(vectors, 32)
	assert.Equal(t, vectors, reduced)

	reduced = reduceVectors(vectors, 3)
	assert.Equal(t, vectors, reduced)
}

func TestReduceVectors_ChunkMean(t *testing.T) {
	// 4 вектора при лимите 2: chunkSize = 1 + ceil(4/2) = 3
	vectors := [][]float32{
		{0, 0},
		{2, 4},
		{4, 8},
		{10, 20},
	}

	reduced := reduceVectors(vectors, 2)
	require.Len(t, reduced, 2)
	assert.Equal(t, []float32{2, 4}, reduced[0])
	assert.Equal(t, []float32{10, 20}, reduced[1])
}

func TestReduceVectors_NeverExceedsLimit(t *testing.T) {
	for n := 1; n <= 200; n++ {
		vectors := make([][]float32, n)
		for i := range vectors {
			vectors[i] = []float32{float32(i)}
		}

		for _, limit := range []int{1, 2, 16, 32} {
			reduced := reduceVectors(vectors, limit)
			assert.LessOrEqual(t, len(reduced), limit, "n=%d limit=%d", n, limit)
			assert.NotEmpty(t, reduced)
		}
	}
}

func TestReduceVectors_KnownCardinality(t *testing.T) {
	// 65 векторов при лимите 32: chunkSize = 1 + ceil(65/32) = 4 → 17 чанков
	vectors := make([][]float32, 65)
	for i := range vectors {
		vectors[i] = []float32{1}
	}

	reduced := reduceVectors(vectors, 32)
	assert.Len(t, reduced, 17)
}

func TestMeanVector(t *testing.T) {
	mean := meanVector([][]float32{{1, 2, 3}, {3, 4, 5}})
	assert.Equal(t, []float32{2, 3, 4}, mean)

	mean = meanVector([][]float32{{7, 7}})
	assert.Equal(t, []float32{7, 7}, mean)
}

func TestChunked(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	var chunks [][]int
	for chunk := range chunked(items, 2) {
		chunks = append(chunks, chunk)
	}

	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
}

func TestDefaultOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "output"), defaultOutputDir(filepath.Join("data", "probes")))
}

// tagDiscovery отдаёт заранее заданные группы.
type tagDiscovery struct {
	groups []TagGroup
}

func (d tagDiscovery) Images(string) ([]string, error)      { return nil, nil }
func (d tagDiscovery) TagGroups(string) ([]TagGroup, error) { return d.groups, nil }

func TestSearch_DownloadsMatchesIntoTagFolders(t *testing.T) {
	probeDir := t.TempDir()
	redProbe := writePNG(t, probeDir, "red.png", color.RGBA{R: 255, A: 255})

	// Индексируем эталон, затем ищем его же по probe того же цвета
	corpusDir := t.TempDir()
	corpusFile := writePNG(t, corpusDir, "corpus_red.png", color.RGBA{R: 250, A: 255})

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	ml := &fakeML{}

	ingest := newTestIngestUC(blobRepo, pointRepo, ml)
	_, err := ingest.Ingest(context.Background(), NewIngestReq(corpusDir))
	require.NoError(t, err)

	search := NewSearchUC(
		blobRepo, pointRepo, ml,
		tagDiscovery{groups: []TagGroup{*NewTagGroup("red", []string{redProbe})}},
		realDecoder{},
		testPipelineCfg(), nopLogger{},
	)

	output := t.TempDir()
	res, err := search.Search(context.Background(), NewSearchReq(probeDir, output, SearchParams{Limit: 10}, false))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Groups)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, 1, res.Downloaded)
	assert.Equal(t, 0, res.Failed)

	downloaded, err := os.ReadFile(filepath.Join(output, "red", "corpus_red.png"))
	require.NoError(t, err)

	original, err := os.ReadFile(corpusFile)
	require.NoError(t, err)
	assert.Equal(t, original, downloaded, "downloaded match must be byte-identical to the indexed source")
}

func TestSearch_NoProbeImages(t *testing.T) {
	search := NewSearchUC(
		newFakeBlobRepo(), newFakePointRepo(), &fakeML{},
		tagDiscovery{}, realDecoder{},
		testPipelineCfg(), nopLogger{},
	)

	_, err := search.Search(context.Background(), NewSearchReq(t.TempDir(), "", SearchParams{Limit: 10}, false))
	require.Error(t, err)
}

func TestSearchImage_FindsIndexedImage(t *testing.T) {
	corpusDir := t.TempDir()
	corpusFile := writePNG(t, corpusDir, "green.png", color.RGBA{G: 255, A: 255})

	blobRepo := newFakeBlobRepo()
	pointRepo := newFakePointRepo()
	ml := &fakeML{}

	ingest := newTestIngestUC(blobRepo, pointRepo, ml)
	_, err := ingest.Ingest(context.Background(), NewIngestReq(corpusDir))
	require.NoError(t, err)

	search := NewSearchUC(
		blobRepo, pointRepo, ml,
		tagDiscovery{}, realDecoder{},
		testPipelineCfg(), nopLogger{},
	)

	data, err := os.ReadFile(corpusFile)
	require.NoError(t, err)

	results, err := search.SearchImage(context.Background(), data, SearchParams{Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)

	sum, err := hash.SumFile(corpusFile)
	require.NoError(t, err)
	assert.Equal(t, sum, results[0].Hash)
	assert.Equal(t, "green.png", results[0].Path)
}

func TestSearchImage_RejectsNonImage(t *testing.T) {
	search := NewSearchUC(
		newFakeBlobRepo(), newFakePointRepo(), &fakeML{},
		tagDiscovery{}, realDecoder{},
		testPipelineCfg(), nopLogger{},
	)

	_, err := search.SearchImage(context.Background(), []byte("not an image"), SearchParams{Limit: 5})
	require.Error(t, err)
}
