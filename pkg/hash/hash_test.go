package hash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSumFile_DependsOnContentOnly(t *testing.T) {
	data := []byte("same bytes, different names")

	a := writeFile(t, "a.png", data)
	b := writeFile(t, "totally_different_name.jpg", data)

	sumA, err := SumFile(a)
	require.NoError(t, err)
	sumB, err := SumFile(b)
	require.NoError(t, err)

	assert.Equal(t, sumA, sumB)
}

func TestSumFile_ChangesOnBitFlip(t *testing.T) {
	data := []byte("some image bytes")

	orig := writeFile(t, "orig.bin", data)

	flipped := make([]byte, len(data))
	copy(flipped, data)
	flipped[0] ^= 1
	mod := writeFile(t, "mod.bin", flipped)

	sumOrig, err := SumFile(orig)
	require.NoError(t, err)
	sumMod, err := SumFile(mod)
	require.NoError(t, err)

	assert.NotEqual(t, sumOrig, sumMod)
}

func TestSumFile_MatchesSumBytes(t *testing.T) {
	data := []byte("streamed and in-memory hashing must agree")
	path := writeFile(t, "f.bin", data)

	fromFile, err := SumFile(path)
	require.NoError(t, err)

	assert.Equal(t, SumBytes(data), fromFile)
	assert.Len(t, fromFile, 64) // 32 байта hex-кодом
}

func TestSumFile_MissingFile(t *testing.T) {
	_, err := SumFile(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
