package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeBytes(t *testing.T) {
	i := NewImaging()

	img, err := i.DecodeBytes(solidPNG(t, 10, 20, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestDecodeBytes_Garbage(t *testing.T) {
	i := NewImaging()

	_, err := i.DecodeBytes([]byte("definitely not an image"))
	require.Error(t, err)
}

func TestPreprocess_OutputShape(t *testing.T) {
	const size = 64

	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := Preprocess(img, size)

	assert.Len(t, out, size*size*3)
}

func TestPreprocess_LetterboxIsWhite(t *testing.T) {
	const size = 8

	// Широкая черная картинка: сверху и снизу должны остаться белые поля
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}

	out := Preprocess(img, size)

	rgbAt := func(x, y int) [3]byte {
		off := (y*size + x) * 3
		return [3]byte{out[off], out[off+1], out[off+2]}
	}

	white := [3]byte{255, 255, 255}
	assert.Equal(t, white, rgbAt(0, 0), "top letterbox row must be white")
	assert.Equal(t, white, rgbAt(size-1, size-1), "bottom letterbox row must be white")

	// Центр занят содержимым, не белый
	assert.NotEqual(t, white, rgbAt(size/2, size/2))
}

func TestPreprocess_SquareFillsCanvas(t *testing.T) {
	const size = 16

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	out := Preprocess(img, size)

	// Квадратный вход масштабируется без полей: углы — содержимое
	corners := [][2]int{{0, 0}, {size - 1, 0}, {0, size - 1}, {size - 1, size - 1}}
	for _, c := range corners {
		off := (c[1]*size + c[0]) * 3
		assert.Greater(t, out[off], byte(200), "corner (%d,%d) must hold scaled content", c[0], c[1])
	}
}
