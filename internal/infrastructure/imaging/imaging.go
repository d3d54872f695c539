package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/jimlawless/whereami"
)

// Imaging декодирует изображения поддерживаемых форматов и готовит их
// к векторизации. Поддержка форматов задаётся blank-импортами декодеров.
type Imaging struct{}

func NewImaging() *Imaging {
	return &Imaging{}
}

// DecodeFile декодирует изображение из файла.
func (i *Imaging) DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotAnImage)
	}

	return img, nil
}

// DecodeBytes декодирует изображение из памяти.
func (i *Imaging) DecodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotAnImage)
	}

	return img, nil
}

// Preprocess приводит изображение к квадрату size x size: вписывает с сохранением
// пропорций, поля добивает белым, результат — сырые RGB-байты построчно.
// Формат согласован с входом сервиса векторизации.
func Preprocess(img image.Image, size int) []byte {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > 0 && h > 0 {
		scaledW, scaledH := size, size
		if w > h {
			scaledH = h * size / w
		} else if h > w {
			scaledW = w * size / h
		}

		x0 := (size - scaledW) / 2
		y0 := (size - scaledH) / 2
		dst := image.Rect(x0, y0, x0+scaledW, y0+scaledH)
		xdraw.CatmullRom.Scale(canvas, dst, img, bounds, xdraw.Over, nil)
	}

	rgb := make([]byte, 0, size*size*3)
	for i := 0; i < len(canvas.Pix); i += 4 {
		rgb = append(rgb, canvas.Pix[i], canvas.Pix[i+1], canvas.Pix[i+2])
	}

	return rgb
}
