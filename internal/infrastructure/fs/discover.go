package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/jimlawless/whereami"
)

// imageExts — расширения, которые обходчик считает изображениями.
// Сам файл валидируется уже декодером, расширение лишь отсекает мусор.
var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// Discovery обходит файловую систему и находит изображения для индексации и поиска.
type Discovery struct{}

func NewDiscovery() *Discovery {
	return &Discovery{}
}

// Images рекурсивно собирает пути всех изображений под корнем.
// Порядок детерминирован порядком обхода WalkDir.
func (d *Discovery) Images(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if isImagePath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return paths, nil
}

// TagGroups разбивает вход на группы эталонных изображений.
// Файл — одна группа с тегом по имени родительской папки; директория —
// группа на каждую подпапку с изображениями первого уровня. Пустые
// подпапки пропускаются.
func (d *Discovery) TagGroups(input string) ([]usecase.TagGroup, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if !info.IsDir() {
		if !isImagePath(input) {
			return nil, e.Wrap(input, e.ErrNotAnImage)
		}
		tag := filepath.Base(filepath.Dir(input))
		return []usecase.TagGroup{*usecase.NewTagGroup(tag, []string{input})}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var groups []usecase.TagGroup
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		files, err := directImages(filepath.Join(input, entry.Name()))
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if len(files) == 0 {
			continue
		}

		groups = append(groups, *usecase.NewTagGroup(entry.Name(), files))
	}

	// Вход без подпапок трактуем как одну группу из изображений верхнего уровня.
	if len(groups) == 0 {
		files, err := directImages(input)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if len(files) > 0 {
			groups = append(groups, *usecase.NewTagGroup(filepath.Base(input), files))
		}
	}

	return groups, nil
}

// directImages возвращает изображения первого уровня директории без рекурсии.
func directImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isImagePath(path) {
			files = append(files, path)
		}
	}

	return files, nil
}

func isImagePath(path string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(path))]
	return ok
}
