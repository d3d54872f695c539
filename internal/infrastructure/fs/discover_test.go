package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestImages_RecursiveWalk(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "sub", "b.PNG"))
	touch(t, filepath.Join(root, "sub", "deep", "c.webp"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "data.json"))

	d := NewDiscovery()
	paths, err := d.Images(root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.jpg"),
		filepath.Join(root, "sub", "b.PNG"),
		filepath.Join(root, "sub", "deep", "c.webp"),
	}, paths)
}

func TestImages_MissingRoot(t *testing.T) {
	d := NewDiscovery()
	_, err := d.Images(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestTagGroups_SingleFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "cats", "probe.jpg")
	touch(t, file)

	d := NewDiscovery()
	groups, err := d.TagGroups(file)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "cats", groups[0].Tag)
	assert.Equal(t, []string{file}, groups[0].Files)
}

func TestTagGroups_SingleFileNotAnImage(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "notes.txt")
	touch(t, file)

	d := NewDiscovery()
	_, err := d.TagGroups(file)
	require.Error(t, err)
}

func TestTagGroups_FolderOfTags(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "cats", "a.jpg"))
	touch(t, filepath.Join(root, "cats", "b.png"))
	touch(t, filepath.Join(root, "dogs", "c.jpeg"))
	touch(t, filepath.Join(root, "empty", "readme.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bare"), 0o755))

	d := NewDiscovery()
	groups, err := d.TagGroups(root)
	require.NoError(t, err)

	require.Len(t, groups, 2)

	byTag := map[string][]string{}
	for _, g := range groups {
		byTag[g.Tag] = g.Files
	}

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "cats", "a.jpg"),
		filepath.Join(root, "cats", "b.png"),
	}, byTag["cats"])
	assert.Equal(t, []string{filepath.Join(root, "dogs", "c.jpeg")}, byTag["dogs"])
}

func TestTagGroups_FlatFolder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "probes")
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "b.png"))

	d := NewDiscovery()
	groups, err := d.TagGroups(dir)
	require.NoError(t, err)

	// Папка без подпапок — одна группа с именем самой папки
	require.Len(t, groups, 1)
	assert.Equal(t, "probes", groups[0].Tag)
	assert.Len(t, groups[0].Files, 2)
}
