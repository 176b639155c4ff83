package archive_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchyard/pkg/adapters/archive"
)

func makeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
}

func TestZip_Unzip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mdk.zip")
	makeZip(t, src, map[string]string{
		"mdk/build.gradle":      "plugins {}",
		"mdk/src/main/Mod.java": "class Mod {}",
		"mdk/gradle.properties": "mod_id=examplemod",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, archive.New().Unzip(context.Background(), src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "mdk", "src", "main", "Mod.java"))
	require.NoError(t, err)
	assert.Equal(t, "class Mod {}", string(data))
}

func TestZip_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	makeZip(t, src, map[string]string{"../escape.txt": "x"})

	err := archive.New().Unzip(context.Background(), src, filepath.Join(dir, "out"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestZip_MissingArchive(t *testing.T) {
	err := archive.New().Unzip(context.Background(), filepath.Join(t.TempDir(), "nope.zip"), t.TempDir())
	assert.Error(t, err)
}
