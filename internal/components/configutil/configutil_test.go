package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Count   int               `json:"count"`
	Headers map[string]string `json:"headers"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "plateanet.json5", expected: "plateanet.local.json5"},
		{input: filepath.Join("a", "b", "config.json"), expected: filepath.Join("a", "b", "config.local.json")},
		{input: "noext", expected: "noext.local"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, LocalPath(row.input))
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.json5"), `{
		// comments are allowed
		name: "default",
		count: 2,
	}`)
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{ count: 5 }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 5, cfg.Count)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{ name: "local" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "app.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.json5"), `{ name: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	writeFile(t, filepath.Join(root, "app.json5"), `{ name: "root", headers: { x: "y" } }`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() {
		os.Chdir(wd)
	})

	cfg, err := ReadRecursively[testConfig]("app.json5")
	require.NoError(t, err)
	require.Equal(t, "root", cfg.Name)
	require.Equal(t, map[string]string{"x": "y"}, cfg.Headers)
}
