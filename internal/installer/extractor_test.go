package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(content)),
		}))
		_, err = tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		hdr.SetMode(0755)
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestUnpackTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "gh_2.49.0_linux_amd64.tar.gz")
	writeTarGz(t, archive, map[string]string{
		"gh_2.49.0_linux_amd64/bin/gh":    "#!/bin/sh\necho gh\n",
		"gh_2.49.0_linux_amd64/LICENSE":   "MIT",
		"gh_2.49.0_linux_amd64/share/doc": "docs",
	})

	dest := t.TempDir()
	extracted, err := Unpack(archive, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "gh_2.49.0_linux_amd64"), extracted)

	data, err := os.ReadFile(filepath.Join(extracted, "bin", "gh"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "echo gh")
}

func TestUnpackZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "gh_2.49.0_macOS_arm64.zip")
	writeZip(t, archive, map[string]string{
		"gh_2.49.0_macOS_arm64/bin/gh": "binary-bytes",
	})

	dest := t.TempDir()
	extracted, err := Unpack(archive, dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "gh_2.49.0_macOS_arm64"), extracted)

	_, err = os.Stat(filepath.Join(extracted, "bin", "gh"))
	assert.NoError(t, err)
}

func TestUnpackRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest")
	require.NoError(t, os.MkdirAll(dest, 0755))
	outside := filepath.Join(dir, "escaped")

	tarball := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, tarball, map[string]string{
		"../escaped": "should never land here",
	})
	_, err := Unpack(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, "escapes extraction directory")

	zipFile := filepath.Join(dir, "evil.zip")
	writeZip(t, zipFile, map[string]string{
		"ok.txt":     "fine",
		"../escaped": "should never land here",
	})
	_, err = Unpack(zipFile, dest)
	require.Error(t, err)

	_, statErr := os.Stat(outside)
	assert.True(t, os.IsNotExist(statErr), "no file may be written outside the destination")
}

func TestUnpackUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "gh.rar")
	require.NoError(t, os.WriteFile(archive, []byte("not really"), 0644))

	_, err := Unpack(archive, t.TempDir())
	assert.Error(t, err)
}

func TestFindExecutable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "LICENSE"), []byte("MIT"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "gh"), []byte("bin"), 0755))

	found, err := FindExecutable(root, "gh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bin", "gh"), found)
}

func TestFindExecutableIgnoresNonExecutableMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "gh"), []byte("just a text file"), 0644))

	_, err := FindExecutable(root, "gh")
	assert.Error(t, err)
}

func TestSupportedArchive(t *testing.T) {
	assert.True(t, supportedArchive("gh_2.49.0_macos_arm64.zip"))
	assert.True(t, supportedArchive("gh_2.49.0_linux_amd64.tar.gz"))
	assert.True(t, supportedArchive("tool.tar.xz"))
	assert.True(t, supportedArchive("tool.7z"))
	assert.False(t, supportedArchive("gh_2.49.0_checksums.txt"))
	assert.False(t, supportedArchive("gh_2.49.0_linux_amd64.deb"))
}
