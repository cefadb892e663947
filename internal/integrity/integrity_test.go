package integrity_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc-project/rc/internal/integrity"
	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/model"
)

func TestDigestBytes_KnownValue(t *testing.T) {
	// BLAKE3 of the empty input.
	assert.Equal(t,
		integrity.Digest("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"),
		integrity.DigestBytes(nil))
}

func TestDigestReader(t *testing.T) {
	d, n, err := integrity.DigestReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, integrity.DigestBytes([]byte("hello")), d)
	assert.Len(t, d.Short(), 12)
}

func TestManifestDigest_IgnoresFormatting(t *testing.T) {
	a, err := model.DecodeManifest(strings.NewReader("dublin_core:\n  title: ULB\n  conformsto: rc0.2\nprojects: []\n"))
	require.NoError(t, err)
	b, err := model.DecodeManifest(strings.NewReader("projects: []\ndublin_core: {conformsto: 'rc0.2', title: \"ULB\", extra: 1}\n"))
	require.NoError(t, err)

	da, err := integrity.ManifestDigest(a)
	require.NoError(t, err)
	db, err := integrity.ManifestDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	b.DublinCore.Title = "UDB"
	dc, err := integrity.ManifestDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)
}

func TestDigestTree_SameForDirectoryAndArchive(t *testing.T) {
	files := map[string]string{
		"manifest.yaml":  "dublin_core: {}\n",
		"gen/01/01.usfm": "\\c 1",
		"gen/01/02.usfm": "\\v 2",
	}
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "rc")
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}

	zipPath := filepath.Join(tmp, "rc.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create("rc/" + name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	d := accessor.New(dir, accessor.Options{})
	defer d.Close()
	z := accessor.New(zipPath, accessor.Options{})
	defer z.Close()

	td, err := integrity.DigestTree(d, "")
	require.NoError(t, err)
	tz, err := integrity.DigestTree(z, "")
	require.NoError(t, err)
	assert.Equal(t, td.Root, tz.Root)
	assert.Equal(t, td.Entries, tz.Entries)
	assert.Equal(t, int64(len("dublin_core: {}\n")+8), td.Size)

	sub, err := integrity.DigestTree(d, "gen")
	require.NoError(t, err)
	require.Len(t, sub.Entries, 2)
	assert.Equal(t, "01/01.usfm", sub.Entries[0].Path)
	assert.NotEqual(t, td.Root, sub.Root)
}

func TestDigestTree_DetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("original"), 0644))
	acc := accessor.New(dir, accessor.Options{})

	before, err := integrity.DigestTree(acc, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, []byte("modified"), 0644))
	after, err := integrity.DigestTree(acc, "")
	require.NoError(t, err)
	assert.NotEqual(t, before.Root, after.Root)
}

func TestDigestTree_Empty(t *testing.T) {
	acc := accessor.New(filepath.Join(t.TempDir(), "missing"), accessor.Options{})
	tree, err := integrity.DigestTree(acc, "")
	require.NoError(t, err)
	assert.Empty(t, tree.Entries)
	assert.Equal(t, integrity.DigestBytes(nil), tree.Root)
}
