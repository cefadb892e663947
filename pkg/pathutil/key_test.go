package pathutil_test

import (
	"testing"

	"github.com/rc-project/rc/pkg/pathutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                      "",
		".":                     "",
		"./":                    "",
		"/":                     "",
		"LICENSE.md":            "LICENSE.md",
		"./LICENSE.md":          "LICENSE.md",
		"content/01/01.usfm":    "content/01/01.usfm",
		"./content/01/01.usfm":  "content/01/01.usfm",
		"content\\01\\01.usfm":  "content/01/01.usfm",
		".\\content\\01.usfm":   "content/01.usfm",
		"content//01/./01.usfm": "content/01/01.usfm",
		"content/01/":           "content/01",
		"content/x/../01.usfm":  "content/01.usfm",
	}
	for in, want := range tests {
		assert.Equal(t, want, pathutil.Normalize(in), "Normalize(%q)", in)
	}
}

func TestNormalize_NFC(t *testing.T) {
	decomposed := "cafe\u0301.md"
	assert.Equal(t, "caf\u00e9.md", pathutil.Normalize(decomposed))
}

func TestEscapes(t *testing.T) {
	assert.True(t, pathutil.Escapes(".."))
	assert.True(t, pathutil.Escapes("../x"))
	assert.True(t, pathutil.Escapes("a/../../x"))
	assert.True(t, pathutil.Escapes("..\\x"))
	assert.False(t, pathutil.Escapes("a/../x"))
	assert.False(t, pathutil.Escapes("..x"))
	assert.False(t, pathutil.Escapes(""))
}

func TestRel(t *testing.T) {
	rel, ok := pathutil.Rel("content", "content/01/01.wav")
	assert.True(t, ok)
	assert.Equal(t, "01/01.wav", rel)

	_, ok = pathutil.Rel("content", "content")
	assert.False(t, ok)

	_, ok = pathutil.Rel("content", "contents/x")
	assert.False(t, ok)

	rel, ok = pathutil.Rel("", "manifest.yaml")
	assert.True(t, ok)
	assert.Equal(t, "manifest.yaml", rel)
}

func TestArchiveKeys(t *testing.T) {
	assert.Equal(t, []string{"manifest.yaml"}, pathutil.ArchiveKeys("", "./manifest.yaml"))
	assert.Equal(t,
		[]string{"en_ulb/content/01.usfm", "en_ulb\\content\\01.usfm"},
		pathutil.ArchiveKeys("en_ulb", "content\\01.usfm"))
	assert.Equal(t, []string{"en_ulb"}, pathutil.ArchiveKeys("en_ulb", "."))
	assert.Nil(t, pathutil.ArchiveKeys("", ""))
}

func TestIsArchive(t *testing.T) {
	assert.True(t, pathutil.IsArchive("/tmp/en_ulb.zip"))
	assert.True(t, pathutil.IsArchive("EN_ULB.ZIP"))
	assert.False(t, pathutil.IsArchive("/tmp/en_ulb"))
	assert.False(t, pathutil.IsArchive("/tmp/en_ulb.zip.d/"))
}

func TestMatchExt(t *testing.T) {
	assert.True(t, pathutil.MatchExt("01/01.wav", nil))
	assert.True(t, pathutil.MatchExt("01/01.wav", []string{"wav"}))
	assert.True(t, pathutil.MatchExt("01/01.WAV", []string{".wav"}))
	assert.True(t, pathutil.MatchExt("01/01.mp3", []string{"wav", "mp3"}))
	assert.False(t, pathutil.MatchExt("01/01.mp3", []string{"wav"}))
	assert.False(t, pathutil.MatchExt("01/README", []string{"wav"}))
}
