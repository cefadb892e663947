package rc_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/rc"
)

func manifestYAML(conformsTo string, projects ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dublin_core:\n  type: book\n  conformsto: %s\n  format: text/usfm\n", conformsTo)
	b.WriteString("  identifier: ulb\n  title: Unlocked Literal Bible\n  version: \"12\"\n")
	b.WriteString("  language:\n    identifier: en\n    title: English\n")
	b.WriteString("checking:\n  checking_level: \"3\"\n")
	b.WriteString("projects:\n")
	for i, id := range projects {
		fmt.Fprintf(&b, "  - identifier: %s\n    title: %s\n    sort: %d\n    path: ./%s\n", id, strings.ToUpper(id), i+1, id)
	}
	return b.String()
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}
}

// zipTree stores files under prefix, the way zipping a folder does.
func zipTree(t *testing.T, path, prefix string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w, err := zw.Create(prefix + n)
		require.NoError(t, err)
		_, err = io.WriteString(w, files[n])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// fixtures returns a directory container and a zipped copy of it.
func fixtures(t *testing.T, files map[string]string) (dir, archive string) {
	t.Helper()
	tmp := t.TempDir()
	dir = filepath.Join(tmp, "en_ulb")
	writeTree(t, dir, files)
	archive = filepath.Join(tmp, "en_ulb.zip")
	zipTree(t, archive, "en_ulb/", files)
	return dir, archive
}

func bothBackends(t *testing.T, files map[string]string, fn func(t *testing.T, path string)) {
	dir, archive := fixtures(t, files)
	t.Run("directory", func(t *testing.T) { fn(t, dir) })
	t.Run("archive", func(t *testing.T) { fn(t, archive) })
}

func openT(t *testing.T, path string, opts rc.Options) *rc.Container {
	t.Helper()
	c, err := rc.Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

var bookFiles = map[string]string{
	"manifest.yaml":       manifestYAML("rc0.2", "gen"),
	"gen/01/01.usfm":      "\\c 1 \\v 1 In the beginning",
	"gen/01/02.usfm":      "\\v 2 The earth",
	"gen/02/01.usfm":      "\\c 2 \\v 1 Thus",
	"gen/front/title.txt": "Genesis",
	"gen/toc.yaml":        "- title: Genesis\n  link: gen\n  sections:\n    - title: Chapter 1\n      link: \"01\"\n",
}

func TestOpen_Backends(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c := openT(t, path, rc.Options{})
		assert.Equal(t, rc.StateReady, c.State())

		ids, err := c.ProjectIDs()
		require.NoError(t, err)
		assert.Equal(t, []string{"gen"}, ids)

		n, err := c.ProjectCount()
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		v, err := c.ConformsTo()
		require.NoError(t, err)
		assert.Equal(t, "0.2", v)

		typ, err := c.Type()
		require.NoError(t, err)
		assert.Equal(t, "book", typ)

		res, err := c.Resource()
		require.NoError(t, err)
		assert.Equal(t, model.Resource{
			Slug: "ulb", Title: "Unlocked Literal Bible", Type: "book",
			CheckingLevel: "3", Version: "12",
		}, res)
	})
}

func TestOpen_MissingManifest(t *testing.T) {
	bothBackends(t, map[string]string{"gen/01/01.usfm": "x"}, func(t *testing.T, path string) {
		_, err := rc.Open(path, rc.Options{})
		assert.True(t, errors.Is(err, errclass.ErrMissingManifest))

		c := openT(t, path, rc.Options{Lenient: true})
		n, err := c.ProjectCount()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestOpen_LenientReadsMediaWithoutManifest(t *testing.T) {
	files := map[string]string{
		"media.yaml":     "projects:\n  - identifier: gen\n    version: \"12\"\n    media: []\n",
		"gen/01/01.usfm": "x",
	}
	// Without a manifest a zipped folder has no root, so the archive is flat.
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "en_ulb")
	writeTree(t, dir, files)
	archive := filepath.Join(tmp, "en_ulb.zip")
	zipTree(t, archive, "", files)

	for _, path := range []string{dir, archive} {
		c := openT(t, path, rc.Options{Lenient: true})
		media, err := c.Media()
		require.NoError(t, err)
		require.NotNil(t, media)
		require.NotNil(t, media.FindProject("gen"))
		assert.Equal(t, "12", media.FindProject("gen").Version)
	}
}

func TestOpen_InvalidManifest(t *testing.T) {
	dir, _ := fixtures(t, map[string]string{"manifest.yaml": "dublin_core: [unclosed"})
	_, err := rc.Open(dir, rc.Options{})
	assert.True(t, errors.Is(err, errclass.ErrManifestInvalid))
}

func TestOpen_VersionContract(t *testing.T) {
	tests := []struct {
		conformsTo string
		want       *errclass.RCError
	}{
		{"rc0.2", nil},
		{"0.2", nil},
		{"rc0.2.0", nil},
		{"rc0.*", nil},
		{"rc0.1", errclass.ErrOutdatedFormat},
		{"rc0.0.9", errclass.ErrOutdatedFormat},
		{"rc0.3", errclass.ErrUnsupportedFormat},
		{"rc1.0", errclass.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.conformsTo, func(t *testing.T) {
			dir, _ := fixtures(t, map[string]string{"manifest.yaml": manifestYAML(tt.conformsTo)})
			c, err := rc.Open(dir, rc.Options{})
			if tt.want == nil {
				require.NoError(t, err)
				c.Close()
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			var verr *errclass.VersionError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "0.2", verr.Expected)

			lenient, err := rc.Open(dir, rc.Options{Lenient: true})
			require.NoError(t, err)
			lenient.Close()
		})
	}
}

func TestOpen_VersionMessage(t *testing.T) {
	dir, _ := fixtures(t, map[string]string{"manifest.yaml": manifestYAML("rc0.1")})
	_, err := rc.Open(dir, rc.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 0.1 but expected 0.2")
}

func TestProject_Disambiguation(t *testing.T) {
	for _, tc := range []struct {
		name     string
		projects []string
	}{
		{"none", nil},
		{"one", []string{"gen"}},
		{"two", []string{"gen", "exo"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir, _ := fixtures(t, map[string]string{"manifest.yaml": manifestYAML("rc0.2", tc.projects...)})
			c := openT(t, dir, rc.Options{})

			p, err := c.Project("")
			switch len(tc.projects) {
			case 0:
				assert.NoError(t, err)
				assert.Nil(t, p)
			case 1:
				require.NoError(t, err)
				require.NotNil(t, p)
				assert.Equal(t, "gen", p.Identifier)
			default:
				assert.True(t, errors.Is(err, errclass.ErrMultipleProjects))
				assert.Nil(t, p)

				exo, err := c.Project("exo")
				require.NoError(t, err)
				assert.Equal(t, "EXO", exo.Title)
			}

			missing, err := c.Project("rev")
			assert.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

func TestGetProjectContent_ExtensionFilter(t *testing.T) {
	files := map[string]string{
		"manifest.yaml":     manifestYAML("rc0.2", "audio"),
		"audio/01/a.wav":    "a",
		"audio/01/b.wav":    "b",
		"audio/02/c.wav":    "c",
		"audio/01/a.mp3":    "d",
		"audio/02/c.mp3":    "e",
		"other/ignored.wav": "f",
	}
	bothBackends(t, files, func(t *testing.T, path string) {
		c := openT(t, path, rc.Options{})

		wav, err := c.GetProjectContent("audio", "wav")
		require.NoError(t, err)
		require.NotNil(t, wav)
		assert.Equal(t, []string{"01/a.wav", "01/b.wav", "02/c.wav"}, wav.Paths())
		assert.Equal(t, "audio", wav.Project.Identifier)
		b, err := io.ReadAll(wav.Streams["02/c.wav"])
		require.NoError(t, err)
		assert.Equal(t, "c", string(b))
		require.NoError(t, wav.Close())

		mp3, err := c.GetProjectContent("", "mp3")
		require.NoError(t, err)
		require.NotNil(t, mp3)
		assert.Len(t, mp3.Streams, 2)

		all, err := c.GetProjectContent("audio")
		require.NoError(t, err)
		assert.Len(t, all.Streams, 5)

		none, err := c.GetProjectContent("audio", "ogg")
		require.NoError(t, err)
		assert.Nil(t, none)

		unknown, err := c.GetProjectContent("nope", "wav")
		require.NoError(t, err)
		assert.Nil(t, unknown)
	})
}

func TestClose_InvalidatesContent(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c, err := rc.Open(path, rc.Options{})
		require.NoError(t, err)

		content, err := c.GetProjectContent("gen", "usfm")
		require.NoError(t, err)
		require.Len(t, content.Streams, 3)

		require.NoError(t, c.Close())
		assert.Equal(t, rc.StateClosed, c.State())
		for _, s := range content.Streams {
			assert.False(t, s.Valid())
			n, err := s.Read(make([]byte, 16))
			assert.Zero(t, n)
			assert.Error(t, err)
		}

		require.NoError(t, c.Close())
		_, err = c.Project("gen")
		assert.True(t, errors.Is(err, errclass.ErrClosed))
		_, err = c.GetProjectContent("gen")
		assert.True(t, errors.Is(err, errclass.ErrClosed))
		assert.True(t, errors.Is(c.Write(), errclass.ErrClosed))
		_, err = c.Manifest()
		assert.True(t, errors.Is(err, errclass.ErrClosed))
	})
}

func TestWrite_InvalidatesContent(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c := openT(t, path, rc.Options{})
		content, err := c.GetProjectContent("gen", "usfm")
		require.NoError(t, err)

		require.NoError(t, c.WriteManifest())
		for _, s := range content.Streams {
			_, err := s.Read(make([]byte, 1))
			assert.True(t, errors.Is(err, errclass.ErrClosed))
		}

		again, err := c.GetProjectContent("gen", "usfm")
		require.NoError(t, err)
		assert.Len(t, again.Streams, 3)
	})
}

func TestCreate_DefaultsAndPersists(t *testing.T) {
	tmp := t.TempDir()
	for _, path := range []string{filepath.Join(tmp, "dir_rc"), filepath.Join(tmp, "zip_rc.zip")} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			c, err := rc.Create(path, func(c *rc.Container) error {
				m, err := c.Manifest()
				if err != nil {
					return err
				}
				m.DublinCore.Identifier = "tn"
				m.DublinCore.Type = "help"
				m.DublinCore.Format = "text/markdown"
				m.Projects = append(m.Projects, model.Project{Identifier: "gen", Path: "./content"})
				return nil
			}, rc.Options{})
			require.NoError(t, err)

			v, err := c.ConformsTo()
			require.NoError(t, err)
			assert.Equal(t, rc.ConformsTo, v)
			m, err := c.Manifest()
			require.NoError(t, err)
			assert.Equal(t, "rc0.2", m.DublinCore.ConformsTo)

			_, err = os.Stat(path)
			assert.True(t, os.IsNotExist(err), "nothing written before Write")

			require.NoError(t, c.Write())
			require.NoError(t, c.WriteChunk("gen", "01", "intro", "# Intro"))
			require.NoError(t, c.Close())

			reopened := openT(t, path, rc.Options{})
			typ, err := reopened.Type()
			require.NoError(t, err)
			assert.Equal(t, "help", typ)
			text, err := reopened.ReadChunk("gen", "01", "intro")
			require.NoError(t, err)
			assert.Equal(t, "# Intro", text)
		})
	}
}

func TestCreate_ContentBeforeManifest(t *testing.T) {
	src := filepath.Join(t.TempDir(), "01.usfm")
	require.NoError(t, os.WriteFile(src, []byte("\\c 1 \\v 1 In the beginning"), 0644))

	tmp := t.TempDir()
	for _, path := range []string{filepath.Join(tmp, "dir_rc"), filepath.Join(tmp, "zip_rc.zip")} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			c, err := rc.Create(path, func(c *rc.Container) error {
				m, err := c.Manifest()
				if err != nil {
					return err
				}
				m.DublinCore.Identifier = "ulb"
				m.DublinCore.Type = "book"
				m.Projects = append(m.Projects, model.Project{Identifier: "gen", Path: "./gen"})
				return nil
			}, rc.Options{})
			require.NoError(t, err)
			require.NoError(t, c.AddFile(src, "gen/01/01.usfm"))
			require.NoError(t, c.Write())
			require.NoError(t, c.Close())

			reopened := openT(t, path, rc.Options{})
			acc, err := reopened.Accessor()
			require.NoError(t, err)
			assert.Equal(t, "", acc.Root(), "the only content folder is not a root")
			assert.True(t, acc.FileExists("manifest.yaml"))
			assert.True(t, acc.FileExists("gen/01/01.usfm"))

			ids, err := reopened.ProjectIDs()
			require.NoError(t, err)
			assert.Equal(t, []string{"gen"}, ids)

			content, err := reopened.GetProjectContent("gen", "usfm")
			require.NoError(t, err)
			require.NotNil(t, content)
			assert.Equal(t, []string{"01/01.usfm"}, content.Paths())
			require.NoError(t, content.Close())
		})
	}
}

func TestCreate_InitError(t *testing.T) {
	boom := errors.New("boom")
	_, err := rc.Create(filepath.Join(t.TempDir(), "x"), func(*rc.Container) error { return boom }, rc.Options{})
	assert.ErrorIs(t, err, boom)
}

func TestManifest_PersistedOnlyOnWrite(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c, err := rc.Open(path, rc.Options{})
		require.NoError(t, err)
		m, err := c.Manifest()
		require.NoError(t, err)
		m.DublinCore.Type = "testType"
		require.NoError(t, c.Close())

		c = openT(t, path, rc.Options{})
		typ, err := c.Type()
		require.NoError(t, err)
		assert.Equal(t, "book", typ)

		m, err = c.Manifest()
		require.NoError(t, err)
		m.DublinCore.Type = "testType"
		require.NoError(t, c.WriteManifest())
		require.NoError(t, c.Close())

		c = openT(t, path, rc.Options{})
		typ, err = c.Type()
		require.NoError(t, err)
		assert.Equal(t, "testType", typ)

		// Content survives the manifest rewrite.
		text, err := c.ReadChunk("gen", "01", "02")
		require.NoError(t, err)
		assert.Equal(t, "\\v 2 The earth", text)
	})
}

func TestWrite_Media(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c, err := rc.Open(path, rc.Options{})
		require.NoError(t, err)
		media, err := c.Media()
		require.NoError(t, err)
		assert.Nil(t, media)
		require.NoError(t, c.WriteMedia(), "no media is a no-op")

		require.NoError(t, c.SetMedia(&model.MediaManifest{
			Projects: []model.MediaProject{{
				Identifier: "gen",
				Version:    "12",
				Media: []model.Media{{
					Identifier: "mp3",
					Version:    "12",
					URL:        "https://example.org/gen.mp3",
					Quality:    []string{"64kbps"},
					ChapterURL: "https://example.org/gen_{chapter}.mp3",
				}},
			}},
		}))
		require.NoError(t, c.Write())
		require.NoError(t, c.Close())

		c = openT(t, path, rc.Options{})
		media, err = c.Media()
		require.NoError(t, err)
		require.NotNil(t, media)
		mp := media.FindProject("gen")
		require.NotNil(t, mp)
		assert.Equal(t, "https://example.org/gen_{chapter}.mp3", mp.Media[0].ChapterURL)
	})
}

func TestWriteConfig_RequiresExistingFile(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		cfg := &rc.YAMLConfig{Data: map[string]any{"font": "serif"}}
		c := openT(t, path, rc.Options{Config: cfg})
		require.NoError(t, c.WriteConfig())

		acc, err := c.Accessor()
		require.NoError(t, err)
		assert.False(t, acc.FileExists(model.ConfigFile))
	})

	withConfig := map[string]string{
		"manifest.yaml": manifestYAML("rc0.2", "gen"),
		"config.yaml":   "font: sans\n",
	}
	bothBackends(t, withConfig, func(t *testing.T, path string) {
		cfg := &rc.YAMLConfig{}
		c, err := rc.Open(path, rc.Options{Config: cfg})
		require.NoError(t, err)
		assert.Equal(t, "sans", cfg.Data["font"])

		cfg.Data["font"] = "serif"
		require.NoError(t, c.WriteConfig())
		require.NoError(t, c.Close())

		reread := &rc.YAMLConfig{}
		openT(t, path, rc.Options{Config: reread})
		assert.Equal(t, "serif", reread.Data["font"])
	})
}

func TestAddFiles(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.wav": "aaa", "b.wav": "bbb"})

	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		var calls []string
		c := openT(t, path, rc.Options{
			Progress: func(op string, current, total int, message string) {
				calls = append(calls, fmt.Sprintf("%s %d/%d %s", op, current, total, message))
			},
		})

		require.NoError(t, c.AddFiles(map[string]string{
			"gen/audio/a.wav": filepath.Join(src, "a.wav"),
			"gen/audio/b.wav": filepath.Join(src, "b.wav"),
		}))
		assert.Equal(t, []string{"add 1/2 gen/audio/a.wav", "add 2/2 gen/audio/b.wav", "add 2/2 "}, calls)

		content, err := c.GetProjectContent("gen", "wav")
		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, []string{"audio/a.wav", "audio/b.wav"}, content.Paths())

		require.NoError(t, c.AddFile(filepath.Join(src, "a.wav"), "gen/audio/c.wav"))
		text, err := c.ReadChunk("gen", "audio", "c")
		require.NoError(t, err)
		assert.Empty(t, text, "chunk extension is usfm")

		err = c.AddFile(filepath.Join(src, "missing.wav"), "gen/audio/d.wav")
		assert.True(t, errors.Is(err, errclass.ErrNotFound))
		acc, err := c.Accessor()
		require.NoError(t, err)
		assert.False(t, acc.FileExists("gen/audio/d.wav"))
	})
}

func TestChaptersAndChunks(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c := openT(t, path, rc.Options{})

		ext, err := c.ChunkExtension()
		require.NoError(t, err)
		assert.Equal(t, "usfm", ext)

		chapters, err := c.Chapters("gen")
		require.NoError(t, err)
		assert.Equal(t, []string{"01", "02", "front"}, chapters)

		chunks, err := c.Chunks("", "01")
		require.NoError(t, err)
		assert.Equal(t, []string{"01", "02"}, chunks)

		text, err := c.ReadChunk("gen", "02", "01")
		require.NoError(t, err)
		assert.Equal(t, "\\c 2 \\v 1 Thus", text)

		missing, err := c.ReadChunk("gen", "09", "01")
		require.NoError(t, err)
		assert.Empty(t, missing)

		require.NoError(t, c.WriteChunk("gen", "02", "02", "\\v 2 So"))
		chunks, err = c.Chunks("gen", "02")
		require.NoError(t, err)
		assert.Equal(t, []string{"01", "02"}, chunks)

		require.NoError(t, c.WriteChunk("gen", "02", "01", ""))
		chunks, err = c.Chunks("gen", "02")
		require.NoError(t, err)
		assert.Equal(t, []string{"02"}, chunks)

		err = c.WriteChunk("exo", "01", "01", "x")
		assert.True(t, errors.Is(err, errclass.ErrNotFound))

		none, err := c.Chapters("exo")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestTOC(t *testing.T) {
	bothBackends(t, bookFiles, func(t *testing.T, path string) {
		c := openT(t, path, rc.Options{})

		toc, err := c.TOC("gen")
		require.NoError(t, err)
		require.NotNil(t, toc)
		require.Len(t, toc.Sections, 1)
		assert.Equal(t, "Genesis", toc.Sections[0].Title)
		assert.Equal(t, "01", toc.Sections[0].Sections[0].Link)

		require.NoError(t, c.WriteTOC("gen", &model.TableOfContents{
			Title:    "Genesis",
			Sections: []model.TableOfContents{{Title: "One", Link: "01"}},
		}))
		toc, err = c.TOC("gen")
		require.NoError(t, err)
		assert.Equal(t, "Genesis", toc.Title)
		assert.Equal(t, "One", toc.Sections[0].Title)

		none, err := c.TOC("exo")
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}

func TestOpen_ArchiveMatchesDirectory(t *testing.T) {
	dir, archive := fixtures(t, bookFiles)
	d := openT(t, dir, rc.Options{})
	z := openT(t, archive, rc.Options{})

	dc, err := d.Chapters("gen")
	require.NoError(t, err)
	zc, err := z.Chapters("gen")
	require.NoError(t, err)
	assert.Equal(t, dc, zc)

	for _, ch := range dc {
		dk, err := d.Chunks("gen", ch)
		require.NoError(t, err)
		zk, err := z.Chunks("gen", ch)
		require.NoError(t, err)
		assert.Equal(t, dk, zk)
	}

	za, err := z.Accessor()
	require.NoError(t, err)
	assert.Equal(t, "en_ulb", za.Root())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unopened", rc.StateUnopened.String())
	assert.Equal(t, "loading", rc.StateLoading.String())
	assert.Equal(t, "ready", rc.StateReady.String())
	assert.Equal(t, "closed", rc.StateClosed.String())
}

func TestOpen_DecomposedFileNames(t *testing.T) {
	files := map[string]string{
		"manifest.yaml":                    manifestYAML("rc0.2", "gen"),
		"gen/01/cafe\u0301.usfm":           "\\c 1 \\v 1 caf\u00e9",
		"gen/front/re\u0301sume\u0301.txt": "Genesis",
	}
	bothBackends(t, files, func(t *testing.T, path string) {
		c := openT(t, path, rc.Options{})
		acc, err := c.Accessor()
		require.NoError(t, err)

		listed, err := acc.List("gen")
		require.NoError(t, err)
		assert.Equal(t, []string{"01/caf\u00e9.usfm", "front/r\u00e9sum\u00e9.txt"}, listed)
		for _, name := range listed {
			assert.True(t, acc.FileExists("gen/"+name), name)
		}

		content, err := c.GetProjectContent("gen")
		require.NoError(t, err)
		require.NotNil(t, content)
		assert.Equal(t, listed, content.Paths())
		b, err := io.ReadAll(content.Streams["01/caf\u00e9.usfm"])
		require.NoError(t, err)
		assert.Equal(t, "\\c 1 \\v 1 caf\u00e9", string(b))
		require.NoError(t, content.Close())
	})
}
