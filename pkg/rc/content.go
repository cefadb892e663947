package rc

import (
	"io"
	"sort"
	"strings"

	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/pathutil"
)

// Content is a set of open streams into one project's files, keyed by path
// relative to the project directory. The streams become invalid when the
// container is closed or written to.
type Content struct {
	Project *model.Project
	Streams map[string]*accessor.Stream
}

// Paths returns the stream keys in sorted order.
func (c *Content) Paths() []string {
	paths := make([]string, 0, len(c.Streams))
	for p := range c.Streams {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Close closes every stream, returning the first error.
func (c *Content) Close() error {
	var first error
	for _, s := range c.Streams {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// projectDir returns the normalized content directory of p.
func projectDir(p *model.Project) (string, error) {
	if pathutil.Escapes(p.Path) {
		return "", errclass.ErrPathEscape.WithMessagef("project %s path %q escapes the container", p.Identifier, p.Path)
	}
	return pathutil.Normalize(p.Path), nil
}

// resolveDir resolves a project and its directory. A nil project means no
// match.
func (c *Container) resolveDir(identifier string) (*model.Project, string, error) {
	p, err := c.Project(identifier)
	if err != nil || p == nil {
		return nil, "", err
	}
	dir, err := projectDir(p)
	if err != nil {
		return nil, "", err
	}
	return p, dir, nil
}

// GetProjectContent opens every file under the project's path that has one
// of extensions, or every file when none are given. It returns nil when the
// project does not exist or no file matches. Each call opens fresh streams.
func (c *Container) GetProjectContent(identifier string, extensions ...string) (*Content, error) {
	p, dir, err := c.resolveDir(identifier)
	if err != nil || p == nil {
		return nil, err
	}
	streams, err := c.acc.OpenAll(dir, extensions...)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, nil
	}
	return &Content{Project: p, Streams: streams}, nil
}

// ChunkExtension returns the file extension used for chunks, derived from
// dublin_core.format.
func (c *Container) ChunkExtension() (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	return model.ChunkExt(c.manifest.DublinCore.Format), nil
}

// Chapters returns the sorted chapter directory names of a project.
func (c *Container) Chapters(identifier string) ([]string, error) {
	p, dir, err := c.resolveDir(identifier)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return []string{}, nil
	}
	files, err := c.acc.List(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	chapters := []string{}
	for _, f := range files {
		chapter, _, nested := strings.Cut(f, "/")
		if !nested || seen[chapter] {
			continue
		}
		seen[chapter] = true
		chapters = append(chapters, chapter)
	}
	sort.Strings(chapters)
	return chapters, nil
}

// Chunks returns the sorted chunk names of a chapter: its file names up to
// the first dot.
func (c *Container) Chunks(identifier, chapter string) ([]string, error) {
	p, dir, err := c.resolveDir(identifier)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return []string{}, nil
	}
	files, err := c.acc.List(pathutil.Join(dir, chapter))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	chunks := []string{}
	for _, f := range files {
		if strings.Contains(f, "/") {
			continue
		}
		chunk, _, _ := strings.Cut(f, ".")
		if seen[chunk] {
			continue
		}
		seen[chunk] = true
		chunks = append(chunks, chunk)
	}
	sort.Strings(chunks)
	return chunks, nil
}

func (c *Container) chunkPath(dir, chapter, chunk string) string {
	return pathutil.Join(dir, chapter, chunk+"."+model.ChunkExt(c.manifest.DublinCore.Format))
}

// ReadChunk returns the text of a chunk, or "" when it does not exist.
func (c *Container) ReadChunk(identifier, chapter, chunk string) (string, error) {
	p, dir, err := c.resolveDir(identifier)
	if err != nil || p == nil {
		return "", err
	}
	name := c.chunkPath(dir, chapter, chunk)
	if !c.acc.FileExists(name) {
		return "", nil
	}
	r, err := c.acc.OpenText(name)
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errclass.ErrIO.Wrap(err, "read %s", name)
	}
	return string(b), nil
}

// WriteChunk writes the text of a chunk. Empty text removes the chunk.
func (c *Container) WriteChunk(identifier, chapter, chunk, text string) error {
	p, dir, err := c.resolveDir(identifier)
	if err != nil {
		return err
	}
	if p == nil {
		return errclass.ErrNotFound.WithMessagef("project %q not found", identifier)
	}
	name := c.chunkPath(dir, chapter, chunk)
	if text == "" {
		return c.acc.Remove(name)
	}
	return c.acc.Write(name, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

// TOC reads the project's toc.yaml. It returns nil when there is none.
func (c *Container) TOC(identifier string) (*model.TableOfContents, error) {
	p, dir, err := c.resolveDir(identifier)
	if err != nil || p == nil {
		return nil, err
	}
	name := pathutil.Join(dir, model.TOCFile)
	if !c.acc.FileExists(name) {
		return nil, nil
	}
	r, err := c.acc.OpenText(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	toc, err := model.DecodeTOC(r)
	if err != nil {
		return nil, errclass.ErrManifestInvalid.Wrap(err, "read %s", name)
	}
	return toc, nil
}

// WriteTOC writes toc.yaml into the project's directory.
func (c *Container) WriteTOC(identifier string, toc *model.TableOfContents) error {
	p, dir, err := c.resolveDir(identifier)
	if err != nil {
		return err
	}
	if p == nil {
		return errclass.ErrNotFound.WithMessagef("project %q not found", identifier)
	}
	return c.acc.Write(pathutil.Join(dir, model.TOCFile), encodeFunc(toc))
}
