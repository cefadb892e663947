package accessor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"

	"github.com/rc-project/rc/internal/compression"
	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/fsutil"
	"github.com/rc-project/rc/pkg/logging"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/pathutil"
)

// replaceFile swaps the finished temp archive into place.
var replaceFile = fsutil.RenameAndSync

// Archive stores a container in a zip file.
//
// The zip handle is opened on first use and kept until Close or the next
// write. If the archive holds exactly one top level directory, every logical
// path is taken relative to it, so zipping a container folder yields an
// archive that reads the same as the folder.
type Archive struct {
	path string
	comp *compression.Compressor
	log  *logging.Logger

	// mu guards the handle and serializes writes.
	mu      sync.Mutex
	zr      *zip.ReadCloser
	raw     map[string]*zip.File
	logical map[string]*zip.File
	root    string
	streams streamSet
}

// NewArchive returns an accessor for the zip file at path. The file does not
// have to exist; the first write creates it.
func NewArchive(path string, opts Options) *Archive {
	return &Archive{
		path: path,
		comp: opts.compressor(),
		log:  opts.logger().Named("accessor.archive"),
	}
}

func (a *Archive) Kind() Kind   { return KindArchive }
func (a *Archive) Path() string { return a.path }

func (a *Archive) Root() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureOpen(); err != nil {
		return ""
	}
	return a.root
}

// ensureOpen opens the zip handle if needed. A missing archive is not an
// error; it reads as empty. Callers hold a.mu.
func (a *Archive) ensureOpen() error {
	if a.zr != nil {
		return nil
	}
	zr, err := zip.OpenReader(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.raw, a.logical, a.root = nil, nil, ""
			return nil
		}
		return errclass.ErrIO.Wrap(err, "open archive %s", a.path)
	}
	a.zr = zr
	a.root = detectRoot(zr.File)
	a.raw = make(map[string]*zip.File, len(zr.File))
	a.logical = make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if _, ok := a.raw[f.Name]; !ok {
			a.raw[f.Name] = f
		}
		if isDirEntry(f) {
			continue
		}
		if l, ok := a.logicalName(f); ok {
			if _, dup := a.logical[l]; !dup {
				a.logical[l] = f
			}
		}
	}
	a.log.Debug("opened archive", map[string]any{
		"path":    a.path,
		"entries": len(zr.File),
		"root":    a.root,
	})
	return nil
}

// closeHandle drops the zip handle. Callers hold a.mu.
func (a *Archive) closeHandle() error {
	if a.zr == nil {
		return nil
	}
	err := a.zr.Close()
	a.zr, a.raw, a.logical = nil, nil, nil
	return err
}

// detectRoot returns the single top level directory of an archive, or "".
// The directory only counts as a root when it holds the manifest, so an
// archive whose content happens to live under one folder keeps its layout.
func detectRoot(files []*zip.File) string {
	root := ""
	for _, f := range files {
		n := pathutil.Normalize(f.Name)
		if n == "" {
			continue
		}
		top, _, nested := strings.Cut(n, "/")
		if !nested && !isDirEntry(f) {
			return ""
		}
		if root == "" {
			root = top
		} else if root != top {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	marker := root + "/" + model.ManifestFile
	for _, f := range files {
		if !isDirEntry(f) && pathutil.Normalize(f.Name) == marker {
			return root
		}
	}
	return ""
}

func isDirEntry(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, "\\") || f.FileInfo().IsDir()
}

// logicalName maps an entry to its path relative to the archive root.
func (a *Archive) logicalName(f *zip.File) (string, bool) {
	n := pathutil.Normalize(f.Name)
	if a.root == "" {
		return n, n != ""
	}
	return pathutil.Rel(a.root, n)
}

// lookup finds the entry for a logical file path. Callers hold a.mu.
func (a *Archive) lookup(name string) *zip.File {
	for _, k := range pathutil.ArchiveKeys(a.root, name) {
		if f, ok := a.raw[k]; ok && !isDirEntry(f) {
			return f
		}
	}
	return a.logical[pathutil.Normalize(name)]
}

func (a *Archive) FileExists(name string) bool {
	if pathutil.Escapes(name) {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureOpen(); err != nil {
		return false
	}
	return a.lookup(name) != nil
}

func (a *Archive) List(dir string) ([]string, error) {
	if pathutil.Escapes(dir) {
		return nil, errclass.ErrPathEscape.WithMessagef("path %q escapes the container", dir)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureOpen(); err != nil {
		return nil, err
	}
	d := pathutil.Normalize(dir)
	files := []string{}
	for l := range a.logical {
		if rel, ok := pathutil.Rel(d, l); ok {
			files = append(files, rel)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (a *Archive) Open(name string) (*Stream, error) {
	if pathutil.Escapes(name) {
		return nil, errclass.ErrPathEscape.WithMessagef("path %q escapes the container", name)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open(name)
}

// open is Open with a.mu held.
func (a *Archive) open(name string) (*Stream, error) {
	if err := a.ensureOpen(); err != nil {
		return nil, err
	}
	f := a.lookup(name)
	if f == nil {
		return nil, errclass.ErrNotFound.WithMessagef("%s not found in %s", pathutil.Normalize(name), a.path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errclass.ErrIO.Wrap(err, "open entry %s", f.Name)
	}
	return a.streams.track(pathutil.Normalize(name), rc), nil
}

func (a *Archive) OpenText(name string) (*TextReader, error) {
	s, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	return newTextReader(s), nil
}

func (a *Archive) OpenAll(dir string, exts ...string) (map[string]*Stream, error) {
	files, err := a.List(dir)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]*Stream)
	for _, rel := range files {
		if !pathutil.MatchExt(rel, exts) {
			continue
		}
		s, err := a.open(pathutil.Join(dir, rel))
		if err != nil {
			closeAll(out)
			return nil, err
		}
		out[rel] = s
	}
	return out, nil
}

// InitWrite makes sure the directory holding the archive exists.
func (a *Archive) InitWrite() error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return errclass.ErrIO.Wrap(err, "create parent of %s", a.path)
	}
	return nil
}

func (a *Archive) Write(name string, fn WriteFunc) error {
	return a.WriteAll(map[string]WriteFunc{name: fn})
}

// WriteAll replaces or adds every file in files with one archive rewrite.
func (a *Archive) WriteAll(files map[string]WriteFunc) error {
	if len(files) == 0 {
		return nil
	}
	batch := make(map[string]WriteFunc, len(files))
	for name, fn := range files {
		if pathutil.Escapes(name) {
			return errclass.ErrPathEscape.WithMessagef("path %q escapes the container", name)
		}
		n := pathutil.Normalize(name)
		if n == "" {
			return errclass.ErrNameInvalid.WithMessage("cannot write to the container root")
		}
		batch[n] = fn
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.streams.invalidateAll()
	if err := a.InitWrite(); err != nil {
		return err
	}
	if err := a.ensureOpen(); err != nil {
		return err
	}
	if a.zr == nil {
		return a.writeNew(batch)
	}
	return a.rewrite(batch, nil)
}

// Remove deletes entries by rewriting the archive. Nothing is rewritten when
// none of names is present.
func (a *Archive) Remove(names ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ensureOpen(); err != nil {
		return err
	}
	drop := make(map[string]bool)
	for _, name := range names {
		if pathutil.Escapes(name) {
			return errclass.ErrPathEscape.WithMessagef("path %q escapes the container", name)
		}
		if pathutil.Normalize(name) == "" {
			return errclass.ErrNameInvalid.WithMessage("cannot remove the container root")
		}
		if a.lookup(name) != nil {
			drop[pathutil.Normalize(name)] = true
		}
	}
	if len(drop) == 0 {
		return nil
	}
	a.streams.invalidateAll()
	return a.rewrite(nil, drop)
}

// writeNew writes a fresh archive straight to the target path.
func (a *Archive) writeNew(files map[string]WriteFunc) (err error) {
	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errclass.ErrIO.Wrap(err, "create archive %s", a.path)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(a.path)
		}
	}()

	zw := zip.NewWriter(f)
	a.comp.Register(zw)
	if err := a.writeEntries(zw, "", files); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return errclass.ErrIO.Wrap(err, "finish archive %s", a.path)
	}
	if err := f.Sync(); err != nil {
		return errclass.ErrIO.Wrap(err, "sync archive %s", a.path)
	}
	if err := f.Close(); err != nil {
		return errclass.ErrIO.Wrap(err, "close archive %s", a.path)
	}
	a.log.Debug("created archive", map[string]any{"path": a.path, "files": len(files)})
	return nil
}

// rewrite builds a new archive in a temp sibling holding every existing entry
// that is neither replaced by files nor listed in drop, followed by files,
// and renames it over the original. Until the rename the original is never
// touched.
func (a *Archive) rewrite(files map[string]WriteFunc, drop map[string]bool) (err error) {
	info, err := os.Stat(a.path)
	if err != nil {
		return errclass.ErrIO.Wrap(err, "stat archive %s", a.path)
	}
	tmp, err := fsutil.CreateTempSibling(a.path)
	if err != nil {
		return errclass.ErrIO.Wrap(err, "create temp archive for %s", a.path)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	a.comp.Register(zw)
	kept := 0
	for _, f := range a.zr.File {
		if l, ok := a.logicalName(f); ok && !isDirEntry(f) {
			if _, replaced := files[l]; replaced || drop[l] {
				continue
			}
		}
		if err := zw.Copy(f); err != nil {
			return errclass.ErrIO.Wrap(err, "copy entry %s", f.Name)
		}
		kept++
	}
	if err := a.writeEntries(zw, a.root, files); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return errclass.ErrIO.Wrap(err, "finish temp archive")
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return errclass.ErrIO.Wrap(err, "chmod temp archive")
	}
	if err := tmp.Sync(); err != nil {
		return errclass.ErrIO.Wrap(err, "sync temp archive")
	}
	size := int64(0)
	if st, statErr := tmp.Stat(); statErr == nil {
		size = st.Size()
	}
	if err := tmp.Close(); err != nil {
		return errclass.ErrIO.Wrap(err, "close temp archive")
	}

	// The handle must be released before the swap; some platforms refuse
	// to replace an open file.
	if err := a.closeHandle(); err != nil {
		return errclass.ErrIO.Wrap(err, "close archive %s", a.path)
	}
	if err := replaceFile(tmpPath, a.path); err != nil {
		return errclass.ErrIO.Wrap(err, "replace archive %s", a.path)
	}
	a.log.Debug("rewrote archive", map[string]any{
		"path":    a.path,
		"kept":    kept,
		"written": len(files),
		"removed": len(drop),
		"size":    humanize.Bytes(uint64(size)),
	})
	return nil
}

// writeEntries appends files in path order under root.
func (a *Archive) writeEntries(zw *zip.Writer, root string, files map[string]WriteFunc) error {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	now := time.Now()
	for _, n := range names {
		hdr := &zip.FileHeader{
			Name:     pathutil.Join(root, n),
			Method:   a.comp.Method(),
			Modified: now,
		}
		hdr.SetMode(0644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return errclass.ErrIO.Wrap(err, "add entry %s", n)
		}
		if err := files[n](w); err != nil {
			return errclass.ErrIO.Wrap(err, "write entry %s", n)
		}
	}
	return nil
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	first := a.streams.invalidateAll()
	if err := a.closeHandle(); err != nil && first == nil {
		first = err
	}
	return first
}
