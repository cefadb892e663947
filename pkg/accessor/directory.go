package accessor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/fsutil"
	"github.com/rc-project/rc/pkg/logging"
	"github.com/rc-project/rc/pkg/pathutil"
)

// Directory stores a container as a plain directory tree.
type Directory struct {
	root    string
	log     *logging.Logger
	writeMu sync.Mutex
	streams streamSet
}

// NewDirectory returns an accessor rooted at dir. The directory does not have
// to exist until InitWrite.
func NewDirectory(dir string, opts Options) *Directory {
	return &Directory{
		root: dir,
		log:  opts.logger().Named("accessor.directory"),
	}
}

func (d *Directory) Kind() Kind   { return KindDirectory }
func (d *Directory) Path() string { return d.root }
func (d *Directory) Root() string { return "" }

// resolve maps a logical path to a filesystem path under the root. Names on
// disk may be stored in another Unicode form than the NFC logical path, so
// when the direct path is missing each component is matched against the
// directory listing. Components that match nothing keep their NFC form.
func (d *Directory) resolve(name string) (string, error) {
	if pathutil.Escapes(name) {
		return "", errclass.ErrPathEscape.WithMessagef("path %q escapes the container", name)
	}
	n := pathutil.Normalize(name)
	direct := filepath.Join(d.root, filepath.FromSlash(n))
	if n == "" {
		return direct, nil
	}
	if _, err := os.Lstat(direct); err == nil {
		return direct, nil
	}

	cur := d.root
	parts := strings.Split(n, "/")
	for i, part := range parts {
		next, ok := matchEntry(cur, part)
		if !ok {
			return filepath.Join(append([]string{cur}, parts[i:]...)...), nil
		}
		cur = next
	}
	return cur, nil
}

// matchEntry finds the entry of dir whose normalized name is part.
func matchEntry(dir, part string) (string, bool) {
	p := filepath.Join(dir, part)
	if _, err := os.Lstat(p); err == nil {
		return p, true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if pathutil.Normalize(e.Name()) == part {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

func (d *Directory) FileExists(name string) bool {
	p, err := d.resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func (d *Directory) List(dir string) ([]string, error) {
	base, err := d.resolve(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return []string{}, nil
	}

	files := []string{}
	err = filepath.WalkDir(base, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		files = append(files, pathutil.Normalize(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, errclass.ErrIO.Wrap(err, "list %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func (d *Directory) Open(name string) (*Stream, error) {
	p, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errclass.ErrNotFound.WithMessagef("%s not found", pathutil.Normalize(name))
		}
		return nil, errclass.ErrIO.Wrap(err, "stat %s", name)
	}
	if !info.Mode().IsRegular() {
		return nil, errclass.ErrNotFound.WithMessagef("%s is not a file", pathutil.Normalize(name))
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errclass.ErrIO.Wrap(err, "open %s", name)
	}
	return d.streams.track(pathutil.Normalize(name), f), nil
}

func (d *Directory) OpenText(name string) (*TextReader, error) {
	s, err := d.Open(name)
	if err != nil {
		return nil, err
	}
	return newTextReader(s), nil
}

func (d *Directory) OpenAll(dir string, exts ...string) (map[string]*Stream, error) {
	files, err := d.List(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Stream)
	for _, rel := range files {
		if !pathutil.MatchExt(rel, exts) {
			continue
		}
		s, err := d.Open(pathutil.Join(dir, rel))
		if err != nil {
			closeAll(out)
			return nil, err
		}
		out[rel] = s
	}
	return out, nil
}

func (d *Directory) InitWrite() error {
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return errclass.ErrIO.Wrap(err, "create %s", d.root)
	}
	return nil
}

func (d *Directory) Write(name string, fn WriteFunc) error {
	return d.WriteAll(map[string]WriteFunc{name: fn})
}

// WriteAll writes files one at a time in path order. Each file is replaced
// atomically; the batch is not.
func (d *Directory) WriteAll(files map[string]WriteFunc) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	paths := make(map[string]string, len(files))
	names := make([]string, 0, len(files))
	for name := range files {
		p, err := d.resolve(name)
		if err != nil {
			return err
		}
		if pathutil.Normalize(name) == "" {
			return errclass.ErrNameInvalid.WithMessage("cannot write to the container root")
		}
		paths[name] = p
		names = append(names, name)
	}
	sort.Strings(names)

	d.streams.invalidateAll()
	if err := d.InitWrite(); err != nil {
		return err
	}
	for _, name := range names {
		p := paths[name]
		if err := pathutil.ValidatePathSafety(d.root, p); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return errclass.ErrIO.Wrap(err, "create parent of %s", name)
		}
		if err := fsutil.AtomicWriteFunc(p, 0644, files[name]); err != nil {
			return errclass.ErrIO.Wrap(err, "write %s", name)
		}
		d.log.Debug("wrote file", map[string]any{"path": pathutil.Normalize(name)})
	}
	return nil
}

func (d *Directory) Remove(names ...string) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.streams.invalidateAll()
	for _, name := range names {
		p, err := d.resolve(name)
		if err != nil {
			return err
		}
		if pathutil.Normalize(name) == "" {
			return errclass.ErrNameInvalid.WithMessage("cannot remove the container root")
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errclass.ErrIO.Wrap(err, "remove %s", name)
		}
	}
	return nil
}

func (d *Directory) Close() error {
	return d.streams.invalidateAll()
}
