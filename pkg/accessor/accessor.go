// Package accessor hides whether a resource container lives in a directory or
// in a zip archive. Both backends take the same logical paths ('/' or '\'
// separated, optionally "./" prefixed) and behave identically for lookups,
// listings and reads.
//
// # Writes
//
// A directory backend writes each file through a temp file and rename, but a
// batch of files is not atomic: if the third file of a batch fails, the first
// two stay written.
//
// An archive cannot update one entry in place. Every write builds a complete
// new archive in a temporary sibling file, copying untouched entries verbatim,
// and renames it over the original only after it has been fully written and
// synced. A failure at any earlier point leaves the original archive as it
// was. Writes are serialized per accessor.
//
// # Streams
//
// Streams returned by Open and OpenAll stay valid until they are closed, the
// accessor is closed, or a write goes through the accessor. Callers that need
// the bytes beyond that point must copy them out first.
package accessor

import (
	"io"

	"github.com/rc-project/rc/internal/compression"
	"github.com/rc-project/rc/pkg/logging"
	"github.com/rc-project/rc/pkg/pathutil"
)

// Kind identifies the storage backend.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindArchive   Kind = "archive"
)

// WriteFunc produces the content of one file.
type WriteFunc func(w io.Writer) error

// Accessor is the uniform set of operations over a container's storage.
type Accessor interface {
	// Kind returns the backend kind.
	Kind() Kind
	// Path returns the directory or archive file backing the container.
	Path() string
	// Root returns the top level archive directory that all paths are
	// relative to, or "" when there is none.
	Root() string

	// FileExists reports whether name is a regular file in the container.
	FileExists(name string) bool
	// List returns the files strictly under dir, recursively, relative to
	// dir and sorted. A missing dir or a file yields an empty list.
	List(dir string) ([]string, error)
	// Open returns a read stream for name. A missing file is E_NOT_FOUND.
	Open(name string) (*Stream, error)
	// OpenText is Open decoded as UTF-8 text.
	OpenText(name string) (*TextReader, error)
	// OpenAll opens every file under dir whose extension is one of exts (all
	// files when exts is empty). Keys are relative to dir.
	OpenAll(dir string, exts ...string) (map[string]*Stream, error)

	// InitWrite prepares the backend for writing. It is idempotent.
	InitWrite() error
	// Write writes one file, creating parent structure as needed.
	Write(name string, fn WriteFunc) error
	// WriteAll writes a batch of files as one logical operation.
	WriteAll(files map[string]WriteFunc) error
	// Remove deletes files. Missing files are ignored.
	Remove(names ...string) error

	// Close releases backend handles and invalidates every open stream. It
	// is safe to call more than once.
	Close() error
}

// Options configures an accessor.
type Options struct {
	// Compressor decides how new archive entries are compressed. Nil uses
	// the default deflate level. Ignored for directories.
	Compressor *compression.Compressor
	// Logger receives debug output. Nil uses the global logger.
	Logger *logging.Logger
}

func (o Options) compressor() *compression.Compressor {
	if o.Compressor == nil {
		return compression.Default()
	}
	return o.Compressor
}

func (o Options) logger() *logging.Logger {
	if o.Logger == nil {
		return logging.Global()
	}
	return o.Logger
}

// New selects the backend for path: an archive when the file extension is
// .zip, a directory otherwise. Nothing is opened until first use.
func New(path string, opts Options) Accessor {
	if pathutil.IsArchive(path) {
		return NewArchive(path, opts)
	}
	return NewDirectory(path, opts)
}
