// Package pathutil normalizes in-container paths and guards them against
// escaping the container root.
//
// Callers address container files with POSIX style relative paths. The
// accessors also accept '\' separated paths, "./" prefixes and redundant
// segments, so "./content/01/01.usfm", "content\01\01.usfm" and
// "content//01/./01.usfm" all name the same file.
package pathutil

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ArchiveExt is the filename extension that selects the archive backend.
const ArchiveExt = ".zip"

// Normalize converts a logical container path to its canonical form: '/'
// separated, NFC normalized, cleaned and without a leading "./" or "/".
// The container root is "".
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = norm.NFC.String(p)
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	return p
}

// Escapes reports whether p, taken relative to the container root, points
// outside of it.
func Escapes(p string) bool {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return p == ".." || strings.HasPrefix(p, "../")
}

// Join joins normalized path components; empty components are skipped.
func Join(elem ...string) string {
	return Normalize(path.Join(elem...))
}

// Rel returns name relative to dir when name lies strictly under dir. Both
// arguments must already be normalized.
func Rel(dir, name string) (string, bool) {
	if dir == "" {
		return name, name != ""
	}
	rest, ok := strings.CutPrefix(name, dir+"/")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// ArchiveKeys returns the archive entry names a logical path may be stored
// under, in lookup order: first '/' separated, then '\' separated. root is
// the auto-detected top level directory of the archive, or "".
func ArchiveKeys(root, p string) []string {
	p = Normalize(p)
	full := p
	if root != "" {
		full = strings.TrimSuffix(root+"/"+p, "/")
	}
	if full == "" {
		return nil
	}
	keys := []string{full}
	if alt := strings.ReplaceAll(full, "/", "\\"); alt != full {
		keys = append(keys, alt)
	}
	return keys
}

// IsArchive reports whether the container at p is backed by an archive,
// judged by its extension alone.
func IsArchive(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ArchiveExt)
}

// Ext returns the extension of name without the leading dot.
func Ext(name string) string {
	return strings.TrimPrefix(path.Ext(name), ".")
}

// MatchExt reports whether name has one of exts. An empty list matches every
// name. Extensions are compared case-insensitively with or without a dot.
func MatchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := Ext(name)
	for _, e := range exts {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}
