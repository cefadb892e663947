package integrity

import (
	"fmt"
	"strings"

	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/pathutil"
)

// Entry is the digest of one container file.
type Entry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Digest Digest `json:"digest"`
}

// Tree is the digest of every file under a container directory.
type Tree struct {
	Root    Digest  `json:"root"`
	Size    int64   `json:"size"`
	Entries []Entry `json:"entries"`
}

// DigestTree hashes every file under dir. The root digest covers
// "<path>:size=<n>:<digest>" lines in path order, with paths relative to dir.
func DigestTree(acc accessor.Accessor, dir string) (*Tree, error) {
	files, err := acc.List(dir)
	if err != nil {
		return nil, err
	}

	tree := &Tree{Entries: make([]Entry, 0, len(files))}
	var buf strings.Builder
	for _, rel := range files {
		s, err := acc.Open(pathutil.Join(dir, rel))
		if err != nil {
			return nil, err
		}
		d, n, err := DigestReader(s)
		s.Close()
		if err != nil {
			return nil, fmt.Errorf("hash entry %s: %w", rel, err)
		}
		tree.Entries = append(tree.Entries, Entry{Path: rel, Size: n, Digest: d})
		tree.Size += n
		fmt.Fprintf(&buf, "%s:size=%d:%s\n", rel, n, d)
	}
	tree.Root = DigestBytes([]byte(buf.String()))
	return tree, nil
}
