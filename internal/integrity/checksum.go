// Package integrity computes BLAKE3 digests of container files and
// manifests. Digests are computed over logical container paths, so a
// directory container and a zip of it produce the same tree digest.
package integrity

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"

	"github.com/rc-project/rc/pkg/jsonutil"
	"github.com/rc-project/rc/pkg/model"
)

// Digest is a hex encoded BLAKE3-256 hash.
type Digest string

// Short returns the first 12 hex characters.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12])
}

// DigestReader hashes everything read from r and returns the digest and
// the number of bytes read.
func DigestReader(r io.Reader) (Digest, int64, error) {
	h := blake3.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, fmt.Errorf("hash: %w", err)
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), n, nil
}

// DigestBytes hashes b.
func DigestBytes(b []byte) Digest {
	sum := blake3.Sum256(b)
	return Digest(hex.EncodeToString(sum[:]))
}

// ManifestDigest hashes the canonical JSON form of a manifest. Formatting,
// key order and unknown fields in manifest.yaml do not affect it.
func ManifestDigest(m *model.Manifest) (Digest, error) {
	data, err := jsonutil.CanonicalYAML(m)
	if err != nil {
		return "", fmt.Errorf("canonical manifest: %w", err)
	}
	return DigestBytes(data), nil
}
