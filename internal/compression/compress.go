// Package compression selects how entries written to archive containers are
// compressed. Deflate is provided by klauspost/compress/flate, registered on
// each zip writer so the level can vary per container.
package compression

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// CompressionLevel represents the deflate level.
type CompressionLevel int

const (
	// LevelNone stores entries uncompressed.
	LevelNone CompressionLevel = 0
	// LevelFast uses the fastest deflate level.
	LevelFast CompressionLevel = 1
	// LevelDefault uses the default deflate level.
	LevelDefault CompressionLevel = 6
	// LevelMax uses the best deflate compression.
	LevelMax CompressionLevel = 9
)

// CompressionType represents the zip compression method.
type CompressionType string

const (
	// TypeDeflate uses the zip deflate method.
	TypeDeflate CompressionType = "deflate"
	// TypeNone uses the zip store method.
	TypeNone CompressionType = "none"
)

// Compressor decides the method and level of new archive entries.
type Compressor struct {
	Type  CompressionType
	Level CompressionLevel
}

// NewCompressor creates a new compressor with the specified level.
// Level 0 means entries are stored.
func NewCompressor(level CompressionLevel) *Compressor {
	if level <= LevelNone {
		return &Compressor{Type: TypeNone, Level: LevelNone}
	}
	if level > LevelMax {
		level = LevelMax
	}
	return &Compressor{Type: TypeDeflate, Level: level}
}

// Default returns the compressor used when nothing is configured.
func Default() *Compressor {
	return NewCompressor(LevelDefault)
}

// NewCompressorFromString creates a compressor from a string level.
// Valid values: "none", "fast", "default", "max" or their numeric forms.
// An empty string selects the default.
func NewCompressorFromString(level string) (*Compressor, error) {
	switch strings.ToLower(level) {
	case "none", "store", "0":
		return NewCompressor(LevelNone), nil
	case "fast", "1":
		return NewCompressor(LevelFast), nil
	case "", "default", "6":
		return NewCompressor(LevelDefault), nil
	case "max", "9":
		return NewCompressor(LevelMax), nil
	default:
		return nil, fmt.Errorf("invalid compression level: %s (must be none, fast, default, or max)", level)
	}
}

// IsEnabled returns true if compression is enabled.
func (c *Compressor) IsEnabled() bool {
	return c.Type != TypeNone
}

// String returns the string representation of the compressor.
func (c *Compressor) String() string {
	switch c.Level {
	case LevelNone:
		return "none"
	case LevelFast:
		return "fast"
	case LevelDefault:
		return "default"
	case LevelMax:
		return "max"
	default:
		return fmt.Sprintf("level-%d", c.Level)
	}
}

// Method returns the zip method for new entries.
func (c *Compressor) Method() uint16 {
	if !c.IsEnabled() {
		return zip.Store
	}
	return zip.Deflate
}

// Register installs a deflate compressor at the configured level on zw.
func (c *Compressor) Register(zw *zip.Writer) {
	if !c.IsEnabled() {
		return
	}
	level := int(c.Level)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
}
