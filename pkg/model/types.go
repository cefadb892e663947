// Package model holds the structured documents of a resource container:
// manifest.yaml, media.yaml and per-project toc.yaml.
package model

// File names of the structured documents at the container root.
const (
	ManifestFile = "manifest.yaml"
	ConfigFile   = "config.yaml"
	MediaFile    = "media.yaml"
	TOCFile      = "toc.yaml"
)

// DefaultChunkExt is used when the manifest format is not recognized.
const DefaultChunkExt = "txt"

var chunkExts = map[string]string{
	"text/usx":      "usx",
	"text/usfm":     "usfm",
	"text/markdown": "md",
	"audio/mp3":     "mp3",
	"video/mp4":     "mp4",
}

// ChunkExt returns the file extension of content chunks for a dublin_core
// format string.
func ChunkExt(format string) string {
	if ext, ok := chunkExts[format]; ok {
		return ext
	}
	return DefaultChunkExt
}
