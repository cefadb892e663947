package rc

import (
	"io"

	"github.com/rc-project/rc/pkg/logging"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/progress"
)

// Options configures Open and Create.
type Options struct {
	// Lenient skips the conformsto check and tolerates a missing manifest,
	// yielding an empty one. Use it when about to create a new container.
	Lenient bool
	// Config decodes config.yaml when the container has one. Nil ignores
	// config.yaml entirely.
	Config ConfigCodec
	// Compression is the deflate level for entries written to archive
	// containers: none, fast, default or max. Empty means default.
	Compression string
	// Logger receives debug output. Nil uses the global logger.
	Logger *logging.Logger
	// Progress is called once per file by AddFiles.
	Progress progress.Callback
}

// ConfigCodec reads and writes the opaque config.yaml sidecar. The container
// never interprets its content.
type ConfigCodec interface {
	Decode(r io.Reader) error
	Encode(w io.Writer) error
}

// YAMLConfig is a ConfigCodec holding config.yaml as a generic YAML map.
type YAMLConfig struct {
	Data map[string]any
}

func (c *YAMLConfig) Decode(r io.Reader) error {
	v, err := model.Decode[map[string]any](r)
	if err != nil {
		return err
	}
	c.Data = *v
	return nil
}

func (c *YAMLConfig) Encode(w io.Writer) error {
	if c.Data == nil {
		return model.Encode(w, map[string]any{})
	}
	return model.Encode(w, c.Data)
}
