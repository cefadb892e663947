package rc

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/progress"
)

func encodeFunc(v any) accessor.WriteFunc {
	return func(w io.Writer) error {
		return model.Encode(w, v)
	}
}

// Write persists the manifest and, when present, the media sidecar in one
// batch.
func (c *Container) Write() error {
	if err := c.ready(); err != nil {
		return err
	}
	files := map[string]accessor.WriteFunc{
		model.ManifestFile: encodeFunc(c.manifest),
	}
	if c.media != nil {
		files[model.MediaFile] = encodeFunc(c.media)
	}
	if err := c.acc.WriteAll(files); err != nil {
		return err
	}
	c.log.Debug("wrote container", map[string]any{"path": c.path, "files": len(files)})
	return nil
}

// WriteManifest persists manifest.yaml only.
func (c *Container) WriteManifest() error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.acc.Write(model.ManifestFile, encodeFunc(c.manifest))
}

// WriteMedia persists media.yaml. It does nothing without a media sidecar.
func (c *Container) WriteMedia() error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.media == nil {
		return nil
	}
	return c.acc.Write(model.MediaFile, encodeFunc(c.media))
}

// WriteConfig persists config.yaml through the configured codec, but only
// when the container already has a config.yaml. It never creates one.
func (c *Container) WriteConfig() error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.opts.Config == nil {
		return nil
	}
	if !c.acc.FileExists(model.ConfigFile) {
		c.log.Debug("skipping config write, no existing config", map[string]any{"path": c.path})
		return nil
	}
	return c.acc.Write(model.ConfigFile, c.opts.Config.Encode)
}

// AddFile copies the external file src into the container at dest.
func (c *Container) AddFile(src, dest string) error {
	return c.AddFiles(map[string]string{dest: src})
}

// AddFiles copies external files into the container. files maps the
// in-container destination to the source path. All files go through one
// accessor write, so an archive is rewritten once.
func (c *Container) AddFiles(files map[string]string) error {
	if err := c.ready(); err != nil {
		return err
	}
	for _, src := range files {
		info, err := os.Stat(src)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return errclass.ErrNotFound.Wrap(err, "source %s", src)
			}
			return errclass.ErrIO.Wrap(err, "stat %s", src)
		}
		if !info.Mode().IsRegular() {
			return errclass.ErrNotFound.WithMessagef("source %s is not a regular file", src)
		}
	}

	p := progress.New("add", len(files), c.opts.Progress)
	batch := make(map[string]accessor.WriteFunc, len(files))
	for dest, src := range files {
		batch[dest] = copyFrom(src, dest, p)
	}
	if err := c.acc.WriteAll(batch); err != nil {
		return err
	}
	p.Done("")
	return nil
}

func copyFrom(src, dest string, p *progress.Progress) accessor.WriteFunc {
	return func(w io.Writer) error {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		p.Increment(dest)
		return nil
	}
}
