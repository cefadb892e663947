package rc

import (
	"fmt"
	"strings"

	"github.com/rc-project/rc/internal/compression"
	"github.com/rc-project/rc/pkg/accessor"
	"github.com/rc-project/rc/pkg/errclass"
	"github.com/rc-project/rc/pkg/logging"
	"github.com/rc-project/rc/pkg/model"
	"github.com/rc-project/rc/pkg/semver"
)

// ConformsTo is the container format version this library reads and writes.
const ConformsTo = "0.2"

// State is the lifecycle state of a Container.
type State int

const (
	StateUnopened State = iota
	StateLoading
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Container is an opened resource container. It exclusively owns its
// manifest; changes made through Manifest are persisted only by Write or
// WriteManifest.
type Container struct {
	path     string
	opts     Options
	acc      accessor.Accessor
	log      *logging.Logger
	state    State
	manifest *model.Manifest
	media    *model.MediaManifest
}

func newContainer(path string, opts Options) (*Container, error) {
	comp, err := compression.NewCompressorFromString(opts.Compression)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.Global()
	}
	return &Container{
		path: path,
		opts: opts,
		acc: accessor.New(path, accessor.Options{
			Compressor: comp,
			Logger:     log,
		}),
		log:   log.Named("rc"),
		state: StateUnopened,
	}, nil
}

// Open loads the container at path. Paths ending in .zip are read as
// archives, anything else as a directory.
//
// Unless opts.Lenient is set, a missing manifest fails with
// E_MISSING_MANIFEST and a conformsto other than ConformsTo fails with a
// *errclass.VersionError.
func Open(path string, opts Options) (*Container, error) {
	c, err := newContainer(path, opts)
	if err != nil {
		return nil, err
	}
	c.state = StateLoading
	if err := c.load(); err != nil {
		c.acc.Close()
		c.state = StateClosed
		return nil, err
	}
	c.state = StateReady
	c.log.Debug("opened container", map[string]any{
		"path":     path,
		"kind":     string(c.acc.Kind()),
		"projects": len(c.manifest.Projects),
	})
	return c, nil
}

func (c *Container) load() error {
	if err := c.loadManifest(); err != nil {
		return err
	}

	if c.acc.FileExists(model.MediaFile) {
		r, err := c.acc.OpenText(model.MediaFile)
		if err != nil {
			return err
		}
		media, err := model.DecodeMedia(r)
		r.Close()
		if err != nil {
			return errclass.ErrManifestInvalid.Wrap(err, "read %s", model.MediaFile)
		}
		c.media = media
	}

	if c.opts.Config != nil && c.acc.FileExists(model.ConfigFile) {
		r, err := c.acc.OpenText(model.ConfigFile)
		if err != nil {
			return err
		}
		err = c.opts.Config.Decode(r)
		r.Close()
		if err != nil {
			return errclass.ErrManifestInvalid.Wrap(err, "read %s", model.ConfigFile)
		}
	}
	return nil
}

// loadManifest reads manifest.yaml. A lenient open without one starts from an
// empty manifest and still picks up the other metadata files.
func (c *Container) loadManifest() error {
	if !c.acc.FileExists(model.ManifestFile) {
		if c.opts.Lenient {
			c.manifest = model.NewManifest()
			return nil
		}
		return errclass.ErrMissingManifest.WithMessagef("%s has no %s", c.path, model.ManifestFile)
	}

	r, err := c.acc.OpenText(model.ManifestFile)
	if err != nil {
		return err
	}
	m, err := model.DecodeManifest(r)
	r.Close()
	if err != nil {
		return errclass.ErrManifestInvalid.Wrap(err, "read %s", model.ManifestFile)
	}
	c.manifest = m

	if !c.opts.Lenient {
		return checkVersion(m)
	}
	return nil
}

// checkVersion accepts only manifests whose conformsto equals ConformsTo.
func checkVersion(m *model.Manifest) error {
	found := trimRC(m.DublinCore.ConformsTo)
	switch cmp := semver.Compare(found, ConformsTo); {
	case cmp < 0:
		return &errclass.VersionError{Class: errclass.ErrOutdatedFormat, Found: found, Expected: ConformsTo}
	case cmp > 0:
		return &errclass.VersionError{Class: errclass.ErrUnsupportedFormat, Found: found, Expected: ConformsTo}
	}
	return nil
}

func trimRC(v string) string {
	return strings.TrimPrefix(v, "rc")
}

// Create returns a Ready container with an empty manifest that init may
// fill in. conformsto defaults to the supported version. Nothing is written
// until Write.
func Create(path string, init func(*Container) error, opts Options) (*Container, error) {
	c, err := newContainer(path, opts)
	if err != nil {
		return nil, err
	}
	c.manifest = model.NewManifest()
	c.state = StateReady
	if init != nil {
		if err := init(c); err != nil {
			c.Close()
			return nil, err
		}
	}
	if c.manifest.DublinCore.ConformsTo == "" {
		c.manifest.DublinCore.ConformsTo = "rc" + ConformsTo
	}
	return c, nil
}

// ready fails unless the container can serve requests.
func (c *Container) ready() error {
	if c.state != StateReady {
		return errclass.ErrClosed.WithMessagef("container %s is %s", c.path, c.state)
	}
	return nil
}

// Path returns the directory or archive the container was opened from.
func (c *Container) Path() string {
	return c.path
}

// State returns the lifecycle state.
func (c *Container) State() State {
	return c.state
}

// Accessor returns the storage backend.
func (c *Container) Accessor() (accessor.Accessor, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.acc, nil
}

// Manifest returns the container's manifest for reading or in-place edits.
func (c *Container) Manifest() (*model.Manifest, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.manifest, nil
}

// SetManifest replaces the manifest. It is not persisted until written.
func (c *Container) SetManifest(m *model.Manifest) error {
	if err := c.ready(); err != nil {
		return err
	}
	if m == nil {
		m = model.NewManifest()
	}
	if m.Projects == nil {
		m.Projects = []model.Project{}
	}
	c.manifest = m
	return nil
}

// Media returns the media sidecar, or nil when the container has none.
func (c *Container) Media() (*model.MediaManifest, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.media, nil
}

// SetMedia attaches or, with nil, detaches the media sidecar.
func (c *Container) SetMedia(m *model.MediaManifest) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.media = m
	return nil
}

// Project resolves a project. An empty identifier selects the only project
// and fails with E_MULTIPLE_PROJECTS when there are several. A nil project
// with a nil error means no match.
func (c *Container) Project(identifier string) (*model.Project, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	projects := c.manifest.Projects
	switch {
	case len(projects) == 0:
		return nil, nil
	case identifier != "":
		return c.manifest.FindProject(identifier), nil
	case len(projects) == 1:
		return &projects[0], nil
	default:
		return nil, errclass.ErrMultipleProjects.WithMessagef(
			"%d projects found, specify the project identifier", len(projects))
	}
}

// ProjectIDs returns the project identifiers in manifest order.
func (c *Container) ProjectIDs() ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.manifest.ProjectIDs(), nil
}

// ProjectCount returns the number of projects.
func (c *Container) ProjectCount() (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	return len(c.manifest.Projects), nil
}

// ConformsTo returns the manifest's format version without its "rc" prefix.
func (c *Container) ConformsTo() (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	return trimRC(c.manifest.DublinCore.ConformsTo), nil
}

// Type returns dublin_core.type.
func (c *Container) Type() (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	return c.manifest.DublinCore.Type, nil
}

// Resource returns a summary of the manifest.
func (c *Container) Resource() (model.Resource, error) {
	if err := c.ready(); err != nil {
		return model.Resource{}, err
	}
	return c.manifest.Resource(), nil
}

// Close releases the backend and invalidates every stream handed out. It is
// safe to call more than once.
func (c *Container) Close() error {
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	err := c.acc.Close()
	c.log.Debug("closed container", map[string]any{"path": c.path})
	if err != nil {
		return errclass.ErrIO.Wrap(err, "close %s", c.path)
	}
	return nil
}
