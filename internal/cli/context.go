package cli

import (
	"fmt"
	"os"

	"github.com/rc-project/rc/pkg/color"
	"github.com/rc-project/rc/pkg/config"
	"github.com/rc-project/rc/pkg/rc"
)

// loadConfig reads --config, falling back to the default location.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

// loadOptions turns the configuration and global flags into container
// options.
func loadOptions() (*config.Config, rc.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, rc.Options{}, err
	}
	opts, err := cfg.OpenOptions()
	if err != nil {
		return nil, rc.Options{}, err
	}
	if lenient {
		opts.Lenient = true
	}
	return cfg, opts, nil
}

// openContainer opens the container at path with the configured options.
func openContainer(path string) (*rc.Container, error) {
	_, opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	return openContainerWith(path, opts)
}

func openContainerWith(path string, opts rc.Options) (*rc.Container, error) {
	c, err := rc.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return c, nil
}

func fmtErr(format string, args ...any) {
	prefix := "rc: "
	if color.Enabled() {
		prefix = color.Error("rc:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
