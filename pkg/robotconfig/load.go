package robotconfig

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	DefaultPath = "/cfg/robot.yaml"
	InUsePath   = "/cfg/robot-in-use.yaml"
)

// Load returns the default config overlaid with whatever the YAML file at path
// sets.  A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Parse overlays YAML onto cfg.  Fields absent from data keep their value.
func Parse(data []byte, cfg *Config) error {
	return yaml.UnmarshalStrict(data, cfg)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteInUse records the effective config so it can be checked after a match.
func (c *Config) WriteInUse(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0666), "writing %s", path)
}
