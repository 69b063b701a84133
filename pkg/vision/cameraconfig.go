package vision

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const DefaultCameraConfigPath = "/boot/frc.json"

// CameraConfig is the co-processor's frc.json.
type CameraConfig struct {
	Team int
	// Server is set when ntmode asks this host to serve the table itself.
	Server          bool
	Cameras         []Camera
	SwitchedCameras []SwitchedCamera
}

type Camera struct {
	Name string
	Path string
	// Stream holds the optional stream settings, passed through untouched.
	Stream map[interface{}]interface{}
	// Raw is the camera's whole entry.
	Raw map[interface{}]interface{}
}

type SwitchedCamera struct {
	Name string
	Key  string
}

// ConfigError reports a malformed camera config file.
type ConfigError struct {
	Path string
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in '%s': %s", e.Path, e.Msg)
}

func ReadCameraConfig(log *zap.SugaredLogger, path string) (*CameraConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open '%s'", path)
	}
	return ParseCameraConfig(log, path, data)
}

// ParseCameraConfig parses frc.json.  JSON is read through the YAML decoder,
// which accepts it as a subset.
func ParseCameraConfig(log *zap.SugaredLogger, path string, data []byte) (*CameraConfig, error) {
	fail := func(format string, args ...interface{}) (*CameraConfig, error) {
		return nil, &ConfigError{Path: path, Msg: fmt.Sprintf(format, args...)}
	}

	var top interface{}
	if err := yaml.Unmarshal(data, &top); err != nil {
		return fail("%v", err)
	}
	j, ok := top.(map[interface{}]interface{})
	if !ok {
		return fail("must be JSON object")
	}

	cfg := &CameraConfig{}
	team, ok := j["team"].(int)
	if !ok {
		return fail("could not read team number")
	}
	cfg.Team = team

	if v, present := j["ntmode"]; present {
		mode, _ := v.(string)
		switch strings.ToLower(mode) {
		case "client":
			cfg.Server = false
		case "server":
			cfg.Server = true
		default:
			// Not fatal; stays a client.
			log.Warn((&ConfigError{Path: path, Msg: fmt.Sprintf("could not understand ntmode value '%v'", v)}).Error())
		}
	}

	cameras, ok := j["cameras"].([]interface{})
	if !ok {
		return fail("could not read cameras")
	}
	for _, c := range cameras {
		entry, _ := c.(map[interface{}]interface{})
		name, ok := entry["name"].(string)
		if !ok {
			return fail("could not read camera name")
		}
		camPath, ok := entry["path"].(string)
		if !ok {
			return fail("camera '%s': could not read path", name)
		}
		stream, _ := entry["stream"].(map[interface{}]interface{})
		cfg.Cameras = append(cfg.Cameras, Camera{
			Name:   name,
			Path:   camPath,
			Stream: stream,
			Raw:    entry,
		})
	}

	if switched, present := j["switched cameras"]; present {
		list, _ := switched.([]interface{})
		for _, c := range list {
			entry, _ := c.(map[interface{}]interface{})
			name, ok := entry["name"].(string)
			if !ok {
				return fail("could not read switched camera name")
			}
			key, ok := entry["key"].(string)
			if !ok {
				return fail("switched camera '%s': could not read key", name)
			}
			cfg.SwitchedCameras = append(cfg.SwitchedCameras, SwitchedCamera{Name: name, Key: key})
		}
	}
	return cfg, nil
}
