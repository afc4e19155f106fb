package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tristendillon/dllbundle/core/logger"
	"github.com/tristendillon/dllbundle/core/models"
	"gopkg.in/yaml.v3"
)

const FileName = "dllbundle.yaml"

type Config struct {
	BundleDir  string        `yaml:"bundle_dir"`
	Executable string        `yaml:"executable"`
	Format     models.Format `yaml:"format"`
	Toolchain  Toolchain     `yaml:"toolchain"`
}

// Toolchain describes where prebuilt DLLs live on the build machine.
// MountMarker is the prefix the dependency scanner reports (an MSYS2 virtual
// root); matching paths are re-rooted under MountRoot. BinDir is used for
// bare-name lists.
type Toolchain struct {
	MountMarker string `yaml:"mount_marker"`
	MountRoot   string `yaml:"mount_root"`
	BinDir      string `yaml:"bin_dir"`
}

func Default() *Config {
	return &Config{
		BundleDir:  "bundle",
		Executable: "player.exe",
		Format:     models.FormatAuto,
		Toolchain: Toolchain{
			MountMarker: "/mingw64/bin",
			MountRoot:   "C:/msys64",
			BinDir:      "C:/msys64/mingw64/bin",
		},
	}
}

// Load reads dllbundle.yaml from the working directory, falling back to
// Default when it does not exist.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, goerr.Wrap(err, "cannot determine working dir")
	}

	path := filepath.Join(wd, FileName)
	if _, err := os.Stat(path); err != nil {
		logger.Debug("No config file found, using default config")
		return Default(), nil
	}

	return LoadFile(path)
}

// LoadFile reads an explicit config file. Keys missing from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, fmt.Sprintf("failed to read config file %s", path), goerr.V("path", path))
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse yaml", goerr.V("path", path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, fmt.Sprintf("invalid config file %s", path), goerr.V("path", path))
	}
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", *cfg)

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BundleDir == "" {
		return goerr.New("bundle_dir must not be empty")
	}
	if c.Executable == "" {
		return goerr.New("executable must not be empty")
	}
	if _, err := models.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	return nil
}

// Write stores cfg as YAML at path, overwriting any existing file.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return goerr.Wrap(err, "failed to write config file", goerr.V("path", path))
	}
	return nil
}
