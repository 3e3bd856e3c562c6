package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/odvcencio/ugit/pkg/object"
)

const (
	configFile = "config.toml"

	// DefaultBranch is the branch HEAD points at after Init.
	DefaultBranch = "main"
)

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig holds settings fixed at init time.
type CoreConfig struct {
	ObjectFormat  string `toml:"object-format"`
	DefaultBranch string `toml:"default-branch,omitempty"`
}

// Algorithm returns the configured digest algorithm.
func (c *Config) Algorithm() (object.Algorithm, error) {
	return object.ParseAlgorithm(c.Core.ObjectFormat)
}

// ReadConfig reads <meta>/config.toml from the metadata filesystem. A
// missing config yields the defaults.
func ReadConfig(meta billy.Filesystem) (*Config, error) {
	cfg := &Config{Core: CoreConfig{ObjectFormat: string(object.DefaultAlgorithm)}}
	data, err := util.ReadFile(meta, configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if _, err := cfg.Algorithm(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes <meta>/config.toml.
func WriteConfig(meta billy.Filesystem, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := meta.TempFile(".", ".config-tmp-")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		meta.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		meta.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := meta.Rename(tmpName, configFile); err != nil {
		meta.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
