// configurator is an adapter for loading and saving the sink
// configuration as a yaml file. It implements the
// ports.ForConfiguring interface.
package configurator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sa6mwa/consink/internal/app/model"
	"github.com/sa6mwa/consink/internal/app/ports"
	"gopkg.in/yaml.v3"
)

var defaultConfigFile string = "consink.yaml"

// configurator.New returns a local file-based configurator that
// satisfies the ports.ForConfiguring port interface.
func New(filename string) ports.ForConfiguring {
	if filename == "" {
		filename = defaultConfigFile
	}
	return &forConfiguring{
		configFile: filename,
	}
}

// Implements the ports.ForConfiguring interface.
type forConfiguring struct {
	configFile string
}

// Load returns the defaults when the file does not exist or is empty.
func (c *forConfiguring) Load(ctx context.Context) (*model.Config, error) {
	f, err := os.Open(c.configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg := model.DefaultConfig()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse %s: %w", c.configFile, err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

func (c *forConfiguring) Save(ctx context.Context, cfg *model.Config) error {
	f, err := os.Create(c.configFile)
	if err != nil {
		return fmt.Errorf("unable to write %s: %w", c.configFile, err)
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("unable to marshall yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("unable to marshall yaml: %w", err)
	}
	return f.Close()
}
