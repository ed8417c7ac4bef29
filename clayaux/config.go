package clayaux

import (
	"fmt"
	"os"

	"claymarch/claybuf"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-serialized render and viewer configuration
// consumed by the claymarch command.
type Config struct {
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	Supersample int          `yaml:"supersample"`
	Gamma       bool         `yaml:"gamma"`
	Background  claybuf.RGBA `yaml:"background"`
	// Yaw and Pitch are the initial orbit angles in radians.
	Yaw      float32 `yaml:"yaw"`
	Pitch    float32 `yaml:"pitch"`
	Label    string  `yaml:"label,omitempty"`
	FontPath string  `yaml:"fontPath,omitempty"`
	Silent   bool    `yaml:"silent,omitempty"`
}

// DefaultConfig returns the settings used when no config file is
// given: a 1080p opaque render with supersampling and gamma on.
func DefaultConfig() Config {
	return Config{
		Width:       1920,
		Height:      1080,
		Supersample: 2,
		Gamma:       true,
		Background:  claybuf.RGBA{R: 0.12, G: 0.12, B: 0.14, A: 1},
		Yaw:         0.6,
		Pitch:       -0.4,
	}
}

// RenderConfig converts the file settings to a [RenderConfig].
func (c Config) RenderConfig() RenderConfig {
	return RenderConfig{
		Width:       c.Width,
		Height:      c.Height,
		Supersample: c.Supersample,
		Gamma:       c.Gamma,
		Background:  c.Background,
		Label:       c.Label,
		FontPath:    c.FontPath,
		Silent:      c.Silent,
	}
}

// LoadConfig reads a YAML config file with said filename. Missing
// fields keep their default values.
func LoadConfig(filename string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, fmt.Errorf("parsing config %q: %w", filename, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("config %q: bad image dimensions %dx%d", filename, c.Width, c.Height)
	}
	return c, nil
}

// Save writes the config as YAML to a file with said filename.
func (c Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
