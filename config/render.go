package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ResampleNearest        = "nearest"
	ResampleApproxBiLinear = "approxbilinear"
	ResampleBiLinear       = "bilinear"
	ResampleCatmullRom     = "catmullrom"
)

const (
	FormatPNG = "png"
	FormatBMP = "bmp"
	FormatGIF = "gif"
)

type Render struct {
	Upscale            int    `yaml:"upscale"`
	Resample           string `yaml:"resample"`
	Workers            int    `yaml:"workers"`
	ClipToCanvas       bool   `yaml:"clip_to_canvas"`
	FillGaps           bool   `yaml:"fill_gaps"`
	SkipUnknownOpcodes bool   `yaml:"skip_unknown_opcodes"`
}

type Output struct {
	Format string `yaml:"format"`
	FPS    int    `yaml:"fps"`
	Dir    string `yaml:"dir"`
}

type Config struct {
	Encoding string `yaml:"encoding"`
	Render   Render `yaml:"render"`
	Output   Output `yaml:"output"`
}

func Default() *Config {
	return &Config{
		Encoding: DefaultEncoding,
		Render: Render{
			Upscale:            1,
			Resample:           ResampleNearest,
			Workers:            1,
			SkipUnknownOpcodes: true,
		},
		Output: Output{
			Format: FormatPNG,
			FPS:    60,
			Dir:    "output",
		},
	}
}

// Load reads a YAML config. Missing keys keep their Default values.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Render.Upscale < 1 {
		return errors.Errorf("render.upscale must be >= 1, got %d", c.Render.Upscale)
	}
	if c.Render.Workers < 1 {
		return errors.Errorf("render.workers must be >= 1, got %d", c.Render.Workers)
	}
	switch c.Render.Resample {
	case ResampleNearest, ResampleApproxBiLinear, ResampleBiLinear, ResampleCatmullRom:
	default:
		return errors.Errorf("Unknown resample kernel %q", c.Render.Resample)
	}
	switch c.Output.Format {
	case FormatPNG, FormatBMP, FormatGIF:
	default:
		return errors.Errorf("Unknown output format %q", c.Output.Format)
	}
	if c.Output.FPS <= 0 {
		return errors.Errorf("output.fps must be > 0, got %d", c.Output.FPS)
	}
	return nil
}

// Apply pushes process-wide settings (the name encoding) into effect.
func (c *Config) Apply() error {
	if c.Encoding == "" {
		return nil
	}
	return SetEncoding(c.Encoding)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
