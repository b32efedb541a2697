package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"subburn/internal/segment"
	"subburn/internal/style"
)

// Config captures the compilation settings for a subburn project.
type Config struct {
	Version     int                   `yaml:"version" json:"version"`
	Video       VideoConfig           `yaml:"video" json:"video"`
	Output      OutputConfig          `yaml:"output" json:"output"`
	Style       style.Spec            `yaml:"style,omitempty" json:"style,omitempty"`
	Scale       float64               `yaml:"scale,omitempty" json:"scale,omitempty"`
	Fonts       []string              `yaml:"fonts,omitempty" json:"fonts,omitempty"`
	Presets     map[string]style.Spec `yaml:"presets,omitempty" json:"presets,omitempty"`
	PresetFiles []string              `yaml:"preset_files,omitempty" json:"preset_files,omitempty"`
	Logging     LoggingConfig         `yaml:"logging" json:"logging"`
	Batch       BatchConfig           `yaml:"batch" json:"batch"`
	Server      ServerConfig          `yaml:"server" json:"server"`
}

// VideoConfig is the frame size styled output is laid out against.
type VideoConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// OutputConfig controls where compiled documents are written.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	Dir    string `yaml:"dir" json:"dir"`
	// Filename is a template; $NAME is the cue file's base name and $EXT
	// the format extension without the dot.
	Filename string `yaml:"filename" json:"filename"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// BatchConfig tunes the batch compiler.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Video: VideoConfig{
			Width:  1920,
			Height: 1080,
		},
		Output: OutputConfig{
			Format:   "ass",
			Dir:      "subtitles",
			Filename: "$NAME.$EXT",
		},
		Scale: 1,
		Logging: LoggingConfig{
			Level: "info",
		},
		Batch: BatchConfig{
			Concurrency: 2,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8765",
		},
	}
}

// Load reads the configuration from disk if it exists, otherwise returns the
// default configuration. Files ending in .toml are decoded as TOML,
// everything else as YAML.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(contents, filepath.Ext(path))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.loadPresetFiles(filepath.Dir(path)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes contents in the format named by ext (".toml", ".yaml",
// ".yml" or ".json") and applies defaults.
func Parse(contents []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if err := decodeTOML(contents, &cfg); err != nil {
			return Config{}, err
		}
	case ".json":
		if err := json.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// decodeTOML goes through a generic document and JSON so style fields such
// as font_size accept either a number or a string, as they do in YAML.
func decodeTOML(contents []byte, cfg *Config) error {
	var doc map[string]any
	if err := toml.Unmarshal(contents, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize config: %w", err)
	}
	if err := json.Unmarshal(buf, cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// ApplyDefaults fills fields the file left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Video.Width == 0 {
		c.Video.Width = defaults.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = defaults.Video.Height
	}
	if strings.TrimSpace(c.Output.Format) == "" {
		c.Output.Format = defaults.Output.Format
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaults.Output.Dir
	}
	if strings.TrimSpace(c.Output.Filename) == "" {
		c.Output.Filename = defaults.Output.Filename
	}
	if c.Scale == 0 {
		c.Scale = defaults.Scale
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = defaults.Batch.Concurrency
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// Resolution returns the configured frame size.
func (c Config) Resolution() segment.Resolution {
	return segment.Resolution{Width: c.Video.Width, Height: c.Video.Height}
}

// FontList returns the allow-list extended with the configured fonts.
func (c Config) FontList() style.Fonts {
	return style.NewFonts(c.Fonts...)
}

// OutputName renders the output filename template for a cue file.
func (c Config) OutputName(cuePath, ext string) string {
	base := strings.TrimSuffix(filepath.Base(cuePath), filepath.Ext(cuePath))
	return strings.NewReplacer("$NAME", base, "$EXT", strings.TrimPrefix(ext, ".")).Replace(c.Output.Filename)
}
