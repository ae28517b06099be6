package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SALESEDA_INPUT_PATH.
const EnvPrefix = "SALESEDA"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete run configuration.
type Config struct {
	Input   InputConfig   `json:"input" yaml:"input" toml:"input"`
	Figure  FigureConfig  `json:"figure" yaml:"figure" toml:"figure"`
	Logging LoggingConfig `json:"logging" yaml:"logging" toml:"logging"`
	Console ConsoleConfig `json:"console" yaml:"console" toml:"console"`
}

// InputConfig selects the dataset. Sample uses the bundled dataset instead of Path.
type InputConfig struct {
	Path        string   `json:"path" yaml:"path" toml:"path" validate:"required_unless=Sample true"`
	Sheet       string   `json:"sheet" yaml:"sheet" toml:"sheet"`
	Sample      bool     `json:"sample" yaml:"sample" toml:"sample"`
	DateLayouts []string `json:"date_layouts" yaml:"date_layouts" toml:"date_layouts" split_words:"true" validate:"min=1,dive,required"`
}

// FigureConfig controls the rendered grid. Width and Height are in inches.
type FigureConfig struct {
	Output string  `json:"output" yaml:"output" toml:"output" validate:"required,figureformat"`
	Width  float64 `json:"width" yaml:"width" toml:"width" validate:"gt=0,lte=100"`
	Height float64 `json:"height" yaml:"height" toml:"height" validate:"gt=0,lte=100"`
	Bins   int     `json:"bins" yaml:"bins" toml:"bins" validate:"min=1,max=100"`
}

type LoggingConfig struct {
	Level       string `json:"level" yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `json:"development" yaml:"development" toml:"development"`
}

type ConsoleConfig struct {
	Plain bool `json:"plain" yaml:"plain" toml:"plain"`
}

// Default returns the configuration of a run with no file, environment or flags.
func Default() Config {
	return Config{
		Input: InputConfig{
			Path:        "data.csv",
			DateLayouts: []string{"2006-01-02"},
		},
		Figure: FigureConfig{
			Output: "sales_analysis.png",
			Width:  15,
			Height: 12,
			Bins:   5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load layers the configuration: defaults, then the optional file, then
// SALESEDA_* environment variables, then overrides. The result is validated.
func Load(file string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if file != "" {
		fileCfg, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		cfg = mergeConfigs(cfg, *fileCfg)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads a TOML, YAML or JSON configuration file.
func LoadFile(filePath string) (*Config, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		if err := toml.Unmarshal(fileData, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return &cfg, nil
}

// mergeConfigs returns base with every non-zero field of override applied.
func mergeConfigs(base, override Config) Config {
	result := base

	if override.Input.Path != "" {
		result.Input.Path = override.Input.Path
	}
	if override.Input.Sheet != "" {
		result.Input.Sheet = override.Input.Sheet
	}
	if override.Input.Sample {
		result.Input.Sample = true
	}
	if len(override.Input.DateLayouts) > 0 {
		result.Input.DateLayouts = override.Input.DateLayouts
	}

	if override.Figure.Output != "" {
		result.Figure.Output = override.Figure.Output
	}
	if override.Figure.Width != 0 {
		result.Figure.Width = override.Figure.Width
	}
	if override.Figure.Height != 0 {
		result.Figure.Height = override.Figure.Height
	}
	if override.Figure.Bins != 0 {
		result.Figure.Bins = override.Figure.Bins
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Development {
		result.Logging.Development = true
	}

	if override.Console.Plain {
		result.Console.Plain = true
	}

	return result
}

var figureFormats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true,
	"svg": true, "pdf": true, "eps": true,
}

func validFigureFormat(fl validator.FieldLevel) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fl.Field().String())), ".")
	return figureFormats[ext]
}

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("figureformat", validFigureFormat); err != nil {
		return err
	}

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
