package arrange

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default values for [Config].
const (
	// DefaultArrowPadding is the gap, in display units, left between an
	// arrow end and the box of the node it points at.
	DefaultArrowPadding = 8
	// DefaultRatioFloor and DefaultRatioCutoff bound the projection ratios
	// for which a closing cycle is reconciled by stretching a chain. They
	// are empirical; larger cutoffs let cycles blow the diagram up.
	DefaultRatioFloor  = 0.999999
	DefaultRatioCutoff = 4.0
	// DefaultMinArrowLength is the length, in display units, under which
	// an arrow is considered to have no direction.
	DefaultMinArrowLength = 1e-6
)

// Config holds the tunables of the layout engine.
type Config struct {
	// ArrowPadding is the gap between arrow ends and node boxes, in
	// display units.
	ArrowPadding float64 `yaml:"arrow_padding" validate:"gte=0"`
	// Zoom converts model units (anchors, arrow endpoints) to display
	// units (node bounds).
	Zoom float64 `yaml:"zoom" validate:"gt=0"`
	// A cycle closing onto settled geometry is reconciled only when its
	// projection ratio lies strictly between RatioFloor and RatioCutoff.
	RatioFloor  float64 `yaml:"ratio_floor" validate:"gt=0"`
	RatioCutoff float64 `yaml:"ratio_cutoff" validate:"gtfield=RatioFloor"`
	// MinArrowLength is in display units.
	MinArrowLength float64 `yaml:"min_arrow_length" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		ArrowPadding:   DefaultArrowPadding,
		Zoom:           1,
		RatioFloor:     DefaultRatioFloor,
		RatioCutoff:    DefaultRatioCutoff,
		MinArrowLength: DefaultMinArrowLength,
	}
}

var validate = validator.New()

// Validate checks the configuration's invariants.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: field %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseConfig decodes YAML over the defaults, so that a file only needs to
// name the values it changes.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path. An empty path yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
