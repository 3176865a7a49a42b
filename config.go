package frames

import (
	"fmt"
	"image"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSource is the sprite sheet read when no other path is given
	DefaultSource = "src/main/resources/assets/SkeletonSpriteSheet2.png"
	// DefaultOutput is the directory the frames are written to
	DefaultOutput = "src/main/resources/assets/frames"
	// DefaultSize is the side length of each square output frame
	DefaultSize = 64
	// DefaultHeight is the height of each crop, measured from y=0
	DefaultHeight = 384

	maxColors = 256
)

// Region is a single frame in the sprite sheet, spanning Left to Right
// horizontally. Every region starts at the top of the sheet.
type Region struct {
	Index int `yaml:"index"`
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
}

// Rect returns the crop rectangle for the region given the frame height
func (r Region) Rect(height int) image.Rectangle {
	return image.Rect(r.Left, 0, r.Right, height)
}

// Width returns the width of the region in source pixels
func (r Region) Width() int {
	return r.Right - r.Left
}

// Positions were tuned by eye against the skeleton sheet
var defaultRegions = []Region{
	{1, 75, 306},
	{2, 306, 537},
	{3, 512, 768},
	{4, 768, 981},
	{5, 990, 1213},
	{6, 1213, 1436},
}

// Config describes a complete extraction run.
type Config struct {
	Source  string   `yaml:"source"`
	Output  string   `yaml:"output"`
	Size    int      `yaml:"size"`
	Height  int      `yaml:"height"`
	Colors  int      `yaml:"colors"`
	Regions []Region `yaml:"regions"`
}

// DefaultConfig returns the configuration used for the skeleton sprite
// sheet
func DefaultConfig() Config {
	return Config{
		Source:  DefaultSource,
		Output:  DefaultOutput,
		Size:    DefaultSize,
		Height:  DefaultHeight,
		Regions: append([]Region(nil), defaultRegions...),
	}
}

// LoadConfig reads a YAML configuration file. Any field not present in the
// file keeps its default value; a regions list replaces the default table
// entirely.
func LoadConfig(file string) (Config, error) {
	cfg := DefaultConfig()

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return cfg, err
	}

	// Left nil so an absent key can be told apart from an empty list
	cfg.Regions = nil

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w: %v", file, ErrInvalidConfig, err)
	}

	if cfg.Regions == nil {
		cfg.Regions = append([]Region(nil), defaultRegions...)
	}

	return cfg, nil
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	switch {
	case c.Source == "":
		return fmt.Errorf("%w: no source", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: no output directory", ErrInvalidConfig)
	case c.Size <= 0:
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	case c.Height <= 0:
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidConfig, c.Height)
	case c.Colors < 0 || c.Colors > maxColors:
		return fmt.Errorf("%w: colors must be between 0 and %d, got %d", ErrInvalidConfig, maxColors, c.Colors)
	case len(c.Regions) == 0:
		return fmt.Errorf("%w: no regions", ErrInvalidConfig)
	}

	seen := make(map[int]struct{}, len(c.Regions))
	for _, r := range c.Regions {
		switch {
		case r.Index < 1:
			return fmt.Errorf("%w: region index %d must be at least 1", ErrInvalidConfig, r.Index)
		case r.Left < 0:
			return fmt.Errorf("%w: region %d starts at negative x %d", ErrInvalidConfig, r.Index, r.Left)
		case r.Right <= r.Left:
			return fmt.Errorf("%w: region %d is empty (%d to %d)", ErrInvalidConfig, r.Index, r.Left, r.Right)
		}
		if _, ok := seen[r.Index]; ok {
			return fmt.Errorf("%w: duplicate region index %d", ErrInvalidConfig, r.Index)
		}
		seen[r.Index] = struct{}{}
	}

	return nil
}

// PlannedFrame describes what a single region will produce
type PlannedFrame struct {
	Region Region
	Rect   image.Rectangle
	Walk   string
	Idle   string
}

// Plan returns the frames the configuration will produce, in order
func (c Config) Plan() []PlannedFrame {
	plan := make([]PlannedFrame, 0, len(c.Regions))
	for _, r := range c.Regions {
		plan = append(plan, PlannedFrame{
			Region: r,
			Rect:   r.Rect(c.Height),
			Walk:   Walk.Filename(r.Index),
			Idle:   Idle.Filename(r.Index),
		})
	}
	return plan
}
