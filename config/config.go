// Package config loads erd settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for erd.
// Environment variables always override YAML values.
type Config struct {
	Log     LogConfig       `yaml:"log"`
	History HistoryConfig   `yaml:"history"`
	Zoom    ZoomConfig      `yaml:"zoom"`
	Nodes   NodeConfig      `yaml:"nodes"`
	View    ViewPreferences `yaml:"view"`
}

// LogConfig controls the zap logger. The terminal front-end owns stdout,
// so logs always go to a file.
type LogConfig struct {
	Level       string `yaml:"level" env:"ERD_LOG_LEVEL" env-default:"info"`
	File        string `yaml:"file" env:"ERD_LOG_FILE" env-default:"erd.log"`
	Development bool   `yaml:"development" env:"ERD_LOG_DEVELOPMENT" env-default:"false"`
}

// HistoryConfig bounds the undo/redo stack.
type HistoryConfig struct {
	Capacity int `yaml:"capacity" env:"ERD_HISTORY_CAPACITY" env-default:"500"`
}

// ZoomConfig holds the view zoom limits and step factors.
type ZoomConfig struct {
	Min      float64 `yaml:"min" env:"ERD_ZOOM_MIN" env-default:"0.1"`
	Max      float64 `yaml:"max" env:"ERD_ZOOM_MAX" env-default:"3.0"`
	Step     float64 `yaml:"step" env:"ERD_ZOOM_STEP" env-default:"1.2"`
	WheelIn  float64 `yaml:"wheel_in" env:"ERD_ZOOM_WHEEL_IN" env-default:"1.1"`
	WheelOut float64 `yaml:"wheel_out" env:"ERD_ZOOM_WHEEL_OUT" env-default:"0.9"`
}

// NodeConfig sets the size of newly placed nodes, in world units.
type NodeConfig struct {
	EntityWidth      float64 `yaml:"entity_width" env:"ERD_ENTITY_WIDTH" env-default:"220"`
	EntityHeight     float64 `yaml:"entity_height" env:"ERD_ENTITY_HEIGHT" env-default:"180"`
	AnnotationWidth  float64 `yaml:"annotation_width" env:"ERD_ANNOTATION_WIDTH" env-default:"200"`
	AnnotationHeight float64 `yaml:"annotation_height" env:"ERD_ANNOTATION_HEIGHT" env-default:"100"`
}

// ViewPreferences are presentation settings handed to the front-ends.
type ViewPreferences struct {
	Theme          string  `yaml:"theme" env:"ERD_THEME" env-default:"unicode"`
	ShowStatusBar  bool    `yaml:"show_status_bar" env:"ERD_SHOW_STATUS_BAR" env-default:"true"`
	ShowAttributes bool    `yaml:"show_attributes" env:"ERD_SHOW_ATTRIBUTES" env-default:"true"`
	CellWidth      float64 `yaml:"cell_width" env:"ERD_CELL_WIDTH" env-default:"10"`
	CellHeight     float64 `yaml:"cell_height" env:"ERD_CELL_HEIGHT" env-default:"20"`
	PanStep        float64 `yaml:"pan_step" env:"ERD_PAN_STEP" env-default:"40"`
}

// Load reads path (when it exists) and applies environment overrides. An
// empty path reads the environment only. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := read(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func read(path string, cfg *Config) error {
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			return nil
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Default returns the built-in settings, ignoring files and environment.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", File: "erd.log"},
		History: HistoryConfig{Capacity: 500},
		Zoom:    ZoomConfig{Min: 0.1, Max: 3.0, Step: 1.2, WheelIn: 1.1, WheelOut: 0.9},
		Nodes:   NodeConfig{EntityWidth: 220, EntityHeight: 180, AnnotationWidth: 200, AnnotationHeight: 100},
		View: ViewPreferences{
			Theme:          "unicode",
			ShowStatusBar:  true,
			ShowAttributes: true,
			CellWidth:      10,
			CellHeight:     20,
			PanStep:        40,
		},
	}
}

// Validate rejects settings the editor cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.History.Capacity < 1 {
		errs = append(errs, fmt.Errorf("history.capacity must be at least 1, got %d", c.History.Capacity))
	}
	if c.Zoom.Min <= 0 || c.Zoom.Min >= c.Zoom.Max {
		errs = append(errs, fmt.Errorf("zoom.min must be positive and below zoom.max, got %g..%g", c.Zoom.Min, c.Zoom.Max))
	}
	if c.Zoom.Step <= 1 {
		errs = append(errs, fmt.Errorf("zoom.step must be greater than 1, got %g", c.Zoom.Step))
	}
	if c.Zoom.WheelIn <= 1 || c.Zoom.WheelOut <= 0 || c.Zoom.WheelOut >= 1 {
		errs = append(errs, fmt.Errorf("zoom wheel factors must satisfy in > 1 and 0 < out < 1, got %g/%g", c.Zoom.WheelIn, c.Zoom.WheelOut))
	}
	if c.Nodes.EntityWidth <= 0 || c.Nodes.EntityHeight <= 0 {
		errs = append(errs, errors.New("entity size must be positive"))
	}
	if c.Nodes.AnnotationWidth <= 0 || c.Nodes.AnnotationHeight <= 0 {
		errs = append(errs, errors.New("annotation size must be positive"))
	}
	if c.View.CellWidth <= 0 || c.View.CellHeight <= 0 {
		errs = append(errs, errors.New("cell size must be positive"))
	}
	switch c.View.Theme {
	case "unicode", "ascii":
	default:
		errs = append(errs, fmt.Errorf("unknown theme %q", c.View.Theme))
	}
	return errors.Join(errs...)
}
