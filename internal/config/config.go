package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/annotator/internal/engine"
	"github.com/inamate/annotator/internal/labels"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:""`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	// Labels is a comma separated list of name=#hex entries.
	Labels []string `envconfig:"LABELS" default:""`

	MDNSEnabled  bool   `envconfig:"MDNS_ENABLED" default:"false"`
	MDNSInstance string `envconfig:"MDNS_INSTANCE" default:"annotator"`

	SnapThreshold     float64       `envconfig:"SNAP_THRESHOLD" default:"15"`
	MinShapeSize      float64       `envconfig:"MIN_SHAPE_SIZE" default:"5"`
	ContinuousSpacing float64       `envconfig:"CONTINUOUS_SPACING" default:"5"`
	MaxPoints         int           `envconfig:"MAX_POINTS" default:"0"`
	SimplifyEpsilon   float64       `envconfig:"SIMPLIFY_EPSILON" default:"1"`
	MaxHistory        int           `envconfig:"MAX_HISTORY" default:"0"`
	MoveThrottle      time.Duration `envconfig:"MOVE_THROTTLE" default:"10ms"`
	ChordWindow       time.Duration `envconfig:"CHORD_WINDOW" default:"300ms"`
	PasteOffset       float64       `envconfig:"PASTE_OFFSET" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns, which
// match on host only.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		out = append(out, o)
	}
	return out
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// EngineOptions builds the per-connection engine tuning, including the
// label registry.
func (c *Config) EngineOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()
	opts.Drawing.SnapThreshold = c.SnapThreshold
	opts.Drawing.MinShapeSize = c.MinShapeSize
	opts.Drawing.ContinuousSpacing = c.ContinuousSpacing
	opts.Drawing.MaxPoints = c.MaxPoints
	opts.Drawing.SimplifyEpsilon = c.SimplifyEpsilon
	opts.MaxHistory = c.MaxHistory
	opts.MoveThrottle = c.MoveThrottle
	opts.ChordWindow = c.ChordWindow
	opts.PasteOffset = c.PasteOffset

	specs, err := labels.ParseSpecs(c.Labels)
	if err != nil {
		return engine.Options{}, fmt.Errorf("parse LABELS: %w", err)
	}
	reg, err := labels.New(specs)
	if err != nil {
		return engine.Options{}, fmt.Errorf("build label registry: %w", err)
	}
	opts.Labels = reg
	return opts, nil
}
