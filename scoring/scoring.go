package scoring

import (
	"encoding/json"
	"fmt"
)

type Format string

const (
	FormatClassic Format = "classic"
	FormatExpress Format = "express"
)

// Side identifies a match side; 1 and 2 match the team slots on a match.
type Side int

const (
	Side1 Side = 1
	Side2 Side = 2
)

// Config is the per-category scoring configuration. Classic counts games per
// set (tennis-style), express counts rally points to a fixed cap.
type Config struct {
	Format        Format `json:"format"`
	GamesPerSet   int    `json:"games_per_set"`
	AllowTiebreak *bool  `json:"allow_tiebreak"`
	TotalSets     int    `json:"total_sets"`
	MaxPoints     int    `json:"max_points"`
}

// TiebreakAllowed resolves the AllowTiebreak default (true).
func (c Config) TiebreakAllowed() bool {
	return c.AllowTiebreak == nil || *c.AllowTiebreak
}

// SetsToWin is the majority of sets that decides a match.
func (c Config) SetsToWin() int {
	return c.TotalSets/2 + 1
}

// ParseConfig decodes a scoring blob and applies defaults. An empty blob
// yields classic best-of-three with 6-game sets and tiebreaks.
func ParseConfig(raw string) (Config, error) {
	cfg := Config{Format: FormatClassic}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return Config{}, fmt.Errorf("invalid scoring config: %w", err)
		}
	}
	if cfg.Format == "" {
		cfg.Format = FormatClassic
	}
	switch cfg.Format {
	case FormatClassic:
		if cfg.GamesPerSet == 0 {
			cfg.GamesPerSet = 6
		}
		if cfg.TotalSets == 0 {
			cfg.TotalSets = 3
		}
		if cfg.GamesPerSet < 1 {
			return Config{}, fmt.Errorf("games_per_set must be positive, got %d", cfg.GamesPerSet)
		}
		if cfg.TotalSets < 1 || cfg.TotalSets%2 == 0 {
			return Config{}, fmt.Errorf("total_sets must be odd, got %d", cfg.TotalSets)
		}
	case FormatExpress:
		if cfg.TotalSets == 0 {
			cfg.TotalSets = 1
		}
		if cfg.MaxPoints < 1 {
			return Config{}, fmt.Errorf("express scoring requires max_points, got %d", cfg.MaxPoints)
		}
		if cfg.TotalSets < 1 || (cfg.TotalSets > 1 && cfg.TotalSets%2 == 0) {
			return Config{}, fmt.Errorf("total_sets must be 1 or odd, got %d", cfg.TotalSets)
		}
	default:
		return Config{}, fmt.Errorf("unknown scoring format %q", cfg.Format)
	}
	return cfg, nil
}
