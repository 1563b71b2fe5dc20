package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type BracketFormat string

const (
	FormatKnockout       BracketFormat = "knockout"
	FormatRoundRobin     BracketFormat = "round_robin"
	FormatGroupsKnockout BracketFormat = "groups_knockout"
	FormatAmericano      BracketFormat = "americano"
	FormatMexicano       BracketFormat = "mexicano"
)

type BracketStatus string

const (
	BracketStatusDraft     BracketStatus = "draft"
	BracketStatusPublished BracketStatus = "published"
)

type SeedingMethod string

const (
	SeedingRandom  SeedingMethod = "random"
	SeedingManual  SeedingMethod = "manual"
	SeedingRanking SeedingMethod = "ranking"
)

// Bracket is the full match structure for one tournament category.
// Status only ever moves draft -> published.
type Bracket struct {
	ID                int           `json:"id" db:"id"`
	TournamentID      int           `json:"tournament_id" db:"tournament_id"`
	CategoryID        int           `json:"category_id" db:"category_id"`
	Format            BracketFormat `json:"format" db:"format"`
	Status            BracketStatus `json:"status" db:"status"`
	SeedingMethod     SeedingMethod `json:"seeding_method" db:"seeding_method"`
	ConfigJSON        *string       `json:"-" db:"config_json"`
	KnockoutGenerated bool          `json:"knockout_generated" db:"knockout_generated"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}

// KnockoutConfig tunes single-elimination generation.
type KnockoutConfig struct {
	ThirdPlaceMatch bool `json:"third_place_match"`
}

// RoundRobinConfig tunes round-robin generation and standings points.
type RoundRobinConfig struct {
	PointsPerWin  int `json:"points_per_win"`
	PointsPerLoss int `json:"points_per_loss"`
}

// GroupsKnockoutConfig describes a group stage feeding a knockout stage.
type GroupsKnockoutConfig struct {
	GroupCount        int  `json:"group_count"`
	TeamsPerGroup     int  `json:"teams_per_group"`
	AdvancingPerGroup int  `json:"advancing_per_group"`
	ThirdPlaceMatch   bool `json:"third_place_match"`
}

// BracketConfig is the closed set of per-format configurations. Exactly one
// field matching the bracket format is populated after ParseConfig.
type BracketConfig struct {
	Knockout       *KnockoutConfig
	RoundRobin     *RoundRobinConfig
	GroupsKnockout *GroupsKnockoutConfig
}

// ParseConfig decodes the raw config blob into the variant selected by the
// bracket format. A nil or empty blob yields format defaults.
func (b *Bracket) ParseConfig() (*BracketConfig, error) {
	raw := ""
	if b.ConfigJSON != nil {
		raw = *b.ConfigJSON
	}

	cfg := &BracketConfig{}
	switch b.Format {
	case FormatKnockout:
		ko := &KnockoutConfig{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), ko); err != nil {
				return nil, fmt.Errorf("invalid knockout config: %w", err)
			}
		}
		cfg.Knockout = ko
	case FormatRoundRobin, FormatAmericano, FormatMexicano:
		rr := &RoundRobinConfig{PointsPerWin: 2}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), rr); err != nil {
				return nil, fmt.Errorf("invalid round robin config: %w", err)
			}
		}
		if rr.PointsPerWin <= 0 {
			rr.PointsPerWin = 2
		}
		cfg.RoundRobin = rr
	case FormatGroupsKnockout:
		gk := &GroupsKnockoutConfig{}
		if raw == "" {
			return nil, fmt.Errorf("groups_knockout bracket requires a group config")
		}
		if err := json.Unmarshal([]byte(raw), gk); err != nil {
			return nil, fmt.Errorf("invalid groups_knockout config: %w", err)
		}
		cfg.GroupsKnockout = gk
	default:
		return nil, fmt.Errorf("unknown bracket format %q", b.Format)
	}
	return cfg, nil
}
