package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("")
	require.NoError(t, err)
	assert.Equal(t, FormatClassic, cfg.Format)
	assert.Equal(t, 6, cfg.GamesPerSet)
	assert.Equal(t, 3, cfg.TotalSets)
	assert.True(t, cfg.TiebreakAllowed())
	assert.Equal(t, 2, cfg.SetsToWin())
}

func TestParseConfigExpress(t *testing.T) {
	cfg, err := ParseConfig(`{"format":"express","max_points":16}`)
	require.NoError(t, err)
	assert.Equal(t, FormatExpress, cfg.Format)
	assert.Equal(t, 1, cfg.TotalSets)
	assert.Equal(t, 16, cfg.MaxPoints)
	assert.Equal(t, 1, cfg.SetsToWin())
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"even total sets", `{"total_sets":2}`},
		{"express without cap", `{"format":"express"}`},
		{"unknown format", `{"format":"golden_point"}`},
		{"malformed json", `{"format":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestParseConfigTiebreakOptOut(t *testing.T) {
	cfg, err := ParseConfig(`{"allow_tiebreak":false}`)
	require.NoError(t, err)
	assert.False(t, cfg.TiebreakAllowed())
}
