package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-50, "-50"},
		{-1500, "-1,500"},
		{-123456, "-123,456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "🥇", RankLabel(1))
	assert.Equal(t, "🥉", RankLabel(3))
	assert.Equal(t, "#4", RankLabel(4))
	assert.Equal(t, "#0", RankLabel(0))
}

func TestGetTier(t *testing.T) {
	tier, next := GetTier(0)
	assert.Equal(t, "Rookie", tier.Name)
	require.NotNil(t, next)
	assert.Equal(t, "Sapper", next.Name)

	tier, _ = GetTier(2500)
	assert.Equal(t, "Demolitionist", tier.Name)

	tier, next = GetTier(1_000_000)
	assert.Equal(t, "Legend", tier.Name)
	assert.Nil(t, next)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), ProgressBar(0, 10))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), ProgressBar(250, 10))
	assert.Equal(t, strings.Repeat("█", 10), ProgressBar(300_000, 10))
}

func TestBalanceEmbed(t *testing.T) {
	e := BalanceEmbed("sam", 12345, 600)
	assert.Equal(t, "💰 sam's Balance", e.Title)
	assert.Contains(t, e.Description, "12,345")
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "🥈 Sapper", e.Fields[1].Value)
	assert.Equal(t, "Next: 🥇 Demolitionist", e.Fields[2].Name)

	top := BalanceEmbed("max", 0, 300_000)
	assert.Len(t, top.Fields, 2)
}

func TestInsufficientFundsEmbed(t *testing.T) {
	e := InsufficientFundsEmbed(2000, 150, "Extra Life")
	assert.Contains(t, e.Description, "Extra Life")
	assert.Contains(t, e.Description, "2,000")
	assert.Contains(t, e.Description, "150")
	assert.Equal(t, ColorError, e.Color)
}

func TestGameTimeoutEmbed(t *testing.T) {
	e := GameTimeoutEmbed(1500)
	assert.Equal(t, "Game timed out. Your bet of 1,500 coins was not taken.", e.Description)
}
