package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPForLevel(t *testing.T) {
	cases := []struct {
		level    int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{1, 100},
		{2, 282},
		{3, 519},
		{4, 800},
		{10, 3162},
		{50, 35355},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, XPForLevel(tc.level), "level %d", tc.level)
	}
}

func TestXPTargetPrefersBackendValue(t *testing.T) {
	info := LevelInfo{Level: 2, XPForNextLevel: 300}
	assert.Equal(t, 300, info.XPTarget())
}

func TestXPTargetFallsBackToFormula(t *testing.T) {
	info := LevelInfo{Level: 2}
	assert.Equal(t, 282, info.XPTarget())

	info = LevelInfo{Level: 0}
	assert.Equal(t, 0, info.XPTarget())
}

func TestEarnedAchievementsOrderAndFilter(t *testing.T) {
	info := LevelInfo{
		Achievements: map[string]bool{
			"night_owl":   true,
			"first_timer": true,
			"early_bird":  false,
			"unknown_key": true, // неизвестные ключи игнорируются
		},
	}

	earned := info.EarnedAchievements()
	assert.Equal(t, []string{"🎯 First Timer", "🦉 Night Owl"}, earned)
}

func TestEarnedAchievementsEmpty(t *testing.T) {
	info := LevelInfo{}
	assert.Empty(t, info.EarnedAchievements())
}
