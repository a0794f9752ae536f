package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

func TestComputeBadges_EarlyAdopter(t *testing.T) {
	badges := ComputeBadges(&models.User{ID: 100}, 0)
	assert.Contains(t, badges, BadgeEarlyAdopter)

	badges = ComputeBadges(&models.User{ID: 101}, 0)
	assert.NotContains(t, badges, BadgeEarlyAdopter)
}

func TestComputeBadges_TopContributor(t *testing.T) {
	badges := ComputeBadges(&models.User{ID: 500, ReputationPoints: 1000}, 0)
	assert.Contains(t, badges, BadgeTopContributor)

	badges = ComputeBadges(&models.User{ID: 500, ReputationPoints: 999}, 0)
	assert.NotContains(t, badges, BadgeTopContributor)
}

func TestComputeBadges_HelpfulHand(t *testing.T) {
	badges := ComputeBadges(&models.User{ID: 500}, 50)
	assert.Contains(t, badges, BadgeHelpfulHand)

	badges = ComputeBadges(&models.User{ID: 500}, 49)
	assert.NotContains(t, badges, BadgeHelpfulHand)
}

func TestComputeBadges_Stacking(t *testing.T) {
	badges := ComputeBadges(&models.User{ID: 1, ReputationPoints: 2000}, 80)
	assert.Equal(t, []string{BadgeEarlyAdopter, BadgeTopContributor, BadgeHelpfulHand}, badges)

	badges = ComputeBadges(&models.User{ID: 500}, 0)
	assert.Empty(t, badges)
}

func TestTodayRange(t *testing.T) {
	start, end := todayRange()
	assert.Equal(t, 24.0, end.Sub(start).Hours())
	assert.Zero(t, start.Hour())
	assert.Zero(t, start.Minute())
}
