package employee

import (
	"testing"

	"github.com/solacehr/solace-backend/apps/models"
	"github.com/stretchr/testify/assert"
)

func scoredChat(score int) models.Chat {
	return models.Chat{ChatID: models.NewChatID(), MoodScore: score}
}

func TestEmotionZoneBuckets(t *testing.T) {
	assert.Equal(t, ZoneSad, EmotionZone(1))
	assert.Equal(t, ZoneSad, EmotionZone(2))
	assert.Equal(t, ZoneLeaningSad, EmotionZone(3))
	assert.Equal(t, ZoneNeutral, EmotionZone(4))
	assert.Equal(t, ZoneLeaningHappy, EmotionZone(5))
	assert.Equal(t, ZoneHappy, EmotionZone(6))
}

func TestComputeMoodStatsSkipsUnscored(t *testing.T) {
	chats := []models.Chat{
		scoredChat(models.MoodScoreUnassigned),
		scoredChat(4),
		scoredChat(2),
	}
	stats := ComputeMoodStats(chats)
	assert.Equal(t, 2, stats.TotalScored)
	assert.InDelta(t, 3.0, stats.AverageScore, 0.0001)
	assert.Equal(t, map[string]int{ZoneNeutral: 1, ZoneSad: 1}, stats.EmotionDistribution)
}

func TestComputeMoodStatsEmpty(t *testing.T) {
	stats := ComputeMoodStats(nil)
	assert.Zero(t, stats.TotalScored)
	assert.Zero(t, stats.AverageScore)
	assert.Empty(t, stats.LastScores)
}

func TestComputeMoodStatsTopFiveScores(t *testing.T) {
	chats := []models.Chat{
		scoredChat(1), scoredChat(2), scoredChat(3),
		scoredChat(4), scoredChat(5), scoredChat(6),
	}
	stats := ComputeMoodStats(chats)
	assert.Equal(t, []int{6, 5, 4, 3, 2}, stats.LastScores)
}
