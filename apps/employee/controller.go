package employee

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/getevo/evo/v2"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

// Emotion zones derived from chat mood scores.
const (
	ZoneSad          = "sad"
	ZoneLeaningSad   = "leaning_sad"
	ZoneNeutral      = "neutral"
	ZoneLeaningHappy = "leaning_happy"
	ZoneHappy        = "happy"
)

// MoodStats summarizes scored chats.
type MoodStats struct {
	AverageScore        float64        `json:"average_score"`
	TotalScored         int            `json:"total_scored"`
	EmotionDistribution map[string]int `json:"emotion_distribution"`
	LastScores          []int          `json:"last_scores"`
}

// Profile is the employee's self-service dashboard payload.
type Profile struct {
	Employee         *models.Employee `json:"employee"`
	MoodStats        MoodStats        `json:"mood_stats"`
	TotalChats       int              `json:"total_chats"`
	TotalMessages    int64            `json:"total_messages"`
	LastChatAt       *time.Time       `json:"last_chat_at,omitempty"`
	UpcomingMeets    int64            `json:"upcoming_meets"`
	UpcomingSessions int64            `json:"upcoming_sessions"`
	CompanyData      json.RawMessage  `json:"company_data,omitempty"`
}

// EmotionZone maps a 1-6 mood score onto a zone label.
func EmotionZone(score int) string {
	switch {
	case score <= 2:
		return ZoneSad
	case score == 3:
		return ZoneLeaningSad
	case score == 4:
		return ZoneNeutral
	case score == 5:
		return ZoneLeaningHappy
	default:
		return ZoneHappy
	}
}

// ComputeMoodStats aggregates the scored chats of an employee. Unscored
// chats (mood -1) are excluded.
func ComputeMoodStats(chats []models.Chat) MoodStats {
	stats := MoodStats{EmotionDistribution: map[string]int{}}

	var scores []int
	sum := 0
	for _, chat := range chats {
		if chat.MoodScore < 1 {
			continue
		}
		scores = append(scores, chat.MoodScore)
		sum += chat.MoodScore
		stats.EmotionDistribution[EmotionZone(chat.MoodScore)]++
	}

	stats.TotalScored = len(scores)
	if len(scores) > 0 {
		stats.AverageScore = float64(sum) / float64(len(scores))
	}

	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	if len(scores) > 5 {
		scores = scores[:5]
	}
	stats.LastScores = scores
	return stats
}

// Profile returns the caller's profile with mood statistics and upcoming
// activity counts.
func (c Controller) Profile(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	employee, err := models.GetEmployeeByID(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}

	chats, err := models.GetChatsByEmployee(employee.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	chatIDs := make([]string, 0, len(chats))
	for _, chat := range chats {
		chatIDs = append(chatIDs, chat.ChatID)
	}
	totalMessages, err := models.CountMessagesInChats(chatIDs)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	now := time.Now().UTC()
	upcomingMeets, err := models.CountUpcomingMeets(employee.EmployeeID, now)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	upcomingSessions, err := models.CountUpcomingPendingSessions(employee.EmployeeID, now)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	profile := Profile{
		Employee:         employee,
		MoodStats:        ComputeMoodStats(chats),
		TotalChats:       len(chats),
		TotalMessages:    totalMessages,
		UpcomingMeets:    upcomingMeets,
		UpcomingSessions: upcomingSessions,
		CompanyData:      json.RawMessage(employee.CompanyData),
	}
	if len(chats) > 0 {
		profile.LastChatAt = &chats[0].UpdatedAt
	}

	return response.OK(profile)
}

// ScheduledSessions lists the caller's pending future sessions.
func (c Controller) ScheduledSessions(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	sessions, err := models.GetSessionsByEmployee(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	now := time.Now().UTC()
	upcoming := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.Status == models.SessionStatusPending && session.ScheduledAt.After(now) {
			upcoming = append(upcoming, session)
		}
	}
	return response.List(upcoming, len(upcoming))
}

// ScheduledMeets lists the caller's still-scheduled meetings on either side.
func (c Controller) ScheduledMeets(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	meets, err := models.GetScheduledMeetsForUser(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(meets, len(meets))
}

// Chats lists the caller's chats, newest first.
func (c Controller) Chats(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	chats, err := models.GetChatsByEmployee(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(chats, len(chats))
}

// Notifications lists the caller's notifications, newest first.
func (c Controller) Notifications(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	notifications, err := models.GetNotificationsByEmployee(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(notifications, len(notifications))
}

// MarkNotificationRead flips one of the caller's notifications to read.
func (c Controller) MarkNotificationRead(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	id := uint(request.Param("id").Int())
	if err := models.MarkNotificationRead(id, actor.EmployeeID); err != nil {
		return response.Error(response.ErrNotFound)
	}
	return response.Message("Notification marked as read")
}
