package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/chain"
	"github.com/solacehr/solace-backend/apps/llm"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/apps/nats"
)

// MinEmployeeMessages is the floor of employee-authored messages before a
// chat session may be ended. Avoids trivially short episodes.
const MinEmployeeMessages = 10

// ErrLLMUnavailable reports that no LLM service address is configured.
var ErrLLMUnavailable = errors.New("llm service is not configured")

// ErrAwaitBotReply rejects a second employee message before the bot answered
// the previous one.
var ErrAwaitBotReply = errors.New("previous message is still awaiting a reply")

// ErrTooFewMessages rejects ending a session below the message floor.
var ErrTooFewMessages = errors.New("not enough employee messages to end the session")

// initiateGuard rejects sessions that are not pending or whose scheduled
// time has not arrived yet.
func initiateGuard(session *models.Session, now time.Time) error {
	if session.Status != models.SessionStatusPending {
		return fmt.Errorf("%w: only pending sessions can be initiated, session %s is %s", models.ErrInvalidState, session.SessionID, session.Status)
	}
	if now.Before(session.ScheduledAt) {
		return fmt.Errorf("%w: session %s is scheduled for %s UTC", models.ErrInvalidState, session.SessionID, session.ScheduledAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// floorGuard rejects ending a session before the employee has written at
// least MinEmployeeMessages messages.
func floorGuard(count int64) error {
	if count < MinEmployeeMessages {
		return fmt.Errorf("%w: %d of %d", ErrTooFewMessages, count, MinEmployeeMessages)
	}
	return nil
}

// relay stores the employee message, forwards it to the bot, and discards
// the stored message when the upstream call fails. Without the discard the
// alternation guard would reject every retry of a failed exchange.
func relay(store func() (*models.ChatMessage, error), forward func() (*llm.BotReply, error), discard func(uint) error) (*llm.BotReply, error) {
	sent, err := store()
	if err != nil {
		return nil, err
	}
	reply, err := forward()
	if err != nil {
		if dErr := discard(sent.ID); dErr != nil {
			log.Error("[chat] failed to remove unanswered message %d in chat %s: %v", sent.ID, sent.ChatID, dErr)
		}
		return nil, err
	}
	return reply, nil
}

// Initiate activates a pending session at or after its scheduled time, makes
// sure the wellness report exists, opens the chatbot session and returns the
// bot's opening message. Safe to retry: report analysis is skipped when the
// report is already there.
func Initiate(ctx context.Context, chatID string) (*models.ChatMessage, error) {
	client := llm.GetClient()
	if client == nil {
		return nil, ErrLLMUnavailable
	}

	session, err := models.GetSessionByChatID(chatID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := initiateGuard(session, now); err != nil {
		return nil, err
	}

	linked, err := models.GetChainBySessionID(session.SessionID)
	if err != nil {
		return nil, err
	}
	if linked.Status != models.ChainStatusActive {
		return nil, fmt.Errorf("%w: chain %s is %s", models.ErrInvalidState, linked.ChainID, linked.Status)
	}

	exists, err := client.ReportExists(ctx, linked.ChainID)
	if err != nil {
		return nil, err
	}
	if !exists {
		employee, err := models.GetEmployeeByID(session.EmployeeID)
		if err != nil {
			return nil, err
		}
		if err := client.AnalyzeReport(ctx, employee.EmployeeID, []byte(employee.CompanyData), linked.ChainID); err != nil {
			return nil, err
		}
	}

	opener, err := client.StartSession(ctx, session.SessionID, linked.ChainID, session.EmployeeID, linked.Context)
	if err != nil {
		return nil, err
	}

	if err := session.Start(now); err != nil {
		return nil, err
	}
	if err := models.SaveSession(session); err != nil {
		return nil, err
	}

	return models.AppendMessage(chatID, models.SenderBot, opener)
}

// SendMessage appends an employee message, forwards it to the chatbot and
// appends the reply. Messages must alternate: a second employee message
// before the bot answered is rejected. Lifecycle flags in the reply complete
// or escalate the chain synchronously within the same call.
func SendMessage(ctx context.Context, chatID, text string) (*models.ChatMessage, error) {
	client := llm.GetClient()
	if client == nil {
		return nil, ErrLLMUnavailable
	}

	session, err := models.GetSessionByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: session %s is %s, messages need an active session", models.ErrInvalidState, session.SessionID, session.Status)
	}

	linked, err := models.GetChainBySessionID(session.SessionID)
	if err != nil {
		return nil, err
	}
	if linked.Status != models.ChainStatusActive {
		return nil, fmt.Errorf("%w: chain %s is %s", models.ErrInvalidState, linked.ChainID, linked.Status)
	}

	last, err := models.GetLastMessage(chatID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if last != nil && last.SenderType == models.SenderEmployee {
		return nil, ErrAwaitBotReply
	}

	reply, err := relay(
		func() (*models.ChatMessage, error) {
			return models.AppendMessage(chatID, models.SenderEmployee, text)
		},
		func() (*llm.BotReply, error) {
			return client.SendMessage(ctx, session.SessionID, linked.ChainID, text)
		},
		models.DeleteMessage,
	)
	if err != nil {
		return nil, err
	}

	botMessage, err := models.AppendMessage(chatID, models.SenderBot, reply.Message)
	if err != nil {
		return nil, err
	}

	if reply.MoodScore != nil {
		if err := recordMoodScore(chatID, *reply.MoodScore); err != nil {
			log.Warning("[chat] failed to record mood score for chat %s: %v", chatID, err)
		}
	}

	switch {
	case reply.EscalateTheChain:
		reason := reply.EscalationReason
		if reason == "" {
			reason = "Escalation requested by counseling assistant"
		}
		if err := chain.EscalateViaProbe(linked, reason, 0); err != nil {
			return nil, fmt.Errorf("bot requested escalation but it failed: %w", err)
		}
		if chat, cErr := models.GetChatByID(chatID); cErr == nil {
			chat.Escalate(reason, time.Now().UTC())
			if sErr := models.SaveChat(chat); sErr != nil {
				log.Warning("[chat] failed to flag chat %s as escalated: %v", chatID, sErr)
			}
		}
		nats.PublishEvent(nats.SubjectChatEscalated, session.EmployeeID, chatID, map[string]any{
			"chain_id": linked.ChainID,
			"reason":   reason,
		})
	case reply.CompleteTheChain:
		if err := chain.Complete(linked); err != nil {
			return nil, fmt.Errorf("bot requested chain completion but it failed: %w", err)
		}
	}

	return botMessage, nil
}

// EndSession closes a chat session once the employee has written at least
// MinEmployeeMessages messages: the distilled context moves onto the chain,
// the session completes, and the next day's session is created and linked.
func EndSession(ctx context.Context, chatID string) (*models.Session, error) {
	client := llm.GetClient()
	if client == nil {
		return nil, ErrLLMUnavailable
	}

	session, err := models.GetSessionByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: session %s is %s, only active sessions can be ended", models.ErrInvalidState, session.SessionID, session.Status)
	}

	count, err := models.CountMessagesBySender(chatID, models.SenderEmployee)
	if err != nil {
		return nil, err
	}
	if err := floorGuard(count); err != nil {
		return nil, err
	}

	linked, err := models.GetChainBySessionID(session.SessionID)
	if err != nil {
		return nil, err
	}
	if linked.Status != models.ChainStatusActive {
		return nil, fmt.Errorf("%w: chain %s is %s", models.ErrInvalidState, linked.ChainID, linked.Status)
	}

	messages, err := models.GetMessages(chatID)
	if err != nil {
		return nil, err
	}
	transcript := make([]llm.TranscriptEntry, 0, len(messages))
	for _, message := range messages {
		transcript = append(transcript, llm.TranscriptEntry{
			Sender:    message.SenderType,
			Message:   message.Text,
			Timestamp: message.Timestamp,
		})
	}

	summary, err := client.EndSession(ctx, llm.EndSessionRequest{
		ChainID:                linked.ChainID,
		SessionID:              session.SessionID,
		CurrentContext:         linked.Context,
		CurrentSessionMessages: transcript,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	linked.UpdateContext(summary.UpdatedContext, now)
	if err := models.SaveChain(linked); err != nil {
		return nil, err
	}

	if err := session.Complete(now); err != nil {
		return nil, err
	}
	if err := models.SaveSession(session); err != nil {
		return nil, err
	}

	if summary.MoodScore != nil {
		if err := recordMoodScore(chatID, *summary.MoodScore); err != nil {
			log.Warning("[chat] failed to record mood score for chat %s: %v", chatID, err)
		}
	}

	next, err := chain.AppendNextSession(linked, chain.DefaultSessionTime(now))
	if err != nil {
		return nil, fmt.Errorf("session %s ended but the follow-up could not be created: %w", session.SessionID, err)
	}

	if _, err := models.CreateNotification(session.EmployeeID,
		"Next Counseling Session Scheduled",
		fmt.Sprintf("Your next wellness check-in is scheduled for %s UTC.", next.ScheduledAt.Format("2006-01-02 15:04"))); err != nil {
		log.Warning("[chat] failed to notify employee %s: %v", session.EmployeeID, err)
	}

	return next, nil
}

func recordMoodScore(chatID string, score int) error {
	chat, err := models.GetChatByID(chatID)
	if err != nil {
		return err
	}
	if err := chat.SetMoodScore(score, time.Now().UTC()); err != nil {
		return err
	}
	return models.SaveChat(chat)
}
