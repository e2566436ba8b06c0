package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/restify"
	"gorm.io/gorm"
)

// Message sender constants
const (
	SenderBot      = "bot"
	SenderEmployee = "emp"
	SenderHR       = "hr"
)

// Chat mode constants
const (
	ChatModeBot   = "bot"
	ChatModeHR    = "hr"
	ChatModeAdmin = "admin"
)

// MoodScoreUnassigned marks a chat whose mood has not been scored yet.
// Assigned scores run 1–6.
const MoodScoreUnassigned = -1

// Chat is the transcript container for one session. Messages live in their
// own append-only table ordered by seq.
type Chat struct {
	ChatID           string    `gorm:"column:chat_id;size:12;primaryKey" json:"chat_id"`
	EmployeeID       string    `gorm:"column:employee_id;size:12;not null;index" json:"employee_id"`
	MoodScore        int       `gorm:"column:mood_score;not null;default:-1" json:"mood_score"`
	ChatMode         string    `gorm:"column:chat_mode;size:10;not null;default:bot;check:chat_mode IN ('bot','hr','admin')" json:"chat_mode"`
	IsEscalated      bool      `gorm:"column:is_escalated;default:0;index" json:"is_escalated"`
	EscalationReason *string   `gorm:"column:escalation_reason;type:text" json:"escalation_reason,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`

	Messages []ChatMessage `gorm:"foreignKey:ChatID;references:ChatID" json:"messages,omitempty"`

	restify.API
}

func (Chat) TableName() string {
	return "chats"
}

// ChatMessage is one transcript entry. Seq gives a total order within the
// chat independent of timestamp resolution.
type ChatMessage struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"-"`
	ChatID     string    `gorm:"column:chat_id;size:12;not null;index:idx_chat_seq,priority:1" json:"chat_id"`
	Seq        int       `gorm:"column:seq;not null;index:idx_chat_seq,priority:2" json:"seq"`
	SenderType string    `gorm:"column:sender_type;size:10;not null;check:sender_type IN ('bot','emp','hr')" json:"sender_type"`
	Text       string    `gorm:"column:text;type:text;not null" json:"text"`
	Timestamp  time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`

	restify.API
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// NewChat builds an empty bot-mode chat for an employee.
func NewChat(employeeID string) *Chat {
	now := time.Now().UTC()
	return &Chat{
		ChatID:     NewChatID(),
		EmployeeID: employeeID,
		MoodScore:  MoodScoreUnassigned,
		ChatMode:   ChatModeBot,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SetMoodScore records the end-of-chat mood score (-1 or 1–6).
func (c *Chat) SetMoodScore(score int, now time.Time) error {
	if score != MoodScoreUnassigned && (score < 1 || score > 6) {
		return fmt.Errorf("mood score must be -1 or between 1 and 6, got %d", score)
	}
	c.MoodScore = score
	c.UpdatedAt = now
	return nil
}

// SetMode switches the chat between bot/hr/admin handling.
func (c *Chat) SetMode(mode string, now time.Time) error {
	if mode != ChatModeBot && mode != ChatModeHR && mode != ChatModeAdmin {
		return fmt.Errorf("unknown chat mode %q", mode)
	}
	c.ChatMode = mode
	c.UpdatedAt = now
	return nil
}

// Escalate flags the chat for HR handling with a reason.
func (c *Chat) Escalate(reason string, now time.Time) {
	c.IsEscalated = true
	c.EscalationReason = &reason
	c.ChatMode = ChatModeHR
	c.UpdatedAt = now
}

// CreateChat persists a new chat record.
func CreateChat(c *Chat) error {
	return db.Create(c).Error
}

// SaveChat persists chat mutations.
func SaveChat(c *Chat) error {
	c.UpdatedAt = time.Now().UTC()
	return db.Save(c).Error
}

// DeleteChat removes a chat and its messages. Saga compensation only.
func DeleteChat(chatID string) error {
	if err := db.Where("chat_id = ?", chatID).Delete(&ChatMessage{}).Error; err != nil {
		return err
	}
	return db.Where("chat_id = ?", chatID).Delete(&Chat{}).Error
}

// GetChatByID fetches one chat by business identifier.
func GetChatByID(chatID string) (*Chat, error) {
	var chat Chat
	err := db.Where("chat_id = ?", chatID).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// GetChatsByEmployee lists an employee's chats, newest first.
func GetChatsByEmployee(employeeID string) ([]Chat, error) {
	var chats []Chat
	err := db.Where("employee_id = ?", employeeID).Order("created_at DESC").Find(&chats).Error
	return chats, err
}

// AppendMessage appends one transcript entry with the next seq number.
func AppendMessage(chatID, senderType, text string) (*ChatMessage, error) {
	var maxSeq int
	row := db.Model(&ChatMessage{}).Where("chat_id = ?", chatID).Select("COALESCE(MAX(seq), 0)")
	if err := row.Scan(&maxSeq).Error; err != nil {
		return nil, err
	}
	message := &ChatMessage{
		ChatID:     chatID,
		Seq:        maxSeq + 1,
		SenderType: senderType,
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}
	if err := db.Create(message).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Chat{}).Where("chat_id = ?", chatID).Update("updated_at", message.Timestamp).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// DeleteMessage removes one transcript entry. Used to undo a stored
// employee message the bot never answered.
func DeleteMessage(id uint) error {
	return db.Where("id = ?", id).Delete(&ChatMessage{}).Error
}

// GetMessages returns a chat's transcript in order.
func GetMessages(chatID string) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := db.Where("chat_id = ?", chatID).Order("seq").Find(&messages).Error
	return messages, err
}

// GetLastMessage returns the newest transcript entry, or ErrNotFound for an
// empty chat.
func GetLastMessage(chatID string) (*ChatMessage, error) {
	var message ChatMessage
	err := db.Where("chat_id = ?", chatID).Order("seq DESC").First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// CountMessagesInChats counts transcript entries across the given chats.
func CountMessagesInChats(chatIDs []string) (int64, error) {
	if len(chatIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := db.Model(&ChatMessage{}).Where("chat_id IN ?", chatIDs).Count(&count).Error
	return count, err
}

// CountMessagesBySender counts transcript entries from one sender type.
func CountMessagesBySender(chatID, senderType string) (int64, error) {
	var count int64
	err := db.Model(&ChatMessage{}).Where("chat_id = ? AND sender_type = ?", chatID, senderType).Count(&count).Error
	return count, err
}
