package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/restify"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chain status constants
const (
	ChainStatusActive    = "active"
	ChainStatusCompleted = "completed"
	ChainStatusEscalated = "escalated"
	ChainStatusCancelled = "cancelled"
)

// Chain is one counseling episode for one employee: an ordered sequence of
// sessions plus the conversation context carried between them. At most one
// chain per employee may be ACTIVE at a time. Transitions:
// ACTIVE→{COMPLETED,ESCALATED,CANCELLED}, ESCALATED→CANCELLED;
// COMPLETED and CANCELLED are terminal.
type Chain struct {
	ChainID          string                      `gorm:"column:chain_id;size:12;primaryKey" json:"chain_id"`
	EmployeeID       string                      `gorm:"column:employee_id;size:12;not null;index" json:"employee_id"`
	SessionIDs       datatypes.JSONSlice[string] `gorm:"column:session_ids" json:"session_ids"`
	MeetID           *string                     `gorm:"column:meet_id;size:12" json:"meet_id,omitempty"`
	Status           string                      `gorm:"column:status;size:20;not null;index;check:status IN ('active','completed','escalated','cancelled')" json:"status"`
	Context          string                      `gorm:"column:context;type:text" json:"context"`
	EscalationReason *string                     `gorm:"column:escalation_reason;type:text" json:"escalation_reason,omitempty"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at" json:"updated_at"`
	CompletedAt      *time.Time                  `gorm:"column:completed_at" json:"completed_at,omitempty"`
	EscalatedAt      *time.Time                  `gorm:"column:escalated_at" json:"escalated_at,omitempty"`
	CancelledAt      *time.Time                  `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	Notes            *string                     `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Version          uint                        `gorm:"column:version;not null;default:0" json:"-"`

	restify.API
}

func (Chain) TableName() string {
	return "chains"
}

// NewChain builds an active chain seeded with its first session.
func NewChain(employeeID string, sessionIDs []string, notes *string) *Chain {
	now := time.Now().UTC()
	return &Chain{
		ChainID:    NewChainID(),
		EmployeeID: employeeID,
		SessionIDs: datatypes.NewJSONSlice(sessionIDs),
		Status:     ChainStatusActive,
		Context:    "",
		CreatedAt:  now,
		UpdatedAt:  now,
		Notes:      notes,
	}
}

// AddSession appends a session id. Only ACTIVE chains accept new sessions.
func (c *Chain) AddSession(sessionID string, now time.Time) error {
	if c.Status != ChainStatusActive {
		return fmt.Errorf("%w: cannot add a session to a %s chain", ErrInvalidState, c.Status)
	}
	c.SessionIDs = append(c.SessionIDs, sessionID)
	c.UpdatedAt = now
	return nil
}

// UpdateContext replaces the accumulated conversation context.
func (c *Chain) UpdateContext(context string, now time.Time) {
	c.Context = context
	c.UpdatedAt = now
}

// MarkCompleted transitions ACTIVE→COMPLETED. The session cascade is the
// chain service's job; this only flips the chain record.
func (c *Chain) MarkCompleted(now time.Time) error {
	if c.Status != ChainStatusActive {
		return fmt.Errorf("%w: only active chains can be completed, chain %s is %s", ErrInvalidState, c.ChainID, c.Status)
	}
	c.Status = ChainStatusCompleted
	c.CompletedAt = &now
	c.UpdatedAt = now
	return nil
}

// MarkEscalated transitions ACTIVE→ESCALATED, recording the meeting and reason.
func (c *Chain) MarkEscalated(reason, meetID string, now time.Time) error {
	if c.Status != ChainStatusActive {
		return fmt.Errorf("%w: only active chains can be escalated, chain %s is %s", ErrInvalidState, c.ChainID, c.Status)
	}
	c.Status = ChainStatusEscalated
	c.EscalatedAt = &now
	c.EscalationReason = &reason
	c.MeetID = &meetID
	c.UpdatedAt = now
	return nil
}

// MarkCancelled transitions ACTIVE|ESCALATED→CANCELLED.
func (c *Chain) MarkCancelled(now time.Time) error {
	if c.Status != ChainStatusActive && c.Status != ChainStatusEscalated {
		return fmt.Errorf("%w: only active or escalated chains can be cancelled, chain %s is %s", ErrInvalidState, c.ChainID, c.Status)
	}
	c.Status = ChainStatusCancelled
	c.CancelledAt = &now
	c.UpdatedAt = now
	return nil
}

// CreateChain persists a new chain record.
func CreateChain(c *Chain) error {
	return db.Create(c).Error
}

// SaveChain persists chain mutations with a compare-and-swap on the version
// column, so a deadline job cannot silently escalate a chain the employee
// just completed.
func SaveChain(c *Chain) error {
	prev := c.Version
	c.Version = prev + 1
	result := db.Model(&Chain{}).
		Where("chain_id = ? AND version = ?", c.ChainID, prev).
		Select("*").Omit("created_at").
		Updates(c)
	if result.Error != nil {
		c.Version = prev
		return result.Error
	}
	if result.RowsAffected == 0 {
		c.Version = prev
		return fmt.Errorf("%w: chain %s was modified concurrently", ErrConflict, c.ChainID)
	}
	return nil
}

// DeleteChain removes a chain. Saga compensation only.
func DeleteChain(chainID string) error {
	return db.Where("chain_id = ?", chainID).Delete(&Chain{}).Error
}

// GetChainByID fetches one chain by business identifier.
func GetChainByID(chainID string) (*Chain, error) {
	var chain Chain
	err := db.Where("chain_id = ?", chainID).First(&chain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chain, nil
}

// GetActiveChainByEmployee returns the employee's ACTIVE chain, or
// ErrNotFound when there is none. The one-active-chain invariant rests on
// this lookup at creation time.
func GetActiveChainByEmployee(employeeID string) (*Chain, error) {
	var chain Chain
	err := db.Where("employee_id = ? AND status = ?", employeeID, ChainStatusActive).First(&chain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chain, nil
}

// GetChainsByEmployee lists all chains of an employee, newest first.
func GetChainsByEmployee(employeeID string) ([]Chain, error) {
	var chains []Chain
	err := db.Where("employee_id = ?", employeeID).Order("created_at DESC").Find(&chains).Error
	return chains, err
}

// GetChainBySessionID finds the chain that references the given session.
func GetChainBySessionID(sessionID string) (*Chain, error) {
	var chain Chain
	err := db.Where("JSON_CONTAINS(session_ids, JSON_QUOTE(?))", sessionID).First(&chain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chain, nil
}

// GetChainsByStatus lists chains in a given status.
func GetChainsByStatus(status string) ([]Chain, error) {
	var chains []Chain
	err := db.Where("status = ?", status).Find(&chains).Error
	return chains, err
}
