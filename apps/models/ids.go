package models

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// newID returns prefix + 6 uppercase hex chars, e.g. CHAIN3FA2B1.
// Collisions are guarded by the unique index on the id column.
func newID(prefix string) string {
	id := uuid.New()
	return prefix + strings.ToUpper(hex.EncodeToString(id[:3]))
}

func NewChainID() string   { return newID("CHAIN") }
func NewSessionID() string { return newID("SESS") }
func NewMeetID() string    { return newID("MEET") }
func NewChatID() string    { return newID("CHAT") }
