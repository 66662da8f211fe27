package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// RoleUser marks a message authored locally
	RoleUser = "user"
	// RoleAssistant marks a reply from Captain
	RoleAssistant = "assistant"

	// PlaceholderLabel is the label of a session that has not seen a user message yet
	PlaceholderLabel = "New chat"

	// MaxLabelLength bounds a session label, in characters
	MaxLabelLength = 32

	guestID   = "guest"
	guestName = "Guest"
)

// User is the identity the chat is addressed as. It is replaced wholesale
// on login and logout.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// GuestUser returns the anonymous default identity
func GuestUser() User {
	return User{ID: guestID, Name: guestName}
}

// IsGuest reports whether u is the anonymous identity
func (u User) IsGuest() bool {
	return u.ID == guestID
}

// Session is a client-side conversation thread summary
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Message is one transcript entry
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Order is a summary scraped from assistant text. It is not authoritative.
type Order struct {
	ID     string `json:"id" yaml:"id"`
	Mode   string `json:"mode" yaml:"mode"`
	Route  string `json:"route" yaml:"route"`
	Status string `json:"status" yaml:"status"`
}

// Conversation is a snapshot of one session used by the exporters
type Conversation struct {
	Session  Session   `json:"session" yaml:"session"`
	User     User      `json:"user" yaml:"user"`
	Messages []Message `json:"messages" yaml:"messages"`
	Orders   []Order   `json:"orders,omitempty" yaml:"orders,omitempty"`
}

// SessionKey is the opaque identifier the backend addresses history by
func SessionKey(userID, sessionID string) string {
	return userID + "__" + sessionID
}

// NewSessionID returns a timestamp-based session token. The random suffix
// keeps ids unique when two sessions are created in the same millisecond.
func NewSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("s_%d_%s", time.Now().UnixMilli(), suffix)
}

// NormalizeRole maps server roles onto the two transcript roles. The backend
// stores replies under "captain".
func NormalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), RoleUser) {
		return RoleUser
	}
	return RoleAssistant
}
