package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// SessionManager owns the session list, the active session id and the user
// identity. Every mutation is persisted through the Store before returning.
type SessionManager struct {
	store    *Store
	user     User
	activeID string
	sessions []Session

	now   func() time.Time
	newID func() string
}

// NewSessionManager loads state from store and heals a missing active entry
func NewSessionManager(store *Store) *SessionManager {
	state := store.Load()
	m := &SessionManager{
		store:    store,
		user:     state.User,
		activeID: state.ActiveSessionID,
		sessions: state.Sessions,
		now:      time.Now,
		newID:    NewSessionID,
	}
	m.EnsureActiveSessionListed()
	return m
}

// EnsureActiveSessionListed prepends a placeholder entry when the active id
// has none. Calling it again is a no-op.
func (m *SessionManager) EnsureActiveSessionListed() {
	if m.indexOf(m.activeID) >= 0 {
		return
	}
	entry := Session{ID: m.activeID, Label: PlaceholderLabel, CreatedAt: m.now().Round(0)}
	m.sessions = append([]Session{entry}, m.sessions...)
	m.persist()
}

// Create starts a new session and makes it active. Prior sessions are kept.
func (m *SessionManager) Create() Session {
	id := m.newID()
	for m.indexOf(id) >= 0 {
		id = m.newID()
	}
	entry := Session{ID: id, Label: PlaceholderLabel, CreatedAt: m.now().Round(0)}
	m.sessions = append([]Session{entry}, m.sessions...)
	m.activeID = id
	m.persist()
	return entry
}

// SwitchTo makes id the active session. The list order is left alone.
func (m *SessionManager) SwitchTo(id string) error {
	if m.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.activeID = id
	m.persist()
	return nil
}

// LabelFromFirstMessage labels the active session from text if it still
// carries the placeholder. The label is set at most once.
func (m *SessionManager) LabelFromFirstMessage(text string) {
	m.EnsureActiveSessionListed()
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	i := m.indexOf(m.activeID)
	if m.sessions[i].Label != PlaceholderLabel {
		return
	}
	m.sessions[i].Label = TruncateLabel(text)
	m.persist()
}

// Active returns the active session entry
func (m *SessionManager) Active() Session {
	m.EnsureActiveSessionListed()
	return m.sessions[m.indexOf(m.activeID)]
}

// ActiveID returns the active session id
func (m *SessionManager) ActiveID() string {
	return m.activeID
}

// Sessions returns a copy of the list in insertion order, newest first
func (m *SessionManager) Sessions() []Session {
	m.EnsureActiveSessionListed()
	out := make([]Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// User returns the current identity
func (m *SessionManager) User() User {
	return m.user
}

// SetUser replaces the identity and persists it
func (m *SessionManager) SetUser(u User) {
	m.user = u
	m.store.SaveUser(u)
}

// SessionKey addresses the active session on the backend
func (m *SessionManager) SessionKey() string {
	return SessionKey(m.user.ID, m.activeID)
}

func (m *SessionManager) indexOf(id string) int {
	for i, s := range m.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *SessionManager) persist() {
	m.store.SaveSessions(m.sessions, m.activeID)
}

// TruncateLabel cuts text to MaxLabelLength user-perceived characters
func TruncateLabel(text string) string {
	if uniseg.GraphemeClusterCount(text) <= MaxLabelLength {
		return text
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	for n := 0; n < MaxLabelLength && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String()
}
