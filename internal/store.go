package internal

import (
	"encoding/json"
	"sync"
)

const (
	keyUser           = "captain.user"
	keyActiveSession  = "captain.activeSession"
	keySessions       = "captain.sessions"
	keySystemPrompt   = "captain.systemPrompt"
	keySessionContext = "captain.sessionContext"
)

// KV is the durable key/value layer under Store
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// State is everything Store.Load returns
type State struct {
	User            User
	ActiveSessionID string
	Sessions        []Session
}

// Store persists the user identity, active session and session list. It
// never returns errors: a failing KV is logged and the in-memory copy stays
// authoritative until the process exits.
type Store struct {
	kv    KV
	newID func() string

	mu  sync.Mutex
	mem map[string]string
}

// NewStore creates a Store over kv. A nil kv gives a memory-only store.
func NewStore(kv KV) *Store {
	return &Store{
		kv:    kv,
		newID: NewSessionID,
		mem:   make(map[string]string),
	}
}

// Load returns the persisted state, falling back to the guest user, a fresh
// active session id and an empty session list.
func (s *Store) Load() State {
	state := State{
		User:     GuestUser(),
		Sessions: []Session{},
	}

	if raw, ok := s.get(keyUser); ok {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			LogWarn("%v", &ParseError{Source: "state", Key: keyUser, Err: err})
		} else if u.ID != "" {
			state.User = u
		}
	}

	if raw, ok := s.get(keySessions); ok {
		var list []Session
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			LogWarn("%v", &ParseError{Source: "state", Key: keySessions, Err: err})
		} else {
			for _, sess := range list {
				if sess.ID != "" {
					state.Sessions = append(state.Sessions, sess)
				}
			}
		}
	}

	if id, ok := s.get(keyActiveSession); ok && id != "" {
		state.ActiveSessionID = id
	} else {
		state.ActiveSessionID = s.newID()
		s.set(keyActiveSession, state.ActiveSessionID)
	}

	return state
}

// SaveUser persists u
func (s *Store) SaveUser(u User) {
	data, err := json.Marshal(u)
	if err != nil {
		LogWarn("Failed to encode user: %v", err)
		return
	}
	s.set(keyUser, string(data))
}

// SaveSessions persists the session list and the active session id
func (s *Store) SaveSessions(list []Session, activeID string) {
	if list == nil {
		list = []Session{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		LogWarn("Failed to encode sessions: %v", err)
		return
	}
	s.set(keySessions, string(data))
	s.set(keyActiveSession, activeID)
}

// SystemPrompt returns the stored free-text system prompt
func (s *Store) SystemPrompt() string {
	v, _ := s.get(keySystemPrompt)
	return v
}

// SetSystemPrompt stores the free-text system prompt
func (s *Store) SetSystemPrompt(text string) {
	s.set(keySystemPrompt, text)
}

// SessionContext returns the stored free-text session context
func (s *Store) SessionContext() string {
	v, _ := s.get(keySessionContext)
	return v
}

// SetSessionContext stores the free-text session context
func (s *Store) SetSessionContext(text string) {
	s.set(keySessionContext, text)
}

func (s *Store) get(key string) (string, bool) {
	s.mu.Lock()
	v, ok := s.mem[key]
	s.mu.Unlock()
	if ok {
		return v, true
	}
	if s.kv == nil {
		return "", false
	}

	v, ok, err := s.kv.Get(key)
	if err != nil {
		LogWarn("Failed to read %s from state storage: %v", key, err)
		return "", false
	}
	if ok {
		s.mu.Lock()
		s.mem[key] = v
		s.mu.Unlock()
	}
	return v, ok
}

func (s *Store) set(key, value string) {
	s.mu.Lock()
	s.mem[key] = value
	s.mu.Unlock()
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(key, value); err != nil {
		LogWarn("Failed to write %s to state storage, keeping it in memory: %v", key, err)
	}
}
