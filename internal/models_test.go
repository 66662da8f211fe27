package internal

import (
	"strings"
	"testing"
)

func TestSessionKey(t *testing.T) {
	if got := SessionKey("guest", "s_1"); got != "guest__s_1" {
		t.Errorf("SessionKey() = %q, want %q", got, "guest__s_1")
	}
}

func TestNewSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if !strings.HasPrefix(id, "s_") {
			t.Fatalf("NewSessionID() = %q, want s_ prefix", id)
		}
		if seen[id] {
			t.Fatalf("NewSessionID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"user", RoleUser},
		{"User", RoleUser},
		{"assistant", RoleAssistant},
		{"captain", RoleAssistant},
		{"", RoleAssistant},
	}
	for _, tt := range tests {
		if got := NormalizeRole(tt.role); got != tt.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestGuestUser(t *testing.T) {
	u := GuestUser()
	if !u.IsGuest() {
		t.Error("GuestUser().IsGuest() = false, want true")
	}
	if u.Name == "" {
		t.Error("GuestUser() should carry a display name")
	}
}
