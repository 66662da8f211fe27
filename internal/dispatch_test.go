package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/iksnae/captain-session/internal/api"
)

func TestDispatch_Intents(t *testing.T) {
	backend := &stubBackend{reply: "ok", history: []api.Message{}}
	c, view := newTestController(t, backend)
	ctx := context.Background()
	first := c.Sessions().ActiveID()

	if err := c.Dispatch(ctx, Event{Intent: IntentSend, Text: "hello"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if backend.chatCalls != 1 {
		t.Errorf("send made %d chat calls, want 1", backend.chatCalls)
	}

	if err := c.Dispatch(ctx, Event{Intent: IntentNewSession}); err != nil {
		t.Fatalf("new-session: %v", err)
	}
	if c.Sessions().ActiveID() == first {
		t.Errorf("new-session did not change the active session")
	}

	if err := c.Dispatch(ctx, Event{Intent: IntentSwitchSession, SessionID: first}); err != nil {
		t.Fatalf("switch-session: %v", err)
	}
	if c.Sessions().ActiveID() != first {
		t.Errorf("switch-session active = %q, want %q", c.Sessions().ActiveID(), first)
	}
	if backend.historyCalls != 1 {
		t.Errorf("switch-session made %d history calls, want 1", backend.historyCalls)
	}

	if err := c.Dispatch(ctx, Event{Intent: IntentLogin, Login: LoginForm{Name: "Ana"}}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Sessions().User().Name != "Ana" {
		t.Errorf("login user = %+v", c.Sessions().User())
	}

	if err := c.Dispatch(ctx, Event{Intent: IntentLogout}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !c.Sessions().User().IsGuest() {
		t.Errorf("logout user = %+v", c.Sessions().User())
	}
	if backend.historyCalls != 3 {
		t.Errorf("history calls = %d, want 3", backend.historyCalls)
	}

	msgs := view.Messages()
	if len(msgs) != 1 || msgs[0].Content != WelcomeText {
		t.Errorf("Messages() after logout = %+v, want welcome", msgs)
	}
}

func TestDispatch_Errors(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want error
	}{
		{name: "unknown intent", ev: Event{Intent: "delete-everything"}, want: ErrUnknownIntent},
		{name: "blank send", ev: Event{Intent: IntentSend, Text: "   "}, want: ErrEmptyMessage},
		{name: "unknown session", ev: Event{Intent: IntentSwitchSession, SessionID: "s_nope"}, want: ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &stubBackend{}
			c, _ := newTestController(t, backend)

			err := c.Dispatch(context.Background(), tt.ev)
			if !errors.Is(err, tt.want) {
				t.Errorf("Dispatch() error = %v, want %v", err, tt.want)
			}
			if backend.chatCalls+backend.historyCalls != 0 {
				t.Errorf("failed dispatch made network calls")
			}
		})
	}
}

func TestDispatch_LoginValidation(t *testing.T) {
	backend := &stubBackend{}
	c, _ := newTestController(t, backend)

	err := c.Dispatch(context.Background(), Event{Intent: IntentLogin, Login: LoginForm{Name: "Ana", Email: "not-an-email"}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Dispatch(login) error = %v, want *ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "email" {
		t.Errorf("Fields = %v, want [email]", verr.Fields)
	}
	if backend.historyCalls != 0 {
		t.Errorf("invalid login fetched history")
	}
}
