package internal

import (
	"context"
	"fmt"
)

// Intent names a user action the controller handles
type Intent string

const (
	IntentSend          Intent = "send"
	IntentSwitchSession Intent = "switch-session"
	IntentNewSession    Intent = "new-session"
	IntentLogin         Intent = "login"
	IntentLogout        Intent = "logout"
)

// Event is one user action. Only the fields its intent reads are set.
type Event struct {
	Intent    Intent
	Text      string
	SessionID string
	Login     LoginForm
}

type handlerFunc func(ctx context.Context, ev Event) error

// Dispatch runs the handler for ev.Intent, blocking on any network call
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	h, ok := c.handlers[ev.Intent]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownIntent, ev.Intent)
	}
	return h(ctx, ev)
}

func (c *Controller) dispatchTable() map[Intent]handlerFunc {
	return map[Intent]handlerFunc{
		IntentSend:          c.handleSend,
		IntentSwitchSession: c.handleSwitch,
		IntentNewSession:    c.handleNewSession,
		IntentLogin:         c.handleLogin,
		IntentLogout:        c.handleLogout,
	}
}

func (c *Controller) handleSend(ctx context.Context, ev Event) error {
	if _, ok := c.Send(ctx, ev.Text); !ok {
		return ErrEmptyMessage
	}
	return nil
}

func (c *Controller) handleSwitch(ctx context.Context, ev Event) error {
	req, err := c.SwitchTo(ev.SessionID)
	if err != nil {
		return err
	}
	c.ApplyHistory(c.FetchHistory(ctx, req))
	return nil
}

func (c *Controller) handleNewSession(_ context.Context, _ Event) error {
	c.CreateSession()
	return nil
}

func (c *Controller) handleLogin(ctx context.Context, ev Event) error {
	req, err := c.Login(ev.Login)
	if err != nil {
		return err
	}
	c.ApplyHistory(c.FetchHistory(ctx, req))
	return nil
}

func (c *Controller) handleLogout(ctx context.Context, _ Event) error {
	c.ApplyHistory(c.FetchHistory(ctx, c.Logout()))
	return nil
}
