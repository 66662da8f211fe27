package internal

import (
	"context"
	"errors"
	"strings"

	"github.com/iksnae/captain-session/internal/api"
)

const (
	errorPrefix = "Error: "

	// WelcomeText greets a session with no history
	WelcomeText = "Hello! I'm Captain. How can I help with your shipment today?"

	genericErrorText      = errorPrefix + "Something went wrong. Please try again."
	connectivityErrorText = errorPrefix + "Unable to reach Captain AI. Please check your connection and try again."
)

// Backend is the part of the Captain API the conversation needs
type Backend interface {
	Chat(ctx context.Context, message, user string) (string, error)
	History(ctx context.Context, user string) ([]api.Message, error)
}

// Outbound is a message that has been rendered and is waiting for delivery
type Outbound struct {
	PendingID  int
	Message    string
	SessionKey string
}

// SendResult is the outcome of delivering an Outbound
type SendResult struct {
	Outbound
	Reply string
	Err   error
}

// HistoryRequest asks for the server transcript of one session key
type HistoryRequest struct {
	Key string
}

// HistoryResult is the outcome of a HistoryRequest
type HistoryResult struct {
	Key      string
	Messages []api.Message
	Err      error
}

// Controller owns the conversation state for one terminal. Methods other
// than Deliver and FetchHistory must be called from a single goroutine.
type Controller struct {
	sessions *SessionManager
	orders   *OrderBook
	backend  Backend
	view     View

	pendingSeq int
	handlers   map[Intent]handlerFunc
}

// NewController wires a controller over its collaborators
func NewController(sessions *SessionManager, backend Backend, view View) *Controller {
	c := &Controller{
		sessions: sessions,
		orders:   NewOrderBook(),
		backend:  backend,
		view:     view,
	}
	c.handlers = c.dispatchTable()
	return c
}

// Sessions returns the session manager
func (c *Controller) Sessions() *SessionManager {
	return c.sessions
}

// Orders returns the orders extracted for the active session, newest first
func (c *Controller) Orders() []Order {
	return c.orders.List()
}

// Conversation snapshots the active session for export
func (c *Controller) Conversation(messages []Message) *Conversation {
	return &Conversation{
		Session:  c.sessions.Active(),
		User:     c.sessions.User(),
		Messages: messages,
		Orders:   c.orders.List(),
	}
}

// Start renders the session list and loads history for the active session
func (c *Controller) Start(ctx context.Context) {
	c.renderSessions()
	c.ReloadHistory(ctx)
}

// ReloadHistory fetches and applies history for the current key, blocking
func (c *Controller) ReloadHistory(ctx context.Context) {
	c.ApplyHistory(c.FetchHistory(ctx, c.BeginHistory()))
}

// Send runs the whole send pipeline, blocking until the reply is rendered.
// It returns false when text is blank and nothing was sent.
func (c *Controller) Send(ctx context.Context, text string) (SendResult, bool) {
	out, ok := c.BeginSend(text)
	if !ok {
		return SendResult{}, false
	}
	res := c.Deliver(ctx, out)
	c.CompleteSend(res)
	return res, true
}

// BeginSend renders the user entry and a pending marker before any network
// call. Blank input renders nothing.
func (c *Controller) BeginSend(text string) (Outbound, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outbound{}, false
	}

	c.view.Append(Message{Role: RoleUser, Content: text})
	c.sessions.LabelFromFirstMessage(text)
	c.renderSessions()

	c.pendingSeq++
	c.view.ShowPending(c.pendingSeq)
	return Outbound{
		PendingID:  c.pendingSeq,
		Message:    text,
		SessionKey: c.sessions.SessionKey(),
	}, true
}

// Deliver posts out to the backend. It reads no controller state and is
// safe to call from any goroutine.
func (c *Controller) Deliver(ctx context.Context, out Outbound) SendResult {
	reply, err := c.backend.Chat(ctx, out.Message, out.SessionKey)
	return SendResult{Outbound: out, Reply: reply, Err: err}
}

// CompleteSend clears the pending marker and renders the outcome. A reply
// for a session that is no longer active is not rendered; the server keeps
// it in that session's history.
func (c *Controller) CompleteSend(res SendResult) {
	c.view.ClearPending(res.PendingID)
	if res.SessionKey != c.sessions.SessionKey() {
		LogDebug("Dropping reply for inactive session %s", res.SessionKey)
		return
	}

	var statusErr *api.StatusError
	switch {
	case res.Err == nil:
		c.view.Append(Message{Role: RoleAssistant, Content: res.Reply})
		if order, ok := c.orders.Fold(res.Reply); ok {
			LogDebug("Tracking order %s", order.ID)
		}
		c.view.RenderOrders(c.orders.List())
	case errors.As(res.Err, &statusErr):
		LogWarn("Chat request rejected: %v", statusErr)
		text := genericErrorText
		if statusErr.Message != "" {
			text = errorPrefix + statusErr.Message
		}
		c.view.Append(Message{Role: RoleAssistant, Content: text})
	default:
		LogError("Chat request failed: %v", res.Err)
		c.view.Append(Message{Role: RoleAssistant, Content: connectivityErrorText})
	}
}

// BeginHistory captures the key a history load is for
func (c *Controller) BeginHistory() HistoryRequest {
	return HistoryRequest{Key: c.sessions.SessionKey()}
}

// FetchHistory loads history for req. Like Deliver it touches no state.
func (c *Controller) FetchHistory(ctx context.Context, req HistoryRequest) HistoryResult {
	msgs, err := c.backend.History(ctx, req.Key)
	return HistoryResult{Key: req.Key, Messages: msgs, Err: err}
}

// ApplyHistory renders res and rebuilds the order book from it. A result for
// a key that is no longer current is dropped and false is returned.
func (c *Controller) ApplyHistory(res HistoryResult) bool {
	if res.Key != c.sessions.SessionKey() {
		LogDebug("Dropping stale history for %s", res.Key)
		return false
	}

	c.orders.Reset()
	if res.Err != nil {
		LogWarn("Failed to load history for %s: %v", res.Key, res.Err)
	}

	entries := make([]Message, 0, len(res.Messages))
	if res.Err == nil {
		for _, m := range res.Messages {
			entries = append(entries, Message{Role: NormalizeRole(m.Role), Content: m.Content})
		}
	}
	if len(entries) == 0 {
		c.view.Render([]Message{welcomeMessage()})
		c.view.RenderOrders(c.orders.List())
		c.renderSessions()
		return true
	}

	for _, e := range entries {
		if e.Role == RoleUser {
			c.sessions.LabelFromFirstMessage(e.Content)
			break
		}
	}
	for _, e := range entries {
		if e.Role == RoleAssistant {
			c.orders.Fold(e.Content)
		}
	}

	c.view.Render(entries)
	c.view.RenderOrders(c.orders.List())
	c.renderSessions()
	return true
}

// CreateSession starts a fresh session. No history is fetched for it.
func (c *Controller) CreateSession() Session {
	s := c.sessions.Create()
	c.orders.Reset()
	c.view.Clear()
	c.view.Render([]Message{welcomeMessage()})
	c.view.RenderOrders(c.orders.List())
	c.renderSessions()
	return s
}

// SwitchTo activates id and returns the history load it needs
func (c *Controller) SwitchTo(id string) (HistoryRequest, error) {
	if err := c.sessions.SwitchTo(id); err != nil {
		c.view.Notify(err.Error())
		return HistoryRequest{}, err
	}
	c.resetConversation()
	return c.BeginHistory(), nil
}

// Login replaces the identity from a validated form
func (c *Controller) Login(form LoginForm) (HistoryRequest, error) {
	u, err := form.User()
	if err != nil {
		c.view.Notify(err.Error())
		return HistoryRequest{}, err
	}
	c.sessions.SetUser(u)
	c.resetConversation()
	c.view.Notify("Signed in as " + u.Name)
	return c.BeginHistory(), nil
}

// Logout reverts to the guest identity
func (c *Controller) Logout() HistoryRequest {
	c.sessions.SetUser(GuestUser())
	c.resetConversation()
	c.view.Notify("Signed out")
	return c.BeginHistory()
}

func (c *Controller) resetConversation() {
	c.orders.Reset()
	c.view.Clear()
	c.view.RenderOrders(c.orders.List())
	c.renderSessions()
}

func (c *Controller) renderSessions() {
	c.view.RenderSessions(c.sessions.Sessions(), c.sessions.ActiveID())
}

func welcomeMessage() Message {
	return Message{Role: RoleAssistant, Content: WelcomeText}
}
