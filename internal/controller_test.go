package internal

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/iksnae/captain-session/internal/api"
	"github.com/iksnae/captain-session/testutil"
)

type stubBackend struct {
	reply      string
	chatErr    error
	history    []api.Message
	historyErr error

	chatCalls    int
	historyCalls int
	chatUsers    []string
	historyUsers []string

	// release, when set, holds Chat until it is closed
	release chan struct{}
}

func (b *stubBackend) Chat(ctx context.Context, message, user string) (string, error) {
	if b.release != nil {
		<-b.release
	}
	b.chatCalls++
	b.chatUsers = append(b.chatUsers, user)
	return b.reply, b.chatErr
}

func (b *stubBackend) History(ctx context.Context, user string) ([]api.Message, error) {
	b.historyCalls++
	b.historyUsers = append(b.historyUsers, user)
	return b.history, b.historyErr
}

func newTestController(t *testing.T, backend Backend) (*Controller, *Transcript) {
	t.Helper()
	m, _ := newTestSessionManager(t)
	view := NewTranscript()
	return NewController(m, backend, view), view
}

func TestController_SendRendersUserEntryBeforeReply(t *testing.T) {
	backend := &stubBackend{reply: "Noted.", release: make(chan struct{})}
	c, view := newTestController(t, backend)

	done := make(chan SendResult)
	go func() {
		res, _ := c.Send(context.Background(), "  Book a container  ")
		done <- res
	}()

	// Wait for the optimistic render; the backend is still blocked
	for view.PendingCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	msgs := view.Messages()
	if len(msgs) != 1 || msgs[0] != (Message{Role: RoleUser, Content: "Book a container"}) {
		t.Fatalf("before reply: Messages() = %+v, want one trimmed user entry", msgs)
	}

	close(backend.release)
	res := <-done

	if res.Err != nil {
		t.Fatalf("Send() error = %v", res.Err)
	}
	if view.PendingCount() != 0 {
		t.Errorf("pending marker left behind")
	}
	msgs = view.Messages()
	if len(msgs) != 2 || msgs[1] != (Message{Role: RoleAssistant, Content: "Noted."}) {
		t.Errorf("after reply: Messages() = %+v", msgs)
	}
}

func TestController_SendBlankDoesNothing(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		backend := &stubBackend{reply: "unused"}
		c, view := newTestController(t, backend)
		before := view.Revision()

		if _, ok := c.Send(context.Background(), text); ok {
			t.Errorf("Send(%q) ok = true, want false", text)
		}
		if backend.chatCalls != 0 {
			t.Errorf("Send(%q) made %d chat calls", text, backend.chatCalls)
		}
		if view.Revision() != before {
			t.Errorf("Send(%q) changed the view", text)
		}
	}
}

func TestController_SendAddressesSessionKey(t *testing.T) {
	backend := &stubBackend{reply: "ok"}
	c, _ := newTestController(t, backend)

	c.Send(context.Background(), "hi")

	want := SessionKey(GuestUser().ID, c.Sessions().ActiveID())
	if len(backend.chatUsers) != 1 || backend.chatUsers[0] != want {
		t.Errorf("chat user = %v, want %q", backend.chatUsers, want)
	}
}

func TestController_SendLabelsSession(t *testing.T) {
	c, view := newTestController(t, &stubBackend{reply: "ok"})

	c.Send(context.Background(), "Ship 20 pallets to Rotterdam next week please thanks")
	c.Send(context.Background(), "second message")

	want := TruncateLabel("Ship 20 pallets to Rotterdam next week please thanks")
	if got := c.Sessions().Active().Label; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
	list, active := view.Sessions()
	if active != c.Sessions().ActiveID() || len(list) == 0 || list[0].Label != want {
		t.Errorf("view sessions = %+v (%s), want refreshed label", list, active)
	}
}

func TestController_SendOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		err        error
		wantText   string
		wantOrders int
	}{
		{
			name:       "order reply",
			reply:      testutil.SampleOrderReply,
			wantText:   testutil.SampleOrderReply,
			wantOrders: 1,
		},
		{
			name:     "non-ok with reply",
			err:      &api.StatusError{Endpoint: "/api/chat", StatusCode: http.StatusTooManyRequests, Message: "rate limited"},
			wantText: "Error: rate limited",
		},
		{
			name:     "non-ok without reply",
			err:      &api.StatusError{Endpoint: "/api/chat", StatusCode: http.StatusInternalServerError},
			wantText: genericErrorText,
		},
		{
			name:     "transport failure",
			err:      &api.TransportError{Endpoint: "/api/chat", Err: errors.New("connection refused")},
			wantText: connectivityErrorText,
		},
		{
			name:     "cancelled",
			err:      context.Canceled,
			wantText: connectivityErrorText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, view := newTestController(t, &stubBackend{reply: tt.reply, chatErr: tt.err})

			c.Send(context.Background(), "hello")

			msgs := view.Messages()
			if len(msgs) != 2 {
				t.Fatalf("Messages() = %+v, want user + reply", msgs)
			}
			if msgs[1].Role != RoleAssistant || msgs[1].Content != tt.wantText {
				t.Errorf("reply entry = %+v, want assistant %q", msgs[1], tt.wantText)
			}
			if got := len(c.Orders()); got != tt.wantOrders {
				t.Errorf("orders = %d, want %d", got, tt.wantOrders)
			}
			if got := len(view.Orders()); got != tt.wantOrders {
				t.Errorf("view orders = %d, want %d", got, tt.wantOrders)
			}
		})
	}
}

func TestController_ErrorReplyLeavesOrdersUntouched(t *testing.T) {
	backend := &stubBackend{reply: testutil.SampleOrderReply}
	c, view := newTestController(t, backend)
	c.Send(context.Background(), "book")

	backend.reply = ""
	backend.chatErr = &api.StatusError{Endpoint: "/api/chat", StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
	c.Send(context.Background(), "book again")

	orders := view.Orders()
	if len(orders) != 1 || orders[0].ID != "NTS-1234" {
		t.Errorf("orders after error = %+v, want the first order only", orders)
	}
}

func TestController_StaleReplyNotRendered(t *testing.T) {
	c, view := newTestController(t, &stubBackend{reply: testutil.SampleOrderReply})

	out, ok := c.BeginSend("book")
	if !ok {
		t.Fatal("BeginSend() refused")
	}
	res := c.Deliver(context.Background(), out)
	c.CreateSession()
	c.CompleteSend(res)

	msgs := view.Messages()
	if len(msgs) != 1 || msgs[0].Content != WelcomeText {
		t.Errorf("Messages() = %+v, want only the welcome of the new session", msgs)
	}
	if view.PendingCount() != 0 || len(c.Orders()) != 0 {
		t.Errorf("stale reply leaked into the new session")
	}
}

func TestController_HistoryEmptyRendersWelcome(t *testing.T) {
	tests := []struct {
		name    string
		history []api.Message
		err     error
	}{
		{name: "empty array", history: []api.Message{}},
		{name: "non-array body", history: nil},
		{name: "server error", err: &api.StatusError{Endpoint: "/api/history", StatusCode: 500}},
		{name: "transport failure", err: &api.TransportError{Endpoint: "/api/history", Err: errors.New("dial tcp")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, view := newTestController(t, &stubBackend{history: tt.history, historyErr: tt.err})

			c.Start(context.Background())

			msgs := view.Messages()
			if len(msgs) != 1 || msgs[0] != (Message{Role: RoleAssistant, Content: WelcomeText}) {
				t.Errorf("Messages() = %+v, want a single welcome entry", msgs)
			}
		})
	}
}

func TestController_HistoryReconciles(t *testing.T) {
	backend := &stubBackend{history: []api.Message{
		{Role: "user", Content: "Book sea freight to Chennai"},
		{Role: "captain", Content: "Order ID: NTS-0001\nMode: SEA\nRoute: Singapore-Chennai"},
		{Role: "user", Content: "And air freight too"},
		{Role: "assistant", Content: "Order ID: NTS-0002\nMode: AIR"},
		{Role: "captain", Content: "Order ID: NTS-0001\nRoute: Changed"},
	}}
	c, view := newTestController(t, backend)

	c.Start(context.Background())

	msgs := view.Messages()
	if len(msgs) != 5 {
		t.Fatalf("Messages() len = %d, want 5", len(msgs))
	}
	if msgs[1].Role != RoleAssistant {
		t.Errorf("captain role rendered as %q, want assistant", msgs[1].Role)
	}
	if got := c.Sessions().Active().Label; got != "Book sea freight to Chennai" {
		t.Errorf("label = %q, want first user message", got)
	}

	orders := view.Orders()
	if len(orders) != 2 {
		t.Fatalf("orders = %+v, want 2", orders)
	}
	if orders[0].ID != "NTS-0002" || orders[1].ID != "NTS-0001" {
		t.Errorf("order ids = %s, %s, want newest first", orders[0].ID, orders[1].ID)
	}
	if orders[1].Route != "Singapore-Chennai" {
		t.Errorf("NTS-0001 route = %q, want first-seen route", orders[1].Route)
	}
}

func TestController_HistoryKeepsExistingLabel(t *testing.T) {
	backend := &stubBackend{history: []api.Message{{Role: "user", Content: "from server"}}}
	c, _ := newTestController(t, backend)
	c.Sessions().LabelFromFirstMessage("typed locally")

	c.Start(context.Background())

	if got := c.Sessions().Active().Label; got != "typed locally" {
		t.Errorf("label = %q, want it unchanged", got)
	}
}

func TestController_StaleHistoryDropped(t *testing.T) {
	backend := &stubBackend{history: []api.Message{{Role: "user", Content: "old session"}}}
	c, view := newTestController(t, backend)

	req := c.BeginHistory()
	res := c.FetchHistory(context.Background(), req)
	c.CreateSession()

	if c.ApplyHistory(res) {
		t.Error("ApplyHistory() = true for a stale key")
	}
	msgs := view.Messages()
	if len(msgs) != 1 || msgs[0].Content != WelcomeText {
		t.Errorf("Messages() = %+v, want the new session's welcome", msgs)
	}
}

func TestController_CreateSession(t *testing.T) {
	backend := &stubBackend{reply: testutil.SampleOrderReply}
	c, view := newTestController(t, backend)
	first := c.Sessions().ActiveID()
	c.Send(context.Background(), "book")

	s := c.CreateSession()

	if s.ID == first || c.Sessions().ActiveID() != s.ID {
		t.Errorf("CreateSession() = %+v, active %q", s, c.Sessions().ActiveID())
	}
	if len(c.Sessions().Sessions()) != 2 {
		t.Errorf("prior session was dropped")
	}
	if len(c.Orders()) != 0 || len(view.Orders()) != 0 {
		t.Errorf("orders not reset")
	}
	if backend.historyCalls != 0 {
		t.Errorf("CreateSession fetched history")
	}
}

func TestController_SwitchTo(t *testing.T) {
	backend := &stubBackend{}
	c, view := newTestController(t, backend)
	first := c.Sessions().ActiveID()
	c.CreateSession()

	req, err := c.SwitchTo(first)
	if err != nil {
		t.Fatalf("SwitchTo() error = %v", err)
	}
	if want := SessionKey(GuestUser().ID, first); req.Key != want {
		t.Errorf("history key = %q, want %q", req.Key, want)
	}
	if len(view.Messages()) != 0 {
		t.Errorf("transcript not cleared on switch")
	}

	if _, err := c.SwitchTo("s_missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SwitchTo(unknown) error = %v, want ErrSessionNotFound", err)
	}
	if view.Notice() == "" {
		t.Errorf("unknown switch did not notify")
	}
}

func TestController_LoginLogout(t *testing.T) {
	backend := &stubBackend{}
	c, view := newTestController(t, backend)

	req, err := c.Login(LoginForm{Name: "Priya", Email: "Priya@Example.com"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	u := c.Sessions().User()
	if u.IsGuest() || u.Name != "Priya" {
		t.Errorf("user = %+v, want Priya", u)
	}
	if req.Key != SessionKey(u.ID, c.Sessions().ActiveID()) {
		t.Errorf("history key = %q, want it addressed to the new user", req.Key)
	}
	if view.Notice() != "Signed in as Priya" {
		t.Errorf("Notice() = %q", view.Notice())
	}

	if _, err := c.Login(LoginForm{Email: "nobody@example.com"}); err == nil {
		t.Error("Login() without name succeeded")
	}
	if c.Sessions().User() != u {
		t.Errorf("failed login replaced the user")
	}

	req = c.Logout()
	if !c.Sessions().User().IsGuest() {
		t.Errorf("Logout() left user %+v", c.Sessions().User())
	}
	if req.Key != SessionKey("guest", c.Sessions().ActiveID()) {
		t.Errorf("history key after logout = %q", req.Key)
	}
}

func TestController_AgainstFakeBackend(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	client, err := api.New(api.Config{BaseURL: fb.URL()})
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}
	c, view := newTestController(t, client)

	c.Start(context.Background())
	c.Send(context.Background(), "book a container")

	msgs := view.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Messages() = %+v, want welcome, user, reply", msgs)
	}
	orders := view.Orders()
	want := Order{ID: "NTS-1234", Mode: "SEA", Route: "Singapore-Chennai", Status: StatusInTransit}
	if len(orders) != 1 || orders[0] != want {
		t.Errorf("orders = %+v, want %+v", orders, want)
	}
	if fb.Count("/api/history") != 1 || fb.Count("/api/chat") != 1 {
		t.Errorf("calls: history=%d chat=%d", fb.Count("/api/history"), fb.Count("/api/chat"))
	}
}

func TestController_OverlappingSendsRenderInCompletionOrder(t *testing.T) {
	tests := []struct {
		name     string
		complete []int // indexes into the two outbound sends
		want     []Message
	}{
		{
			name:     "second reply first",
			complete: []int{1, 0},
			want: []Message{
				{Role: RoleUser, Content: "first"},
				{Role: RoleUser, Content: "second"},
				{Role: RoleAssistant, Content: "r2"},
				{Role: RoleAssistant, Content: "r1"},
			},
		},
		{
			name:     "replies in send order",
			complete: []int{0, 1},
			want: []Message{
				{Role: RoleUser, Content: "first"},
				{Role: RoleUser, Content: "second"},
				{Role: RoleAssistant, Content: "r1"},
				{Role: RoleAssistant, Content: "r2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, view := newTestController(t, &stubBackend{})

			first, ok1 := c.BeginSend("first")
			second, ok2 := c.BeginSend("second")
			if !ok1 || !ok2 {
				t.Fatal("BeginSend() refused a message")
			}
			if view.PendingCount() != 2 {
				t.Fatalf("PendingCount() = %d, want 2 while both are in flight", view.PendingCount())
			}

			results := []SendResult{
				{Outbound: first, Reply: "r1"},
				{Outbound: second, Reply: "r2"},
			}
			for _, i := range tt.complete {
				c.CompleteSend(results[i])
			}

			if got := view.Messages(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Messages() = %+v, want %+v", got, tt.want)
			}
			if view.PendingCount() != 0 {
				t.Errorf("PendingCount() = %d, want 0", view.PendingCount())
			}
		})
	}
}
