package internal

import (
	"strings"
	"sync"
)

// View is the rendering surface the controller drives. Implementations must
// keep insertion order and must not deduplicate entries.
type View interface {
	Render(entries []Message)
	Append(entry Message)
	ShowPending(id int)
	ClearPending(id int)
	Clear()
	RenderOrders(orders []Order)
	RenderSessions(list []Session, activeID string)
	Notify(text string)
}

type transcriptEntry struct {
	msg       Message
	pendingID int // non-zero for a pending marker
}

// Transcript is the in-memory conversation view. The chat TUI redraws from
// it whenever Revision changes.
type Transcript struct {
	mu       sync.Mutex
	entries  []transcriptEntry
	orders   []Order
	sessions []Session
	activeID string
	notice   string
	revision int
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Render replaces the transcript with entries
func (t *Transcript) Render(entries []Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make([]transcriptEntry, 0, len(entries))
	for _, e := range entries {
		t.entries = append(t.entries, transcriptEntry{msg: e})
	}
	t.revision++
}

// Append adds one entry at the end
func (t *Transcript) Append(entry Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, transcriptEntry{msg: entry})
	t.revision++
}

// ShowPending adds a pending marker at the end
func (t *Transcript) ShowPending(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, transcriptEntry{pendingID: id})
	t.revision++
}

// ClearPending removes the marker with id. Unknown ids are ignored, which
// covers a transcript cleared while the request was in flight.
func (t *Transcript) ClearPending(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.entries {
		if e.pendingID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			t.revision++
			return
		}
	}
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	t.revision++
}

// RenderOrders records the order list
func (t *Transcript) RenderOrders(orders []Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.orders = append([]Order(nil), orders...)
	t.revision++
}

// RenderSessions records the session list
func (t *Transcript) RenderSessions(list []Session, activeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = append([]Session(nil), list...)
	t.activeID = activeID
	t.revision++
}

// Notify records an inline message
func (t *Transcript) Notify(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notice = text
	t.revision++
}

// Messages returns the rendered messages, skipping pending markers
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, 0, len(t.entries))
	for _, e := range t.entries {
		if e.pendingID == 0 {
			out = append(out, e.msg)
		}
	}
	return out
}

// PendingCount returns how many replies are outstanding
func (t *Transcript) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.pendingID != 0 {
			n++
		}
	}
	return n
}

// Orders returns the last rendered order list
func (t *Transcript) Orders() []Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Order(nil), t.orders...)
}

// Sessions returns the last rendered session list and active id
func (t *Transcript) Sessions() ([]Session, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Session(nil), t.sessions...), t.activeID
}

// Notice returns the last inline message
func (t *Transcript) Notice() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notice
}

// Revision increases on every change
func (t *Transcript) Revision() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revision
}

// String renders the whole transcript for a terminal of the given width
func (t *Transcript) String(width int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	parts := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.pendingID != 0 {
			parts = append(parts, FormatPending())
			continue
		}
		parts = append(parts, FormatMessage(e.msg, width))
	}
	return strings.Join(parts, "\n\n")
}
