package internal

import (
	"regexp"
	"strings"
)

const (
	// StatusInTransit is the only status the extractor assigns
	StatusInTransit = "In Transit"

	unknownMode = "Unknown"
)

var (
	orderIDPattern = regexp.MustCompile(`(?m)Order ID:\s*(NTS-\d{4})\b`)
	modePattern    = regexp.MustCompile(`(?m)Mode:[ \t]*([^\r\n]*)`)
	routePattern   = regexp.MustCompile(`(?m)Route:[ \t]*([^\r\n]*)`)
)

// ExtractOrder recognizes an order summary in assistant text. It returns
// false unless the text carries an "Order ID: NTS-dddd" line.
func ExtractOrder(text string) (Order, bool) {
	m := orderIDPattern.FindStringSubmatch(text)
	if m == nil {
		return Order{}, false
	}

	order := Order{
		ID:     m[1],
		Mode:   unknownMode,
		Status: StatusInTransit,
	}
	if mode := firstField(modePattern, text); mode != "" {
		order.Mode = mode
	}
	order.Route = firstField(routePattern, text)
	return order, true
}

func firstField(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// OrderBook is the per-session list of extracted orders, newest first
type OrderBook struct {
	orders []Order
}

// NewOrderBook creates an empty book
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Fold extracts an order from text and records it unless its id is already
// known. An existing entry is never updated.
func (b *OrderBook) Fold(text string) (Order, bool) {
	order, ok := ExtractOrder(text)
	if !ok || b.has(order.ID) {
		return Order{}, false
	}
	b.orders = append([]Order{order}, b.orders...)
	return order, true
}

// List returns a copy of the orders, newest first
func (b *OrderBook) List() []Order {
	out := make([]Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// Reset forgets every order
func (b *OrderBook) Reset() {
	b.orders = nil
}

func (b *OrderBook) has(id string) bool {
	for _, o := range b.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}
