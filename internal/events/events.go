// Package events fans mutation notifications out to live subscribers.
package events

import (
	"context"
	"sync"
	"time"
)

// Event names broadcast after a committed mutation.
const (
	StockAdded        = "stock_added"
	BatchAdded        = "batch_added"
	SaleRecorded      = "sale_recorded"
	SaleEdited        = "sale_edited"
	SaleDeleted       = "sale_deleted"
	ItemRestocked     = "item_restocked"
	ItemEdited        = "item_edited"
	ItemsRecategorize = "items_recategorized"
	ItemsDeleted      = "items_deleted"
	CategoryChanged   = "category_changed"
	ExpenseChanged    = "expense_changed"
)

// Event is the payload every subscriber receives.
type Event struct {
	Event string                 `json:"event"`
	Key   string                 `json:"-"`
	Data  map[string]interface{} `json:"data"`
	At    time.Time              `json:"at"`
}

// Publisher delivers events. Implementations must not block the caller for long
// and must not fail the mutation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Multi publishes to every wrapped publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	r.Events = append(r.Events, e)
	r.mu.Unlock()
}

// Names returns the recorded event names in publish order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Event
	}
	return out
}
