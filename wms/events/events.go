package events

import (
	"sync"
	"time"
)

const (
	InventoryAdjusted = "inventory.adjusted"
	InventoryLowStock = "inventory.low_stock"

	StorageReserved = "storage.reserved"
	StorageReleased = "storage.released"

	RequisitionCreated   = "requisition.created"
	RequisitionApproved  = "requisition.approved"
	RequisitionRejected  = "requisition.rejected"
	PurchaseOrderCreated = "purchase_order.created"

	OrderSubmitted     = "order.submitted"
	OrderStatusChanged = "order.status_changed"
	PickListCreated    = "pick_list.created"
	PickListAssigned   = "pick_list.assigned"
	ItemPicked         = "pick_list.item_picked"
	PickListCompleted  = "pick_list.completed"
	PackageCreated     = "package.created"
	PackageVerified    = "package.verified"
	LabelGenerated     = "label.generated"
	PackageLabeled     = "package.labeled"

	ManifestCreated    = "manifest.created"
	ManifestHandedOver = "manifest.handed_over"
)

// Event is a fact about a state change, published after the owning component
// has released its locks.
type Event struct {
	Type       string            `json:"type"`
	RefNo      string            `json:"ref_no"`
	Status     string            `json:"status"`
	Detail     string            `json:"detail"`
	Actor      string            `json:"actor,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func New(eventType, refNo, status, detail string) Event {
	return Event{Type: eventType, RefNo: refNo, Status: status, Detail: detail, OccurredAt: time.Now()}
}

func (e Event) With(key, value string) Event {
	attrs := make(map[string]string, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attributes = attrs
	return e
}

func (e Event) By(actor string) Event {
	e.Actor = actor
	return e
}

type Publisher interface {
	Publish(evs ...Event)
}

type Nop struct{}

func (Nop) Publish(...Event) {}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(evs ...Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
