package fulfillment

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/fsm"

	"go.uber.org/zap"
)

type StockAdjuster interface {
	Adjust(itemID, warehouseID string, delta int, reason string) (int, error)
}

type CarrierLookup interface {
	Carrier(id string) (catalog.Carrier, error)
}

// Engine owns orders, pick lists, the picker pool, packages and labels.
// A single lock covers all of them so cross-entity checks (picker
// exclusivity, all-packages-verified) are atomic. The ledger is called
// while the lock is held; it never calls back.
type Engine struct {
	mu sync.RWMutex

	orders     map[string]*Order
	orderSeq   []string
	pickLists  map[string]*PickList
	pickSeq    []string
	pickers    map[string]string // picker id -> assigned pick list id, "" when idle
	pickerSeq  []string
	packages   map[string]*Package
	packageSeq []string
	labels     map[string]*Label

	stock    StockAdjuster
	carriers CarrierLookup
	ids      idgen.Generator
	events   events.Publisher
	log      *zap.Logger
	now      func() time.Time
}

func NewEngine(stock StockAdjuster, carriers CarrierLookup, ids idgen.Generator, pub events.Publisher, log *zap.Logger) *Engine {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Engine{
		orders:    make(map[string]*Order),
		pickLists: make(map[string]*PickList),
		pickers:   make(map[string]string),
		packages:  make(map[string]*Package),
		labels:    make(map[string]*Label),
		stock:     stock,
		carriers:  carriers,
		ids:       ids,
		events:    pub,
		log:       log,
		now:       time.Now,
	}
}

func (e *Engine) publish(evs []events.Event) {
	if len(evs) > 0 {
		e.events.Publish(evs...)
	}
}

func (e *Engine) order(id string) (*Order, error) {
	o, ok := e.orders[id]
	if !ok {
		return nil, errs.NewNotFound("order", id)
	}
	return o, nil
}

func (e *Engine) pickList(id string) (*PickList, error) {
	p, ok := e.pickLists[id]
	if !ok {
		return nil, errs.NewNotFound("pick list", id)
	}
	return p, nil
}

// advance moves an order one step forward and records the change.
func (e *Engine) advance(o *Order, to fsm.OrderStatus, out *[]events.Event) error {
	if err := fsm.Order.Check(o.ID, o.Status, to); err != nil {
		return err
	}
	from := o.Status
	o.Status = to
	o.UpdatedAt = e.now()
	*out = append(*out, events.New(events.OrderStatusChanged, o.ID, string(to),
		fmt.Sprintf("%s -> %s", from, to)).With("warehouse_id", o.WarehouseID))
	return nil
}

func (e *Engine) SubmitOrder(in OrderInput) (*Order, error) {
	if strings.TrimSpace(in.CustomerID) == "" || strings.TrimSpace(in.WarehouseID) == "" {
		return nil, errs.NewInvalidArgument("customer and warehouse are required")
	}
	if len(in.Lines) == 0 {
		return nil, errs.NewInvalidArgument("an order needs at least one line")
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Quantity <= 0 || l.UnitPrice.IsNegative() {
			return nil, errs.NewInvalidArgument("line %q: item, positive quantity and non-negative price are required", l.ItemID)
		}
		if seen[l.ItemID] {
			return nil, errs.NewInvalidArgument("item %s appears on more than one line", l.ItemID)
		}
		seen[l.ItemID] = true
	}
	priority := strings.ToUpper(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = "NORMAL"
	}

	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	id := in.ID
	if id == "" {
		id = e.ids.NewID("ORD")
	} else if _, exists := e.orders[id]; exists {
		return nil, errs.New(errs.InvalidArgument, "order", id, "already exists")
	}
	now := e.now()
	o := &Order{
		ID:          id,
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Priority:    priority,
		Lines:       append([]OrderLine(nil), in.Lines...),
		Status:      fsm.OrderPending,
		PackageIDs:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.orders[id] = o
	e.orderSeq = append(e.orderSeq, id)

	out = append(out, events.New(events.OrderSubmitted, id, string(o.Status),
		fmt.Sprintf("%d lines for %s, total %s", len(o.Lines), o.CustomerID, o.Total().StringFixed(2))))
	cp := o.clone()
	return &cp, nil
}

// StartProcessing releases a pending order to the warehouse floor.
func (e *Engine) StartProcessing(orderID string) (*Order, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.order(orderID)
	if err != nil {
		return nil, err
	}
	if err := e.advance(o, fsm.OrderProcessing, &out); err != nil {
		return nil, err
	}
	cp := o.clone()
	return &cp, nil
}

func (e *Engine) RegisterPicker(pickerID string) error {
	pickerID = strings.TrimSpace(pickerID)
	if pickerID == "" {
		return errs.NewInvalidArgument("picker id is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pickers[pickerID]; ok {
		return nil
	}
	e.pickers[pickerID] = ""
	e.pickerSeq = append(e.pickerSeq, pickerID)
	return nil
}

// AvailablePickers lists idle pickers in registration order.
func (e *Engine) AvailablePickers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []string{}
	for _, id := range e.pickerSeq {
		if e.pickers[id] == "" {
			out = append(out, id)
		}
	}
	return out
}

// GeneratePickList creates the pick list for a PROCESSING order and moves the order to PICKING.
func (e *Engine) GeneratePickList(orderID string) (*PickList, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.order(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != fsm.OrderProcessing {
		return nil, &errs.Error{
			Kind:    errs.NotReady,
			Entity:  "order",
			ID:      o.ID,
			State:   string(o.Status),
			Message: "pick lists are generated for PROCESSING orders only",
		}
	}

	pl := &PickList{
		ID:          e.ids.NewID("PL"),
		OrderID:     o.ID,
		WarehouseID: o.WarehouseID,
		Status:      fsm.PickListPending,
		CreatedAt:   e.now(),
	}
	for _, l := range o.Lines {
		pl.Lines = append(pl.Lines, PickLine{ItemID: l.ItemID, Requested: l.Quantity})
	}
	if err := e.advance(o, fsm.OrderPicking, &out); err != nil {
		return nil, err
	}
	o.PickListID = pl.ID
	e.pickLists[pl.ID] = pl
	e.pickSeq = append(e.pickSeq, pl.ID)

	out = append(out, events.New(events.PickListCreated, pl.ID, string(pl.Status),
		fmt.Sprintf("%d lines for order %s", len(pl.Lines), o.ID)).With("order_id", o.ID))
	cp := pl.clone()
	return &cp, nil
}

// AssignPickList gives a PENDING list to an idle picker. A picker holds at most one ASSIGNED list.
func (e *Engine) AssignPickList(pickListID, pickerID string) (*PickList, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	pl, err := e.pickList(pickListID)
	if err != nil {
		return nil, err
	}
	current, ok := e.pickers[pickerID]
	if !ok {
		return nil, errs.NewNotFound("picker", pickerID)
	}
	if pl.Status != fsm.PickListPending {
		return nil, &errs.Error{
			Kind:    errs.ListNotAvailable,
			Entity:  "pick list",
			ID:      pl.ID,
			State:   string(pl.Status),
			Message: "only PENDING lists can be assigned",
		}
	}
	if current != "" {
		return nil, errs.New(errs.PickerBusy, "picker", pickerID, "already working pick list %s", current)
	}
	if err := fsm.PickList.Check(pl.ID, pl.Status, fsm.PickListAssigned); err != nil {
		return nil, err
	}

	pl.Status = fsm.PickListAssigned
	pl.AssignedPicker = pickerID
	pl.AssignedAt = e.now()
	e.pickers[pickerID] = pl.ID

	out = append(out, events.New(events.PickListAssigned, pl.ID, string(pl.Status),
		"assigned to "+pickerID).By(pickerID).With("order_id", pl.OrderID))
	cp := pl.clone()
	return &cp, nil
}

// RecordPickedItem confirms qty units of an item were taken from stock. The
// ledger is decremented in the same step; the list completes once every line
// is fully picked.
func (e *Engine) RecordPickedItem(pickListID, itemID string, qty int, notes string) (*PickList, error) {
	if qty <= 0 {
		return nil, errs.NewInvalidArgument("picked quantity must be positive, got %d", qty)
	}

	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	pl, err := e.pickList(pickListID)
	if err != nil {
		return nil, err
	}
	if pl.Status != fsm.PickListAssigned {
		return nil, &errs.Error{
			Kind:    errs.InvalidTransition,
			Entity:  "pick list",
			ID:      pl.ID,
			State:   string(pl.Status),
			Message: "items can only be picked on an ASSIGNED list",
		}
	}
	idx := -1
	for i, l := range pl.Lines {
		if l.ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errs.New(errs.InvalidArgument, "pick list", pl.ID, "item %s is not on this list", itemID)
	}
	if remaining := pl.Lines[idx].Remaining(); qty > remaining {
		return nil, errs.New(errs.InvalidArgument, "pick list", pl.ID,
			"item %s: picking %d exceeds remaining %d", itemID, qty, remaining)
	}

	if _, err := e.stock.Adjust(itemID, pl.WarehouseID, -qty, "pick "+pl.ID); err != nil {
		return nil, err
	}
	pl.Lines[idx].Picked += qty
	if notes != "" {
		pl.Lines[idx].Notes = notes
	}
	out = append(out, events.New(events.ItemPicked, pl.ID, string(pl.Status),
		fmt.Sprintf("%d x %s", qty, itemID)).By(pl.AssignedPicker).With("item_id", itemID))

	if pl.fullyPicked() {
		if err := e.complete(pl, &out); err != nil {
			return nil, err
		}
	}
	cp := pl.clone()
	return &cp, nil
}

// CompletePickList closes an ASSIGNED list, frees its picker and moves the order to PACKING.
func (e *Engine) CompletePickList(pickListID string) (*PickList, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	pl, err := e.pickList(pickListID)
	if err != nil {
		return nil, err
	}
	if err := e.complete(pl, &out); err != nil {
		return nil, err
	}
	cp := pl.clone()
	return &cp, nil
}

func (e *Engine) complete(pl *PickList, out *[]events.Event) error {
	if err := fsm.PickList.Check(pl.ID, pl.Status, fsm.PickListCompleted); err != nil {
		return err
	}
	o, err := e.order(pl.OrderID)
	if err != nil {
		return err
	}
	if err := e.advance(o, fsm.OrderPacking, out); err != nil {
		return err
	}
	pl.Status = fsm.PickListCompleted
	pl.CompletedAt = e.now()
	if e.pickers[pl.AssignedPicker] == pl.ID {
		e.pickers[pl.AssignedPicker] = ""
	}

	detail := "all lines picked"
	if !pl.fullyPicked() {
		detail = "completed with short picks"
		e.log.Info("pick list completed short",
			zap.String("pick_list_id", pl.ID),
			zap.String("order_id", pl.OrderID))
	}
	*out = append(*out, events.New(events.PickListCompleted, pl.ID, string(pl.Status), detail).
		By(pl.AssignedPicker).With("order_id", pl.OrderID))
	return nil
}

func (e *Engine) Order(id string) (*Order, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o, err := e.order(id)
	if err != nil {
		return nil, err
	}
	cp := o.clone()
	return &cp, nil
}

func (e *Engine) Orders() []Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Order, 0, len(e.orderSeq))
	for _, id := range e.orderSeq {
		out = append(out, e.orders[id].clone())
	}
	return out
}

func (e *Engine) PickList(id string) (*PickList, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	pl, err := e.pickList(id)
	if err != nil {
		return nil, err
	}
	cp := pl.clone()
	return &cp, nil
}

func (e *Engine) PickLists() []PickList {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]PickList, 0, len(e.pickSeq))
	for _, id := range e.pickSeq {
		out = append(out, e.pickLists[id].clone())
	}
	return out
}
