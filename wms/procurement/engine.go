package procurement

import (
	"fmt"
	"sync"
	"time"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/fsm"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const POStatusCreated = "CREATED"

type Requisition struct {
	ID              string                `json:"id"`
	ItemID          string                `json:"item_id"`
	ItemName        string                `json:"item_name"`
	Quantity        int                   `json:"quantity"`
	ObservedStock   int                   `json:"observed_stock"`
	RequestedBy     string                `json:"requested_by"`
	Justification   string                `json:"justification"`
	Status          fsm.RequisitionStatus `json:"status"`
	Approver        string                `json:"approver,omitempty"`
	SupplierID      string                `json:"supplier_id,omitempty"`
	RejectReason    string                `json:"reject_reason,omitempty"`
	PurchaseOrderID string                `json:"purchase_order_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	DecidedAt       time.Time             `json:"decided_at,omitempty"`
}

type POLine struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type PurchaseOrder struct {
	ID               string          `json:"id"`
	RequisitionID    string          `json:"requisition_id"`
	SupplierID       string          `json:"supplier_id"`
	SupplierName     string          `json:"supplier_name"`
	DeliveryAddress  string          `json:"delivery_address"`
	Lines            []POLine        `json:"lines"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	OrderDate        time.Time       `json:"order_date"`
	ExpectedDelivery time.Time       `json:"expected_delivery"`
}

type Catalog interface {
	Item(id string) (catalog.Item, error)
	Supplier(id string) (catalog.Supplier, error)
	Suppliers() []catalog.Supplier
}

// Engine owns requisitions and purchase orders. One mutex covers the
// requisition table and the pending-per-item index.
type Engine struct {
	mu            sync.Mutex
	requisitions  map[string]*Requisition
	pendingByItem map[string]string
	orders        map[string]*PurchaseOrder
	reqOrder      []string
	poOrder       []string

	catalog Catalog
	ids     idgen.Generator
	events  events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewEngine(cat Catalog, ids idgen.Generator, pub events.Publisher, log *zap.Logger) *Engine {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Engine{
		requisitions:  make(map[string]*Requisition),
		pendingByItem: make(map[string]string),
		orders:        make(map[string]*PurchaseOrder),
		catalog:       cat,
		ids:           ids,
		events:        pub,
		log:           log,
		now:           time.Now,
	}
}

func (e *Engine) publish(evs []events.Event) {
	if len(evs) > 0 {
		e.events.Publish(evs...)
	}
}

// CreateRequisition opens a requisition for an item whose observed stock is
// at or below its reorder point. It returns (nil, nil) when no reorder is
// needed and the existing requisition when one is already pending.
func (e *Engine) CreateRequisition(itemID string, observedStock int, requestedBy string) (*Requisition, error) {
	it, err := e.catalog.Item(itemID)
	if err != nil {
		return nil, err
	}
	if observedStock > it.ReorderPoint {
		return nil, nil
	}

	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	if id, ok := e.pendingByItem[itemID]; ok {
		r := *e.requisitions[id]
		return &r, nil
	}

	r := &Requisition{
		ID:            e.ids.NewID("REQ"),
		ItemID:        it.ID,
		ItemName:      it.Name,
		Quantity:      it.ReorderQty,
		ObservedStock: observedStock,
		RequestedBy:   requestedBy,
		Justification: fmt.Sprintf("Stock level (%d) is at or below reorder point (%d)", observedStock, it.ReorderPoint),
		Status:        fsm.RequisitionPending,
		CreatedAt:     e.now(),
	}
	e.requisitions[r.ID] = r
	e.pendingByItem[itemID] = r.ID
	e.reqOrder = append(e.reqOrder, r.ID)

	out = append(out, events.New(events.RequisitionCreated, r.ID, string(r.Status), r.Justification).
		By(requestedBy).
		With("item_id", itemID))
	cp := *r
	return &cp, nil
}

// SelectSupplier picks, among active suppliers whose minimum order value is
// met by value, the highest rated one. Ties go to the shorter lead time, then
// the lower supplier id.
func SelectSupplier(suppliers []catalog.Supplier, value decimal.Decimal) (catalog.Supplier, bool) {
	var best catalog.Supplier
	found := false
	for _, s := range suppliers {
		if !s.Active || s.MinOrderValue.GreaterThan(value) {
			continue
		}
		if !found || better(s, best) {
			best, found = s, true
		}
	}
	return best, found
}

func better(a, b catalog.Supplier) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.LeadTimeDays != b.LeadTimeDays {
		return a.LeadTimeDays < b.LeadTimeDays
	}
	return a.ID < b.ID
}

func (e *Engine) get(id string) (*Requisition, error) {
	r, ok := e.requisitions[id]
	if !ok {
		return nil, errs.NewNotFound("requisition", id)
	}
	return r, nil
}

func alreadyDecided(r *Requisition) error {
	return &errs.Error{
		Kind:    errs.AlreadyDecided,
		Entity:  "requisition",
		ID:      r.ID,
		State:   string(r.Status),
		Message: "requisition has already been decided",
	}
}

// Approve attaches the best eligible supplier. When none qualifies the
// requisition stays PENDING.
func (e *Engine) Approve(requisitionID, approver string) (*Requisition, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.get(requisitionID)
	if err != nil {
		return nil, err
	}
	if r.Status != fsm.RequisitionPending {
		return nil, alreadyDecided(r)
	}

	it, err := e.catalog.Item(r.ItemID)
	if err != nil {
		return nil, err
	}
	value := it.UnitCost.Mul(decimal.NewFromInt(int64(r.Quantity)))
	supplier, ok := SelectSupplier(e.catalog.Suppliers(), value)
	if !ok {
		e.log.Info("no eligible supplier",
			zap.String("requisition_id", r.ID),
			zap.String("item_id", r.ItemID),
			zap.String("order_value", value.StringFixed(2)))
		return nil, errs.New(errs.NoEligibleSupplier, "requisition", r.ID,
			"no active supplier accepts an order value of %s", value.StringFixed(2))
	}

	if err := fsm.Requisition.Check(r.ID, r.Status, fsm.RequisitionApproved); err != nil {
		return nil, err
	}
	r.Status = fsm.RequisitionApproved
	r.Approver = approver
	r.SupplierID = supplier.ID
	r.DecidedAt = e.now()
	delete(e.pendingByItem, r.ItemID)

	out = append(out, events.New(events.RequisitionApproved, r.ID, string(r.Status),
		fmt.Sprintf("approved by %s, supplier %s", approver, supplier.ID)).
		By(approver).
		With("supplier_id", supplier.ID))
	cp := *r
	return &cp, nil
}

func (e *Engine) Reject(requisitionID, reason string) (*Requisition, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.get(requisitionID)
	if err != nil {
		return nil, err
	}
	if r.Status != fsm.RequisitionPending {
		return nil, alreadyDecided(r)
	}
	if err := fsm.Requisition.Check(r.ID, r.Status, fsm.RequisitionRejected); err != nil {
		return nil, err
	}
	r.Status = fsm.RequisitionRejected
	r.RejectReason = reason
	r.DecidedAt = e.now()
	delete(e.pendingByItem, r.ItemID)

	out = append(out, events.New(events.RequisitionRejected, r.ID, string(r.Status), reason))
	cp := *r
	return &cp, nil
}

// GeneratePurchaseOrder issues the single purchase order for an approved requisition.
func (e *Engine) GeneratePurchaseOrder(requisitionID, deliveryAddress string) (*PurchaseOrder, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.get(requisitionID)
	if err != nil {
		return nil, err
	}
	if r.Status != fsm.RequisitionApproved {
		return nil, &errs.Error{
			Kind:    errs.RequisitionNotApproved,
			Entity:  "requisition",
			ID:      r.ID,
			State:   string(r.Status),
			Message: "purchase orders are only issued for approved requisitions",
		}
	}
	if r.PurchaseOrderID != "" {
		return nil, errs.New(errs.AlreadyFulfilled, "requisition", r.ID,
			"purchase order %s already issued", r.PurchaseOrderID)
	}

	it, err := e.catalog.Item(r.ItemID)
	if err != nil {
		return nil, err
	}
	supplier, err := e.catalog.Supplier(r.SupplierID)
	if err != nil {
		return nil, err
	}

	lines := []POLine{{
		ItemID:    it.ID,
		ItemName:  it.Name,
		Quantity:  r.Quantity,
		UnitCost:  it.UnitCost,
		LineTotal: it.UnitCost.Mul(decimal.NewFromInt(int64(r.Quantity))),
	}}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}

	now := e.now()
	po := &PurchaseOrder{
		ID:               e.ids.NewID("PO"),
		RequisitionID:    r.ID,
		SupplierID:       supplier.ID,
		SupplierName:     supplier.Name,
		DeliveryAddress:  deliveryAddress,
		Lines:            lines,
		TotalAmount:      total,
		Status:           POStatusCreated,
		OrderDate:        now,
		ExpectedDelivery: now.AddDate(0, 0, supplier.LeadTimeDays),
	}
	e.orders[po.ID] = po
	e.poOrder = append(e.poOrder, po.ID)
	r.PurchaseOrderID = po.ID

	out = append(out, events.New(events.PurchaseOrderCreated, po.ID, po.Status,
		fmt.Sprintf("%d x %s from %s, total %s", r.Quantity, it.ID, supplier.ID, total.StringFixed(2))).
		With("requisition_id", r.ID).
		With("supplier_id", supplier.ID))
	return clonePO(po), nil
}

func clonePO(po *PurchaseOrder) *PurchaseOrder {
	cp := *po
	cp.Lines = append([]POLine(nil), po.Lines...)
	return &cp
}

func (e *Engine) Requisition(id string) (*Requisition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.get(id)
	if err != nil {
		return nil, err
	}
	cp := *r
	return &cp, nil
}

// Requisitions lists every requisition in creation order.
func (e *Engine) Requisitions() []Requisition {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Requisition, 0, len(e.reqOrder))
	for _, id := range e.reqOrder {
		out = append(out, *e.requisitions[id])
	}
	return out
}

func (e *Engine) PendingRequisitions() []Requisition {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Requisition, 0, len(e.pendingByItem))
	for _, id := range e.reqOrder {
		if r := e.requisitions[id]; r.Status == fsm.RequisitionPending {
			out = append(out, *r)
		}
	}
	return out
}

func (e *Engine) PurchaseOrder(id string) (*PurchaseOrder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	po, ok := e.orders[id]
	if !ok {
		return nil, errs.NewNotFound("purchase order", id)
	}
	return clonePO(po), nil
}

func (e *Engine) PurchaseOrders() []PurchaseOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PurchaseOrder, 0, len(e.poOrder))
	for _, id := range e.poOrder {
		out = append(out, *clonePO(e.orders[id]))
	}
	return out
}
