package fulfillment

import (
	"fmt"
	"strings"

	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/fsm"
)

func (e *Engine) pkg(id string) (*Package, error) {
	p, ok := e.packages[id]
	if !ok {
		return nil, errs.NewNotFound("package", id)
	}
	return p, nil
}

// orderPackagesAt reports whether every package of the order has reached at least status s.
func (e *Engine) orderPackagesAt(o *Order, s fsm.PackageStatus) bool {
	rank := map[fsm.PackageStatus]int{fsm.PackagePacking: 0, fsm.PackageVerified: 1, fsm.PackageLabeled: 2}
	if len(o.PackageIDs) == 0 {
		return false
	}
	for _, id := range o.PackageIDs {
		if rank[e.packages[id].Status] < rank[s] {
			return false
		}
	}
	return true
}

// CreatePackage opens a package for an order whose pick list is COMPLETED.
func (e *Engine) CreatePackage(orderID, pickListID, packageType string) (*Package, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.order(orderID)
	if err != nil {
		return nil, err
	}
	pl, err := e.pickList(pickListID)
	if err != nil {
		return nil, err
	}
	if pl.OrderID != o.ID {
		return nil, errs.New(errs.InvalidArgument, "pick list", pl.ID, "belongs to order %s, not %s", pl.OrderID, o.ID)
	}
	if pl.Status != fsm.PickListCompleted {
		return nil, &errs.Error{
			Kind:    errs.PickingIncomplete,
			Entity:  "pick list",
			ID:      pl.ID,
			State:   string(pl.Status),
			Message: "packing starts after the pick list is completed",
		}
	}
	if o.Status != fsm.OrderPacking {
		return nil, &errs.Error{
			Kind:    errs.InvalidTransition,
			Entity:  "order",
			ID:      o.ID,
			State:   string(o.Status),
			Message: "packages can only be added while the order is PACKING",
		}
	}

	packageType = strings.ToUpper(strings.TrimSpace(packageType))
	if packageType == "" {
		packageType = "BOX"
	}
	p := &Package{
		ID:         e.ids.NewID("PKG"),
		OrderID:    o.ID,
		PickListID: pl.ID,
		Type:       packageType,
		Status:     fsm.PackagePacking,
		CreatedAt:  e.now(),
	}
	e.packages[p.ID] = p
	e.packageSeq = append(e.packageSeq, p.ID)
	o.PackageIDs = append(o.PackageIDs, p.ID)
	o.UpdatedAt = e.now()

	out = append(out, events.New(events.PackageCreated, p.ID, string(p.Status),
		fmt.Sprintf("%s package for order %s", p.Type, o.ID)).With("order_id", o.ID))
	cp := *p
	return &cp, nil
}

// VerifyPackage passes quality verification. The order becomes PACKED once all its packages are verified.
func (e *Engine) VerifyPackage(packageID, notes string) (*Package, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.pkg(packageID)
	if err != nil {
		return nil, err
	}
	if err := fsm.Package.Check(p.ID, p.Status, fsm.PackageVerified); err != nil {
		return nil, err
	}
	p.Status = fsm.PackageVerified
	p.VerifyNotes = notes
	out = append(out, events.New(events.PackageVerified, p.ID, string(p.Status), notes).With("order_id", p.OrderID))

	o := e.orders[p.OrderID]
	if o.Status == fsm.OrderPacking && e.orderPackagesAt(o, fsm.PackageVerified) {
		if err := e.advance(o, fsm.OrderPacked, &out); err != nil {
			return nil, err
		}
	}
	cp := *p
	return &cp, nil
}

// GenerateLabel creates the single shipping label for a VERIFIED package.
func (e *Engine) GenerateLabel(packageID, carrierID, serviceLevel string) (*Label, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.pkg(packageID)
	if err != nil {
		return nil, err
	}
	carrier, err := e.carriers.Carrier(carrierID)
	if err != nil {
		return nil, err
	}
	level := strings.ToUpper(strings.TrimSpace(serviceLevel))
	rate, ok := carrier.Rate(level)
	if !ok {
		return nil, errs.New(errs.InvalidArgument, "carrier", carrier.ID, "service level %q not offered", serviceLevel)
	}
	if p.LabelID != "" {
		return nil, errs.New(errs.AlreadyLabeled, "package", p.ID, "label %s already generated", p.LabelID)
	}
	if p.Status != fsm.PackageVerified {
		return nil, &errs.Error{
			Kind:    errs.PackageNotVerified,
			Entity:  "package",
			ID:      p.ID,
			State:   string(p.Status),
			Message: "labels are generated for VERIFIED packages only",
		}
	}

	code := carrier.Code
	if code == "" {
		code = carrier.ID
	}
	l := &Label{
		ID:             e.ids.NewID("LBL"),
		PackageID:      p.ID,
		OrderID:        p.OrderID,
		CarrierID:      carrier.ID,
		ServiceLevel:   level,
		TrackingNumber: e.ids.NewID(code),
		Rate:           rate,
		CreatedAt:      e.now(),
	}
	e.labels[l.ID] = l
	p.LabelID = l.ID

	out = append(out, events.New(events.LabelGenerated, l.ID, level,
		fmt.Sprintf("%s %s tracking %s", carrier.Name, level, l.TrackingNumber)).
		With("package_id", p.ID).
		With("carrier_id", carrier.ID))
	cp := *l
	return &cp, nil
}

// MarkLabeled moves a package with a label to LABELED; the order follows once
// all its packages are labeled.
func (e *Engine) MarkLabeled(packageID string) (*Package, error) {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.pkg(packageID)
	if err != nil {
		return nil, err
	}
	if p.LabelID == "" {
		return nil, &errs.Error{
			Kind:    errs.InvalidTransition,
			Entity:  "package",
			ID:      p.ID,
			State:   string(p.Status),
			Message: "no shipping label generated",
		}
	}
	if err := fsm.Package.Check(p.ID, p.Status, fsm.PackageLabeled); err != nil {
		return nil, err
	}
	p.Status = fsm.PackageLabeled
	out = append(out, events.New(events.PackageLabeled, p.ID, string(p.Status), "label "+p.LabelID).
		With("order_id", p.OrderID))

	o := e.orders[p.OrderID]
	if o.Status == fsm.OrderPacked && e.orderPackagesAt(o, fsm.PackageLabeled) {
		if err := e.advance(o, fsm.OrderLabeled, &out); err != nil {
			return nil, err
		}
	}
	cp := *p
	return &cp, nil
}

// MarkHandedOver records the courier handover of labeled packages. An order
// becomes DISPATCHED once it is LABELED and every one of its packages has
// been handed over, so an order split across carriers dispatches with its
// last manifest. Handing over a package twice is a no-op.
func (e *Engine) MarkHandedOver(packageIDs ...string) error {
	var out []events.Event
	defer func() { e.publish(out) }()
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range packageIDs {
		p, err := e.pkg(id)
		if err != nil {
			return err
		}
		if p.Status != fsm.PackageLabeled {
			return &errs.Error{
				Kind:    errs.InvalidTransition,
				Entity:  "package",
				ID:      p.ID,
				State:   string(p.Status),
				Message: "only LABELED packages can be handed over",
			}
		}
	}

	touched := make(map[string]bool)
	var orderIDs []string
	for _, id := range packageIDs {
		p := e.packages[id]
		if p.HandedOver {
			continue
		}
		p.HandedOver = true
		if !touched[p.OrderID] {
			touched[p.OrderID] = true
			orderIDs = append(orderIDs, p.OrderID)
		}
	}
	for _, orderID := range orderIDs {
		o := e.orders[orderID]
		if o.Status != fsm.OrderLabeled || !e.orderHandedOver(o) {
			continue
		}
		if err := e.advance(o, fsm.OrderDispatched, &out); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) orderHandedOver(o *Order) bool {
	for _, id := range o.PackageIDs {
		if !e.packages[id].HandedOver {
			return false
		}
	}
	return len(o.PackageIDs) > 0
}

// ReadyPackages returns the LABELED packages labeled for the carrier that
// have not been handed over, in package creation order. The status of the
// owning order does not matter.
func (e *Engine) ReadyPackages(carrierID string) []Shipment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []Shipment{}
	for _, id := range e.packageSeq {
		p := e.packages[id]
		if p.Status != fsm.PackageLabeled || p.HandedOver {
			continue
		}
		l := e.labels[p.LabelID]
		if l == nil || l.CarrierID != carrierID {
			continue
		}
		out = append(out, Shipment{
			PackageID:      p.ID,
			OrderID:        p.OrderID,
			LabelID:        l.ID,
			TrackingNumber: l.TrackingNumber,
			ServiceLevel:   l.ServiceLevel,
			Rate:           l.Rate,
		})
	}
	return out
}

func (e *Engine) Package(id string) (*Package, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.pkg(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (e *Engine) Packages() []Package {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Package, 0, len(e.packageSeq))
	for _, id := range e.packageSeq {
		out = append(out, *e.packages[id])
	}
	return out
}

func (e *Engine) Label(id string) (*Label, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	l, ok := e.labels[id]
	if !ok {
		return nil, errs.NewNotFound("label", id)
	}
	cp := *l
	return &cp, nil
}
