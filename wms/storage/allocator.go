package storage

import (
	"fmt"
	"strconv"
	"sync"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"

	"go.uber.org/zap"
)

const DefaultHeadroom = 50

type Bin struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	Capacity    int    `json:"capacity"`
	Used        int    `json:"used"`
}

type Warehouse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	TotalCapacity int    `json:"total_capacity"`
	UsedCapacity  int    `json:"used_capacity"`
	Bins          []Bin  `json:"bins"`
}

func (w Warehouse) Available() int {
	return w.TotalCapacity - w.UsedCapacity
}

type warehouse struct {
	mu      sync.Mutex
	id      string
	name    string
	address string
	total   int
	used    int
	bins    []*Bin
}

func (w *warehouse) snapshot() Warehouse {
	out := Warehouse{
		ID:            w.id,
		Name:          w.name,
		Address:       w.address,
		TotalCapacity: w.total,
		UsedCapacity:  w.used,
		Bins:          make([]Bin, 0, len(w.bins)),
	}
	for _, b := range w.bins {
		out.Bins = append(out.Bins, *b)
	}
	return out
}

// Allocator owns bin and warehouse space counters. Reservations are
// serialised per warehouse; lock order is warehouse, then the index.
type Allocator struct {
	mu         sync.RWMutex
	warehouses map[string]*warehouse
	order      []string
	binIndex   map[string]*warehouse

	ids      idgen.Generator
	headroom int
	events   events.Publisher
	log      *zap.Logger
}

func NewAllocator(ids idgen.Generator, headroom int, pub events.Publisher, log *zap.Logger) *Allocator {
	if headroom < 0 {
		headroom = DefaultHeadroom
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Allocator{
		warehouses: make(map[string]*warehouse),
		binIndex:   make(map[string]*warehouse),
		ids:        ids,
		headroom:   headroom,
		events:     pub,
		log:        log,
	}
}

func (a *Allocator) AddWarehouse(id, name, address string, totalCapacity int) error {
	if id == "" || totalCapacity <= 0 {
		return errs.NewInvalidArgument("warehouse id and a positive capacity are required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.warehouses[id]; ok {
		return errs.New(errs.InvalidArgument, "warehouse", id, "already registered")
	}
	a.warehouses[id] = &warehouse{id: id, name: name, address: address, total: totalCapacity}
	a.order = append(a.order, id)
	return nil
}

func (a *Allocator) warehouse(id string) (*warehouse, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	w, ok := a.warehouses[id]
	if !ok {
		return nil, errs.NewNotFound("warehouse", id)
	}
	return w, nil
}

func (a *Allocator) AddBin(warehouseID, binID string, capacity int) error {
	if binID == "" || capacity <= 0 {
		return errs.NewInvalidArgument("bin id and a positive capacity are required")
	}
	w, err := a.warehouse(warehouseID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.binIndex[binID]; ok {
		return errs.New(errs.InvalidArgument, "bin", binID, "already registered")
	}
	w.bins = append(w.bins, &Bin{ID: binID, WarehouseID: warehouseID, Capacity: capacity})
	a.binIndex[binID] = w
	return nil
}

// Reserve claims units of space in the warehouse and returns the bin that
// holds them: the first existing bin with room, else a new bin sized
// min(units+headroom, remaining warehouse space).
func (a *Allocator) Reserve(warehouseID string, units int) (string, error) {
	if units <= 0 {
		return "", errs.NewInvalidArgument("units must be positive, got %d", units)
	}
	w, err := a.warehouse(warehouseID)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	remaining := w.total - w.used
	if units > remaining {
		used, total := w.used, w.total
		w.mu.Unlock()
		return "", &errs.Error{
			Kind:    errs.NoSpace,
			Entity:  "warehouse",
			ID:      warehouseID,
			Message: fmt.Sprintf("need %d units, %d of %d in use", units, used, total),
		}
	}

	var target *Bin
	for _, b := range w.bins {
		if b.Capacity-b.Used >= units {
			target = b
			break
		}
	}
	created := false
	if target == nil {
		capacity := remaining
		if units <= remaining-a.headroom {
			capacity = units + a.headroom
		}
		target = &Bin{ID: a.ids.NewID("BIN"), WarehouseID: warehouseID, Capacity: capacity}
		w.bins = append(w.bins, target)
		a.mu.Lock()
		a.binIndex[target.ID] = w
		a.mu.Unlock()
		created = true
	}
	target.Used += units
	w.used += units
	binID, used := target.ID, w.used
	w.mu.Unlock()

	a.events.Publish(events.New(events.StorageReserved, binID, "RESERVED",
		fmt.Sprintf("%d units in %s, warehouse usage %d", units, warehouseID, used)).
		With("warehouse_id", warehouseID).
		With("units", strconv.Itoa(units)).
		With("new_bin", strconv.FormatBool(created)))
	return binID, nil
}

// Release returns units of space held in a bin.
func (a *Allocator) Release(binID string, units int) error {
	if units <= 0 {
		return errs.NewInvalidArgument("units must be positive, got %d", units)
	}
	a.mu.RLock()
	w, ok := a.binIndex[binID]
	a.mu.RUnlock()
	if !ok {
		return errs.NewNotFound("bin", binID)
	}

	w.mu.Lock()
	var bin *Bin
	for _, b := range w.bins {
		if b.ID == binID {
			bin = b
			break
		}
	}
	if bin.Used < units {
		used := bin.Used
		w.mu.Unlock()
		return errs.New(errs.InvalidArgument, "bin", binID, "cannot release %d units, %d in use", units, used)
	}
	bin.Used -= units
	w.used -= units
	w.mu.Unlock()

	a.events.Publish(events.New(events.StorageReleased, binID, "RELEASED",
		fmt.Sprintf("%d units released in %s", units, w.id)).
		With("warehouse_id", w.id))
	return nil
}

func (a *Allocator) Warehouse(id string) (Warehouse, error) {
	w, err := a.warehouse(id)
	if err != nil {
		return Warehouse{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot(), nil
}

func (a *Allocator) Warehouses() []Warehouse {
	a.mu.RLock()
	ws := make([]*warehouse, 0, len(a.order))
	for _, id := range a.order {
		ws = append(ws, a.warehouses[id])
	}
	a.mu.RUnlock()

	out := make([]Warehouse, 0, len(ws))
	for _, w := range ws {
		w.mu.Lock()
		out = append(out, w.snapshot())
		w.mu.Unlock()
	}
	return out
}
