package inventory

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"

	"go.uber.org/zap"
)

type Record struct {
	ItemID         string    `json:"item_id"`
	WarehouseID    string    `json:"warehouse_id"`
	BinID          string    `json:"bin_id,omitempty"`
	QuantityOnHand int       `json:"quantity_on_hand"`
	LastUpdated    time.Time `json:"last_updated"`
	LastScanned    time.Time `json:"last_scanned,omitempty"`
}

type ReorderSignal struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	Observed     int    `json:"observed"`
	ReorderPoint int    `json:"reorder_point"`
}

type ItemLookup interface {
	Item(id string) (catalog.Item, error)
}

type key struct {
	item      string
	warehouse string
}

type entry struct {
	mu  sync.Mutex
	rec Record
}

// Ledger is the only owner of on-hand quantities. Each (item, warehouse)
// record has its own lock; the map itself is guarded separately.
type Ledger struct {
	mu      sync.RWMutex
	records map[key]*entry

	items  ItemLookup
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewLedger(items ItemLookup, pub events.Publisher, log *zap.Logger) *Ledger {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Ledger{
		records: make(map[key]*entry),
		items:   items,
		events:  pub,
		log:     log,
		now:     time.Now,
	}
}

func (l *Ledger) lookup(itemID, warehouseID string) *entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records[key{itemID, warehouseID}]
}

func (l *Ledger) getOrCreate(itemID, warehouseID string) *entry {
	if e := l.lookup(itemID, warehouseID); e != nil {
		return e
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	k := key{itemID, warehouseID}
	if e, ok := l.records[k]; ok {
		return e
	}
	e := &entry{rec: Record{ItemID: itemID, WarehouseID: warehouseID, LastUpdated: l.now()}}
	l.records[k] = e
	return e
}

// Quantity returns the on-hand quantity, 0 for untracked pairs.
func (l *Ledger) Quantity(itemID, warehouseID string) int {
	e := l.lookup(itemID, warehouseID)
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.QuantityOnHand
}

// Adjust applies delta atomically and returns the new quantity. A delta that
// would drive the quantity negative fails with InsufficientStock, one that
// would overflow it with InvalidArgument. Either way the record is untouched.
func (l *Ledger) Adjust(itemID, warehouseID string, delta int, reason string) (int, error) {
	if delta == 0 {
		return 0, errs.NewInvalidArgument("adjustment delta must not be zero")
	}
	if warehouseID == "" {
		return 0, errs.NewInvalidArgument("warehouse id is required")
	}
	if _, err := l.items.Item(itemID); err != nil {
		return 0, err
	}

	var e *entry
	if delta > 0 {
		e = l.getOrCreate(itemID, warehouseID)
	} else if e = l.lookup(itemID, warehouseID); e == nil {
		return 0, &errs.Error{
			Kind:    errs.InsufficientStock,
			Entity:  "inventory",
			ID:      itemID + "@" + warehouseID,
			Message: fmt.Sprintf("requested %d, on hand 0", -delta),
		}
	}

	e.mu.Lock()
	current := e.rec.QuantityOnHand
	if delta > 0 && current > math.MaxInt-delta {
		e.mu.Unlock()
		return current, errs.New(errs.InvalidArgument, "inventory", itemID+"@"+warehouseID,
			"adding %d to %d on hand overflows the quantity", delta, current)
	}
	if current+delta < 0 {
		e.mu.Unlock()
		l.log.Debug("adjustment rejected",
			zap.String("item_id", itemID),
			zap.String("warehouse_id", warehouseID),
			zap.Int("on_hand", current),
			zap.Int("delta", delta))
		return current, &errs.Error{
			Kind:    errs.InsufficientStock,
			Entity:  "inventory",
			ID:      itemID + "@" + warehouseID,
			Message: fmt.Sprintf("requested %d, on hand %d", -delta, current),
		}
	}
	e.rec.QuantityOnHand = current + delta
	e.rec.LastUpdated = l.now()
	updated := e.rec.QuantityOnHand
	e.mu.Unlock()

	l.events.Publish(events.New(events.InventoryAdjusted, itemID, reason,
		fmt.Sprintf("%+d at %s, on hand %d", delta, warehouseID, updated)).
		With("warehouse_id", warehouseID))
	return updated, nil
}

// AssignBin records the bin a stocked record sits in.
func (l *Ledger) AssignBin(itemID, warehouseID, binID string) error {
	e := l.lookup(itemID, warehouseID)
	if e == nil {
		return errs.NewNotFound("inventory", itemID+"@"+warehouseID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rec.BinID = binID
	return nil
}

func (l *Ledger) entries() []*entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*entry, 0, len(l.records))
	for _, e := range l.records {
		out = append(out, e)
	}
	return out
}

func (l *Ledger) totalFor(itemID string) int {
	total := 0
	for _, e := range l.entries() {
		e.mu.Lock()
		if e.rec.ItemID == itemID {
			total += e.rec.QuantityOnHand
		}
		e.mu.Unlock()
	}
	return total
}

// NeedsReorder reports whether the item's stock across all warehouses is at
// or below its reorder point.
func (l *Ledger) NeedsReorder(itemID string) (bool, error) {
	it, err := l.items.Item(itemID)
	if err != nil {
		return false, err
	}
	return l.totalFor(itemID) <= it.ReorderPoint, nil
}

// ScanForReorderSignals evaluates every tracked item in id order and stamps
// each record as scanned.
func (l *Ledger) ScanForReorderSignals() []ReorderSignal {
	now := l.now()
	totals := make(map[string]int)
	for _, e := range l.entries() {
		e.mu.Lock()
		totals[e.rec.ItemID] += e.rec.QuantityOnHand
		e.rec.LastScanned = now
		e.mu.Unlock()
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var signals []ReorderSignal
	var evs []events.Event
	for _, id := range ids {
		it, err := l.items.Item(id)
		if err != nil {
			l.log.Warn("tracked item missing from catalog", zap.String("item_id", id))
			continue
		}
		if totals[id] > it.ReorderPoint {
			continue
		}
		signals = append(signals, ReorderSignal{
			ItemID:       id,
			ItemName:     it.Name,
			Observed:     totals[id],
			ReorderPoint: it.ReorderPoint,
		})
		evs = append(evs, events.New(events.InventoryLowStock, id, "LOW_STOCK",
			fmt.Sprintf("Stock level (%d) is at or below reorder point (%d)", totals[id], it.ReorderPoint)))
	}
	l.events.Publish(evs...)
	return signals
}

func (l *Ledger) Record(itemID, warehouseID string) (Record, error) {
	e := l.lookup(itemID, warehouseID)
	if e == nil {
		return Record{}, errs.NewNotFound("inventory", itemID+"@"+warehouseID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, nil
}

// Records returns a snapshot ordered by item then warehouse.
func (l *Ledger) Records() []Record {
	var out []Record
	for _, e := range l.entries() {
		e.mu.Lock()
		out = append(out, e.rec)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out
}
