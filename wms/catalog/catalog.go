package catalog

import (
	"sort"
	"strings"
	"sync"

	"fulfillment-wms/wms/errs"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	ReorderPoint        int             `json:"reorder_point"`
	ReorderQty          int             `json:"reorder_qty"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	PreferredSupplierID string          `json:"preferred_supplier_id,omitempty"`
}

type Supplier struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Rating        float64         `json:"rating"`
	Active        bool            `json:"active"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	LeadTimeDays  int             `json:"lead_time_days"`
}

type Carrier struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Code          string                     `json:"code"`
	Email         string                     `json:"email,omitempty"`
	ServiceLevels map[string]decimal.Decimal `json:"service_levels"`
}

// Rate returns the price of a service level, matched case-insensitively.
func (c Carrier) Rate(level string) (decimal.Decimal, bool) {
	rate, ok := c.ServiceLevels[strings.ToUpper(level)]
	return rate, ok
}

func (c Carrier) clone() Carrier {
	levels := make(map[string]decimal.Decimal, len(c.ServiceLevels))
	for k, v := range c.ServiceLevels {
		levels[k] = v
	}
	c.ServiceLevels = levels
	return c
}

// Registry holds items, suppliers and carriers. It is loaded at startup and
// read concurrently afterwards.
type Registry struct {
	mu        sync.RWMutex
	items     map[string]Item
	suppliers map[string]Supplier
	carriers  map[string]Carrier
}

func NewRegistry() *Registry {
	return &Registry{
		items:     make(map[string]Item),
		suppliers: make(map[string]Supplier),
		carriers:  make(map[string]Carrier),
	}
}

func (r *Registry) AddItem(it Item) error {
	it.ID = strings.TrimSpace(it.ID)
	if it.ID == "" || strings.TrimSpace(it.Name) == "" {
		return errs.NewInvalidArgument("item id and name are required")
	}
	if it.ReorderPoint < 0 || it.ReorderQty < 0 {
		return errs.NewInvalidArgument("item %s: reorder point and quantity must not be negative", it.ID)
	}
	if it.UnitCost.IsNegative() {
		return errs.NewInvalidArgument("item %s: unit cost must not be negative", it.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; ok {
		return errs.New(errs.InvalidArgument, "item", it.ID, "already registered")
	}
	r.items[it.ID] = it
	return nil
}

func (r *Registry) AddSupplier(s Supplier) error {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" || strings.TrimSpace(s.Name) == "" {
		return errs.NewInvalidArgument("supplier id and name are required")
	}
	if s.Rating < 0 || s.Rating > 5 {
		return errs.NewInvalidArgument("supplier %s: rating %.2f outside [0,5]", s.ID, s.Rating)
	}
	if s.MinOrderValue.IsNegative() || s.LeadTimeDays < 0 {
		return errs.NewInvalidArgument("supplier %s: minimum order value and lead time must not be negative", s.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[s.ID]; ok {
		return errs.New(errs.InvalidArgument, "supplier", s.ID, "already registered")
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *Registry) AddCarrier(c Carrier) error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" || strings.TrimSpace(c.Name) == "" {
		return errs.NewInvalidArgument("carrier id and name are required")
	}
	if len(c.ServiceLevels) == 0 {
		return errs.NewInvalidArgument("carrier %s: at least one service level is required", c.ID)
	}
	levels := make(map[string]decimal.Decimal, len(c.ServiceLevels))
	for name, rate := range c.ServiceLevels {
		if rate.IsNegative() {
			return errs.NewInvalidArgument("carrier %s: rate for %s must not be negative", c.ID, name)
		}
		levels[strings.ToUpper(strings.TrimSpace(name))] = rate
	}
	c.ServiceLevels = levels

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carriers[c.ID]; ok {
		return errs.New(errs.InvalidArgument, "carrier", c.ID, "already registered")
	}
	r.carriers[c.ID] = c
	return nil
}

// AddServiceLevel adds or reprices a service level of a registered carrier.
func (r *Registry) AddServiceLevel(carrierID, level string, rate decimal.Decimal) error {
	if rate.IsNegative() || strings.TrimSpace(level) == "" {
		return errs.NewInvalidArgument("service level name required and rate must not be negative")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carriers[carrierID]
	if !ok {
		return errs.NewNotFound("carrier", carrierID)
	}
	c = c.clone()
	c.ServiceLevels[strings.ToUpper(strings.TrimSpace(level))] = rate
	r.carriers[carrierID] = c
	return nil
}

func (r *Registry) Item(id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, errs.NewNotFound("item", id)
	}
	return it, nil
}

func (r *Registry) Supplier(id string) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, errs.NewNotFound("supplier", id)
	}
	return s, nil
}

func (r *Registry) Carrier(id string) (Carrier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carriers[id]
	if !ok {
		return Carrier{}, errs.NewNotFound("carrier", id)
	}
	return c.clone(), nil
}

func (r *Registry) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Suppliers() []Supplier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Carriers() []Carrier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Carrier, 0, len(r.carriers))
	for _, c := range r.carriers {
		out = append(out, c.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
