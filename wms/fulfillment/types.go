package fulfillment

import (
	"time"

	"fulfillment-wms/wms/fsm"

	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ItemID    string          `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	WarehouseID string          `json:"warehouse_id"`
	Priority    string          `json:"priority"`
	Lines       []OrderLine     `json:"lines"`
	Status      fsm.OrderStatus `json:"status"`
	PickListID  string          `json:"pick_list_id,omitempty"`
	PackageIDs  []string        `json:"package_ids"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (o Order) clone() Order {
	o.Lines = append([]OrderLine(nil), o.Lines...)
	o.PackageIDs = append([]string{}, o.PackageIDs...)
	return o
}

// OrderInput is what order intake supplies. ID is optional.
type OrderInput struct {
	ID          string
	CustomerID  string
	WarehouseID string
	Priority    string
	Lines       []OrderLine
}

type PickLine struct {
	ItemID    string `json:"item_id"`
	Requested int    `json:"requested"`
	Picked    int    `json:"picked"`
	Notes     string `json:"notes,omitempty"`
}

func (l PickLine) Remaining() int {
	return l.Requested - l.Picked
}

type PickList struct {
	ID             string             `json:"id"`
	OrderID        string             `json:"order_id"`
	WarehouseID    string             `json:"warehouse_id"`
	Lines          []PickLine         `json:"lines"`
	Status         fsm.PickListStatus `json:"status"`
	AssignedPicker string             `json:"assigned_picker,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	AssignedAt     time.Time          `json:"assigned_at,omitempty"`
	CompletedAt    time.Time          `json:"completed_at,omitempty"`
}

func (p PickList) fullyPicked() bool {
	for _, l := range p.Lines {
		if l.Remaining() > 0 {
			return false
		}
	}
	return true
}

func (p PickList) clone() PickList {
	p.Lines = append([]PickLine(nil), p.Lines...)
	return p
}

type Package struct {
	ID          string            `json:"id"`
	OrderID     string            `json:"order_id"`
	PickListID  string            `json:"pick_list_id"`
	Type        string            `json:"type"`
	Status      fsm.PackageStatus `json:"status"`
	VerifyNotes string            `json:"verify_notes,omitempty"`
	LabelID     string            `json:"label_id,omitempty"`
	HandedOver  bool              `json:"handed_over"`
	CreatedAt   time.Time         `json:"created_at"`
}

type Label struct {
	ID             string          `json:"id"`
	PackageID      string          `json:"package_id"`
	OrderID        string          `json:"order_id"`
	CarrierID      string          `json:"carrier_id"`
	ServiceLevel   string          `json:"service_level"`
	TrackingNumber string          `json:"tracking_number"`
	Rate           decimal.Decimal `json:"rate"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Shipment is a labeled package ready to be handed to its carrier.
type Shipment struct {
	PackageID      string          `json:"package_id"`
	OrderID        string          `json:"order_id"`
	LabelID        string          `json:"label_id"`
	TrackingNumber string          `json:"tracking_number"`
	ServiceLevel   string          `json:"service_level"`
	Rate           decimal.Decimal `json:"rate"`
}
