package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/fsm"
	"fulfillment-wms/wms/fulfillment"

	"go.uber.org/zap"
)

type Manifest struct {
	ID                 string                 `json:"id"`
	CarrierID          string                 `json:"carrier_id"`
	CarrierName        string                 `json:"carrier_name"`
	Shipments          []fulfillment.Shipment `json:"shipments"`
	PackageIDs         []string               `json:"package_ids"`
	OrderIDs           []string               `json:"order_ids"`
	Status             fsm.ManifestStatus     `json:"status"`
	Signature          string                 `json:"signature,omitempty"`
	ConfirmationNumber string                 `json:"confirmation_number,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	HandedOverAt       time.Time              `json:"handed_over_at,omitempty"`
}

func (m Manifest) clone() Manifest {
	m.Shipments = append([]fulfillment.Shipment(nil), m.Shipments...)
	m.PackageIDs = append([]string(nil), m.PackageIDs...)
	m.OrderIDs = append([]string(nil), m.OrderIDs...)
	return m
}

// Packages is the fulfillment side the coordinator reads from and reports
// handovers to.
type Packages interface {
	ReadyPackages(carrierID string) []fulfillment.Shipment
	MarkHandedOver(packageIDs ...string) error
}

type CarrierLookup interface {
	Carrier(id string) (catalog.Carrier, error)
}

// Coordinator batches labeled packages into carrier manifests. Its lock is
// taken before the fulfillment engine's, never after.
type Coordinator struct {
	mu        sync.Mutex
	manifests map[string]*Manifest
	seq       []string
	claimed   map[string]string // package id -> manifest id

	packages Packages
	carriers CarrierLookup
	ids      idgen.Generator
	events   events.Publisher
	log      *zap.Logger
	now      func() time.Time
}

func NewCoordinator(packages Packages, carriers CarrierLookup, ids idgen.Generator, pub events.Publisher, log *zap.Logger) *Coordinator {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Coordinator{
		manifests: make(map[string]*Manifest),
		claimed:   make(map[string]string),
		packages:  packages,
		carriers:  carriers,
		ids:       ids,
		events:    pub,
		log:       log,
		now:       time.Now,
	}
}

func (c *Coordinator) publish(evs []events.Event) {
	if len(evs) > 0 {
		c.events.Publish(evs...)
	}
}

// CreateManifest claims every ready, unclaimed package labeled for the carrier.
func (c *Coordinator) CreateManifest(carrierID string) (*Manifest, error) {
	carrier, err := c.carriers.Carrier(carrierID)
	if err != nil {
		return nil, err
	}

	var out []events.Event
	defer func() { c.publish(out) }()
	c.mu.Lock()
	defer c.mu.Unlock()

	var shipments []fulfillment.Shipment
	for _, s := range c.packages.ReadyPackages(carrier.ID) {
		if _, taken := c.claimed[s.PackageID]; !taken {
			shipments = append(shipments, s)
		}
	}
	if len(shipments) == 0 {
		return nil, errs.New(errs.NoPackagesReady, "carrier", carrier.ID, "no labeled packages waiting for pickup")
	}

	m := &Manifest{
		ID:          c.ids.NewID("MAN"),
		CarrierID:   carrier.ID,
		CarrierName: carrier.Name,
		Shipments:   shipments,
		Status:      fsm.ManifestCreated,
		CreatedAt:   c.now(),
	}
	seenOrder := make(map[string]bool)
	for _, s := range shipments {
		m.PackageIDs = append(m.PackageIDs, s.PackageID)
		c.claimed[s.PackageID] = m.ID
		if !seenOrder[s.OrderID] {
			seenOrder[s.OrderID] = true
			m.OrderIDs = append(m.OrderIDs, s.OrderID)
		}
	}
	c.manifests[m.ID] = m
	c.seq = append(c.seq, m.ID)

	out = append(out, events.New(events.ManifestCreated, m.ID, string(m.Status),
		fmt.Sprintf("%d packages for %s", len(m.PackageIDs), carrier.Name)).
		With("carrier_id", carrier.ID).
		With("packages", strconv.Itoa(len(m.PackageIDs))).
		With("orders", strings.Join(m.OrderIDs, ",")))
	cp := m.clone()
	return &cp, nil
}

// RecordPickup completes the courier handover of every package on the
// manifest. Orders whose last package leaves with it become DISPATCHED.
func (c *Coordinator) RecordPickup(manifestID, signature, confirmationNumber string) (*Manifest, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, errs.NewInvalidArgument("courier signature is required")
	}

	var out []events.Event
	defer func() { c.publish(out) }()
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.manifests[manifestID]
	if !ok {
		return nil, errs.NewNotFound("manifest", manifestID)
	}
	if m.Status == fsm.ManifestHandedOver {
		return nil, &errs.Error{
			Kind:    errs.AlreadyHandedOver,
			Entity:  "manifest",
			ID:      m.ID,
			State:   string(m.Status),
			Message: "pickup already recorded",
		}
	}
	if err := fsm.Manifest.Check(m.ID, m.Status, fsm.ManifestHandedOver); err != nil {
		return nil, err
	}

	m.Status = fsm.ManifestHandedOver
	m.Signature = signature
	m.ConfirmationNumber = confirmationNumber
	m.HandedOverAt = c.now()
	if err := c.packages.MarkHandedOver(m.PackageIDs...); err != nil {
		c.log.Error("recording package handover",
			zap.String("manifest_id", m.ID),
			zap.Strings("package_ids", m.PackageIDs),
			zap.Error(err))
	}

	out = append(out, events.New(events.ManifestHandedOver, m.ID, string(m.Status),
		fmt.Sprintf("signed by %s, confirmation %s", signature, confirmationNumber)).
		By(signature).
		With("carrier_id", m.CarrierID).
		With("orders", strings.Join(m.OrderIDs, ",")))
	cp := m.clone()
	return &cp, nil
}

func (c *Coordinator) Manifest(id string) (*Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.manifests[id]
	if !ok {
		return nil, errs.NewNotFound("manifest", id)
	}
	cp := m.clone()
	return &cp, nil
}

func (c *Coordinator) Manifests() []Manifest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Manifest, 0, len(c.seq))
	for _, id := range c.seq {
		out = append(out, c.manifests[id].clone())
	}
	return out
}
