// Package fsm holds the lifecycle tables for every stateful entity so that
// transition rules live in one place.
package fsm

import "fulfillment-wms/wms/errs"

type Table[S ~string] struct {
	entity string
	next   map[S][]S
}

func NewTable[S ~string](entity string, edges map[S][]S) *Table[S] {
	return &Table[S]{entity: entity, next: edges}
}

func (t *Table[S]) Allowed(from, to S) bool {
	for _, s := range t.next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns an InvalidTransition error naming the entity when from → to is not an edge.
func (t *Table[S]) Check(id string, from, to S) error {
	if t.Allowed(from, to) {
		return nil
	}
	return errs.NewTransition(t.entity, id, string(from), string(to))
}

func (t *Table[S]) Terminal(s S) bool {
	return len(t.next[s]) == 0
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderPicking    OrderStatus = "PICKING"
	OrderPacking    OrderStatus = "PACKING"
	OrderPacked     OrderStatus = "PACKED"
	OrderLabeled    OrderStatus = "LABELED"
	OrderDispatched OrderStatus = "DISPATCHED"
)

// Orders only move forward, one step at a time.
var Order = NewTable("order", map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing},
	OrderProcessing: {OrderPicking},
	OrderPicking:    {OrderPacking},
	OrderPacking:    {OrderPacked},
	OrderPacked:     {OrderLabeled},
	OrderLabeled:    {OrderDispatched},
})

// OrderRank gives the position of a status in the forward chain.
func OrderRank(s OrderStatus) int {
	switch s {
	case OrderPending:
		return 0
	case OrderProcessing:
		return 1
	case OrderPicking:
		return 2
	case OrderPacking:
		return 3
	case OrderPacked:
		return 4
	case OrderLabeled:
		return 5
	case OrderDispatched:
		return 6
	}
	return -1
}

type PickListStatus string

const (
	PickListPending   PickListStatus = "PENDING"
	PickListAssigned  PickListStatus = "ASSIGNED"
	PickListCompleted PickListStatus = "COMPLETED"
)

var PickList = NewTable("pick list", map[PickListStatus][]PickListStatus{
	PickListPending:  {PickListAssigned},
	PickListAssigned: {PickListCompleted},
})

type PackageStatus string

const (
	PackagePacking  PackageStatus = "PACKING"
	PackageVerified PackageStatus = "VERIFIED"
	PackageLabeled  PackageStatus = "LABELED"
)

var Package = NewTable("package", map[PackageStatus][]PackageStatus{
	PackagePacking:  {PackageVerified},
	PackageVerified: {PackageLabeled},
})

type RequisitionStatus string

const (
	RequisitionPending  RequisitionStatus = "PENDING"
	RequisitionApproved RequisitionStatus = "APPROVED"
	RequisitionRejected RequisitionStatus = "REJECTED"
)

var Requisition = NewTable("requisition", map[RequisitionStatus][]RequisitionStatus{
	RequisitionPending: {RequisitionApproved, RequisitionRejected},
})

type ManifestStatus string

const (
	ManifestCreated    ManifestStatus = "CREATED"
	ManifestHandedOver ManifestStatus = "HANDED_OVER"
)

var Manifest = NewTable("manifest", map[ManifestStatus][]ManifestStatus{
	ManifestCreated: {ManifestHandedOver},
})
