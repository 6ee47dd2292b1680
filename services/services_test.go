package services_test

import (
	"testing"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/services"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/inventory"
	"fulfillment-wms/wms/procurement"
	"fulfillment-wms/wms/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg := catalog.NewRegistry()
	require.NoError(t, reg.AddSupplier(catalog.Supplier{ID: "SUP-01", Name: "TechDistro", Rating: 4.5, Active: true, LeadTimeDays: 7}))
	require.NoError(t, reg.AddItem(catalog.Item{ID: "ITEM-001", Name: "Laptop", ReorderPoint: 20, ReorderQty: 50, UnitCost: decimal.NewFromInt(800)}))
	require.NoError(t, reg.AddItem(catalog.Item{ID: "ITEM-002", Name: "Mouse", ReorderPoint: 10, ReorderQty: 100, UnitCost: decimal.NewFromInt(12)}))
	return reg
}

func TestPutawayStoresAndAssignsBin(t *testing.T) {
	reg := newRegistry(t)
	alloc := storage.NewAllocator(idgen.NewSequence(), storage.DefaultHeadroom, nil, zap.NewNop())
	require.NoError(t, alloc.AddWarehouse("WH-1", "Main", "123 Supply Chain St", 100))
	ledger := inventory.NewLedger(reg, nil, zap.NewNop())
	svc := services.NewPutawayService(alloc, ledger, zap.NewNop())

	res, err := svc.Store("ITEM-001", "WH-1", 30, "PO-0001")
	require.NoError(t, err)
	assert.Equal(t, 30, res.QuantityOnHand)

	rec, err := ledger.Record("ITEM-001", "WH-1")
	require.NoError(t, err)
	assert.Equal(t, res.BinID, rec.BinID)

	_, err = svc.Store("ITEM-002", "WH-1", 71, "")
	assert.True(t, errs.Is(err, errs.NoSpace))
	assert.Equal(t, 0, ledger.Quantity("ITEM-002", "WH-1"))
}

func TestPutawayReleasesSpaceOnLedgerFailure(t *testing.T) {
	reg := newRegistry(t)
	alloc := storage.NewAllocator(idgen.NewSequence(), storage.DefaultHeadroom, nil, zap.NewNop())
	require.NoError(t, alloc.AddWarehouse("WH-1", "Main", "", 100))
	ledger := inventory.NewLedger(reg, nil, zap.NewNop())
	svc := services.NewPutawayService(alloc, ledger, zap.NewNop())

	_, err := svc.Store("ITEM-404", "WH-1", 10, "")
	assert.True(t, errs.Is(err, errs.NotFound))

	w, err := alloc.Warehouse("WH-1")
	require.NoError(t, err)
	assert.Equal(t, 0, w.UsedCapacity)
}

func TestReplenishmentRun(t *testing.T) {
	reg := newRegistry(t)
	ledger := inventory.NewLedger(reg, nil, zap.NewNop())
	_, err := ledger.Adjust("ITEM-001", "WH-1", 30, "seed")
	require.NoError(t, err)
	_, err = ledger.Adjust("ITEM-002", "WH-1", 8, "seed")
	require.NoError(t, err)
	proc := procurement.NewEngine(reg, idgen.NewSequence(), nil, zap.NewNop())
	svc := services.NewReplenishmentService(ledger, proc, "", zap.NewNop())

	run := svc.Run()
	require.Len(t, run.Requisitions, 1)
	assert.Equal(t, "ITEM-002", run.Requisitions[0].ItemID)
	assert.Equal(t, "stock-monitor", run.Requisitions[0].RequestedBy)
	assert.Empty(t, run.Errors)

	again := svc.Run()
	require.Len(t, again.Requisitions, 1)
	assert.Equal(t, run.Requisitions[0].ID, again.Requisitions[0].ID, "pending requisition is reused")
	assert.Len(t, proc.Requisitions(), 1)
}
