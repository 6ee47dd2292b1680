package seed

import (
	"testing"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/services"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/fsm"
	"fulfillment-wms/wms/fulfillment"
	"fulfillment-wms/wms/inventory"
	"fulfillment-wms/wms/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunSeeders(t *testing.T) {
	log := zap.NewNop()
	ids := idgen.NewSequence()
	reg := catalog.NewRegistry()
	ledger := inventory.NewLedger(reg, nil, log)
	alloc := storage.NewAllocator(ids, storage.DefaultHeadroom, nil, log)
	engine := fulfillment.NewEngine(ledger, reg, ids, nil, log)

	deps := Deps{
		Registry:       reg,
		Allocator:      alloc,
		Putaway:        services.NewPutawayService(alloc, ledger, log),
		Fulfillment:    engine,
		WarehouseAddr:  "123 Supply Chain St",
		IncludeCatalog: true,
	}
	require.NoError(t, RunSeeders(deps, log))

	laptop, err := ledger.Record("ITEM-001", DemoWarehouse)
	require.NoError(t, err)
	assert.Equal(t, 30, laptop.QuantityOnHand)
	assert.Equal(t, "A1-01", laptop.BinID)

	mouse, err := ledger.Record("ITEM-002", DemoWarehouse)
	require.NoError(t, err)
	assert.Equal(t, 8, mouse.QuantityOnHand)
	assert.Equal(t, "A1-02", mouse.BinID)

	order, err := engine.Order("ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, fsm.OrderProcessing, order.Status)
	assert.True(t, order.Total().Equal(decimal.NewFromInt(1225)), order.Total().String())
	assert.Equal(t, []string{"PICKER-01", "PICKER-02"}, engine.AvailablePickers())

	// Mouse stock of 8 is below its reorder point of 10.
	signals := ledger.ScanForReorderSignals()
	require.Len(t, signals, 1)
	assert.Equal(t, "ITEM-002", signals[0].ItemID)

	// A second run leaves stock and orders alone.
	require.NoError(t, RunSeeders(deps, log))
	assert.Equal(t, 30, ledger.Quantity("ITEM-001", DemoWarehouse))
	assert.Len(t, engine.Orders(), 1)
}
