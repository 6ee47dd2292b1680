package procurement_test

import (
	"sync"
	"testing"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/fsm"
	"fulfillment-wms/wms/procurement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(t *testing.T, suppliers ...catalog.Supplier) (*procurement.Engine, *events.Recorder) {
	t.Helper()
	reg := catalog.NewRegistry()
	require.NoError(t, reg.AddItem(catalog.Item{
		ID: "ITEM-002", Name: "Mouse", Category: "Electronics",
		ReorderPoint: 10, ReorderQty: 100, UnitCost: decimal.RequireFromString("12.35"),
	}))
	for _, s := range suppliers {
		require.NoError(t, reg.AddSupplier(s))
	}
	rec := &events.Recorder{}
	return procurement.NewEngine(reg, idgen.NewSequence(), rec, zap.NewNop()), rec
}

func techDistro() catalog.Supplier {
	return catalog.Supplier{ID: "SUP-01", Name: "TechDistro", Rating: 4.5, Active: true, MinOrderValue: decimal.NewFromInt(500), LeadTimeDays: 7}
}

func TestReorderScenario(t *testing.T) {
	e, rec := newEngine(t, techDistro())

	req, err := e.CreateRequisition("ITEM-002", 8, "stock-monitor")
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, fsm.RequisitionPending, req.Status)
	assert.Equal(t, 100, req.Quantity)
	assert.Equal(t, "Stock level (8) is at or below reorder point (10)", req.Justification)

	approved, err := e.Approve(req.ID, "procurement-manager")
	require.NoError(t, err)
	assert.Equal(t, fsm.RequisitionApproved, approved.Status)
	assert.Equal(t, "SUP-01", approved.SupplierID)

	po, err := e.GeneratePurchaseOrder(req.ID, "123 Supply Chain St")
	require.NoError(t, err)
	require.Len(t, po.Lines, 1)
	assert.Equal(t, 100, po.Lines[0].Quantity)
	assert.Equal(t, "1235.00", po.TotalAmount.StringFixed(2))
	assert.Equal(t, "TechDistro", po.SupplierName)
	assert.True(t, po.ExpectedDelivery.Equal(po.OrderDate.AddDate(0, 0, 7)))

	sum := decimal.Zero
	for _, l := range po.Lines {
		sum = sum.Add(l.LineTotal)
	}
	assert.True(t, sum.Equal(po.TotalAmount))

	_, err = e.GeneratePurchaseOrder(req.ID, "123 Supply Chain St")
	assert.True(t, errs.Is(err, errs.AlreadyFulfilled))

	assert.Len(t, rec.OfType(events.PurchaseOrderCreated), 1)
}

func TestCreateRequisitionAboveReorderPointIsNoop(t *testing.T) {
	e, _ := newEngine(t, techDistro())

	req, err := e.CreateRequisition("ITEM-002", 11, "stock-monitor")
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Empty(t, e.Requisitions())

	_, err = e.CreateRequisition("ITEM-404", 0, "stock-monitor")
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestCreateRequisitionIsIdempotentWhilePending(t *testing.T) {
	e, _ := newEngine(t, techDistro())

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]bool)
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := e.CreateRequisition("ITEM-002", 3, "stock-monitor")
			if assert.NoError(t, err) {
				mu.Lock()
				ids[req.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Len(t, e.PendingRequisitions(), 1)

	// once decided a new requisition may be opened
	first := e.PendingRequisitions()[0]
	_, err := e.Reject(first.ID, "budget freeze")
	require.NoError(t, err)
	next, err := e.CreateRequisition("ITEM-002", 3, "stock-monitor")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
}

func TestApproveWithoutEligibleSupplierStaysPending(t *testing.T) {
	inactive := techDistro()
	inactive.Active = false
	expensive := catalog.Supplier{ID: "SUP-02", Name: "BulkOnly", Rating: 5, Active: true, MinOrderValue: decimal.NewFromInt(5000)}
	e, _ := newEngine(t, inactive, expensive)

	req, err := e.CreateRequisition("ITEM-002", 0, "clerk")
	require.NoError(t, err)

	_, err = e.Approve(req.ID, "manager")
	assert.True(t, errs.Is(err, errs.NoEligibleSupplier))

	got, err := e.Requisition(req.ID)
	require.NoError(t, err)
	assert.Equal(t, fsm.RequisitionPending, got.Status)
	assert.Empty(t, got.SupplierID)

	_, err = e.GeneratePurchaseOrder(req.ID, "dock")
	assert.True(t, errs.Is(err, errs.RequisitionNotApproved))
}

func TestDecisionsAreFinal(t *testing.T) {
	e, _ := newEngine(t, techDistro())
	req, err := e.CreateRequisition("ITEM-002", 5, "clerk")
	require.NoError(t, err)

	rejected, err := e.Reject(req.ID, "duplicate stock in transit")
	require.NoError(t, err)
	assert.Equal(t, fsm.RequisitionRejected, rejected.Status)

	_, err = e.Approve(req.ID, "manager")
	assert.True(t, errs.Is(err, errs.AlreadyDecided))
	_, err = e.Reject(req.ID, "again")
	assert.True(t, errs.Is(err, errs.AlreadyDecided))
	_, err = e.Approve("REQ-404", "manager")
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestSelectSupplierTieBreaks(t *testing.T) {
	value := decimal.NewFromInt(1000)
	suppliers := []catalog.Supplier{
		{ID: "SUP-C", Rating: 4.5, Active: true, LeadTimeDays: 5},
		{ID: "SUP-B", Rating: 4.5, Active: true, LeadTimeDays: 3},
		{ID: "SUP-A", Rating: 4.5, Active: true, LeadTimeDays: 3},
		{ID: "SUP-D", Rating: 4.9, Active: false},
		{ID: "SUP-E", Rating: 4.8, Active: true, MinOrderValue: decimal.NewFromInt(2000)},
	}

	best, ok := procurement.SelectSupplier(suppliers, value)
	require.True(t, ok)
	assert.Equal(t, "SUP-A", best.ID)

	_, ok = procurement.SelectSupplier(nil, value)
	assert.False(t, ok)
}
