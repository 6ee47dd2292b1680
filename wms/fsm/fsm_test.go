package fsm_test

import (
	"testing"

	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/fsm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderChainIsStrictlyForward(t *testing.T) {
	chain := []fsm.OrderStatus{
		fsm.OrderPending, fsm.OrderProcessing, fsm.OrderPicking, fsm.OrderPacking,
		fsm.OrderPacked, fsm.OrderLabeled, fsm.OrderDispatched,
	}

	for i, from := range chain {
		for j, to := range chain {
			err := fsm.Order.Check("ORD-1", from, to)
			if j == i+1 {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			require.Error(t, err, "%s -> %s", from, to)
			assert.True(t, errs.Is(err, errs.InvalidTransition))
		}
		assert.Equal(t, i, fsm.OrderRank(from))
	}
	assert.True(t, fsm.Order.Terminal(fsm.OrderDispatched))
}

func TestRequisitionDecisionIsTerminal(t *testing.T) {
	assert.True(t, fsm.Requisition.Allowed(fsm.RequisitionPending, fsm.RequisitionApproved))
	assert.True(t, fsm.Requisition.Allowed(fsm.RequisitionPending, fsm.RequisitionRejected))
	assert.False(t, fsm.Requisition.Allowed(fsm.RequisitionApproved, fsm.RequisitionRejected))
	assert.True(t, fsm.Requisition.Terminal(fsm.RequisitionRejected))
}

func TestCheckCarriesStates(t *testing.T) {
	err := fsm.Package.Check("PKG-1", fsm.PackagePacking, fsm.PackageLabeled)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "package", e.Entity)
	assert.Equal(t, "PKG-1", e.ID)
	assert.Equal(t, "PACKING", e.State)
}
