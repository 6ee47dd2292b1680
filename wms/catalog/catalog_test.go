package catalog_test

import (
	"bytes"
	"fmt"
	"testing"

	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRegistryValidation(t *testing.T) {
	reg := catalog.NewRegistry()

	err := reg.AddSupplier(catalog.Supplier{ID: "SUP-09", Name: "Bad", Rating: 5.5})
	assert.True(t, errs.Is(err, errs.InvalidArgument))

	err = reg.AddItem(catalog.Item{ID: "ITEM-9", Name: "Broken", ReorderPoint: -1})
	assert.True(t, errs.Is(err, errs.InvalidArgument))

	err = reg.AddCarrier(catalog.Carrier{ID: "CR-X", Name: "Nowhere"})
	assert.True(t, errs.Is(err, errs.InvalidArgument))

	require.NoError(t, reg.AddItem(catalog.Item{ID: "ITEM-1", Name: "Laptop", UnitCost: decimal.NewFromInt(800)}))
	err = reg.AddItem(catalog.Item{ID: "ITEM-1", Name: "Laptop again"})
	assert.True(t, errs.Is(err, errs.InvalidArgument))

	_, err = reg.Item("ITEM-404")
	assert.True(t, errs.Is(err, errs.NotFound))
}

func TestCarrierServiceLevels(t *testing.T) {
	reg := catalog.NewRegistry()
	require.NoError(t, reg.AddCarrier(catalog.Carrier{
		ID:            "CR-UPS",
		Name:          "UPS",
		Code:          "UPS",
		ServiceLevels: map[string]decimal.Decimal{"ground": decimal.RequireFromString("8.50")},
	}))
	require.NoError(t, reg.AddServiceLevel("CR-UPS", "Express", decimal.RequireFromString("24.00")))

	c, err := reg.Carrier("CR-UPS")
	require.NoError(t, err)
	rate, ok := c.Rate("GROUND")
	require.True(t, ok)
	assert.Equal(t, "8.5", rate.String())
	_, ok = c.Rate("express")
	assert.True(t, ok)

	// snapshots are detached from the registry
	c.ServiceLevels["OVERNIGHT"] = decimal.NewFromInt(99)
	again, _ := reg.Carrier("CR-UPS")
	_, ok = again.Rate("OVERNIGHT")
	assert.False(t, ok)

	assert.True(t, errs.Is(reg.AddServiceLevel("CR-NONE", "GROUND", decimal.Zero), errs.NotFound))
}

func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r))
	}
}

func TestLoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	writeSheet(t, f, catalog.SuppliersSheet, [][]any{
		{"SUPPLIER_ID", "NAME", "EMAIL", "RATING", "ACTIVE", "MIN_ORDER_VALUE", "LEAD_TIME_DAYS"},
		{"sup-01", "TechDistro", "sales@techdistro.test", "4.5", "true", "100", "7"},
		{"SUP-02", "Bad Rating", "", "nine", "true", "", ""},
	})
	writeSheet(t, f, catalog.ItemsSheet, [][]any{
		{"ITEM_ID", "NAME", "CATEGORY", "REORDER_POINT", "REORDER_QTY", "UNIT_COST", "PREFERRED_SUPPLIER"},
		{"ITEM-001", "Laptop", "Electronics", "20", "50", "800.00", "SUP-01"},
		{"ITEM-002", "Mouse", "Electronics", "10", "100", "12.5", ""},
		{"ITEM-003", "Ghost", "Misc", "1", "1", "1", "SUP-99"},
		{"", "", "", "", "", "", ""},
	})
	writeSheet(t, f, catalog.CarriersSheet, [][]any{
		{"CARRIER_ID", "NAME", "CODE", "EMAIL", "SERVICE_LEVEL", "RATE"},
		{"CR-UPS", "UPS", "ups", "dispatch@ups.test", "GROUND", "8.50"},
		{"CR-UPS", "UPS", "ups", "dispatch@ups.test", "EXPRESS", "24"},
	})

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	reg := catalog.NewRegistry()
	require.NoError(t, reg.AddItem(catalog.Item{ID: "ITEM-002", Name: "Mouse", UnitCost: decimal.NewFromInt(12)}))

	result, err := catalog.LoadWorkbook(bytes.NewReader(buf.Bytes()), reg)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, []string{"ITEM-002"}, result.SkippedItems)
	assert.Equal(t, 2, result.ErrorCount)

	s, err := reg.Supplier("SUP-01")
	require.NoError(t, err)
	assert.Equal(t, 4.5, s.Rating)
	assert.Equal(t, 7, s.LeadTimeDays)

	it, err := reg.Item("ITEM-001")
	require.NoError(t, err)
	assert.True(t, it.UnitCost.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "SUP-01", it.PreferredSupplierID)

	c, err := reg.Carrier("CR-UPS")
	require.NoError(t, err)
	assert.Equal(t, "UPS", c.Code)
	assert.Len(t, c.ServiceLevels, 2)
}

func TestLoadWorkbookRejectsGarbage(t *testing.T) {
	_, err := catalog.LoadWorkbook(bytes.NewReader([]byte("not a workbook")), catalog.NewRegistry())
	assert.Error(t, err)
}
