package seed

import (
	"fulfillment-wms/services"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/fulfillment"
	"fulfillment-wms/wms/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DemoWarehouse = "WH-1"

func SeedCatalog(reg *catalog.Registry) error {
	suppliers := []catalog.Supplier{
		{ID: "SUP-01", Name: "TechDistro", Email: "orders@techdistro.example", Rating: 4.5, Active: true, LeadTimeDays: 7},
	}
	for _, s := range suppliers {
		if _, err := reg.Supplier(s.ID); err == nil {
			continue
		}
		if err := reg.AddSupplier(s); err != nil {
			return err
		}
	}

	items := []catalog.Item{
		{ID: "ITEM-001", Name: "Laptop", Category: "Electronics", ReorderPoint: 20, ReorderQty: 50,
			UnitCost: decimal.RequireFromString("850.00"), PreferredSupplierID: "SUP-01"},
		{ID: "ITEM-002", Name: "Mouse", Category: "Accessories", ReorderPoint: 10, ReorderQty: 100,
			UnitCost: decimal.RequireFromString("12.50"), PreferredSupplierID: "SUP-01"},
	}
	for _, it := range items {
		if _, err := reg.Item(it.ID); err == nil {
			continue
		}
		if err := reg.AddItem(it); err != nil {
			return err
		}
	}

	if _, err := reg.Carrier("CR-UPS"); err != nil {
		return reg.AddCarrier(catalog.Carrier{
			ID:   "CR-UPS",
			Name: "UPS",
			Code: "UPS",
			ServiceLevels: map[string]decimal.Decimal{
				"GROUND": decimal.RequireFromString("8.50"),
			},
		})
	}
	return nil
}

// SeedWarehouse reports whether the warehouse was created by this call.
func SeedWarehouse(alloc *storage.Allocator, address string) (bool, error) {
	if _, err := alloc.Warehouse(DemoWarehouse); err == nil {
		return false, nil
	}
	if err := alloc.AddWarehouse(DemoWarehouse, "Main Warehouse", address, 10000); err != nil {
		return false, err
	}
	// A1-01 is sized to take exactly the laptop putaway so the mice land in A1-02.
	if err := alloc.AddBin(DemoWarehouse, "A1-01", 30); err != nil {
		return false, err
	}
	return true, alloc.AddBin(DemoWarehouse, "A1-02", 100)
}

func SeedStock(putaway *services.PutawayService) error {
	stock := []struct {
		item string
		qty  int
	}{
		{"ITEM-001", 30},
		{"ITEM-002", 8},
	}
	for _, s := range stock {
		if _, err := putaway.Store(s.item, DemoWarehouse, s.qty, "opening balance"); err != nil {
			return err
		}
	}
	return nil
}

func SeedOrders(engine *fulfillment.Engine) error {
	for _, picker := range []string{"PICKER-01", "PICKER-02"} {
		if err := engine.RegisterPicker(picker); err != nil {
			return err
		}
	}

	if _, err := engine.Order("ORD-1001"); err == nil {
		return nil
	}
	order, err := engine.SubmitOrder(fulfillment.OrderInput{
		ID:          "ORD-1001",
		CustomerID:  "CUST-001",
		WarehouseID: DemoWarehouse,
		Priority:    "NORMAL",
		Lines: []fulfillment.OrderLine{
			{ItemID: "ITEM-001", Quantity: 1, UnitPrice: decimal.RequireFromString("1200.00")},
			{ItemID: "ITEM-002", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00")},
		},
	})
	if err != nil {
		return err
	}
	_, err = engine.StartProcessing(order.ID)
	return err
}

type Deps struct {
	Registry       *catalog.Registry
	Allocator      *storage.Allocator
	Putaway        *services.PutawayService
	Fulfillment    *fulfillment.Engine
	WarehouseAddr  string
	IncludeCatalog bool
}

// RunSeeders loads the demo data set. The catalog part is skipped when the
// catalog came from a workbook.
func RunSeeders(d Deps, log *zap.Logger) error {
	if d.IncludeCatalog {
		if err := SeedCatalog(d.Registry); err != nil {
			return err
		}
	}
	created, err := SeedWarehouse(d.Allocator, d.WarehouseAddr)
	if err != nil {
		return err
	}
	if created {
		if err := SeedStock(d.Putaway); err != nil {
			if !errs.Is(err, errs.NotFound) {
				return err
			}
			log.Warn("demo items missing from catalog, skipping opening stock", zap.Error(err))
		}
	}
	if err := SeedOrders(d.Fulfillment); err != nil {
		if errs.Is(err, errs.NotFound) || errs.Is(err, errs.InvalidArgument) {
			log.Warn("demo order not seeded", zap.Error(err))
			return nil
		}
		return err
	}
	log.Info("demo data seeded", zap.String("warehouse_id", DemoWarehouse))
	return nil
}
