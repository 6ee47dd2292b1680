package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ItemsSheet     = "Items"
	SuppliersSheet = "Suppliers"
	CarriersSheet  = "Carriers"
)

var (
	ItemsHeader     = []string{"ITEM_ID", "NAME", "CATEGORY", "REORDER_POINT", "REORDER_QTY", "UNIT_COST", "PREFERRED_SUPPLIER"}
	SuppliersHeader = []string{"SUPPLIER_ID", "NAME", "EMAIL", "RATING", "ACTIVE", "MIN_ORDER_VALUE", "LEAD_TIME_DAYS"}
	CarriersHeader  = []string{"CARRIER_ID", "NAME", "CODE", "EMAIL", "SERVICE_LEVEL", "RATE"}
)

// ImportResult summarises a workbook import, one entry per rejected or skipped row.
type ImportResult struct {
	TotalRows     int      `json:"total_rows"`
	SuccessCount  int      `json:"success_count"`
	SkippedCount  int      `json:"skipped_count"`
	ErrorCount    int      `json:"error_count"`
	SkippedItems  []string `json:"skipped_items"`
	ErrorMessages []string `json:"error_messages"`
}

func (r *ImportResult) fail(sheet string, rowNum int, format string, args ...any) {
	r.ErrorCount++
	r.ErrorMessages = append(r.ErrorMessages, fmt.Sprintf("%s row %d: %s", sheet, rowNum, fmt.Sprintf(format, args...)))
}

func (r *ImportResult) skip(id string) {
	r.SkippedCount++
	r.SkippedItems = append(r.SkippedItems, id)
}

// LoadWorkbook reads the Items, Suppliers and Carriers sheets into reg.
// Row-level problems are collected in the result; only an unreadable
// workbook is returned as an error. Missing sheets are ignored.
func LoadWorkbook(r io.Reader, reg *Registry) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog workbook: %w", err)
	}
	defer f.Close()

	result := &ImportResult{SkippedItems: []string{}, ErrorMessages: []string{}}
	sheets := make(map[string]bool)
	for _, s := range f.GetSheetList() {
		sheets[s] = true
	}

	// suppliers first so item rows can reference them
	if sheets[SuppliersSheet] {
		rows, err := f.GetRows(SuppliersSheet)
		if err != nil {
			return nil, fmt.Errorf("read %s rows: %w", SuppliersSheet, err)
		}
		loadSuppliers(rows, reg, result)
	}
	if sheets[ItemsSheet] {
		rows, err := f.GetRows(ItemsSheet)
		if err != nil {
			return nil, fmt.Errorf("read %s rows: %w", ItemsSheet, err)
		}
		loadItems(rows, reg, result)
	}
	if sheets[CarriersSheet] {
		rows, err := f.GetRows(CarriersSheet)
		if err != nil {
			return nil, fmt.Errorf("read %s rows: %w", CarriersSheet, err)
		}
		loadCarriers(rows, reg, result)
	}
	return result, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func dataRows(rows [][]string) [][]string {
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

func loadSuppliers(rows [][]string, reg *Registry, result *ImportResult) {
	for i, row := range dataRows(rows) {
		rowNum := i + 2
		id := strings.ToUpper(cell(row, 0))
		if id == "" {
			continue
		}
		result.TotalRows++

		rating, err := strconv.ParseFloat(cell(row, 3), 64)
		if err != nil {
			result.fail(SuppliersSheet, rowNum, "invalid rating %q", cell(row, 3))
			continue
		}
		active := true
		if v := cell(row, 4); v != "" {
			if active, err = strconv.ParseBool(v); err != nil {
				result.fail(SuppliersSheet, rowNum, "invalid active flag %q", v)
				continue
			}
		}
		minOrder := decimal.Zero
		if v := cell(row, 5); v != "" {
			if minOrder, err = decimal.NewFromString(v); err != nil {
				result.fail(SuppliersSheet, rowNum, "invalid minimum order value %q", v)
				continue
			}
		}
		lead := 0
		if v := cell(row, 6); v != "" {
			if lead, err = strconv.Atoi(v); err != nil {
				result.fail(SuppliersSheet, rowNum, "invalid lead time %q", v)
				continue
			}
		}

		s := Supplier{
			ID:            id,
			Name:          cell(row, 1),
			Email:         cell(row, 2),
			Rating:        rating,
			Active:        active,
			MinOrderValue: minOrder,
			LeadTimeDays:  lead,
		}
		if _, err := reg.Supplier(id); err == nil {
			result.skip(id)
			continue
		}
		if err := reg.AddSupplier(s); err != nil {
			result.fail(SuppliersSheet, rowNum, "%s", err.Error())
			continue
		}
		result.SuccessCount++
	}
}

func loadItems(rows [][]string, reg *Registry, result *ImportResult) {
	for i, row := range dataRows(rows) {
		rowNum := i + 2
		id := strings.ToUpper(cell(row, 0))
		if id == "" {
			continue
		}
		result.TotalRows++

		reorderPoint, err := strconv.Atoi(cell(row, 3))
		if err != nil {
			result.fail(ItemsSheet, rowNum, "invalid reorder point %q", cell(row, 3))
			continue
		}
		reorderQty, err := strconv.Atoi(cell(row, 4))
		if err != nil {
			result.fail(ItemsSheet, rowNum, "invalid reorder quantity %q", cell(row, 4))
			continue
		}
		unitCost, err := decimal.NewFromString(cell(row, 5))
		if err != nil {
			result.fail(ItemsSheet, rowNum, "invalid unit cost %q", cell(row, 5))
			continue
		}
		preferred := strings.ToUpper(cell(row, 6))
		if preferred != "" {
			if _, err := reg.Supplier(preferred); err != nil {
				result.fail(ItemsSheet, rowNum, "supplier '%s' not found", preferred)
				continue
			}
		}

		if _, err := reg.Item(id); err == nil {
			result.skip(id)
			continue
		}
		it := Item{
			ID:                  id,
			Name:                cell(row, 1),
			Category:            cell(row, 2),
			ReorderPoint:        reorderPoint,
			ReorderQty:          reorderQty,
			UnitCost:            unitCost,
			PreferredSupplierID: preferred,
		}
		if err := reg.AddItem(it); err != nil {
			result.fail(ItemsSheet, rowNum, "%s", err.Error())
			continue
		}
		result.SuccessCount++
	}
}

// loadCarriers groups rows by carrier id; each row contributes one service level.
func loadCarriers(rows [][]string, reg *Registry, result *ImportResult) {
	type pending struct {
		carrier Carrier
		rowNum  int
	}
	var order []string
	byID := make(map[string]*pending)

	for i, row := range dataRows(rows) {
		rowNum := i + 2
		id := strings.ToUpper(cell(row, 0))
		if id == "" {
			continue
		}
		level := strings.ToUpper(cell(row, 4))
		rate, err := decimal.NewFromString(cell(row, 5))
		if level == "" || err != nil {
			result.TotalRows++
			result.fail(CarriersSheet, rowNum, "service level and numeric rate are required")
			continue
		}

		p, ok := byID[id]
		if !ok {
			result.TotalRows++
			p = &pending{
				carrier: Carrier{
					ID:            id,
					Name:          cell(row, 1),
					Code:          strings.ToUpper(cell(row, 2)),
					Email:         cell(row, 3),
					ServiceLevels: map[string]decimal.Decimal{},
				},
				rowNum: rowNum,
			}
			byID[id] = p
			order = append(order, id)
		}
		p.carrier.ServiceLevels[level] = rate
	}

	for _, id := range order {
		p := byID[id]
		if _, err := reg.Carrier(id); err == nil {
			result.skip(id)
			continue
		}
		if err := reg.AddCarrier(p.carrier); err != nil {
			result.fail(CarriersSheet, p.rowNum, "%s", err.Error())
			continue
		}
		result.SuccessCount++
	}
}
