package services

import (
	"fmt"

	"fulfillment-wms/wms/errs"

	"go.uber.org/zap"
)

type SpaceReserver interface {
	Reserve(warehouseID string, units int) (string, error)
	Release(binID string, units int) error
}

type StockLedger interface {
	Adjust(itemID, warehouseID string, delta int, reason string) (int, error)
	AssignBin(itemID, warehouseID, binID string) error
}

type PutawayResult struct {
	ItemID         string `json:"item_id"`
	WarehouseID    string `json:"warehouse_id"`
	BinID          string `json:"bin_id"`
	Quantity       int    `json:"quantity"`
	QuantityOnHand int    `json:"quantity_on_hand"`
}

// PutawayService receives goods: space is reserved first, then stock is
// booked. A failed booking gives the space back.
type PutawayService struct {
	space  SpaceReserver
	ledger StockLedger
	log    *zap.Logger
}

func NewPutawayService(space SpaceReserver, ledger StockLedger, log *zap.Logger) *PutawayService {
	return &PutawayService{space: space, ledger: ledger, log: log}
}

func (s *PutawayService) Store(itemID, warehouseID string, qty int, reference string) (*PutawayResult, error) {
	if qty <= 0 {
		return nil, errs.NewInvalidArgument("quantity must be positive, got %d", qty)
	}

	binID, err := s.space.Reserve(warehouseID, qty)
	if err != nil {
		return nil, err
	}

	reason := "putaway"
	if reference != "" {
		reason = "putaway " + reference
	}
	onHand, err := s.ledger.Adjust(itemID, warehouseID, qty, reason)
	if err != nil {
		if relErr := s.space.Release(binID, qty); relErr != nil {
			s.log.Error("releasing space after failed putaway",
				zap.String("bin_id", binID),
				zap.Int("units", qty),
				zap.Error(relErr))
			return nil, fmt.Errorf("putaway %s: %w (space release failed: %v)", itemID, err, relErr)
		}
		return nil, err
	}
	if err := s.ledger.AssignBin(itemID, warehouseID, binID); err != nil {
		return nil, err
	}

	s.log.Info("goods stored",
		zap.String("item_id", itemID),
		zap.String("warehouse_id", warehouseID),
		zap.String("bin_id", binID),
		zap.Int("quantity", qty))
	return &PutawayResult{
		ItemID:         itemID,
		WarehouseID:    warehouseID,
		BinID:          binID,
		Quantity:       qty,
		QuantityOnHand: onHand,
	}, nil
}
