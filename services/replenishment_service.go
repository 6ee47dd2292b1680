package services

import (
	"fulfillment-wms/wms/inventory"
	"fulfillment-wms/wms/procurement"

	"go.uber.org/zap"
)

type SignalSource interface {
	ScanForReorderSignals() []inventory.ReorderSignal
}

type RequisitionCreator interface {
	CreateRequisition(itemID string, observedStock int, requestedBy string) (*procurement.Requisition, error)
}

type ReplenishmentRun struct {
	Signals      []inventory.ReorderSignal `json:"signals"`
	Requisitions []procurement.Requisition `json:"requisitions"`
	Errors       []string                  `json:"errors"`
}

// ReplenishmentService turns low-stock signals into purchase requisitions.
type ReplenishmentService struct {
	signals     SignalSource
	procurement RequisitionCreator
	requestedBy string
	log         *zap.Logger
}

func NewReplenishmentService(signals SignalSource, proc RequisitionCreator, requestedBy string, log *zap.Logger) *ReplenishmentService {
	if requestedBy == "" {
		requestedBy = "stock-monitor"
	}
	return &ReplenishmentService{signals: signals, procurement: proc, requestedBy: requestedBy, log: log}
}

// Run scans stock once. Failures for one item do not stop the others.
func (s *ReplenishmentService) Run() *ReplenishmentRun {
	run := &ReplenishmentRun{
		Signals:      s.signals.ScanForReorderSignals(),
		Requisitions: []procurement.Requisition{},
		Errors:       []string{},
	}
	if run.Signals == nil {
		run.Signals = []inventory.ReorderSignal{}
	}
	for _, sig := range run.Signals {
		req, err := s.procurement.CreateRequisition(sig.ItemID, sig.Observed, s.requestedBy)
		if err != nil {
			s.log.Warn("requisition not created", zap.String("item_id", sig.ItemID), zap.Error(err))
			run.Errors = append(run.Errors, err.Error())
			continue
		}
		if req != nil {
			run.Requisitions = append(run.Requisitions, *req)
		}
	}
	s.log.Info("replenishment run finished",
		zap.Int("signals", len(run.Signals)),
		zap.Int("requisitions", len(run.Requisitions)))
	return run
}
