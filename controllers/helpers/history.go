package helpers

import (
	"encoding/json"
	"fulfillment-wms/models"
	"fulfillment-wms/wms/events"
	"time"

	"gorm.io/gorm"
)

// NewTransactionHistory maps a domain event onto its journal row.
func NewTransactionHistory(e events.Event) (models.TransactionHistory, error) {
	history := models.TransactionHistory{
		RefNo:      e.RefNo,
		Status:     e.Status,
		Type:       e.Type,
		Detail:     e.Detail,
		Actor:      e.Actor,
		OccurredAt: e.OccurredAt,
		CreatedAt:  time.Now(),
	}
	if history.OccurredAt.IsZero() {
		history.OccurredAt = history.CreatedAt
	}
	if len(e.Attributes) > 0 {
		raw, err := json.Marshal(e.Attributes)
		if err != nil {
			return history, err
		}
		history.Attributes = string(raw)
	}
	return history, nil
}

// InsertTransactionHistory inserts a new transaction history record.
func InsertTransactionHistory(db *gorm.DB, e events.Event) error {
	history, err := NewTransactionHistory(e)
	if err != nil {
		return err
	}

	if err := db.Create(&history).Error; err != nil {
		return err
	}

	return nil
}
