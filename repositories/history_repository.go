package repositories

import (
	"context"
	"fulfillment-wms/controllers/helpers"
	"fulfillment-wms/models"
	"fulfillment-wms/wms/events"

	"gorm.io/gorm"
)

// HistoryRepository journals domain events into transaction_histories. It is
// registered as a dispatcher sink.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db}
}

func (r *HistoryRepository) Name() string { return "history" }

func (r *HistoryRepository) Record(ctx context.Context, e events.Event) error {
	return helpers.InsertTransactionHistory(r.db.WithContext(ctx), e)
}

func (r *HistoryRepository) FindByRefNo(refNo string) ([]models.TransactionHistory, error) {
	var results []models.TransactionHistory
	if err := r.db.Where("ref_no = ?", refNo).
		Order("occurred_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *HistoryRepository) Recent(eventType string, limit int) ([]models.TransactionHistory, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var results []models.TransactionHistory
	query := r.db.Model(&models.TransactionHistory{})
	if eventType != "" {
		query = query.Where("type = ?", eventType)
	}
	if err := query.Order("occurred_at DESC, id DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
