package models

import (
	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/types"
	"time"

	"gorm.io/gorm"
)

// TransactionHistory is the append-only journal of domain events.
type TransactionHistory struct {
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo      string            `json:"ref_no" gorm:"index;size:64"`
	Status     string            `json:"status" gorm:"size:32"`
	Type       string            `json:"type" gorm:"index;size:64"`
	Detail     string            `json:"detail"`
	Actor      string            `json:"actor" gorm:"size:64"`
	Attributes string            `json:"attributes"`
	OccurredAt time.Time         `json:"occurred_at" gorm:"index"`
	CreatedAt  time.Time         `json:"created_at"`
	DeletedAt  gorm.DeletedAt    `json:"-"`
}

func (u *TransactionHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == 0 {
		u.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
