package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtraPayment records a lump-sum payment against a credit's pending
// amount, outside the installment schedule.
//
// Registering an extra payment does not touch future installments. The
// schedule only reflects the reduced balance after an explicit
// regeneration, see credits.RegenerateSchedule.
type ExtraPayment struct {
	DefaultModel
	Credit   Credit    `json:"-"`
	CreditID uuid.UUID

	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date   time.Time
	Note   string

	TransactionID uuid.UUID
	Transaction   Transaction `json:"-"`
}
