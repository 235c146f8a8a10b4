package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InstallmentStatus is the payment state of a single installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPartial InstallmentStatus = "partial"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// Replaceable reports whether a schedule regeneration may delete the
// installment. Paid and partially paid rows are payment history and are
// never touched.
func (s InstallmentStatus) Replaceable() bool {
	return s == InstallmentPending || s == InstallmentOverdue
}

// CreditInstallment is one row of a credit's amortization schedule.
type CreditInstallment struct {
	DefaultModel
	Credit   Credit    `json:"-"`
	CreditID uuid.UUID `gorm:"uniqueIndex:installment_number_credit_id"`
	Number   int       `gorm:"uniqueIndex:installment_number_credit_id"` // 1-based

	DueDate time.Time

	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Principal    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Interest     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Insurance    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	OtherCharges decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	Status     InstallmentStatus
	PaidAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	// Set once a payment transaction exists for the installment.
	TransactionID *uuid.UUID
	Transaction   *Transaction `json:"-"`
}

// BeforeSave defaults the status.
func (i *CreditInstallment) BeforeSave(_ *gorm.DB) error {
	if i.Status == "" {
		i.Status = InstallmentPending
	}

	return nil
}

// RemainingDue returns how much is still owed on the installment.
func (i CreditInstallment) RemainingDue() decimal.Decimal {
	remaining := i.Amount.Sub(i.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}

	return remaining
}
