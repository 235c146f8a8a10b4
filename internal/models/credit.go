package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditType is the product variant of a credit.
type CreditType string

const (
	CreditTypeConsumer   CreditType = "consumer"
	CreditTypeMortgage   CreditType = "mortgage"
	CreditTypeAuto       CreditType = "auto"
	CreditTypeCreditCard CreditType = "credit_card" // revolving, no fixed schedule
)

// CreditStatus is the lifecycle state of a credit.
type CreditStatus string

const (
	CreditActive     CreditStatus = "active"
	CreditPaid       CreditStatus = "paid"
	CreditRefinanced CreditStatus = "refinanced"
	CreditDefaulted  CreditStatus = "defaulted"
)

// Credit represents a loan with a fixed-payment amortization schedule.
//
// PendingAmount only ever decreases while the credit is active. It reaching
// zero (or below, the final installment may overpay by rounding) transitions
// the credit to CreditPaid.
type Credit struct {
	DefaultModel
	Planning   Planning  `json:"-"`
	PlanningID uuid.UUID
	Name       string
	Note       string
	Type       CreditType

	OriginalAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	PendingAmount  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InterestRate   decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // annual, percent
	MonthlyPayment decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	TermMonths int
	// Number of installments a schedule regeneration should produce.
	// Zero means "not set", in which case TermMonths is used.
	PendingInstallmentsCount int
	PaymentDay               int // day of month a payment is due, clamped to short months

	StartDate        time.Time
	EstimatedEndDate time.Time

	// Default account payments are made from. Optional.
	AccountID *uuid.UUID
	Account   *Account `json:"-"`

	Status CreditStatus
}

// BeforeSave trims whitespace and defaults the status.
func (c *Credit) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	if c.Status == "" {
		c.Status = CreditActive
	}

	return nil
}

func (c *Credit) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Credit)
	return c.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources.
func (c *Credit) checkIntegrity(tx *gorm.DB, toSave Credit) error {
	err := tx.First(&Planning{}, toSave.PlanningID).Error
	if err != nil {
		return err
	}

	if toSave.AccountID != nil {
		return tx.First(&Account{}, *toSave.AccountID).Error
	}

	return nil
}

// Installments returns the credit's installments ordered by number.
func (c Credit) Installments(db *gorm.DB) ([]CreditInstallment, error) {
	var installments []CreditInstallment
	err := db.
		Where(&CreditInstallment{CreditID: c.ID}).
		Order("number ASC").
		Find(&installments).Error

	return installments, err
}
