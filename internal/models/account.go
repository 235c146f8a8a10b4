package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account represents an asset account, e.g. a bank account.
//
// CurrentBalance is denormalized: it always equals InitialBalance plus the
// signed effect of every non-deleted transaction that references the account.
// It is only ever written through the ledger package, never directly.
type Account struct {
	DefaultModel
	Planning       Planning  `json:"-"`
	PlanningID     uuid.UUID `gorm:"uniqueIndex:account_name_planning_id"`
	Name           string    `gorm:"uniqueIndex:account_name_planning_id"`
	Note           string
	Currency       string
	InitialBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived       bool
}

// BeforeSave trims whitespace from all strings.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrAccountNameEmpty
	}

	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))

	return nil
}

// BeforeCreate verifies references and initializes the running balance.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Account)
	if toSave.CurrentBalance.IsZero() {
		toSave.CurrentBalance = toSave.InitialBalance
	}

	return a.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources.
func (a *Account) checkIntegrity(tx *gorm.DB, toSave Account) error {
	return tx.First(&Planning{}, toSave.PlanningID).Error
}

// Transactions returns all non-deleted transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	// Get all transactions where the account is either the source or the destination
	db.Where(Transaction{AccountID: a.ID}).
		Or("destination_account_id = ?", a.ID).
		Find(&transactions)
	return transactions
}

// RecalculatedBalance computes the balance from the transaction log instead
// of the denormalized column. Used for consistency checks and repair.
func (a Account) RecalculatedBalance(db *gorm.DB, at time.Time) (balance decimal.Decimal, err error) {
	var transactions []Transaction

	err = db.
		Where(
			db.Where(Transaction{AccountID: a.ID}).
				Or("destination_account_id = ?", a.ID)).
		Where("datetime(transactions.date) <= datetime(?)", at).
		Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance = a.InitialBalance
	for _, t := range transactions {
		balance = balance.Add(t.EffectOn(a.ID))
	}

	return balance, nil
}
