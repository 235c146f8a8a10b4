package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the kind of a transaction. It decides which accounts
// the transaction amount is applied to and with which sign.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// Transaction represents a movement of money.
//
// The Amount is always stored non-negative, the sign of the balance effect
// is derived from the Type. Rows are soft-deleted; a deleted transaction no
// longer contributes to any balance.
type Transaction struct {
	DefaultModel
	Type                 TransactionType
	AccountID            uuid.UUID `gorm:"check:source_destination_different,account_id != destination_account_id"`
	Account              Account   `json:"-"`
	DestinationAccountID *uuid.UUID
	DestinationAccount   *Account `json:"-"`
	CategoryID           *uuid.UUID
	Category             *Category       `json:"-"`
	Amount               decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date                 time.Time       // Time of day is currently only used for sorting
	Note                 string
	CreatedBy            uuid.UUID // Actor stamp for record provenance
}

// BalanceEffect is the signed delta a transaction causes on one account.
type BalanceEffect struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
}

// Effects returns the signed balance deltas of the transaction, one per
// touched account. This is the single dispatch point on the transaction
// type; apply and reverse paths in the ledger package both go through it.
func (t Transaction) Effects() ([]BalanceEffect, error) {
	switch t.Type {
	case TypeIncome:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: t.Amount}}, nil
	case TypeExpense:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}, nil
	case TypeTransfer:
		effects := []BalanceEffect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}
		if t.DestinationAccountID != nil {
			effects = append(effects, BalanceEffect{AccountID: *t.DestinationAccountID, Delta: t.Amount})
		}
		return effects, nil
	}

	return nil, ErrTransactionTypeInvalid
}

// EffectOn returns the signed effect of the transaction on a single account.
func (t Transaction) EffectOn(accountID uuid.UUID) decimal.Decimal {
	effects, err := t.Effects()
	if err != nil {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, effect := range effects {
		if effect.AccountID == accountID {
			sum = sum.Add(effect.Delta)
		}
	}

	return sum
}

// Validate checks the type-specific field requirements.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	switch t.Type {
	case TypeIncome, TypeExpense:
		if t.DestinationAccountID != nil {
			return ErrDestinationNotAllowed
		}
	case TypeTransfer:
		if t.DestinationAccountID == nil {
			return ErrTransferNeedsDestination
		}
		if *t.DestinationAccountID == t.AccountID {
			return ErrSourceEqualsDestination
		}
	default:
		return ErrTransactionTypeInvalid
	}

	return nil
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}

// BeforeSave sets the timezone for the Date to UTC and rounds the amount
// to the persisted precision.
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Note = strings.TrimSpace(t.Note)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	t.Amount = t.Amount.Round(2)
	return nil
}
