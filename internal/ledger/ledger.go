// Package ledger keeps account balances consistent with the transaction log.
//
// All balance mutations go through this package. Every operation runs as
// one database transaction: either the row write and all balance deltas
// commit together, or none of them do. Updates reverse the previously
// persisted effect before applying the new one, so changing the amount,
// the type or even the accounts of a transaction is handled by the same
// code path.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moisessepulveda/xplan-backend/internal/models"
)

// apply adds the signed deltas to the touched accounts.
//
// The read-modify-write happens inside the caller's database transaction,
// which serializes concurrent mutations of the same account.
func apply(tx *gorm.DB, effects []models.BalanceEffect) error {
	for _, effect := range effects {
		var account models.Account
		err := tx.First(&account, effect.AccountID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound) {
			return models.ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Model(&account).
			Update("current_balance", account.CurrentBalance.Add(effect.Delta)).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// reverse applies the algebraic inverse of the transaction's effect.
func reverse(tx *gorm.DB, transaction models.Transaction) error {
	effects, err := transaction.Effects()
	if err != nil {
		return err
	}

	for i := range effects {
		effects[i].Delta = effects[i].Delta.Neg()
	}

	return apply(tx, effects)
}

// TransactionCreate contains all values to create a transaction.
type TransactionCreate struct {
	Type                 models.TransactionType `json:"type" example:"expense"`
	AccountID            uuid.UUID              `json:"accountId"`
	DestinationAccountID *uuid.UUID             `json:"destinationAccountId"` // only for transfers
	CategoryID           *uuid.UUID             `json:"categoryId"`
	Amount               decimal.Decimal        `json:"amount" example:"14.07"`
	Date                 time.Time              `json:"date"`
	Note                 string                 `json:"note"`
	CreatedBy            uuid.UUID              `json:"-"`
}

func (c TransactionCreate) model() models.Transaction {
	return models.Transaction{
		Type:                 c.Type,
		AccountID:            c.AccountID,
		DestinationAccountID: c.DestinationAccountID,
		CategoryID:           c.CategoryID,
		Amount:               c.Amount.Round(2), // the effect and the row must see the same value
		Date:                 c.Date,
		Note:                 c.Note,
		CreatedBy:            c.CreatedBy,
	}
}

// TransactionUpdate contains the editable fields of a transaction. Fields
// that are nil keep the transaction's current value.
type TransactionUpdate struct {
	Type                 *models.TransactionType `json:"type"`
	AccountID            *uuid.UUID              `json:"accountId"`
	DestinationAccountID *uuid.UUID              `json:"destinationAccountId"`
	CategoryID           *uuid.UUID              `json:"categoryId"`
	Amount               *decimal.Decimal        `json:"amount"`
	Date                 *time.Time              `json:"date"`
	Note                 *string                 `json:"note"`
}

// merge applies the update on top of the persisted transaction.
// Precedence is explicit value > current value. The destination account is
// dropped when the merged type is not a transfer.
func (u TransactionUpdate) merge(t models.Transaction) models.Transaction {
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.AccountID != nil {
		t.AccountID = *u.AccountID
	}
	if u.DestinationAccountID != nil {
		t.DestinationAccountID = u.DestinationAccountID
	}
	if t.Type != models.TypeTransfer {
		t.DestinationAccountID = nil
	}
	if u.CategoryID != nil {
		t.CategoryID = u.CategoryID
	}
	if u.Amount != nil {
		t.Amount = u.Amount.Round(2)
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Note != nil {
		t.Note = *u.Note
	}

	return t
}

// Create validates and persists a transaction and applies its balance
// effect. On any failure nothing is persisted and no balance changes.
func Create(db *gorm.DB, create TransactionCreate) (models.Transaction, error) {
	transaction := create.model()

	err := transaction.Validate()
	if err != nil {
		return models.Transaction{}, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		effects, err := transaction.Effects()
		if err != nil {
			return err
		}

		// Balances first: a missing account aborts before the row exists
		err = apply(tx, effects)
		if err != nil {
			return err
		}

		return tx.Create(&transaction).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// Update changes a transaction and keeps all account balances consistent.
//
// The order is load-bearing: the effect of the transaction as currently
// persisted is reversed before any incoming value is looked at, then the
// new effect is computed from the merged data and applied. Both steps
// happen in one database transaction, a failure in the second rolls back
// the first.
func Update(db *gorm.DB, id uuid.UUID, update TransactionUpdate) (models.Transaction, error) {
	var merged models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		// Reverse based on the persisted state, not on the incoming data
		var persisted models.Transaction
		err := tx.First(&persisted, id).Error
		if err != nil {
			return err
		}

		err = reverse(tx, persisted)
		if err != nil {
			return err
		}

		merged = update.merge(persisted)
		err = merged.Validate()
		if err != nil {
			return err
		}

		effects, err := merged.Effects()
		if err != nil {
			return err
		}

		err = apply(tx, effects)
		if err != nil {
			return err
		}

		return tx.Save(&merged).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return merged, nil
}

// Delete reverses the transaction's balance effect and soft-deletes the
// row. Deleting an already deleted transaction returns
// models.ErrTransactionDeleted.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var persisted models.Transaction
		err := tx.Unscoped().First(&persisted, id).Error
		if err != nil {
			return err
		}

		if persisted.DeletedAt != nil && persisted.DeletedAt.Valid {
			return models.ErrTransactionDeleted
		}

		err = reverse(tx, persisted)
		if err != nil {
			return err
		}

		return tx.Delete(&persisted).Error
	})
}
