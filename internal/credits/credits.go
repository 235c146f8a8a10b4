// Package credits orchestrates the credit lifecycle: creation with
// schedule generation, mid-life schedule regeneration, installment
// payments and extra payments.
//
// Payments never mutate balances themselves, they create an expense
// transaction through the ledger package and only then update the
// installment and credit state, all in one database transaction.
package credits

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moisessepulveda/xplan-backend/internal/amortization"
	"github.com/moisessepulveda/xplan-backend/internal/ledger"
	"github.com/moisessepulveda/xplan-backend/internal/models"
)

// CreditCreate contains all values to create a credit.
//
// MonthlyPayment and EstimatedEndDate are optional: when unset they are
// derived from the annuity formula and from StartDate plus the term.
type CreditCreate struct {
	PlanningID uuid.UUID         `json:"planningId"`
	Name       string            `json:"name"`
	Note       string            `json:"note"`
	Type       models.CreditType `json:"type" example:"consumer"`

	OriginalAmount decimal.Decimal `json:"originalAmount"`
	InterestRate   decimal.Decimal `json:"interestRate" example:"12"` // annual, percent
	TermMonths     int             `json:"termMonths"`
	PaymentDay     int             `json:"paymentDay"`

	MonthlyPayment   decimal.Decimal `json:"monthlyPayment"`
	StartDate        time.Time       `json:"startDate"`
	EstimatedEndDate time.Time       `json:"estimatedEndDate"`

	AccountID *uuid.UUID `json:"accountId"`
}

// Create persists a credit and, for every type except the revolving credit
// card variant, its full installment schedule. One unit of work: a
// schedule generation failure leaves no credit behind.
func Create(db *gorm.DB, create CreditCreate) (models.Credit, error) {
	if create.StartDate.IsZero() {
		create.StartDate = time.Now().In(time.UTC)
	}
	if create.PaymentDay == 0 {
		create.PaymentDay = create.StartDate.Day()
	}

	rate := amortization.MonthlyRate(create.InterestRate)

	monthlyPayment := create.MonthlyPayment
	if monthlyPayment.IsZero() {
		payment, err := amortization.MonthlyPayment(create.OriginalAmount, rate, create.TermMonths)
		if err != nil {
			return models.Credit{}, err
		}
		monthlyPayment = payment.Round(2)
	}

	estimatedEnd := create.EstimatedEndDate
	if estimatedEnd.IsZero() {
		estimatedEnd = create.StartDate.AddDate(0, create.TermMonths, 0)
	}

	credit := models.Credit{
		PlanningID:       create.PlanningID,
		Name:             create.Name,
		Note:             create.Note,
		Type:             create.Type,
		OriginalAmount:   create.OriginalAmount.Round(2),
		PendingAmount:    create.OriginalAmount.Round(2),
		InterestRate:     create.InterestRate,
		MonthlyPayment:   monthlyPayment,
		TermMonths:       create.TermMonths,
		PaymentDay:       create.PaymentDay,
		StartDate:        create.StartDate.In(time.UTC),
		EstimatedEndDate: estimatedEnd.In(time.UTC),
		AccountID:        create.AccountID,
		Status:           models.CreditActive,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&credit).Error
		if err != nil {
			return err
		}

		// Revolving credit has no fixed schedule
		if credit.Type == models.CreditTypeCreditCard {
			return nil
		}

		schedule, err := amortization.Schedule(credit.OriginalAmount, credit.InterestRate, credit.TermMonths, credit.StartDate, credit.PaymentDay)
		if err != nil {
			return err
		}

		rows := installmentRows(credit.ID, schedule, 0)
		return tx.Create(&rows).Error
	})
	if err != nil {
		return models.Credit{}, err
	}

	return credit, nil
}

// Schedule returns the full amortization table for a credit as originally
// contracted. Pure computation, nothing is read from or written to the
// schedule that is persisted.
func Schedule(credit models.Credit) ([]amortization.Installment, error) {
	return amortization.Schedule(credit.OriginalAmount, credit.InterestRate, credit.TermMonths, credit.StartDate, credit.PaymentDay)
}

// RegenerateSchedule replaces the open part of a credit's schedule.
//
// Only pending and overdue installments are deleted. Paid and partially
// paid rows are payment history and stay untouched; the new rows continue
// numbering after the highest kept number. Generation anchors on the
// credit's pending amount and the passed time, which models a mid-life
// reschedule rather than a fresh loan.
func RegenerateSchedule(db *gorm.DB, creditID uuid.UUID, now time.Time) ([]models.CreditInstallment, error) {
	var rows []models.CreditInstallment

	err := db.Transaction(func(tx *gorm.DB) error {
		var credit models.Credit
		err := tx.First(&credit, creditID).Error
		if err != nil {
			return err
		}

		if credit.Status != models.CreditActive {
			return models.ErrCreditNotActive
		}

		existing, err := credit.Installments(tx)
		if err != nil {
			return err
		}

		lastKept := 0
		for _, installment := range existing {
			if !installment.Status.Replaceable() && installment.Number > lastKept {
				lastKept = installment.Number
			}
		}

		err = tx.Unscoped().
			Where("credit_id = ?", credit.ID).
			Where("status IN ?", []models.InstallmentStatus{models.InstallmentPending, models.InstallmentOverdue}).
			Delete(&models.CreditInstallment{}).Error
		if err != nil {
			return err
		}

		months := credit.PendingInstallmentsCount
		if months == 0 {
			months = credit.TermMonths
		}

		schedule, err := amortization.Schedule(credit.PendingAmount, credit.InterestRate, months, now, credit.PaymentDay)
		if err != nil {
			return err
		}

		rows = installmentRows(credit.ID, schedule, lastKept)
		err = tx.Create(&rows).Error
		if err != nil {
			return err
		}

		// The recomputed annuity becomes the credit's payment
		return tx.Model(&credit).Update("monthly_payment", schedule[0].Amount).Error
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// PayInstallment books a payment against one installment.
//
// It creates an expense transaction on the paying account, booked to the
// reserved credit payments category, then updates the installment and the
// credit's pending amount. A credit whose pending amount reaches zero
// transitions to paid.
func PayInstallment(db *gorm.DB, installmentID uuid.UUID, amount decimal.Decimal, accountID uuid.UUID, date time.Time, actor uuid.UUID) (models.CreditInstallment, error) {
	var installment models.CreditInstallment

	if !amount.IsPositive() {
		return models.CreditInstallment{}, models.ErrPaymentAmountNotPositive
	}
	amount = amount.Round(2)

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&installment, installmentID).Error
		if err != nil {
			return err
		}

		if installment.Status == models.InstallmentPaid {
			return models.ErrInstallmentAlreadyPaid
		}

		var credit models.Credit
		err = tx.First(&credit, installment.CreditID).Error
		if err != nil {
			return err
		}

		if credit.Status != models.CreditActive {
			return models.ErrCreditNotActive
		}

		transaction, err := paymentTransaction(tx, credit, amount, accountID, date, actor,
			fmt.Sprintf("%s: installment %d", credit.Name, installment.Number))
		if err != nil {
			return err
		}

		installment.PaidAmount = installment.PaidAmount.Add(amount)
		if installment.PaidAmount.GreaterThanOrEqual(installment.Amount) {
			installment.Status = models.InstallmentPaid
		} else {
			installment.Status = models.InstallmentPartial
		}
		if installment.TransactionID == nil {
			installment.TransactionID = &transaction.ID
		}

		err = tx.Save(&installment).Error
		if err != nil {
			return err
		}

		return settlePending(tx, &credit, amount)
	})
	if err != nil {
		return models.CreditInstallment{}, err
	}

	return installment, nil
}

// RegisterExtraPayment books a lump sum against the credit's pending
// amount, outside the schedule.
//
// Installment rows are deliberately not touched: call RegenerateSchedule
// afterwards to reflect the reduced balance in future installments. The
// two steps are separate operations on purpose, auto-chaining them would
// change observable behavior.
func RegisterExtraPayment(db *gorm.DB, creditID uuid.UUID, amount decimal.Decimal, accountID uuid.UUID, date time.Time, actor uuid.UUID) (models.ExtraPayment, error) {
	var extraPayment models.ExtraPayment

	if !amount.IsPositive() {
		return models.ExtraPayment{}, models.ErrPaymentAmountNotPositive
	}
	amount = amount.Round(2)

	err := db.Transaction(func(tx *gorm.DB) error {
		var credit models.Credit
		err := tx.First(&credit, creditID).Error
		if err != nil {
			return err
		}

		if credit.Status != models.CreditActive {
			return models.ErrCreditNotActive
		}

		transaction, err := paymentTransaction(tx, credit, amount, accountID, date, actor,
			fmt.Sprintf("%s: extra payment", credit.Name))
		if err != nil {
			return err
		}

		extraPayment = models.ExtraPayment{
			CreditID:      credit.ID,
			Amount:        amount,
			Date:          date.In(time.UTC),
			TransactionID: transaction.ID,
		}
		err = tx.Create(&extraPayment).Error
		if err != nil {
			return err
		}

		return settlePending(tx, &credit, amount)
	})
	if err != nil {
		return models.ExtraPayment{}, err
	}

	return extraPayment, nil
}

// SimulatePrepayment runs a prepayment simulation for the credit's current
// pending amount. Nothing is persisted.
func SimulatePrepayment(credit models.Credit, extraAmount decimal.Decimal, strategy amortization.Strategy) (amortization.Simulation, error) {
	if credit.Status != models.CreditActive {
		return amortization.Simulation{}, models.ErrCreditNotActive
	}

	return amortization.SimulatePrepayment(credit.PendingAmount, credit.InterestRate, RemainingMonths(credit), extraAmount, strategy)
}

// RemainingMonths returns the number of months a schedule regeneration or
// simulation spans for the credit.
func RemainingMonths(credit models.Credit) int {
	if credit.PendingInstallmentsCount > 0 {
		return credit.PendingInstallmentsCount
	}

	return credit.TermMonths
}

// paymentTransaction creates the expense transaction for a credit payment
// through the ledger, so account balances stay consistent.
func paymentTransaction(tx *gorm.DB, credit models.Credit, amount decimal.Decimal, accountID uuid.UUID, date time.Time, actor uuid.UUID, note string) (models.Transaction, error) {
	category, err := models.CreditPaymentsCategory(tx, credit.PlanningID)
	if err != nil {
		return models.Transaction{}, err
	}

	return ledger.Create(tx, ledger.TransactionCreate{
		Type:       models.TypeExpense,
		AccountID:  accountID,
		CategoryID: &category.ID,
		Amount:     amount,
		Date:       date,
		Note:       note,
		CreatedBy:  actor,
	})
}

// settlePending decreases the credit's pending amount and transitions the
// credit to paid once it is cleared. The final installment may overpay by
// rounding, which is why the comparison is <= 0 and the stored pending
// amount is floored at zero.
func settlePending(tx *gorm.DB, credit *models.Credit, amount decimal.Decimal) error {
	pending := credit.PendingAmount.Sub(amount)

	updates := map[string]any{"pending_amount": pending}
	if pending.LessThanOrEqual(decimal.Zero) {
		updates["pending_amount"] = decimal.Zero
		updates["status"] = models.CreditPaid
	}

	return tx.Model(credit).Updates(updates).Error
}
