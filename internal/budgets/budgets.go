// Package budgets aggregates actual spend against budget lines and closes
// periods into immutable history snapshots.
package budgets

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moisessepulveda/xplan-backend/internal/models"
	"github.com/moisessepulveda/xplan-backend/internal/types"
)

var hundred = decimal.NewFromInt(100)

// LineProgress is the actual-vs-planned state of one budget line.
//
// Percentage is nil when the line has no planned amount but money was
// spent: the ratio is unbounded and deliberately not capped to a number.
type LineProgress struct {
	CategoryID uuid.UUID        `json:"categoryId"`
	Planned    decimal.Decimal  `json:"planned"`
	Spent      decimal.Decimal  `json:"spent"`
	Percentage *decimal.Decimal `json:"percentage"`
	Alert      int              `json:"alert"` // highest enabled threshold that was crossed, 0 if none
}

// Progress is the actual-vs-planned state of a budget for one month.
type Progress struct {
	BudgetID      uuid.UUID       `json:"budgetId"`
	Month         types.Month     `json:"month"`
	TotalBudgeted decimal.Decimal `json:"totalBudgeted"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	Lines         []LineProgress  `json:"lines"`
}

// Calculate computes the progress of a budget for one month.
//
// Each line sums the non-deleted transactions of the budget's kind whose
// category is in the line's category subtree. Lines do not modify
// anything; the result is recomputed on every call.
func Calculate(db *gorm.DB, budgetID uuid.UUID, month types.Month) (Progress, error) {
	var budget models.Budget
	err := db.First(&budget, budgetID).Error
	if err != nil {
		return Progress{}, err
	}

	lines, err := budget.Lines(db)
	if err != nil {
		return Progress{}, err
	}

	progress := Progress{
		BudgetID: budget.ID,
		Month:    month,
		Lines:    make([]LineProgress, 0, len(lines)),
	}

	for _, line := range lines {
		spent, err := spentForLine(db, budget, line, month)
		if err != nil {
			return Progress{}, err
		}

		progress.Lines = append(progress.Lines, lineProgress(line, spent))
		progress.TotalBudgeted = progress.TotalBudgeted.Add(line.Amount)
		progress.TotalSpent = progress.TotalSpent.Add(spent)
	}

	return progress, nil
}

// Close writes the immutable history snapshot for a budget month.
//
// Closing the same month twice creates two history rows, deduplication is
// the caller's responsibility.
func Close(db *gorm.DB, budgetID uuid.UUID, month types.Month, now time.Time) (models.BudgetHistory, error) {
	progress, err := Calculate(db, budgetID, month)
	if err != nil {
		return models.BudgetHistory{}, err
	}

	snapshot, err := json.Marshal(progress.Lines)
	if err != nil {
		return models.BudgetHistory{}, err
	}

	history := models.BudgetHistory{
		BudgetID:      budgetID,
		Month:         month,
		TotalBudgeted: progress.TotalBudgeted.Round(2),
		TotalSpent:    progress.TotalSpent.Round(2),
		LinesSnapshot: snapshot,
		ClosedAt:      now.In(time.UTC),
	}

	err = db.Create(&history).Error
	if err != nil {
		return models.BudgetHistory{}, err
	}

	return history, nil
}

// spentForLine sums the matching transaction amounts for one line.
func spentForLine(db *gorm.DB, budget models.Budget, line models.BudgetLine, month types.Month) (decimal.Decimal, error) {
	var category models.Category
	err := db.First(&category, line.CategoryID).Error
	if err != nil {
		return decimal.Zero, err
	}

	categoryIDs, err := category.SubtreeIDs(db)
	if err != nil {
		return decimal.Zero, err
	}

	var sum decimal.NullDecimal
	err = db.Table("transactions").
		Where("transactions.deleted_at IS NULL").
		Where("transactions.type = ?", budget.Kind.TransactionType()).
		Where("transactions.category_id IN ?", categoryIDs).
		Where("transactions.date >= date(?)", time.Time(month)).
		Where("transactions.date < date(?)", time.Time(month.AddDate(0, 1))).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}

func lineProgress(line models.BudgetLine, spent decimal.Decimal) LineProgress {
	progress := LineProgress{
		CategoryID: line.CategoryID,
		Planned:    line.Amount,
		Spent:      spent,
	}

	switch {
	case line.Amount.IsPositive():
		percentage := spent.Div(line.Amount).Mul(hundred).Round(2)
		progress.Percentage = &percentage
	case spent.IsZero():
		percentage := decimal.Zero
		progress.Percentage = &percentage
	default:
		// Spend with nothing planned: unbounded, reported as null
		progress.Percentage = nil
	}

	if progress.Percentage != nil {
		percentage := *progress.Percentage
		if line.Alert50 && percentage.GreaterThanOrEqual(decimal.NewFromInt(50)) {
			progress.Alert = 50
		}
		if line.Alert80 && percentage.GreaterThanOrEqual(decimal.NewFromInt(80)) {
			progress.Alert = 80
		}
		if line.Alert100 && percentage.GreaterThanOrEqual(hundred) {
			progress.Alert = 100
		}
	} else if line.Alert100 {
		// Unbounded overspend always crosses the 100% alert
		progress.Alert = 100
	}

	return progress
}
