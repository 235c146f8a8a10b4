package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moisessepulveda/xplan-backend/internal/types"
)

// BudgetKind decides which transaction type a budget measures.
type BudgetKind string

const (
	BudgetExpense BudgetKind = "expense"
	BudgetIncome  BudgetKind = "income"
)

// TransactionType returns the transaction type the budget kind matches.
func (k BudgetKind) TransactionType() TransactionType {
	if k == BudgetIncome {
		return TypeIncome
	}

	return TypeExpense
}

// Budget is a set of planned amounts per category for a planning.
type Budget struct {
	DefaultModel
	Planning   Planning  `json:"-"`
	PlanningID uuid.UUID
	Name       string
	Note       string
	Kind       BudgetKind
}

// BeforeSave trims whitespace and defaults the kind.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	if b.Kind == "" {
		b.Kind = BudgetExpense
	}

	return nil
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Budget)
	return tx.First(&Planning{}, toSave.PlanningID).Error
}

// Lines returns the budget's lines.
func (b Budget) Lines(db *gorm.DB) ([]BudgetLine, error) {
	var lines []BudgetLine
	err := db.Where(&BudgetLine{BudgetID: b.ID}).Find(&lines).Error

	return lines, err
}

// BudgetLine is the planned amount for one category subtree within a budget.
type BudgetLine struct {
	DefaultModel
	Budget     Budget    `json:"-"`
	BudgetID   uuid.UUID
	Category   Category `json:"-"`
	CategoryID uuid.UUID

	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	// Alert thresholds in percent of the planned amount
	Alert50  bool
	Alert80  bool
	Alert100 bool
}

func (l *BudgetLine) BeforeCreate(tx *gorm.DB) error {
	_ = l.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetLine)
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	return tx.First(&Category{}, toSave.CategoryID).Error
}

// BudgetHistory is the immutable snapshot of a closed budget period.
//
// Rows are an audit record: they are created once by budgets.Close and are
// never updated or deleted afterwards.
type BudgetHistory struct {
	DefaultModel
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID

	Month         types.Month
	TotalBudgeted decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TotalSpent    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	// Serialized line-vs-actual state at close time
	LinesSnapshot json.RawMessage `gorm:"type:TEXT"`

	ClosedAt time.Time
}
