package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditPaymentsCategoryName is the name of the reserved category that
// credit installment and extra payments are booked against.
const CreditPaymentsCategoryName = "Credit payments"

// Category groups transactions. Categories form a tree via ParentID;
// budget lines match a category including all of its descendants.
type Category struct {
	DefaultModel
	Planning   Planning  `json:"-"`
	PlanningID uuid.UUID `gorm:"uniqueIndex:category_name_planning_id"`
	Name       string    `gorm:"uniqueIndex:category_name_planning_id"`
	Note       string
	ParentID   *uuid.UUID
	Parent     *Category `json:"-"`
	Archived   bool
}

// BeforeSave trims whitespace from all strings.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Category)
	return c.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources.
func (c *Category) checkIntegrity(tx *gorm.DB, toSave Category) error {
	err := tx.First(&Planning{}, toSave.PlanningID).Error
	if err != nil {
		return err
	}

	if toSave.ParentID != nil {
		return tx.First(&Category{}, *toSave.ParentID).Error
	}

	return nil
}

// SubtreeIDs returns the IDs of the category and all of its descendants.
// The tree is walked level by level; cycles cannot occur since a category's
// parent exists before the category itself.
func (c Category) SubtreeIDs(db *gorm.DB) ([]uuid.UUID, error) {
	ids := []uuid.UUID{c.ID}
	frontier := []uuid.UUID{c.ID}

	for len(frontier) > 0 {
		var children []uuid.UUID
		err := db.Model(&Category{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}

		ids = append(ids, children...)
		frontier = children
	}

	return ids, nil
}

// CreditPaymentsCategory returns the reserved per-planning category used
// for credit payment transactions, creating it if it does not exist yet.
func CreditPaymentsCategory(db *gorm.DB, planningID uuid.UUID) (Category, error) {
	var category Category

	err := db.FirstOrCreate(&category, Category{PlanningID: planningID, Name: CreditPaymentsCategoryName}).Error
	if err != nil {
		return Category{}, err
	}

	return category, nil
}
