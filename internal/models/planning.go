package models

import (
	"strings"

	"gorm.io/gorm"
)

// Planning is the tenant boundary of the planner.
//
// A planning is the highest level of organization, all other resources
// reference it directly or transitively. Accounts, categories, credits and
// budgets always belong to exactly one planning.
type Planning struct {
	DefaultModel
	Name     string
	Note     string
	Currency string // ISO 4217 code used as default for new accounts
}

// BeforeSave trims whitespace from all strings.
func (p *Planning) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Note = strings.TrimSpace(p.Note)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))

	return nil
}
