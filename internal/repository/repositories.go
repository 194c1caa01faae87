package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Loans LoanStore
	Stats StatsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Loans: NewLoanStore(db),
		Stats: NewStatsRepository(db),
	}
}
