package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories holds the repository set.
type Repositories struct {
	WorkOrder *WorkOrderRepository
}

// NewRepositories creates the repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		WorkOrder: NewWorkOrderRepository(db),
	}
}
