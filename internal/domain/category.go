package domain

import "time"

// Category is a top-level ticket classification.
type Category struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subcategory belongs to a category and routes tickets to a department.
type Subcategory struct {
	ID           string
	CategoryID   string
	DepartmentID string
	Name         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClosureCode is a controlled-vocabulary reason recorded when closing.
type ClosureCode struct {
	ID          string
	Code        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
