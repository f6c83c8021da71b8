package dto

import "github.com/opsdesk/ticketflow/internal/domain"

// CategoryResponse describes a ticket category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubcategoryResponse describes a subcategory and its routing department.
type SubcategoryResponse struct {
	ID           string `json:"id"`
	CategoryID   string `json:"category_id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
}

// ClosureCodeResponse describes a closure code.
type ClosureCodeResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DepartmentResponse describes a department.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewCategoryResponses maps categories.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

// NewSubcategoryResponses maps subcategories.
func NewSubcategoryResponses(subcategories []domain.Subcategory) []SubcategoryResponse {
	out := make([]SubcategoryResponse, 0, len(subcategories))
	for _, s := range subcategories {
		out = append(out, SubcategoryResponse{
			ID:           s.ID,
			CategoryID:   s.CategoryID,
			DepartmentID: s.DepartmentID,
			Name:         s.Name,
		})
	}
	return out
}

// NewClosureCodeResponses maps closure codes.
func NewClosureCodeResponses(codes []domain.ClosureCode) []ClosureCodeResponse {
	out := make([]ClosureCodeResponse, 0, len(codes))
	for _, c := range codes {
		out = append(out, ClosureCodeResponse{ID: c.ID, Code: c.Code, Description: c.Description})
	}
	return out
}

// NewDepartmentResponses maps departments.
func NewDepartmentResponses(departments []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return out
}
