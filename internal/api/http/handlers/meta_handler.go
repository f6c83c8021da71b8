package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticketflow/internal/api/dto"
	"github.com/opsdesk/ticketflow/internal/repository"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

// MetaHandler serves the classification catalogs used when filing and
// closing tickets.
type MetaHandler struct {
	categories   repository.CategoryRepository
	closureCodes repository.ClosureCodeRepository
	departments  repository.DepartmentRepository
}

// NewMetaHandler constructs handler.
func NewMetaHandler(categories repository.CategoryRepository, closureCodes repository.ClosureCodeRepository, departments repository.DepartmentRepository) *MetaHandler {
	return &MetaHandler{categories: categories, closureCodes: closureCodes, departments: departments}
}

// ListCategories GET /meta/categories.
func (h *MetaHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.ListActiveCategories(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponses(categories)})
}

// ListSubcategories GET /meta/categories/:id/subcategories.
func (h *MetaHandler) ListSubcategories(c *fiber.Ctx) error {
	subcategories, err := h.categories.ListActiveSubcategories(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewSubcategoryResponses(subcategories)})
}

// ListClosureCodes GET /meta/closure-codes.
func (h *MetaHandler) ListClosureCodes(c *fiber.Ctx) error {
	codes, err := h.closureCodes.ListActive(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewClosureCodeResponses(codes)})
}

// ListDepartments GET /meta/departments.
func (h *MetaHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departments.ListActive(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponses(departments)})
}
