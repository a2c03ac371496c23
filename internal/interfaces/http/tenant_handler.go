package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/application/tenants"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

// TenantHandler handles tenant onboarding requests.
type TenantHandler struct {
	uc  *tenants.UseCase
	log *logger.Logger
}

// NewTenantHandler builds the handler.
func NewTenantHandler(uc *tenants.UseCase, log *logger.Logger) *TenantHandler {
	return &TenantHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Create tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "Tenant data"
// @Success      201   {object}  dto.TenantResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name is required"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Get tenant by id
// @Tags         tenants
// @Produce      json
// @Param        id  path  string  true  "Tenant id"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tenant not found"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.TenantListResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
