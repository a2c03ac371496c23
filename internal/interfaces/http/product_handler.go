package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tijara-app/tijara-api/internal/application/branchctx"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/application/products"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

// ProductHandler handles product HTTP requests (protected).
type ProductHandler struct {
	svc      *products.Service
	resolver *branchctx.Resolver
	log      *logger.Logger
}

// NewProductHandler builds the handler.
func NewProductHandler(svc *products.Service, resolver *branchctx.Resolver, log *logger.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, resolver: resolver, log: log}
}

// Create godoc
// @Summary      Create product
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Product data"
// @Success      201   {object}  dto.ProductResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if in.SKU == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku and name are required"})
	}
	out, err := h.svc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List products scoped to the active branch
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        branch_id     query  string  false  "Branch id or 'all' (admins only)"
// @Param        search        query  string  false  "Name or SKU fragment"
// @Param        category_id   query  string  false  "Category filter"
// @Param        low_stock     query  bool    false  "Only low-stock rows"
// @Param        is_spare_part query  bool    false  "Spare parts only"
// @Param        limit         query  int     false  "Limit"   default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	bc, err := h.resolver.Resolve(c.Context(), actor, c.Query("branch_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	filters := products.ListFilters{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		LowStock:   c.QueryBool("low_stock", false),
		Limit:      limit,
		Offset:     offset,
	}
	if c.Query("is_spare_part") != "" {
		v := c.QueryBool("is_spare_part", false)
		filters.IsSparePart = &v
	}

	out, err := h.svc.List(c.Context(), actor, bc, filters)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get product by id
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Product id"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	out, err := h.svc.GetByID(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update product and reconcile branch assignments
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Product id"
// @Param        body  body  dto.UpdateProductRequest  true  "Fields to update"
// @Success      200   {object}  dto.ProductResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.svc.Update(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete product (refused while sales history exists)
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	if err := h.svc.Delete(c.Context(), GetActor(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkAssign godoc
// @Summary      Assign many products to one branch
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkAssignRequest  true  "Products and target branch"
// @Success      200   {object}  dto.BulkAssignResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products/bulk-assign-branch [post]
func (h *ProductHandler) BulkAssign(c *fiber.Ctx) error {
	var in dto.BulkAssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.svc.BulkAssign(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// BranchDetails godoc
// @Summary      Per-branch assignment rows of a product
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Product id"
// @Success      200  {array}  dto.ProductBranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/branch-details [get]
func (h *ProductHandler) BranchDetails(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	out, err := h.svc.BranchDetails(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
