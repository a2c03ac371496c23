package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tijara-app/tijara-api/internal/application/access"
	"github.com/tijara-app/tijara-api/internal/application/branchctx"
	"github.com/tijara-app/tijara-api/internal/application/branches"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

// BranchHandler handles branch HTTP requests (protected).
type BranchHandler struct {
	uc       *branches.UseCase
	resolver *branchctx.Resolver
	checker  *access.Checker
	log      *logger.Logger
}

// NewBranchHandler builds the handler.
func NewBranchHandler(uc *branches.UseCase, resolver *branchctx.Resolver, checker *access.Checker, log *logger.Logger) *BranchHandler {
	return &BranchHandler{uc: uc, resolver: resolver, checker: checker, log: log}
}

// Create godoc
// @Summary      Create branch
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "Branch data"
// @Success      201   {object}  dto.BranchResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if in.Code == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code and name are required"})
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List branches visible to the caller
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BranchListResponse
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Available godoc
// @Summary      Branches the caller may assign products to
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BranchListResponse
// @Router       /api/products/available-branches [get]
func (h *BranchHandler) Available(c *fiber.Ctx) error {
	out, err := h.uc.Available(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get branch by id
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Branch id"
// @Success      200  {object}  dto.BranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [get]
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	out, err := h.uc.GetByID(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update branch
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Branch id"
// @Param        body  body  dto.UpdateBranchRequest  true  "Fields to update"
// @Success      200   {object}  dto.BranchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [put]
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	var in dto.UpdateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Soft-delete branch
// @Tags         branches
// @Security     Bearer
// @Param        id  path  string  true  "Branch id"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [delete]
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id is required"})
	}
	if err := h.uc.Delete(c.Context(), GetActor(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetActive godoc
// @Summary      Switch the caller's working branch
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetActiveBranchRequest  true  "Branch to work in"
// @Success      200   {object}  dto.ActiveBranchResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/branches/active [put]
func (h *BranchHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetActiveBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	if in.BranchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id is required"})
	}
	actor := GetActor(c)
	ok, err := h.checker.CanAccessBranch(actor, in.BranchID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !ok {
		return respondError(c, h.log, domain.ErrForbidden)
	}
	if err := h.resolver.Remember(c.Context(), actor.UserID, in.BranchID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ActiveBranchResponse{BranchID: in.BranchID})
}

// GetActive godoc
// @Summary      The caller's resolved working branch
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ActiveBranchResponse
// @Router       /api/branches/active [get]
func (h *BranchHandler) GetActive(c *fiber.Ctx) error {
	bc, err := h.resolver.Resolve(c.Context(), GetActor(c), c.Query("branch_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ActiveBranchResponse{BranchID: bc.BranchID, All: bc.All})
}
