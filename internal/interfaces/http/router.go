package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tijara-app/tijara-api/internal/application/access"
	"github.com/tijara-app/tijara-api/internal/application/auth"
	"github.com/tijara-app/tijara-api/internal/application/branchctx"
	"github.com/tijara-app/tijara-api/internal/application/branches"
	"github.com/tijara-app/tijara-api/internal/application/products"
	"github.com/tijara-app/tijara-api/internal/application/tenants"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	TenantUC   *tenants.UseCase
	AuthUC     *auth.UseCase
	BranchUC   *branches.UseCase
	ProductSvc *products.Service
	Resolver   *branchctx.Resolver
	Checker    *access.Checker
	Log        *logger.Logger
	JWTSecret  string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Tenants (public onboarding; lookup is open for the registration flow)
	tenantsGroup := api.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC, deps.Log)
	tenantsGroup.Get("/", tenantHandler.List)
	tenantsGroup.Post("/", tenantHandler.Create)
	tenantsGroup.Get("/:id", tenantHandler.GetByID)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Branches (protected; writes are gated to admin roles)
	branchesGroup := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC, deps.Resolver, deps.Checker, deps.Log)
	adminOnly := RequireRole(entity.RoleSuperAdmin, entity.RoleOwner, entity.RoleAdmin)
	branchesGroup.Post("/", adminOnly, branchHandler.Create)
	branchesGroup.Get("/", branchHandler.List)
	branchesGroup.Get("/active", branchHandler.GetActive)
	branchesGroup.Put("/active", branchHandler.SetActive)
	branchesGroup.Get("/:id", branchHandler.GetByID)
	branchesGroup.Put("/:id", adminOnly, branchHandler.Update)
	branchesGroup.Delete("/:id", adminOnly, branchHandler.Delete)

	// Products (protected)
	productsGroup := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductSvc, deps.Resolver, deps.Log)
	productsGroup.Post("/", productHandler.Create)
	productsGroup.Get("/", productHandler.List)
	productsGroup.Post("/bulk-assign-branch", productHandler.BulkAssign)
	productsGroup.Get("/available-branches", branchHandler.Available)
	productsGroup.Get("/:id", productHandler.GetByID)
	productsGroup.Put("/:id", productHandler.Update)
	productsGroup.Delete("/:id", productHandler.Delete)
	productsGroup.Get("/:id/branch-details", productHandler.BranchDetails)
}
