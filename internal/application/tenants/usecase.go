package tenants

import (
	"time"

	"github.com/google/uuid"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

// UseCase tenant onboarding and lookup.
type UseCase struct {
	repo repository.TenantRepository
}

// NewUseCase builds the use case.
func NewUseCase(repo repository.TenantRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create creates a tenant.
func (uc *UseCase) Create(in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	now := time.Now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// GetByID returns a tenant or nil.
func (uc *UseCase) GetByID(id string) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	return toTenantResponse(tenant), nil
}

// List lists tenants with pagination.
func (uc *UseCase) List(limit, offset int) (*dto.TenantListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTenantResponse(t))
	}
	return &dto.TenantListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
