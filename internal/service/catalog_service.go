package service

import (
	"context"
	"errors"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// CatalogService serves product and category reads plus seller-side CRUD.
type CatalogService struct {
	products repository.ProductRepository
}

// NewCatalogService builds the service.
func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ListProducts returns active products matching the filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// GetProduct returns a single product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.products.ListCategories(ctx)
}

// CreateCategory adds a browsing category, admin-only at the route level.
func (s *CatalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	if category.Name == "" || category.Slug == "" {
		return apperrors.NewValidationError("category name and slug are required", nil)
	}
	return s.products.CreateCategory(ctx, category)
}

// CreateProduct adds a catalog entry owned by the seller.
func (s *CatalogService) CreateProduct(ctx context.Context, seller *domain.User, product *domain.Product) error {
	if !seller.HasRole(domain.RoleSeller) {
		return errors.New("only sellers can create products")
	}
	product.SellerID = seller.ID
	product.Active = true
	return s.products.Create(ctx, product)
}

// UpdateProduct modifies a product the seller owns.
func (s *CatalogService) UpdateProduct(ctx context.Context, seller *domain.User, product *domain.Product) error {
	existing, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing.SellerID != seller.ID {
		return errors.New("product not owned by seller")
	}
	product.SellerID = existing.SellerID
	return s.products.Update(ctx, product)
}

// ListSellerProducts returns the seller's own products, active or not.
func (s *CatalogService) ListSellerProducts(ctx context.Context, sellerID string, limit, offset int) ([]domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{
		SellerID:        &sellerID,
		IncludeInactive: true,
		Limit:           limit,
		Offset:          offset,
	})
}
