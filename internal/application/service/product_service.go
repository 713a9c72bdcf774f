package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/internal/domain/repository"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/logger"
)

// ProductCache is the read-through cache in front of the product list.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]entity.Product, bool, error)
	SetProducts(ctx context.Context, products []entity.Product) error
	Invalidate(ctx context.Context) error
}

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	cache       ProductCache
}

// NewProductService creates a new product service. cache may be nil.
func NewProductService(productRepo repository.ProductRepository, cache ProductCache) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
	}
}

// ListProducts returns every product ordered by name.
func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	if s.cache != nil {
		products, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			logger.LogError("service", "ListProducts", "cache read", nil, err)
		} else if ok {
			return products, nil
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("fetch products", err)
	}
	if products == nil {
		products = []entity.Product{}
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			logger.LogError("service", "ListProducts", "cache write", nil, err)
		}
	}
	return products, nil
}

// CreateProduct adds a product name. Names are trimmed and unique
// regardless of case.
func (s *ProductService) CreateProduct(ctx context.Context, name string) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Product name is required")
	}

	existing, err := s.productRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.NewPersistenceError("create product", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product already exists")
	}

	product := &entity.Product{Name: name}
	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewConflictError("Product already exists")
		}
		return nil, apperror.NewPersistenceError("create product", err)
	}

	s.invalidate(ctx, "CreateProduct")
	return product, nil
}

// DeleteProduct removes a product. Bills keep their own copy of the name.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewPersistenceError("delete product", err)
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return apperror.NewPersistenceError("delete product", err)
	}

	s.invalidate(ctx, "DeleteProduct")
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, funcName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.LogError("service", funcName, "cache invalidate", nil, err)
	}
}
