package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
)

// ErrDuplicate is returned by Create when a product with the same name
// already exists.
var ErrDuplicate = errors.New("repository: duplicate key")

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	// List returns every product ordered by name.
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
