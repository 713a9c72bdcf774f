package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
)

// BillRepository defines the interface for bill data operations.
// Bills are append-only; AttachPDF is the only update.
type BillRepository interface {
	// Create persists the bill and fills in ID, BillNo and CreatedAt.
	// Either the whole bill is stored or nothing is.
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	// AttachPDF sets pdf_url on an existing bill and returns the updated record.
	AttachPDF(ctx context.Context, id uuid.UUID, url string) (*entity.Bill, error)
	// ListByDevice returns the bills created by one device, newest first.
	ListByDevice(ctx context.Context, deviceID string, params *BillFilterParams) ([]entity.Bill, error)
	// List returns all bills, newest first.
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, error)
}

// BillFilterParams narrows bill queries to [StartDate, EndDate). Nil bounds are open.
type BillFilterParams struct {
	StartDate *time.Time
	EndDate   *time.Time
}
