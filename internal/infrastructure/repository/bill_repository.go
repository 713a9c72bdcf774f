package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create inserts the bill; bill_no comes back from the column's sequence.
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) AttachPDF(ctx context.Context, id uuid.UUID, url string) (*entity.Bill, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Bill{}).
		Where("id = ?", id).
		Update("pdf_url", url)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *billRepository) ListByDevice(ctx context.Context, deviceID string, params *domainRepo.BillFilterParams) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(DeviceScope(deviceID), CreatedWithin(params)).
		Order("created_at DESC, bill_no DESC").Find(&bills).Error
	return bills, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(CreatedWithin(params)).
		Order("created_at DESC, bill_no DESC").Find(&bills).Error
	return bills, err
}
