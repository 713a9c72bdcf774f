package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/cart"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/internal/domain/history"
	"github.com/sangkips/pos-billing-api/internal/domain/repository"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/logger"
	"github.com/sangkips/pos-billing-api/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BillService handles bill creation and history queries
type BillService struct {
	billRepo    repository.BillRepository
	receipts    *ReceiptService
	loc         *time.Location
	pdfOnCreate bool
	now         func() time.Time
}

// NewBillService creates a new bill service. With pdfOnCreate set, every new
// bill is rendered and uploaded right after it is stored.
func NewBillService(billRepo repository.BillRepository, receipts *ReceiptService, loc *time.Location, pdfOnCreate bool) *BillService {
	if loc == nil {
		loc = time.Local
	}
	return &BillService{
		billRepo:    billRepo,
		receipts:    receipts,
		loc:         loc,
		pdfOnCreate: pdfOnCreate,
		now:         time.Now,
	}
}

// CreateBillInput is a submitted cart.
type CreateBillInput struct {
	DeviceID     string
	CustomerName string
	Items        []entity.LineItem
	TotalPrice   decimal.Decimal
}

// CreateBillResult carries the stored bill. ReceiptErr reports a receipt
// step that failed after the bill was already saved; the bill stands.
type CreateBillResult struct {
	Bill       *entity.Bill
	ReceiptErr error
}

// CreateBill validates the submitted cart, recomputes every subtotal and
// stores the bill. Once the insert starts it runs to completion even if the
// caller goes away.
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*CreateBillResult, error) {
	if input.DeviceID == "" || len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Device ID and items are required")
	}
	if !input.TotalPrice.IsPositive() {
		return nil, apperror.NewBadRequestError("Valid total price is required")
	}

	c, err := cart.FromItems(input.Items)
	if err != nil {
		return nil, err
	}
	req, err := c.Confirm(input.CustomerName, input.DeviceID)
	if err != nil {
		return nil, err
	}
	// Clients total with floating point, so agreement is checked at the
	// precision the receipt prints. The stored total is always the recomputed one.
	if !req.TotalPrice.Round(2).Equal(input.TotalPrice.Round(2)) {
		return nil, apperror.NewFieldError("total_price", "Total price does not match the sum of item subtotals")
	}

	ctx = context.WithoutCancel(ctx)
	bill := entity.NewBillFromRequest(req)
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, apperror.NewPersistenceError("create bill", err)
	}
	metrics.BillsCreated.Inc()
	logger.GetLogger().WithFields(logrus.Fields{
		"bill_no":   bill.BillNo,
		"device_id": bill.DeviceID,
		"total":     bill.TotalPrice.String(),
	}).Info("bill created")

	result := &CreateBillResult{Bill: bill}
	if s.pdfOnCreate && s.receipts != nil {
		published, err := s.receipts.Publish(ctx, bill)
		if err != nil {
			logger.LogError("service", "CreateBill", "publish receipt", bill.ID, err)
			result.ReceiptErr = err
		} else {
			result.Bill = published.Bill
		}
	}
	return result, nil
}

// GetBill returns one bill by id.
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("fetch bill", err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListDeviceBills returns the bills created by deviceID, newest first.
func (s *BillService) ListDeviceBills(ctx context.Context, deviceID string, sel history.Selection) ([]entity.Bill, error) {
	if deviceID == "" {
		return nil, apperror.NewBadRequestError("Device ID is required")
	}
	bills, err := s.billRepo.ListByDevice(ctx, deviceID, s.filterFor(sel))
	if err != nil {
		return nil, apperror.NewPersistenceError("fetch bills", err)
	}
	return nonNil(bills), nil
}

// ListAllBills returns every bill in the selected window, newest first.
func (s *BillService) ListAllBills(ctx context.Context, sel history.Selection) ([]entity.Bill, error) {
	bills, err := s.billRepo.List(ctx, s.filterFor(sel))
	if err != nil {
		return nil, apperror.NewPersistenceError("fetch bills", err)
	}
	return nonNil(bills), nil
}

// Location is the zone history windows are evaluated in.
func (s *BillService) Location() *time.Location {
	return s.loc
}

func (s *BillService) filterFor(sel history.Selection) *repository.BillFilterParams {
	w := history.WindowFor(sel, s.now(), s.loc)
	return &repository.BillFilterParams{StartDate: w.From, EndDate: w.To}
}

func nonNil(bills []entity.Bill) []entity.Bill {
	if bills == nil {
		return []entity.Bill{}
	}
	return bills
}
