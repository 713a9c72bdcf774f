package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/internal/domain/repository"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/logger"
	"github.com/sangkips/pos-billing-api/pkg/metrics"
	"github.com/sangkips/pos-billing-api/pkg/receipt"
)

const pdfContentType = "application/pdf"

// Uploader stores rendered receipts and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ReceiptOptions is the shop-specific text and formatting of every receipt.
type ReceiptOptions struct {
	Header     receipt.Header
	Symbol     string
	Currency   string
	PayeeID    string
	Disclaimer []string
	Footer     []string
	// QRFixedAmount overrides the bill total in the payment link when set.
	QRFixedAmount string
	Location      *time.Location
}

// ReceiptService renders a stored bill into its summary, print page and PDF.
type ReceiptService struct {
	billRepo  repository.BillRepository
	generator *receipt.Generator
	html      *receipt.HTMLRenderer
	uploader  Uploader
	opts      ReceiptOptions
	now       func() time.Time
}

// NewReceiptService creates a new receipt service. uploader may be nil, in
// which case PDFs are never attached.
func NewReceiptService(
	billRepo repository.BillRepository,
	generator *receipt.Generator,
	html *receipt.HTMLRenderer,
	uploader Uploader,
	opts ReceiptOptions,
) *ReceiptService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &ReceiptService{
		billRepo:  billRepo,
		generator: generator,
		html:      html,
		uploader:  uploader,
		opts:      opts,
		now:       time.Now,
	}
}

// BuildDocument maps a bill onto the canonical receipt document. Amounts are
// formatted to two decimals here and nowhere else.
func (s *ReceiptService) BuildDocument(bill *entity.Bill) *receipt.Document {
	rows := make([]receipt.Row, len(bill.Items))
	for i, item := range bill.Items {
		rows[i] = receipt.Row{
			Index:     i + 1,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: receipt.Amount(item.UnitPrice),
			Subtotal:  receipt.Amount(item.Subtotal),
		}
	}

	total := receipt.Amount(bill.TotalPrice)
	qrAmount := total
	if s.opts.QRFixedAmount != "" {
		qrAmount = s.opts.QRFixedAmount
	}

	return &receipt.Document{
		Header:     s.opts.Header,
		BillNo:     bill.BillNo,
		Date:       bill.CreatedAt.In(s.opts.Location).Format("02/01/2006"),
		Customer:   receipt.CustomerLabel(bill.CustomerName),
		Rows:       rows,
		Total:      total,
		Symbol:     s.opts.Symbol,
		Disclaimer: s.opts.Disclaimer,
		Footer:     s.opts.Footer,
		Payment: receipt.Payment{
			PayeeID:   s.opts.PayeeID,
			PayeeName: s.opts.Header.ShopName,
			Amount:    qrAmount,
			Currency:  s.opts.Currency,
		},
	}
}

// Summary returns the on-screen confirmation for a bill.
func (s *ReceiptService) Summary(ctx context.Context, id uuid.UUID) (*receipt.Summary, error) {
	bill, err := s.getBill(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := s.BuildDocument(bill).Summary()
	return &summary, nil
}

// PrintHTML renders the print page for a bill.
func (s *ReceiptService) PrintHTML(ctx context.Context, id uuid.UUID) ([]byte, error) {
	bill, err := s.getBill(ctx, id)
	if err != nil {
		return nil, err
	}
	page, err := s.html.Render(s.BuildDocument(bill))
	if err != nil {
		return nil, apperror.NewRenderError(err)
	}
	return page, nil
}

// PDF renders a bill's PDF without storing it.
func (s *ReceiptService) PDF(ctx context.Context, id uuid.UUID) ([]byte, *entity.Bill, error) {
	bill, err := s.getBill(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.RenderPDF(bill)
	if err != nil {
		return nil, nil, err
	}
	return data, bill, nil
}

// RenderPDF runs the raster layout with the text layout as fallback.
func (s *ReceiptService) RenderPDF(bill *entity.Bill) ([]byte, error) {
	out, err := s.generator.Render(s.BuildDocument(bill))
	if err != nil {
		metrics.ReceiptRenderFailures.Inc()
		return nil, apperror.NewRenderError(err)
	}
	if out.Fallback {
		metrics.ReceiptRenders.WithLabelValues("text").Inc()
		logger.LogError("service", "RenderPDF", "raster layout failed, used text layout", bill.ID, out.PrimaryErr)
	} else {
		metrics.ReceiptRenders.WithLabelValues("raster").Inc()
	}
	return out.Data, nil
}

// PublishResult is the outcome of rendering and uploading a receipt.
type PublishResult struct {
	Bill     *entity.Bill
	Uploaded bool
}

// Publish renders the bill's PDF, uploads it and records the URL on the
// bill. A failed upload is logged and skipped: the bill is returned without
// a pdf_url and no error.
func (s *ReceiptService) Publish(ctx context.Context, bill *entity.Bill) (*PublishResult, error) {
	data, err := s.RenderPDF(bill)
	if err != nil {
		return nil, err
	}

	if s.uploader == nil {
		return &PublishResult{Bill: bill}, nil
	}

	key := fmt.Sprintf("bill_%s_%d.pdf", bill.ID, s.now().UnixMilli())
	url, err := s.uploader.Upload(ctx, key, data, pdfContentType)
	if err != nil {
		metrics.ReceiptUploadFailures.Inc()
		logger.LogError("service", "Publish", "upload receipt", key, apperror.NewUploadError(err))
		return &PublishResult{Bill: bill}, nil
	}

	updated, err := s.billRepo.AttachPDF(ctx, bill.ID, url)
	if err != nil {
		return nil, apperror.NewPersistenceError("attach receipt", err)
	}
	if updated == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return &PublishResult{Bill: updated, Uploaded: true}, nil
}

// Regenerate renders and uploads the receipt of a stored bill again.
func (s *ReceiptService) Regenerate(ctx context.Context, id uuid.UUID) (*PublishResult, error) {
	bill, err := s.getBill(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Publish(context.WithoutCancel(ctx), bill)
}

// Document loads a bill and returns its receipt document.
func (s *ReceiptService) Document(ctx context.Context, id uuid.UUID) (*receipt.Document, error) {
	bill, err := s.getBill(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.BuildDocument(bill), nil
}

// FileName is the download name for a bill's PDF.
func FileName(bill *entity.Bill) string {
	return fmt.Sprintf("bill_%d.pdf", bill.BillNo)
}

func (s *ReceiptService) getBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("fetch bill", err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}
