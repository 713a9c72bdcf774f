package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/internal/infrastructure/memory"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/receipt"
	"github.com/shopspring/decimal"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fakeUploader struct {
	mu   sync.Mutex
	err  error
	keys []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) || contentType != "application/pdf" {
		return "", errors.New("unexpected upload payload")
	}
	u.keys = append(u.keys, key)
	return "https://files.example.com/bill/" + key, nil
}

type failingRenderer struct{}

func (failingRenderer) Render(*receipt.Document) ([]byte, error) {
	return nil, errors.New("render failed")
}

type testEnv struct {
	store    *memory.Store
	uploader *fakeUploader
	receipts *ReceiptService
	bills    *BillService
}

func newTestEnv(t *testing.T, primary, fallback receipt.Renderer) *testEnv {
	t.Helper()
	store := memory.NewStore()
	uploader := &fakeUploader{}
	receipts := NewReceiptService(
		store.Bills(),
		receipt.NewGenerator(primary, fallback),
		receipt.NewHTMLRenderer(148),
		uploader,
		ReceiptOptions{
			Header:     receipt.Header{ShopName: "Kiran Beauty Shop", Tagline: "--- Shine with Elegance ---"},
			Symbol:     "Rs.",
			Currency:   "INR",
			PayeeID:    "q458853545@ybl",
			Disclaimer: []string{"Fixed Rate", "No Return", "No Replacement"},
			Footer:     []string{"Thank you for shopping with us", "Visit Again"},
			Location:   ist,
		},
	)
	return &testEnv{
		store:    store,
		uploader: uploader,
		receipts: receipts,
		bills:    NewBillService(store.Bills(), receipts, ist, true),
	}
}

func defaultEnv(t *testing.T) *testEnv {
	return newTestEnv(t, receipt.NewImageRasterizer(0, 148), receipt.TextLayout{})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validInput() *CreateBillInput {
	return &CreateBillInput{
		DeviceID:     "device_abc123xyz",
		CustomerName: "Asha",
		Items: []entity.LineItem{
			{ProductName: "Soap", Quantity: 2, UnitPrice: dec("10.5")},
			{ProductName: "Comb", Quantity: 3, UnitPrice: dec("0.1")},
		},
		TotalPrice: dec("21.3"),
	}
}

func countBills(t *testing.T, env *testEnv) int {
	t.Helper()
	all, err := env.store.Bills().List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	return len(all)
}

func TestCreateBill_StoresAndPublishes(t *testing.T) {
	env := defaultEnv(t)
	result, err := env.bills.CreateBill(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	bill := result.Bill
	if bill.BillNo != 1 || bill.DeviceID != "device_abc123xyz" || bill.CustomerName != "Asha" {
		t.Fatalf("unexpected bill %+v", bill)
	}
	if !bill.TotalPrice.Equal(entity.SumSubtotals(bill.Items)) {
		t.Fatalf("total %s does not equal item sum", bill.TotalPrice)
	}
	if result.ReceiptErr != nil {
		t.Fatalf("unexpected receipt error: %v", result.ReceiptErr)
	}
	if !bill.HasPDF() {
		t.Fatalf("pdf_url not attached")
	}
	if len(env.uploader.keys) != 1 || !strings.HasPrefix(env.uploader.keys[0], "bill_"+bill.ID.String()+"_") {
		t.Fatalf("unexpected upload keys %v", env.uploader.keys)
	}

	stored, _ := env.store.Bills().GetByID(context.Background(), bill.ID)
	if !stored.HasPDF() || *stored.PDFURL != *bill.PDFURL {
		t.Fatalf("stored bill missing pdf_url")
	}
}

func TestCreateBill_RecomputesSubtotals(t *testing.T) {
	env := defaultEnv(t)
	in := validInput()
	in.Items[0].Subtotal = dec("999")
	result, err := env.bills.CreateBill(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	if !result.Bill.Items[0].Subtotal.Equal(dec("21")) {
		t.Fatalf("client subtotal was trusted: %s", result.Bill.Items[0].Subtotal)
	}
}

func TestCreateBill_WalkInCustomer(t *testing.T) {
	env := defaultEnv(t)
	in := validInput()
	in.CustomerName = "  "
	result, err := env.bills.CreateBill(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	if result.Bill.CustomerName != entity.WalkInCustomer {
		t.Fatalf("expected walk-in label, got %q", result.Bill.CustomerName)
	}
}

func TestCreateBill_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateBillInput)
		kind    apperror.Kind
		message string
	}{
		{"empty items", func(in *CreateBillInput) { in.Items = nil }, apperror.KindBadRequest, "Device ID and items are required"},
		{"missing device", func(in *CreateBillInput) { in.DeviceID = "" }, apperror.KindBadRequest, "Device ID and items are required"},
		{"zero total", func(in *CreateBillInput) { in.TotalPrice = decimal.Zero }, apperror.KindBadRequest, "Valid total price is required"},
		{"negative total", func(in *CreateBillInput) { in.TotalPrice = dec("-1") }, apperror.KindBadRequest, "Valid total price is required"},
		{"total mismatch", func(in *CreateBillInput) { in.TotalPrice = dec("21.31") }, apperror.KindValidation, ""},
		{"zero quantity", func(in *CreateBillInput) { in.Items[1].Quantity = 0 }, apperror.KindValidation, ""},
		{"blank product", func(in *CreateBillInput) { in.Items[0].ProductName = " " }, apperror.KindValidation, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := defaultEnv(t)
			in := validInput()
			tc.mutate(in)

			_, err := env.bills.CreateBill(context.Background(), in)
			if err == nil {
				t.Fatalf("expected %s error", tc.kind)
			}
			appErr := apperror.GetAppError(err)
			if appErr.Kind != tc.kind || appErr.Code != 400 {
				t.Fatalf("expected %s 400, got %v", tc.kind, err)
			}
			if tc.message != "" && appErr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, appErr.Message)
			}
			if n := countBills(t, env); n != 0 {
				t.Fatalf("expected no bill stored, got %d", n)
			}
		})
	}
}

func TestCreateBill_AcceptsTotalWithinReceiptPrecision(t *testing.T) {
	for _, total := range []string{"21.3", "21.300000000000001", "21.29999999999999"} {
		t.Run(total, func(t *testing.T) {
			env := defaultEnv(t)
			in := validInput()
			in.TotalPrice = dec(total)
			result, err := env.bills.CreateBill(context.Background(), in)
			if err != nil {
				t.Fatalf("CreateBill error: %v", err)
			}
			if !result.Bill.TotalPrice.Equal(dec("21.3")) {
				t.Fatalf("expected recomputed total 21.3, got %s", result.Bill.TotalPrice)
			}
		})
	}
}

func TestCreateBill_SurvivesCancelledRequest(t *testing.T) {
	env := defaultEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := env.bills.CreateBill(ctx, validInput()); err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	if countBills(t, env) != 1 {
		t.Fatalf("bill not stored after cancellation")
	}
}

func TestCreateBill_UploadFailureIsSwallowed(t *testing.T) {
	env := defaultEnv(t)
	env.uploader.err = errors.New("bucket unavailable")

	result, err := env.bills.CreateBill(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	if result.ReceiptErr != nil {
		t.Fatalf("upload failure should not be reported, got %v", result.ReceiptErr)
	}
	if result.Bill.HasPDF() {
		t.Fatalf("pdf_url set despite failed upload")
	}
}

func TestCreateBill_RasterFailureFallsBack(t *testing.T) {
	env := newTestEnv(t, failingRenderer{}, receipt.TextLayout{})
	result, err := env.bills.CreateBill(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	if result.ReceiptErr != nil || !result.Bill.HasPDF() {
		t.Fatalf("fallback layout was not used: %v", result.ReceiptErr)
	}
}

func TestCreateBill_RenderFailureKeepsBill(t *testing.T) {
	env := newTestEnv(t, failingRenderer{}, failingRenderer{})
	result, err := env.bills.CreateBill(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	if !errors.Is(result.ReceiptErr, apperror.ErrRender) {
		t.Fatalf("expected render error, got %v", result.ReceiptErr)
	}
	if result.Bill.HasPDF() || countBills(t, env) != 1 {
		t.Fatalf("bill should be stored without pdf_url")
	}
}

func TestBuildDocument_SurfacesAgree(t *testing.T) {
	env := defaultEnv(t)
	result, err := env.bills.CreateBill(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}
	bill := result.Bill
	bill.CreatedAt = time.Date(2024, time.March, 12, 20, 0, 0, 0, time.UTC)

	doc := env.receipts.BuildDocument(bill)
	if doc.Date != "13/03/2024" {
		t.Fatalf("date should be in shop zone, got %s", doc.Date)
	}
	if doc.Total != "21.30" || doc.Summary().Total != doc.Total || doc.Payment.Amount != doc.Total {
		t.Fatalf("totals disagree: %+v", doc)
	}
	if doc.Rows[1].Index != 2 || doc.Rows[1].UnitPrice != "0.10" || doc.Rows[1].Subtotal != "0.30" {
		t.Fatalf("unexpected row %+v", doc.Rows[1])
	}

	page, err := env.receipts.PrintHTML(context.Background(), bill.ID)
	if err != nil {
		t.Fatalf("PrintHTML error: %v", err)
	}
	if !strings.Contains(string(page), "Total: Rs. 21.30") {
		t.Fatalf("print page total differs")
	}

	summary, err := env.receipts.Summary(context.Background(), bill.ID)
	if err != nil || summary.Total != "21.30" || summary.BillNo != bill.BillNo {
		t.Fatalf("unexpected summary %+v, %v", summary, err)
	}
}

func TestBuildDocument_NoCustomerAndFixedQRAmount(t *testing.T) {
	env := defaultEnv(t)
	env.receipts.opts.QRFixedAmount = "50"
	doc := env.receipts.BuildDocument(&entity.Bill{BillNo: 3, TotalPrice: dec("12"), CreatedAt: time.Now()})
	if doc.Customer != receipt.NoCustomer {
		t.Fatalf("expected placeholder customer, got %q", doc.Customer)
	}
	if doc.Payment.Amount != "50" || doc.Total != "12.00" {
		t.Fatalf("unexpected payment %+v", doc.Payment)
	}
}

func TestReceipt_UnknownBill(t *testing.T) {
	env := defaultEnv(t)
	_, err := env.receipts.Summary(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
