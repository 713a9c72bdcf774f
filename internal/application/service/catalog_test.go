package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/internal/domain/history"
	"github.com/sangkips/pos-billing-api/internal/domain/repository"
	"github.com/sangkips/pos-billing-api/internal/infrastructure/memory"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
	"github.com/sangkips/pos-billing-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

type fakeCache struct {
	products    []entity.Product
	hits        int
	invalidated int
}

func (c *fakeCache) GetProducts(ctx context.Context) ([]entity.Product, bool, error) {
	if c.products == nil {
		return nil, false, nil
	}
	c.hits++
	return c.products, true, nil
}

func (c *fakeCache) SetProducts(ctx context.Context, products []entity.Product) error {
	c.products = products
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.products = nil
	c.invalidated++
	return nil
}

func TestProductService_CreateAndList(t *testing.T) {
	cache := &fakeCache{}
	svc := NewProductService(memory.NewStore().Products(), cache)
	ctx := context.Background()

	for _, name := range []string{"  Soap ", "Comb"} {
		if _, err := svc.CreateProduct(ctx, name); err != nil {
			t.Fatalf("CreateProduct(%q) error: %v", name, err)
		}
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts error: %v", err)
	}
	if len(products) != 2 || products[0].Name != "Comb" || products[1].Name != "Soap" {
		t.Fatalf("unexpected products %+v", products)
	}
	if _, err := svc.ListProducts(ctx); err != nil || cache.hits != 1 {
		t.Fatalf("second list should be served from cache, hits=%d err=%v", cache.hits, err)
	}
	if cache.invalidated != 2 {
		t.Fatalf("expected 2 invalidations, got %d", cache.invalidated)
	}
}

func TestProductService_CreateRejects(t *testing.T) {
	svc := NewProductService(memory.NewStore().Products(), nil)
	ctx := context.Background()
	if _, err := svc.CreateProduct(ctx, "Soap"); err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}

	cases := []struct {
		name string
		in   string
		code int
		msg  string
	}{
		{"blank", "   ", 400, "Product name is required"},
		{"duplicate", "Soap", 409, "Product already exists"},
		{"duplicate other case", " soap", 409, "Product already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.in)
			if err == nil {
				t.Fatalf("expected error")
			}
			appErr := apperror.GetAppError(err)
			if appErr.Code != tc.code || appErr.Message != tc.msg {
				t.Fatalf("got %d %q", appErr.Code, appErr.Message)
			}
		})
	}

	products, _ := svc.ListProducts(ctx)
	if len(products) != 1 {
		t.Fatalf("rejected products were stored: %+v", products)
	}
}

// staleLookup hides existing rows from GetByName, as happens when two
// requests for the same name check before either has inserted.
type staleLookup struct {
	repository.ProductRepository
}

func (staleLookup) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return nil, nil
}

func TestProductService_CreateConflictOnInsert(t *testing.T) {
	svc := NewProductService(staleLookup{memory.NewStore().Products()}, nil)
	ctx := context.Background()
	if _, err := svc.CreateProduct(ctx, "Soap"); err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}

	_, err := svc.CreateProduct(ctx, "Soap")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 409 {
		t.Fatalf("expected 409, got %d", appErr.Code)
	}
}

func TestProductService_Delete(t *testing.T) {
	svc := NewProductService(memory.NewStore().Products(), nil)
	ctx := context.Background()
	p, err := svc.CreateProduct(ctx, "Soap")
	if err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct error: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(Credentials{Username: "owner", Password: "secret"}, utils.NewJWTManager("test-secret", time.Hour))
	ctx := context.Background()

	out, err := svc.Login(ctx, "owner", "secret", "device_abc")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !out.Session.Authenticated || out.Session.Role != "admin" || out.Session.DeviceID != "device_abc" {
		t.Fatalf("unexpected session %+v", out.Session)
	}

	session, err := svc.Authenticate(out.Token, "device_abc")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if session.Username != "owner" || session.IsExpired(time.Now()) {
		t.Fatalf("unexpected session %+v", session)
	}

	for _, tc := range []struct{ user, pass string }{{"owner", "wrong"}, {"other", "secret"}, {"", ""}} {
		if _, err := svc.Login(ctx, tc.user, tc.pass, "device_abc"); !errors.Is(err, apperror.ErrInvalidLogin) {
			t.Fatalf("Login(%q, %q) expected invalid login, got %v", tc.user, tc.pass, err)
		}
	}
	if _, err := svc.Authenticate("not-a-token", "device_abc"); !errors.Is(err, apperror.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuthService_NoPasswordConfigured(t *testing.T) {
	svc := NewAuthService(Credentials{Username: "owner"}, utils.NewJWTManager("test-secret", time.Hour))
	if _, err := svc.Login(context.Background(), "owner", "", "d"); err == nil {
		t.Fatalf("login without configured password should fail")
	}
}

func TestExportService_Workbook(t *testing.T) {
	env := defaultEnv(t)
	env.bills.pdfOnCreate = false
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := env.bills.CreateBill(ctx, validInput()); err != nil {
			t.Fatalf("CreateBill error: %v", err)
		}
	}

	data, name, err := NewExportService(env.bills).ExportHistory(ctx, history.Selection{Range: history.RangeAll})
	if err != nil {
		t.Fatalf("ExportHistory error: %v", err)
	}
	if len(name) == 0 || name[:10] != "bills_all_" {
		t.Fatalf("unexpected file name %q", name)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader error: %v", err)
	}
	defer f.Close()

	bills, err := f.GetRows("Bills")
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}
	if len(bills) != 4 || bills[0][0] != "Bill No" || bills[1][0] != "2" || bills[2][0] != "1" {
		t.Fatalf("unexpected bill rows %v", bills)
	}
	formula, _ := f.GetCellFormula("Bills", "G4")
	if formula != "SUM(G2:G3)" {
		t.Fatalf("unexpected total formula %q", formula)
	}

	items, _ := f.GetRows("Items")
	if len(items) != 5 || items[1][2] != "Soap" {
		t.Fatalf("unexpected item rows %v", items)
	}

	if style, err := f.GetCellStyle("Bills", "G4"); err != nil || style == 0 {
		t.Fatalf("total row not styled: style=%d err=%v", style, err)
	}
	if width, err := f.GetColWidth("Items", "C"); err != nil || width != 30 {
		t.Fatalf("unexpected product column width %v, err=%v", width, err)
	}
}

func TestFormatSheets_ReturnsWorkbookErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// The default workbook has neither the Bills nor the Items sheet.
	if err := formatSheets(f, 0, 3); err == nil {
		t.Fatalf("expected error for missing sheets")
	}
}

type recordingPrinter struct {
	data []byte
	err  error
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.data = append(p.data[:0], data...)
	return nil
}

func (p *recordingPrinter) IsConnected(ctx context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Kind() string                         { return "network" }

func TestPrinterService_PrintReceipt(t *testing.T) {
	env := defaultEnv(t)
	result, err := env.bills.CreateBill(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateBill error: %v", err)
	}

	p := &recordingPrinter{}
	svc := NewPrinterService(p, env.receipts, 48)
	doc, err := svc.PrintReceipt(context.Background(), result.Bill.ID)
	if err != nil {
		t.Fatalf("PrintReceipt error: %v", err)
	}
	if doc.BillNo != result.Bill.BillNo || !bytes.Contains(p.data, []byte("Kiran Beauty Shop")) {
		t.Fatalf("receipt not sent to printer")
	}

	p.err = errors.New("offline")
	if _, err := svc.TestPrint(context.Background()); apperror.GetAppError(err).Code != 503 {
		t.Fatalf("expected 503, got %v", err)
	}
	if status := svc.GetStatus(context.Background()); !status.Configured || status.Connected {
		t.Fatalf("unexpected status %+v", status)
	}
}
