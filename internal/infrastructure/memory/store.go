// Package memory provides process-local implementations of the domain
// repositories. Data is lost on restart; it backs DB_DRIVER=memory and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-billing-api/internal/domain/repository"
)

// Store keeps products and bills in maps guarded by a single lock.
type Store struct {
	mu       sync.RWMutex
	products map[uuid.UUID]entity.Product
	bills    map[uuid.UUID]entity.Bill
	nextNo   int64
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products: make(map[uuid.UUID]entity.Product),
		bills:    make(map[uuid.UUID]entity.Bill),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for created_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Products returns the store as a ProductRepository.
func (s *Store) Products() domainRepo.ProductRepository {
	return &productRepository{s: s}
}

// Bills returns the store as a BillRepository.
func (s *Store) Bills() domainRepo.BillRepository {
	return &billRepository{s: s}
}

type productRepository struct {
	s *Store
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, product.Name) {
			return ErrDuplicate
		}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = r.s.now()
	r.s.products[product.ID] = *product
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.products, id)
	return nil
}

type billRepository struct {
	s *Store
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	r.s.nextNo++
	bill.BillNo = r.s.nextNo
	bill.CreatedAt = r.s.now()
	r.s.bills[bill.ID] = cloneBill(*bill)
	return nil
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bills[id]
	if !ok {
		return nil, nil
	}
	b = cloneBill(b)
	return &b, nil
}

func (r *billRepository) AttachPDF(ctx context.Context, id uuid.UUID, url string) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bills[id]
	if !ok {
		return nil, nil
	}
	b.PDFURL = &url
	r.s.bills[id] = b
	b = cloneBill(b)
	return &b, nil
}

func (r *billRepository) ListByDevice(ctx context.Context, deviceID string, params *domainRepo.BillFilterParams) ([]entity.Bill, error) {
	if deviceID == "" {
		return []entity.Bill{}, nil
	}
	return r.list(func(b entity.Bill) bool {
		return b.DeviceID == deviceID && within(b.CreatedAt, params)
	}), nil
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, error) {
	return r.list(func(b entity.Bill) bool {
		return within(b.CreatedAt, params)
	}), nil
}

func (r *billRepository) list(keep func(entity.Bill) bool) []entity.Bill {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bills := make([]entity.Bill, 0)
	for _, b := range r.s.bills {
		if keep(b) {
			bills = append(bills, cloneBill(b))
		}
	}
	sort.Slice(bills, func(i, j int) bool {
		if !bills[i].CreatedAt.Equal(bills[j].CreatedAt) {
			return bills[i].CreatedAt.After(bills[j].CreatedAt)
		}
		return bills[i].BillNo > bills[j].BillNo
	})
	return bills
}

func within(t time.Time, params *domainRepo.BillFilterParams) bool {
	if params == nil {
		return true
	}
	if params.StartDate != nil && t.Before(*params.StartDate) {
		return false
	}
	if params.EndDate != nil && !t.Before(*params.EndDate) {
		return false
	}
	return true
}

func cloneBill(b entity.Bill) entity.Bill {
	items := make([]entity.LineItem, len(b.Items))
	copy(items, b.Items)
	b.Items = items
	if b.PDFURL != nil {
		url := *b.PDFURL
		b.PDFURL = &url
	}
	return b
}
