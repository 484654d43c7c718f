package service_test

import (
	"context"
	"sync"

	customerdomain "github.com/AlibekovAA/invoice-dashboard/internal/customer/domain"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
)

type mockInvoiceRepo struct {
	mu sync.Mutex

	CreateFunc   func(ctx context.Context, invoice domain.Invoice) error
	UpdateFunc   func(ctx context.Context, id domain.ID, changes domain.Changes) error
	DeleteFunc   func(ctx context.Context, id domain.ID) error
	FindByIDFunc func(ctx context.Context, id domain.ID) (domain.Invoice, error)
	SearchFunc   func(ctx context.Context, query string, limit, offset int) ([]domain.Summary, error)
	CountFunc    func(ctx context.Context, query string) (int, error)

	created []domain.Invoice
	updated []domain.Changes
	deleted []domain.ID
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice domain.Invoice) error {
	m.mu.Lock()
	m.created = append(m.created, invoice)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invoice)
	}
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, id domain.ID, changes domain.Changes) error {
	m.mu.Lock()
	m.updated = append(m.updated, changes)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, changes)
	}
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id domain.ID) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id domain.ID) (domain.Invoice, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return domain.Invoice{}, nil
}

func (m *mockInvoiceRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Summary, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit, offset)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) Count(ctx context.Context, query string) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, query)
	}
	return 0, nil
}

func (m *mockInvoiceRepo) storeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created) + len(m.updated) + len(m.deleted)
}

type mockCustomerRepo struct {
	ListFunc func(ctx context.Context) ([]customerdomain.Customer, error)
}

func (m *mockCustomerRepo) List(ctx context.Context) ([]customerdomain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type mockIDGenerator struct {
	NewIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.NewIDFunc != nil {
		return m.NewIDFunc()
	}
	return "3958dc9e-712f-4377-85e9-fec4b6a6442a", nil
}
