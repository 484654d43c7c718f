package service_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/clock"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	commonerrors "github.com/AlibekovAA/invoice-dashboard/internal/common/errors"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	customerdomain "github.com/AlibekovAA/invoice-dashboard/internal/customer/domain"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
	invoicerepo "github.com/AlibekovAA/invoice-dashboard/internal/invoice/repository"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/service"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type fixture struct {
	repo      *mockInvoiceRepo
	customers *mockCustomerRepo
	ids       *mockIDGenerator
	clock     *clock.MockClock
	svc       *service.InvoiceService
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &mockInvoiceRepo{},
		customers: &mockCustomerRepo{},
		ids:       &mockIDGenerator{},
		clock:     clock.NewMockClock(time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))),
	}
	log := logger.NewWithWriter(io.Discard, "test", "error")
	f.svc = service.NewInvoiceService(f.repo, f.customers, f.ids, f.clock, log)
	return f
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	result := f.svc.Create(context.Background(), service.Form{
		"customerId": "c1",
		"amount":     "45.00",
		"status":     "pending",
	})

	require.True(t, result.OK())
	assert.Equal(t, service.OutcomePersisted, result.Outcome)
	assert.Empty(t, result.State.Errors)
	assert.Empty(t, result.State.Message)
	assert.Equal(t, []service.Signal{
		{Kind: service.SignalRevalidate, Path: constants.InvoicesPath},
		{Kind: service.SignalRedirect, Path: constants.InvoicesPath},
	}, result.Signals)

	require.Len(t, f.repo.created, 1)
	created := f.repo.created[0]
	assert.Equal(t, domain.ID("3958dc9e-712f-4377-85e9-fec4b6a6442a"), created.ID)
	assert.Equal(t, "c1", created.CustomerID)
	assert.Equal(t, int64(4500), created.Amount)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Regexp(t, datePattern, created.Date)
	assert.Equal(t, "2024-03-10", created.Date, "date is taken in UTC")
}

func TestCreate_SubCentAmountStoredAsRounded(t *testing.T) {
	f := newFixture()

	result := f.svc.Create(context.Background(), service.Form{
		"customerId": "c1",
		"amount":     "0.004",
		"status":     "paid",
	})

	require.True(t, result.OK())
	require.Len(t, f.repo.created, 1)
	assert.Equal(t, int64(0), f.repo.created[0].Amount)
}

func TestCreate_MissingCustomer(t *testing.T) {
	f := newFixture()

	result := f.svc.Create(context.Background(), service.Form{
		"customerId": "",
		"amount":     "10",
		"status":     "paid",
	})

	assert.Equal(t, service.OutcomeValidationFailed, result.Outcome)
	assert.Equal(t, service.State{
		Errors:  service.FieldErrors{"customerId": {"Please select a customer."}},
		Message: "Missing fields. Failed to create Invoice.",
	}, result.State)
	assert.Empty(t, result.Signals)
	assert.Zero(t, f.repo.storeCalls())
}

func TestCreate_InvalidInputNeverReachesStore(t *testing.T) {
	forms := map[string]service.Form{
		"zero amount":     {"customerId": "c1", "amount": "0", "status": "paid"},
		"negative amount": {"customerId": "c1", "amount": "-3", "status": "paid"},
		"text amount":     {"customerId": "c1", "amount": "ten", "status": "paid"},
		"bad status":      {"customerId": "c1", "amount": "3", "status": "overdue"},
		"empty form":      {},
	}

	for name, form := range forms {
		t.Run(name, func(t *testing.T) {
			f := newFixture()

			result := f.svc.Create(context.Background(), form)

			assert.Equal(t, service.OutcomeValidationFailed, result.Outcome)
			assert.Equal(t, service.MsgCreateValidationFailed, result.State.Message)
			assert.NotEmpty(t, result.State.Errors)
			assert.Zero(t, f.repo.storeCalls())
		})
	}
}

func TestCreate_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.CreateFunc = func(ctx context.Context, invoice domain.Invoice) error {
		return errors.New("connection refused")
	}

	result := f.svc.Create(context.Background(), validForm())

	assert.Equal(t, service.OutcomePersistFailed, result.Outcome)
	assert.Equal(t, service.State{Message: "Database error: Failed to Create Invoice."}, result.State)
	assert.Empty(t, result.Signals)
	_, redirect := result.RedirectTo()
	assert.False(t, redirect)
	assert.Len(t, f.repo.created, 1, "exactly one insert attempt")
}

func TestCreate_IDGenerationFailure(t *testing.T) {
	f := newFixture()
	f.ids.NewIDFunc = func() (string, error) {
		return "", errors.New("entropy exhausted")
	}

	result := f.svc.Create(context.Background(), validForm())

	assert.Equal(t, service.OutcomePersistFailed, result.Outcome)
	assert.Equal(t, service.MsgCreateFailed, result.State.Message)
	assert.Zero(t, f.repo.storeCalls())
}

func TestUpdate_Success(t *testing.T) {
	f := newFixture()
	var gotID domain.ID
	f.repo.UpdateFunc = func(ctx context.Context, id domain.ID, changes domain.Changes) error {
		gotID = id
		return nil
	}

	result := f.svc.Update(context.Background(), "inv-1", service.Form{
		"customerId": "c2",
		"amount":     "12.5",
		"status":     "paid",
	})

	require.True(t, result.OK())
	assert.Equal(t, domain.ID("inv-1"), gotID)
	require.Len(t, f.repo.updated, 1)
	assert.Equal(t, domain.Changes{
		CustomerID: "c2",
		Amount:     1250,
		Status:     domain.StatusPaid,
	}, f.repo.updated[0])

	redirect, ok := result.RedirectTo()
	require.True(t, ok)
	assert.Equal(t, constants.InvoicesPath, redirect)
	assert.Equal(t, []string{constants.InvoicesPath}, result.RevalidatePaths())
}

func TestUpdate_ValidationFailure(t *testing.T) {
	f := newFixture()

	result := f.svc.Update(context.Background(), "inv-1", service.Form{
		"customerId": "c2",
		"amount":     "12.5",
		"status":     "draft",
	})

	assert.Equal(t, service.OutcomeValidationFailed, result.Outcome)
	assert.Equal(t, "Missing fields. Failed to Update Invoice.", result.State.Message)
	assert.Equal(t, service.FieldErrors{"status": {"Please select an invoice status."}}, result.State.Errors)
	assert.Zero(t, f.repo.storeCalls())
}

func TestUpdate_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.UpdateFunc = func(ctx context.Context, id domain.ID, changes domain.Changes) error {
		return errors.New("deadlock")
	}

	result := f.svc.Update(context.Background(), "inv-1", validForm())

	assert.Equal(t, service.OutcomePersistFailed, result.Outcome)
	assert.Equal(t, service.State{Message: "Database error: Failed to Update Invoice."}, result.State)
	assert.Empty(t, result.Signals)
}

func TestDelete_Success(t *testing.T) {
	f := newFixture()

	result := f.svc.Delete(context.Background(), "inv-9")

	require.True(t, result.OK())
	assert.Equal(t, []domain.ID{"inv-9"}, f.repo.deleted)
	assert.Equal(t, []string{constants.InvoicesPath}, result.RevalidatePaths())
	_, redirect := result.RedirectTo()
	assert.False(t, redirect)
}

func TestDelete_EmptyID(t *testing.T) {
	f := newFixture()

	result := f.svc.Delete(context.Background(), "  ")

	assert.Equal(t, service.OutcomeValidationFailed, result.Outcome)
	assert.Equal(t, service.State{
		Errors:  service.FieldErrors{"id": {"Invoice id is required."}},
		Message: "Missing fields. Failed to Delete Invoice.",
	}, result.State)
	assert.Zero(t, f.repo.storeCalls())
}

func TestDelete_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.DeleteFunc = func(ctx context.Context, id domain.ID) error {
		return errors.New("timeout")
	}

	result := f.svc.Delete(context.Background(), "inv-9")

	assert.Equal(t, service.OutcomePersistFailed, result.Outcome)
	assert.Equal(t, service.State{Message: "Database error: Failed to Delete Invoice."}, result.State)
	assert.Empty(t, result.Signals)
}

func TestGet(t *testing.T) {
	f := newFixture()
	want := domain.Invoice{ID: "inv-1", CustomerID: "c1", Amount: 100, Status: domain.StatusPaid, Date: "2024-01-01"}
	f.repo.FindByIDFunc = func(ctx context.Context, id domain.ID) (domain.Invoice, error) {
		if id == want.ID {
			return want, nil
		}
		return domain.Invoice{}, invoicerepo.ErrInvoiceNotFound
	}

	got, err := f.svc.Get(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, commonerrors.ErrInvoiceNotFound)

	_, err = f.svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, commonerrors.ErrInvoiceNotFound)
}

func TestGet_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.FindByIDFunc = func(ctx context.Context, id domain.ID) (domain.Invoice, error) {
		return domain.Invoice{}, errors.New("boom")
	}

	_, err := f.svc.Get(context.Background(), "inv-1")
	assert.ErrorIs(t, err, commonerrors.ErrInvoiceGetFailed)
}

func TestSearch_Paging(t *testing.T) {
	f := newFixture()
	var gotLimit, gotOffset int
	f.repo.CountFunc = func(ctx context.Context, query string) (int, error) {
		assert.Equal(t, "lee", query)
		return 13, nil
	}
	f.repo.SearchFunc = func(ctx context.Context, query string, limit, offset int) ([]domain.Summary, error) {
		gotLimit, gotOffset = limit, offset
		return []domain.Summary{{CustomerName: "Lee Robinson"}}, nil
	}

	page, err := f.svc.Search(context.Background(), "lee", 2)
	require.NoError(t, err)
	assert.Equal(t, constants.InvoicesPerPage, gotLimit)
	assert.Equal(t, constants.InvoicesPerPage, gotOffset)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "lee", page.Query)
	assert.Len(t, page.Invoices, 1)
}

func TestSearch_ClampsPageAndReturnsEmptySlice(t *testing.T) {
	f := newFixture()

	page, err := f.svc.Search(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Invoices)
}

func TestSearch_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.CountFunc = func(ctx context.Context, query string) (int, error) {
		return 0, errors.New("boom")
	}

	_, err := f.svc.Search(context.Background(), "", 1)
	assert.ErrorIs(t, err, commonerrors.ErrInvoiceSearchFailed)
}

func TestCustomers(t *testing.T) {
	f := newFixture()
	f.customers.ListFunc = func(ctx context.Context) ([]customerdomain.Customer, error) {
		return []customerdomain.Customer{{ID: "c1", Name: "Amy Burns"}}, nil
	}

	customers, err := f.svc.Customers(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	f.customers.ListFunc = func(ctx context.Context) ([]customerdomain.Customer, error) {
		return nil, errors.New("boom")
	}
	_, err = f.svc.Customers(context.Background())
	assert.ErrorIs(t, err, commonerrors.ErrCustomerListFailed)
}
