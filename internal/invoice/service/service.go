package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/clock"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/invoice-dashboard/internal/common/crypto"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/db"
	commonerrors "github.com/AlibekovAA/invoice-dashboard/internal/common/errors"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	customerdomain "github.com/AlibekovAA/invoice-dashboard/internal/customer/domain"
	customerrepo "github.com/AlibekovAA/invoice-dashboard/internal/customer/repository"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
	invoicerepo "github.com/AlibekovAA/invoice-dashboard/internal/invoice/repository"
)

const (
	MsgCreateValidationFailed = "Missing fields. Failed to create Invoice."
	MsgUpdateValidationFailed = "Missing fields. Failed to Update Invoice."
	MsgDeleteValidationFailed = "Missing fields. Failed to Delete Invoice."
	MsgCreateFailed           = "Database error: Failed to Create Invoice."
	MsgUpdateFailed           = "Database error: Failed to Update Invoice."
	MsgDeleteFailed           = "Database error: Failed to Delete Invoice."
)

const (
	operationCreate = "create"
	operationUpdate = "update"
	operationDelete = "delete"
)

// Page is one page of the invoice list.
type Page struct {
	Invoices   []domain.Summary
	Query      string
	Page       int
	TotalPages int
}

type InvoiceService struct {
	repo        invoicerepo.Repository
	customers   customerrepo.Repository
	validator   *InvoiceValidator
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	retry       db.RetryConfig
	log         *logger.Logger
}

func NewInvoiceService(
	repo invoicerepo.Repository,
	customers customerrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clock clock.Clock,
	log *logger.Logger,
) *InvoiceService {
	return &InvoiceService{
		repo:        repo,
		customers:   customers,
		validator:   NewInvoiceValidator(),
		idGenerator: idGenerator,
		clock:       clock,
		retry:       db.DefaultRetryConfig,
		log:         log,
	}
}

// Create validates form and inserts one invoice dated today (UTC).
func (s *InvoiceService) Create(ctx context.Context, form Form) Result {
	fields, errs := s.validator.Validate(form)
	if len(errs) > 0 {
		s.logValidationFailed(ctx, operationCreate, "", errs)
		return s.record(operationCreate, validationFailed(errs, MsgCreateValidationFailed))
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.logPersistFailed(ctx, operationCreate, "", err)
		return s.record(operationCreate, persistFailed(MsgCreateFailed))
	}

	invoice := domain.Invoice{
		ID:         domain.ID(id),
		CustomerID: fields.CustomerID,
		Amount:     fields.Amount,
		Status:     fields.Status,
		Date:       s.clock.Now().UTC().Format(domain.DateLayout),
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		s.logPersistFailed(ctx, operationCreate, id, err)
		return s.record(operationCreate, persistFailed(MsgCreateFailed))
	}

	s.log.WithFields(ctx, logger.Fields{
		"invoice_id": id,
		"action":     "invoice_created",
	}).Info("invoice created")

	return s.record(operationCreate, persisted(revalidateInvoices(), redirectInvoices()))
}

// Update validates form and overwrites customer, amount and status of id.
// Whether id exists is left to the store.
func (s *InvoiceService) Update(ctx context.Context, id string, form Form) Result {
	fields, errs := s.validator.Validate(form)
	if len(errs) > 0 {
		s.logValidationFailed(ctx, operationUpdate, id, errs)
		return s.record(operationUpdate, validationFailed(errs, MsgUpdateValidationFailed))
	}

	changes := domain.Changes{
		CustomerID: fields.CustomerID,
		Amount:     fields.Amount,
		Status:     fields.Status,
	}

	if err := s.repo.Update(ctx, domain.ID(id), changes); err != nil {
		s.logPersistFailed(ctx, operationUpdate, id, err)
		return s.record(operationUpdate, persistFailed(MsgUpdateFailed))
	}

	s.log.WithFields(ctx, logger.Fields{
		"invoice_id": id,
		"action":     "invoice_updated",
	}).Info("invoice updated")

	return s.record(operationUpdate, persisted(revalidateInvoices(), redirectInvoices()))
}

// Delete removes id. It revalidates the list but does not redirect.
func (s *InvoiceService) Delete(ctx context.Context, id string) Result {
	if strings.TrimSpace(id) == "" {
		errs := FieldErrors{FieldID: {MsgIDRequired}}
		s.logValidationFailed(ctx, operationDelete, id, errs)
		return s.record(operationDelete, validationFailed(errs, MsgDeleteValidationFailed))
	}

	if err := s.repo.Delete(ctx, domain.ID(id)); err != nil {
		s.logPersistFailed(ctx, operationDelete, id, err)
		return s.record(operationDelete, persistFailed(MsgDeleteFailed))
	}

	s.log.WithFields(ctx, logger.Fields{
		"invoice_id": id,
		"action":     "invoice_deleted",
	}).Info("invoice deleted")

	return s.record(operationDelete, persisted(revalidateInvoices()))
}

func (s *InvoiceService) Get(ctx context.Context, id string) (domain.Invoice, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Invoice{}, commonerrors.ErrInvoiceNotFound
	}

	var invoice domain.Invoice
	err := db.RetryWithBackoff(ctx, s.log, s.retry, func() error {
		var findErr error
		invoice, findErr = s.repo.FindByID(ctx, domain.ID(id))
		return findErr
	})
	if err != nil {
		if errors.Is(err, invoicerepo.ErrInvoiceNotFound) {
			return domain.Invoice{}, commonerrors.ErrInvoiceNotFound
		}
		return domain.Invoice{}, commonerrors.ErrInvoiceGetFailed.WithCause(err)
	}

	return invoice, nil
}

// Search returns the requested page of invoices matching query. Pages are
// 1-based; anything below 1 is treated as the first page.
func (s *InvoiceService) Search(ctx context.Context, query string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	perPage := constants.InvoicesPerPage

	var (
		total    int
		invoices []domain.Summary
	)
	err := db.RetryWithBackoff(ctx, s.log, s.retry, func() error {
		var countErr error
		total, countErr = s.repo.Count(ctx, query)
		if countErr != nil {
			return countErr
		}
		var searchErr error
		invoices, searchErr = s.repo.Search(ctx, query, perPage, (page-1)*perPage)
		return searchErr
	})
	if err != nil {
		return Page{}, commonerrors.ErrInvoiceSearchFailed.WithCause(err)
	}

	if invoices == nil {
		invoices = []domain.Summary{}
	}

	return Page{
		Invoices:   invoices,
		Query:      query,
		Page:       page,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

func (s *InvoiceService) Customers(ctx context.Context) ([]customerdomain.Customer, error) {
	var customers []customerdomain.Customer
	err := db.RetryWithBackoff(ctx, s.log, s.retry, func() error {
		var listErr error
		customers, listErr = s.customers.List(ctx)
		return listErr
	})
	if err != nil {
		return nil, commonerrors.ErrCustomerListFailed.WithCause(err)
	}
	if customers == nil {
		customers = []customerdomain.Customer{}
	}
	return customers, nil
}

func (s *InvoiceService) record(operation string, result Result) Result {
	incrementMutation(operation, result.Outcome)
	return result
}

func (s *InvoiceService) logValidationFailed(ctx context.Context, operation, id string, errs FieldErrors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	s.log.WithFields(ctx, logger.Fields{
		"invoice_id": id,
		"fields":     strings.Join(fields, ","),
		"action":     "invoice_" + operation + "_validation_failed",
	}).Debug("invoice validation failed")
}

// logPersistFailed keeps the store cause in the log only; callers see the
// generic database message.
func (s *InvoiceService) logPersistFailed(ctx context.Context, operation, id string, err error) {
	s.log.WithFields(ctx, logger.Fields{
		"invoice_id": id,
		"action":     "invoice_" + operation + "_failed",
	}).Errorf("invoice %s failed: %v", operation, err)
}

func revalidateInvoices() Signal {
	return Signal{Kind: SignalRevalidate, Path: constants.InvoicesPath}
}

func redirectInvoices() Signal {
	return Signal{Kind: SignalRedirect, Path: constants.InvoicesPath}
}
