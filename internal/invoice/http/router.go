package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/dto"
	commonhttp "github.com/AlibekovAA/invoice-dashboard/internal/common/http"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/jwtverify"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/mapper"
	customerdomain "github.com/AlibekovAA/invoice-dashboard/internal/customer/domain"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/service"
	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/viewcache"
)

const (
	invoicesPath  = "/api/invoices"
	invoicePrefix = "/api/invoices/"
	customersPath = "/api/customers"
)

type InvoiceService interface {
	Create(ctx context.Context, form service.Form) service.Result
	Update(ctx context.Context, id string, form service.Form) service.Result
	Delete(ctx context.Context, id string) service.Result
	Get(ctx context.Context, id string) (domain.Invoice, error)
	Search(ctx context.Context, query string, page int) (service.Page, error)
	Customers(ctx context.Context) ([]customerdomain.Customer, error)
}

// ViewCache stores rendered list pages and drops them on revalidation.
type ViewCache interface {
	Get(key string) ([]byte, bool)
	Generation() uint64
	SetIfCurrent(key string, body []byte, gen uint64) bool
	Invalidate(path string) int
}

type redirectResponse struct {
	RedirectTo string `json:"redirect_to"`
}

type Handler struct {
	invoices InvoiceService
	cache    ViewCache
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

func NewHandler(invoices InvoiceService, cache ViewCache, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		invoices: invoices,
		cache:    cache,
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
	}

	timeout := commonhttp.WithTimeout(requestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc(invoicesPath, timeout(h.invoicesCollection))
	mux.HandleFunc(invoicePrefix, timeout(h.invoiceItem))
	mux.HandleFunc(customersPath, commonhttp.RequireMethod(http.MethodGet)(timeout(h.listCustomers)))
	return mux
}

func (h *Handler) invoicesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.searchInvoices(w, r)
	case http.MethodPost:
		h.createInvoice(w, r)
	default:
		h.methodNotAllowed(w, r, "GET, POST")
	}
}

func (h *Handler) invoiceItem(w http.ResponseWriter, r *http.Request) {
	id, ok := commonhttp.ExtractIDFromPath(r.URL.Path, invoicePrefix)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeInvalidPath, "invalid invoice path", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getInvoice(w, r, id)
	case http.MethodPut:
		h.updateInvoice(w, r, id)
	case http.MethodDelete:
		h.deleteInvoice(w, r, id)
	default:
		h.methodNotAllowed(w, r, "GET, PUT, DELETE")
	}
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	form, err := commonhttp.DecodeForm(r)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "invoice_create_decode_failed",
		}).Warnf("create invoice: decode form: %v", err)
		commonhttp.WriteDecodeError(w, r, err)
		return
	}

	result := h.invoices.Create(r.Context(), service.Form(form))
	h.logMutation(r, "create", "", result)
	h.writeResult(w, result, http.StatusCreated)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request, id string) {
	form, err := commonhttp.DecodeForm(r)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"invoice_id": id,
			"action":     "invoice_update_decode_failed",
		}).Warnf("update invoice: decode form: %v", err)
		commonhttp.WriteDecodeError(w, r, err)
		return
	}

	result := h.invoices.Update(r.Context(), id, service.Form(form))
	h.logMutation(r, "update", id, result)
	h.writeResult(w, result, http.StatusOK)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request, id string) {
	result := h.invoices.Delete(r.Context(), id)
	h.logMutation(r, "delete", id, result)
	h.writeResult(w, result, http.StatusNoContent)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request, id string) {
	invoice, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.InvoiceToDTO(invoice))
}

// searchInvoices serves the list view, reusing a cached rendering until a
// mutation revalidates the invoices path.
func (h *Handler) searchInvoices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	key := cacheKey(query, page)
	if body, ok := h.cache.Get(key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	gen := h.cache.Generation()
	result, err := h.invoices.Search(r.Context(), query, page)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	body, err := json.Marshal(dto.InvoicePage{
		Invoices:   mapper.InvoiceSummariesToDTO(result.Invoices),
		Query:      result.Query,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.cache.SetIfCurrent(key, body, gen)
	writeRawJSON(w, http.StatusOK, body)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.invoices.Customers(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.CustomersToDTO(customers))
}

// logMutation records who attempted a mutation and how it ended.
func (h *Handler) logMutation(r *http.Request, operation, invoiceID string, result service.Result) {
	fields := logger.Fields{
		"operation": operation,
		"outcome":   string(result.Outcome),
		"action":    "invoice_mutation",
	}
	if claims, ok := jwtverify.FromContext(r.Context()); ok {
		fields["user_id"] = claims.UserID
	}
	if invoiceID != "" {
		fields["invoice_id"] = invoiceID
	}
	h.log.WithFields(r.Context(), fields).Info("invoice mutation handled")
}

// writeResult applies the result's signals before answering: stale views are
// dropped first so the redirect target renders fresh data.
func (h *Handler) writeResult(w http.ResponseWriter, result service.Result, successStatus int) {
	switch result.Outcome {
	case service.OutcomeValidationFailed:
		commonhttp.WriteJSON(w, http.StatusUnprocessableEntity, result.State)
		return
	case service.OutcomePersistFailed:
		commonhttp.WriteJSON(w, http.StatusInternalServerError, result.State)
		return
	}

	for _, path := range result.RevalidatePaths() {
		h.cache.Invalidate(path)
	}

	if target, ok := result.RedirectTo(); ok {
		w.Header().Set("Location", target)
		commonhttp.WriteJSON(w, successStatus, redirectResponse{RedirectTo: target})
		return
	}

	w.WriteHeader(successStatus)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
}

func cacheKey(query string, page int) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if query != "" {
		values.Set("query", query)
	}
	return viewcache.Key(constants.InvoicesPath, values.Encode())
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
