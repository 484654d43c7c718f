package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrInvoiceSearchFailed.WithCause(cause).WithTraceID("trace-1")

	assert.ErrorIs(t, err, ErrInvoiceSearchFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvoiceGetFailed)
	assert.Equal(t, "trace-1", err.TraceID())
	assert.Equal(t, "failed to fetch invoices: connection reset", err.Error())
}

func TestDomainError_WithCauseDoesNotMutateSentinel(t *testing.T) {
	_ = ErrInvoiceNotFound.WithCause(errors.New("x"))

	assert.Nil(t, ErrInvoiceNotFound.Unwrap())
	assert.Equal(t, "invoice not found", ErrInvoiceNotFound.Error())
}

func TestAsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("get invoice: %w", ErrInvoiceNotFound)

	de, ok := AsDomainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus())
	assert.Equal(t, CategoryNotFound, de.Category())

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsDomainError(errors.New("plain")))
}
