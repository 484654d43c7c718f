package db

import (
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
)

func TestExtractTableFromOperation(t *testing.T) {
	tests := map[string]string{
		"create invoice":                "invoices",
		"list customers":                "customers",
		"find user by email":            "users",
		"revoke token":                  "revoked_tokens",
		"delete expired revoked tokens": "revoked_tokens",
		"ping":                          "unknown",
	}
	for operation, want := range tests {
		assert.Equal(t, want, extractTableFromOperation(operation), operation)
	}
}

func TestHandleQueryError(t *testing.T) {
	notFound := errors.New("not found")
	start := time.Now()

	assert.NoError(t, HandleQueryError(nil, notFound, "find invoice", start))
	assert.Equal(t, notFound, HandleQueryError(pgx.ErrNoRows, notFound, "find invoice", start))

	err := HandleQueryError(errors.New("boom"), notFound, "find invoice", start)
	assert.EqualError(t, err, "failed to find invoice: boom")
}
