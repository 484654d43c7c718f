package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%%", likePattern(""))
	assert.Equal(t, "%lee%", likePattern("lee"))
	assert.Equal(t, `%\_%`, likePattern("_"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestIsInvalidID(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"invalid text", &pgconn.PgError{Code: "22P02"}, true},
		{"wrapped invalid text", fmt.Errorf("scan: %w", &pgconn.PgError{Code: "22P02"}), true},
		{"other pg error", &pgconn.PgError{Code: "23505"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isInvalidID(tt.err))
		})
	}
}
