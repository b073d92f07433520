package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sustaineats/internal/apperror"
)

func withEmailParam(raw string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("email", raw)
	req := httptest.NewRequest(http.MethodGet, "/foods/x", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestEmailParam(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"donor@example.com", "donor@example.com"},
		{"donor%40example.com", "donor@example.com"},
		{"first.last%2Btag%40example.com", "first.last+tag@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := emailParam(withEmailParam(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmailParam_BadEscape(t *testing.T) {
	_, err := emailParam(withEmailParam("donor%zzexample.com"))
	assert.True(t, errors.Is(err, apperror.ErrValidation), "error = %v", err)
}
