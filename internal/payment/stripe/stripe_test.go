package stripe_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sustaineats/internal/payment/stripe"
)

func newFakeStripe(t *testing.T, status int, body string, seen *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*seen = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := stripe.New(stripe.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestGateway_CreateIntent(t *testing.T) {
	var seen http.Request
	srv := newFakeStripe(t, http.StatusOK,
		`{"id":"pi_123","object":"payment_intent","client_secret":"pi_123_secret_abc","amount":1000,"currency":"usd"}`,
		&seen,
	)

	g, err := stripe.New(stripe.Config{SecretKey: "sk_test_123", BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	intent, err := g.CreateIntent(context.Background(), 1000, "usd")
	require.NoError(t, err)

	assert.Equal(t, "/v1/payment_intents", seen.URL.Path)
	assert.Equal(t, "1000", seen.PostForm.Get("amount"))
	assert.Equal(t, "usd", seen.PostForm.Get("currency"))
	assert.Equal(t, "true", seen.PostForm.Get("automatic_payment_methods[enabled]"))

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, int64(1000), intent.Amount)
}

func TestGateway_CreateIntentRejected(t *testing.T) {
	var seen http.Request
	srv := newFakeStripe(t, http.StatusBadRequest,
		`{"error":{"type":"invalid_request_error","code":"amount_too_small","message":"Amount must be at least $0.50 usd"}}`,
		&seen,
	)

	g, err := stripe.New(stripe.Config{SecretKey: "sk_test_123", BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, err = g.CreateIntent(context.Background(), 10, "usd")
	assert.Error(t, err)
}
