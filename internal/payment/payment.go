// Package payment describes the payment provider the API stages payments
// with. The server only creates intents; the client completes them with the
// provider's SDK and reports the result itself.
package payment

import "context"

// Intent is a provider-side staged payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"` // minor units (cents)
	Currency     string `json:"currency"`
}

// Gateway creates payment intents.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}
