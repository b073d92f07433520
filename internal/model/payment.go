package model

// Payment records a payment the client reports as completed. The server
// never confirms it with the gateway, so TransactionID is whatever the client
// sent.
type Payment struct {
	ID            string  `json:"_id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
	Date          string  `json:"date,omitempty"`

	Extra Extra `json:"-"`
}

type paymentDoc Payment

var paymentKeys = jsonKeys(paymentDoc{})

func (p Payment) MarshalJSON() ([]byte, error) {
	return joinDocument(paymentDoc(p), p.Extra)
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	var doc paymentDoc
	extra, err := splitDocument(data, &doc, paymentKeys)
	if err != nil {
		return err
	}
	*p = Payment(doc)
	p.Extra = extra
	return nil
}
