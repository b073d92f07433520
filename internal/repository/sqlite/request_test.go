package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sakif/sustaineats/internal/model"
)

func TestRequests_CreateAndListByRequester(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mine := &model.FoodRequest{
		FoodID:         "food-1",
		RequesterEmail: "alice@example.com",
		RequestDate:    "2026-10-15",
		Extra:          model.Extra{"donationMoney": json.RawMessage(`5`)},
	}
	if err := db.CreateRequest(ctx, mine); err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if mine.ID == "" {
		t.Fatal("CreateRequest() did not set ID")
	}

	// The referenced listing does not exist; requests are stored regardless.
	if err := db.CreateRequest(ctx, &model.FoodRequest{FoodID: "ghost", RequesterEmail: "bob@example.com"}); err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	got, err := db.RequestsByRequester(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestsByRequester() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("RequestsByRequester() returned %d, want 1", len(got))
	}
	if got[0].FoodID != "food-1" || string(got[0].Extra["donationMoney"]) != "5" {
		t.Errorf("RequestsByRequester()[0] = %+v", got[0])
	}
}

func TestRequestsByRequester_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)

	got, err := db.RequestsByRequester(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("RequestsByRequester() error = %v", err)
	}
	if got == nil {
		t.Error("RequestsByRequester() = nil, want empty slice so JSON encodes []")
	}
}

func TestPayments_CreateAndListByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p := &model.Payment{Email: "alice@example.com", Amount: 10.5, Currency: "usd", TransactionID: "pi_123"}
	if err := db.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if err := db.CreatePayment(ctx, &model.Payment{Email: "bob@example.com", Amount: 1}); err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}

	got, err := db.PaymentsByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("PaymentsByEmail() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("PaymentsByEmail() returned %d, want 1", len(got))
	}
	if got[0].ID != p.ID || got[0].Amount != 10.5 || got[0].TransactionID != "pi_123" {
		t.Errorf("PaymentsByEmail()[0] = %+v, want %+v", got[0], p)
	}
}
