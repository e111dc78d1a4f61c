package readmodel

import "time"

type PaymentView struct {
	TxnID        string    `json:"txn_id"`
	BookingToken string    `json:"booking_token"`
	Status       string    `json:"status"`
	GatewayState string    `json:"gateway_state"`
	AmountMinor  int64     `json:"amount_minor"`
	Currency     string    `json:"currency"`
	ProductInfo  string    `json:"product_info"`
	FirstName    string    `json:"first_name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
