package response

import (
	"time"

	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/readmodel"

	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	TxnID        string    `json:"txn_id"`
	BookingToken string    `json:"booking_token"`
	Status       string    `json:"status"`
	GatewayState string    `json:"gateway_state,omitempty"`
	AmountMinor  int64     `json:"amount_minor"`
	Currency     string    `json:"currency"`
	ProductInfo  string    `json:"product_info"`
	FirstName    string    `json:"first_name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromPaymentView(v *readmodel.PaymentView) *PaymentResponse {
	var resp PaymentResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromPaymentViews(views []readmodel.PaymentView) []*PaymentResponse {
	res := make([]*PaymentResponse, len(views))
	for i := range views {
		res[i] = FromPaymentView(&views[i])
	}
	return res
}

// PaymentRedirectResponse carries the form fields the client posts to the
// gateway. The hash is computed server side so the merchant key never
// reaches the browser unaccompanied.
type PaymentRedirectResponse struct {
	GatewayURL  string `json:"gateway_url"`
	Key         string `json:"key"`
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Hash        string `json:"hash"`
}

func FromPaymentRedirect(r *commands.PaymentRedirect) *PaymentRedirectResponse {
	var resp PaymentRedirectResponse
	_ = copier.Copy(&resp, r)
	return &resp
}

type CallbackResponse struct {
	TxnID  string `json:"txn_id"`
	Status string `json:"status"`
}

func FromCallbackResult(r *commands.CallbackResult) *CallbackResponse {
	return &CallbackResponse{
		TxnID:  r.TxnID,
		Status: r.Status.String(),
	}
}
