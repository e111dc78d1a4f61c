//go:build unit || e2e

package builder

import (
	reqdto "staybook/internal/handler/dto/request"
	"staybook/internal/pkg/paysig"
)

// PaymentCallbackBuilder assembles a gateway callback whose hash actually
// verifies against the given merchant key and salt, the way the gateway
// would have signed it.
type PaymentCallbackBuilder struct {
	Key         string
	Salt        string
	TxnID       string
	Status      string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	UDF         [5]string
}

func NewPaymentCallbackBuilder(key, salt string) *PaymentCallbackBuilder {
	return &PaymentCallbackBuilder{
		Key:         key,
		Salt:        salt,
		TxnID:       "PW2609141030001234",
		Status:      "success",
		Amount:      "500.05",
		ProductInfo: "Booking PW2609140030",
		FirstName:   "Asha",
		Email:       "asha@example.com",
	}
}

func (b *PaymentCallbackBuilder) BuildDTO() reqdto.PaymentCallbackRequest {
	fields := paysig.Fields{
		Key:         b.Key,
		TxnID:       b.TxnID,
		Amount:      b.Amount,
		ProductInfo: b.ProductInfo,
		FirstName:   b.FirstName,
		Email:       b.Email,
		UDF:         b.UDF,
	}
	hash := paysig.ResponseHashCandidates(fields, b.Status, []string{b.Salt})[0]

	return reqdto.PaymentCallbackRequest{
		TxnID:       b.TxnID,
		Status:      b.Status,
		Amount:      b.Amount,
		ProductInfo: b.ProductInfo,
		FirstName:   b.FirstName,
		Email:       b.Email,
		UDF1:        b.UDF[0],
		UDF2:        b.UDF[1],
		UDF3:        b.UDF[2],
		UDF4:        b.UDF[3],
		UDF5:        b.UDF[4],
		Hash:        hash,
	}
}

// Fluent builder methods
func (b *PaymentCallbackBuilder) WithTxnID(txnID string) *PaymentCallbackBuilder {
	b.TxnID = txnID
	return b
}

func (b *PaymentCallbackBuilder) WithStatus(status string) *PaymentCallbackBuilder {
	b.Status = status
	return b
}

func (b *PaymentCallbackBuilder) WithAmount(amount string) *PaymentCallbackBuilder {
	b.Amount = amount
	return b
}

func (b *PaymentCallbackBuilder) WithTamperedHash() *PaymentCallbackBuilder {
	// A structurally valid digest that no salt could have produced.
	b.Salt = "tampered-" + b.Salt
	return b
}
