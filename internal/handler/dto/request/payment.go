package request

type InitiatePaymentRequest struct {
	BookingToken string `json:"booking_token" binding:"required"`
}

// PaymentCallbackRequest carries the gateway's form-encoded callback. The
// received hash is verified against every known encoding variant before any
// field is trusted.
type PaymentCallbackRequest struct {
	TxnID       string `form:"txnid" binding:"required"`
	Status      string `form:"status" binding:"required"`
	Amount      string `form:"amount" binding:"required"`
	ProductInfo string `form:"productinfo" binding:"required"`
	FirstName   string `form:"firstname"`
	Email       string `form:"email"`
	UDF1        string `form:"udf1"`
	UDF2        string `form:"udf2"`
	UDF3        string `form:"udf3"`
	UDF4        string `form:"udf4"`
	UDF5        string `form:"udf5"`
	Hash        string `form:"hash" binding:"required"`
}

func (r PaymentCallbackRequest) UDFs() [5]string {
	return [5]string{r.UDF1, r.UDF2, r.UDF3, r.UDF4, r.UDF5}
}
