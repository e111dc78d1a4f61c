//go:build e2e

package payment_test

import (
	"fmt"
	"net/http"
	ht "net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"staybook/internal/domain/user"
	"staybook/internal/handler/dto/request"
	"staybook/internal/handler/dto/response"
	"staybook/tests/common/authtest"
	"staybook/tests/common/builder"
	"staybook/tests/common/dbtest"
	"staybook/tests/common/httptest"
	"staybook/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	paymentsURL        = "/api/payments"
	callbackURL        = "/api/payments/callback"
	paymentURL         = "/api/payments/%s"
	bookingPaymentsURL = "/api/bookings/%s/payments"
)

var sha512Hex = regexp.MustCompile(`^[0-9a-f]{128}$`)

type paymentSuite struct {
	e2e.SharedSuite
}

func TestPaymentSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(paymentSuite))
}

// postCallback delivers the gateway's form-encoded callback.
func (s *paymentSuite) postCallback(t *testing.T, cb request.PaymentCallbackRequest) *ht.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("txnid", cb.TxnID)
	form.Set("status", cb.Status)
	form.Set("amount", cb.Amount)
	form.Set("productinfo", cb.ProductInfo)
	form.Set("firstname", cb.FirstName)
	form.Set("email", cb.Email)
	form.Set("udf1", cb.UDF1)
	form.Set("udf2", cb.UDF2)
	form.Set("udf3", cb.UDF3)
	form.Set("udf4", cb.UDF4)
	form.Set("udf5", cb.UDF5)
	form.Set("hash", cb.Hash)

	req := ht.NewRequest(http.MethodPost, callbackURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := ht.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// initiatePayment books directly in the database and signs a redirect for it.
func (s *paymentSuite) initiatePayment(t *testing.T, authToken, bookingToken string) response.PaymentRedirectResponse {
	t.Helper()

	reqBody := request.InitiatePaymentRequest{BookingToken: bookingToken}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, reqBody, authToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var redirect response.PaymentRedirectResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &redirect))
	require.NotEmpty(t, redirect.TxnID)
	return redirect
}

// callbackFor builds a callback whose digest verifies against the suite's
// merchant key and signing salt.
func (s *paymentSuite) callbackFor(redirect response.PaymentRedirectResponse) *builder.PaymentCallbackBuilder {
	b := builder.NewPaymentCallbackBuilder(s.Config.Payment.MerchantKey, s.Config.Payment.Salts[0])
	b.TxnID = redirect.TxnID
	b.Amount = redirect.Amount
	b.ProductInfo = redirect.ProductInfo
	b.FirstName = redirect.FirstName
	b.Email = redirect.Email
	return b
}

func (s *paymentSuite) TestInitiatePayment() {
	s.Run("Owner gets a signed redirect", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "acknowledged")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")

		redirect := s.initiatePayment(t, authToken, "PW2609140030")
		require.Equal(t, s.Config.Payment.MerchantKey, redirect.Key)
		require.Equal(t, "500.05", redirect.Amount)
		require.Equal(t, "Booking PW2609140030", redirect.ProductInfo)
		require.Equal(t, "Asha", redirect.FirstName)
		require.Equal(t, "asha@example.com", redirect.Email)
		require.Equal(t, s.Config.Payment.RedirectURL, redirect.GatewayURL)
		require.Regexp(t, sha512Hex, redirect.Hash)
	})

	s.Run("Another guest may not pay for someone else's booking", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "acknowledged")
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleGuest))

		reqBody := request.InitiatePaymentRequest{BookingToken: "PW2609140030"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, reqBody, otherToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Failed bookings are not payable", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140031", ownerID, "failed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")

		reqBody := request.InitiatePaymentRequest{BookingToken: "PW2609140031"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, reqBody, authToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("Unknown booking is a 404", func() {
		t := s.T()
		authToken := authtest.CreateAndLogin(t, s.DB, s.Router, "guest@example.com", string(user.RoleGuest))

		reqBody := request.InitiatePaymentRequest{BookingToken: "MISSING00001"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, reqBody, authToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *paymentSuite) TestCallback() {
	s.Run("Valid success callback settles the payment", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		redirect := s.initiatePayment(t, authToken, "PW2609140030")

		cb := s.callbackFor(redirect).BuildDTO()
		w := s.postCallback(t, cb)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.CallbackResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, redirect.TxnID, res.TxnID)
		require.Equal(t, "verified", res.Status)
	})

	s.Run("Repeat delivery of a settled payment is refused", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		redirect := s.initiatePayment(t, authToken, "PW2609140030")

		cb := s.callbackFor(redirect).BuildDTO()
		w := s.postCallback(t, cb)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.postCallback(t, cb)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Tampered digest rejects the payment and the rejection persists", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		redirect := s.initiatePayment(t, authToken, "PW2609140030")

		cb := s.callbackFor(redirect).WithTamperedHash().BuildDTO()
		w := s.postCallback(t, cb)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		var status string
		err := s.DB.QueryRow(t.Context(),
			"SELECT status FROM payments WHERE txn_id = $1", redirect.TxnID).Scan(&status)
		require.NoError(t, err)
		require.Equal(t, "rejected", status)
	})

	s.Run("Gateway failure status rejects without error", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		redirect := s.initiatePayment(t, authToken, "PW2609140030")

		cb := s.callbackFor(redirect).WithStatus("failure").BuildDTO()
		w := s.postCallback(t, cb)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.CallbackResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, "rejected", res.Status)
	})

	s.Run("Unknown transaction is a 404", func() {
		t := s.T()

		cb := builder.NewPaymentCallbackBuilder(s.Config.Payment.MerchantKey, s.Config.Payment.Salts[0]).
			WithTxnID("PW0000000000000000").
			BuildDTO()
		w := s.postCallback(t, cb)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func (s *paymentSuite) TestCallbackSaltRotation() {
	s.Run("Callback signed with a retired salt still verifies", func() {
		t := s.T()
		require.Greater(t, len(s.Config.Payment.Salts), 1, "test config must carry a retired salt")

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		redirect := s.initiatePayment(t, authToken, "PW2609140030")

		b := s.callbackFor(redirect)
		b.Salt = s.Config.Payment.Salts[1]
		w := s.postCallback(t, b.BuildDTO())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func (s *paymentSuite) TestReadPayments() {
	s.Run("Owner reads a payment, other guests are denied", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleGuest))
		redirect := s.initiatePayment(t, authToken, "PW2609140030")

		url := fmt.Sprintf(paymentURL, redirect.TxnID)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, authToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		require.Equal(t, redirect.TxnID, view.TxnID)
		require.Equal(t, "PW2609140030", view.BookingToken)
		require.Equal(t, "initiated", view.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, otherToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Listing returns every attempt for the booking", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleGuest))
		dbtest.CreateTestBooking(t, s.DB, "PW2609140030", ownerID, "confirmed")
		authToken := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")

		first := s.initiatePayment(t, authToken, "PW2609140030")
		second := s.initiatePayment(t, authToken, "PW2609140030")
		require.NotEqual(t, first.TxnID, second.TxnID)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(bookingPaymentsURL, "PW2609140030"), nil, authToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var views []response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &views))
		require.Len(t, views, 2)
	})
}
