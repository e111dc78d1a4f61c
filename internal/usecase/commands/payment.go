package commands

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/payment"
	"staybook/internal/domain/user"
	reqdto "staybook/internal/handler/dto/request"
	"staybook/internal/infra"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/config"
	"staybook/internal/pkg/errs"
	"staybook/internal/pkg/paysig"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound       = errs.New("payment not found")
	ErrHashMismatch          = errs.New("payment hash mismatch")
	ErrPaymentAlreadySettled = errs.New("payment already settled")
	ErrBookingNotPayable     = errs.New("booking is not payable")
)

const gatewaySuccessStatus = "success"

// PaymentRedirect is the signed field set the client posts to the gateway.
type PaymentRedirect struct {
	GatewayURL  string
	Key         string
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	Hash        string
}

type CallbackResult struct {
	TxnID  string
	Status payment.Status
}

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, userID uuid.UUID, role user.Role) (*PaymentRedirect, error)
	HandleCallback(ctx context.Context, cb reqdto.PaymentCallbackRequest) (*CallbackResult, error)
}

type paymentUseCaseImpl struct {
	uow   shared.UnitOfWork
	cfg   config.PaymentConfig
	clock clock.Clock
}

func NewPaymentUseCase(uow shared.UnitOfWork, cfg config.PaymentConfig, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:   uow,
		cfg:   cfg,
		clock: clk,
	}
}

// InitiatePayment signs a redirect request for one booking. The first
// configured salt is the signing salt; the rest exist only for callback
// verification during rotation.
func (p *paymentUseCaseImpl) InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, userID uuid.UUID, role user.Role) (*PaymentRedirect, error) {
	snap, err := p.uow.CommandReads().BookingByToken(ctx, req.BookingToken)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if role == user.RoleGuest && snap.UserID != userID {
		return nil, ErrBookingAccessDenied
	}
	if snap.Status == "failed" {
		return nil, errs.Mark(errs.New("booking already failed"), ErrBookingNotPayable)
	}

	mny, err := booking.NewMoney(snap.AmountMinor, snap.Currency)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	txnID := p.newTxnID()
	amount := mny.AmountString()
	productInfo := "Booking " + snap.Token

	pay, err := payment.New(txnID, snap.Token, mny, productInfo, snap.GuestFirstName, snap.GuestEmail, p.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().Create(ctx, tx.DB(), pay)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	fields := paysig.Fields{
		Key:         p.cfg.MerchantKey,
		TxnID:       txnID,
		Amount:      amount,
		ProductInfo: productInfo,
		FirstName:   snap.GuestFirstName,
		Email:       snap.GuestEmail,
	}

	return &PaymentRedirect{
		GatewayURL:  p.cfg.RedirectURL,
		Key:         p.cfg.MerchantKey,
		TxnID:       txnID,
		Amount:      amount,
		ProductInfo: productInfo,
		FirstName:   snap.GuestFirstName,
		Email:       snap.GuestEmail,
		Hash:        paysig.RequestHash(fields, p.cfg.Salts[0]),
	}, nil
}

// HandleCallback verifies the gateway's digest against every configured
// salt and every known encoding variant, then settles the payment. A digest
// that matches no candidate rejects the payment; ambiguity is never resolved
// in the gateway's favor.
func (p *paymentUseCaseImpl) HandleCallback(ctx context.Context, cb reqdto.PaymentCallbackRequest) (*CallbackResult, error) {
	result := &CallbackResult{TxnID: cb.TxnID}
	var hashMismatch bool

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pay, err := tx.Payments().FindByTxnIDForUpdate(ctx, tx.DB(), cb.TxnID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrPaymentNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if pay.Status().IsTerminal() {
			return errs.Mark(errs.New("duplicate callback"), ErrPaymentAlreadySettled)
		}

		fields := paysig.Fields{
			Key:         p.cfg.MerchantKey,
			TxnID:       cb.TxnID,
			Amount:      cb.Amount,
			ProductInfo: cb.ProductInfo,
			FirstName:   cb.FirstName,
			Email:       cb.Email,
			UDF:         cb.UDFs(),
		}

		if !paysig.VerifyResponseHash(cb.Hash, fields, cb.Status, p.cfg.Salts) {
			slog.Warn("payment callback digest matched no candidate", "txnid", cb.TxnID)
			if err := pay.Reject("hash mismatch", p.clock.Now()); err != nil {
				return errs.Mark(err, ErrPaymentAlreadySettled)
			}
			if err := tx.Payments().UpdateState(ctx, tx.DB(), pay); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			result.Status = pay.Status()
			// The rejection must commit; the mismatch error is raised after.
			hashMismatch = true
			return nil
		}

		if strings.EqualFold(cb.Status, gatewaySuccessStatus) {
			err = pay.Verify(cb.Status, p.clock.Now())
		} else {
			err = pay.Reject(cb.Status, p.clock.Now())
		}
		if err != nil {
			return errs.Mark(err, ErrPaymentAlreadySettled)
		}

		if err := tx.Payments().UpdateState(ctx, tx.DB(), pay); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result.Status = pay.Status()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if hashMismatch {
		return result, ErrHashMismatch
	}
	return result, nil
}

func (p *paymentUseCaseImpl) newTxnID() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return fmt.Sprintf("PW%s%07d", p.clock.Now().UTC().Format("060102150405"), binary.BigEndian.Uint32(buf[:])%10000000)
	}
	return fmt.Sprintf("PW%s%07d", p.clock.Now().UTC().Format("060102150405"), p.clock.Now().UnixNano()%10000000)
}
