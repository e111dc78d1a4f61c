package channel

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/infra/ota"
	"staybook/internal/pkg/config"
)

// Outcome classifies one submission or cancellation exchange. It is never
// synthesized: an unknown outcome stays a transport failure.
type Outcome int

const (
	OutcomeAcknowledged Outcome = iota
	OutcomeRejected
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAcknowledged:
		return "acknowledged"
	case OutcomeRejected:
		return "rejected"
	default:
		return "transport_failure"
	}
}

type SubmissionResult struct {
	Outcome  Outcome
	Reason   string
	Attempts int

	// ExternalID is set when the counterparty answers a notification with
	// a full confirmation report instead of a bare acknowledgment.
	ExternalID string

	// Timeout marks an attempt whose real outcome is unknown: the caller's
	// deadline expired with a request possibly still in flight. No state
	// transition may be derived from it.
	Timeout bool
}

type CancellationResult struct {
	Outcome  Outcome
	Reason   string
	Attempts int
	Timeout  bool
}

// Status is the counterparty-reported reservation status. A check that
// cannot produce a trustworthy answer reports StatusVerificationRequired,
// never a fabricated confirmed.
type Status int

const (
	StatusVerificationRequired Status = iota
	StatusPending
	StatusConfirmed
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusRejected:
		return "rejected"
	default:
		return "verification_required"
	}
}

type StatusResult struct {
	Status     Status
	ExternalID string
	Reason     string
}

// Adapter owns the channel-manager endpoint: it encodes, sends with bounded
// retries, and classifies replies.
type Adapter struct {
	codec       *ota.Codec
	client      *Client
	maxAttempts int
	baseWait    time.Duration
}

func NewAdapter(cfg config.ChannelConfig, codec *ota.Codec, client *Client) *Adapter {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	baseWait := cfg.RetryBaseWait
	if baseWait <= 0 {
		baseWait = 500 * time.Millisecond
	}
	return &Adapter{
		codec:       codec,
		client:      client,
		maxAttempts: maxAttempts,
		baseWait:    baseWait,
	}
}

// Submit sends one booking notification and classifies the outcome. An
// acknowledgment proves receipt only; Confirmed is reachable solely through
// the out-of-band confirmation path.
func (a *Adapter) Submit(ctx context.Context, n *booking.Notification) (SubmissionResult, error) {
	payload, err := a.codec.EncodeBookingNotification(n)
	if err != nil {
		return SubmissionResult{}, err
	}

	ex := a.exchange(ctx, payload)
	res := a.classify(ex)

	if res.Outcome == OutcomeAcknowledged && res.ExternalID != "" {
		slog.Info("confirmation report rode along with submit acknowledgment",
			"token", n.Token(), "external_id", res.ExternalID)
	}
	return res, nil
}

// Cancel sends the cancellation shape built from the stored notification.
func (a *Adapter) Cancel(ctx context.Context, s *booking.State, reason string) (CancellationResult, error) {
	payload, err := a.codec.EncodeCancellation(s, reason)
	if err != nil {
		return CancellationResult{}, err
	}

	res := a.classify(a.exchange(ctx, payload))
	return CancellationResult{
		Outcome:  res.Outcome,
		Reason:   res.Reason,
		Attempts: res.Attempts,
		Timeout:  res.Timeout,
	}, nil
}

// CheckStatus queries the counterparty for one reservation. Any exchange
// that cannot produce a parseable answer degrades to verification required.
func (a *Adapter) CheckStatus(ctx context.Context, token string) (StatusResult, error) {
	payload, err := a.codec.EncodeStatusQuery(token)
	if err != nil {
		return StatusResult{}, err
	}

	ex := a.exchange(ctx, payload)
	if !ex.replied || ex.httpStatus >= 400 {
		return StatusResult{Status: StatusVerificationRequired, Reason: ex.lastErr}, nil
	}

	reply, err := ota.Decode(ex.raw)
	if err != nil {
		return StatusResult{Status: StatusVerificationRequired, Reason: err.Error()}, nil
	}

	switch reply.Kind {
	case ota.KindConfirmationReport:
		if reply.Success {
			return StatusResult{Status: StatusConfirmed, ExternalID: reply.ExternalID}, nil
		}
		return StatusResult{Status: StatusRejected, Reason: reply.ErrorText}, nil
	case ota.KindAcknowledgment:
		if reply.Success {
			return StatusResult{Status: StatusPending}, nil
		}
		return StatusResult{Status: StatusRejected, Reason: reply.ErrorText}, nil
	default:
		return StatusResult{Status: StatusVerificationRequired, Reason: "unrecognized reply shape"}, nil
	}
}

type exchangeResult struct {
	replied    bool
	raw        []byte
	httpStatus int
	attempts   int
	timedOut   bool
	lastErr    string
}

// exchange runs the bounded retry loop. Only transport-level failures are
// retried; a reply, even an HTTP error status below 500, ends the loop.
func (a *Adapter) exchange(ctx context.Context, payload []byte) exchangeResult {
	var lastErr string

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := backoffWait(attempt-1, a.baseWait)
			slog.Warn("retrying channel request",
				"attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", lastErr)
			select {
			case <-ctx.Done():
				return exchangeResult{attempts: attempt, timedOut: true, lastErr: ctx.Err().Error()}
			case <-time.After(wait):
			}
		}

		status, raw, err := a.client.Post(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				// Deadline expired with the request possibly delivered.
				return exchangeResult{attempts: attempt + 1, timedOut: true, lastErr: err.Error()}
			}
			lastErr = err.Error()
			continue
		}
		if status >= 500 {
			lastErr = fmt.Sprintf("channel returned HTTP %d", status)
			continue
		}

		return exchangeResult{replied: true, raw: raw, httpStatus: status, attempts: attempt + 1}
	}

	return exchangeResult{attempts: a.maxAttempts, lastErr: lastErr}
}

func (a *Adapter) classify(ex exchangeResult) SubmissionResult {
	if ex.timedOut {
		return SubmissionResult{
			Outcome:  OutcomeTransportFailure,
			Reason:   "timeout: " + ex.lastErr,
			Attempts: ex.attempts,
			Timeout:  true,
		}
	}
	if !ex.replied {
		return SubmissionResult{
			Outcome:  OutcomeTransportFailure,
			Reason:   ex.lastErr,
			Attempts: ex.attempts,
		}
	}
	if ex.httpStatus >= 400 {
		return SubmissionResult{
			Outcome:  OutcomeRejected,
			Reason:   fmt.Sprintf("channel returned HTTP %d", ex.httpStatus),
			Attempts: ex.attempts,
		}
	}

	reply, err := ota.Decode(ex.raw)
	if err != nil {
		return SubmissionResult{
			Outcome:  OutcomeRejected,
			Reason:   "unusable reply: " + err.Error(),
			Attempts: ex.attempts,
		}
	}

	switch reply.Kind {
	case ota.KindAcknowledgment, ota.KindConfirmationReport:
		if reply.Success {
			return SubmissionResult{
				Outcome:    OutcomeAcknowledged,
				Attempts:   ex.attempts,
				ExternalID: reply.ExternalID,
			}
		}
		reason := reply.ErrorText
		if reason == "" {
			reason = "declined without detail"
		}
		return SubmissionResult{Outcome: OutcomeRejected, Reason: reason, Attempts: ex.attempts}
	default:
		return SubmissionResult{
			Outcome:  OutcomeRejected,
			Reason:   "unrecognized reply shape",
			Attempts: ex.attempts,
		}
	}
}

func backoffWait(attempt int, base time.Duration) time.Duration {
	wait := time.Duration(1<<attempt) * base
	return wait + time.Duration(cryptoRandInt63n(int64(wait/5)))
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}
