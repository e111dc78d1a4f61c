package booking

import (
	"errors"
	"time"
)

var (
	ErrInvalidTransition    = errors.New("invalid reservation status transition")
	ErrAlreadyConfirmed     = errors.New("reservation already confirmed with this external id")
	ErrConfirmationConflict = errors.New("reservation confirmed with a different external id")
	ErrEmptyExternalID      = errors.New("external reservation id is required")
)

type Status string

const (
	// StatusSubmitted: the notification was sent; no reply classified yet.
	StatusSubmitted Status = "submitted"
	// StatusAcknowledged: the counterparty confirmed receipt. The external
	// reservation id is not known yet.
	StatusAcknowledged Status = "acknowledged"
	// StatusConfirmed: an out-of-band confirmation report delivered the
	// external reservation id. Terminal.
	StatusConfirmed Status = "confirmed"
	// StatusFailed: transport exhaustion or rejection. Terminal; a
	// resubmission uses a new correlation token.
	StatusFailed Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAcknowledged, StatusConfirmed, StatusFailed:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// State is the per-token reservation lifecycle record. The stored
// notification allows cancellation requests to be rebuilt later.
type State struct {
	token         string
	status        Status
	externalID    string
	failureReason string
	notification  *Notification
	createdAt     time.Time
	updatedAt     time.Time
}

// NewSubmittedState records a freshly sent notification.
func NewSubmittedState(n *Notification) *State {
	return &State{
		token:        n.Token(),
		status:       StatusSubmitted,
		notification: n,
	}
}

func ReconstructState(token string, status Status, externalID, failureReason string, n *Notification, createdAt, updatedAt time.Time) *State {
	return &State{
		token:         token,
		status:        status,
		externalID:    externalID,
		failureReason: failureReason,
		notification:  n,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (s *State) Token() string               { return s.token }
func (s *State) Status() Status              { return s.status }
func (s *State) ExternalID() string          { return s.externalID }
func (s *State) FailureReason() string       { return s.failureReason }
func (s *State) Notification() *Notification { return s.notification }
func (s *State) CreatedAt() time.Time        { return s.createdAt }
func (s *State) UpdatedAt() time.Time        { return s.updatedAt }

// Acknowledge applies the submit acknowledgment. A duplicate acknowledgment
// (late response after a retry) is a no-op rather than an error: state is
// keyed by token, not by request identity.
func (s *State) Acknowledge() error {
	switch s.status {
	case StatusSubmitted:
		s.status = StatusAcknowledged
		return nil
	case StatusAcknowledged:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Confirm applies an out-of-band confirmation report. Confirmed is terminal:
// a repeat with the same external id reports ErrAlreadyConfirmed so callers
// can treat it as an idempotent duplicate, and a differing id is a conflict
// that must never overwrite the stored identifier.
func (s *State) Confirm(externalID string) error {
	if externalID == "" {
		return ErrEmptyExternalID
	}
	switch s.status {
	case StatusSubmitted, StatusAcknowledged:
		s.status = StatusConfirmed
		s.externalID = externalID
		return nil
	case StatusConfirmed:
		if s.externalID == externalID {
			return ErrAlreadyConfirmed
		}
		return ErrConfirmationConflict
	default:
		// A confirmation for a locally failed reservation means local and
		// remote state disagree; surface it for manual reconciliation.
		return ErrConfirmationConflict
	}
}

// Fail records a terminal failure. Confirmed reservations never fail
// retroactively.
func (s *State) Fail(reason string) error {
	switch s.status {
	case StatusSubmitted, StatusAcknowledged:
		s.status = StatusFailed
		s.failureReason = reason
		return nil
	default:
		return ErrInvalidTransition
	}
}
