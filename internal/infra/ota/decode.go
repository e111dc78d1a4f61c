package ota

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"time"

	"staybook/internal/pkg/errs"
)

var ErrMalformedReply = errs.New("malformed channel reply")

// ReplyKind tags the decoded reply shape. Matching is exhaustive at call
// sites; KindUnrecognized covers well-formed XML whose root element is not
// part of the subset we speak.
type ReplyKind int

const (
	KindUnrecognized ReplyKind = iota
	KindAcknowledgment
	KindConfirmationReport
)

func (k ReplyKind) String() string {
	switch k {
	case KindAcknowledgment:
		return "acknowledgment"
	case KindConfirmationReport:
		return "confirmation_report"
	default:
		return "unrecognized"
	}
}

// Reply is the decoded inbound message. Never mutated after construction.
type Reply struct {
	Kind      ReplyKind
	Token     string
	Success   bool
	Timestamp time.Time

	// ExternalID is set for confirmation reports only: the first
	// reservation-id entry carrying the PMS sub-type.
	ExternalID string

	// ErrorText carries the counterparty's first error description when
	// Success is false.
	ErrorText string
}

// Decode parses a raw reply body into the tagged union. The shape is chosen
// by the root element name alone; body contents never reclassify a message.
// A confirmation report without a PMS reservation id degrades to an
// acknowledgment: receipt is proven, the identifier is not.
func Decode(raw []byte) (Reply, error) {
	root, err := rootElementName(raw)
	if err != nil {
		return Reply{}, errs.Mark(err, ErrMalformedReply)
	}

	switch root {
	case rootHotelResNotifRS:
		return decodeAcknowledgment(raw)
	case rootResRetrieveRS:
		return decodeConfirmationReport(raw)
	default:
		return Reply{Kind: KindUnrecognized}, nil
	}
}

func decodeAcknowledgment(raw []byte) (Reply, error) {
	var rs HotelResNotifRS
	if err := xml.Unmarshal(raw, &rs); err != nil {
		return Reply{}, errs.Mark(err, ErrMalformedReply)
	}

	ts, err := ParseTimestamp(rs.TimeStamp)
	if err != nil {
		return Reply{}, err
	}

	return Reply{
		Kind:      KindAcknowledgment,
		Token:     strings.TrimSpace(rs.EchoToken),
		Success:   rs.Success != nil,
		Timestamp: ts,
		ErrorText: firstErrorText(rs.Errors),
	}, nil
}

func decodeConfirmationReport(raw []byte) (Reply, error) {
	var rs ResRetrieveRS
	if err := xml.Unmarshal(raw, &rs); err != nil {
		return Reply{}, errs.Mark(err, ErrMalformedReply)
	}

	ts, err := ParseTimestamp(rs.TimeStamp)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{
		Kind:      KindConfirmationReport,
		Token:     strings.TrimSpace(rs.EchoToken),
		Success:   rs.Success != nil,
		Timestamp: ts,
		ErrorText: firstErrorText(rs.Errors),
	}

	reply.ExternalID = externalReservationID(rs.ReservationsList)
	if reply.ExternalID == "" {
		// Receipt without an identifier: acknowledgment-grade, not an error.
		reply.Kind = KindAcknowledgment
	}
	return reply, nil
}

// externalReservationID searches every reservation-id list for the first
// entry with the canonical PMS sub-type.
func externalReservationID(list *ReservationsList) string {
	if list == nil {
		return ""
	}
	for _, res := range list.HotelReservation {
		if res.ResGlobalInfo == nil || res.ResGlobalInfo.HotelReservationIDs == nil {
			continue
		}
		for _, id := range res.ResGlobalInfo.HotelReservationIDs.HotelReservationID {
			if id.ResIDType == ResIDTypePMS && id.ResIDValue != "" {
				return id.ResIDValue
			}
		}
	}
	return ""
}

func firstErrorText(e *Errors) string {
	if e == nil || len(e.Error) == 0 {
		return ""
	}
	return e.Error[0].ShortText
}

// rootElementName scans to the first start element without trusting the
// document to be well-formed beyond that point.
func rootElementName(raw []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", errs.New("no root element")
			}
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
