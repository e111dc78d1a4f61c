package ota

import (
	"strings"
	"time"

	"staybook/internal/pkg/errs"
)

var ErrTimestampParse = errs.New("unparseable protocol timestamp")

// Wall-clock layouts observed from the counterparty, tried in priority
// order: plain (assumed UTC), numeric offset, then RFC3339 (trailing Z).
var inboundTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-07:00",
	time.RFC3339,
}

const (
	// TimestampLayout is the wall-clock format for outbound envelopes.
	TimestampLayout = "2006-01-02T15:04:05"
	// DateLayout carries stay dates.
	DateLayout = "2006-01-02"
)

// ParseTimestamp parses an inbound message timestamp. It fails closed: a
// fabricated default instant would corrupt audit ordering, so no layout
// match means an error, never a substitute value.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errs.Mark(errs.New("empty timestamp"), ErrTimestampParse)
	}
	for _, layout := range inboundTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Mark(errs.New("no known layout matches timestamp"), ErrTimestampParse)
}
