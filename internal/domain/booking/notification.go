package booking

import (
	"errors"
	"strings"
)

var (
	ErrEmptyToken       = errors.New("correlation token is required")
	ErrMissingRoomType  = errors.New("room type code is required")
	ErrMissingRatePlan  = errors.New("rate plan code is required")
	ErrMissingChannelID = errors.New("channel identifier is required")
)

// Notification is the outbound booking notification for one send attempt.
// Immutable once constructed; a resend uses a fresh correlation token.
type Notification struct {
	token           string
	stay            StayWindow
	roomTypeCode    string
	ratePlanCode    string
	occupancy       Occupancy
	total           Money
	guest           Guest
	specialRequests string
	channelID       string
}

func NewNotification(
	token string,
	stay StayWindow,
	roomTypeCode, ratePlanCode string,
	occupancy Occupancy,
	total Money,
	guest Guest,
	specialRequests, channelID string,
) (*Notification, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	roomTypeCode = strings.TrimSpace(roomTypeCode)
	if roomTypeCode == "" {
		return nil, ErrMissingRoomType
	}
	ratePlanCode = strings.TrimSpace(ratePlanCode)
	if ratePlanCode == "" {
		return nil, ErrMissingRatePlan
	}
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, ErrMissingChannelID
	}

	return &Notification{
		token:           token,
		stay:            stay,
		roomTypeCode:    roomTypeCode,
		ratePlanCode:    ratePlanCode,
		occupancy:       occupancy,
		total:           total,
		guest:           guest,
		specialRequests: strings.TrimSpace(specialRequests),
		channelID:       channelID,
	}, nil
}

func (n *Notification) Token() string           { return n.token }
func (n *Notification) Stay() StayWindow        { return n.stay }
func (n *Notification) RoomTypeCode() string    { return n.roomTypeCode }
func (n *Notification) RatePlanCode() string    { return n.ratePlanCode }
func (n *Notification) Occupancy() Occupancy    { return n.occupancy }
func (n *Notification) Total() Money            { return n.total }
func (n *Notification) Guest() Guest            { return n.guest }
func (n *Notification) SpecialRequests() string { return n.specialRequests }
func (n *Notification) ChannelID() string       { return n.channelID }
