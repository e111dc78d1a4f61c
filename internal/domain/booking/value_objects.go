package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStayWindow = errors.New("check-out must be strictly after check-in")
	ErrInvalidOccupancy  = errors.New("occupancy requires at least one adult and no negative counts")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrInvalidCurrency   = errors.New("currency code must be three letters")
	ErrInvalidGuest      = errors.New("guest requires a name and email")
)

// StayWindow is the booked date range. Times are truncated to dates; the
// distribution protocol carries dates only.
type StayWindow struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayWindow(checkIn, checkOut time.Time) (StayWindow, error) {
	checkIn = truncateToDate(checkIn)
	checkOut = truncateToDate(checkOut)
	if !checkOut.After(checkIn) {
		return StayWindow{}, ErrInvalidStayWindow
	}
	return StayWindow{checkIn: checkIn, checkOut: checkOut}, nil
}

func (w StayWindow) CheckIn() time.Time  { return w.checkIn }
func (w StayWindow) CheckOut() time.Time { return w.checkOut }

func (w StayWindow) Nights() int {
	return int(w.checkOut.Sub(w.checkIn).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Occupancy struct {
	adults   int
	children int
}

func NewOccupancy(adults, children int) (Occupancy, error) {
	if adults < 1 || children < 0 {
		return Occupancy{}, ErrInvalidOccupancy
	}
	return Occupancy{adults: adults, children: children}, nil
}

func (o Occupancy) Adults() int   { return o.adults }
func (o Occupancy) Children() int { return o.children }

// Money is a non-negative amount in minor currency units.
type Money struct {
	minorUnits int64
	currency   string
}

func NewMoney(minorUnits int64, currency string) (Money, error) {
	if minorUnits < 0 {
		return Money{}, ErrNegativeAmount
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{minorUnits: minorUnits, currency: currency}, nil
}

func (m Money) MinorUnits() int64 { return m.minorUnits }
func (m Money) Currency() string  { return m.currency }

// AmountString renders the fixed-precision decimal form every external
// surface (protocol envelope, gateway hash) expects: exactly two fractional
// digits, regardless of the internal integer representation.
func (m Money) AmountString() string {
	return fmt.Sprintf("%d.%02d", m.minorUnits/100, m.minorUnits%100)
}

type Guest struct {
	firstName string
	lastName  string
	email     string
	phone     string
	country   string
}

func NewGuest(firstName, lastName, email, phone, country string) (Guest, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)
	if firstName == "" || lastName == "" || email == "" {
		return Guest{}, ErrInvalidGuest
	}
	return Guest{
		firstName: firstName,
		lastName:  lastName,
		email:     email,
		phone:     strings.TrimSpace(phone),
		country:   strings.TrimSpace(country),
	}, nil
}

func (g Guest) FirstName() string { return g.firstName }
func (g Guest) LastName() string  { return g.lastName }
func (g Guest) Email() string     { return g.email }
func (g Guest) Phone() string     { return g.phone }
func (g Guest) Country() string   { return g.country }
