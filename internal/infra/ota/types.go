package ota

import "encoding/xml"

const (
	// Namespace is the OTA 2003/05 message namespace used by the channel
	// manager.
	Namespace = "http://www.opentravel.org/OTA/2003/05"

	// Version of the message subset we speak.
	Version = "1.003"

	// ResIDTypePMS tags the external (PMS) reservation identifier inside a
	// HotelReservationIDs list. Other sub-types are echoes of our own ids
	// and must not be mistaken for the counterparty's.
	ResIDTypePMS = "14"

	rootHotelResNotifRS = "OTA_HotelResNotifRS"
	rootResRetrieveRS   = "OTA_ResRetrieveRS"
)

// HotelResNotifRQ is the outbound booking notification envelope.
type HotelResNotifRQ struct {
	XMLName   xml.Name `xml:"OTA_HotelResNotifRQ"`
	Xmlns     string   `xml:"xmlns,attr"`
	TimeStamp string   `xml:"TimeStamp,attr"`
	Version   string   `xml:"Version,attr"`
	EchoToken string   `xml:"EchoToken,attr"`
	ResStatus string   `xml:"ResStatus,attr"`

	POS               POS               `xml:"POS"`
	HotelReservations HotelReservations `xml:"HotelReservations"`
}

// CancelRQ asks the channel manager to cancel a previously notified booking.
type CancelRQ struct {
	XMLName    xml.Name `xml:"OTA_CancelRQ"`
	Xmlns      string   `xml:"xmlns,attr"`
	TimeStamp  string   `xml:"TimeStamp,attr"`
	Version    string   `xml:"Version,attr"`
	EchoToken  string   `xml:"EchoToken,attr"`
	CancelType string   `xml:"CancelType,attr"`

	POS      POS      `xml:"POS"`
	UniqueID UniqueID `xml:"UniqueID"`
	Reasons  *Reasons `xml:"Reasons,omitempty"`
}

// ReadRQ asks the channel manager for the current view of one reservation,
// addressed by the echoed correlation token.
type ReadRQ struct {
	XMLName   xml.Name `xml:"OTA_ReadRQ"`
	Xmlns     string   `xml:"xmlns,attr"`
	TimeStamp string   `xml:"TimeStamp,attr"`
	Version   string   `xml:"Version,attr"`
	EchoToken string   `xml:"EchoToken,attr"`

	POS      POS      `xml:"POS"`
	UniqueID UniqueID `xml:"UniqueID"`
}

type UniqueID struct {
	Type string `xml:"Type,attr"`
	ID   string `xml:"ID,attr"`
}

type Reasons struct {
	Reason []string `xml:"Reason"`
}

type POS struct {
	Source Source `xml:"Source"`
}

type Source struct {
	RequestorID    RequestorID     `xml:"RequestorID"`
	BookingChannel *BookingChannel `xml:"BookingChannel,omitempty"`
}

type RequestorID struct {
	Type            string `xml:"Type,attr"`
	ID              string `xml:"ID,attr"`
	MessagePassword string `xml:"MessagePassword,attr,omitempty"`
}

type BookingChannel struct {
	Type        string `xml:"Type,attr"`
	CompanyName string `xml:"CompanyName,omitempty"`
}

type HotelReservations struct {
	HotelReservation []HotelReservation `xml:"HotelReservation"`
}

type HotelReservation struct {
	CreateDateTime string         `xml:"CreateDateTime,attr,omitempty"`
	RoomStays      *RoomStays     `xml:"RoomStays,omitempty"`
	ResGuests      *ResGuests     `xml:"ResGuests,omitempty"`
	ResGlobalInfo  *ResGlobalInfo `xml:"ResGlobalInfo,omitempty"`
}

type RoomStays struct {
	RoomStay []RoomStay `xml:"RoomStay"`
}

type RoomStay struct {
	RoomTypes         RoomTypes          `xml:"RoomTypes"`
	RatePlans         RatePlans          `xml:"RatePlans"`
	GuestCounts       GuestCounts        `xml:"GuestCounts"`
	TimeSpan          TimeSpan           `xml:"TimeSpan"`
	Total             Total              `xml:"Total"`
	BasicPropertyInfo *BasicPropertyInfo `xml:"BasicPropertyInfo,omitempty"`
}

type RoomTypes struct {
	RoomType []RoomType `xml:"RoomType"`
}

type RoomType struct {
	RoomTypeCode string `xml:"RoomTypeCode,attr"`
}

type RatePlans struct {
	RatePlan []RatePlan `xml:"RatePlan"`
}

type RatePlan struct {
	RatePlanCode string `xml:"RatePlanCode,attr"`
}

// Age qualifying codes from the OTA code table: 10 is adult, 8 is child.
const (
	AgeQualifyingAdult = "10"
	AgeQualifyingChild = "8"
)

type GuestCounts struct {
	GuestCount []GuestCount `xml:"GuestCount"`
}

type GuestCount struct {
	AgeQualifyingCode string `xml:"AgeQualifyingCode,attr"`
	Count             int    `xml:"Count,attr"`
}

type TimeSpan struct {
	Start string `xml:"Start,attr"`
	End   string `xml:"End,attr"`
}

type Total struct {
	AmountAfterTax string `xml:"AmountAfterTax,attr"`
	CurrencyCode   string `xml:"CurrencyCode,attr"`
}

type BasicPropertyInfo struct {
	HotelCode string `xml:"HotelCode,attr"`
}

type ResGuests struct {
	ResGuest []ResGuest `xml:"ResGuest"`
}

type ResGuest struct {
	Profiles Profiles `xml:"Profiles"`
}

type Profiles struct {
	ProfileInfo []ProfileInfo `xml:"ProfileInfo"`
}

type ProfileInfo struct {
	Profile Profile `xml:"Profile"`
}

type Profile struct {
	Customer Customer `xml:"Customer"`
}

type Customer struct {
	PersonName PersonName `xml:"PersonName"`
	Telephone  *Telephone `xml:"Telephone,omitempty"`
	Email      string     `xml:"Email,omitempty"`
	Address    *Address   `xml:"Address,omitempty"`
}

type PersonName struct {
	GivenName string `xml:"GivenName"`
	Surname   string `xml:"Surname"`
}

type Telephone struct {
	PhoneNumber string `xml:"PhoneNumber,attr"`
}

type Address struct {
	CountryName string `xml:"CountryName,omitempty"`
}

type ResGlobalInfo struct {
	Comments            *Comments            `xml:"Comments,omitempty"`
	HotelReservationIDs *HotelReservationIDs `xml:"HotelReservationIDs,omitempty"`
}

type Comments struct {
	Comment []string `xml:"Comment"`
}

type HotelReservationIDs struct {
	HotelReservationID []HotelReservationID `xml:"HotelReservationID"`
}

type HotelReservationID struct {
	ResIDType  string `xml:"ResID_Type,attr"`
	ResIDValue string `xml:"ResID_Value,attr"`
}

// HotelResNotifRS is the acknowledgment-only reply shape: it confirms
// receipt and carries no external reservation id.
type HotelResNotifRS struct {
	XMLName   xml.Name `xml:"OTA_HotelResNotifRS"`
	TimeStamp string   `xml:"TimeStamp,attr"`
	Version   string   `xml:"Version,attr"`
	EchoToken string   `xml:"EchoToken,attr"`

	Success *struct{} `xml:"Success"`
	Errors  *Errors   `xml:"Errors"`
}

// ResRetrieveRS is the confirmation-report shape: it arrives out of band and
// carries the counterparty's reservation identifier list.
type ResRetrieveRS struct {
	XMLName   xml.Name `xml:"OTA_ResRetrieveRS"`
	TimeStamp string   `xml:"TimeStamp,attr"`
	Version   string   `xml:"Version,attr"`
	EchoToken string   `xml:"EchoToken,attr"`

	Success          *struct{}         `xml:"Success"`
	Errors           *Errors           `xml:"Errors"`
	ReservationsList *ReservationsList `xml:"ReservationsList"`
}

type ReservationsList struct {
	HotelReservation []HotelReservation `xml:"HotelReservation"`
}

type Errors struct {
	Error []Error `xml:"Error"`
}

type Error struct {
	Type      string `xml:"Type,attr,omitempty"`
	Code      string `xml:"Code,attr,omitempty"`
	ShortText string `xml:"ShortText,attr,omitempty"`
}
