package models

// Actor roles
const (
	RoleShipper = "shipper"
	RoleHauler  = "hauler"
	RoleDriver  = "driver"
	RoleAdmin   = "admin"
)

// Actor is the already-authenticated caller identity passed into the core.
// Session handling lives in the routing layer; services only see this.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Payment modes
type PaymentMode string

const (
	PaymentModeEscrow PaymentMode = "escrow"
	PaymentModeDirect PaymentMode = "direct"
)

type LoadStatus string

const (
	LoadDraft          LoadStatus = "draft"
	LoadPublished      LoadStatus = "published"
	LoadAwaitingEscrow LoadStatus = "awaiting_escrow"
	LoadInTransit      LoadStatus = "in_transit"
	LoadDelivered      LoadStatus = "delivered"
	LoadCompleted      LoadStatus = "completed"
	LoadCancelled      LoadStatus = "cancelled"
)

func (s LoadStatus) Terminal() bool {
	return s == LoadCompleted || s == LoadCancelled
}

type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferWithdrawn OfferStatus = "withdrawn"
	OfferRejected  OfferStatus = "rejected"
	OfferExpired   OfferStatus = "expired"
	OfferAccepted  OfferStatus = "accepted"
)

func (s OfferStatus) Terminal() bool { return s != OfferPending }

type BookingStatus string

const (
	BookingRequested BookingStatus = "requested"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Terminal() bool { return s != BookingRequested }

type TripStatus string

const (
	TripPendingEscrow    TripStatus = "pending_escrow"
	TripReadyToStart     TripStatus = "ready_to_start"
	TripInProgress       TripStatus = "in_progress"
	TripDeliveredPending TripStatus = "delivered_awaiting_confirmation"
	TripConfirmed        TripStatus = "delivered_confirmed"
	TripDisputed         TripStatus = "disputed"
	TripClosed           TripStatus = "closed"
)

func (s TripStatus) Terminal() bool { return s == TripClosed }

// Delivered reports whether the cargo has physically arrived, regardless
// of confirmation. Disputes may only be opened against delivered trips.
func (s TripStatus) Delivered() bool {
	return s == TripDeliveredPending || s == TripConfirmed
}

type PaymentStatus string

const (
	PaymentAwaitingFunding PaymentStatus = "awaiting_funding"
	PaymentEscrowFunded    PaymentStatus = "escrow_funded"
	PaymentReleased        PaymentStatus = "released_to_hauler"
	PaymentRefunded        PaymentStatus = "refunded_to_shipper"
	PaymentSplit           PaymentStatus = "split_between_parties"
	PaymentCancelled       PaymentStatus = "cancelled"
	PaymentNotApplicable   PaymentStatus = "not_applicable"
)

func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentReleased, PaymentRefunded, PaymentSplit, PaymentCancelled:
		return true
	}
	return false
}

type DisputeStatus string

const (
	DisputeOpen            DisputeStatus = "open"
	DisputeUnderReview     DisputeStatus = "under_review"
	DisputeResolvedRelease DisputeStatus = "resolved_release"
	DisputeResolvedRefund  DisputeStatus = "resolved_refund"
	DisputeResolvedSplit   DisputeStatus = "resolved_split"
	DisputeCancelled       DisputeStatus = "cancelled"
)

// Active reports whether the dispute still blocks payment release.
func (s DisputeStatus) Active() bool {
	return s == DisputeOpen || s == DisputeUnderReview
}
