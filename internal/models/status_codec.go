package models

import (
	"database/sql/driver"
	"fmt"
)

// The first deployments of the platform persisted a shorter status
// vocabulary. Rows written by those builds are still in production, so each
// status type scans both vocabularies but always writes the canonical one.
// Business logic never touches the legacy strings; they exist only here.

var legacyTripStatus = map[string]TripStatus{
	"awaiting_escrow": TripPendingEscrow,
	"ready":           TripReadyToStart,
	"started":         TripInProgress,
	"delivered":       TripDeliveredPending,
	"confirmed":       TripConfirmed,
	"in_dispute":      TripDisputed,
	"done":            TripClosed,
}

var legacyPaymentStatus = map[string]PaymentStatus{
	"pending":  PaymentAwaitingFunding,
	"funded":   PaymentEscrowFunded,
	"released": PaymentReleased,
	"refunded": PaymentRefunded,
	"split":    PaymentSplit,
	"void":     PaymentCancelled,
	"na":       PaymentNotApplicable,
}

var legacyDisputeStatus = map[string]DisputeStatus{
	"pending": DisputeOpen,
	"review":  DisputeUnderReview,
	"release": DisputeResolvedRelease,
	"refund":  DisputeResolvedRefund,
	"split":   DisputeResolvedSplit,
	"dropped": DisputeCancelled,
}

func scanStatus(value interface{}, field string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("cannot scan %T into %s", value, field)
	}
}

func (s TripStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *TripStatus) Scan(value interface{}) error {
	raw, err := scanStatus(value, "trip status")
	if err != nil {
		return err
	}
	if canonical, ok := legacyTripStatus[raw]; ok {
		*s = canonical
		return nil
	}
	*s = TripStatus(raw)
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *PaymentStatus) Scan(value interface{}) error {
	raw, err := scanStatus(value, "payment status")
	if err != nil {
		return err
	}
	if canonical, ok := legacyPaymentStatus[raw]; ok {
		*s = canonical
		return nil
	}
	*s = PaymentStatus(raw)
	return nil
}

func (s DisputeStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *DisputeStatus) Scan(value interface{}) error {
	raw, err := scanStatus(value, "dispute status")
	if err != nil {
		return err
	}
	if canonical, ok := legacyDisputeStatus[raw]; ok {
		*s = canonical
		return nil
	}
	*s = DisputeStatus(raw)
	return nil
}
