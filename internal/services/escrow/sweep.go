package escrow

import (
	"context"
	"errors"
	"log"
	"time"

	"drover/internal/models"
	"drover/internal/services/notification"

	"gorm.io/gorm"
)

// sweepBatchSize bounds one sweep pass; leftovers are picked up next tick.
const sweepBatchSize = 100

// RunAutoReleaseSweep finalizes every funded payment whose release time has
// passed and which has no open or under-review dispute. Each candidate is
// re-checked under a FOR UPDATE SKIP LOCKED row lock inside its own
// transaction, so concurrent sweeps (or a retry after a crash mid-sweep)
// never double-release: a row a peer holds is simply skipped. Returns the
// number of payments released.
func (s *Service) RunAutoReleaseSweep(ctx context.Context) (int, error) {
	ids, err := s.payments.ListDueReleaseIDs(time.Now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, id := range ids {
		ok, err := s.releaseOne(ctx, id)
		if err != nil {
			// One bad candidate must not starve the rest of the batch.
			log.Printf("auto-release of payment %d failed: %v", id, err)
			continue
		}
		if ok {
			released++
		}
	}
	return released, nil
}

func (s *Service) releaseOne(ctx context.Context, paymentID uint) (bool, error) {
	var tripID uint
	released := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)

		payment, err := payments.LockForRelease(paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A concurrent sweep holds the row; leave it to them.
				return nil
			}
			return err
		}

		// Re-check everything under the lock: the pre-filter ran without it.
		if payment.Status != models.PaymentEscrowFunded {
			return nil
		}
		if payment.AutoReleaseAt == nil || payment.AutoReleaseAt.After(time.Now()) {
			return nil
		}
		blocked, err := s.disputes.WithTx(tx).HasActiveByPayment(payment.ID, 0)
		if err != nil {
			return err
		}
		if blocked {
			return nil
		}

		if err := s.FinalizeLifecycle(tx, payment, models.PaymentReleased, 0, 0); err != nil {
			return err
		}
		tripID = payment.TripID
		released = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if released {
		q := &notification.Queue{}
		q.Add(notification.TopicPaymentReleased, models.RoleHauler, models.JSON{
			"payment_id": paymentID, "trip_id": tripID, "auto": true,
		})
		s.notifier.Dispatch(ctx, q)
	}
	return released, nil
}
