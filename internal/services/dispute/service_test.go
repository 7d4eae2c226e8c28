package dispute

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockDisputeRepo struct {
	mock.Mock
}

type MockTripRepo struct {
	mock.Mock
}

type MockLoadRepo struct {
	mock.Mock
}

type MockPaymentRepo struct {
	mock.Mock
}

// txRunnerStub runs the callback as if inside a transaction; the repo mocks
// ignore the tx handle.
type txRunnerStub struct{}

func (txRunnerStub) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

var (
	shipper = models.Actor{UserID: 1, Role: models.RoleShipper}
	hauler  = models.Actor{UserID: 2, Role: models.RoleHauler}
	admin   = models.Actor{UserID: 100, Role: models.RoleAdmin}
)

func deliveredTrip() *models.Trip {
	return &models.Trip{
		Model:       gorm.Model{ID: 3},
		LoadID:      5,
		HaulerID:    hauler.UserID,
		PaymentMode: models.PaymentModeEscrow,
		PaymentID:   7,
		Status:      models.TripDeliveredPending,
	}
}

func tripLoad() *models.Load {
	return &models.Load{
		Model:     gorm.Model{ID: 5},
		ShipperID: shipper.UserID,
		Status:    models.LoadDelivered,
	}
}

func fundedPayment() *models.Payment {
	return &models.Payment{
		Model:       gorm.Model{ID: 7},
		TripID:      3,
		LoadID:      5,
		PayerID:     shipper.UserID,
		PayeeID:     hauler.UserID,
		AmountCents: 250000,
		Currency:    "USD",
		IsEscrow:    true,
		Status:      models.PaymentEscrowFunded,
	}
}

func newTestService(disputes *MockDisputeRepo, trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) *Service {
	return NewService(disputes, trips, loads, payments, nil, nil, txRunnerStub{}, 24*time.Hour)
}

func validOpenInput() OpenInput {
	return OpenInput{
		Reason:          models.DisputeReasonShortCount,
		Description:     "Four head short against the manifest.",
		RequestedAction: models.DisputeActionRefund,
	}
}

func TestService_Open_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		actor     models.Actor
		input     func() OpenInput
		setupMock func(*MockDisputeRepo, *MockTripRepo, *MockLoadRepo, *MockPaymentRepo)
		wantErr   error
	}{
		{
			name:  "unknown reason",
			actor: shipper,
			input: func() OpenInput {
				in := validOpenInput()
				in.Reason = "vibes"
				return in
			},
			wantErr: ErrInvalidReason,
		},
		{
			name:  "unknown requested action",
			actor: shipper,
			input: func() OpenInput {
				in := validOpenInput()
				in.RequestedAction = "seize"
				return in
			},
			wantErr: ErrInvalidAction,
		},
		{
			name:  "missing description",
			actor: shipper,
			input: func() OpenInput {
				in := validOpenInput()
				in.Description = ""
				return in
			},
			wantErr: ErrDescriptionMissing,
		},
		{
			name:  "outsider is not a party",
			actor: models.Actor{UserID: 55, Role: models.RoleHauler},
			input: validOpenInput,
			setupMock: func(disputes *MockDisputeRepo, trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) {
				trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
				loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
			},
			wantErr: ErrNotTripParty,
		},
		{
			name:  "direct trips cannot be disputed",
			actor: shipper,
			input: validOpenInput,
			setupMock: func(disputes *MockDisputeRepo, trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) {
				trip := deliveredTrip()
				trip.PaymentMode = models.PaymentModeDirect
				trips.On("GetByID", uint(3)).Return(trip, nil)
				loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
			},
			wantErr: ErrDirectTrip,
		},
		{
			name:  "cargo not yet delivered",
			actor: shipper,
			input: validOpenInput,
			setupMock: func(disputes *MockDisputeRepo, trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) {
				trip := deliveredTrip()
				trip.Status = models.TripInProgress
				trips.On("GetByID", uint(3)).Return(trip, nil)
				loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
			},
			wantErr: ErrNotDelivered,
		},
		{
			name:  "escrow not funded",
			actor: hauler,
			input: validOpenInput,
			setupMock: func(disputes *MockDisputeRepo, trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) {
				trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
				loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
				payment := fundedPayment()
				payment.Status = models.PaymentAwaitingFunding
				payments.On("GetByTripID", uint(3)).Return(payment, nil)
			},
			wantErr: ErrEscrowNotFunded,
		},
		{
			name:  "one active dispute per payment",
			actor: shipper,
			input: validOpenInput,
			setupMock: func(disputes *MockDisputeRepo, trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) {
				trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
				loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
				payments.On("GetByTripID", uint(3)).Return(fundedPayment(), nil)
				disputes.On("HasActiveByPayment", uint(7), uint(0)).Return(true, nil)
			},
			wantErr: ErrDisputeExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disputes := new(MockDisputeRepo)
			trips := new(MockTripRepo)
			loads := new(MockLoadRepo)
			payments := new(MockPaymentRepo)
			if tt.setupMock != nil {
				tt.setupMock(disputes, trips, loads, payments)
			}

			s := newTestService(disputes, trips, loads, payments)
			_, err := s.Open(context.Background(), tt.actor, 3, tt.input())
			assert.ErrorIs(t, err, tt.wantErr)
			disputes.AssertExpectations(t)
		})
	}
}

func TestService_Open(t *testing.T) {
	t.Run("opening suspends the trip and freezes the release clock", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		payments := new(MockPaymentRepo)

		trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		payments.On("GetByTripID", uint(3)).Return(fundedPayment(), nil)
		disputes.On("HasActiveByPayment", uint(7), uint(0)).Return(false, nil)
		disputes.On("Create", mock.AnythingOfType("*models.Dispute")).Run(func(args mock.Arguments) {
			args.Get(0).(*models.Dispute).ID = 11
		}).Return(nil)
		trips.On("TransitionStatus", uint(3), models.TripDeliveredPending,
			models.TripDisputed, mock.Anything).Return(true, nil)
		payments.On("SetAutoRelease", uint(7), (*time.Time)(nil)).Return(nil)

		s := newTestService(disputes, trips, loads, payments)
		dispute, err := s.Open(context.Background(), shipper, 3, validOpenInput())

		assert.NoError(t, err)
		assert.Equal(t, models.DisputeOpen, dispute.Status)
		assert.Equal(t, models.RoleShipper, dispute.OpenerRole)
		assert.Equal(t, uint(7), dispute.PaymentID)
		disputes.AssertExpectations(t)
		trips.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("guard miss while opening surfaces the conflict", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		payments := new(MockPaymentRepo)

		trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		payments.On("GetByTripID", uint(3)).Return(fundedPayment(), nil)
		disputes.On("HasActiveByPayment", uint(7), uint(0)).Return(false, nil)
		disputes.On("Create", mock.AnythingOfType("*models.Dispute")).Return(nil)
		trips.On("TransitionStatus", uint(3), models.TripDeliveredPending,
			models.TripDisputed, mock.Anything).Return(false, nil)

		s := newTestService(disputes, trips, loads, payments)
		_, err := s.Open(context.Background(), shipper, 3, validOpenInput())

		assert.ErrorIs(t, err, ErrNotDelivered)
		payments.AssertNotCalled(t, "SetAutoRelease", mock.Anything, mock.Anything)
	})
}

func TestService_StartReview(t *testing.T) {
	t.Run("parties may not start review", func(t *testing.T) {
		s := newTestService(new(MockDisputeRepo), new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.StartReview(context.Background(), shipper, 11)
		assert.ErrorIs(t, err, ErrAdminOnly)
	})

	t.Run("open dispute moves under review", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		disputes.On("GetByID", uint(11)).Return(&models.Dispute{
			Model: gorm.Model{ID: 11}, TripID: 3, PaymentID: 7, Status: models.DisputeOpen,
		}, nil)
		disputes.On("TransitionStatus", uint(11), models.DisputeOpen, models.DisputeUnderReview,
			mock.Anything).Return(true, nil)

		s := newTestService(disputes, new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		d, err := s.StartReview(context.Background(), admin, 11)
		assert.NoError(t, err)
		assert.Equal(t, models.DisputeUnderReview, d.Status)
	})

	t.Run("already under review", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		disputes.On("GetByID", uint(11)).Return(&models.Dispute{
			Model: gorm.Model{ID: 11}, Status: models.DisputeUnderReview,
		}, nil)
		disputes.On("TransitionStatus", uint(11), models.DisputeOpen, models.DisputeUnderReview,
			mock.Anything).Return(false, nil)

		s := newTestService(disputes, new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.StartReview(context.Background(), admin, 11)
		assert.ErrorIs(t, err, ErrNotOpen)
	})
}

func TestService_ResolveSplit_Arithmetic(t *testing.T) {
	underReview := func() *models.Dispute {
		return &models.Dispute{
			Model:     gorm.Model{ID: 11},
			TripID:    3,
			PaymentID: 7,
			Status:    models.DisputeUnderReview,
		}
	}

	tests := []struct {
		name      string
		toHauler  int64
		toShipper int64
	}{
		{"sum under the escrow", 100000, 100000},
		{"sum over the escrow", 150000, 150000},
		{"negative hauler share", -1, 250001},
		{"negative shipper share", 250001, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disputes := new(MockDisputeRepo)
			payments := new(MockPaymentRepo)
			disputes.On("GetByID", uint(11)).Return(underReview(), nil)
			payments.On("GetByID", uint(7)).Return(fundedPayment(), nil)

			s := newTestService(disputes, new(MockTripRepo), new(MockLoadRepo), payments)
			_, err := s.ResolveSplit(context.Background(), admin, 11, tt.toHauler, tt.toShipper)
			assert.ErrorIs(t, err, ErrSplitMismatch)
		})
	}

	t.Run("resolution is admin only", func(t *testing.T) {
		s := newTestService(new(MockDisputeRepo), new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.ResolveSplit(context.Background(), hauler, 11, 125000, 125000)
		assert.ErrorIs(t, err, ErrAdminOnly)
	})

	t.Run("must be under review first", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		disputes.On("GetByID", uint(11)).Return(&models.Dispute{
			Model: gorm.Model{ID: 11}, PaymentID: 7, Status: models.DisputeOpen,
		}, nil)

		s := newTestService(disputes, new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.ResolveRelease(context.Background(), admin, 11)
		assert.ErrorIs(t, err, ErrNotUnderReview)
	})
}

func TestService_AddMessage(t *testing.T) {
	openDispute := func() *models.Dispute {
		return &models.Dispute{
			Model:     gorm.Model{ID: 11},
			TripID:    3,
			PaymentID: 7,
			OpenedBy:  shipper.UserID,
			Status:    models.DisputeOpen,
		}
	}

	t.Run("empty body", func(t *testing.T) {
		s := newTestService(new(MockDisputeRepo), new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.AddMessage(context.Background(), shipper, 11, "", "")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("party messages are forced to the admin channel", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		disputes.On("GetByID", uint(11)).Return(openDispute(), nil)
		trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		disputes.On("CreateMessage", mock.AnythingOfType("*models.DisputeMessage")).Return(nil)

		s := newTestService(disputes, trips, loads, new(MockPaymentRepo))
		// The hauler tries to address the shipper directly; the recipient is
		// overridden.
		msg, err := s.AddMessage(context.Background(), hauler, 11, models.RecipientShipper, "the count was right at the scale")
		assert.NoError(t, err)
		assert.Equal(t, models.RecipientAdmin, msg.Recipient)
		assert.Equal(t, models.RoleHauler, msg.SenderRole)
	})

	t.Run("admin must name a valid recipient", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		disputes.On("GetByID", uint(11)).Return(openDispute(), nil)
		trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

		s := newTestService(disputes, trips, loads, new(MockPaymentRepo))
		_, err := s.AddMessage(context.Background(), admin, 11, "everyone-and-their-dog", "ruling soon")
		assert.ErrorIs(t, err, ErrInvalidRecipient)
	})

	t.Run("admin broadcasts to all", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		disputes.On("GetByID", uint(11)).Return(openDispute(), nil)
		trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		disputes.On("CreateMessage", mock.AnythingOfType("*models.DisputeMessage")).Return(nil)

		s := newTestService(disputes, trips, loads, new(MockPaymentRepo))
		msg, err := s.AddMessage(context.Background(), admin, 11, models.RecipientAll, "evidence deadline is Friday")
		assert.NoError(t, err)
		assert.Equal(t, models.RecipientAll, msg.Recipient)
		assert.Equal(t, models.RoleAdmin, msg.SenderRole)
	})

	t.Run("outsider cannot post", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		disputes.On("GetByID", uint(11)).Return(openDispute(), nil)
		trips.On("GetByID", uint(3)).Return(deliveredTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

		s := newTestService(disputes, trips, loads, new(MockPaymentRepo))
		_, err := s.AddMessage(context.Background(), models.Actor{UserID: 55, Role: models.RoleDriver}, 11, "", "hello")
		assert.ErrorIs(t, err, ErrNotTripParty)
	})
}

func TestService_Cancel(t *testing.T) {
	openDispute := func() *models.Dispute {
		return &models.Dispute{
			Model:     gorm.Model{ID: 11},
			TripID:    3,
			PaymentID: 7,
			OpenedBy:  shipper.UserID,
			Status:    models.DisputeOpen,
		}
	}
	cancelled := func() *models.Dispute {
		d := openDispute()
		d.Status = models.DisputeCancelled
		return d
	}

	t.Run("only the opener may cancel", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		disputes.On("GetByID", uint(11)).Return(openDispute(), nil)

		s := newTestService(disputes, new(MockTripRepo), new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.Cancel(context.Background(), hauler, 11)
		assert.ErrorIs(t, err, ErrNotOpener)
	})

	t.Run("cancel on a confirmed trip re-arms the release clock", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		payments := new(MockPaymentRepo)

		confirmedAt := time.Now().Add(-2 * time.Hour)
		trip := deliveredTrip()
		trip.Status = models.TripDisputed
		trip.ConfirmedAt = &confirmedAt

		disputes.On("GetByID", uint(11)).Return(openDispute(), nil).Once()
		trips.On("GetByID", uint(3)).Return(trip, nil)
		disputes.On("TransitionStatus", uint(11), models.DisputeOpen,
			models.DisputeCancelled, mock.Anything).Return(true, nil)
		disputes.On("HasActiveByPayment", uint(7), uint(11)).Return(false, nil)
		trips.On("TransitionStatus", uint(3), models.TripDisputed,
			models.TripConfirmed, mock.Anything).Return(true, nil)
		payments.On("GetByID", uint(7)).Return(fundedPayment(), nil)
		payments.On("SetAutoRelease", uint(7), mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && time.Until(*at) > 23*time.Hour
		})).Return(nil)
		disputes.On("GetByID", uint(11)).Return(cancelled(), nil).Once()

		s := newTestService(disputes, trips, new(MockLoadRepo), payments)
		d, err := s.Cancel(context.Background(), shipper, 11)

		assert.NoError(t, err)
		assert.Equal(t, models.DisputeCancelled, d.Status)
		trips.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("unconfirmed trip returns to awaiting confirmation without a clock", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)
		payments := new(MockPaymentRepo)

		trip := deliveredTrip()
		trip.Status = models.TripDisputed

		disputes.On("GetByID", uint(11)).Return(openDispute(), nil).Once()
		trips.On("GetByID", uint(3)).Return(trip, nil)
		disputes.On("TransitionStatus", uint(11), models.DisputeOpen,
			models.DisputeCancelled, mock.Anything).Return(true, nil)
		disputes.On("HasActiveByPayment", uint(7), uint(11)).Return(false, nil)
		trips.On("TransitionStatus", uint(3), models.TripDisputed,
			models.TripDeliveredPending, mock.Anything).Return(true, nil)
		disputes.On("GetByID", uint(11)).Return(cancelled(), nil).Once()

		s := newTestService(disputes, trips, new(MockLoadRepo), payments)
		_, err := s.Cancel(context.Background(), shipper, 11)

		assert.NoError(t, err)
		// The shipper still has to confirm; no auto-release until they do.
		payments.AssertNotCalled(t, "SetAutoRelease", mock.Anything, mock.Anything)
	})

	t.Run("another active dispute keeps the trip suspended", func(t *testing.T) {
		disputes := new(MockDisputeRepo)
		trips := new(MockTripRepo)

		trip := deliveredTrip()
		trip.Status = models.TripDisputed

		disputes.On("GetByID", uint(11)).Return(openDispute(), nil).Once()
		trips.On("GetByID", uint(3)).Return(trip, nil)
		disputes.On("TransitionStatus", uint(11), models.DisputeOpen,
			models.DisputeCancelled, mock.Anything).Return(true, nil)
		disputes.On("HasActiveByPayment", uint(7), uint(11)).Return(true, nil)
		disputes.On("GetByID", uint(11)).Return(cancelled(), nil).Once()

		s := newTestService(disputes, trips, new(MockLoadRepo), new(MockPaymentRepo))
		_, err := s.Cancel(context.Background(), shipper, 11)

		assert.NoError(t, err)
		trips.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func (m *MockDisputeRepo) WithTx(tx *gorm.DB) repositories.DisputeRepository {
	return m
}

func (m *MockDisputeRepo) Create(dispute *models.Dispute) error {
	args := m.Called(dispute)
	return args.Error(0)
}

func (m *MockDisputeRepo) GetByID(id uint) (*models.Dispute, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dispute), args.Error(1)
}

func (m *MockDisputeRepo) Update(dispute *models.Dispute) error {
	args := m.Called(dispute)
	return args.Error(0)
}

func (m *MockDisputeRepo) ListByTrip(tripID uint) ([]models.Dispute, error) {
	args := m.Called(tripID)
	return args.Get(0).([]models.Dispute), args.Error(1)
}

func (m *MockDisputeRepo) HasActiveByPayment(paymentID uint, excludeID uint) (bool, error) {
	args := m.Called(paymentID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDisputeRepo) TransitionStatus(id uint, from, to models.DisputeStatus, extra map[string]interface{}) (bool, error) {
	args := m.Called(id, from, to, extra)
	return args.Bool(0), args.Error(1)
}

func (m *MockDisputeRepo) CreateMessage(msg *models.DisputeMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockDisputeRepo) ListMessages(disputeID uint) ([]models.DisputeMessage, error) {
	args := m.Called(disputeID)
	return args.Get(0).([]models.DisputeMessage), args.Error(1)
}

func (m *MockTripRepo) WithTx(tx *gorm.DB) repositories.TripRepository {
	return m
}

func (m *MockTripRepo) Create(trip *models.Trip) error {
	args := m.Called(trip)
	return args.Error(0)
}

func (m *MockTripRepo) GetByID(id uint) (*models.Trip, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) GetByLoadID(loadID uint) (*models.Trip, error) {
	args := m.Called(loadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) Update(trip *models.Trip) error {
	args := m.Called(trip)
	return args.Error(0)
}

func (m *MockTripRepo) ListByHauler(haulerID uint) ([]models.Trip, error) {
	args := m.Called(haulerID)
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripRepo) TransitionStatus(id uint, from, to models.TripStatus, extra map[string]interface{}) (bool, error) {
	args := m.Called(id, from, to, extra)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepo) Close(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepo) ExistsBlockingForTruck(truckID uint) (bool, error) {
	args := m.Called(truckID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepo) ExistsForLoad(loadID uint) (bool, error) {
	args := m.Called(loadID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoadRepo) WithTx(tx *gorm.DB) repositories.LoadRepository {
	return m
}

func (m *MockLoadRepo) Create(load *models.Load) error {
	args := m.Called(load)
	return args.Error(0)
}

func (m *MockLoadRepo) GetByID(id uint) (*models.Load, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Load), args.Error(1)
}

func (m *MockLoadRepo) Update(load *models.Load) error {
	args := m.Called(load)
	return args.Error(0)
}

func (m *MockLoadRepo) ListByShipper(shipperID uint) ([]models.Load, error) {
	args := m.Called(shipperID)
	return args.Get(0).([]models.Load), args.Error(1)
}

func (m *MockLoadRepo) ListOpen(origin, destination, stockType string) ([]models.Load, error) {
	args := m.Called(origin, destination, stockType)
	return args.Get(0).([]models.Load), args.Error(1)
}

func (m *MockLoadRepo) TransitionStatus(id uint, from, to models.LoadStatus) (bool, error) {
	args := m.Called(id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoadRepo) SetStatus(id uint, to models.LoadStatus) error {
	args := m.Called(id, to)
	return args.Error(0)
}

func (m *MockPaymentRepo) WithTx(tx *gorm.DB) repositories.PaymentRepository {
	return m
}

func (m *MockPaymentRepo) Create(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(id uint) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepo) GetByTripID(tripID uint) (*models.Payment, error) {
	args := m.Called(tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepo) GetByProviderRef(ref string) (*models.Payment, error) {
	args := m.Called(ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepo) Update(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) TransitionStatus(id uint, from, to models.PaymentStatus, extra map[string]interface{}) (bool, error) {
	args := m.Called(id, from, to, extra)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepo) SetAutoRelease(id uint, at *time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockPaymentRepo) ListDueReleaseIDs(now time.Time, limit int) ([]uint, error) {
	args := m.Called(now, limit)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockPaymentRepo) LockForRelease(id uint) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepo) CreateReceipt(receipt *models.DirectPaymentReceipt) error {
	args := m.Called(receipt)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetReceiptByTripID(tripID uint) (*models.DirectPaymentReceipt, error) {
	args := m.Called(tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DirectPaymentReceipt), args.Error(1)
}
