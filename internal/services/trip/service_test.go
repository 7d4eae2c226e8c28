package trip

import (
	"context"
	"testing"
	"time"

	"drover/internal/models"
	"drover/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockTripRepo struct {
	mock.Mock
}

type MockLoadRepo struct {
	mock.Mock
}

type MockPaymentRepo struct {
	mock.Mock
}

var (
	shipper = models.Actor{UserID: 1, Role: models.RoleShipper}
	hauler  = models.Actor{UserID: 2, Role: models.RoleHauler}
	driver  = models.Actor{UserID: 4, Role: models.RoleDriver}
)

func readyTrip() *models.Trip {
	return &models.Trip{
		Model:       gorm.Model{ID: 3},
		LoadID:      5,
		HaulerID:    hauler.UserID,
		PaymentMode: models.PaymentModeEscrow,
		PaymentID:   7,
		Status:      models.TripReadyToStart,
	}
}

func tripLoad() *models.Load {
	return &models.Load{
		Model:     gorm.Model{ID: 5},
		ShipperID: shipper.UserID,
		Status:    models.LoadAwaitingEscrow,
	}
}

func newTestService(trips *MockTripRepo, loads *MockLoadRepo, payments *MockPaymentRepo) *Service {
	return NewService(trips, loads, payments, nil, nil, DefaultReleaseWindow)
}

func TestService_Get_Authorization(t *testing.T) {
	driverID := driver.UserID

	tests := []struct {
		name    string
		actor   models.Actor
		mutate  func(*models.Trip)
		wantErr error
	}{
		{"hauler may view", hauler, nil, nil},
		{"shipper may view", shipper, nil, nil},
		{"admin may view", models.Actor{UserID: 100, Role: models.RoleAdmin}, nil, nil},
		{
			name:   "assigned driver may view",
			actor:  driver,
			mutate: func(trip *models.Trip) { trip.DriverID = &driverID },
		},
		{
			name:    "unassigned driver may not",
			actor:   driver,
			wantErr: ErrNotAuthorized,
		},
		{
			name:    "stranger may not",
			actor:   models.Actor{UserID: 55, Role: models.RoleHauler},
			wantErr: ErrNotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips := new(MockTripRepo)
			loads := new(MockLoadRepo)
			trip := readyTrip()
			if tt.mutate != nil {
				tt.mutate(trip)
			}
			trips.On("GetByID", uint(3)).Return(trip, nil)
			loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

			s := newTestService(trips, loads, new(MockPaymentRepo))
			got, err := s.Get(context.Background(), tt.actor, 3)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uint(3), got.ID)
			}
		})
	}
}

func TestService_AssignDriver(t *testing.T) {
	t.Run("only the hauler assigns", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trips.On("GetByID", uint(3)).Return(readyTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

		s := newTestService(trips, loads, new(MockPaymentRepo))
		_, err := s.AssignDriver(context.Background(), shipper, 3, 4, "")
		assert.ErrorIs(t, err, ErrNotTripHauler)
	})

	t.Run("cannot reassign after start", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trip := readyTrip()
		trip.Status = models.TripInProgress
		trips.On("GetByID", uint(3)).Return(trip, nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

		s := newTestService(trips, loads, new(MockPaymentRepo))
		_, err := s.AssignDriver(context.Background(), hauler, 3, 4, "")
		assert.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("assignment sticks", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trips.On("GetByID", uint(3)).Return(readyTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		trips.On("Update", mock.AnythingOfType("*models.Trip")).Return(nil)

		s := newTestService(trips, loads, new(MockPaymentRepo))
		trip, err := s.AssignDriver(context.Background(), hauler, 3, 4, "KS-STOCK-12")
		assert.NoError(t, err)
		assert.Equal(t, uint(4), *trip.DriverID)
		assert.Equal(t, "KS-STOCK-12", trip.VehicleRef)
	})
}

func TestService_MarkDelivered(t *testing.T) {
	inProgress := func() *models.Trip {
		trip := readyTrip()
		trip.Status = models.TripInProgress
		return trip
	}

	t.Run("hauler marks arrival", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trips.On("GetByID", uint(3)).Return(inProgress(), nil).Once()
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		trips.On("TransitionStatus", uint(3), models.TripInProgress, models.TripDeliveredPending,
			mock.Anything).Return(true, nil)
		delivered := inProgress()
		delivered.Status = models.TripDeliveredPending
		trips.On("GetByID", uint(3)).Return(delivered, nil).Once()

		s := newTestService(trips, loads, new(MockPaymentRepo))
		trip, err := s.MarkDelivered(context.Background(), hauler, 3)
		assert.NoError(t, err)
		assert.Equal(t, models.TripDeliveredPending, trip.Status)
		trips.AssertExpectations(t)
	})

	t.Run("guard misses when not in progress", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trips.On("GetByID", uint(3)).Return(readyTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		trips.On("TransitionStatus", uint(3), models.TripInProgress, models.TripDeliveredPending,
			mock.Anything).Return(false, nil)

		s := newTestService(trips, loads, new(MockPaymentRepo))
		_, err := s.MarkDelivered(context.Background(), hauler, 3)
		assert.ErrorIs(t, err, ErrNotInProgress)
	})

	t.Run("shipper may not mark delivery", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trips.On("GetByID", uint(3)).Return(inProgress(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

		s := newTestService(trips, loads, new(MockPaymentRepo))
		_, err := s.MarkDelivered(context.Background(), shipper, 3)
		assert.ErrorIs(t, err, ErrNotTripHauler)
	})
}

func TestService_ConfirmDelivery_Preconditions(t *testing.T) {
	t.Run("only the shipper confirms", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		trips.On("GetByID", uint(3)).Return(readyTrip(), nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)

		s := newTestService(trips, loads, new(MockPaymentRepo))
		_, err := s.ConfirmDelivery(context.Background(), hauler, 3, ConfirmInput{})
		assert.ErrorIs(t, err, ErrNotLoadShipper)
	})

	t.Run("escrow must be funded before confirmation", func(t *testing.T) {
		trips := new(MockTripRepo)
		loads := new(MockLoadRepo)
		payments := new(MockPaymentRepo)
		trip := readyTrip()
		trip.Status = models.TripDeliveredPending
		trips.On("GetByID", uint(3)).Return(trip, nil)
		loads.On("GetByID", uint(5)).Return(tripLoad(), nil)
		payments.On("GetByTripID", uint(3)).Return(&models.Payment{
			Model: gorm.Model{ID: 7}, TripID: 3, Status: models.PaymentAwaitingFunding,
		}, nil)

		s := newTestService(trips, loads, payments)
		_, err := s.ConfirmDelivery(context.Background(), shipper, 3, ConfirmInput{})
		assert.ErrorIs(t, err, ErrEscrowNotFunded)
	})
}

func TestService_Get_NotFound(t *testing.T) {
	trips := new(MockTripRepo)
	trips.On("GetByID", uint(404)).Return(nil, gorm.ErrRecordNotFound)

	s := newTestService(trips, new(MockLoadRepo), new(MockPaymentRepo))
	_, err := s.Get(context.Background(), hauler, 404)
	assert.ErrorIs(t, err, ErrTripNotFound)
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
