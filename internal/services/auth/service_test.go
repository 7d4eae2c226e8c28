package auth

import (
	"testing"

	"drover/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepo struct {
	mock.Mock
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		input     RegisterInput
		setupMock func(*MockUserRepo)
		errMsg    string
		check     func(*testing.T, *models.User)
	}{
		{
			name:   "short password",
			input:  RegisterInput{Email: "a@b.com", Password: "ab!", Role: models.RoleShipper},
			errMsg: "at least 8 characters",
		},
		{
			name:   "password without special characters",
			input:  RegisterInput{Email: "a@b.com", Password: "longenoughpass", Role: models.RoleShipper},
			errMsg: "special characters",
		},
		{
			name:   "unknown role",
			input:  RegisterInput{Email: "a@b.com", Password: "longenough!", Role: "dispatcher"},
			errMsg: "invalid role",
		},
		{
			name:  "role defaults to shipper",
			input: RegisterInput{Email: "a@b.com", Phone: "555-0101", Password: "longenough!", Name: "A"},
			setupMock: func(users *MockUserRepo) {
				users.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
			},
			check: func(t *testing.T, user *models.User) {
				assert.Equal(t, models.RoleShipper, user.Role)
				assert.Nil(t, user.TrialEndsAt)
				assert.Equal(t, 1, user.TokenVersion)
				// Never store the plaintext.
				assert.NotEqual(t, "longenough!", user.Password)
			},
		},
		{
			name:  "hauler starts a trial",
			input: RegisterInput{Email: "h@b.com", Phone: "555-0102", Password: "longenough!", Name: "H", Role: models.RoleHauler},
			setupMock: func(users *MockUserRepo) {
				users.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
			},
			check: func(t *testing.T, user *models.User) {
				assert.Equal(t, models.RoleHauler, user.Role)
				assert.NotNil(t, user.TrialEndsAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepo)
			if tt.setupMock != nil {
				tt.setupMock(users)
			}

			user, err := NewService(users).Register(tt.input)

			if tt.errMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
				tt.check(t, user)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("oldpass!1"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	existing := func() *models.User {
		return &models.User{
			Model:        gorm.Model{ID: 1},
			Email:        "a@b.com",
			Password:     string(hashed),
			TokenVersion: 1,
		}
	}

	t.Run("wrong old password", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByID", uint(1)).Return(existing(), nil)

		err := NewService(users).ChangePassword(1, "not-the-one", "newpass!1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid old password")
	})

	t.Run("weak new password", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByID", uint(1)).Return(existing(), nil)

		err := NewService(users).ChangePassword(1, "oldpass!1", "weak")
		assert.Error(t, err)
	})

	t.Run("change bumps the token version", func(t *testing.T) {
		users := new(MockUserRepo)
		user := existing()
		users.On("GetByID", uint(1)).Return(user, nil)
		users.On("Update", mock.AnythingOfType("*models.User")).Return(nil)

		err := NewService(users).ChangePassword(1, "oldpass!1", "newpass!1")
		assert.NoError(t, err)
		assert.Equal(t, 2, user.TokenVersion)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newpass!1")))
	})
}

func TestService_Logout(t *testing.T) {
	users := new(MockUserRepo)
	users.On("IncrementTokenVersion", uint(1)).Return(nil)

	assert.NoError(t, NewService(users).Logout(1))
	users.AssertExpectations(t)
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}
