package service

import (
	"context"
	"fmt"
	"testing"

	"englishcard/internal/domain"
	"englishcard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_Register(t *testing.T) {
	existing := testutil.NewTestUser(1, 123, "Иван")

	tests := []struct {
		name            string
		setup           func(m *testutil.MockUserRepository)
		expectedUser    *domain.User
		expectedCreated bool
		expectedError   error
	}{
		{
			name: "new user",
			setup: func(m *testutil.MockUserRepository) {
				m.On("FindUser", mock.Anything, int64(123)).Return(nil, nil)
				m.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).Return(existing, nil)
			},
			expectedUser:    existing,
			expectedCreated: true,
		},
		{
			name: "returning user",
			setup: func(m *testutil.MockUserRepository) {
				m.On("FindUser", mock.Anything, int64(123)).Return(existing, nil)
			},
			expectedUser:    existing,
			expectedCreated: false,
		},
		{
			name: "concurrent registration",
			setup: func(m *testutil.MockUserRepository) {
				m.On("FindUser", mock.Anything, int64(123)).Return(nil, nil).Once()
				m.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil, domain.ErrStorageConflict)
				m.On("FindUser", mock.Anything, int64(123)).Return(existing, nil).Once()
			},
			expectedUser:    existing,
			expectedCreated: false,
		},
		{
			name: "lookup fails",
			setup: func(m *testutil.MockUserRepository) {
				m.On("FindUser", mock.Anything, int64(123)).Return(nil, fmt.Errorf("%w: down", domain.ErrStorage))
			},
			expectedError: domain.ErrStorage,
		},
		{
			name: "create fails",
			setup: func(m *testutil.MockUserRepository) {
				m.On("FindUser", mock.Anything, int64(123)).Return(nil, nil)
				m.On("CreateUser", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil, domain.ErrStorage)
			},
			expectedError: domain.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockUserRepository)
			tt.setup(mockRepo)

			service := NewUserService(mockRepo)

			user, created, err := service.Register(context.Background(), &domain.User{TelegramID: 123, FirstName: "Иван"})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
				assert.Equal(t, tt.expectedCreated, created)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Resolve(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("FindUser", mock.Anything, int64(123)).Return(testutil.NewTestUser(1, 123, "Иван"), nil)
	mockRepo.On("FindUser", mock.Anything, int64(456)).Return(nil, nil)

	service := NewUserService(mockRepo)

	user, err := service.Resolve(context.Background(), 123)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	user, err = service.Resolve(context.Background(), 456)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Nil(t, user)
}
