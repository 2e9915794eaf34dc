package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "favsvc/internal/errors"
	"favsvc/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	hasher := newTestHasher(t)

	tests := []struct {
		name          string
		username      string
		password      string
		display       string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "creates with hashed password",
			username: "alice",
			password: "secret123",
			display:  "Alice",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					match, _, err := hasher.Verify("secret123", u.PasswordHash)
					return u.Username == "alice" && err == nil && match && u.Name() == "Alice"
				})).Return(nil)
			},
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "secret123",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrUserAlreadyExists)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:          "empty password",
			username:      "alice",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
		{
			name:          "blank username",
			username:      "  ",
			password:      "secret123",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			user, err := NewUserService(mockRepo, hasher).CreateUser(context.Background(), tt.username, tt.password, tt.display)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotContains(t, user.PasswordHash, tt.password)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_EnsureUser(t *testing.T) {
	hasher := newTestHasher(t)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)
	mockRepo.On("FindByUsername", mock.Anything, "bob").Return(nil, apperrors.ErrUserNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	svc := NewUserService(mockRepo, hasher)

	user, created, err := svc.EnsureUser(context.Background(), "alice", "secret123", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint64(1), user.ID)

	user, created, err = svc.EnsureUser(context.Background(), "bob", "secret123", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "bob", user.Username)

	mockRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)
	mockRepo.On("Delete", mock.Anything, uint64(1)).Return(nil)
	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrUserNotFound)
	svc := NewUserService(mockRepo, newTestHasher(t))

	require.NoError(t, svc.DeleteUser(context.Background(), "alice"))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "ghost"), apperrors.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}
