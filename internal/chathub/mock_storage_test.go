package chathub_test

import (
	"time"

	"chatterbox/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Presence / entitlement operations
func (m *MockStorage) IsUserEligible(userID string, callType models.CallType) (bool, error) {
	args := m.Called(userID, callType)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetUserPlan(userID, plan string) error {
	args := m.Called(userID, plan)
	return args.Error(0)
}

func (m *MockStorage) SetLastSeen(userID string, t time.Time) error {
	args := m.Called(userID, t)
	return args.Error(0)
}

func (m *MockStorage) GetLastSeen(userID string) (*time.Time, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// Message operations
func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(id uint) (*models.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) DeliverPendingMessages(receiverID string) ([]string, error) {
	args := m.Called(receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) MarkConversationSeen(readerID, peerID string) (int64, error) {
	args := m.Called(readerID, peerID)
	return args.Get(0).(int64), args.Error(1)
}

// Call record operations
func (m *MockStorage) CreateCallRecord(rec *models.CallRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockStorage) GetCallRecord(id string) (*models.CallRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallRecord), args.Error(1)
}

func (m *MockStorage) UpdateCallRecord(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *MockStorage) GetCallHistory(userID string) ([]models.CallRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CallRecord), args.Error(1)
}
