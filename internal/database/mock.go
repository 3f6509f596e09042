package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockRepository) GetAccountById(ctx context.Context, id int) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockRepository) GetAccountByUsername(ctx context.Context, username string) (User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockRepository) UpdateLastLogin(ctx context.Context, userId int) error {
	args := m.Called(ctx, userId)
	return args.Error(0)
}
func (m *MockRepository) ListAccounts(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockRepository) GetConversation(ctx context.Context, userA, userB int) (Conversation, error) {
	args := m.Called(ctx, userA, userB)
	return args.Get(0).(Conversation), args.Error(1)
}
func (m *MockRepository) CreateConversation(ctx context.Context, userA, userB int) (Conversation, error) {
	args := m.Called(ctx, userA, userB)
	return args.Get(0).(Conversation), args.Error(1)
}
func (m *MockRepository) ListConversations(ctx context.Context, userId int) ([]ConversationSummary, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).([]ConversationSummary), args.Error(1)
}
func (m *MockRepository) TouchConversation(ctx context.Context, conversationId int) error {
	args := m.Called(ctx, conversationId)
	return args.Error(0)
}
func (m *MockRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockRepository) GetMessages(ctx context.Context, conversationId int) ([]Message, error) {
	args := m.Called(ctx, conversationId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockRepository) ListRooms(ctx context.Context) ([]Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockRepository) CreateRoomMessage(ctx context.Context, params CreateRoomMessageParams) (RoomMessage, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(RoomMessage), args.Error(1)
}
func (m *MockRepository) GetRoomMessages(ctx context.Context, roomId int) ([]RoomMessage, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).([]RoomMessage), args.Error(1)
}
