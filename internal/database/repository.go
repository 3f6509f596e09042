package database

import (
	"context"
	"errors"
)

// ErrAlreadyExists is returned by CreateAccount when the username or email
// is already taken, whether detected by the pre-insert check or by the
// unique constraint.
var ErrAlreadyExists = errors.New("account already exists")

type Repository interface {
	Ping(ctx context.Context) error
	CreateAccount(ctx context.Context, params CreateAccountParams) (User, error)
	GetAccountById(ctx context.Context, id int) (User, error)
	GetAccountByUsername(ctx context.Context, username string) (User, error)
	UpdateLastLogin(ctx context.Context, userId int) error
	ListAccounts(ctx context.Context) ([]User, error)
	GetConversation(ctx context.Context, userA, userB int) (Conversation, error)
	CreateConversation(ctx context.Context, userA, userB int) (Conversation, error)
	ListConversations(ctx context.Context, userId int) ([]ConversationSummary, error)
	TouchConversation(ctx context.Context, conversationId int) error
	CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error)
	GetMessages(ctx context.Context, conversationId int) ([]Message, error)
	ListRooms(ctx context.Context) ([]Room, error)
	CreateRoomMessage(ctx context.Context, params CreateRoomMessageParams) (RoomMessage, error)
	GetRoomMessages(ctx context.Context, roomId int) ([]RoomMessage, error)
}
