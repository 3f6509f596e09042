package database

import (
	"database/sql"
	"time"
)

type User struct {
	Id           int
	Username     string
	Email        string
	PasswordHash string
	ExternalId   string
	LastLogin    sql.NullTime
	CreatedAt    time.Time
}

type Conversation struct {
	Id        int
	User1Id   int
	User2Id   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationSummary is one row of the conversation list: the conversation
// joined with the other party and its most recent message, if any.
type ConversationSummary struct {
	Id              int
	OtherUserId     int
	OtherUsername   string
	LastMessage     sql.NullString
	LastMessageTime sql.NullTime
	CreatedAt       time.Time
}

type Message struct {
	Id             int
	ConversationId int
	SenderId       int
	SenderUsername string
	Content        string
	MessageType    string
	CreatedAt      time.Time
}

type Room struct {
	Id          int
	Name        string
	CreatedBy   int
	CreatedOn   time.Time
	MemberCount int
}

type RoomMessage struct {
	Id             int
	RoomId         int
	SenderId       int
	SenderUsername string
	Content        string
	CreatedAt      time.Time
}

type CreateAccountParams struct {
	Username     string
	Email        string
	PasswordHash string
	ExternalId   string
}

type CreateMessageParams struct {
	ConversationId int
	SenderId       int
	Content        string
	MessageType    string
}

type CreateRoomMessageParams struct {
	RoomId   int
	SenderId int
	Content  string
}
