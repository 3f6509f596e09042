package types

import (
	"time"
)

// User is the identity snapshot exchanged with clients and cached in the
// session store at login time. It is a denormalized copy and is not
// refreshed if the underlying account changes.
type User struct {
	Id         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	ExternalId string    `json:"external_id,omitempty"`
	LastLogin  time.Time `json:"last_login,omitempty"`
}

type Message struct {
	Id             int       `json:"id"`
	ConversationId int       `json:"conversation_id"`
	SenderId       int       `json:"sender_id"`
	SenderUsername string    `json:"sender_username,omitempty"`
	Content        string    `json:"content"`
	Type           string    `json:"type,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type RoomMessage struct {
	Id             int       `json:"id"`
	RoomId         int       `json:"room_id"`
	SenderId       int       `json:"sender_id"`
	SenderUsername string    `json:"sender_username,omitempty"`
	Content        string    `json:"content"`
	Type           string    `json:"type,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Conversation summarizes a private thread for the conversation list: the
// other party's name and the most recent activity.
type Conversation struct {
	Id              int       `json:"id"`
	Name            string    `json:"name"`
	TargetUserId    int       `json:"target_user_id"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
}

// Room summarizes a shared room. MemberCount is advisory metadata, not an
// access gate.
type Room struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	CreatedBy   int       `json:"created_by"`
	CreatedOn   time.Time `json:"created_on"`
	MemberCount int       `json:"member_count"`
}
