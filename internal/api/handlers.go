package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ldupont/messager/internal/database"
	"github.com/ldupont/messager/internal/stats"
	"github.com/ldupont/messager/internal/types"
)

const (
	messageTypePrivate = "private"
	messageTypeRoom    = "room"
)

type PostMessageRequest struct {
	Content      string `json:"content"`
	TargetUserId int    `json:"targetUserId"`
	Type         string `json:"type"`
}

type PostMessageResponse struct {
	Success bool          `json:"success"`
	Message types.Message `json:"message"`
}

type PostRoomMessageRequest struct {
	RoomId  int    `json:"roomId"`
	Content string `json:"content"`
}

type PostRoomMessageResponse struct {
	Success bool              `json:"success"`
	Message types.RoomMessage `json:"message"`
}

func (s *MessengerApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *MessengerApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *MessengerApp) listUsers(w http.ResponseWriter, r *http.Request) {
	dbUsers, err := s.db.ListAccounts(r.Context())
	if err != nil {
		s.log.Println("list accounts:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	users := make([]types.User, 0, len(dbUsers))
	for _, u := range dbUsers {
		user := types.User{
			Id:         u.Id,
			Username:   u.Username,
			Email:      u.Email,
			ExternalId: u.ExternalId,
		}
		if u.LastLogin.Valid {
			user.LastLogin = u.LastLogin.Time
		}

		users = append(users, user)
	}

	s.writeJson(w, http.StatusOK, users)
}

// listConversations returns the caller's private threads ordered by most
// recent activity. Store failures degrade to an empty list so the client
// can keep rendering.
func (s *MessengerApp) listConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := SessionUser(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbConvs, err := s.db.ListConversations(r.Context(), user.Id)
	if err != nil {
		s.log.Println("list conversations:", err)
		s.writeJson(w, http.StatusOK, []types.Conversation{})
		return
	}

	convs := make([]types.Conversation, 0, len(dbConvs))
	for _, c := range dbConvs {
		conv := types.Conversation{
			Id:              c.Id,
			Name:            c.OtherUsername,
			TargetUserId:    c.OtherUserId,
			LastMessage:     c.LastMessage.String,
			LastMessageTime: c.CreatedAt,
		}
		if c.LastMessageTime.Valid {
			conv.LastMessageTime = c.LastMessageTime.Time
		}

		convs = append(convs, conv)
	}

	s.writeJson(w, http.StatusOK, convs)
}

// getMessages lists the private thread with the given user, oldest first.
// "No conversation yet" and read failures both surface as an empty list
// rather than an error.
func (s *MessengerApp) getMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := SessionUser(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	targetStr := r.URL.Query().Get("targetUserId")
	if targetStr == "" {
		errResp := NewMissingParamsError("targetUserId is required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	targetUserId, err := strconv.Atoi(targetStr)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	conv, err := s.db.GetConversation(r.Context(), user.Id, targetUserId)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Println("get conversation:", err)
		}
		s.writeJson(w, http.StatusOK, []types.Message{})
		return
	}

	dbMessages, err := s.db.GetMessages(r.Context(), conv.Id)
	if err != nil {
		s.log.Println("get messages:", err)
		s.writeJson(w, http.StatusOK, []types.Message{})
		return
	}

	messages := make([]types.Message, 0, len(dbMessages))
	for _, msg := range dbMessages {
		messages = append(messages, types.Message{
			Id:             msg.Id,
			ConversationId: msg.ConversationId,
			SenderId:       msg.SenderId,
			SenderUsername: msg.SenderUsername,
			Content:        msg.Content,
			Type:           msg.MessageType,
			Timestamp:      msg.CreatedAt,
		})
	}

	s.writeJson(w, http.StatusOK, messages)
}

func (s *MessengerApp) postMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := SessionUser(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Content == "" || req.TargetUserId == 0 {
		errResp := NewMissingFieldsError("content and targetUserId are required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msgType := req.Type
	if msgType == "" {
		msgType = messageTypePrivate
	}

	conv, err := s.db.GetConversation(r.Context(), user.Id, req.TargetUserId)
	if errors.Is(err, sql.ErrNoRows) {
		conv, err = s.db.CreateConversation(r.Context(), user.Id, req.TargetUserId)
	}
	if err != nil {
		s.log.Println("resolve conversation:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.CreateMessage(r.Context(), database.CreateMessageParams{
		ConversationId: conv.Id,
		SenderId:       user.Id,
		Content:        req.Content,
		MessageType:    msgType,
	})
	if err != nil {
		s.log.Println("create message:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// advisory: a failed activity bump must not fail the send
	if err := s.db.TouchConversation(r.Context(), conv.Id); err != nil {
		s.log.Println("touch conversation:", err)
	}

	s.incr(stats.MessagesSent)
	s.writeJson(w, http.StatusOK, PostMessageResponse{
		Success: true,
		Message: types.Message{
			Id:             msg.Id,
			ConversationId: msg.ConversationId,
			SenderId:       msg.SenderId,
			SenderUsername: user.Username,
			Content:        msg.Content,
			Type:           msg.MessageType,
			Timestamp:      msg.CreatedAt,
		},
	})
}

func (s *MessengerApp) listRooms(w http.ResponseWriter, r *http.Request) {
	dbRooms, err := s.db.ListRooms(r.Context())
	if err != nil {
		s.log.Println("list rooms:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rooms := make([]types.Room, 0, len(dbRooms))
	for _, room := range dbRooms {
		rooms = append(rooms, types.Room{
			Id:          room.Id,
			Name:        room.Name,
			CreatedBy:   room.CreatedBy,
			CreatedOn:   room.CreatedOn,
			MemberCount: room.MemberCount,
		})
	}

	s.writeJson(w, http.StatusOK, rooms)
}

// Room access is deliberately open: membership is advisory metadata and any
// authenticated user may read or write any room.
func (s *MessengerApp) getRoomMessages(w http.ResponseWriter, r *http.Request) {
	roomStr := r.URL.Query().Get("roomId")
	if roomStr == "" {
		errResp := NewMissingParamsError("roomId is required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomId, err := strconv.Atoi(roomStr)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbMessages, err := s.db.GetRoomMessages(r.Context(), roomId)
	if err != nil {
		s.log.Println("get room messages:", err)
		s.writeJson(w, http.StatusOK, []types.RoomMessage{})
		return
	}

	messages := make([]types.RoomMessage, 0, len(dbMessages))
	for _, msg := range dbMessages {
		messages = append(messages, types.RoomMessage{
			Id:             msg.Id,
			RoomId:         msg.RoomId,
			SenderId:       msg.SenderId,
			SenderUsername: msg.SenderUsername,
			Content:        msg.Content,
			Type:           messageTypeRoom,
			Timestamp:      msg.CreatedAt,
		})
	}

	s.writeJson(w, http.StatusOK, messages)
}

func (s *MessengerApp) postRoomMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := SessionUser(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req PostRoomMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.RoomId == 0 || req.Content == "" {
		errResp := NewMissingFieldsError("roomId and content are required")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.CreateRoomMessage(r.Context(), database.CreateRoomMessageParams{
		RoomId:   req.RoomId,
		SenderId: user.Id,
		Content:  req.Content,
	})
	if err != nil {
		s.log.Println("create room message:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.incr(stats.RoomMessagesSent)
	s.writeJson(w, http.StatusOK, PostRoomMessageResponse{
		Success: true,
		Message: types.RoomMessage{
			Id:             msg.Id,
			RoomId:         msg.RoomId,
			SenderId:       msg.SenderId,
			SenderUsername: user.Username,
			Content:        msg.Content,
			Type:           messageTypeRoom,
			Timestamp:      msg.CreatedAt,
		},
	})
}
