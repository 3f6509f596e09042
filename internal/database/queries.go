package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// normalizePair returns a user pair in canonical storage order: the smaller
// id is always user1. Together with the unique index on (user1_id, user2_id)
// this keeps at most one conversation row per unordered pair.
func normalizePair(a, b int) (int, int) {
	if b < a {
		return b, a
	}
	return a, b
}

func (db *PgRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (User, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		params.Username,
		params.Email,
	).Scan(&exists)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, ErrAlreadyExists
	}

	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password_hash, external_id, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, username, email, external_id",
		params.Username,
		params.Email,
		params.PasswordHash,
		params.ExternalId,
		time.Now().UTC(),
	)

	var u User
	err = res.Scan(
		&u.Id,
		&u.Username,
		&u.Email,
		&u.ExternalId,
	)
	if isUniqueViolation(err) {
		// the pre-insert check raced with another registration
		return User{}, ErrAlreadyExists
	}

	return u, err
}

func (db *PgRepository) GetAccountById(ctx context.Context, id int) (User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, email, external_id, last_login FROM users "+
			"WHERE id = $1 LIMIT 1",
		id,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Email,
		&user.ExternalId,
		&user.LastLogin,
	)

	return user, err
}

func (db *PgRepository) GetAccountByUsername(ctx context.Context, username string) (User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, external_id, last_login FROM users "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.ExternalId,
		&user.LastLogin,
	)

	return user, err
}

func (db *PgRepository) UpdateLastLogin(ctx context.Context, userId int) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE users SET last_login = $2 WHERE id = $1",
		userId,
		time.Now().UTC(),
	)

	return err
}

func (db *PgRepository) ListAccounts(ctx context.Context) ([]User, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, username, email, external_id, last_login FROM users ORDER BY username ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users = make([]User, 0)
	for rows.Next() {
		var u User
		if err = rows.Scan(&u.Id, &u.Username, &u.Email, &u.ExternalId, &u.LastLogin); err != nil {
			break
		}

		users = append(users, u)
	}

	return users, err
}

func (db *PgRepository) GetConversation(ctx context.Context, userA, userB int) (Conversation, error) {
	u1, u2 := normalizePair(userA, userB)
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, user1_id, user2_id, created_at, updated_at FROM conversations "+
			"WHERE user1_id = $1 AND user2_id = $2 LIMIT 1",
		u1,
		u2,
	)

	var conv Conversation
	err := row.Scan(
		&conv.Id,
		&conv.User1Id,
		&conv.User2Id,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	return conv, err
}

func (db *PgRepository) CreateConversation(ctx context.Context, userA, userB int) (Conversation, error) {
	u1, u2 := normalizePair(userA, userB)
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO conversations (user1_id, user2_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $3) ON CONFLICT (user1_id, user2_id) DO NOTHING "+
			"RETURNING id, user1_id, user2_id, created_at, updated_at",
		u1,
		u2,
		time.Now().UTC(),
	)

	var conv Conversation
	err := res.Scan(
		&conv.Id,
		&conv.User1Id,
		&conv.User2Id,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// a concurrent first contact won the insert; the existing row is ours
		return db.GetConversation(ctx, u1, u2)
	}

	return conv, err
}

func (db *PgRepository) ListConversations(ctx context.Context, userId int) ([]ConversationSummary, error) {
	query := `
		SELECT
				c.id,
				CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END AS other_user_id,
				u.username AS other_username,
				last_msg.content AS last_message,
				last_msg.created_at AS last_message_time,
				c.created_at
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
		LEFT JOIN LATERAL (
				SELECT content, created_at
				FROM messages
				WHERE conversation_id = c.id
				ORDER BY created_at DESC, id DESC
				LIMIT 1
		) last_msg ON true
		WHERE c.user1_id = $1 OR c.user2_id = $1
		ORDER BY COALESCE(last_msg.created_at, c.created_at) DESC;
`

	rows, err := db.conn.QueryContext(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs = make([]ConversationSummary, 0)
	for rows.Next() {
		var c ConversationSummary
		if err = rows.Scan(
			&c.Id,
			&c.OtherUserId,
			&c.OtherUsername,
			&c.LastMessage,
			&c.LastMessageTime,
			&c.CreatedAt,
		); err != nil {
			break
		}

		convs = append(convs, c)
	}

	return convs, err
}

func (db *PgRepository) TouchConversation(ctx context.Context, conversationId int) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE conversations SET updated_at = $2 WHERE id = $1",
		conversationId,
		time.Now().UTC(),
	)

	return err
}

func (db *PgRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO messages (conversation_id, sender_id, content, message_type, created_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, conversation_id, sender_id, content, message_type, created_at",
		params.ConversationId,
		params.SenderId,
		params.Content,
		params.MessageType,
		time.Now().UTC(),
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.ConversationId,
		&msg.SenderId,
		&msg.Content,
		&msg.MessageType,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgRepository) GetMessages(ctx context.Context, conversationId int) ([]Message, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT m.id, m.conversation_id, m.sender_id, u.username, m.content, m.message_type, m.created_at "+
			"FROM messages m JOIN users u ON m.sender_id = u.id "+
			"WHERE m.conversation_id = $1 ORDER BY m.created_at ASC, m.id ASC",
		conversationId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(
			&msg.Id,
			&msg.ConversationId,
			&msg.SenderId,
			&msg.SenderUsername,
			&msg.Content,
			&msg.MessageType,
			&msg.CreatedAt,
		); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}

func (db *PgRepository) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT r.id, r.name, r.created_by, r.created_on, COUNT(rm.user_id) AS member_count "+
			"FROM rooms r LEFT JOIN room_members rm ON rm.room_id = r.id "+
			"GROUP BY r.id, r.name, r.created_by, r.created_on ORDER BY r.name ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms = make([]Room, 0)
	for rows.Next() {
		var room Room
		if err = rows.Scan(&room.Id, &room.Name, &room.CreatedBy, &room.CreatedOn, &room.MemberCount); err != nil {
			break
		}

		rooms = append(rooms, room)
	}

	return rooms, err
}

func (db *PgRepository) CreateRoomMessage(ctx context.Context, params CreateRoomMessageParams) (RoomMessage, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO room_messages (room_id, user_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, room_id, user_id, content, created_at",
		params.RoomId,
		params.SenderId,
		params.Content,
		time.Now().UTC(),
	)

	var msg RoomMessage
	err := res.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.SenderId,
		&msg.Content,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgRepository) GetRoomMessages(ctx context.Context, roomId int) ([]RoomMessage, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT rm.id, rm.room_id, rm.user_id, u.username, rm.content, rm.created_at "+
			"FROM room_messages rm JOIN users u ON rm.user_id = u.id "+
			"WHERE rm.room_id = $1 ORDER BY rm.created_at ASC, rm.id ASC",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]RoomMessage, 0)
	for rows.Next() {
		var msg RoomMessage
		if err = rows.Scan(
			&msg.Id,
			&msg.RoomId,
			&msg.SenderId,
			&msg.SenderUsername,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			break
		}

		messages = append(messages, msg)
	}

	return messages, err
}
