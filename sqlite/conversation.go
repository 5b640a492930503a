package sqlite

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sitechat/sitechat"
)

// Compile-time interface verification.
var _ sitechat.ConversationService = (*ConversationService)(nil)

// ConversationService implements sitechat.ConversationService using SQLite.
type ConversationService struct {
	db *DB
}

// NewConversationService creates a new ConversationService.
func NewConversationService(db *DB) *ConversationService {
	return &ConversationService{db: db}
}

// CreateConversation creates a new conversation.
func (s *ConversationService) CreateConversation(ctx context.Context, conv *sitechat.Conversation) error {
	if conv.Domain == "" {
		return sitechat.Errorf(sitechat.EINVALID, "conversation domain required")
	}

	conv.ID = uuid.New().String()
	conv.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, domain, created_at)
		VALUES (?, ?, ?)
	`, conv.ID, conv.Domain, conv.CreatedAt.Format(time.RFC3339))

	return err
}

// FindConversationByID retrieves a conversation by ID.
func (s *ConversationService) FindConversationByID(ctx context.Context, id string) (*sitechat.Conversation, error) {
	var conv sitechat.Conversation
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, domain, created_at
		FROM conversations
		WHERE id = ?
	`, id).Scan(&conv.ID, &conv.Domain, &createdAt)

	if err == sql.ErrNoRows {
		return nil, sitechat.Errorf(sitechat.ENOTFOUND, "conversation not found")
	}
	if err != nil {
		return nil, err
	}

	conv.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// CreateMessage appends a message to its conversation.
func (s *ConversationService) CreateMessage(ctx context.Context, msg *sitechat.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt.Format(time.RFC3339))

	return err
}

// FindRecentMessages returns the most recent limit messages of a
// conversation in chronological order. A limit of zero returns all
// messages.
func (s *ConversationService) FindRecentMessages(ctx context.Context, conversationID string, limit int) ([]*sitechat.Message, error) {
	var query strings.Builder
	var args []any

	// The rowid tiebreaker keeps insertion order for messages created
	// within the same second.
	query.WriteString(`
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC, rowid DESC
	`)
	args = append(args, conversationID)

	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*sitechat.Message
	for rows.Next() {
		var msg sitechat.Message
		var createdAt string

		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, err
		}

		msg.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows arrive newest first; callers want chronological order.
	slices.Reverse(msgs)

	return msgs, nil
}
