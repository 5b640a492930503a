package sitechat

import (
	"context"
	"time"
)

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation groups the messages of one chat session with a visitor.
type Conversation struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is a single turn in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Validate returns an error if the message contains invalid fields.
func (m *Message) Validate() error {
	if m.ConversationID == "" {
		return Errorf(EINVALID, "message conversation ID required")
	}
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return Errorf(EINVALID, "message role must be %q or %q", RoleUser, RoleAssistant)
	}
	if m.Content == "" {
		return Errorf(EINVALID, "message content required")
	}
	return nil
}

// ConversationService manages chat sessions and their messages.
type ConversationService interface {
	// CreateConversation creates a new conversation.
	CreateConversation(ctx context.Context, conv *Conversation) error

	// FindConversationByID retrieves a conversation by ID.
	// Returns ENOTFOUND if the conversation does not exist.
	FindConversationByID(ctx context.Context, id string) (*Conversation, error)

	// CreateMessage appends a message to its conversation.
	CreateMessage(ctx context.Context, msg *Message) error

	// FindRecentMessages returns the most recent limit messages of a
	// conversation in chronological order. A limit of zero returns all
	// messages.
	FindRecentMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error)
}
