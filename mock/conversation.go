package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.ConversationService = (*ConversationService)(nil)

// ConversationService is a mock implementation of sitechat.ConversationService.
type ConversationService struct {
	CreateConversationFn   func(ctx context.Context, conv *sitechat.Conversation) error
	FindConversationByIDFn func(ctx context.Context, id string) (*sitechat.Conversation, error)
	CreateMessageFn        func(ctx context.Context, msg *sitechat.Message) error
	FindRecentMessagesFn   func(ctx context.Context, conversationID string, limit int) ([]*sitechat.Message, error)
}

func (s *ConversationService) CreateConversation(ctx context.Context, conv *sitechat.Conversation) error {
	return s.CreateConversationFn(ctx, conv)
}

func (s *ConversationService) FindConversationByID(ctx context.Context, id string) (*sitechat.Conversation, error) {
	return s.FindConversationByIDFn(ctx, id)
}

func (s *ConversationService) CreateMessage(ctx context.Context, msg *sitechat.Message) error {
	return s.CreateMessageFn(ctx, msg)
}

func (s *ConversationService) FindRecentMessages(ctx context.Context, conversationID string, limit int) ([]*sitechat.Message, error) {
	return s.FindRecentMessagesFn(ctx, conversationID, limit)
}
