package echo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/sitechat/sitechat"
)

// maxMessageLen is the longest accepted chat message, in runes.
const maxMessageLen = 2000

// historyLimit is how many prior messages are loaded for the model.
const historyLimit = 10

// offTopicReply is returned without a model call when the question has
// no lexical overlap with the indexed site.
const offTopicReply = "I can only answer questions about %s. Is there something about the business I can help you with?"

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Reply          string   `json:"reply"`
	Sources        []string `json:"sources"`
	ConversationID string   `json:"conversationId"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return sitechat.Errorf(sitechat.EINVALID, "invalid request body")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return sitechat.Errorf(sitechat.EINVALID, "message required")
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return sitechat.Errorf(sitechat.EINVALID, "message exceeds %d characters", maxMessageLen)
	}

	ctx := c.Request().Context()

	conv, err := s.conversation(ctx, req.ConversationID)
	if err != nil {
		return err
	}

	// History is loaded before the new turn is stored, so it holds
	// only prior turns.
	history, err := s.Conversations.FindRecentMessages(ctx, conv.ID, historyLimit)
	if err != nil {
		return err
	}

	onTopic, err := s.Retriever.OnTopic(ctx, s.Domain, message)
	if err != nil {
		return err
	}

	reply := fmt.Sprintf(offTopicReply, s.siteLabel())
	sources := []string{}
	if onTopic {
		rc, err := s.Retriever.RetrieveContext(ctx, s.Domain, message, sitechat.RetrieveOptions{
			TopK:     s.TopK,
			MaxChars: s.MaxContextChars,
		})
		if err != nil {
			return err
		}

		facts, err := s.Facts.FindFacts(ctx, s.Domain)
		if err != nil && sitechat.ErrorCode(err) != sitechat.ENOTFOUND {
			return err
		}

		reply, err = s.Asker.Answer(ctx, sitechat.AnswerRequest{
			SiteName: s.SiteName,
			Facts:    facts,
			Context:  rc.Context,
			History:  history,
			Question: message,
		})
		if err != nil {
			return err
		}
		sources = append(sources, rc.Sources...)
	}

	if err := s.Conversations.CreateMessage(ctx, &sitechat.Message{
		ConversationID: conv.ID,
		Role:           sitechat.RoleUser,
		Content:        message,
	}); err != nil {
		return err
	}
	if err := s.Conversations.CreateMessage(ctx, &sitechat.Message{
		ConversationID: conv.ID,
		Role:           sitechat.RoleAssistant,
		Content:        reply,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, chatResponse{
		Reply:          reply,
		Sources:        sources,
		ConversationID: conv.ID,
	})
}

// conversation loads the visitor's existing conversation or starts a
// new one when no ID was sent.
func (s *Server) conversation(ctx context.Context, id string) (*sitechat.Conversation, error) {
	if id != "" {
		return s.Conversations.FindConversationByID(ctx, id)
	}

	conv := &sitechat.Conversation{Domain: s.Domain}
	if err := s.Conversations.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Server) siteLabel() string {
	if s.SiteName != "" {
		return s.SiteName
	}
	return s.Domain
}
