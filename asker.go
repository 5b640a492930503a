package sitechat

import "context"

// AnswerRequest carries everything the model needs to answer one
// visitor question.
type AnswerRequest struct {
	// SiteName is the human-readable name of the business.
	SiteName string

	// Facts are the extracted site facts, if any.
	Facts *SiteFacts

	// Context is the retrieved chunk context, already assembled and
	// budget-bounded.
	Context string

	// History holds the prior conversation turns, oldest first.
	History []*Message

	// Question is the visitor's current question.
	Question string
}

// Asker generates grounded answers to visitor questions.
type Asker interface {
	// Answer produces an answer to req.Question using only req.Context,
	// req.Facts, and the conversation history.
	// Returns EINVALID if the question is empty.
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}
