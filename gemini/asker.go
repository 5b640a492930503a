package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sitechat/sitechat"
)

const model = "gemini-2.5-flash"

// maxHistoryTurns caps how many prior messages are replayed to the
// model. Older turns are dropped, newest kept.
const maxHistoryTurns = 10

// Ensure Asker implements sitechat.Asker at compile time.
var _ sitechat.Asker = (*Asker)(nil)

// Asker implements sitechat.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client) *Asker {
	return &Asker{client: client}
}

// Answer produces an answer to the visitor's question grounded on the
// retrieved site content, the extracted facts, and the conversation
// history.
func (a *Asker) Answer(ctx context.Context, req sitechat.AnswerRequest) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", sitechat.Errorf(sitechat.EINVALID, "question required")
	}

	result, err := a.client.Models.GenerateContent(ctx, model,
		BuildContents(req.History, req.Context, req.Question),
		BuildConfig(req.SiteName, req.Facts),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", sitechat.Errorf(sitechat.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for a request. The
// system instruction pins the model to the site's content and facts.
func BuildConfig(siteName string, facts *sitechat.SiteFacts) *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: BuildSystemPrompt(siteName, facts)}},
		},
		Temperature: &temp,
	}
}

// BuildSystemPrompt builds the system instruction for a site. Facts
// render as a labeled block so the model quotes them instead of
// guessing contact details.
func BuildSystemPrompt(siteName string, facts *sitechat.SiteFacts) string {
	name := siteName
	if name == "" {
		name = "this business"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a friendly assistant for %s, answering visitor questions about the business. ", name)
	sb.WriteString("Answer using only the website content and verified facts provided. ")
	sb.WriteString("If the answer is not there, say you don't know and suggest contacting the business directly. ")
	sb.WriteString("Keep answers short and conversational.")

	if block := FormatFacts(facts); block != "" {
		sb.WriteString("\n\nVerified facts:\n")
		sb.WriteString(block)
	}
	return sb.String()
}

// FormatFacts renders site facts as one labeled line per present fact.
// A nil or empty facts record yields an empty string.
func FormatFacts(facts *sitechat.SiteFacts) string {
	if facts == nil {
		return ""
	}

	var lines []string
	if facts.OwnerName != "" {
		owner := facts.OwnerName
		if facts.OwnerTitle != "" {
			owner += " (" + facts.OwnerTitle + ")"
		}
		lines = append(lines, "Owner: "+owner)
	}
	if len(facts.Phones) > 0 {
		lines = append(lines, "Phone: "+strings.Join(facts.Phones, ", "))
	}
	if len(facts.Emails) > 0 {
		lines = append(lines, "Email: "+strings.Join(facts.Emails, ", "))
	}
	if len(facts.Addresses) > 0 {
		lines = append(lines, "Address: "+strings.Join(facts.Addresses, ", "))
	}
	if facts.Hours != "" {
		lines = append(lines, "Hours: "+facts.Hours)
	}
	if len(facts.Services) > 0 {
		lines = append(lines, "Services: "+strings.Join(facts.Services, ", "))
	}
	return strings.Join(lines, "\n")
}

// BuildContents assembles the model conversation: capped prior turns
// followed by the current question wrapped with the retrieved content.
func BuildContents(history []*sitechat.Message, siteContent, question string) []*genai.Content {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	var contents []*genai.Content
	for _, msg := range history {
		role := "user"
		if msg.Role == sitechat.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: BuildUserPrompt(siteContent, question)}},
	})
	return contents
}

// BuildUserPrompt wraps the retrieved site content and the question.
func BuildUserPrompt(siteContent, question string) string {
	var sb strings.Builder
	if siteContent != "" {
		sb.WriteString("<website_content>\n")
		sb.WriteString(siteContent)
		sb.WriteString("\n</website_content>\n\n")
	}
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
