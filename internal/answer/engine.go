package answer

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/liliang-cn/pdfchat/internal/domain"
	"github.com/liliang-cn/pdfchat/internal/llm"
)

const (
	// ContextLimit bounds how much document text is sent downstream, in
	// characters. The cutoff is a hard prefix, not word-aware; it stands in
	// for retrieval.
	ContextLimit = 4000

	// FallbackAnswer is what the model is told to reply when the answer is
	// not derivable from the provided excerpt.
	FallbackAnswer = "I don't see information about that in the document."

	systemPrompt = "You are a helpful assistant that answers questions based only on the provided PDF content."
)

// Chatter is the language-model boundary
type Chatter interface {
	Chat(ctx context.Context, apiKey string, messages []llm.Message) (string, error)
}

// Engine builds a bounded, grounded prompt and forwards it to the model.
// No retries, no caching: every call is a fresh round trip.
type Engine struct {
	client Chatter
}

// NewEngine creates an answer engine over the given chat client
func NewEngine(client Chatter) *Engine {
	return &Engine{client: client}
}

func buildPrompt(question, documentText string) string {
	excerpt := documentText
	if utf8.RuneCountInString(excerpt) > ContextLimit {
		excerpt = string([]rune(excerpt)[:ContextLimit])
	}
	return fmt.Sprintf(`I have a PDF document with the following content:

%s

Based only on the information above, please answer the following question:
%s

If the answer is not in the provided content, please respond with: %q`,
		excerpt, question, FallbackAnswer)
}

// Answer returns the model's completion verbatim. Any provider failure comes
// back as a ProviderError; the caller decides how to surface it.
func (e *Engine) Answer(ctx context.Context, question, documentText, apiKey string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: domain.RoleUser, Content: buildPrompt(question, documentText)},
	}

	out, err := e.client.Chat(ctx, apiKey, messages)
	if err != nil {
		return "", &domain.ProviderError{Cause: err}
	}
	return out, nil
}
