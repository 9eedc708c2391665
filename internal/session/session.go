package session

import (
	"sync"

	"github.com/liliang-cn/pdfchat/internal/domain"
)

// Session holds the mutable state for one user interaction: current view,
// language-model credential, selected document, transcript, and the extracted
// text cache that defines which documents are processed for this session.
// Nothing here is persisted; a session dies with the process or its TTL.
type Session struct {
	ID              string
	View            domain.View
	APIKey          string
	CurrentDocument string
	ChatHistory     []domain.ChatMessage
	TextCache       map[string]string

	// mu serializes actions: one in-flight operation per session.
	mu sync.Mutex
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		View:      domain.ViewMain,
		TextCache: make(map[string]string),
	}
}

// historyCopy returns the transcript by value so callers can read it after
// the session lock is released.
func (s *Session) historyCopy() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(s.ChatHistory))
	copy(out, s.ChatHistory)
	return out
}
