package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/liliang-cn/pdfchat/internal/answer"
	"github.com/liliang-cn/pdfchat/internal/auth"
	"github.com/liliang-cn/pdfchat/internal/domain"
	"github.com/liliang-cn/pdfchat/internal/store"
	"go.uber.org/zap"
)

// Action is a user-triggered event driving the view state machine
type Action string

// Actions
const (
	ActionChooseAdmin Action = "choose_admin"
	ActionChooseChat  Action = "choose_chat"
	ActionBack        Action = "back"
	ActionLogin       Action = "login"
	ActionLogout      Action = "logout"
)

// transitions is the explicit view x action table. Anything absent is an
// illegal transition; in particular admin is only reachable through a
// successful login from admin_login.
var transitions = map[domain.View]map[Action]domain.View{
	domain.ViewMain: {
		ActionChooseAdmin: domain.ViewAdminLogin,
		ActionChooseChat:  domain.ViewUser,
	},
	domain.ViewAdminLogin: {
		ActionLogin: domain.ViewAdmin,
		ActionBack:  domain.ViewMain,
	},
	domain.ViewAdmin: {
		ActionLogout: domain.ViewMain,
	},
	domain.ViewUser: {
		ActionBack: domain.ViewMain,
	},
}

// Controller mediates every session action: it enforces view gating, drives
// the transition table, and orchestrates the store, authenticator, and
// answer engine. Each method runs to completion under the session lock.
type Controller struct {
	store  *store.Store
	auth   *auth.Authenticator
	engine *answer.Engine
	logger *zap.Logger
}

// NewController creates a session controller
func NewController(st *store.Store, au *auth.Authenticator, en *answer.Engine, logger *zap.Logger) *Controller {
	return &Controller{store: st, auth: au, engine: en, logger: logger}
}

func (c *Controller) apply(s *Session, a Action) error {
	next, ok := transitions[s.View][a]
	if !ok {
		return fmt.Errorf("%w: %s from %s", domain.ErrInvalidTransition, a, s.View)
	}
	s.View = next
	return nil
}

func requireView(s *Session, views ...domain.View) error {
	for _, v := range views {
		if s.View == v {
			return nil
		}
	}
	return fmt.Errorf("%w: action not available from %s", domain.ErrInvalidTransition, s.View)
}

// Navigate applies a navigation action (choose_admin, choose_chat, back,
// logout). Login is not a navigation: it carries a credential.
func (c *Controller) Navigate(s *Session, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a == ActionLogin {
		return fmt.Errorf("%w: login requires a password", domain.ErrInvalidRequest)
	}
	return c.apply(s, a)
}

// Login verifies the admin password. On mismatch the session stays on
// admin_login and the attempt can be repeated without limit.
func (c *Controller) Login(s *Session, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewAdminLogin); err != nil {
		return err
	}
	if !c.auth.Verify(password) {
		c.logger.Warn("admin login failed", zap.String("session", s.ID))
		return domain.ErrUnauthorized
	}
	return c.apply(s, ActionLogin)
}

// SetAPIKey stores the language-model credential on the session. Both the
// admin and user screens expose this control.
func (c *Controller) SetAPIKey(s *Session, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewAdmin, domain.ViewUser); err != nil {
		return err
	}
	s.APIKey = key
	return nil
}

// Upload stores a new document. With processAfter set, the text is extracted
// and cached immediately; if no API key is set the upload stands but the
// process step is skipped with an explicit error rather than deferred.
func (c *Controller) Upload(s *Session, name string, r io.Reader, processAfter bool) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewAdmin); err != nil {
		return nil, err
	}

	doc, err := c.store.Upload(name, r)
	if err != nil {
		return nil, err
	}

	if processAfter {
		if s.APIKey == "" {
			return doc, domain.ErrAPIKeyRequired
		}
		text, err := c.store.Process(doc.Name)
		if err != nil {
			return doc, err
		}
		s.TextCache[doc.Name] = text
	}
	return doc, nil
}

// Process extracts and caches a document's text. Gated on API key presence.
// Reprocessing an already-processed document is idempotent.
func (c *Controller) Process(s *Session, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewAdmin); err != nil {
		return err
	}
	if s.APIKey == "" {
		return domain.ErrAPIKeyRequired
	}

	text, err := c.store.Process(name)
	if err != nil {
		return err
	}
	s.TextCache[name] = text
	return nil
}

// Delete removes the document's file and evicts its cached text. A selected
// document that gets deleted is deselected so the reference never dangles.
func (c *Controller) Delete(s *Session, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewAdmin); err != nil {
		return err
	}
	if err := c.store.Delete(name); err != nil {
		return err
	}
	delete(s.TextCache, name)
	if s.CurrentDocument == name {
		s.CurrentDocument = ""
	}
	return nil
}

// SelectDocument picks the document to chat about. Switching documents clears
// the transcript so answers are never attributed to the wrong document.
func (c *Controller) SelectDocument(s *Session, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewUser); err != nil {
		return err
	}

	docs, err := c.store.List(s.TextCache)
	if err != nil {
		return err
	}
	info, ok := docs[name]
	if !ok {
		return domain.ErrNotFound
	}
	if !info.Processed {
		return domain.ErrNotProcessed
	}

	if s.CurrentDocument != name {
		s.CurrentDocument = name
		s.ChatHistory = nil
	}
	return nil
}

// Ask appends the question to the transcript, invokes the answer engine
// synchronously, and appends the assistant reply. A provider failure becomes
// a visible assistant message, never an error past this point: the question
// stays in the transcript and the session keeps going.
func (c *Controller) Ask(ctx context.Context, s *Session, question string) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewUser); err != nil {
		return nil, err
	}
	if s.APIKey == "" {
		return nil, domain.ErrAPIKeyRequired
	}
	if s.CurrentDocument == "" {
		return nil, domain.ErrNoDocument
	}
	text, ok := s.TextCache[s.CurrentDocument]
	if !ok {
		return nil, domain.ErrNotProcessed
	}

	s.ChatHistory = append(s.ChatHistory, domain.ChatMessage{Role: domain.RoleUser, Content: question})

	reply, err := c.engine.Answer(ctx, question, text, s.APIKey)
	if err != nil {
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			reply = fmt.Sprintf("Error generating response: %v", perr.Cause)
		} else {
			reply = fmt.Sprintf("Error generating response: %v", err)
		}
		c.logger.Warn("answer generation failed",
			zap.String("session", s.ID),
			zap.String("document", s.CurrentDocument),
			zap.Error(err),
		)
	}

	s.ChatHistory = append(s.ChatHistory, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
	return s.historyCopy(), nil
}

// ClearChat empties the transcript. The selected document and API key are
// untouched.
func (c *Controller) ClearChat(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := requireView(s, domain.ViewUser); err != nil {
		return err
	}
	s.ChatHistory = nil
	return nil
}

// Snapshot returns the state surface the UI renders from
func (c *Controller) Snapshot(s *Session) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := c.store.List(s.TextCache)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{
		SessionID:       s.ID,
		View:            s.View,
		APIKeySet:       s.APIKey != "",
		Documents:       docs,
		CurrentDocument: s.CurrentDocument,
		ChatHistory:     s.historyCopy(),
	}, nil
}
