package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/pdfchat/internal/domain"
	"github.com/liliang-cn/pdfchat/internal/session"
	"github.com/liliang-cn/pdfchat/internal/store"
)

// Handler exposes the session state machine over HTTP. Every route below is
// a thin adapter: the controller owns view gating and all state mutation.
type Handler struct {
	manager    *session.Manager
	controller *session.Controller
}

// NewHandler creates a new session API handler
func NewHandler(manager *session.Manager, controller *session.Controller) *Handler {
	return &Handler{manager: manager, controller: controller}
}

// RegisterRoutes registers session routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.CreateSession)
	r.GET("/:id", h.GetSession)
	r.POST("/:id/navigate", h.Navigate)
	r.POST("/:id/login", h.Login)
	r.PUT("/:id/api-key", h.SetAPIKey)

	r.POST("/:id/documents", h.UploadDocument)
	r.POST("/:id/documents/:name/process", h.ProcessDocument)
	r.DELETE("/:id/documents/:name", h.DeleteDocument)

	r.POST("/:id/document", h.SelectDocument)
	r.POST("/:id/chat", h.Ask)
	r.DELETE("/:id/chat", h.ClearChat)
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func statusFor(err error) int {
	var exErr *domain.ExtractionError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrAPIKeyRequired),
		errors.Is(err, domain.ErrNoDocument),
		errors.Is(err, domain.ErrNotProcessed):
		return http.StatusBadRequest
	case errors.As(err, &exErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func (h *Handler) snapshot(c *gin.Context, s *session.Session, status int) {
	snap, err := h.controller.Snapshot(s)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, snap)
}

// CreateSession starts a new session on the main view
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.manager.Create()
	h.snapshot(c, s, http.StatusCreated)
}

// GetSession returns the session's state surface
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.snapshot(c, s, http.StatusOK)
}

// Navigate applies a view navigation action
func (h *Handler) Navigate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req domain.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.controller.Navigate(s, session.Action(req.Action)); err != nil {
		fail(c, err)
		return
	}
	h.snapshot(c, s, http.StatusOK)
}

// Login attempts the admin_login -> admin transition
func (h *Handler) Login(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.controller.Login(s, req.Password); err != nil {
		fail(c, err)
		return
	}
	h.snapshot(c, s, http.StatusOK)
}

// SetAPIKey stores the session's language-model credential
func (h *Handler) SetAPIKey(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req domain.SetAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.controller.SetAPIKey(s, req.APIKey); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_key_set": true})
}

// UploadDocument stores a PDF, optionally processing it in the same request.
// A failed process step does not undo the upload: the document is reported
// back unprocessed together with the process error.
func (h *Handler) UploadDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}
	processAfter := c.PostForm("process") == "true"

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	doc, err := h.controller.Upload(s, name, src, processAfter)
	if err != nil {
		if doc == nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"document":      doc,
			"processed":     false,
			"process_error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"document":  doc,
		"processed": processAfter,
	})
}

// ProcessDocument extracts and caches a document's text
func (h *Handler) ProcessDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	name := store.NormalizeName(c.Param("name"))
	if err := h.controller.Process(s, name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "processed": true})
}

// DeleteDocument removes a document and its cached text
func (h *Handler) DeleteDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	name := store.NormalizeName(c.Param("name"))
	if err := h.controller.Delete(s, name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

// SelectDocument picks the document to chat about
func (h *Handler) SelectDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req domain.SelectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.controller.SelectDocument(s, req.Name); err != nil {
		fail(c, err)
		return
	}
	h.snapshot(c, s, http.StatusOK)
}

// Ask submits a question about the selected document
func (h *Handler) Ask(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.controller.Ask(c.Request.Context(), s, req.Question)
	if err != nil {
		fail(c, err)
		return
	}

	resp := domain.AskResponse{History: history}
	if len(history) > 0 {
		resp.Answer = history[len(history)-1].Content
	}
	c.JSON(http.StatusOK, resp)
}

// ClearChat empties the transcript
func (h *Handler) ClearChat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := h.controller.ClearChat(s); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chat cleared"})
}
