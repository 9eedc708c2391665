package domain

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents one entry in a session's transcript
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AskRequest is the request to ask a question about the selected document
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse is the response to a question
type AskResponse struct {
	Answer  string        `json:"answer"`
	History []ChatMessage `json:"history"`
}

// LoginRequest is the admin login request
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// NavigateRequest is a view navigation request
type NavigateRequest struct {
	Action string `json:"action" binding:"required"`
}

// SetAPIKeyRequest sets the session's language-model credential
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// SelectDocumentRequest selects the document to chat about
type SelectDocumentRequest struct {
	Name string `json:"name" binding:"required"`
}
