package domain

// View identifies the screen a session is on
type View string

// Views. A session starts on ViewMain; ViewAdmin is only reachable through a
// successful login from ViewAdminLogin.
const (
	ViewMain       View = "main"
	ViewAdminLogin View = "admin_login"
	ViewAdmin      View = "admin"
	ViewUser       View = "user"
)

// Snapshot is the session-visible state surface consumed by the UI layer
type Snapshot struct {
	SessionID       string                  `json:"session_id"`
	View            View                    `json:"view"`
	APIKeySet       bool                    `json:"api_key_set"`
	Documents       map[string]DocumentInfo `json:"documents"`
	CurrentDocument string                  `json:"current_document,omitempty"`
	ChatHistory     []ChatMessage           `json:"chat_history"`
}
