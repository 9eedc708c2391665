package domain

// Document represents an uploaded PDF in the store
type Document struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// DocumentInfo is a listing entry for a stored PDF. Processed reflects the
// session that asked, not the store: a document is processed for a session
// iff that session holds its extracted text.
type DocumentInfo struct {
	Path      string `json:"path"`
	Processed bool   `json:"processed"`
}
