package model

// UploadedDocument records one ingested file. The ID is the
// timestamp-prefixed name the raw file is stored under.
type UploadedDocument struct {
	ID           string `json:"document_id"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	Chunks       int    `json:"chunks"`
	DocumentType string `json:"document_type"`
	UploadedBy   string `json:"uploaded_by"`
	UploadedAt   int64  `json:"uploaded_at"`
}
