package model

// DocumentChunk is one overlapping window of extracted document text
// together with its embedding. Chunks are immutable once stored.
type DocumentChunk struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Filename     string    `json:"filename"`
	Page         int       `json:"page"`
	DocumentType string    `json:"document_type"`
	Content      string    `json:"content"`
	Embedding    []float32 `json:"-"`
	UploadedAt   int64     `json:"uploaded_at"`
}

// ScoredChunk is a DocumentChunk with a similarity score attached.
type ScoredChunk struct {
	DocumentChunk
	Score float32 `json:"score"`
}
