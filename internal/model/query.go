package model

const (
	IntentPolicy       = "policy"
	IntentPersonalData = "personal_data"
	IntentGeneral      = "general"
)

// ChatExchange is one prior question/answer pair supplied by the
// client. It is inlined into the prompt and never stored.
type ChatExchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Source is a retrieved chunk as returned to the client, with the
// content truncated.
type Source struct {
	Content      string  `json:"content"`
	Filename     string  `json:"filename"`
	Page         int     `json:"page"`
	DocumentType string  `json:"document_type"`
	Score        float32 `json:"score"`
}

type QueryResult struct {
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources,omitempty"`
	Intent      string   `json:"intent"`
	Suggestions []string `json:"suggestions"`
	Degraded    bool     `json:"degraded"`
}

type IngestResult struct {
	DocumentID     string `json:"document_id"`
	ChunksCreated  int    `json:"chunks_created"`
	PagesProcessed int    `json:"pages_processed"`
}

type CollectionStats struct {
	CollectionName string `json:"collection_name"`
	DocumentCount  int    `json:"document_count"`
	EmbeddingModel string `json:"embedding_model"`
}
