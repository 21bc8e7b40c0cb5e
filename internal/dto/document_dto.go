package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestFileRequest struct {
	Filename string            `json:"filename" validate:"required"`
	MimeType string            `json:"mime_type"`
	Content  []byte            `json:"-" validate:"required"`
	Metadata map[string]string `json:"metadata"`
}

type IngestURLRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Kind forces the source kind, empty means auto-resolve.
	Kind string `json:"-"`
}

type DocumentResponse struct {
	Id           uuid.UUID              `json:"id"`
	SourceKind   string                 `json:"source_kind"`
	Title        string                 `json:"title"`
	SourceURL    string                 `json:"source_url,omitempty"`
	ChunkCount   int                    `json:"chunk_count"`
	IsPartial    bool                   `json:"is_partial"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Structure    map[string]interface{} `json:"structure,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at,omitempty"`
}

type ListDocumentsRequest struct {
	SourceKind string `query:"source_kind"`
	Title      string `query:"title"` // case-insensitive substring match
	// MetadataKey/MetadataValue filter on a caller metadata field.
	MetadataKey   string `query:"metadata_key"`
	MetadataValue string `query:"metadata_value"`
	Limit         int    `query:"limit"`
	Offset        int    `query:"offset"`
}

type ListDocumentsResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
}

// PublishReindexMessage is the payload queued for async reindexing.
type PublishReindexMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

// IngestProgressMessage is pushed over the websocket while a document
// moves through the pipeline.
type IngestProgressMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	Stage      string    `json:"stage"`
	Detail     string    `json:"detail,omitempty"`
}
