package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id           uuid.UUID
	SourceKind   string
	Title        string
	RawText      string
	SourceURL    string
	ContentHash  string
	Structure    map[string]interface{}
	Metadata     map[string]interface{}
	ChunkCount   int
	IsPartial    bool
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
