package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	SourceKind   string            `gorm:"type:varchar(32);not null;index"`
	Title        string            `gorm:"type:varchar(512);not null"`
	RawText      string            `gorm:"type:text"`
	SourceURL    string            `gorm:"type:text;index"`
	ContentHash  string            `gorm:"type:varchar(64);index"`
	Structure    datatypes.JSONMap `gorm:"type:jsonb"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb"`
	ChunkCount   int               `gorm:"default:0"`
	IsPartial    bool              `gorm:"default:false"`
	ErrorMessage string            `gorm:"type:text"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt    `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
