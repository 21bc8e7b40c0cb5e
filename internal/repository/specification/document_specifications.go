package specification

import "gorm.io/gorm"

type BySourceKind struct {
	SourceKind string
}

func (s BySourceKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_kind = ?", s.SourceKind)
}

// TitleContains does a case-insensitive substring match on title.
type TitleContains struct {
	Title string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Title+"%")
}

// MetadataField filters on a key inside the jsonb metadata column.
type MetadataField struct {
	Key   string
	Value string
}

func (s MetadataField) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metadata ->> ? = ?", s.Key, s.Value)
}
