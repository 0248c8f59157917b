package models

import (
	"time"
)

// Document is one processed cause list: a PDF (or raw text) run through a
// single OCR engine. Key is "<sha256 of file>:<engine>".
type Document struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Key            string  `gorm:"column:doc_key;size:100;not null;uniqueIndex"`
	FileHash       string  `gorm:"size:64;not null;index"`
	Engine         string  `gorm:"size:32;not null"`
	Pages          int     `gorm:"not null;default:0"`
	RawText        string  `gorm:"type:text"`
	ExtractionTime float64 // seconds
	Cases          []Case  `gorm:"foreignKey:DocumentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
