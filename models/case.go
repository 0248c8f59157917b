package models

// Case is one segmented case of a Document. Position keeps the order in
// which serials were first seen.
type Case struct {
	ID         uint   `gorm:"primaryKey"`
	DocumentID uint   `gorm:"index;not null"`
	Serial     int    `gorm:"not null"`
	Position   int    `gorm:"not null"`
	Content    string `gorm:"type:text"`
}
