package store

import "time"

// ProcessedRecord marks one work unit as fully processed. The key is
// the content-addressed unit key, so re-marking the same unit is a
// no-op and unrelated units never collide.
type ProcessedRecord struct {
	Key                string    `gorm:"primaryKey;size:64"`
	SourceID           string    `gorm:"index;not null"`
	GroupLabel         string    `gorm:"index"`
	Locator            string    `gorm:"not null"`
	SubUnitLabel       string    `gorm:""`
	WordCount          int       `gorm:"not null"`
	QuestionsGenerated int       `gorm:"not null"`
	ProcessedAt        time.Time `gorm:"not null"`
}

func (ProcessedRecord) TableName() string { return "processed_units" }

// QuestionRecord is one archived generated question together with its
// provenance.
type QuestionRecord struct {
	ID           uint      `gorm:"primaryKey"`
	UnitKey      string    `gorm:"index;size:64;not null"`
	SourceID     string    `gorm:"index;not null"`
	GroupLabel   string    `gorm:""`
	Locator      string    `gorm:"index;not null"`
	SubUnitLabel string    `gorm:""`
	ModelID      string    `gorm:"index;not null"`
	Prompt       string    `gorm:"type:text"`
	Question     string    `gorm:"type:text;not null"`
	OptionA      string    `gorm:"type:text;not null"`
	OptionB      string    `gorm:"type:text;not null"`
	OptionC      string    `gorm:"type:text;not null"`
	OptionD      string    `gorm:"type:text;not null"`
	CorrectIndex int       `gorm:"not null"`
	Repaired     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (QuestionRecord) TableName() string { return "questions" }
