package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/abhisek/wikiquiz/internal/quizgen"
)

// Provenance identifies where a batch of questions came from.
type Provenance struct {
	UnitKey      string
	SourceID     string
	GroupLabel   string
	Locator      string
	SubUnitLabel string
	ModelID      string
	Prompt       string
}

// QuestionRepo is the archive of generated questions.
type QuestionRepo struct {
	db *gorm.DB
}

// SaveQuestions archives a batch of normalized questions with shared
// provenance. The batch is written in one transaction.
func (r *QuestionRepo) SaveQuestions(ctx context.Context, prov Provenance, qs []quizgen.Question) error {
	return saveQuestions(r.db.WithContext(ctx), prov, qs)
}

func saveQuestions(db *gorm.DB, prov Provenance, qs []quizgen.Question) error {
	if len(qs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	records := make([]QuestionRecord, 0, len(qs))
	for _, q := range qs {
		if len(q.Options) != quizgen.OptionCount {
			return fmt.Errorf("archive question: expected %d options, got %d", quizgen.OptionCount, len(q.Options))
		}
		records = append(records, QuestionRecord{
			UnitKey:      prov.UnitKey,
			SourceID:     prov.SourceID,
			GroupLabel:   prov.GroupLabel,
			Locator:      prov.Locator,
			SubUnitLabel: prov.SubUnitLabel,
			ModelID:      prov.ModelID,
			Prompt:       prov.Prompt,
			Question:     q.Text,
			OptionA:      q.Options[0],
			OptionB:      q.Options[1],
			OptionC:      q.Options[2],
			OptionD:      q.Options[3],
			CorrectIndex: q.CorrectIndex,
			Repaired:     q.Repaired,
			CreatedAt:    now,
		})
	}

	return db.Create(&records).Error
}

// QuestionFilter narrows Query results. Zero values match everything.
type QuestionFilter struct {
	SourceID string
	Locator  string
	ModelID  string
	Limit    int
}

// Query returns archived questions matching the filter, newest first.
func (r *QuestionRepo) Query(ctx context.Context, f QuestionFilter) ([]QuestionRecord, error) {
	db := r.db.WithContext(ctx).Model(&QuestionRecord{})
	if f.SourceID != "" {
		db = db.Where("source_id = ?", f.SourceID)
	}
	if f.Locator != "" {
		db = db.Where("locator = ?", f.Locator)
	}
	if f.ModelID != "" {
		db = db.Where("model_id = ?", f.ModelID)
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}

	var out []QuestionRecord
	if err := db.Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	return out, nil
}

// CountForUnit returns how many questions are archived for a unit key.
func (r *QuestionRepo) CountForUnit(ctx context.Context, unitKey string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&QuestionRecord{}).
		Where("unit_key = ?", unitKey).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
