package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerUnavailableError reports that the processed-unit ledger could
// not be consulted. Callers must treat this as fatal unless they opted
// into stale reads.
type LedgerUnavailableError struct {
	Op  string
	Err error
}

func (e *LedgerUnavailableError) Error() string {
	return fmt.Sprintf("ledger unavailable during %s: %v", e.Op, e.Err)
}

func (e *LedgerUnavailableError) Unwrap() error {
	return e.Err
}

// LedgerOptions tunes ledger failure behavior.
type LedgerOptions struct {
	// AllowStale downgrades read failures to "not processed" instead of
	// returning LedgerUnavailableError. Risks duplicate work, never
	// loses work.
	AllowStale bool
}

// Ledger is the durable set of processed unit keys.
type Ledger struct {
	db   *gorm.DB
	opts LedgerOptions
}

// Contains reports whether key has already been processed. Fails
// closed: a read error surfaces as LedgerUnavailableError unless
// AllowStale is set, in which case the unit is reported unprocessed.
func (l *Ledger) Contains(ctx context.Context, key string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&ProcessedRecord{}).
		Where("key = ?", key).
		Count(&count).Error
	if err != nil {
		if l.opts.AllowStale {
			return false, nil
		}
		return false, &LedgerUnavailableError{Op: "contains", Err: err}
	}
	return count > 0, nil
}

// errEmptyUnitKey rejects records that would collapse onto one row.
var errEmptyUnitKey = errors.New("mark done: empty unit key")

// markRecord inserts the processed record, ignoring conflicts on the
// key. Reports whether this call actually inserted the row; false means
// another writer owns the key.
func markRecord(db *gorm.DB, rec ProcessedRecord) (bool, error) {
	if rec.Key == "" {
		return false, errEmptyUnitKey
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkDone records key as processed. Marking an already-marked key is
// a no-op, so concurrent or repeated completions of the same unit
// cannot fail the caller. Reports whether this call won the insert.
func (l *Ledger) MarkDone(ctx context.Context, rec ProcessedRecord) (bool, error) {
	inserted, err := markRecord(l.db.WithContext(ctx), rec)
	if err != nil {
		if errors.Is(err, errEmptyUnitKey) {
			return false, err
		}
		return false, &LedgerUnavailableError{Op: "mark done", Err: err}
	}
	return inserted, nil
}

// SourceStats summarizes ledger coverage for one source.
type SourceStats struct {
	SourceID        string         `json:"source_id"`
	TotalDone       int64          `json:"total_done"`
	ByGroup         map[string]int `json:"by_group"`
	LastProcessedAt *time.Time     `json:"last_processed_at,omitempty"`
}

// Stats reports how much of sourceID has been processed.
func (l *Ledger) Stats(ctx context.Context, sourceID string) (*SourceStats, error) {
	stats := &SourceStats{
		SourceID: sourceID,
		ByGroup:  make(map[string]int),
	}

	db := l.db.WithContext(ctx).Model(&ProcessedRecord{}).Where("source_id = ?", sourceID)

	if err := db.Count(&stats.TotalDone).Error; err != nil {
		return nil, &LedgerUnavailableError{Op: "stats", Err: err}
	}

	type groupCount struct {
		GroupLabel string
		N          int
	}
	var groups []groupCount
	err := l.db.WithContext(ctx).
		Model(&ProcessedRecord{}).
		Select("group_label, count(*) as n").
		Where("source_id = ?", sourceID).
		Group("group_label").
		Scan(&groups).Error
	if err != nil {
		return nil, &LedgerUnavailableError{Op: "stats", Err: err}
	}
	for _, g := range groups {
		stats.ByGroup[g.GroupLabel] = g.N
	}

	var last ProcessedRecord
	err = l.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("processed_at DESC").
		First(&last).Error
	switch {
	case err == nil:
		stats.LastProcessedAt = &last.ProcessedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, &LedgerUnavailableError{Op: "stats", Err: err}
	}

	return stats, nil
}
