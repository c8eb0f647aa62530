package store

import (
	"context"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/pkg/errors"
)

// LedgerRepo answers range queries over the daily ledger.
type LedgerRepo struct{ db *DB }

func NewLedgerRepo(db *DB) *LedgerRepo { return &LedgerRepo{db: db} }

// Range returns the rows for slot with from <= day <= to, oldest first.
// Empty bounds are open.
func (r *LedgerRepo) Range(ctx context.Context, slot, from, to string) ([]LedgerEntry, error) {
	q := r.db.gorm.WithContext(ctx).Where("slot = ?", slot)
	if from != "" {
		q = q.Where("day >= ?", from)
	}
	if to != "" {
		q = q.Where("day <= ?", to)
	}
	var out []LedgerEntry
	if err := q.Order("day ASC").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "ledger range")
	}
	return out, nil
}

// Totals sums every ledger row of slot.
func (r *LedgerRepo) Totals(ctx context.Context, slot string) (engine.HistoryRecord, error) {
	var row struct {
		XP           int
		Gold         int
		QP           int
		Completed    int
		Fails        int
		FocusMinutes int
	}
	err := r.db.gorm.WithContext(ctx).Model(&LedgerEntry{}).
		Select(`COALESCE(SUM(xp),0) AS xp, COALESCE(SUM(gold),0) AS gold,
			COALESCE(SUM(qp),0) AS qp, COALESCE(SUM(completed),0) AS completed,
			COALESCE(SUM(fails),0) AS fails, COALESCE(SUM(focus_minutes),0) AS focus_minutes`).
		Where("slot = ?", slot).
		Scan(&row).Error
	if err != nil {
		return engine.HistoryRecord{}, errors.Wrap(err, "ledger totals")
	}
	return engine.HistoryRecord(row), nil
}

// SlotLedger is the ledger of one slot keyed by day.
type SlotLedger struct {
	repo *LedgerRepo
	slot string
}

func (r *LedgerRepo) ForSlot(slot string) SlotLedger { return SlotLedger{repo: r, slot: slot} }

func (l SlotLedger) History(ctx context.Context, from, to string) (map[string]engine.HistoryRecord, error) {
	rows, err := l.repo.Range(ctx, l.slot, from, to)
	if err != nil {
		return nil, err
	}
	out := make(map[string]engine.HistoryRecord, len(rows))
	for _, row := range rows {
		out[row.Day] = row.Record()
	}
	return out, nil
}
