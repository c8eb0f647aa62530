package store

import (
	"context"
	errs "errors"
	"sort"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/DaanHessen/questlog-tui/internal/save"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRepo stores one export document per slot and keeps the ledger
// table in step with the document's history.
type SaveRepo struct{ db *DB }

func NewSaveRepo(db *DB) *SaveRepo { return &SaveRepo{db: db} }

// Save writes st to slot, replacing whatever was there.
func (r *SaveRepo) Save(ctx context.Context, slot string, st engine.State, now time.Time) error {
	doc, err := save.Marshal(st, now)
	if err != nil {
		return errors.Wrap(err, "encode save")
	}
	rec := SaveRecord{
		Slot:      slot,
		Document:  datatypes.JSON(doc),
		Version:   save.Version,
		Hero:      st.Stats.Name,
		Level:     st.Stats.Level,
		Gold:      st.Stats.Gold,
		UpdatedAt: now,
	}
	err = r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			UpdateAll: true,
		}).Create(&rec).Error; err != nil {
			return errors.Wrap(err, "upsert save")
		}
		return syncLedger(tx, slot, st.Stats.History)
	})
	if err != nil {
		return err
	}
	r.db.log.Debug("saved", zap.String("slot", slot), zap.Int("level", rec.Level))
	return nil
}

func syncLedger(tx *gorm.DB, slot string, history map[string]engine.HistoryRecord) error {
	days := make([]string, 0, len(history))
	for day := range history {
		days = append(days, day)
	}
	sort.Strings(days)

	stale := tx.Where("slot = ?", slot)
	if len(days) > 0 {
		stale = stale.Where("day NOT IN ?", days)
	}
	if err := stale.Delete(&LedgerEntry{}).Error; err != nil {
		return errors.Wrap(err, "prune ledger")
	}
	if len(days) == 0 {
		return nil
	}
	rows := make([]LedgerEntry, 0, len(days))
	for _, day := range days {
		rows = append(rows, ledgerRow(slot, day, history[day]))
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}, {Name: "day"}},
		UpdateAll: true,
	}).CreateInBatches(rows, 100).Error; err != nil {
		return errors.Wrap(err, "upsert ledger")
	}
	return nil
}

// Load decodes the document in slot. Missing slots return ErrNotFound.
func (r *SaveRepo) Load(ctx context.Context, slot string, now time.Time) (engine.State, error) {
	var rec SaveRecord
	err := r.db.gorm.WithContext(ctx).First(&rec, "slot = ?", slot).Error
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return engine.State{}, ErrNotFound
	}
	if err != nil {
		return engine.State{}, errors.Wrap(err, "load save")
	}
	st, err := save.Decode(rec.Document, now)
	if err != nil {
		return engine.State{}, errors.Wrapf(err, "decode slot %s", slot)
	}
	return st, nil
}

// List returns every slot without its document, most recent first.
func (r *SaveRepo) List(ctx context.Context) ([]SaveRecord, error) {
	var out []SaveRecord
	err := r.db.gorm.WithContext(ctx).
		Select("slot", "version", "hero", "level", "gold", "updated_at").
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list saves")
	}
	return out, nil
}

// Delete removes slot and its ledger rows.
func (r *SaveRepo) Delete(ctx context.Context, slot string) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("slot = ?", slot).Delete(&LedgerEntry{}).Error; err != nil {
			return errors.Wrap(err, "delete ledger")
		}
		res := tx.Where("slot = ?", slot).Delete(&SaveRecord{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete save")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
