package store

import (
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"gorm.io/datatypes"
)

// SaveRecord is one save slot. Level and gold are copied out of the
// document for listing without decoding it.
type SaveRecord struct {
	Slot      string         `gorm:"primaryKey;size:64"`
	Document  datatypes.JSON `gorm:"not null"`
	Version   string         `gorm:"size:16;not null"`
	Hero      string         `gorm:"size:64"`
	Level     int            `gorm:"not null;default:1"`
	Gold      int            `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (SaveRecord) TableName() string { return "saves" }

// LedgerEntry mirrors one day of the stats history.
type LedgerEntry struct {
	Slot         string `gorm:"primaryKey;size:64"`
	Day          string `gorm:"primaryKey;size:10"`
	XP           int    `gorm:"not null;default:0"`
	Gold         int    `gorm:"not null;default:0"`
	QP           int    `gorm:"not null;default:0"`
	Completed    int    `gorm:"not null;default:0"`
	Fails        int    `gorm:"not null;default:0"`
	FocusMinutes int    `gorm:"not null;default:0"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

func ledgerRow(slot, day string, r engine.HistoryRecord) LedgerEntry {
	return LedgerEntry{
		Slot:         slot,
		Day:          day,
		XP:           r.XP,
		Gold:         r.Gold,
		QP:           r.QP,
		Completed:    r.Completed,
		Fails:        r.Fails,
		FocusMinutes: r.FocusMinutes,
	}
}

// Record converts the row back to the engine's ledger record.
func (e LedgerEntry) Record() engine.HistoryRecord {
	return engine.HistoryRecord{
		XP:           e.XP,
		Gold:         e.Gold,
		QP:           e.QP,
		Completed:    e.Completed,
		Fails:        e.Fails,
		FocusMinutes: e.FocusMinutes,
	}
}
