package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DaanHessen/questlog-tui/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeNow = time.Date(2024, time.March, 6, 9, 30, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(context.Background(), Options{
		Driver: DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testState(t *testing.T) engine.State {
	t.Helper()
	e := engine.New(engine.DefaultRules())
	st := e.DefaultState(engine.NewEnv(storeNow, engine.NewStream(7)))
	st.Stats.Name = "Ada"
	st.Stats.Gold = 42
	st.Stats.History = map[string]engine.HistoryRecord{
		"2024-03-04": {XP: 30, Gold: 5, Completed: 2},
		"2024-03-05": {XP: 10, Gold: 2, QP: 1, Completed: 1, Fails: 1, FocusMinutes: 25},
	}
	return st
}

func TestOpenRejectsBadOptions(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mongo"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{Driver: DriverPostgres})
	assert.Error(t, err)
}

func TestOpenClosesPoolWhenPingFails(t *testing.T) {
	var pool *sql.DB
	orig := pingDB
	pingDB = func(_ context.Context, db *sql.DB) error {
		pool = db
		return errors.New("unreachable")
	}
	t.Cleanup(func() { pingDB = orig })

	_, err := Open(context.Background(), Options{
		Driver: DriverSQLite,
		DSN:    "file:ping_fails?mode=memory&cache=shared",
	})
	require.Error(t, err)
	require.NotNil(t, pool)
	assert.ErrorContains(t, pool.PingContext(context.Background()), "closed")
}

func TestSaveAndLoad(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaveRepo(db)
	ctx := context.Background()
	st := testState(t)

	require.NoError(t, repo.Save(ctx, "main", st, storeNow))

	got, err := repo.Load(ctx, "main", storeNow)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Stats.Name)
	assert.Equal(t, 42, got.Stats.Gold)
	assert.Equal(t, st.Stats.History, got.Stats.History)
	require.Len(t, got.Quests, len(st.Quests))
	for i := range st.Quests {
		assert.Equal(t, st.Quests[i].ID, got.Quests[i].ID)
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaveRepo(db)
	ctx := context.Background()
	st := testState(t)

	require.NoError(t, repo.Save(ctx, "main", st, storeNow))
	st.Stats.Gold = 7
	require.NoError(t, repo.Save(ctx, "main", st, storeNow.Add(time.Minute)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].Gold)
	assert.Equal(t, "Ada", list[0].Hero)
	assert.Empty(t, list[0].Document, "listing skips the document")
}

func TestLoadMissingSlot(t *testing.T) {
	repo := NewSaveRepo(openTestDB(t))
	_, err := repo.Load(context.Background(), "nope", storeNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerFollowsHistory(t *testing.T) {
	db := openTestDB(t)
	saves, ledger := NewSaveRepo(db), NewLedgerRepo(db)
	ctx := context.Background()
	st := testState(t)

	require.NoError(t, saves.Save(ctx, "main", st, storeNow))
	rows, err := ledger.Range(ctx, "main", "", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-04", rows[0].Day)
	assert.Equal(t, 25, rows[1].FocusMinutes)

	totals, err := ledger.Totals(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, engine.HistoryRecord{XP: 40, Gold: 7, QP: 1, Completed: 3, Fails: 1, FocusMinutes: 25}, totals)

	// Days dropped from the document disappear from the ledger.
	st.Stats.History = map[string]engine.HistoryRecord{"2024-03-05": {XP: 99}}
	require.NoError(t, saves.Save(ctx, "main", st, storeNow))
	rows, err = ledger.Range(ctx, "main", "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 99, rows[0].Record().XP)

	st.Stats.History = nil
	require.NoError(t, saves.Save(ctx, "main", st, storeNow))
	rows, err = ledger.Range(ctx, "main", "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLedgerRangeBounds(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewSaveRepo(db).Save(ctx, "main", testState(t), storeNow))

	rows, err := NewLedgerRepo(db).Range(ctx, "main", "2024-03-05", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-05", rows[0].Day)

	rows, err = NewLedgerRepo(db).Range(ctx, "other", "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteSlot(t *testing.T) {
	db := openTestDB(t)
	repo := NewSaveRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "main", testState(t), storeNow))
	require.NoError(t, repo.Delete(ctx, "main"))
	assert.ErrorIs(t, repo.Delete(ctx, "main"), ErrNotFound)

	totals, err := NewLedgerRepo(db).Totals(ctx, "main")
	require.NoError(t, err)
	assert.Zero(t, totals)
}

func TestNewMigratorNeedsDSN(t *testing.T) {
	_, err := NewMigrator("")
	assert.Error(t, err)
}

func TestSlotLedgerHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewSaveRepo(db).Save(ctx, "main", testState(t), storeNow))

	h, err := NewLedgerRepo(db).ForSlot("main").History(ctx, "2024-03-01", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, map[string]engine.HistoryRecord{"2024-03-04": {XP: 30, Gold: 5, Completed: 2}}, h)
}
