package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*ShareStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewWithDB(sqlxDB), mock
}

func TestInsertShareExecutesExpectedStatement(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO shares").
		WithArgs("miner-1", "sd1addr", "job-1", int64(42), int64(1000), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.InsertShare(context.Background(), &Share{
		MinerID:     "miner-1",
		Address:     "sd1addr",
		JobID:       "job-1",
		Nonce:       42,
		Difficulty:  1000,
		IsBlock:     false,
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBlockExecutesExpectedStatement(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO blocks").
		WithArgs(int64(100), "deadbeef", "miner-1", "sd1addr", int64(500000000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.InsertBlock(context.Background(), &Block{
		Height:  100,
		Hash:    "deadbeef",
		MinerID: "miner-1",
		Address: "sd1addr",
		Reward:  500000000,
		FoundAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareCountsScansValidAndInvalid(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT.*FILTER.*FROM shares").
		WillReturnRows(sqlmock.NewRows([]string{"valid", "invalid"}).AddRow(10, 2))

	valid, invalid, err := store.ShareCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(10), valid)
	require.Equal(t, int64(2), invalid)
}

func TestRecentBlocksReturnsRows(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "height", "hash", "miner_id", "address", "reward", "found_at"}).
		AddRow(1, 100, "deadbeef", "miner-1", "sd1addr", 500000000, time.Now())

	mock.ExpectQuery("SELECT id, height, hash, miner_id, address, reward, found_at FROM blocks").
		WithArgs(5).
		WillReturnRows(rows)

	blocks, err := store.RecentBlocks(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, "deadbeef", blocks[0].Hash)
}
