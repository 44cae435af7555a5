// Package storage persists accepted shares and found blocks to
// Postgres via sqlx, the one piece of cross-restart state in this
// repository: pool bookkeeping, not scanhash.Context checkpointing.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Share is one accepted share record.
type Share struct {
	ID         int64     `db:"id"`
	MinerID    string    `db:"miner_id"`
	Address    string    `db:"address"`
	JobID      string    `db:"job_id"`
	Nonce      int64     `db:"nonce"`
	Difficulty int64     `db:"difficulty"`
	IsBlock    bool      `db:"is_block"`
	SubmittedAt time.Time `db:"submitted_at"`
}

// Block is one found block record.
type Block struct {
	ID        int64     `db:"id"`
	Height    int64     `db:"height"`
	Hash      string    `db:"hash"`
	MinerID   string    `db:"miner_id"`
	Address   string    `db:"address"`
	Reward    int64     `db:"reward"`
	FoundAt   time.Time `db:"found_at"`
}

// ShareStore is the Postgres-backed persistence layer for shares and
// blocks, grounded on the teacher's connection.go RunMigrations
// pattern and the monitoring package's sqlx repository pattern.
type ShareStore struct {
	db *sqlx.DB
}

// Open connects to dsn and returns a ShareStore.
func Open(dsn string, maxOpenConns int) (*ShareStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	return &ShareStore{db: db}, nil
}

// NewWithDB wraps an already-open sqlx.DB (or a sqlmock-backed one in
// tests) as a ShareStore.
func NewWithDB(db *sqlx.DB) *ShareStore {
	return &ShareStore{db: db}
}

// Close closes the underlying connection pool.
func (s *ShareStore) Close() error {
	return s.db.Close()
}

// Migrate applies every pending migration under migrationsPath.
func (s *ShareStore) Migrate(migrationsPath string) error {
	driver, err := postgres.WithInstance(s.db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("storage: migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return fmt.Errorf("storage: migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("storage: migrate up: %w", err)
	}
	return nil
}

// InsertShare records an accepted share.
func (s *ShareStore) InsertShare(ctx context.Context, share *Share) error {
	query := `
		INSERT INTO shares (miner_id, address, job_id, nonce, difficulty, is_block, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		share.MinerID, share.Address, share.JobID, share.Nonce, share.Difficulty, share.IsBlock, share.SubmittedAt)
	if err != nil {
		return fmt.Errorf("storage: insert share: %w", err)
	}
	return nil
}

// InsertBlock records a found block and its payout.
func (s *ShareStore) InsertBlock(ctx context.Context, block *Block) error {
	query := `
		INSERT INTO blocks (height, hash, miner_id, address, reward, found_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		block.Height, block.Hash, block.MinerID, block.Address, block.Reward, block.FoundAt)
	if err != nil {
		return fmt.Errorf("storage: insert block: %w", err)
	}
	return nil
}

// ShareCounts returns the valid/invalid share totals recorded so far.
func (s *ShareStore) ShareCounts(ctx context.Context) (valid, invalid int64, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT is_block) AS valid,
			COUNT(*) FILTER (WHERE is_block) AS invalid
		FROM shares
	`
	row := s.db.QueryRowContext(ctx, query)
	if err := row.Scan(&valid, &invalid); err != nil {
		return 0, 0, fmt.Errorf("storage: share counts: %w", err)
	}
	return valid, invalid, nil
}

// RecentBlocks returns the most recently found blocks, newest first.
func (s *ShareStore) RecentBlocks(ctx context.Context, limit int) ([]Block, error) {
	query := `
		SELECT id, height, hash, miner_id, address, reward, found_at
		FROM blocks
		ORDER BY found_at DESC
		LIMIT $1
	`
	var blocks []Block
	if err := s.db.SelectContext(ctx, &blocks, query, limit); err != nil {
		return nil, fmt.Errorf("storage: recent blocks: %w", err)
	}
	return blocks, nil
}
