package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"daoview/internal/domain"
	"daoview/internal/repository"
)

var _ repository.DaoRepository = (*Repository)(nil)

// Repository implements repository.DaoRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daos (
		contract_address TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		network TEXT,
		adapter_type TEXT,
		source TEXT NOT NULL DEFAULT 'registered',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_daos_network ON daos(network);
	CREATE INDEX IF NOT EXISTS idx_daos_source ON daos(source);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ListDaos returns entries for network ordered by name. Entries without a
// network are listed for every network. An empty network lists everything.
func (r *Repository) ListDaos(ctx context.Context, network domain.Network) ([]domain.KnownDao, error) {
	query := `SELECT ` + daoColumns + ` FROM daos`
	var args []interface{}
	if network != "" {
		query += ` WHERE network IS NULL OR network = ?`
		args = append(args, string(network))
	}
	query += ` ORDER BY name COLLATE NOCASE, contract_address`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daos: %w", err)
	}
	defer rows.Close()

	daos := []domain.KnownDao{}
	for rows.Next() {
		var row daoRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan dao: %w", err)
		}
		daos = append(daos, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daos: %w", err)
	}
	return daos, nil
}

// GetDao retrieves a single entry, nil if absent
func (r *Repository) GetDao(ctx context.Context, address string) (*domain.KnownDao, error) {
	var row daoRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+daoColumns+` FROM daos WHERE contract_address = ?`, address,
	).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dao: %w", err)
	}

	dao := row.toDomain()
	return &dao, nil
}

// UpsertDao inserts dao or replaces the entry with the same address.
// The first creation time is kept on replacement.
func (r *Repository) UpsertDao(ctx context.Context, dao *domain.KnownDao) error {
	if dao.Source == "" {
		dao.Source = domain.SourceRegistered
	}
	now := time.Now().UTC()
	if dao.CreatedAt.IsZero() {
		dao.CreatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daos (`+daoColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(contract_address) DO UPDATE SET
			name = excluded.name,
			network = excluded.network,
			adapter_type = excluded.adapter_type,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, append(daoInsertArgs(dao), now.Unix())...)
	if err != nil {
		return fmt.Errorf("failed to upsert dao: %w", err)
	}
	return nil
}

// DeleteDao removes an entry
func (r *Repository) DeleteDao(ctx context.Context, address string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM daos WHERE contract_address = ?`, address)
	if err != nil {
		return fmt.Errorf("failed to delete dao: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("dao %s not found", address)
	}
	return nil
}

// ReplaceSource swaps every entry from source for daos in one transaction.
// Addresses already held by another source are left alone. It returns the
// number of entries written.
func (r *Repository) ReplaceSource(ctx context.Context, source string, daos []domain.KnownDao) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daos WHERE source = ?`, source); err != nil {
		return 0, fmt.Errorf("failed to clear %s entries: %w", source, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daos (`+daoColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(contract_address) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	written := 0
	for i := range daos {
		dao := daos[i]
		dao.Source = source
		if dao.CreatedAt.IsZero() {
			dao.CreatedAt = now
		}

		result, err := stmt.ExecContext(ctx, append(daoInsertArgs(&dao), now.Unix())...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", dao.ContractAddress, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return written, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
