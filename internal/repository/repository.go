package repository

import (
	"context"

	"daoview/internal/domain"
)

// DaoRepository defines data access for known DAO entries
type DaoRepository interface {
	// Read operations
	ListDaos(ctx context.Context, network domain.Network) ([]domain.KnownDao, error)
	GetDao(ctx context.Context, address string) (*domain.KnownDao, error)

	// Write operations
	UpsertDao(ctx context.Context, dao *domain.KnownDao) error
	DeleteDao(ctx context.Context, address string) error

	// Bulk operations
	ReplaceSource(ctx context.Context, source string, daos []domain.KnownDao) (int, error)

	// Close releases resources
	Close() error
}
