package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/milan-history-map/internal/domain/repository"
	"github.com/milan-history-map/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewContentRepositoryForTest creates a content repository with test database and logger
func NewContentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ContentRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewContentRepository(pgDB)
}
