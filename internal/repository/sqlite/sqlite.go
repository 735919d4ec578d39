package sqlite

import (
	"time"

	"log/slog"

	"github.com/garnizeh/quartermaster/internal/db"
	"github.com/garnizeh/quartermaster/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.RequestRepo = (*SQLiteRepo)(nil)
var _ repository.SettingsRepo = (*SQLiteRepo)(nil)
var _ repository.ProfileRepo = (*SQLiteRepo)(nil)
var _ repository.OperatorRepo = (*SQLiteRepo)(nil)
var _ repository.ReportRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
