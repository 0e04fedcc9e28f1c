package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mediadex/internal/domain"

	_ "modernc.org/sqlite"
)

// searchRowCap bounds how many rows one search can pull from the index.
// It sits above the inline page cap so the assembler can tell whether the
// source was exhausted.
const searchRowCap = 100

// Store implements domain.MediaStore and domain.AuthStore on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Set connection pool (single connection for SQLite)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS media (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id         TEXT NOT NULL,
		file_unique_id  TEXT NOT NULL UNIQUE,
		file_type       TEXT NOT NULL DEFAULT 'document',
		file_name       TEXT,
		file_size       INTEGER DEFAULT 0,
		caption         TEXT,
		chat_id         INTEGER,
		message_id      INTEGER,
		indexed_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_media_indexed ON media(indexed_at);
	CREATE INDEX IF NOT EXISTS idx_media_type ON media(file_type);

	CREATE TABLE IF NOT EXISTS authorized_users (
		user_id     INTEGER PRIMARY KEY,
		granted_by  INTEGER,
		granted_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveMedia inserts a record, refreshing an existing row when the same file
// (by file_unique_id) is posted again.
func (s *Store) SaveMedia(ctx context.Context, rec domain.MediaRecord) error {
	if rec.FileID == "" || rec.FileUniqueID == "" {
		return fmt.Errorf("media record missing file id")
	}
	if rec.FileType == "" {
		rec.FileType = domain.FileTypeDocument
	}
	if rec.IndexedAt.IsZero() {
		rec.IndexedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media (file_id, file_unique_id, file_type, file_name, file_size, caption, chat_id, message_id, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(file_unique_id) DO UPDATE SET
			file_id    = excluded.file_id,
			file_name  = excluded.file_name,
			file_size  = excluded.file_size,
			caption    = excluded.caption,
			chat_id    = excluded.chat_id,
			message_id = excluded.message_id,
			indexed_at = excluded.indexed_at`,
		rec.FileID, rec.FileUniqueID, rec.FileType, rec.FileName, rec.FileSize,
		rec.Caption, rec.ChatID, rec.MessageID, rec.IndexedAt,
	)
	return err
}

// SearchMedia matches term against file names and captions, newest first.
// A non-empty fileType narrows to that exact tag; an unrecognized tag
// therefore matches no rows.
func (s *Store) SearchMedia(ctx context.Context, term, fileType string) ([]domain.MediaRecord, error) {
	pattern := "%" + term + "%"
	query := `SELECT id, file_id, file_unique_id, file_type, file_name, file_size, caption, chat_id, message_id, indexed_at
		 FROM media WHERE (file_name LIKE ? OR caption LIKE ?)`
	args := []interface{}{pattern, pattern}
	if fileType != "" {
		query += ` AND file_type = ?`
		args = append(args, fileType)
	}
	query += ` ORDER BY indexed_at DESC LIMIT ?`
	args = append(args, searchRowCap)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMedia(rows)
}

// GetRecentMedia returns the most recently indexed items, newest first.
func (s *Store) GetRecentMedia(ctx context.Context, limit int) ([]domain.MediaRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_id, file_unique_id, file_type, file_name, file_size, caption, chat_id, message_id, indexed_at
		 FROM media ORDER BY indexed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMedia(rows)
}

func (s *Store) DeleteMediaByUniqueID(ctx context.Context, uniqueID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE file_unique_id = ?`, uniqueID)
	return err
}

func (s *Store) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats := domain.IndexStats{ByType: make(map[string]int64)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file_type, COUNT(*) FROM media GROUP BY file_type`,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var fileType string
		var count int64
		if err := rows.Scan(&fileType, &count); err != nil {
			return stats, err
		}
		stats.ByType[fileType] = count
		stats.TotalMedia += count
	}
	return stats, rows.Err()
}

func scanMedia(rows *sql.Rows) ([]domain.MediaRecord, error) {
	var recs []domain.MediaRecord
	for rows.Next() {
		var rec domain.MediaRecord
		var fileName, caption sql.NullString
		var chatID sql.NullInt64
		var messageID sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.FileID, &rec.FileUniqueID, &rec.FileType,
			&fileName, &rec.FileSize, &caption, &chatID, &messageID, &rec.IndexedAt); err != nil {
			return nil, err
		}
		rec.FileName = fileName.String
		rec.Caption = caption.String
		rec.ChatID = chatID.Int64
		rec.MessageID = int(messageID.Int64)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Store) GrantUser(ctx context.Context, userID, grantedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO authorized_users (user_id, granted_by) VALUES (?, ?)`,
		userID, grantedBy,
	)
	return err
}

func (s *Store) RevokeUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM authorized_users WHERE user_id = ?`, userID)
	return err
}

func (s *Store) HasGrants(ctx context.Context) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM authorized_users)`,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (s *Store) IsGranted(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM authorized_users WHERE user_id = ?`, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
