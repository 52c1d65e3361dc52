package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"folio/internal/modules/position/domain"
	positionout "folio/internal/modules/position/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (positionout.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS positions (
  book_id TEXT NOT NULL,
  device_id TEXT NOT NULL,
  reader_kind TEXT NOT NULL,
  chapter_progress REAL NOT NULL,
  total_progress REAL NOT NULL,
  page INTEGER NOT NULL,
  max_page INTEGER NOT NULL,
  chapter_title TEXT NOT NULL,
  fragment TEXT NOT NULL DEFAULT '',
  timestamp REAL NOT NULL,
  PRIMARY KEY (book_id, device_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create positions table: %w", err)
	}
	return nil
}

const selectColumns = `device_id, reader_kind, chapter_progress, total_progress, page, max_page, chapter_title, fragment, timestamp`

func (s *SQLiteStore) Get(ctx context.Context, bookID, deviceID string) (domain.ReadingPosition, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM positions WHERE book_id = ? AND device_id = ?`, bookID, deviceID)
	position, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReadingPosition{}, false, nil
	}
	if err != nil {
		return domain.ReadingPosition{}, false, fmt.Errorf("get position: %w", err)
	}
	return position, true, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, bookID string, position domain.ReadingPosition) error {
	const stmt = `
INSERT INTO positions (book_id, device_id, reader_kind, chapter_progress, total_progress, page, max_page, chapter_title, fragment, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(book_id, device_id) DO UPDATE SET
  reader_kind=excluded.reader_kind,
  chapter_progress=excluded.chapter_progress,
  total_progress=excluded.total_progress,
  page=excluded.page,
  max_page=excluded.max_page,
  chapter_title=excluded.chapter_title,
  fragment=excluded.fragment,
  timestamp=excluded.timestamp;
`
	_, err := s.db.ExecContext(ctx, stmt,
		bookID,
		position.DeviceID,
		string(position.Kind),
		position.ChapterProgress,
		position.TotalProgress,
		position.Page,
		position.MaxPage,
		position.ChapterTitle,
		position.Fragment,
		position.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, bookID string) ([]domain.ReadingPosition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM positions WHERE book_id = ? ORDER BY device_id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.ReadingPosition{}
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteBook(ctx context.Context, bookID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM positions WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("delete positions: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(row scanner) (domain.ReadingPosition, error) {
	var (
		position domain.ReadingPosition
		kind     string
	)
	err := row.Scan(
		&position.DeviceID,
		&kind,
		&position.ChapterProgress,
		&position.TotalProgress,
		&position.Page,
		&position.MaxPage,
		&position.ChapterTitle,
		&position.Fragment,
		&position.Timestamp,
	)
	position.Kind = domain.ReaderKind(kind)
	return position, err
}
