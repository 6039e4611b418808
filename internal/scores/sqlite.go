package scores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrBadName = fmt.Errorf("bad name for score table")

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return true
}

// SQLiteStore keeps scores in a single table of a SQLite database.
type SQLiteStore struct {
	mu    sync.Mutex
	table string
	db    *sql.DB
}

func OpenSQLite(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", path)
}

// NewSQLiteStore creates the table if needed. table may only contain Latin
// letters and underscores since it is spliced into the queries.
func NewSQLiteStore(ctx context.Context, db *sql.DB, table string) (*SQLiteStore, error) {
	if !isLetters(table) {
		return nil, ErrBadName
	}

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+table+` (
	score_id    INTEGER PRIMARY KEY AUTOINCREMENT,
	nick        TEXT NOT NULL,
	square      INTEGER NOT NULL,
	time        INTEGER NOT NULL,
	width       INTEGER NOT NULL DEFAULT 0,
	height      INTEGER NOT NULL DEFAULT 0,
	mine_count  INTEGER NOT NULL DEFAULT 0,
	recorded_at TIMESTAMP NOT NULL
);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create score table: %w", err)
	}
	return &SQLiteStore{table: table, db: db}, nil
}

func (s *SQLiteStore) RecordScore(ctx context.Context, score Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if score.RecordedAt.IsZero() {
		score.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.table+` (nick, square, time, width, height, mine_count, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
		score.Nick, score.Square, score.Time,
		score.Width, score.Height, score.MineCount, score.RecordedAt,
	)
	return err
}

func (f Filter) whereClause() (string, []any) {
	clauses := make([]string, 0)
	args := make([]any, 0)
	if f.Nick != nil {
		clauses = append(clauses, "nick = ?")
		args = append(args, *f.Nick)
	}
	if f.Params != nil {
		clauses = append(clauses, "width = ?", "height = ?", "mine_count = ?")
		args = append(args, f.Params.Width, f.Params.Height, f.Params.MineCount)
	}
	return strings.Join(clauses, " AND "), args
}

func (s *SQLiteStore) Scores(ctx context.Context, f Filter) ([]Score, error) {
	query := `SELECT nick, square, time, width, height, mine_count, recorded_at FROM ` + s.table

	where, args := f.whereClause()
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY time, score_id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Score, 0)
	for rows.Next() {
		var sc Score
		if err := rows.Scan(
			&sc.Nick, &sc.Square, &sc.Time,
			&sc.Width, &sc.Height, &sc.MineCount, &sc.RecordedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, sc)
	}
	return res, rows.Err()
}
