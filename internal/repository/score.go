package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minefield/internal/scores"
)

type scoreRow struct {
	ScoreID    int64     `db:"score_id"`
	PlayerID   *int64    `db:"player_id"`
	Nick       string    `db:"nick"`
	Width      int       `db:"width"`
	Height     int       `db:"height"`
	MineCount  int       `db:"mine_count"`
	Square     int       `db:"square"`
	Time       int       `db:"time"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (r scoreRow) score() scores.Score {
	return scores.Score{
		Nick:       r.Nick,
		Square:     r.Square,
		Time:       r.Time,
		Width:      r.Width,
		Height:     r.Height,
		MineCount:  r.MineCount,
		PlayerID:   r.PlayerID,
		RecordedAt: r.RecordedAt,
	}
}

func (q *Queries) RecordScore(ctx context.Context, s scores.Score) error {
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO score (player_id, nick, width, height, mine_count, square, time)
		VALUES (@player_id, @nick, @width, @height, @mine_count, @square, @time)`,
		pgx.NamedArgs{
			"player_id":  s.PlayerID,
			"nick":       s.Nick,
			"width":      s.Width,
			"height":     s.Height,
			"mine_count": s.MineCount,
			"square":     s.Square,
			"time":       s.Time,
		},
	)
	return err
}

func whereClause(f scores.Filter) (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Nick != nil {
		clauses = append(clauses, "nick = @nick")
		args["nick"] = *f.Nick
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mine_count",
		)
		args["width"] = f.Params.Width
		args["height"] = f.Params.Height
		args["mine_count"] = f.Params.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// Scores lists matching scores, fastest first.
func (q *Queries) Scores(ctx context.Context, f scores.Filter) ([]scores.Score, error) {
	query := "SELECT * FROM score"

	where, args := whereClause(f)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY time, score_id"
	if f.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = f.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[scoreRow])
	if err != nil {
		return nil, err
	}

	res := make([]scores.Score, len(collected))
	for i, r := range collected {
		res[i] = r.score()
	}
	return res, nil
}
