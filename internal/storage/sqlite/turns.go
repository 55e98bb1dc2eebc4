package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/pkg/log"
)

// TurnsRepo persists completed chat turns for audit and the turn log page.
type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

func (r *TurnsRepo) AddTurn(ctx context.Context, turn core.Turn) error {
	query := `INSERT INTO turns (session_id, user_text, reply_text, code, run_result, run_failed)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		turn.SessionID, turn.UserText, turn.ReplyText, turn.Code, turn.RunResult, turn.RunFailed)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// RecentTurns returns the last turns of a session, newest first.
func (r *TurnsRepo) RecentTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	query := `SELECT id, session_id, user_text, reply_text, code, run_result, run_failed, created_at
		FROM turns WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var turn core.Turn
		var code, runResult sql.NullString

		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.UserText, &turn.ReplyText,
			&code, &runResult, &turn.RunFailed, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Code = code.String
		turn.RunResult = runResult.String
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded turns")
	return turns, nil
}
