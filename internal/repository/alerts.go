package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/falconstore/oddswatch/internal/domain"
)

// InsertAlertsBatch persists one cycle's derived alerts via COPY.
func (p *Postgres) InsertAlertsBatch(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(alerts))
	for _, a := range alerts {
		details, err := json.Marshal(a.Details)
		if err != nil {
			return domain.ErrInternal("marshal alert details", err)
		}
		rows = append(rows, []any{
			a.MatchID, string(a.Type), a.Title, details, a.CreatedAt,
		})
	}
	_, err := p.db.CopyFrom(ctx,
		pgx.Identifier{"alerts"},
		[]string{"match_id", "type", "title", "details", "created_at"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return domain.ErrStore("insert alerts", err)
	}
	return nil
}
