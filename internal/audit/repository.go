package audit

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes the following table exists:
// - audit_events (INSERT-only; no update or delete statements are written
//   here and none should be added)

type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

func (r *SQLRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, type, actor_user_id, actor_role, ip_address,
  campaign_id, attempt_id, message, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		e.ActorUserID,
		e.ActorRole,
		e.IPAddress,
		e.CampaignID,
		e.AttemptID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
