package roster

import (
	"context"
	"database/sql"

	"cati-platform/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
// - interviewers
// with UNIQUE (id).

type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

func (r *SQLRepo) UpsertAll(ctx context.Context, interviewers []Interviewer) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const q = `
INSERT INTO interviewers (id, name, phone, supervisor_id, joined_on, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name,
              phone = EXCLUDED.phone,
              supervisor_id = EXCLUDED.supervisor_id,
              joined_on = EXCLUDED.joined_on,
              updated_at = EXCLUDED.updated_at
`
		for _, iv := range interviewers {
			if _, err := tx.ExecContext(ctx, q,
				iv.ID,
				iv.Name,
				iv.Phone,
				iv.SupervisorID,
				iv.JoinedOn,
				iv.CreatedAt,
				iv.UpdatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLRepo) ListManagedIDs(ctx context.Context, supervisorID string) ([]string, error) {
	const q = `
SELECT id
FROM interviewers
WHERE supervisor_id = $1
ORDER BY id
`
	rows, err := r.db.QueryContext(ctx, q, supervisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
