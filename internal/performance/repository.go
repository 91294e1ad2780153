package performance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"cati-platform/internal/calls"
	"cati-platform/internal/survey"
)

// NOTE: This repository assumes the following tables exist:
// - campaigns
// - call_attempts (provider callbacks plus CDR backfill)
// - dial_queue_entries
// - interview_responses (metadata and answers stored as jsonb)
// - qc_batches

// SQLRepo is the Postgres-backed Repository.
type SQLRepo struct {
	db *sql.DB
}

func NewSQLRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

func (r *SQLRepo) CampaignExists(ctx context.Context, campaignID string) (bool, error) {
	const q = `
SELECT 1
FROM campaigns
WHERE id = $1
`
	var one int
	if err := r.db.QueryRowContext(ctx, q, campaignID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SQLRepo) ListAttemptsByCampaign(ctx context.Context, campaignID string, from, to time.Time) ([]calls.CallAttempt, error) {
	const q = `
SELECT id, campaign_id, interviewer_id, interviewer_name, interviewer_phone,
       from_number, to_number, status_code, status_description,
       hangup_cause, hangup_reason, hangup_by_originator,
       stored_outcome, talk_duration_seconds, queue_entry_id, created_at
FROM call_attempts
WHERE campaign_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at <= $3)
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, campaignID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *SQLRepo) ListQueueEntryIDs(ctx context.Context, campaignID string) ([]string, error) {
	const q = `
SELECT id
FROM dial_queue_entries
WHERE campaign_id = $1
`
	rows, err := r.db.QueryContext(ctx, q, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLRepo) ListAttemptsByQueueEntries(ctx context.Context, queueEntryIDs []string, from, to time.Time) ([]calls.CallAttempt, error) {
	if len(queueEntryIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT id, campaign_id, interviewer_id, interviewer_name, interviewer_phone,
       from_number, to_number, status_code, status_description,
       hangup_cause, hangup_reason, hangup_by_originator,
       stored_outcome, talk_duration_seconds, queue_entry_id, created_at
FROM call_attempts
WHERE queue_entry_id = ANY($1)
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at <= $3)
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, queueEntryIDs, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *SQLRepo) ListResponses(ctx context.Context, campaignID string, from, to time.Time) ([]survey.InterviewResponse, error) {
	const q = `
SELECT id, campaign_id, interviewer_id, interviewer_name, interviewer_phone,
       member_id, mode, approval_status, call_outcome,
       metadata, answers, total_time_spent_seconds,
       batch_id, is_sample_response, created_at
FROM interview_responses
WHERE campaign_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at <= $3)
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, campaignID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []survey.InterviewResponse
	for rows.Next() {
		var (
			resp     survey.InterviewResponse
			mode     string
			metaRaw  []byte
			answers  []byte
			batchID  sql.NullString
			memberID sql.NullString
		)
		if err := rows.Scan(
			&resp.ID,
			&resp.CampaignID,
			&resp.InterviewerID,
			&resp.InterviewerName,
			&resp.InterviewerPhone,
			&memberID,
			&mode,
			&resp.ApprovalStatus,
			&resp.CallOutcome,
			&metaRaw,
			&answers,
			&resp.TotalTimeSpentSeconds,
			&batchID,
			&resp.IsSampleResponse,
			&resp.CreatedAt,
		); err != nil {
			return nil, err
		}
		resp.Mode = survey.InterviewMode(mode)
		resp.MemberID = memberID.String
		resp.BatchID = batchID.String
		// Malformed jsonb degrades to empty, never fails the report.
		if len(metaRaw) > 0 {
			_ = json.Unmarshal(metaRaw, &resp.Metadata)
		}
		if len(answers) > 0 {
			_ = json.Unmarshal(answers, &resp.Answers)
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *SQLRepo) GetBatches(ctx context.Context, batchIDs []string) (map[string]survey.Batch, error) {
	if len(batchIDs) == 0 {
		return map[string]survey.Batch{}, nil
	}
	const q = `
SELECT id, status, remaining_decision
FROM qc_batches
WHERE id = ANY($1)
`
	rows, err := r.db.QueryContext(ctx, q, batchIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]survey.Batch, len(batchIDs))
	for rows.Next() {
		var (
			b         survey.Batch
			status    string
			remaining sql.NullString
		)
		if err := rows.Scan(&b.ID, &status, &remaining); err != nil {
			return nil, err
		}
		b.Status = survey.BatchStatus(status)
		b.RemainingDecision = survey.BatchStatus(remaining.String)
		out[b.ID] = b
	}
	return out, rows.Err()
}

func (r *SQLRepo) GetAttempt(ctx context.Context, id string) (calls.CallAttempt, bool, error) {
	const q = `
SELECT id, campaign_id, interviewer_id, interviewer_name, interviewer_phone,
       from_number, to_number, status_code, status_description,
       hangup_cause, hangup_reason, hangup_by_originator,
       stored_outcome, talk_duration_seconds, queue_entry_id, created_at
FROM call_attempts
WHERE id = $1
`
	var (
		a       calls.CallAttempt
		queueID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.CampaignID,
		&a.InterviewerID,
		&a.InterviewerName,
		&a.InterviewerPhone,
		&a.FromNumber,
		&a.ToNumber,
		&a.StatusCode,
		&a.StatusDescription,
		&a.HangupCause,
		&a.HangupReason,
		&a.HangupByOriginator,
		&a.StoredOutcome,
		&a.TalkDurationSeconds,
		&queueID,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return calls.CallAttempt{}, false, nil
		}
		return calls.CallAttempt{}, false, err
	}
	a.QueueEntryID = queueID.String
	return a, true, nil
}

// SaveAttempt upserts a full attempt row. Merge decisions (callback wins
// over backfill) are made by the caller before saving.
func (r *SQLRepo) SaveAttempt(ctx context.Context, a calls.CallAttempt) error {
	const q = `
INSERT INTO call_attempts (
  id, campaign_id, interviewer_id, interviewer_name, interviewer_phone,
  from_number, to_number, status_code, status_description,
  hangup_cause, hangup_reason, hangup_by_originator,
  stored_outcome, talk_duration_seconds, queue_entry_id, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
)
ON CONFLICT (id)
DO UPDATE SET status_code = EXCLUDED.status_code,
              status_description = EXCLUDED.status_description,
              hangup_cause = EXCLUDED.hangup_cause,
              hangup_reason = EXCLUDED.hangup_reason,
              hangup_by_originator = EXCLUDED.hangup_by_originator,
              talk_duration_seconds = EXCLUDED.talk_duration_seconds
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.CampaignID,
		a.InterviewerID,
		a.InterviewerName,
		a.InterviewerPhone,
		a.FromNumber,
		a.ToNumber,
		a.StatusCode,
		a.StatusDescription,
		a.HangupCause,
		a.HangupReason,
		a.HangupByOriginator,
		a.StoredOutcome,
		a.TalkDurationSeconds,
		nullString(a.QueueEntryID),
		a.CreatedAt,
	)
	return err
}

func scanAttempts(rows *sql.Rows) ([]calls.CallAttempt, error) {
	var out []calls.CallAttempt
	for rows.Next() {
		var (
			a       calls.CallAttempt
			queueID sql.NullString
		)
		if err := rows.Scan(
			&a.ID,
			&a.CampaignID,
			&a.InterviewerID,
			&a.InterviewerName,
			&a.InterviewerPhone,
			&a.FromNumber,
			&a.ToNumber,
			&a.StatusCode,
			&a.StatusDescription,
			&a.HangupCause,
			&a.HangupReason,
			&a.HangupByOriginator,
			&a.StoredOutcome,
			&a.TalkDurationSeconds,
			&queueID,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.QueueEntryID = queueID.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
