package calls

import "time"

// CallAttempt is one real-world dial attempt reported by the dialing provider.
//
// Discoverability invariant: an attempt belongs to at most one campaign and is
// reachable either through CampaignID directly or through its queue entry's
// campaign. The performance resolver must never count the same attempt twice
// even when both paths surface it.
//
// Attempts are immutable after creation except for late-arriving webhook
// enrichment (hangup cause, talk duration).
type CallAttempt struct {
	ID         string `json:"id" db:"id"`
	CampaignID string `json:"campaign_id,omitempty" db:"campaign_id"`

	// InterviewerID is empty when the provider callback could not be
	// matched to an interviewer. Such attempts still count toward
	// campaign-wide totals.
	InterviewerID    string `json:"interviewer_id,omitempty" db:"interviewer_id"`
	InterviewerName  string `json:"interviewer_name,omitempty" db:"interviewer_name"`
	InterviewerPhone string `json:"interviewer_phone,omitempty" db:"interviewer_phone"`

	FromNumber string `json:"from_number" db:"from_number"`
	ToNumber   string `json:"to_number" db:"to_number"`

	// StatusCode is the provider's raw status, usually a numeric string.
	// Normalization lives in internal/telephony.
	StatusCode        string `json:"status_code" db:"status_code"`
	StatusDescription string `json:"status_description,omitempty" db:"status_description"`
	HangupCause       string `json:"hangup_cause,omitempty" db:"hangup_cause"`
	HangupReason      string `json:"hangup_reason,omitempty" db:"hangup_reason"`

	// HangupByOriginator is set when the provider reports the originating
	// leg ended the call.
	HangupByOriginator bool `json:"hangup_by_originator" db:"hangup_by_originator"`

	// StoredOutcome is an outcome label persisted by earlier processing;
	// the normalizer falls back to it for unrecognized status codes.
	StoredOutcome string `json:"stored_outcome,omitempty" db:"stored_outcome"`

	TalkDurationSeconds int `json:"talk_duration_seconds" db:"talk_duration_seconds"`

	QueueEntryID string `json:"queue_entry_id,omitempty" db:"queue_entry_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasInterviewer reports whether the attempt resolved to an interviewer.
func (a CallAttempt) HasInterviewer() bool { return a.InterviewerID != "" }

// QueueEntry is a respondent contact queued for dialing.
// Created at contact-list ingestion; updated as calls are attempted.
type QueueEntry struct {
	ID         string `json:"id" db:"id"`
	CampaignID string `json:"campaign_id" db:"campaign_id"`

	ContactName  string `json:"contact_name,omitempty" db:"contact_name"`
	ContactPhone string `json:"contact_phone" db:"contact_phone"`

	Status QueueStatus `json:"status" db:"status"`

	// LastAttemptID points at the most recent CallAttempt for this entry.
	LastAttemptID string `json:"last_attempt_id,omitempty" db:"last_attempt_id"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type QueueStatus string

const (
	QueueStatusPending   QueueStatus = "pending"
	QueueStatusDialing   QueueStatus = "dialing"
	QueueStatusCalled    QueueStatus = "called"
	QueueStatusExhausted QueueStatus = "exhausted"
)
