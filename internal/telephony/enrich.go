package telephony

import "cati-platform/internal/calls"

// ToCallAttempt builds a fresh attempt from a detail record, for calls whose
// status callback was lost entirely.
func (cdr CDR) ToCallAttempt(campaignID string) calls.CallAttempt {
	return calls.CallAttempt{
		ID:                  cdr.CallID,
		CampaignID:          campaignID,
		FromNumber:          cdr.From,
		ToNumber:            cdr.To,
		StatusCode:          cdr.Status,
		StatusDescription:   cdr.StatusDescription,
		HangupCause:         cdr.HangupCause,
		HangupReason:        cdr.HangupReason,
		HangupByOriginator:  cdr.HangupBy == "originator",
		TalkDurationSeconds: cdr.DurationSeconds,
		CreatedAt:           cdr.StartedAt,
	}
}

// EnrichAttempt copies CDR fields onto an attempt whose status callback was
// never delivered. Already-set fields are left alone: attempts are immutable
// except for late-arriving enrichment, and a delivered webhook always wins
// over a backfill.
func EnrichAttempt(a *calls.CallAttempt, cdr CDR) {
	if a == nil {
		return
	}
	if a.StatusCode == "" {
		a.StatusCode = cdr.Status
	}
	if a.StatusDescription == "" {
		a.StatusDescription = cdr.StatusDescription
	}
	if a.HangupCause == "" {
		a.HangupCause = cdr.HangupCause
	}
	if a.HangupReason == "" {
		a.HangupReason = cdr.HangupReason
	}
	if !a.HangupByOriginator && cdr.HangupBy == "originator" {
		a.HangupByOriginator = true
	}
	if a.TalkDurationSeconds == 0 {
		a.TalkDurationSeconds = cdr.DurationSeconds
	}
}
