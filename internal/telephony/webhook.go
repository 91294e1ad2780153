package telephony

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"cati-platform/internal/calls"
)

// StatusCallbackForm captures the subset of dialer status-callback fields we
// care about. The provider posts application/x-www-form-urlencoded.
//
// Keep it minimal and provider-adapter-only. Reconciliation logic is not made
// here; the form is turned into a CallAttempt and handed to storage.
type StatusCallbackForm struct {
	CallID       string
	CampaignID   string
	QueueEntryID string

	From string
	To   string

	Status            string
	StatusDescription string
	HangupCause       string
	HangupReason      string

	// HangupBy is "originator" or "destination" when the provider knows
	// which leg ended the call.
	HangupBy string

	Duration  string
	Timestamp string
}

func ParseStatusCallback(r *http.Request) (StatusCallbackForm, error) {
	if err := r.ParseForm(); err != nil {
		return StatusCallbackForm{}, err
	}
	f := StatusCallbackForm{
		CallID:            r.PostFormValue("CallId"),
		CampaignID:        r.PostFormValue("CampaignId"),
		QueueEntryID:      r.PostFormValue("QueueEntryId"),
		From:              normalizePhone(r.PostFormValue("From")),
		To:                normalizePhone(r.PostFormValue("To")),
		Status:            strings.TrimSpace(r.PostFormValue("Status")),
		StatusDescription: r.PostFormValue("StatusDescription"),
		HangupCause:       r.PostFormValue("HangupCause"),
		HangupReason:      r.PostFormValue("HangupReason"),
		HangupBy:          strings.ToLower(strings.TrimSpace(r.PostFormValue("HangupBy"))),
		Duration:          strings.TrimSpace(r.PostFormValue("Duration")),
		Timestamp:         r.PostFormValue("Timestamp"),
	}
	return f, nil
}

func normalizePhone(s string) string {
	// Providers occasionally send "anonymous" or empty; keep as-is.
	return strings.TrimSpace(s)
}

// ToCallAttempt converts the callback into the attempt record stored for
// reconciliation. occurredAt is used when the provider timestamp is absent or
// unparseable.
func (f StatusCallbackForm) ToCallAttempt(occurredAt time.Time) calls.CallAttempt {
	createdAt := occurredAt
	if f.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, f.Timestamp); err == nil {
			createdAt = ts
		}
	}

	dur, _ := strconv.Atoi(f.Duration)
	if dur < 0 {
		dur = 0
	}

	return calls.CallAttempt{
		ID:                  f.CallID,
		CampaignID:          f.CampaignID,
		QueueEntryID:        f.QueueEntryID,
		FromNumber:          f.From,
		ToNumber:            f.To,
		StatusCode:          f.Status,
		StatusDescription:   f.StatusDescription,
		HangupCause:         f.HangupCause,
		HangupReason:        f.HangupReason,
		HangupByOriginator:  f.HangupBy == "originator",
		TalkDurationSeconds: dur,
		CreatedAt:           createdAt,
	}
}
